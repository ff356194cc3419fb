package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

func TestCreateAccount_Success(t *testing.T) {
	body := `{"name":"Savings","account_type":"bank","opening_balance":"250.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/accounts", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockAccountService{}
	handler := NewAccountHandler(mockService, &MockRecalculator{}, respondJSON, respondError)
	handler.CreateAccount(w, req)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
	assert.Equal(t, domain.AccountTypeBank, mockService.lastCreated.Type)
	assert.True(t, mockService.lastCreated.OpeningBalance.Equal(decimalFromString(t, "250.50")))
}

func TestCreateAccount_LegacyAliases(t *testing.T) {
	body := `{"name":"Wallet","type":"cash","balance":"12"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/accounts", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockAccountService{}
	handler := NewAccountHandler(mockService, &MockRecalculator{}, respondJSON, respondError)
	handler.CreateAccount(w, req)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
	assert.Equal(t, domain.AccountTypeCash, mockService.lastCreated.Type)
	assert.True(t, mockService.lastCreated.OpeningBalance.Equal(decimalFromString(t, "12")))
}

func TestCreateAccount_ValidationErrorMapsTo400(t *testing.T) {
	body := `{"name":"","account_type":"bank"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/accounts", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockAccountService{createErr: ledgerErrors.NewValidationError("Account name is required")}
	handler := NewAccountHandler(mockService, &MockRecalculator{}, respondJSON, respondError)
	handler.CreateAccount(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Account name is required", response["message"])
}

func TestGetAccounts_Success(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/protected/accounts", nil)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockAccountService{accounts: []domain.Account{
		{ID: uuid.New(), Name: "Cash on Hand", Type: domain.AccountTypeCash},
		{ID: uuid.New(), Name: "Bank Account", Type: domain.AccountTypeBank},
	}}
	handler := NewAccountHandler(mockService, &MockRecalculator{}, respondJSON, respondError)
	handler.GetAccounts(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data []domain.Account `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Len(t, response.Data, 2)
}

func TestDeleteAccount_ConflictMapsTo409(t *testing.T) {
	accountID := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/protected/accounts/"+accountID, nil)
	req.SetPathValue("accountID", accountID)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockAccountService{deleteErr: ledgerErrors.NewConflictError("Account still has ledger entries")}
	handler := NewAccountHandler(mockService, &MockRecalculator{}, respondJSON, respondError)
	handler.DeleteAccount(w, req)

	assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestRecalculateAccount_Success(t *testing.T) {
	accountID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/protected/accounts/"+accountID+"/recalculate", nil)
	req.SetPathValue("accountID", accountID)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	handler := NewAccountHandler(&MockAccountService{}, &MockRecalculator{balance: decimalFromString(t, "82.55")}, respondJSON, respondError)
	handler.RecalculateAccount(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data struct {
			CurrentBalance string `json:"current_balance"`
		} `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "82.55", response.Data.CurrentBalance)
}

func TestRecalculateAccount_NotFound(t *testing.T) {
	accountID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/protected/accounts/"+accountID+"/recalculate", nil)
	req.SetPathValue("accountID", accountID)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	handler := NewAccountHandler(&MockAccountService{}, &MockRecalculator{err: ledgerErrors.NewNotFoundError("account")}, respondJSON, respondError)
	handler.RecalculateAccount(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}
