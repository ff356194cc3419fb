package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return parsed
}

func TestCreateEntry_Success(t *testing.T) {
	body := `{"account_id":"` + uuid.NewString() + `","amount":"30","entry_type":"expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/entries", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockEntryService{}
	handler := NewEntryHandler(mockService, respondJSON, respondError)
	handler.CreateEntry(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "expense", mockService.lastCreated.Type)
	assert.Equal(t, "user-1", mockService.lastCreated.UserID)
}

func TestCreateEntry_LegacyTypeAlias(t *testing.T) {
	body := `{"account_id":"` + uuid.NewString() + `","amount":"30","type":"income"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/entries", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockEntryService{}
	handler := NewEntryHandler(mockService, respondJSON, respondError)
	handler.CreateEntry(w, req)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
	assert.Equal(t, "income", mockService.lastCreated.Type)
}

func TestCreateEntry_MissingUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/protected/entries", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler := NewEntryHandler(&MockEntryService{}, respondJSON, respondError)
	handler.CreateEntry(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestCreateEntry_InvalidAccountID(t *testing.T) {
	body := `{"account_id":"not-a-uuid","amount":"30","entry_type":"expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/entries", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	handler := NewEntryHandler(&MockEntryService{}, respondJSON, respondError)
	handler.CreateEntry(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestCreateEntry_InsufficientFundsMapsTo422(t *testing.T) {
	body := `{"account_id":"` + uuid.NewString() + `","amount":"3000","entry_type":"expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/entries", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockEntryService{createErr: ledgerErrors.NewInsufficientFundsError("Insufficient funds")}
	handler := NewEntryHandler(mockService, respondJSON, respondError)
	handler.CreateEntry(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Insufficient funds", response["message"])
}

func TestUpdateEntry_NotFoundMapsTo404(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/protected/entries/"+uuid.NewString(), strings.NewReader(`{"amount":"25"}`))
	req.SetPathValue("entryID", uuid.NewString())
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockEntryService{updateErr: ledgerErrors.NewNotFoundError("entry")}
	handler := NewEntryHandler(mockService, respondJSON, respondError)
	handler.UpdateEntry(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestUpdateEntry_InvalidPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/protected/entries/nope", strings.NewReader(`{}`))
	req.SetPathValue("entryID", "nope")
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	handler := NewEntryHandler(&MockEntryService{}, respondJSON, respondError)
	handler.UpdateEntry(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestDeleteEntry_Success(t *testing.T) {
	entryID := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/protected/entries/"+entryID, nil)
	req.SetPathValue("entryID", entryID)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	handler := NewEntryHandler(&MockEntryService{}, respondJSON, respondError)
	handler.DeleteEntry(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestWithdraw_ConflictMapsTo409(t *testing.T) {
	body := `{"from_account_id":"` + uuid.NewString() + `","amount":"40"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/withdraw", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockEntryService{withdrawErr: ledgerErrors.NewConflictError("ambiguous target")}
	handler := NewEntryHandler(mockService, respondJSON, respondError)
	handler.Withdraw(w, req)

	assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestWithdraw_DefaultsToCashTarget(t *testing.T) {
	body := `{"from_account_id":"` + uuid.NewString() + `","amount":"40"}`
	req := httptest.NewRequest(http.MethodPost, "/api/protected/withdraw", strings.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockEntryService{}
	handler := NewEntryHandler(mockService, respondJSON, respondError)
	handler.Withdraw(w, req)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
	assert.True(t, mockService.lastWithdraw.Equal(decimalFromString(t, "40")))
}

func TestGetEntries_InvalidFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/protected/entries?start_date=yesterday", nil)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	handler := NewEntryHandler(&MockEntryService{}, respondJSON, respondError)
	handler.GetEntries(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestGetEntries_StoreUnavailableMapsTo503(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/protected/entries", nil)
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	mockService := &MockEntryService{listErr: ledgerErrors.NewStoreUnavailableError("entry list", assert.AnError)}
	handler := NewEntryHandler(mockService, respondJSON, respondError)
	handler.GetEntries(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode)
}
