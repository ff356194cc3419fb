package interfaces

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, accountID uuid.UUID, userID string) (*domain.Account, error)
	GetUserAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID uuid.UUID, userID string, name, accountType *string, metadata map[string]string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID uuid.UUID, userID string) error
}

type RecalculatorInterface interface {
	Recalculate(ctx context.Context, accountID uuid.UUID, userID string) (decimal.Decimal, error)
}

type AccountHandler struct {
	service      AccountServiceInterface
	recalculator RecalculatorInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewAccountHandler(
	service AccountServiceInterface,
	recalculator RecalculatorInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *AccountHandler {
	if service == nil || recalculator == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &AccountHandler{
		service:      service,
		recalculator: recalculator,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// accountRequest accepts both the canonical field names and the legacy
// aliases ("type", "balance") older prototypes of the API used.
type accountRequest struct {
	Name           string            `json:"name"`
	AccountType    string            `json:"account_type"`
	LegacyType     string            `json:"type"`
	OpeningBalance decimal.Decimal   `json:"opening_balance"`
	LegacyBalance  decimal.Decimal   `json:"balance"`
	Metadata       map[string]string `json:"metadata"`
}

func (req *accountRequest) accountType() string {
	if req.AccountType != "" {
		return req.AccountType
	}
	return req.LegacyType
}

func (req *accountRequest) openingBalance() decimal.Decimal {
	if !req.OpeningBalance.IsZero() {
		return req.OpeningBalance
	}
	return req.LegacyBalance
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account := &domain.Account{
		UserID:         userID,
		Name:           req.Name,
		Type:           req.accountType(),
		OpeningBalance: req.openingBalance(),
		Metadata:       req.Metadata,
	}
	if err := h.service.CreateAccount(r.Context(), account); err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		log.Println("Error during account creation:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Account successfully created.",
		"data":    account,
	})
}

func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accounts, err := h.service.GetUserAccounts(r.Context(), userID)
	if err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve accounts")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   accounts,
	})
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.pathAccount(w, r)
	if !ok {
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID, userID)
	if err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   account,
	})
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.pathAccount(w, r)
	if !ok {
		return
	}
	var req struct {
		Name        *string           `json:"name"`
		AccountType *string           `json:"account_type"`
		LegacyType  *string           `json:"type"`
		Metadata    map[string]string `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	accountType := req.AccountType
	if accountType == nil {
		accountType = req.LegacyType
	}

	account, err := h.service.UpdateAccount(r.Context(), accountID, userID, req.Name, accountType, req.Metadata)
	if err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Account successfully updated.",
		"data":    account,
	})
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.pathAccount(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(r.Context(), accountID, userID); err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Account successfully deleted.",
	})
}

// RecalculateAccount re-derives the stored balance from the full entry set.
// It is the manual repair hook for balances left stale by a failed
// post-mutation recalculation.
func (h *AccountHandler) RecalculateAccount(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.pathAccount(w, r)
	if !ok {
		return
	}

	balance, err := h.recalculator.Recalculate(r.Context(), accountID, userID)
	if err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to recalculate balance")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"account_id":      accountID,
			"current_balance": balance,
		},
	})
}

func (h *AccountHandler) pathAccount(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return "", uuid.Nil, false
	}
	accountID, err := uuid.Parse(r.PathValue("accountID"))
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Account not found")
		return "", uuid.Nil, false
	}
	return userID, accountID, true
}
