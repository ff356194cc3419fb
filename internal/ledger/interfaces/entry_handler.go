package interfaces

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/application"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

type EntryServiceInterface interface {
	CreateEntry(ctx context.Context, entry *domain.LedgerEntry) error
	UpdateEntry(ctx context.Context, entryID uuid.UUID, userID string, patch application.EntryPatch) (*domain.LedgerEntry, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID, userID string) error
	WithdrawToCash(ctx context.Context, userID string, fromAccountID uuid.UUID, toAccountType string, amount decimal.Decimal) (*domain.LedgerEntry, error)
	GetEntry(ctx context.Context, entryID uuid.UUID, userID string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, userID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error)
}

type EntryHandler struct {
	service      EntryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewEntryHandler(
	service EntryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *EntryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &EntryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// entryRequest accepts the canonical field names plus the legacy "type"
// alias for entry_type.
type entryRequest struct {
	AccountID        string          `json:"account_id"`
	RelatedAccountID string          `json:"related_account_id"`
	Amount           decimal.Decimal `json:"amount"`
	EntryType        string          `json:"entry_type"`
	LegacyType       string          `json:"type"`
	CategoryID       string          `json:"category_id"`
	Note             string          `json:"note"`
}

func (req *entryRequest) entryType() string {
	if req.EntryType != "" {
		return req.EntryType
	}
	return req.LegacyType
}

func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid account_id")
		return
	}
	entry := &domain.LedgerEntry{
		UserID:    userID,
		AccountID: accountID,
		Amount:    req.Amount,
		Type:      req.entryType(),
		Note:      req.Note,
	}
	if req.RelatedAccountID != "" {
		relatedID, err := uuid.Parse(req.RelatedAccountID)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid related_account_id")
			return
		}
		entry.RelatedAccountID = &relatedID
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid category_id")
			return
		}
		entry.CategoryID = &categoryID
	}

	if err := h.service.CreateEntry(r.Context(), entry); err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		log.Println("Error during entry creation:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Entry successfully created.",
		"data":    entry,
	})
}

func (h *EntryHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, err := parseEntryFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.service.ListEntries(r.Context(), userID, filter)
	if err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve entries")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   entries,
	})
}

func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := h.pathEntry(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount     *decimal.Decimal `json:"amount"`
		EntryType  *string          `json:"entry_type"`
		LegacyType *string          `json:"type"`
		CategoryID *string          `json:"category_id"`
		Note       *string          `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := application.EntryPatch{
		Amount: req.Amount,
		Note:   req.Note,
	}
	patch.Type = req.EntryType
	if patch.Type == nil {
		patch.Type = req.LegacyType
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			nilID := uuid.Nil
			patch.CategoryID = &nilID
		} else {
			categoryID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				h.respondError(w, http.StatusBadRequest, "Invalid category_id")
				return
			}
			patch.CategoryID = &categoryID
		}
	}

	entry, err := h.service.UpdateEntry(r.Context(), entryID, userID, patch)
	if err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Entry successfully updated.",
		"data":    entry,
	})
}

func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := h.pathEntry(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteEntry(r.Context(), entryID, userID); err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Entry successfully deleted.",
	})
}

func (h *EntryHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		FromAccountID string          `json:"from_account_id"`
		ToAccountType string          `json:"to_account_type"`
		Amount        decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fromAccountID, err := uuid.Parse(req.FromAccountID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid from_account_id")
		return
	}
	toAccountType := req.ToAccountType
	if toAccountType == "" {
		toAccountType = domain.AccountTypeCash
	}

	entry, err := h.service.WithdrawToCash(r.Context(), userID, fromAccountID, toAccountType, req.Amount)
	if err != nil {
		if status, message, known := serviceErrorStatus(err); known {
			h.respondError(w, status, message)
			return
		}
		log.Println("Error during withdrawal:", err.Error())
		h.respondError(w, http.StatusInternalServerError, "Failed to withdraw")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Withdrawal successfully recorded.",
		"data":    entry,
	})
}

func (h *EntryHandler) pathEntry(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return "", uuid.Nil, false
	}
	entryID, err := uuid.Parse(r.PathValue("entryID"))
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Entry not found")
		return "", uuid.Nil, false
	}
	return userID, entryID, true
}

func parseEntryFilter(r *http.Request) (domain.EntryFilter, error) {
	var filter domain.EntryFilter

	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		parsed, err := uuid.Parse(accountID)
		if err != nil {
			return filter, errInvalidFilter("account_id")
		}
		filter.AccountID = parsed
	}
	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		parsed, err := uuid.Parse(categoryID)
		if err != nil {
			return filter, errInvalidFilter("category_id")
		}
		filter.CategoryID = parsed
	}
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return filter, errInvalidFilter("start_date")
		}
		filter.StartDate = parsed
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return filter, errInvalidFilter("end_date")
		}
		// Inclusive through end of day.
		filter.EndDate = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 0 {
			return filter, errInvalidFilter("limit")
		}
		filter.Limit = parsed
	}
	return filter, nil
}

type filterError string

func (e filterError) Error() string { return "Invalid " + string(e) + " format" }

func errInvalidFilter(field string) error { return filterError(field) }
