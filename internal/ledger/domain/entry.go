package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

const (
	EntryTypeIncome   = "income"
	EntryTypeExpense  = "expense"
	EntryTypeTransfer = "transfer"
)

func IsValidEntryType(entryType string) bool {
	return entryType == EntryTypeIncome || entryType == EntryTypeExpense || entryType == EntryTypeTransfer
}

// LedgerEntry is a record of a single financial movement. Amount is a
// positive magnitude; direction comes from Type. A transfer moves Amount
// out of AccountID and into RelatedAccountID.
type LedgerEntry struct {
	ID               uuid.UUID       `json:"id"`
	UserID           string          `json:"user_id"`
	AccountID        uuid.UUID       `json:"account_id"`
	RelatedAccountID *uuid.UUID      `json:"related_account_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Type             string          `json:"entry_type"`
	CategoryID       *uuid.UUID      `json:"category_id,omitempty"`
	Note             string          `json:"note,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (e *LedgerEntry) Validate() error {
	if e.AccountID == uuid.Nil {
		return ledgerErrors.NewValidationError("Entry account_id is required")
	}
	if e.Amount.IsZero() {
		return ledgerErrors.NewValidationError("Entry amount must be non-zero")
	}
	if e.Amount.IsNegative() {
		return ledgerErrors.NewValidationError("Entry amount must be positive, direction is given by entry_type")
	}
	if !IsValidEntryType(e.Type) {
		return ledgerErrors.NewValidationError("Entry type must be 'income', 'expense' or 'transfer'")
	}
	if len(e.Note) > 200 {
		return ledgerErrors.NewValidationError("Entry note must be of length less than 200")
	}
	if e.Type == EntryTypeTransfer {
		if e.RelatedAccountID == nil {
			return ledgerErrors.NewValidationError("Transfer entries require related_account_id")
		}
		if *e.RelatedAccountID == e.AccountID {
			return ledgerErrors.NewValidationError("Transfer related_account_id must differ from account_id")
		}
	} else if e.RelatedAccountID != nil {
		return ledgerErrors.NewValidationError("Only transfer entries may set related_account_id")
	}
	return nil
}

// SignedAmount is the entry's contribution to its primary account's balance:
// income adds, expense and transfer subtract.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Type == EntryTypeIncome {
		return e.Amount
	}
	return e.Amount.Neg()
}

// ContributionTo is the entry's contribution to the balance of accountID.
// The related side of a transfer receives the amount with inverted sign,
// so a transfer conserves total money across both accounts. Zero when the
// entry does not reference accountID at all.
func (e *LedgerEntry) ContributionTo(accountID uuid.UUID) decimal.Decimal {
	if e.AccountID == accountID {
		return e.SignedAmount()
	}
	if e.RelatedAccountID != nil && *e.RelatedAccountID == accountID {
		return e.SignedAmount().Neg()
	}
	return decimal.Zero
}

// AccountIDs lists every account the entry references.
func (e *LedgerEntry) AccountIDs() []uuid.UUID {
	ids := []uuid.UUID{e.AccountID}
	if e.RelatedAccountID != nil {
		ids = append(ids, *e.RelatedAccountID)
	}
	return ids
}

// EntryFilter narrows entry listings. Zero values mean "no constraint".
type EntryFilter struct {
	AccountID  uuid.UUID
	CategoryID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Limit      int
}

type EntryRepository interface {
	Insert(ctx context.Context, entry *LedgerEntry) error
	FindByID(ctx context.Context, entryID uuid.UUID, userID string) (*LedgerEntry, error)
	// FindByAccount returns every entry referencing accountID as primary or
	// related account, scoped to userID.
	FindByAccount(ctx context.Context, accountID uuid.UUID, userID string) ([]LedgerEntry, error)
	List(ctx context.Context, userID string, filter EntryFilter) ([]LedgerEntry, error)
	Update(ctx context.Context, entry *LedgerEntry) error
	Delete(ctx context.Context, entryID uuid.UUID) error
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error)
}
