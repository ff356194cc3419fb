package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

const (
	AccountTypeCash       = "cash"
	AccountTypeBank       = "bank"
	AccountTypeCreditCard = "credit_card"
	AccountTypeOther      = "other"
)

func IsValidAccountType(accountType string) bool {
	switch accountType {
	case AccountTypeCash, AccountTypeBank, AccountTypeCreditCard, AccountTypeOther:
		return true
	}
	return false
}

type Account struct {
	ID             uuid.UUID         `json:"id"`
	UserID         string            `json:"user_id"`
	Name           string            `json:"name"`
	Type           string            `json:"account_type"`
	OpeningBalance decimal.Decimal   `json:"opening_balance"`
	CurrentBalance decimal.Decimal   `json:"current_balance"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (a *Account) Validate() error {
	if a.Name == "" {
		return ledgerErrors.NewValidationError("Account name is required")
	}
	if len(a.Name) > 100 {
		return ledgerErrors.NewValidationError("Account name must be of length less than 100")
	}
	if !IsValidAccountType(a.Type) {
		return ledgerErrors.NewValidationError("Account type must be 'cash', 'bank', 'credit_card' or 'other'")
	}
	return nil
}

// OverdraftAllowed reports whether the account may carry a negative balance.
// Credit cards and "other" accounts may; cash and bank accounts get the
// advisory insufficient-funds check on entry creation.
func (a *Account) OverdraftAllowed() bool {
	return a.Type == AccountTypeCreditCard || a.Type == AccountTypeOther
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, accountID uuid.UUID, userID string) (*Account, error)
	FindByUser(ctx context.Context, userID string) ([]Account, error)
	FindByUserAndType(ctx context.Context, userID, accountType string) ([]Account, error)
	Update(ctx context.Context, account *Account) error
	UpdateBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, accountID uuid.UUID) error
}
