package application

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

// defaultAccounts are created once per user on first sign-in.
var defaultAccounts = []struct {
	Name string
	Type string
}{
	{Name: "Cash on Hand", Type: domain.AccountTypeCash},
	{Name: "Bank Account", Type: domain.AccountTypeBank},
}

type AccountService struct {
	accountRepo domain.AccountRepository
	entryRepo   domain.EntryRepository
}

func NewAccountService(accountRepo domain.AccountRepository, entryRepo domain.EntryRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo, entryRepo: entryRepo}
}

func (s *AccountService) CreateAccount(ctx context.Context, account *domain.Account) error {
	account.ID = uuid.New()
	account.CurrentBalance = account.OpeningBalance
	account.CreatedAt = time.Now().UTC()
	if err := account.Validate(); err != nil {
		return err
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return ledgerErrors.NewStoreUnavailableError("account create", err)
	}
	return nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || ledgerErrors.IsNotFoundError(err) {
			return nil, ledgerErrors.NewNotFoundError("account")
		}
		return nil, ledgerErrors.NewStoreUnavailableError("account lookup", err)
	}
	return account, nil
}

func (s *AccountService) GetUserAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailableError("account list", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount edits name, type and metadata. Balances are owned by the
// Recalculator and are never writable here.
func (s *AccountService) UpdateAccount(ctx context.Context, accountID uuid.UUID, userID string, name, accountType *string, metadata map[string]string) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		account.Name = *name
	}
	if accountType != nil {
		account.Type = *accountType
	}
	if metadata != nil {
		account.Metadata = metadata
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, ledgerErrors.NewStoreUnavailableError("account update", err)
	}
	return account, nil
}

// DeleteAccount removes an account that no ledger entry references.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID uuid.UUID, userID string) error {
	if _, err := s.GetAccount(ctx, accountID, userID); err != nil {
		return err
	}
	count, err := s.entryRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return ledgerErrors.NewStoreUnavailableError("entry count", err)
	}
	if count > 0 {
		return ledgerErrors.NewConflictError("Account still has ledger entries")
	}
	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return ledgerErrors.NewStoreUnavailableError("account delete", err)
	}
	return nil
}

// EnsureDefaultAccounts idempotently creates the standard cash and bank
// accounts a fresh user starts with. Existing accounts of the same type are
// left alone, so repeated sign-in finalization is safe.
func (s *AccountService) EnsureDefaultAccounts(ctx context.Context, userID string) error {
	for _, def := range defaultAccounts {
		existing, err := s.accountRepo.FindByUserAndType(ctx, userID, def.Type)
		if err != nil {
			return ledgerErrors.NewStoreUnavailableError("account lookup", err)
		}
		if len(existing) > 0 {
			continue
		}
		account := &domain.Account{
			ID:             uuid.New(),
			UserID:         userID,
			Name:           def.Name,
			Type:           def.Type,
			OpeningBalance: decimal.Zero,
			CurrentBalance: decimal.Zero,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return ledgerErrors.NewStoreUnavailableError("account create", err)
		}
	}
	return nil
}
