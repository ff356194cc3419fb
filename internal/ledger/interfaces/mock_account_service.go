package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

type MockAccountService struct {
	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error

	accounts    []domain.Account
	lastCreated *domain.Account
}

func (m *MockAccountService) CreateAccount(ctx context.Context, account *domain.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	account.ID = uuid.New()
	account.CurrentBalance = account.OpeningBalance
	m.lastCreated = account
	return nil
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID uuid.UUID, userID string) (*domain.Account, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &domain.Account{ID: accountID, UserID: userID}, nil
}

func (m *MockAccountService) GetUserAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.accounts, nil
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID uuid.UUID, userID string, name, accountType *string, metadata map[string]string) (*domain.Account, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	account := &domain.Account{ID: accountID, UserID: userID}
	if name != nil {
		account.Name = *name
	}
	return account, nil
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID uuid.UUID, userID string) error {
	return m.deleteErr
}

type MockRecalculator struct {
	balance decimal.Decimal
	err     error
}

func (m *MockRecalculator) Recalculate(ctx context.Context, accountID uuid.UUID, userID string) (decimal.Decimal, error) {
	if m.err != nil {
		return decimal.Zero, m.err
	}
	return m.balance, nil
}
