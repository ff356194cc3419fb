package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/application"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

type MockEntryService struct {
	createErr   error
	updateErr   error
	deleteErr   error
	withdrawErr error
	listErr     error

	entries      []domain.LedgerEntry
	lastCreated  *domain.LedgerEntry
	lastPatch    application.EntryPatch
	lastWithdraw decimal.Decimal
}

func (m *MockEntryService) CreateEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	entry.ID = uuid.New()
	m.lastCreated = entry
	return nil
}

func (m *MockEntryService) UpdateEntry(ctx context.Context, entryID uuid.UUID, userID string, patch application.EntryPatch) (*domain.LedgerEntry, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.lastPatch = patch
	return &domain.LedgerEntry{ID: entryID, UserID: userID}, nil
}

func (m *MockEntryService) DeleteEntry(ctx context.Context, entryID uuid.UUID, userID string) error {
	return m.deleteErr
}

func (m *MockEntryService) WithdrawToCash(ctx context.Context, userID string, fromAccountID uuid.UUID, toAccountType string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	if m.withdrawErr != nil {
		return nil, m.withdrawErr
	}
	m.lastWithdraw = amount
	return &domain.LedgerEntry{ID: uuid.New(), UserID: userID, AccountID: fromAccountID, Amount: amount, Type: domain.EntryTypeTransfer}, nil
}

func (m *MockEntryService) GetEntry(ctx context.Context, entryID uuid.UUID, userID string) (*domain.LedgerEntry, error) {
	return &domain.LedgerEntry{ID: entryID, UserID: userID}, nil
}

func (m *MockEntryService) ListEntries(ctx context.Context, userID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries, nil
}
