package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/syaswanth456/moneymanager/internal/events"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
	"github.com/syaswanth456/moneymanager/internal/ledger/infrastructure"
)

const testUserID = "user-1"

type testEnv struct {
	store        *infrastructure.MemoryStore
	recalculator *Recalculator
	entries      *EntryService
	accounts     *AccountService
	categories   *CategoryService
	summary      *SummaryService
	publisher    *recordingPublisher
}

type recordingPublisher struct {
	published []events.EntryMutation
}

func (p *recordingPublisher) Publish(topic string, event any) error {
	if mutation, ok := event.(events.EntryMutation); ok {
		p.published = append(p.published, mutation)
	}
	return nil
}

func newTestEnv() *testEnv {
	store := infrastructure.NewMemoryStore()
	recalculator := NewRecalculator(store.Accounts(), store.Entries())
	publisher := &recordingPublisher{}
	return &testEnv{
		store:        store,
		recalculator: recalculator,
		entries:      NewEntryService(store.Entries(), store.Accounts(), store.Categories(), recalculator, publisher),
		accounts:     NewAccountService(store.Accounts(), store.Entries()),
		categories:   NewCategoryService(store.Categories()),
		summary:      NewSummaryService(store.Entries()),
		publisher:    publisher,
	}
}

func (env *testEnv) createAccount(t *testing.T, name, accountType string, opening string) *domain.Account {
	t.Helper()
	account := &domain.Account{
		ID:             uuid.New(),
		UserID:         testUserID,
		Name:           name,
		Type:           accountType,
		OpeningBalance: decimal.RequireFromString(opening),
		CurrentBalance: decimal.RequireFromString(opening),
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, env.store.Accounts().Create(context.Background(), account))
	return account
}

func (env *testEnv) balance(t *testing.T, accountID uuid.UUID) decimal.Decimal {
	t.Helper()
	account, err := env.store.Accounts().FindByID(context.Background(), accountID, testUserID)
	require.NoError(t, err)
	return account.CurrentBalance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
