package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

func TestGetFinancialSummary(t *testing.T) {
	env := newTestEnv()
	bank := env.createAccount(t, "Bank Account", domain.AccountTypeBank, "1000")
	cash := env.createAccount(t, "Cash on Hand", domain.AccountTypeCash, "0")

	for _, e := range []*domain.LedgerEntry{
		{UserID: testUserID, AccountID: bank.ID, Amount: dec("2500.10"), Type: domain.EntryTypeIncome},
		{UserID: testUserID, AccountID: bank.ID, Amount: dec("300.45"), Type: domain.EntryTypeExpense},
		{UserID: testUserID, AccountID: bank.ID, Amount: dec("99.55"), Type: domain.EntryTypeExpense},
	} {
		require.NoError(t, env.entries.CreateEntry(context.Background(), e))
	}
	// Transfers stay out of income and expense totals.
	cashID := cash.ID
	transfer := &domain.LedgerEntry{UserID: testUserID, AccountID: bank.ID, RelatedAccountID: &cashID, Amount: dec("50"), Type: domain.EntryTypeTransfer}
	require.NoError(t, env.entries.CreateEntry(context.Background(), transfer))

	start := time.Now().UTC().Add(-time.Hour)
	end := time.Now().UTC().Add(time.Hour)
	summary, err := env.summary.GetFinancialSummary(context.Background(), testUserID, start, end)
	require.NoError(t, err)

	assert.True(t, summary.TotalIncome.Equal(dec("2500.10")), "income: %s", summary.TotalIncome)
	assert.True(t, summary.TotalExpense.Equal(dec("400")), "expense: %s", summary.TotalExpense)
	assert.True(t, summary.Net.Equal(dec("2100.10")), "net: %s", summary.Net)
}

func TestGetFinancialSummary_EmptyRange(t *testing.T) {
	env := newTestEnv()

	start := time.Now().UTC().Add(-time.Hour)
	end := time.Now().UTC().Add(time.Hour)
	summary, err := env.summary.GetFinancialSummary(context.Background(), testUserID, start, end)
	require.NoError(t, err)

	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpense.IsZero())
	assert.True(t, summary.Net.IsZero())
}

func TestListEntries_Filters(t *testing.T) {
	env := newTestEnv()
	bank := env.createAccount(t, "Bank Account", domain.AccountTypeBank, "1000")
	cash := env.createAccount(t, "Cash on Hand", domain.AccountTypeCash, "100")

	for _, e := range []*domain.LedgerEntry{
		{UserID: testUserID, AccountID: bank.ID, Amount: dec("10"), Type: domain.EntryTypeIncome},
		{UserID: testUserID, AccountID: bank.ID, Amount: dec("20"), Type: domain.EntryTypeExpense},
		{UserID: testUserID, AccountID: cash.ID, Amount: dec("5"), Type: domain.EntryTypeExpense},
	} {
		require.NoError(t, env.entries.CreateEntry(context.Background(), e))
	}

	byAccount, err := env.entries.ListEntries(context.Background(), testUserID, domain.EntryFilter{AccountID: bank.ID})
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)

	limited, err := env.entries.ListEntries(context.Background(), testUserID, domain.EntryFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	foreign, err := env.entries.ListEntries(context.Background(), "someone-else", domain.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, foreign)
}
