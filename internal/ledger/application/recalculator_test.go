package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

func TestRecalculate_SumsOpeningBalanceAndEntries(t *testing.T) {
	env := newTestEnv()
	account := env.createAccount(t, "Bank Account", domain.AccountTypeBank, "100")

	entries := []domain.LedgerEntry{
		{ID: uuid.New(), UserID: testUserID, AccountID: account.ID, Amount: dec("30"), Type: domain.EntryTypeExpense, CreatedAt: time.Now()},
		{ID: uuid.New(), UserID: testUserID, AccountID: account.ID, Amount: dec("12.55"), Type: domain.EntryTypeIncome, CreatedAt: time.Now()},
	}
	for i := range entries {
		require.NoError(t, env.store.Entries().Insert(context.Background(), &entries[i]))
	}

	balance, err := env.recalculator.Recalculate(context.Background(), account.ID, testUserID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("82.55")), "expected 82.55, got %s", balance)
	assert.True(t, env.balance(t, account.ID).Equal(dec("82.55")))
}

func TestRecalculate_Idempotent(t *testing.T) {
	env := newTestEnv()
	account := env.createAccount(t, "Bank Account", domain.AccountTypeBank, "100")
	entry := domain.LedgerEntry{ID: uuid.New(), UserID: testUserID, AccountID: account.ID, Amount: dec("0.1"), Type: domain.EntryTypeExpense, CreatedAt: time.Now()}
	require.NoError(t, env.store.Entries().Insert(context.Background(), &entry))

	first, err := env.recalculator.Recalculate(context.Background(), account.ID, testUserID)
	require.NoError(t, err)
	second, err := env.recalculator.Recalculate(context.Background(), account.ID, testUserID)
	require.NoError(t, err)

	assert.True(t, first.Equal(second), "repeated recalculation diverged: %s vs %s", first, second)
	assert.True(t, second.Equal(dec("99.9")))
}

func TestRecalculate_NoFloatingDrift(t *testing.T) {
	env := newTestEnv()
	account := env.createAccount(t, "Cash on Hand", domain.AccountTypeCash, "0")

	// 0.1 added a thousand times is exactly 100 in decimal arithmetic.
	for i := 0; i < 1000; i++ {
		entry := domain.LedgerEntry{ID: uuid.New(), UserID: testUserID, AccountID: account.ID, Amount: dec("0.1"), Type: domain.EntryTypeIncome, CreatedAt: time.Now()}
		require.NoError(t, env.store.Entries().Insert(context.Background(), &entry))
	}

	balance, err := env.recalculator.Recalculate(context.Background(), account.ID, testUserID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")), "expected exactly 100, got %s", balance)
}

func TestRecalculate_InvertsSignForRelatedAccount(t *testing.T) {
	env := newTestEnv()
	source := env.createAccount(t, "Bank Account", domain.AccountTypeBank, "100")
	target := env.createAccount(t, "Cash on Hand", domain.AccountTypeCash, "0")

	targetID := target.ID
	entry := domain.LedgerEntry{
		ID: uuid.New(), UserID: testUserID, AccountID: source.ID, RelatedAccountID: &targetID,
		Amount: dec("20"), Type: domain.EntryTypeTransfer, CreatedAt: time.Now(),
	}
	require.NoError(t, env.store.Entries().Insert(context.Background(), &entry))

	sourceBalance, err := env.recalculator.Recalculate(context.Background(), source.ID, testUserID)
	require.NoError(t, err)
	targetBalance, err := env.recalculator.Recalculate(context.Background(), target.ID, testUserID)
	require.NoError(t, err)

	assert.True(t, sourceBalance.Equal(dec("80")))
	assert.True(t, targetBalance.Equal(dec("20")))
	// Conservation: the transfer moved money, it did not create or destroy it.
	total := sourceBalance.Add(targetBalance)
	assert.True(t, total.Equal(dec("100")), "transfer must conserve total, got %s", total)
}

func TestRecalculate_UnknownAccount(t *testing.T) {
	env := newTestEnv()

	_, err := env.recalculator.Recalculate(context.Background(), uuid.New(), testUserID)
	assert.True(t, ledgerErrors.IsNotFoundError(err))
}

func TestRecalculate_ForeignAccount(t *testing.T) {
	env := newTestEnv()
	account := env.createAccount(t, "Bank Account", domain.AccountTypeBank, "100")

	_, err := env.recalculator.Recalculate(context.Background(), account.ID, "someone-else")
	assert.True(t, ledgerErrors.IsNotFoundError(err))
}

func TestRecalculate_ConcurrentMutationsConverge(t *testing.T) {
	env := newTestEnv()
	account := env.createAccount(t, "Bank Account", domain.AccountTypeBank, "0")

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			entry := domain.LedgerEntry{
				ID: uuid.New(), UserID: testUserID, AccountID: account.ID,
				Amount: dec(fmt.Sprintf("%d.25", i+1)), Type: domain.EntryTypeIncome, CreatedAt: time.Now(),
			}
			if err := env.store.Entries().Insert(context.Background(), &entry); err != nil {
				t.Error(err)
				return
			}
			if _, err := env.recalculator.Recalculate(context.Background(), account.ID, testUserID); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	// Sum of (1..20) plus 20 quarters: 210 + 5 = 215. Each recalculation
	// re-reads the full entry set, so whichever finished last saw them all.
	balance, err := env.recalculator.Recalculate(context.Background(), account.ID, testUserID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("215")), "expected 215, got %s", balance)
	assert.True(t, env.balance(t, account.ID).Equal(dec("215")))
}
