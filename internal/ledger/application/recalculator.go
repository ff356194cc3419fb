package application

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

// Recalculator re-derives an account's current balance from its full entry
// history. It never applies incremental deltas: every run re-reads the
// complete entry set, so a repeated or late-running recalculation always
// converges on the same value and a stale balance can be repaired by
// simply running it again.
type Recalculator struct {
	accountRepo domain.AccountRepository
	entryRepo   domain.EntryRepository

	muMap map[uuid.UUID]*sync.Mutex // per-account lock for the read-sum-write sequence
	mapMu sync.Mutex                // protects muMap itself
}

func NewRecalculator(accountRepo domain.AccountRepository, entryRepo domain.EntryRepository) *Recalculator {
	return &Recalculator{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		muMap:       make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *Recalculator) getAccountLock(accountID uuid.UUID) *sync.Mutex {
	r.mapMu.Lock()
	defer r.mapMu.Unlock()

	if _, exists := r.muMap[accountID]; !exists {
		r.muMap[accountID] = &sync.Mutex{}
	}
	return r.muMap[accountID]
}

// Recalculate computes opening balance plus the signed contribution of every
// entry referencing the account as primary or related side, stores the
// result and returns it.
func (r *Recalculator) Recalculate(ctx context.Context, accountID uuid.UUID, userID string) (decimal.Decimal, error) {
	mu := r.getAccountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	account, err := r.accountRepo.FindByID(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || ledgerErrors.IsNotFoundError(err) {
			return decimal.Zero, ledgerErrors.NewNotFoundError("account")
		}
		return decimal.Zero, ledgerErrors.NewStoreUnavailableError("account lookup", err)
	}

	entries, err := r.entryRepo.FindByAccount(ctx, accountID, userID)
	if err != nil {
		return decimal.Zero, ledgerErrors.NewStoreUnavailableError("entry scan", err)
	}

	balance := account.OpeningBalance
	for _, entry := range entries {
		balance = balance.Add(entry.ContributionTo(accountID))
	}

	if err := r.accountRepo.UpdateBalance(ctx, accountID, balance); err != nil {
		return decimal.Zero, ledgerErrors.NewStoreUnavailableError("balance write", err)
	}
	return balance, nil
}
