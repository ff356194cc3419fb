package infrastructure

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

// MemoryStore is an in-memory record store backing all three repositories.
// It is thread-safe and reports missing rows through sql.ErrNoRows so the
// services see the same behavior as the postgres repositories. Used by the
// application tests and as a dev fallback.
type MemoryStore struct {
	mu         sync.Mutex
	accounts   map[uuid.UUID]domain.Account
	entries    map[uuid.UUID]domain.LedgerEntry
	categories map[uuid.UUID]domain.Category
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:   make(map[uuid.UUID]domain.Account),
		entries:    make(map[uuid.UUID]domain.LedgerEntry),
		categories: make(map[uuid.UUID]domain.Category),
	}
}

func (s *MemoryStore) Accounts() domain.AccountRepository   { return &memoryAccountRepository{store: s} }
func (s *MemoryStore) Entries() domain.EntryRepository      { return &memoryEntryRepository{store: s} }
func (s *MemoryStore) Categories() domain.CategoryRepository { return &memoryCategoryRepository{store: s} }

type memoryAccountRepository struct {
	store *MemoryStore
}

func (r *memoryAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepository) FindByID(ctx context.Context, accountID uuid.UUID, userID string) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok || account.UserID != userID {
		return nil, sql.ErrNoRows
	}
	copied := account
	return &copied, nil
}

func (r *memoryAccountRepository) FindByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var accounts []domain.Account
	for _, account := range r.store.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].CreatedAt.Before(accounts[j].CreatedAt) })
	return accounts, nil
}

func (r *memoryAccountRepository) FindByUserAndType(ctx context.Context, userID, accountType string) ([]domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var accounts []domain.Account
	for _, account := range r.store.accounts {
		if account.UserID == userID && account.Type == accountType {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (r *memoryAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.accounts[account.ID]; !ok {
		return sql.ErrNoRows
	}
	r.store.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepository) UpdateBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return sql.ErrNoRows
	}
	account.CurrentBalance = balance
	r.store.accounts[accountID] = account
	return nil
}

func (r *memoryAccountRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.accounts[accountID]; !ok {
		return sql.ErrNoRows
	}
	delete(r.store.accounts, accountID)
	return nil
}

type memoryEntryRepository struct {
	store *MemoryStore
}

func (r *memoryEntryRepository) Insert(ctx context.Context, entry *domain.LedgerEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries[entry.ID] = *entry
	return nil
}

func (r *memoryEntryRepository) FindByID(ctx context.Context, entryID uuid.UUID, userID string) (*domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.entries[entryID]
	if !ok || entry.UserID != userID {
		return nil, sql.ErrNoRows
	}
	copied := entry
	return &copied, nil
}

func (r *memoryEntryRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, userID string) ([]domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var entries []domain.LedgerEntry
	for _, entry := range r.store.entries {
		if entry.UserID != userID {
			continue
		}
		if entry.AccountID == accountID || (entry.RelatedAccountID != nil && *entry.RelatedAccountID == accountID) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	return entries, nil
}

func (r *memoryEntryRepository) List(ctx context.Context, userID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var entries []domain.LedgerEntry
	for _, entry := range r.store.entries {
		if entry.UserID != userID {
			continue
		}
		if filter.AccountID != uuid.Nil && entry.AccountID != filter.AccountID {
			continue
		}
		if filter.CategoryID != uuid.Nil && (entry.CategoryID == nil || *entry.CategoryID != filter.CategoryID) {
			continue
		}
		if !filter.StartDate.IsZero() && entry.CreatedAt.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && entry.CreatedAt.After(filter.EndDate) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

func (r *memoryEntryRepository) Update(ctx context.Context, entry *domain.LedgerEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.entries[entry.ID]; !ok {
		return sql.ErrNoRows
	}
	r.store.entries[entry.ID] = *entry
	return nil
}

func (r *memoryEntryRepository) Delete(ctx context.Context, entryID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.entries[entryID]; !ok {
		return sql.ErrNoRows
	}
	delete(r.store.entries, entryID)
	return nil
}

func (r *memoryEntryRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, entry := range r.store.entries {
		if entry.AccountID == accountID || (entry.RelatedAccountID != nil && *entry.RelatedAccountID == accountID) {
			count++
		}
	}
	return count, nil
}

type memoryCategoryRepository struct {
	store *MemoryStore
}

func (r *memoryCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.categories[category.ID] = *category
	return nil
}

func (r *memoryCategoryRepository) FindByID(ctx context.Context, categoryID uuid.UUID, userID string) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	category, ok := r.store.categories[categoryID]
	if !ok || !category.VisibleTo(userID) {
		return nil, sql.ErrNoRows
	}
	copied := category
	return &copied, nil
}

func (r *memoryCategoryRepository) FindVisible(ctx context.Context, userID string) ([]domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var categories []domain.Category
	for _, category := range r.store.categories {
		if category.VisibleTo(userID) {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *memoryCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.categories[category.ID]; !ok {
		return sql.ErrNoRows
	}
	r.store.categories[category.ID] = *category
	return nil
}

func (r *memoryCategoryRepository) Delete(ctx context.Context, categoryID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.categories[categoryID]; !ok {
		return sql.ErrNoRows
	}
	delete(r.store.categories, categoryID)
	return nil
}

func (r *memoryCategoryRepository) ExistsVisibleByID(ctx context.Context, categoryID uuid.UUID, userID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	category, ok := r.store.categories[categoryID]
	return ok && category.VisibleTo(userID), nil
}
