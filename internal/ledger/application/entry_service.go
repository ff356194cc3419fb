package application

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/events"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

const mutationTopic = "ledger_entry_mutations"

// EntryPatch carries the fields an existing entry may change. Account
// references are immutable after creation, so an entry can never migrate
// between accounts; it can only be deleted and recreated.
type EntryPatch struct {
	Amount     *decimal.Decimal
	Type       *string
	CategoryID *uuid.UUID // uuid.Nil clears the category
	Note       *string
}

// EntryService coordinates entry mutations so that every committed write is
// followed by a full recalculation of each account the entry touches. A
// recalculation failure after the write has committed is logged, not
// returned: the entry is already a fact and the stale balance stays
// repairable through another recalculation run.
type EntryService struct {
	entryRepo    domain.EntryRepository
	accountRepo  domain.AccountRepository
	categoryRepo domain.CategoryRepository
	recalculator *Recalculator
	publisher    events.Publisher
}

func NewEntryService(
	entryRepo domain.EntryRepository,
	accountRepo domain.AccountRepository,
	categoryRepo domain.CategoryRepository,
	recalculator *Recalculator,
	publisher events.Publisher,
) *EntryService {
	return &EntryService{
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		recalculator: recalculator,
		publisher:    publisher,
	}
}

func (s *EntryService) CreateEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()
	if err := entry.Validate(); err != nil {
		return err
	}

	account, err := s.findAccount(ctx, entry.AccountID, entry.UserID)
	if err != nil {
		return err
	}
	if entry.RelatedAccountID != nil {
		if _, err := s.findAccount(ctx, *entry.RelatedAccountID, entry.UserID); err != nil {
			return err
		}
	}
	if entry.CategoryID != nil {
		exists, err := s.categoryRepo.ExistsVisibleByID(ctx, *entry.CategoryID, entry.UserID)
		if err != nil {
			return ledgerErrors.NewStoreUnavailableError("category lookup", err)
		}
		if !exists {
			return ledgerErrors.NewValidationError("Invalid category")
		}
	}

	// Advisory check against the currently stored balance. Check-then-act,
	// not transactional: a concurrent writer can still take the account
	// negative, which the next recalculation will surface, not hide.
	signed := entry.SignedAmount()
	if signed.IsNegative() && !account.OverdraftAllowed() {
		if account.CurrentBalance.Add(signed).IsNegative() {
			return ledgerErrors.NewInsufficientFundsError("Insufficient funds on account " + account.Name)
		}
	}

	if err := s.entryRepo.Insert(ctx, entry); err != nil {
		return ledgerErrors.NewStoreUnavailableError("entry insert", err)
	}

	s.recalculateAll(ctx, entry.UserID, entry.AccountIDs())
	s.publishMutation(events.EntryCreated, entry, entry.AccountIDs())
	return nil
}

func (s *EntryService) UpdateEntry(ctx context.Context, entryID uuid.UUID, userID string, patch EntryPatch) (*domain.LedgerEntry, error) {
	entry, err := s.findEntry(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	// Recalculation must cover the pre-update account set as well as the
	// post-update one to unwind stale contributions. Account references
	// are immutable here, so the union is the same set, but keying by the
	// union keeps the mutation safe if that ever loosens.
	affected := unionAccountIDs(entry.AccountIDs(), nil)

	if patch.Type != nil && *patch.Type != entry.Type {
		if !domain.IsValidEntryType(*patch.Type) {
			return nil, ledgerErrors.NewValidationError("Entry type must be 'income', 'expense' or 'transfer'")
		}
		if entry.Type == domain.EntryTypeTransfer || *patch.Type == domain.EntryTypeTransfer {
			return nil, ledgerErrors.NewValidationError("Entry type cannot change to or from 'transfer'")
		}
		entry.Type = *patch.Type
	}
	if patch.Amount != nil {
		entry.Amount = *patch.Amount
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == uuid.Nil {
			entry.CategoryID = nil
		} else {
			exists, err := s.categoryRepo.ExistsVisibleByID(ctx, *patch.CategoryID, userID)
			if err != nil {
				return nil, ledgerErrors.NewStoreUnavailableError("category lookup", err)
			}
			if !exists {
				return nil, ledgerErrors.NewValidationError("Invalid category")
			}
			categoryID := *patch.CategoryID
			entry.CategoryID = &categoryID
		}
	}
	if patch.Note != nil {
		entry.Note = *patch.Note
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerErrors.NewNotFoundError("entry")
		}
		return nil, ledgerErrors.NewStoreUnavailableError("entry update", err)
	}

	affected = unionAccountIDs(affected, entry.AccountIDs())
	s.recalculateAll(ctx, userID, affected)
	s.publishMutation(events.EntryUpdated, entry, affected)
	return entry, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, entryID uuid.UUID, userID string) error {
	entry, err := s.findEntry(ctx, entryID, userID)
	if err != nil {
		return err
	}

	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledgerErrors.NewNotFoundError("entry")
		}
		return ledgerErrors.NewStoreUnavailableError("entry delete", err)
	}

	s.recalculateAll(ctx, userID, entry.AccountIDs())
	s.publishMutation(events.EntryDeleted, entry, entry.AccountIDs())
	return nil
}

// WithdrawToCash moves amount from a source account into the user's unique
// account of toAccountType as a transfer entry. The funds check here is
// unconditional: a withdrawal may never be requested beyond the stored
// balance, whatever the source account type.
func (s *EntryService) WithdrawToCash(ctx context.Context, userID string, fromAccountID uuid.UUID, toAccountType string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ledgerErrors.NewValidationError("Withdrawal amount must be positive")
	}
	if !domain.IsValidAccountType(toAccountType) {
		return nil, ledgerErrors.NewValidationError("Invalid target account type")
	}

	source, err := s.findAccount(ctx, fromAccountID, userID)
	if err != nil {
		return nil, err
	}

	targets, err := s.accountRepo.FindByUserAndType(ctx, userID, toAccountType)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailableError("target account lookup", err)
	}
	if len(targets) == 0 {
		return nil, ledgerErrors.NewNotFoundError("target account")
	}
	if len(targets) > 1 {
		return nil, ledgerErrors.NewConflictError("Multiple '" + toAccountType + "' accounts, target is ambiguous")
	}
	target := targets[0]
	if target.ID == source.ID {
		return nil, ledgerErrors.NewValidationError("Cannot withdraw from an account into itself")
	}

	if source.CurrentBalance.LessThan(amount) {
		return nil, ledgerErrors.NewInsufficientFundsError("Insufficient funds on account " + source.Name)
	}

	targetID := target.ID
	entry := &domain.LedgerEntry{
		ID:               uuid.New(),
		UserID:           userID,
		AccountID:        source.ID,
		RelatedAccountID: &targetID,
		Amount:           amount,
		Type:             domain.EntryTypeTransfer,
		Note:             "Withdrawal",
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.entryRepo.Insert(ctx, entry); err != nil {
		return nil, ledgerErrors.NewStoreUnavailableError("entry insert", err)
	}

	s.recalculateAll(ctx, userID, entry.AccountIDs())
	s.publishMutation(events.EntryCreated, entry, entry.AccountIDs())
	return entry, nil
}

func (s *EntryService) GetEntry(ctx context.Context, entryID uuid.UUID, userID string) (*domain.LedgerEntry, error) {
	return s.findEntry(ctx, entryID, userID)
}

func (s *EntryService) ListEntries(ctx context.Context, userID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	entries, err := s.entryRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailableError("entry list", err)
	}
	if entries == nil {
		return []domain.LedgerEntry{}, nil
	}
	return entries, nil
}

func (s *EntryService) findAccount(ctx context.Context, accountID uuid.UUID, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || ledgerErrors.IsNotFoundError(err) {
			return nil, ledgerErrors.NewNotFoundError("account")
		}
		return nil, ledgerErrors.NewStoreUnavailableError("account lookup", err)
	}
	return account, nil
}

func (s *EntryService) findEntry(ctx context.Context, entryID uuid.UUID, userID string) (*domain.LedgerEntry, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || ledgerErrors.IsNotFoundError(err) {
			return nil, ledgerErrors.NewNotFoundError("entry")
		}
		return nil, ledgerErrors.NewStoreUnavailableError("entry lookup", err)
	}
	return entry, nil
}

func (s *EntryService) recalculateAll(ctx context.Context, userID string, accountIDs []uuid.UUID) {
	for _, accountID := range accountIDs {
		if _, err := s.recalculator.Recalculate(ctx, accountID, userID); err != nil {
			log.Printf("Balance recalculation failed for account %s: %v", accountID, err)
		}
	}
}

func (s *EntryService) publishMutation(kind string, entry *domain.LedgerEntry, accountIDs []uuid.UUID) {
	ids := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		ids[i] = id.String()
	}
	event := events.EntryMutation{
		Kind:       kind,
		EntryID:    entry.ID.String(),
		UserID:     entry.UserID,
		AccountIDs: ids,
		Amount:     entry.Amount,
		EntryType:  entry.Type,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(mutationTopic, event); err != nil {
		log.Printf("Failed to publish %s event for entry %s: %v", kind, entry.ID, err)
	}
}

func unionAccountIDs(a, b []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var union []uuid.UUID
	for _, id := range append(append([]uuid.UUID{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			union = append(union, id)
		}
	}
	return union
}
