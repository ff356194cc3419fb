package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Insert(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, user_id, account_id, related_account_id, amount, type, category_id, note, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.AccountID, entry.RelatedAccountID,
		entry.Amount, entry.Type, entry.CategoryID, entry.Note, entry.CreatedAt)
	return err
}

func (r *EntryRepository) FindByID(ctx context.Context, entryID uuid.UUID, userID string) (*domain.LedgerEntry, error) {
	query := `SELECT id, user_id, account_id, related_account_id, amount, type, category_id, note, created_at
              FROM ledger_entries WHERE id = $1 AND user_id = $2`

	var entry domain.LedgerEntry
	var note sql.NullString
	err := r.db.QueryRowContext(ctx, query, entryID, userID).Scan(
		&entry.ID, &entry.UserID, &entry.AccountID, &entry.RelatedAccountID,
		&entry.Amount, &entry.Type, &entry.CategoryID, &note, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	entry.Note = note.String
	return &entry, nil
}

func (r *EntryRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, userID string) ([]domain.LedgerEntry, error) {
	query := `SELECT id, user_id, account_id, related_account_id, amount, type, category_id, note, created_at
              FROM ledger_entries
              WHERE user_id = $1 AND (account_id = $2 OR related_account_id = $2)
              ORDER BY created_at`
	return r.queryEntries(ctx, query, userID, accountID)
}

func (r *EntryRepository) List(ctx context.Context, userID string, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	query := `SELECT id, user_id, account_id, related_account_id, amount, type, category_id, note, created_at
              FROM ledger_entries WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.AccountID != uuid.Nil {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.CategoryID != uuid.Nil {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.queryEntries(ctx, query, args...)
}

func (r *EntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		var note sql.NullString
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.AccountID, &entry.RelatedAccountID,
			&entry.Amount, &entry.Type, &entry.CategoryID, &note, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Note = note.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *EntryRepository) Update(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `UPDATE ledger_entries SET amount = $1, type = $2, category_id = $3, note = $4
              WHERE id = $5 AND user_id = $6`
	result, err := r.db.ExecContext(ctx, query,
		entry.Amount, entry.Type, entry.CategoryID, entry.Note, entry.ID, entry.UserID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, entryID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = $1`, entryID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *EntryRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM ledger_entries WHERE account_id = $1 OR related_account_id = $1`
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count)
	return count, err
}
