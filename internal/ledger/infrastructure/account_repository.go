package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	metadata, err := json.Marshal(account.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO accounts (id, user_id, name, type, opening_balance, current_balance, metadata, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query,
		account.ID, account.UserID, account.Name, account.Type,
		account.OpeningBalance, account.CurrentBalance, metadata, account.CreatedAt)
	return err
}

func (r *AccountRepository) FindByID(ctx context.Context, accountID uuid.UUID, userID string) (*domain.Account, error) {
	query := `SELECT id, user_id, name, type, opening_balance, current_balance, metadata, created_at
              FROM accounts WHERE id = $1 AND user_id = $2`

	var account domain.Account
	var metadata []byte
	err := r.db.QueryRowContext(ctx, query, accountID, userID).Scan(
		&account.ID, &account.UserID, &account.Name, &account.Type,
		&account.OpeningBalance, &account.CurrentBalance, &metadata, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &account.Metadata); err != nil {
			return nil, err
		}
	}
	return &account, nil
}

func (r *AccountRepository) FindByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT id, user_id, name, type, opening_balance, current_balance, metadata, created_at
              FROM accounts WHERE user_id = $1 ORDER BY created_at`
	return r.queryAccounts(ctx, query, userID)
}

func (r *AccountRepository) FindByUserAndType(ctx context.Context, userID, accountType string) ([]domain.Account, error) {
	query := `SELECT id, user_id, name, type, opening_balance, current_balance, metadata, created_at
              FROM accounts WHERE user_id = $1 AND type = $2 ORDER BY created_at`
	return r.queryAccounts(ctx, query, userID, accountType)
}

// FindAll returns every account in the store. Used by the periodic repair
// sweep, which recalculates balances regardless of owner.
func (r *AccountRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT id, user_id, name, type, opening_balance, current_balance, metadata, created_at
              FROM accounts ORDER BY created_at`
	return r.queryAccounts(ctx, query)
}

func (r *AccountRepository) queryAccounts(ctx context.Context, query string, args ...interface{}) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		var metadata []byte
		if err := rows.Scan(&account.ID, &account.UserID, &account.Name, &account.Type,
			&account.OpeningBalance, &account.CurrentBalance, &metadata, &account.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &account.Metadata); err != nil {
				return nil, err
			}
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	metadata, err := json.Marshal(account.Metadata)
	if err != nil {
		return err
	}
	query := `UPDATE accounts SET name = $1, type = $2, metadata = $3 WHERE id = $4 AND user_id = $5`
	result, err := r.db.ExecContext(ctx, query, account.Name, account.Type, metadata, account.ID, account.UserID)
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

func (r *AccountRepository) UpdateBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx, `UPDATE accounts SET current_balance = $1 WHERE id = $2`, balance, accountID)
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

func (r *AccountRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
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
