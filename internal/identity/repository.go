package identity

import (
	"context"
	"database/sql"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Upsert(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, email, name, picture, created_at)
              VALUES ($1, $2, $3, $4, $5)
              ON CONFLICT (id) DO UPDATE SET email = $2, name = $3, picture = $4`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.Picture, user.CreatedAt)
	return err
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, userID string) (*User, error) {
	query := `SELECT id, email, name, picture, created_at FROM users WHERE id = $1`

	var user User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &user.Email, &user.Name, &user.Picture, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
