package infrastructure

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Global default categories carry a NULL user_id, mapped to "" in the model.

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (id, user_id, name, parent_id, created_at)
              VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		category.ID, nullableUserID(category.UserID), category.Name, category.ParentID, category.CreatedAt)
	return err
}

func (r *CategoryRepository) FindByID(ctx context.Context, categoryID uuid.UUID, userID string) (*domain.Category, error) {
	query := `SELECT id, user_id, name, parent_id, created_at
              FROM categories WHERE id = $1 AND (user_id IS NULL OR user_id = $2)`

	var category domain.Category
	var owner sql.NullString
	err := r.db.QueryRowContext(ctx, query, categoryID, userID).Scan(
		&category.ID, &owner, &category.Name, &category.ParentID, &category.CreatedAt)
	if err != nil {
		return nil, err
	}
	category.UserID = owner.String
	return &category, nil
}

func (r *CategoryRepository) FindVisible(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `SELECT id, user_id, name, parent_id, created_at
              FROM categories WHERE user_id IS NULL OR user_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		var owner sql.NullString
		if err := rows.Scan(&category.ID, &owner, &category.Name, &category.ParentID, &category.CreatedAt); err != nil {
			return nil, err
		}
		category.UserID = owner.String
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `UPDATE categories SET name = $1, parent_id = $2 WHERE id = $3 AND user_id = $4`
	result, err := r.db.ExecContext(ctx, query, category.Name, category.ParentID, category.ID, category.UserID)
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

func (r *CategoryRepository) Delete(ctx context.Context, categoryID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
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

func (r *CategoryRepository) ExistsVisibleByID(ctx context.Context, categoryID uuid.UUID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND (user_id IS NULL OR user_id = $2))`
	err := r.db.QueryRowContext(ctx, query, categoryID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func nullableUserID(userID string) sql.NullString {
	return sql.NullString{String: userID, Valid: userID != ""}
}
