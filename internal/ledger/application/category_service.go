package application

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/syaswanth456/moneymanager/internal/ledger/domain"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetVisibleCategories returns global default categories plus the user's own.
func (s *CategoryService) GetVisibleCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.repo.FindVisible(ctx, userID)
	if err != nil {
		return nil, ledgerErrors.NewStoreUnavailableError("category list", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, category *domain.Category) error {
	category.ID = uuid.New()
	category.CreatedAt = time.Now().UTC()
	if err := category.Validate(); err != nil {
		return err
	}
	if category.ParentID != nil {
		exists, err := s.repo.ExistsVisibleByID(ctx, *category.ParentID, category.UserID)
		if err != nil {
			return ledgerErrors.NewStoreUnavailableError("category lookup", err)
		}
		if !exists {
			return ledgerErrors.NewValidationError("Invalid parent category")
		}
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return ledgerErrors.NewStoreUnavailableError("category create", err)
	}
	return nil
}

// UpdateCategory renames an owned category. Global defaults are read-only:
// looking one up succeeds for any user, but the ownership check below keeps
// foreign and global rows immutable.
func (s *CategoryService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, userID string, name string) (*domain.Category, error) {
	category, err := s.findOwned(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, ledgerErrors.NewStoreUnavailableError("category update", err)
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID, userID string) error {
	if _, err := s.findOwned(ctx, categoryID, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, categoryID); err != nil {
		return ledgerErrors.NewStoreUnavailableError("category delete", err)
	}
	return nil
}

func (s *CategoryService) findOwned(ctx context.Context, categoryID uuid.UUID, userID string) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, categoryID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || ledgerErrors.IsNotFoundError(err) {
			return nil, ledgerErrors.NewNotFoundError("category")
		}
		return nil, ledgerErrors.NewStoreUnavailableError("category lookup", err)
	}
	if category.UserID != userID {
		return nil, ledgerErrors.NewNotFoundError("category")
	}
	return category, nil
}
