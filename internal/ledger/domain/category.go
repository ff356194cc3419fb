package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

// Category groups entries for reporting. UserID == "" marks a global
// default category visible to everyone but owned by nobody.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"user_id,omitempty"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return ledgerErrors.NewValidationError("Category name is required")
	}
	if len(c.Name) > 60 {
		return ledgerErrors.NewValidationError("Category name must be of length less than 60")
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return ledgerErrors.NewValidationError("Category cannot be its own parent")
	}
	return nil
}

func (c *Category) IsGlobal() bool {
	return c.UserID == ""
}

func (c *Category) VisibleTo(userID string) bool {
	return c.IsGlobal() || c.UserID == userID
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	// FindByID returns a category only when it is global or owned by userID.
	FindByID(ctx context.Context, categoryID uuid.UUID, userID string) (*Category, error)
	// FindVisible returns global categories plus the user's own.
	FindVisible(ctx context.Context, userID string) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, categoryID uuid.UUID) error
	ExistsVisibleByID(ctx context.Context, categoryID uuid.UUID, userID string) (bool, error)
}
