package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
)

// CategoryStore defines the interface for category persistence.
// Categories are owned by a user; lookups are always scoped by owner.
type CategoryStore interface {
	Create(ctx context.Context, category *domain.Category) error

	// GetByID returns ErrCategoryNotFound when the category does not exist
	// or belongs to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error)

	// ListByUser returns the user's categories ordered by name, with theme
	// and card counts.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CategorySummary, error)

	Update(ctx context.Context, category *domain.Category) error

	// Delete removes the category and its themes. Returns ErrCategoryHasCards
	// while cards still reference it.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	WithTx(tx *sql.Tx) CategoryStore
}

// ThemeStore defines the interface for theme persistence.
// Themes are scoped to the owner of their category.
type ThemeStore interface {
	Create(ctx context.Context, theme *domain.Theme) error

	// GetByID returns ErrThemeNotFound when the theme does not exist or its
	// category belongs to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Theme, error)

	// List returns the user's themes, optionally restricted to one category.
	List(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]domain.ThemeSummary, error)

	Update(ctx context.Context, theme *domain.Theme) error

	// Delete removes the theme; cards keep their category and lose the theme.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	WithTx(tx *sql.Tx) ThemeStore
}
