package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing
type MockCategoryStore struct {
	CreateFn     func(ctx context.Context, category *domain.Category) error
	GetByIDFn    func(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]domain.CategorySummary, error)
	UpdateFn     func(ctx context.Context, category *domain.Category) error
	DeleteFn     func(ctx context.Context, userID, id uuid.UUID) error
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// Create implements the CategoryStore interface
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	return nil
}

// GetByID implements the CategoryStore interface
func (m *MockCategoryStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return nil, store.ErrCategoryNotFound
}

// ListByUser implements the CategoryStore interface
func (m *MockCategoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CategorySummary, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return []domain.CategorySummary{}, nil
}

// Update implements the CategoryStore interface
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}
	return nil
}

// Delete implements the CategoryStore interface
func (m *MockCategoryStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return nil
}

// WithTx implements the CategoryStore interface
func (m *MockCategoryStore) WithTx(*sql.Tx) store.CategoryStore { return m }

// MockThemeStore implements store.ThemeStore for testing
type MockThemeStore struct {
	CreateFn  func(ctx context.Context, theme *domain.Theme) error
	GetByIDFn func(ctx context.Context, userID, id uuid.UUID) (*domain.Theme, error)
	ListFn    func(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]domain.ThemeSummary, error)
	UpdateFn  func(ctx context.Context, theme *domain.Theme) error
	DeleteFn  func(ctx context.Context, userID, id uuid.UUID) error
}

var _ store.ThemeStore = (*MockThemeStore)(nil)

// Create implements the ThemeStore interface
func (m *MockThemeStore) Create(ctx context.Context, theme *domain.Theme) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, theme)
	}
	return nil
}

// GetByID implements the ThemeStore interface
func (m *MockThemeStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Theme, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return nil, store.ErrThemeNotFound
}

// List implements the ThemeStore interface
func (m *MockThemeStore) List(
	ctx context.Context,
	userID uuid.UUID,
	categoryID *uuid.UUID,
) ([]domain.ThemeSummary, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, categoryID)
	}
	return []domain.ThemeSummary{}, nil
}

// Update implements the ThemeStore interface
func (m *MockThemeStore) Update(ctx context.Context, theme *domain.Theme) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, theme)
	}
	return nil
}

// Delete implements the ThemeStore interface
func (m *MockThemeStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return nil
}

// WithTx implements the ThemeStore interface
func (m *MockThemeStore) WithTx(*sql.Tx) store.ThemeStore { return m }
