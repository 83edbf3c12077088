package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/store"
)

// MockCardStore implements store.CardStore for testing
type MockCardStore struct {
	CreateFn         func(ctx context.Context, card *domain.Card) error
	CreateMultipleFn func(ctx context.Context, cards []*domain.Card) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	GetForUpdateFn   func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListFn           func(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error)
	ListDueFn        func(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)
	UpdateFn         func(ctx context.Context, card *domain.Card) error
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
}

var _ store.CardStore = (*MockCardStore)(nil)

// Create implements the CardStore interface
func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	return nil
}

// CreateMultiple implements the CardStore interface
func (m *MockCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, cards)
	}
	return nil
}

// GetByID implements the CardStore interface
func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrCardNotFound
}

// GetForUpdate implements the CardStore interface. Without GetForUpdateFn it
// falls back to GetByIDFn.
func (m *MockCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// List implements the CardStore interface
func (m *MockCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*domain.Card{}, nil
}

// ListDue implements the CardStore interface
func (m *MockCardStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, userID, now, limit)
	}
	return []*domain.Card{}, nil
}

// Update implements the CardStore interface
func (m *MockCardStore) Update(ctx context.Context, card *domain.Card) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return nil
}

// Delete implements the CardStore interface
func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// WithTx implements the CardStore interface
func (m *MockCardStore) WithTx(*sql.Tx) store.CardStore { return m }
