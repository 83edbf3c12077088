package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	CreateFn          func(ctx context.Context, user *domain.User) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn   func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	UpdateLastLoginFn func(ctx context.Context, id uuid.UUID, at time.Time) error
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

// UpdateLastLogin implements the UserStore interface
func (m *MockUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.UpdateLastLoginFn != nil {
		return m.UpdateLastLoginFn(ctx, id, at)
	}
	return nil
}

// WithTx implements the UserStore interface
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore { return m }
