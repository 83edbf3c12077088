package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/store"
)

// MockStudySessionStore implements store.StudySessionStore for testing
type MockStudySessionStore struct {
	CreateFn       func(ctx context.Context, session *domain.StudySession) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)
	GetForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)
	UpdateFn       func(ctx context.Context, session *domain.StudySession) error
	ListByUserFn   func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StudySession, error)
	CloseStaleFn   func(ctx context.Context, cutoff, endedAt time.Time) ([]*domain.StudySession, error)
}

var _ store.StudySessionStore = (*MockStudySessionStore)(nil)

// Create implements the StudySessionStore interface
func (m *MockStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, session)
	}
	return nil
}

// GetByID implements the StudySessionStore interface
func (m *MockStudySessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrSessionNotFound
}

// GetForUpdate implements the StudySessionStore interface. Without
// GetForUpdateFn it falls back to GetByIDFn.
func (m *MockStudySessionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// Update implements the StudySessionStore interface
func (m *MockStudySessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, session)
	}
	return nil
}

// ListByUser implements the StudySessionStore interface
func (m *MockStudySessionStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.StudySession, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}
	return []*domain.StudySession{}, nil
}

// CloseStale implements the StudySessionStore interface
func (m *MockStudySessionStore) CloseStale(
	ctx context.Context,
	cutoff, endedAt time.Time,
) ([]*domain.StudySession, error) {
	if m.CloseStaleFn != nil {
		return m.CloseStaleFn(ctx, cutoff, endedAt)
	}
	return nil, nil
}

// WithTx implements the StudySessionStore interface
func (m *MockStudySessionStore) WithTx(*sql.Tx) store.StudySessionStore { return m }

// MockCardReviewStore implements store.CardReviewStore for testing
type MockCardReviewStore struct {
	CreateFn        func(ctx context.Context, review *domain.CardReview) error
	ListBySessionFn func(ctx context.Context, sessionID uuid.UUID) ([]*domain.CardReview, error)
	CountInRangeFn  func(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.ReviewCounts, error)
}

var _ store.CardReviewStore = (*MockCardReviewStore)(nil)

// Create implements the CardReviewStore interface
func (m *MockCardReviewStore) Create(ctx context.Context, review *domain.CardReview) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, review)
	}
	return nil
}

// ListBySession implements the CardReviewStore interface
func (m *MockCardReviewStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.CardReview, error) {
	if m.ListBySessionFn != nil {
		return m.ListBySessionFn(ctx, sessionID)
	}
	return []*domain.CardReview{}, nil
}

// CountInRange implements the CardReviewStore interface
func (m *MockCardReviewStore) CountInRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) (domain.ReviewCounts, error) {
	if m.CountInRangeFn != nil {
		return m.CountInRangeFn(ctx, userID, from, to)
	}
	return domain.ReviewCounts{}, nil
}

// WithTx implements the CardReviewStore interface
func (m *MockCardReviewStore) WithTx(*sql.Tx) store.CardReviewStore { return m }

// MockStudyGoalStore implements store.StudyGoalStore for testing
type MockStudyGoalStore struct {
	CreateFn            func(ctx context.Context, goal *domain.StudyGoal) error
	GetByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.StudyGoal, error)
	ListByUserFn        func(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.StudyGoal, error)
	UpdateFn            func(ctx context.Context, goal *domain.StudyGoal) error
	DeleteFn            func(ctx context.Context, id uuid.UUID) error
	DeactivateExpiredFn func(ctx context.Context, before time.Time) (int64, error)
}

var _ store.StudyGoalStore = (*MockStudyGoalStore)(nil)

// Create implements the StudyGoalStore interface
func (m *MockStudyGoalStore) Create(ctx context.Context, goal *domain.StudyGoal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, goal)
	}
	return nil
}

// GetByID implements the StudyGoalStore interface
func (m *MockStudyGoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyGoal, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrGoalNotFound
}

// ListByUser implements the StudyGoalStore interface
func (m *MockStudyGoalStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	activeOnly bool,
) ([]*domain.StudyGoal, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, activeOnly)
	}
	return []*domain.StudyGoal{}, nil
}

// Update implements the StudyGoalStore interface
func (m *MockStudyGoalStore) Update(ctx context.Context, goal *domain.StudyGoal) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, goal)
	}
	return nil
}

// Delete implements the StudyGoalStore interface
func (m *MockStudyGoalStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// DeactivateExpired implements the StudyGoalStore interface
func (m *MockStudyGoalStore) DeactivateExpired(ctx context.Context, before time.Time) (int64, error) {
	if m.DeactivateExpiredFn != nil {
		return m.DeactivateExpiredFn(ctx, before)
	}
	return 0, nil
}

// WithTx implements the StudyGoalStore interface
func (m *MockStudyGoalStore) WithTx(*sql.Tx) store.StudyGoalStore { return m }
