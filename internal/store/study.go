package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
)

// StudySessionStore defines the interface for study session persistence.
type StudySessionStore interface {
	Create(ctx context.Context, session *domain.StudySession) error

	// GetByID returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// GetForUpdate retrieves the session and locks its row for the rest of
	// the transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// Update persists counters and end time.
	Update(ctx context.Context, session *domain.StudySession) error

	// ListByUser returns the user's most recent sessions first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StudySession, error)

	// CloseStale ends every open session started before cutoff, setting the
	// end time to endedAt, and returns the closed sessions.
	CloseStale(ctx context.Context, cutoff, endedAt time.Time) ([]*domain.StudySession, error)

	WithTx(tx *sql.Tx) StudySessionStore
}

// CardReviewStore defines the interface for review event persistence.
type CardReviewStore interface {
	Create(ctx context.Context, review *domain.CardReview) error

	// ListBySession returns the reviews of a session in the order they were given.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.CardReview, error)

	// CountInRange counts the user's reviews with from <= reviewed_at < to.
	CountInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.ReviewCounts, error)

	WithTx(tx *sql.Tx) CardReviewStore
}

// StudyGoalStore defines the interface for study goal persistence.
type StudyGoalStore interface {
	Create(ctx context.Context, goal *domain.StudyGoal) error

	// GetByID returns ErrGoalNotFound if the goal does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyGoal, error)

	// ListByUser returns the user's goals, optionally only the active ones,
	// newest start date first.
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.StudyGoal, error)

	Update(ctx context.Context, goal *domain.StudyGoal) error

	Delete(ctx context.Context, id uuid.UUID) error

	// DeactivateExpired clears is_active on goals whose end date is before
	// the given day and returns how many were changed.
	DeactivateExpired(ctx context.Context, before time.Time) (int64, error)

	WithTx(tx *sql.Tx) StudyGoalStore
}
