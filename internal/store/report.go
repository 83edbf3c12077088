package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
)

// ReportStore runs the read-only aggregate queries behind the reports.
type ReportStore interface {
	// CategoryPerformance groups the user's reviews since the given time by
	// card category.
	CategoryPerformance(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.CategoryPerformance, error)

	// DailyProgress groups the user's reviews since the given time by UTC day,
	// oldest first. Days without reviews are omitted.
	DailyProgress(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DailyProgress, error)
}
