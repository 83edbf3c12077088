package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/mocks"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_Performance(t *testing.T) {
	t.Parallel()

	var since time.Time
	reports := &mocks.MockReportStore{
		CategoryPerformanceFn: func(_ context.Context, _ uuid.UUID, s time.Time) ([]domain.CategoryPerformance, error) {
			since = s
			return []domain.CategoryPerformance{
				{Name: "Anatomy", Total: 10, Correct: 7, Accuracy: 70},
				{Name: "Pharmacology", Total: 5, Correct: 5, Accuracy: 100},
			}, nil
		},
	}
	svc := service.NewReportService(reports, fixedClock, nil)

	report, err := svc.Performance(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultReportDays, report.Days)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), since, "seven days including today")
	assert.Equal(t, 15, report.TotalReviews)
	assert.Equal(t, 12, report.CorrectReviews)
	assert.Equal(t, 80.0, report.Accuracy)
	assert.Len(t, report.Categories, 2)
}

func TestReportService_PerformanceWithoutReviews(t *testing.T) {
	t.Parallel()

	reports := &mocks.MockReportStore{
		CategoryPerformanceFn: func(context.Context, uuid.UUID, time.Time) ([]domain.CategoryPerformance, error) {
			return nil, nil
		},
	}
	svc := service.NewReportService(reports, fixedClock, nil)

	report, err := svc.Performance(context.Background(), uuid.New(), 10000)
	require.NoError(t, err)
	assert.Equal(t, service.MaxReportDays, report.Days)
	assert.Zero(t, report.Accuracy)
	assert.NotNil(t, report.Categories)
}

func TestReportService_Progress(t *testing.T) {
	t.Parallel()

	var since time.Time
	reports := &mocks.MockReportStore{
		DailyProgressFn: func(_ context.Context, _ uuid.UUID, s time.Time) ([]domain.DailyProgress, error) {
			since = s
			return nil, nil
		},
	}
	svc := service.NewReportService(reports, fixedClock, nil)

	progress, err := svc.Progress(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.NotNil(t, progress)
	assert.Empty(t, progress)
	assert.Equal(t, domain.TruncateToDay(fixedNow), since)
}
