package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/store"
)

const (
	// DefaultReportDays is the report period used when none is given.
	DefaultReportDays = 7
	// MaxReportDays bounds the report period.
	MaxReportDays = 365
)

// ReportService builds the performance and progress reports.
type ReportService interface {
	// Performance summarizes the user's reviews of the last days, overall
	// and per category.
	Performance(ctx context.Context, userID uuid.UUID, days int) (*domain.PerformanceReport, error)

	// Progress returns one entry per day with reviews in the last days.
	Progress(ctx context.Context, userID uuid.UUID, days int) ([]domain.DailyProgress, error)
}

type reportServiceImpl struct {
	reports store.ReportStore
	now     Clock
	logger  *slog.Logger
}

var _ ReportService = (*reportServiceImpl)(nil)

// NewReportService creates a new ReportService.
func NewReportService(reports store.ReportStore, now Clock, logger *slog.Logger) ReportService {
	if reports == nil {
		panic("reports cannot be nil")
	}
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &reportServiceImpl{
		reports: reports,
		now:     now,
		logger:  logger.With(slog.String("component", "report_service")),
	}
}

// since returns the start of the report period. The period covers the
// current day and the days-1 days before it.
func (s *reportServiceImpl) since(days int) (int, time.Time) {
	if days <= 0 {
		days = DefaultReportDays
	}
	if days > MaxReportDays {
		days = MaxReportDays
	}
	return days, domain.TruncateToDay(s.now()).AddDate(0, 0, -(days - 1))
}

func (s *reportServiceImpl) Performance(
	ctx context.Context,
	userID uuid.UUID,
	days int,
) (*domain.PerformanceReport, error) {
	days, since := s.since(days)

	categories, err := s.reports.CategoryPerformance(ctx, userID, since)
	if err != nil {
		return nil, wrap("report", "performance", "failed to aggregate reviews", err)
	}

	report := &domain.PerformanceReport{
		Days:       days,
		Categories: categories,
	}
	if report.Categories == nil {
		report.Categories = []domain.CategoryPerformance{}
	}
	for _, c := range categories {
		report.TotalReviews += c.Total
		report.CorrectReviews += c.Correct
	}
	report.Accuracy = domain.Accuracy(report.CorrectReviews, report.TotalReviews)
	return report, nil
}

func (s *reportServiceImpl) Progress(ctx context.Context, userID uuid.UUID, days int) ([]domain.DailyProgress, error) {
	_, since := s.since(days)

	progress, err := s.reports.DailyProgress(ctx, userID, since)
	if err != nil {
		return nil, wrap("report", "progress", "failed to aggregate reviews", err)
	}
	if progress == nil {
		progress = []domain.DailyProgress{}
	}
	return progress, nil
}
