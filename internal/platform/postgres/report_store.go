package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

// PostgresReportStore implements store.ReportStore. The aggregate rows are
// scanned by column name with sqlx.
type PostgresReportStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresReportStore creates a report store on db.
func NewPostgresReportStore(db *sqlx.DB, logger *slog.Logger) *PostgresReportStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReportStore{
		db:     db,
		logger: logger.With(slog.String("component", "report_store")),
	}
}

var _ store.ReportStore = (*PostgresReportStore)(nil)

type categoryPerformanceRow struct {
	Name    string `db:"name"`
	Total   int    `db:"total"`
	Correct int    `db:"correct"`
}

type dailyProgressRow struct {
	Day     time.Time `db:"day"`
	Total   int       `db:"total"`
	Correct int       `db:"correct"`
}

// CategoryPerformance implements store.ReportStore.CategoryPerformance
func (s *PostgresReportStore) CategoryPerformance(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.CategoryPerformance, error) {
	var rows []categoryPerformanceRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.name AS name,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE r.is_correct) AS correct
		FROM card_reviews r
		JOIN cards k ON k.id = r.card_id
		JOIN categories c ON c.id = k.category_id
		WHERE r.user_id = $1 AND r.reviewed_at >= $2
		GROUP BY c.name
		ORDER BY total DESC, c.name
	`, userID, since.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to build category performance",
			slog.String("user_id", userID.String()),
			redact.Attr(err))
		return nil, mapStoreError("report", "category_performance", err)
	}

	out := make([]domain.CategoryPerformance, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.CategoryPerformance{
			Name:     r.Name,
			Total:    r.Total,
			Correct:  r.Correct,
			Accuracy: domain.Accuracy(r.Correct, r.Total),
		})
	}
	return out, nil
}

// DailyProgress implements store.ReportStore.DailyProgress
func (s *PostgresReportStore) DailyProgress(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.DailyProgress, error) {
	var rows []dailyProgressRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date_trunc('day', reviewed_at AT TIME ZONE 'UTC') AS day,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_correct) AS correct
		FROM card_reviews
		WHERE user_id = $1 AND reviewed_at >= $2
		GROUP BY day
		ORDER BY day
	`, userID, since.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to build daily progress",
			slog.String("user_id", userID.String()),
			redact.Attr(err))
		return nil, mapStoreError("report", "daily_progress", err)
	}

	out := make([]domain.DailyProgress, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DailyProgress{
			Date:       domain.TruncateToDay(r.Day),
			TotalCards: r.Total,
			Correct:    r.Correct,
			Accuracy:   domain.Accuracy(r.Correct, r.Total),
		})
	}
	return out, nil
}
