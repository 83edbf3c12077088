package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

// PostgresCardReviewStore implements store.CardReviewStore.
type PostgresCardReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardReviewStore creates a card review store on db.
func NewPostgresCardReviewStore(db store.DBTX, logger *slog.Logger) *PostgresCardReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_review_store")),
	}
}

var _ store.CardReviewStore = (*PostgresCardReviewStore)(nil)

// WithTx implements store.CardReviewStore.WithTx
func (s *PostgresCardReviewStore) WithTx(tx *sql.Tx) store.CardReviewStore {
	return &PostgresCardReviewStore{db: tx, logger: s.logger}
}

// Create implements store.CardReviewStore.Create
func (s *PostgresCardReviewStore) Create(ctx context.Context, review *domain.CardReview) error {
	if err := review.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_reviews
			(id, user_id, card_id, session_id, is_correct, response_time, difficulty_rating, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		review.ID,
		review.UserID,
		review.CardID,
		review.SessionID,
		review.IsCorrect,
		review.ResponseTime,
		review.DifficultyRating,
		review.ReviewedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to record card review",
			slog.String("card_id", review.CardID.String()),
			slog.String("session_id", review.SessionID.String()),
			redact.Attr(err))
		return mapStoreError("card_review", "create", err)
	}
	return nil
}

// ListBySession implements store.CardReviewStore.ListBySession
func (s *PostgresCardReviewStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.CardReview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, card_id, session_id, is_correct, response_time, difficulty_rating, reviewed_at
		FROM card_reviews
		WHERE session_id = $1
		ORDER BY reviewed_at, id
	`, sessionID)
	if err != nil {
		return nil, mapStoreError("card_review", "list", err)
	}
	defer func() { _ = rows.Close() }()

	reviews := []*domain.CardReview{}
	for rows.Next() {
		var r domain.CardReview
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.CardID, &r.SessionID,
			&r.IsCorrect, &r.ResponseTime, &r.DifficultyRating, &r.ReviewedAt,
		); err != nil {
			return nil, mapStoreError("card_review", "list", err)
		}
		r.ReviewedAt = r.ReviewedAt.UTC()
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("card_review", "list", err)
	}
	return reviews, nil
}

// CountInRange implements store.CardReviewStore.CountInRange
func (s *PostgresCardReviewStore) CountInRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) (domain.ReviewCounts, error) {
	var counts domain.ReviewCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM card_reviews
		WHERE user_id = $1 AND reviewed_at >= $2 AND reviewed_at < $3
	`, userID, from.UTC(), to.UTC()).Scan(&counts.Total, &counts.Correct)
	if err != nil {
		return domain.ReviewCounts{}, mapStoreError("card_review", "count", err)
	}
	return counts, nil
}
