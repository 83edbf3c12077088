package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

const goalColumns = `id, user_id, goal_type, target_cards, target_accuracy, start_date, end_date, is_active, achieved_at, created_at`

// PostgresStudyGoalStore implements store.StudyGoalStore.
type PostgresStudyGoalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudyGoalStore creates a study goal store on db.
func NewPostgresStudyGoalStore(db store.DBTX, logger *slog.Logger) *PostgresStudyGoalStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStudyGoalStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_goal_store")),
	}
}

var _ store.StudyGoalStore = (*PostgresStudyGoalStore)(nil)

// WithTx implements store.StudyGoalStore.WithTx
func (s *PostgresStudyGoalStore) WithTx(tx *sql.Tx) store.StudyGoalStore {
	return &PostgresStudyGoalStore{db: tx, logger: s.logger}
}

// Create implements store.StudyGoalStore.Create
func (s *PostgresStudyGoalStore) Create(ctx context.Context, goal *domain.StudyGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_goals (`+goalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		goal.ID,
		goal.UserID,
		string(goal.GoalType),
		nullInt(goal.TargetCards),
		nullFloat(goal.TargetAccuracy),
		goal.StartDate,
		goal.EndDate,
		goal.IsActive,
		nullTime(goal.AchievedAt),
		goal.CreatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create study goal",
			slog.String("goal_id", goal.ID.String()),
			redact.Attr(err))
		return mapStoreError("study_goal", "create", err)
	}
	return nil
}

// GetByID implements store.StudyGoalStore.GetByID
func (s *PostgresStudyGoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyGoal, error) {
	goal, err := scanGoal(s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM study_goals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGoalNotFound
		}
		return nil, mapStoreError("study_goal", "get", err)
	}
	return goal, nil
}

// ListByUser implements store.StudyGoalStore.ListByUser
func (s *PostgresStudyGoalStore) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.StudyGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+goalColumns+` FROM study_goals
		WHERE user_id = $1 AND ($2 = FALSE OR is_active)
		ORDER BY start_date DESC, created_at DESC
	`, userID, activeOnly)
	if err != nil {
		return nil, mapStoreError("study_goal", "list", err)
	}
	defer func() { _ = rows.Close() }()

	goals := []*domain.StudyGoal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, mapStoreError("study_goal", "list", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("study_goal", "list", err)
	}
	return goals, nil
}

// Update implements store.StudyGoalStore.Update
func (s *PostgresStudyGoalStore) Update(ctx context.Context, goal *domain.StudyGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE study_goals
		SET target_cards = $1, target_accuracy = $2, end_date = $3, is_active = $4, achieved_at = $5
		WHERE id = $6
	`,
		nullInt(goal.TargetCards),
		nullFloat(goal.TargetAccuracy),
		goal.EndDate,
		goal.IsActive,
		nullTime(goal.AchievedAt),
		goal.ID,
	)
	if err != nil {
		return mapStoreError("study_goal", "update", err)
	}
	return notFoundAs(CheckRowsAffected(result, "study goal"), store.ErrGoalNotFound, "study_goal", "update")
}

// Delete implements store.StudyGoalStore.Delete
func (s *PostgresStudyGoalStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM study_goals WHERE id = $1`, id)
	if err != nil {
		return mapStoreError("study_goal", "delete", err)
	}
	return notFoundAs(CheckRowsAffected(result, "study goal"), store.ErrGoalNotFound, "study_goal", "delete")
}

// DeactivateExpired implements store.StudyGoalStore.DeactivateExpired
func (s *PostgresStudyGoalStore) DeactivateExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE study_goals SET is_active = FALSE WHERE is_active AND end_date < $1`,
		domain.TruncateToDay(before))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to deactivate expired goals",
			redact.Attr(err))
		return 0, mapStoreError("study_goal", "deactivate", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, mapStoreError("study_goal", "deactivate", err)
	}
	return n, nil
}

func scanGoal(row rowScanner) (*domain.StudyGoal, error) {
	var (
		goal           domain.StudyGoal
		goalType       string
		targetCards    sql.NullInt64
		targetAccuracy sql.NullFloat64
		achievedAt     sql.NullTime
	)
	if err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goalType,
		&targetCards,
		&targetAccuracy,
		&goal.StartDate,
		&goal.EndDate,
		&goal.IsActive,
		&achievedAt,
		&goal.CreatedAt,
	); err != nil {
		return nil, err
	}

	goal.GoalType = domain.GoalType(goalType)
	goal.StartDate = domain.TruncateToDay(goal.StartDate)
	goal.EndDate = domain.TruncateToDay(goal.EndDate)
	if targetCards.Valid {
		n := int(targetCards.Int64)
		goal.TargetCards = &n
	}
	if targetAccuracy.Valid {
		f := targetAccuracy.Float64
		goal.TargetAccuracy = &f
	}
	goal.AchievedAt = timePtr(achievedAt)
	return &goal, nil
}
