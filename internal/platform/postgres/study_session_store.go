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

const sessionColumns = `id, user_id, session_type, started_at, ended_at, total_cards, correct_answers`

// PostgresStudySessionStore implements store.StudySessionStore.
type PostgresStudySessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudySessionStore creates a study session store on db.
func NewPostgresStudySessionStore(db store.DBTX, logger *slog.Logger) *PostgresStudySessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStudySessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_session_store")),
	}
}

var _ store.StudySessionStore = (*PostgresStudySessionStore)(nil)

// WithTx implements store.StudySessionStore.WithTx
func (s *PostgresStudySessionStore) WithTx(tx *sql.Tx) store.StudySessionStore {
	return &PostgresStudySessionStore{db: tx, logger: s.logger}
}

// Create implements store.StudySessionStore.Create
func (s *PostgresStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		session.ID,
		session.UserID,
		string(session.SessionType),
		session.StartedAt,
		nullTime(session.EndedAt),
		session.TotalCards,
		session.CorrectAnswers,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create study session",
			slog.String("session_id", session.ID.String()),
			redact.Attr(err))
		return mapStoreError("study_session", "create", err)
	}
	return nil
}

// GetByID implements store.StudySessionStore.GetByID
func (s *PostgresStudySessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	return s.getOne(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = $1`, id)
}

// GetForUpdate implements store.StudySessionStore.GetForUpdate
func (s *PostgresStudySessionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	return s.getOne(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresStudySessionStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.StudySession, error) {
	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get study session",
			slog.String("session_id", id.String()),
			redact.Attr(err))
		return nil, mapStoreError("study_session", "get", err)
	}
	return session, nil
}

// Update implements store.StudySessionStore.Update
func (s *PostgresStudySessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE study_sessions SET ended_at = $1, total_cards = $2, correct_answers = $3
		WHERE id = $4
	`,
		nullTime(session.EndedAt),
		session.TotalCards,
		session.CorrectAnswers,
		session.ID,
	)
	if err != nil {
		return mapStoreError("study_session", "update", err)
	}
	return notFoundAs(CheckRowsAffected(result, "study session"), store.ErrSessionNotFound, "study_session", "update")
}

// ListByUser implements store.StudySessionStore.ListByUser
func (s *PostgresStudySessionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StudySession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM study_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, mapStoreError("study_session", "list", err)
	}
	return collectSessions(rows, "list")
}

// CloseStale implements store.StudySessionStore.CloseStale
func (s *PostgresStudySessionStore) CloseStale(ctx context.Context, cutoff, endedAt time.Time) ([]*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		UPDATE study_sessions SET ended_at = GREATEST($1, started_at)
		WHERE ended_at IS NULL AND started_at < $2
		RETURNING `+sessionColumns,
		endedAt.UTC(), cutoff.UTC())
	if err != nil {
		log.Error("failed to close stale sessions", redact.Attr(err))
		return nil, mapStoreError("study_session", "close_stale", err)
	}
	return collectSessions(rows, "close_stale")
}

func collectSessions(rows *sql.Rows, operation string) ([]*domain.StudySession, error) {
	defer func() { _ = rows.Close() }()

	sessions := []*domain.StudySession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, mapStoreError("study_session", operation, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("study_session", operation, err)
	}
	return sessions, nil
}

func scanSession(row rowScanner) (*domain.StudySession, error) {
	var (
		session     domain.StudySession
		sessionType string
		endedAt     sql.NullTime
	)
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&sessionType,
		&session.StartedAt,
		&endedAt,
		&session.TotalCards,
		&session.CorrectAnswers,
	); err != nil {
		return nil, err
	}
	session.SessionType = domain.SessionType(sessionType)
	session.StartedAt = session.StartedAt.UTC()
	session.EndedAt = timePtr(endedAt)
	return &session, nil
}
