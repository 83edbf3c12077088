package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

// PostgresQuestionListStore implements store.QuestionListStore.
type PostgresQuestionListStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionListStore creates a question list store on db.
func NewPostgresQuestionListStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionListStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresQuestionListStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_list_store")),
	}
}

var _ store.QuestionListStore = (*PostgresQuestionListStore)(nil)

// WithTx implements store.QuestionListStore.WithTx
func (s *PostgresQuestionListStore) WithTx(tx *sql.Tx) store.QuestionListStore {
	return &PostgresQuestionListStore{db: tx, logger: s.logger}
}

// Create implements store.QuestionListStore.Create
func (s *PostgresQuestionListStore) Create(ctx context.Context, list *domain.QuestionList) error {
	if err := list.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO question_lists (id, name, description, category_id, created_by, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		list.ID,
		list.Name,
		list.Description,
		nullUUID(list.CategoryID),
		list.CreatedBy,
		list.IsActive,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create question list",
			slog.String("list_id", list.ID.String()),
			redact.Attr(err))
		return mapStoreError("question_list", "create", err)
	}
	return nil
}

// GetByID implements store.QuestionListStore.GetByID
func (s *PostgresQuestionListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionList, error) {
	var (
		list       domain.QuestionList
		categoryID uuid.NullUUID
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, category_id, created_by, is_active, created_at, updated_at
		FROM question_lists
		WHERE id = $1 AND is_active
	`, id).Scan(
		&list.ID, &list.Name, &list.Description, &categoryID,
		&list.CreatedBy, &list.IsActive, &list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrQuestionListNotFound
		}
		return nil, mapStoreError("question_list", "get", err)
	}
	list.CategoryID = uuidPtr(categoryID)
	return &list, nil
}

// ListActive implements store.QuestionListStore.ListActive
func (s *PostgresQuestionListStore) ListActive(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuestionListSummary, error) {
	builder := psql.Select(
		"l.id", "l.name", "l.description", "l.category_id", "l.created_by",
		"l.is_active", "l.created_at", "l.updated_at",
		"(SELECT COUNT(*) FROM preset_questions q WHERE q.question_list_id = l.id) AS questions_count",
	).
		From("question_lists l").
		Where("l.is_active").
		OrderBy("l.created_at DESC")
	if categoryID != nil {
		builder = builder.Where(sq.Eq{"l.category_id": *categoryID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build question list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list question lists",
			redact.Attr(err))
		return nil, mapStoreError("question_list", "list", err)
	}
	defer func() { _ = rows.Close() }()

	lists := []domain.QuestionListSummary{}
	for rows.Next() {
		var (
			l          domain.QuestionListSummary
			categoryID uuid.NullUUID
		)
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Description, &categoryID, &l.CreatedBy,
			&l.IsActive, &l.CreatedAt, &l.UpdatedAt, &l.QuestionsCount,
		); err != nil {
			return nil, mapStoreError("question_list", "list", err)
		}
		l.CategoryID = uuidPtr(categoryID)
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("question_list", "list", err)
	}
	return lists, nil
}

// Questions implements store.QuestionListStore.Questions
func (s *PostgresQuestionListStore) Questions(ctx context.Context, listID uuid.UUID) ([]domain.PresetQuestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_list_id, question_text, order_index, created_at
		FROM preset_questions
		WHERE question_list_id = $1
		ORDER BY order_index
	`, listID)
	if err != nil {
		return nil, mapStoreError("preset_question", "list", err)
	}
	defer func() { _ = rows.Close() }()

	questions := []domain.PresetQuestion{}
	for rows.Next() {
		var q domain.PresetQuestion
		if err := rows.Scan(&q.ID, &q.QuestionListID, &q.QuestionText, &q.OrderIndex, &q.CreatedAt); err != nil {
			return nil, mapStoreError("preset_question", "list", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("preset_question", "list", err)
	}
	return questions, nil
}

// ReplaceQuestions implements store.QuestionListStore.ReplaceQuestions
func (s *PostgresQuestionListStore) ReplaceQuestions(
	ctx context.Context,
	listID uuid.UUID,
	questions []domain.PresetQuestion,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM preset_questions WHERE question_list_id = $1`, listID); err != nil {
		return mapStoreError("preset_question", "delete", err)
	}
	if len(questions) == 0 {
		return nil
	}

	insert := psql.Insert("preset_questions").
		Columns("id", "question_list_id", "question_text", "order_index", "created_at")
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
		insert = insert.Values(q.ID, listID, q.QuestionText, q.OrderIndex, q.CreatedAt)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build question insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert preset questions",
			slog.String("list_id", listID.String()),
			slog.Int("count", len(questions)),
			redact.Attr(err))
		return mapStoreError("preset_question", "create", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE question_lists SET updated_at = NOW() WHERE id = $1`, listID)
	return mapStoreError("question_list", "update", err)
}

// Deactivate implements store.QuestionListStore.Deactivate
func (s *PostgresQuestionListStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE question_lists SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active
	`, id)
	if err != nil {
		return mapStoreError("question_list", "deactivate", err)
	}
	return notFoundAs(CheckRowsAffected(result, "question list"), store.ErrQuestionListNotFound, "question_list", "deactivate")
}
