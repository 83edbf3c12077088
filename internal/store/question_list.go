package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
)

// QuestionListStore defines the interface for question list persistence.
type QuestionListStore interface {
	Create(ctx context.Context, list *domain.QuestionList) error

	// GetByID returns ErrQuestionListNotFound for missing or inactive lists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionList, error)

	// ListActive returns active lists with their question counts, optionally
	// restricted to a category, newest first.
	ListActive(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuestionListSummary, error)

	// Questions returns the list's questions ordered by order_index.
	Questions(ctx context.Context, listID uuid.UUID) ([]domain.PresetQuestion, error)

	// ReplaceQuestions deletes the list's questions and inserts the given
	// ones. Run it inside a transaction.
	ReplaceQuestions(ctx context.Context, listID uuid.UUID, questions []domain.PresetQuestion) error

	// Deactivate soft deletes the list.
	Deactivate(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) QuestionListStore
}
