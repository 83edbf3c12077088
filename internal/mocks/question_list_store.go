package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/store"
)

// MockQuestionListStore implements store.QuestionListStore for testing
type MockQuestionListStore struct {
	CreateFn           func(ctx context.Context, list *domain.QuestionList) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.QuestionList, error)
	ListActiveFn       func(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuestionListSummary, error)
	QuestionsFn        func(ctx context.Context, listID uuid.UUID) ([]domain.PresetQuestion, error)
	ReplaceQuestionsFn func(ctx context.Context, listID uuid.UUID, questions []domain.PresetQuestion) error
	DeactivateFn       func(ctx context.Context, id uuid.UUID) error
}

var _ store.QuestionListStore = (*MockQuestionListStore)(nil)

// Create implements the QuestionListStore interface
func (m *MockQuestionListStore) Create(ctx context.Context, list *domain.QuestionList) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, list)
	}
	return nil
}

// GetByID implements the QuestionListStore interface
func (m *MockQuestionListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionList, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrQuestionListNotFound
}

// ListActive implements the QuestionListStore interface
func (m *MockQuestionListStore) ListActive(
	ctx context.Context,
	categoryID *uuid.UUID,
) ([]domain.QuestionListSummary, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx, categoryID)
	}
	return []domain.QuestionListSummary{}, nil
}

// Questions implements the QuestionListStore interface
func (m *MockQuestionListStore) Questions(ctx context.Context, listID uuid.UUID) ([]domain.PresetQuestion, error) {
	if m.QuestionsFn != nil {
		return m.QuestionsFn(ctx, listID)
	}
	return []domain.PresetQuestion{}, nil
}

// ReplaceQuestions implements the QuestionListStore interface
func (m *MockQuestionListStore) ReplaceQuestions(
	ctx context.Context,
	listID uuid.UUID,
	questions []domain.PresetQuestion,
) error {
	if m.ReplaceQuestionsFn != nil {
		return m.ReplaceQuestionsFn(ctx, listID, questions)
	}
	return nil
}

// Deactivate implements the QuestionListStore interface
func (m *MockQuestionListStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, id)
	}
	return nil
}

// WithTx implements the QuestionListStore interface
func (m *MockQuestionListStore) WithTx(*sql.Tx) store.QuestionListStore { return m }

// MockReportStore implements store.ReportStore for testing
type MockReportStore struct {
	CategoryPerformanceFn func(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.CategoryPerformance, error)
	DailyProgressFn       func(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DailyProgress, error)
}

var _ store.ReportStore = (*MockReportStore)(nil)

// CategoryPerformance implements the ReportStore interface
func (m *MockReportStore) CategoryPerformance(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.CategoryPerformance, error) {
	if m.CategoryPerformanceFn != nil {
		return m.CategoryPerformanceFn(ctx, userID, since)
	}
	return []domain.CategoryPerformance{}, nil
}

// DailyProgress implements the ReportStore interface
func (m *MockReportStore) DailyProgress(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.DailyProgress, error) {
	if m.DailyProgressFn != nil {
		return m.DailyProgressFn(ctx, userID, since)
	}
	return []domain.DailyProgress{}, nil
}
