package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/mocks"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readerFunc func(r io.Reader) ([]string, error)

func (f readerFunc) ReadQuestions(r io.Reader) ([]string, error) { return f(r) }

var unusedReader = readerFunc(func(io.Reader) ([]string, error) {
	return nil, errors.New("unexpected spreadsheet read")
})

func TestQuestionListService_CreateFromText(t *testing.T) {
	t.Parallel()

	var created *domain.QuestionList
	var replaced []domain.PresetQuestion
	lists := &mocks.MockQuestionListStore{
		CreateFn: func(_ context.Context, l *domain.QuestionList) error {
			created = l
			return nil
		},
		ReplaceQuestionsFn: func(_ context.Context, listID uuid.UUID, qs []domain.PresetQuestion) error {
			assert.Equal(t, created.ID, listID)
			replaced = qs
			return nil
		},
	}
	tx := &mocks.MockTransactor{}
	svc := service.NewQuestionListService(lists, tx, unusedReader, fixedClock, nil)
	adminID := uuid.New()

	detail, err := svc.CreateFromText(context.Background(), adminID, service.QuestionListInput{Name: "Cardio basics"},
		"1. What is preload?\n\n2) What is afterload? -\n3- Define stroke volume\n")
	require.NoError(t, err)
	assert.Equal(t, 1, tx.Calls)
	assert.Equal(t, adminID, detail.CreatedBy)
	assert.Equal(t, fixedNow, detail.CreatedAt)
	require.Len(t, replaced, 3)
	assert.Equal(t, replaced, detail.Questions)
	assert.Equal(t, "What is preload?", replaced[0].QuestionText)
	assert.Equal(t, "What is afterload?", replaced[1].QuestionText)
	assert.Equal(t, "Define stroke volume", replaced[2].QuestionText)
	for i, q := range replaced {
		assert.Equal(t, i+1, q.OrderIndex)
	}
}

func TestQuestionListService_CreateFromTextRejectsEmptyText(t *testing.T) {
	t.Parallel()

	tx := &mocks.MockTransactor{}
	svc := service.NewQuestionListService(&mocks.MockQuestionListStore{}, tx, unusedReader, fixedClock, nil)

	_, err := svc.CreateFromText(context.Background(), uuid.New(), service.QuestionListInput{Name: "Empty"}, "\n  \n")
	assert.ErrorIs(t, err, domain.ErrQuestionListEmpty)
	assert.Zero(t, tx.Calls)

	_, err = svc.CreateFromText(context.Background(), uuid.New(), service.QuestionListInput{}, "1. Q")
	assert.ErrorIs(t, err, domain.ErrQuestionListNameEmpty)
}

func TestQuestionListService_ReplaceFromText(t *testing.T) {
	t.Parallel()

	listID := uuid.New()
	var replaced []domain.PresetQuestion
	lists := &mocks.MockQuestionListStore{
		GetByIDFn: func(_ context.Context, id uuid.UUID) (*domain.QuestionList, error) {
			if id == listID {
				return &domain.QuestionList{ID: listID, Name: "L", IsActive: true}, nil
			}
			return nil, store.ErrQuestionListNotFound
		},
		ReplaceQuestionsFn: func(_ context.Context, _ uuid.UUID, qs []domain.PresetQuestion) error {
			replaced = qs
			return nil
		},
	}
	svc := service.NewQuestionListService(lists, &mocks.MockTransactor{}, unusedReader, fixedClock, nil)

	n, err := svc.ReplaceFromText(context.Background(), listID, "A\nB")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, replaced, 2)

	_, err = svc.ReplaceFromText(context.Background(), uuid.New(), "A")
	assert.ErrorIs(t, err, store.ErrQuestionListNotFound)
}

func TestQuestionListService_ImportSpreadsheet(t *testing.T) {
	t.Parallel()

	listID := uuid.New()
	lists := &mocks.MockQuestionListStore{
		GetByIDFn: func(context.Context, uuid.UUID) (*domain.QuestionList, error) {
			return &domain.QuestionList{ID: listID, Name: "L", IsActive: true}, nil
		},
	}
	reader := readerFunc(func(r io.Reader) ([]string, error) {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return strings.Split(string(body), ","), nil
	})
	svc := service.NewQuestionListService(lists, &mocks.MockTransactor{}, reader, fixedClock, nil)

	n, err := svc.ImportSpreadsheet(context.Background(), listID, strings.NewReader("Q1,Q2,Q3"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	failing := readerFunc(func(io.Reader) ([]string, error) { return nil, domain.ErrValidation })
	svc = service.NewQuestionListService(lists, &mocks.MockTransactor{}, failing, fixedClock, nil)
	_, err = svc.ImportSpreadsheet(context.Background(), listID, strings.NewReader("junk"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestQuestionListService_GetList(t *testing.T) {
	t.Parallel()

	listID := uuid.New()
	lists := &mocks.MockQuestionListStore{
		GetByIDFn: func(context.Context, uuid.UUID) (*domain.QuestionList, error) {
			return &domain.QuestionList{ID: listID, Name: "L", IsActive: true}, nil
		},
		QuestionsFn: func(context.Context, uuid.UUID) ([]domain.PresetQuestion, error) {
			return []domain.PresetQuestion{{QuestionText: "Q1", OrderIndex: 1}}, nil
		},
	}
	svc := service.NewQuestionListService(lists, &mocks.MockTransactor{}, unusedReader, fixedClock, nil)

	detail, err := svc.GetList(context.Background(), listID)
	require.NoError(t, err)
	assert.Equal(t, "L", detail.Name)
	assert.Len(t, detail.Questions, 1)

	svc = service.NewQuestionListService(&mocks.MockQuestionListStore{}, &mocks.MockTransactor{}, unusedReader, fixedClock, nil)
	_, err = svc.GetList(context.Background(), listID)
	assert.ErrorIs(t, err, store.ErrQuestionListNotFound)
}

func TestQuestionListService_DeactivateList(t *testing.T) {
	t.Parallel()

	lists := &mocks.MockQuestionListStore{
		DeactivateFn: func(context.Context, uuid.UUID) error { return store.ErrQuestionListNotFound },
	}
	svc := service.NewQuestionListService(lists, &mocks.MockTransactor{}, unusedReader, fixedClock, nil)
	assert.ErrorIs(t, svc.DeactivateList(context.Background(), uuid.New()), store.ErrQuestionListNotFound)
}
