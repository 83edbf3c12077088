package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/store"
)

// QuestionReader extracts question texts from an uploaded document.
type QuestionReader interface {
	ReadQuestions(r io.Reader) ([]string, error)
}

// QuestionListInput carries the descriptive fields of a question list.
type QuestionListInput struct {
	Name        string
	Description string
	CategoryID  *uuid.UUID
}

// QuestionListDetail is a list with its ordered questions.
type QuestionListDetail struct {
	*domain.QuestionList
	Questions []domain.PresetQuestion `json:"questions"`
}

// QuestionListService manages the curated question lists. Callers are
// expected to restrict the mutating operations to administrators.
type QuestionListService interface {
	ListLists(ctx context.Context, categoryID *uuid.UUID) ([]domain.QuestionListSummary, error)
	GetList(ctx context.Context, listID uuid.UUID) (*QuestionListDetail, error)
	CreateList(ctx context.Context, createdBy uuid.UUID, in QuestionListInput) (*domain.QuestionList, error)

	// CreateFromText creates a list whose questions are parsed from text,
	// one per line.
	CreateFromText(ctx context.Context, createdBy uuid.UUID, in QuestionListInput, text string) (*QuestionListDetail, error)

	// ReplaceFromText replaces the questions of a list with the ones parsed
	// from text and returns how many were stored.
	ReplaceFromText(ctx context.Context, listID uuid.UUID, text string) (int, error)

	// ImportSpreadsheet replaces the questions of a list with the first
	// column of the first sheet of an .xlsx document.
	ImportSpreadsheet(ctx context.Context, listID uuid.UUID, r io.Reader) (int, error)

	// DeactivateList soft deletes a list.
	DeactivateList(ctx context.Context, listID uuid.UUID) error
}

type questionListServiceImpl struct {
	lists  store.QuestionListStore
	tx     store.Transactor
	reader QuestionReader
	now    Clock
	logger *slog.Logger
}

var _ QuestionListService = (*questionListServiceImpl)(nil)

// NewQuestionListService creates a new QuestionListService.
func NewQuestionListService(
	lists store.QuestionListStore,
	tx store.Transactor,
	reader QuestionReader,
	now Clock,
	logger *slog.Logger,
) QuestionListService {
	if lists == nil {
		panic("lists cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if reader == nil {
		panic("reader cannot be nil")
	}
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &questionListServiceImpl{
		lists:  lists,
		tx:     tx,
		reader: reader,
		now:    now,
		logger: logger.With(slog.String("component", "question_list_service")),
	}
}

func (s *questionListServiceImpl) ListLists(
	ctx context.Context,
	categoryID *uuid.UUID,
) ([]domain.QuestionListSummary, error) {
	lists, err := s.lists.ListActive(ctx, categoryID)
	if err != nil {
		return nil, wrap("question_list", "list", "failed to list question lists", err)
	}
	return lists, nil
}

func (s *questionListServiceImpl) GetList(ctx context.Context, listID uuid.UUID) (*QuestionListDetail, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, wrap("question_list", "get", "failed to load question list", err)
	}
	questions, err := s.lists.Questions(ctx, listID)
	if err != nil {
		return nil, wrap("question_list", "get", "failed to load questions", err)
	}
	return &QuestionListDetail{QuestionList: list, Questions: questions}, nil
}

func (s *questionListServiceImpl) newList(createdBy uuid.UUID, in QuestionListInput) (*domain.QuestionList, error) {
	list, err := domain.NewQuestionList(in.Name, in.Description, in.CategoryID, createdBy)
	if err != nil {
		return nil, err
	}
	now := s.now()
	list.CreatedAt = now
	list.UpdatedAt = now
	return list, nil
}

func (s *questionListServiceImpl) CreateList(
	ctx context.Context,
	createdBy uuid.UUID,
	in QuestionListInput,
) (*domain.QuestionList, error) {
	list, err := s.newList(createdBy, in)
	if err != nil {
		return nil, err
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, wrap("question_list", "create", "failed to save question list", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("question list created",
		slog.String("question_list_id", list.ID.String()),
		slog.String("created_by", createdBy.String()))
	return list, nil
}

func (s *questionListServiceImpl) CreateFromText(
	ctx context.Context,
	createdBy uuid.UUID,
	in QuestionListInput,
	text string,
) (*QuestionListDetail, error) {
	list, err := s.newList(createdBy, in)
	if err != nil {
		return nil, err
	}
	questions, err := domain.BuildPresetQuestions(list.ID, domain.ParseQuestionsText(text))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)
		if err := lists.Create(ctx, list); err != nil {
			return err
		}
		return lists.ReplaceQuestions(ctx, list.ID, questions)
	})
	if err != nil {
		return nil, wrap("question_list", "create_from_text", "failed to save question list", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("question list created from text",
		slog.String("question_list_id", list.ID.String()),
		slog.Int("questions", len(questions)))
	return &QuestionListDetail{QuestionList: list, Questions: questions}, nil
}

func (s *questionListServiceImpl) ReplaceFromText(ctx context.Context, listID uuid.UUID, text string) (int, error) {
	return s.replace(ctx, "replace_from_text", listID, domain.ParseQuestionsText(text))
}

func (s *questionListServiceImpl) ImportSpreadsheet(ctx context.Context, listID uuid.UUID, r io.Reader) (int, error) {
	texts, err := s.reader.ReadQuestions(r)
	if err != nil {
		return 0, err
	}
	return s.replace(ctx, "import_spreadsheet", listID, texts)
}

func (s *questionListServiceImpl) replace(ctx context.Context, op string, listID uuid.UUID, texts []string) (int, error) {
	questions, err := domain.BuildPresetQuestions(listID, texts)
	if err != nil {
		return 0, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)
		if _, err := lists.GetByID(ctx, listID); err != nil {
			return err
		}
		return lists.ReplaceQuestions(ctx, listID, questions)
	})
	if err != nil {
		return 0, wrap("question_list", op, "failed to replace questions", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("question list questions replaced",
		slog.String("question_list_id", listID.String()),
		slog.String("source", op),
		slog.Int("questions", len(questions)))
	return len(questions), nil
}

func (s *questionListServiceImpl) DeactivateList(ctx context.Context, listID uuid.UUID) error {
	if err := s.lists.Deactivate(ctx, listID); err != nil {
		return wrap("question_list", "deactivate", "failed to deactivate question list", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("question list deactivated",
		slog.String("question_list_id", listID.String()))
	return nil
}
