package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/config"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/generation"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

// CardInput carries the fields of a new card.
type CardInput struct {
	CategoryID uuid.UUID
	ThemeID    *uuid.UUID
	Question   string
	Answer     string
	Difficulty domain.Difficulty
	Tags       []string
}

// SuggestInput describes the card an answer suggestion is requested for.
// Category and theme are optional context for the prompt.
type SuggestInput struct {
	Question   string
	CategoryID *uuid.UUID
	ThemeID    *uuid.UUID
}

// CardService provides card management and the due-card queue.
type CardService interface {
	// CreateCard creates a card that is due immediately. The category and
	// the optional theme must belong to the user, and the theme must belong
	// to the category (ErrThemeCategoryMismatch).
	CreateCard(ctx context.Context, userID uuid.UUID, in CardInput) (*domain.Card, error)

	// GetCard returns ErrNotOwned for another user's card.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// ListCards lists the user's cards; filter.UserID is overwritten.
	ListCards(ctx context.Context, userID uuid.UUID, filter store.CardFilter) ([]*domain.Card, error)

	// UpdateCard applies a partial update. Scheduling state is never changed
	// here; the card row is locked so a concurrent review is not lost.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, patch domain.CardPatch) (*domain.Card, error)

	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// DueCards returns up to limit cards due at the current time, most
	// overdue first. A non-positive limit selects the default batch size and
	// larger limits are capped.
	DueCards(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error)

	// SuggestAnswer asks the language model for an answer to a question.
	// Returns ErrGenerationDisabled when no generator is configured.
	SuggestAnswer(ctx context.Context, userID uuid.UUID, in SuggestInput) (string, error)
}

type cardServiceImpl struct {
	cards      store.CardStore
	categories store.CategoryStore
	themes     store.ThemeStore
	tx         store.Transactor
	generator  generation.Generator
	study      config.StudyConfig
	now        Clock
	logger     *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService. generator may be nil, which
// disables answer suggestions.
func NewCardService(
	cards store.CardStore,
	categories store.CategoryStore,
	themes store.ThemeStore,
	tx store.Transactor,
	generator generation.Generator,
	study config.StudyConfig,
	now Clock,
	logger *slog.Logger,
) CardService {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if categories == nil || themes == nil {
		panic("categories and themes cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if study.DefaultBatchSize <= 0 {
		study.DefaultBatchSize = 20
	}
	if study.MaxBatchSize < study.DefaultBatchSize {
		study.MaxBatchSize = study.DefaultBatchSize
	}
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		cards:      cards,
		categories: categories,
		themes:     themes,
		tx:         tx,
		generator:  generator,
		study:      study,
		now:        now,
		logger:     logger.With(slog.String("component", "card_service")),
	}
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(ctx context.Context, userID uuid.UUID, in CardInput) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkPlacement(ctx, userID, in.CategoryID, in.ThemeID); err != nil {
		return nil, wrap("card", "create", "failed to check category", err)
	}

	card, err := domain.NewCard(userID, in.CategoryID, in.ThemeID, in.Question, in.Answer, in.Difficulty, in.Tags)
	if err != nil {
		return nil, err
	}
	now := s.now()
	card.CreatedAt = now
	card.UpdatedAt = now
	card.NextReview = now

	if err := s.cards.Create(ctx, card); err != nil {
		log.Error("failed to save card",
			slog.String("user_id", userID.String()),
			redact.Attr(err))
		return nil, wrap("card", "create", "failed to save card", err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", userID.String()))
	return card, nil
}

// checkPlacement verifies that the category (and theme, if any) belong to
// the user and fit together.
func (s *cardServiceImpl) checkPlacement(ctx context.Context, userID, categoryID uuid.UUID, themeID *uuid.UUID) error {
	if categoryID == uuid.Nil {
		return domain.ErrCardCategoryIDEmpty
	}
	if _, err := s.categories.GetByID(ctx, userID, categoryID); err != nil {
		return err
	}
	if themeID == nil {
		return nil
	}
	theme, err := s.themes.GetByID(ctx, userID, *themeID)
	if err != nil {
		return err
	}
	if theme.CategoryID != categoryID {
		return ErrThemeCategoryMismatch
	}
	return nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, wrap("card", "get", "failed to retrieve card", err)
	}
	if card.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("card requested by another user",
			slog.String("card_id", cardID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrNotOwned
	}
	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardFilter,
) ([]*domain.Card, error) {
	filter.UserID = userID
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Tag = strings.TrimSpace(filter.Tag)
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, domain.ErrCardDifficultyInvalid
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, wrap("card", "list", "failed to list cards", err)
	}
	return cards, nil
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	patch domain.CardPatch,
) (*domain.Card, error) {
	var updated *domain.Card
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetForUpdate(ctx, cardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			return ErrNotOwned
		}

		if patch.CategoryID != nil || patch.ThemeID != nil {
			categoryID := card.CategoryID
			if patch.CategoryID != nil {
				categoryID = *patch.CategoryID
			}
			themeID := card.ThemeID
			if patch.ClearTheme {
				themeID = nil
			} else if patch.ThemeID != nil {
				themeID = patch.ThemeID
			}
			if err := s.checkPlacement(ctx, userID, categoryID, themeID); err != nil {
				return err
			}
		}

		if err := card.ApplyPatch(patch, s.now()); err != nil {
			return err
		}
		if err := cards.Update(ctx, card); err != nil {
			return err
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, wrap("card", "update", "failed to update card", err)
	}
	return updated, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := s.GetCard(ctx, userID, cardID); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, cardID); err != nil {
		return wrap("card", "delete", "failed to delete card", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("card deleted",
		slog.String("card_id", cardID.String()))
	return nil
}

// DueCards implements CardService.DueCards
func (s *cardServiceImpl) DueCards(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error) {
	if limit <= 0 {
		limit = s.study.DefaultBatchSize
	}
	if limit > s.study.MaxBatchSize {
		limit = s.study.MaxBatchSize
	}

	cards, err := s.cards.ListDue(ctx, userID, s.now(), limit)
	if err != nil {
		return nil, wrap("card", "due", "failed to list due cards", err)
	}
	return cards, nil
}

// SuggestAnswer implements CardService.SuggestAnswer
func (s *cardServiceImpl) SuggestAnswer(ctx context.Context, userID uuid.UUID, in SuggestInput) (string, error) {
	if s.generator == nil {
		return "", ErrGenerationDisabled
	}
	if strings.TrimSpace(in.Question) == "" {
		return "", domain.ErrCardQuestionEmpty
	}

	req := generation.AnswerRequest{Question: in.Question}
	if in.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, userID, *in.CategoryID)
		if err != nil {
			return "", wrap("card", "suggest_answer", "failed to load category", err)
		}
		req.Category = category.Name
	}
	if in.ThemeID != nil {
		theme, err := s.themes.GetByID(ctx, userID, *in.ThemeID)
		if err != nil {
			return "", wrap("card", "suggest_answer", "failed to load theme", err)
		}
		req.Theme = theme.Name
	}

	answer, err := s.generator.SuggestAnswer(ctx, req)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("answer suggestion failed",
			slog.String("user_id", userID.String()),
			redact.Attr(err))
		return "", NewServiceError("card", "suggest_answer", "failed to generate answer", err)
	}
	return answer, nil
}
