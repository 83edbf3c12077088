package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/store"
)

const maxCardPageSize = 500

// CardHandler handles card management, the due queue and answer suggestions.
type CardHandler struct {
	cards  service.CardService
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards service.CardService, logger *slog.Logger) *CardHandler {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /cards. Supported filters: category_id, theme_id,
// difficulty, tag, q, limit and offset.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	filter, err := cardFilterFromQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.cards.ListCards(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

func cardFilterFromQuery(r *http.Request) (store.CardFilter, error) {
	var (
		filter store.CardFilter
		err    error
	)
	q := r.URL.Query()

	if filter.CategoryID, err = getQueryUUID(r, "category_id"); err != nil {
		return filter, err
	}
	if filter.ThemeID, err = getQueryUUID(r, "theme_id"); err != nil {
		return filter, err
	}
	if d := q.Get("difficulty"); d != "" {
		filter.Difficulty = domain.Difficulty(d)
		if !filter.Difficulty.Valid() {
			return filter, domain.ErrCardDifficultyInvalid
		}
	}
	filter.Tag = strings.TrimSpace(q.Get("tag"))
	filter.Search = strings.TrimSpace(q.Get("q"))

	if filter.Limit, err = getQueryInt(r, "limit", errInvalidLimit); err != nil {
		return filter, err
	}
	if filter.Limit > maxCardPageSize {
		filter.Limit = maxCardPageSize
	}
	if raw := q.Get("offset"); raw != "" {
		offset, convErr := strconv.Atoi(raw)
		if convErr != nil || offset < 0 {
			return filter, domain.NewValidationError("offset", "must be a non-negative integer")
		}
		filter.Offset = offset
	}
	return filter, nil
}

// CreateCard handles POST /cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cards.CreateCard(r.Context(), userID, service.CardInput{
		CategoryID: req.CategoryID,
		ThemeID:    req.ThemeID,
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: domain.Difficulty(req.Difficulty),
		Tags:       req.Tags,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("card created",
		slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// GetCard handles GET /cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	card, err := h.cards.GetCard(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateCard handles PUT /cards/{id} as a partial update.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cards.UpdateCard(r.Context(), userID, cardID, req.patch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if err := h.cards.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DueCards handles GET /cards/study: the cards whose next review is due,
// most overdue first.
func (h *CardHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	limit, err := getQueryInt(r, "limit", errInvalidLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.cards.DueCards(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get due cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// SuggestAnswer handles POST /cards/suggest-answer.
func (h *CardHandler) SuggestAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req SuggestAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answer, err := h.cards.SuggestAnswer(r.Context(), userID, service.SuggestInput{
		Question:   req.Question,
		CategoryID: req.CategoryID,
		ThemeID:    req.ThemeID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to suggest an answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SuggestAnswerResponse{Answer: answer})
}
