package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/service/review"
)

// StudyHandler handles study sessions and answer submission.
type StudyHandler struct {
	reviews review.Service
	logger  *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(reviews review.Service, logger *slog.Logger) *StudyHandler {
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "study_handler")),
	}
}

// StartSession handles POST /study/start. An empty body starts a study
// session.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req StartSessionRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.reviews.StartSession(r.Context(), userID, domain.SessionType(req.SessionType))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// SubmitAnswer handles POST /study/answer.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.reviews.SubmitAnswer(r.Context(), userID, review.Answer{
		SessionID:        req.SessionID,
		CardID:           req.CardID,
		IsCorrect:        *req.IsCorrect,
		DifficultyRating: req.DifficultyRating,
		ResponseTime:     req.ResponseTime,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("answer submitted",
		slog.String("card_id", req.CardID.String()),
		slog.Time("next_review", result.Card.NextReview))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// EndSession handles POST /study/end.
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req EndSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.reviews.EndSession(r.Context(), userID, req.SessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to end session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// History handles GET /study/history.
func (h *StudyHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	limit, err := getQueryInt(r, "limit", errInvalidLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	sessions, err := h.reviews.History(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load study history")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessions)
}
