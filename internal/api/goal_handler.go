package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/service"
)

// GoalHandler handles study goals.
type GoalHandler struct {
	goals  service.GoalService
	logger *slog.Logger
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goals service.GoalService, logger *slog.Logger) *GoalHandler {
	if goals == nil {
		panic("goals cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GoalHandler{
		goals:  goals,
		logger: logger.With(slog.String("component", "goal_handler")),
	}
}

// ListGoals handles GET /goals. ?active=true restricts to active goals.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("active", "must be true or false"), "")
			return
		}
		activeOnly = v
	}

	goals, err := h.goals.ListGoals(r.Context(), userID, activeOnly)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list goals")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, goals)
}

// CreateGoal handles POST /goals.
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req GoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	goal, err := h.goals.CreateGoal(r.Context(), userID, service.GoalInput{
		GoalType:       domain.GoalType(req.GoalType),
		TargetCards:    req.TargetCards,
		TargetAccuracy: req.TargetAccuracy,
		StartDate:      start,
		EndDate:        end,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create goal")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, goal)
}

// GetGoal handles GET /goals/{id}; the goal is returned with its progress.
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	goal, err := h.goals.GetGoal(r.Context(), userID, goalID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get goal")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}

// UpdateGoal handles PUT /goals/{id}.
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	patch := service.GoalPatch{
		TargetCards:    req.TargetCards,
		TargetAccuracy: req.TargetAccuracy,
		IsActive:       req.IsActive,
	}
	if req.EndDate != nil {
		end, err := parseDate("end_date", *req.EndDate)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		patch.EndDate = &end
	}

	goal, err := h.goals.UpdateGoal(r.Context(), userID, goalID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update goal")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /goals/{id}.
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if err := h.goals.DeleteGoal(r.Context(), userID, goalID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
