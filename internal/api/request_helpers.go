package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
)

var (
	errInvalidLimit = domain.NewValidationError("limit", "must be a positive integer")
	errInvalidDays  = domain.NewValidationError("days", "must be a positive integer")
)

// getPathUUID parses the named chi URL parameter.
func getPathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(param, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(param, "must be a valid UUID")
	}
	return id, nil
}

// getQueryUUID parses an optional UUID query parameter. A missing parameter
// yields nil.
func getQueryUUID(r *http.Request, param string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError(param, "must be a valid UUID")
	}
	return &id, nil
}

// getQueryInt parses an optional positive integer query parameter. A
// missing parameter yields 0.
func getQueryInt(r *http.Request, param string, invalid error) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, invalid
	}
	return n, nil
}

// requireUserID returns the authenticated user's ID or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), log).Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID extracts the authenticated user and the named
// path UUID, writing an error response when either is missing.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := getPathUUID(r, param)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), log).Debug("invalid path parameter",
			slog.String("param", param),
			slog.String("value", chi.URLParam(r, param)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
