package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/redact"
)

const healthPingTimeout = 2 * time.Second

// Pinger checks a backing dependency, typically *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	db     Pinger
	now    func() time.Time
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler. db may be nil, in which case the
// endpoint only reports that the process is up.
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:     db,
		now:    time.Now,
		logger: logger.With(slog.String("component", "health_handler")),
	}
}

// Health handles GET /health. It answers 503 when the database is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Time: h.now().UTC()}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("health check failed", redact.Attr(err))
			resp.Status = "unavailable"
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, resp)
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
