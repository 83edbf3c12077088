package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/service"
)

// ReportHandler serves the performance and progress reports.
type ReportHandler struct {
	reports service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports service.ReportService, logger *slog.Logger) *ReportHandler {
	if reports == nil {
		panic("reports cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		reports: reports,
		logger:  logger.With(slog.String("component", "report_handler")),
	}
}

// Performance handles GET /reports/performance?days=N.
func (h *ReportHandler) Performance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	days, err := getQueryInt(r, "days", errInvalidDays)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	report, err := h.reports.Performance(r.Context(), userID, days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build performance report")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// Progress handles GET /reports/progress?days=N.
func (h *ReportHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	days, err := getQueryInt(r, "days", errInvalidDays)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	progress, err := h.reports.Progress(r.Context(), userID, days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build progress report")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
