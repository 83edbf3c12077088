package api

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/service"
)

// MaxUploadBytes caps spreadsheet uploads.
const MaxUploadBytes = 10 << 20

var errMissingFile = domain.NewValidationError("file", "must be an .xlsx upload in the multipart field \"file\"")

// QuestionListHandler serves preset question lists. The write endpoints are
// mounted behind the admin gate.
type QuestionListHandler struct {
	lists  service.QuestionListService
	logger *slog.Logger
}

// NewQuestionListHandler creates a new QuestionListHandler.
func NewQuestionListHandler(lists service.QuestionListService, logger *slog.Logger) *QuestionListHandler {
	if lists == nil {
		panic("lists cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionListHandler{
		lists:  lists,
		logger: logger.With(slog.String("component", "question_list_handler")),
	}
}

// ListLists handles GET /question-lists.
func (h *QuestionListHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getQueryUUID(r, "category_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	lists, err := h.lists.ListLists(r.Context(), categoryID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list question lists")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lists)
}

// GetQuestions handles GET /question-lists/{id}/questions.
func (h *QuestionListHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	listID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	detail, err := h.lists.GetList(r.Context(), listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load question list")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// CreateList handles POST /question-lists.
func (h *QuestionListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req QuestionListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	list, err := h.lists.CreateList(r.Context(), userID, service.QuestionListInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create question list")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, list)
}

// CreateFromText handles POST /question-lists/upload-text.
func (h *QuestionListHandler) CreateFromText(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req QuestionListTextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	detail, err := h.lists.CreateFromText(r.Context(), userID,
		service.QuestionListInput(req.QuestionListRequest), req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create question list")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, detail)
}

// ReplaceFromText handles POST /question-lists/{id}/upload.
func (h *QuestionListHandler) ReplaceFromText(w http.ResponseWriter, r *http.Request) {
	_, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req QuestionTextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	n, err := h.lists.ReplaceFromText(r.Context(), listID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to replace questions")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ImportResponse{QuestionsCount: n})
}

// ImportSpreadsheet handles POST /question-lists/{id}/import with an .xlsx
// file in the multipart field "file".
func (h *QuestionListHandler) ImportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	_, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Upload is too large", err)
			return
		}
		HandleAPIError(w, r, errMissingFile, "")
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		HandleAPIError(w, r, errMissingFile, "")
		return
	}

	n, err := h.lists.ImportSpreadsheet(r.Context(), listID, file)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import spreadsheet")
		return
	}
	log.Info("imported question spreadsheet",
		slog.String("list_id", listID.String()),
		slog.Int("questions", n))
	shared.RespondWithJSON(w, r, http.StatusOK, ImportResponse{QuestionsCount: n})
}

// DeactivateList handles DELETE /question-lists/{id}.
func (h *QuestionListHandler) DeactivateList(w http.ResponseWriter, r *http.Request) {
	_, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if err := h.lists.DeactivateList(r.Context(), listID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete question list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
