package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/service"
)

// CategoryHandler serves categories and their themes.
type CategoryHandler struct {
	categories service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories service.CategoryService, logger *slog.Logger) *CategoryHandler {
	if categories == nil {
		panic("categories cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryHandler{
		categories: categories,
		logger:     logger.With(slog.String("component", "category_handler")),
	}
}

// ListCategories handles GET /categories.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	list, err := h.categories.ListCategories(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list categories")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, list)
}

// CreateCategory handles POST /categories.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.categories.CreateCategory(r.Context(), userID, service.CategoryInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, category)
}

// UpdateCategory handles PUT /categories/{id}.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.categories.UpdateCategory(r.Context(), userID, id, service.CategoryInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/{id}.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if err := h.categories.DeleteCategory(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListThemes handles GET /themes with an optional category_id filter.
func (h *CategoryHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	categoryID, err := getQueryUUID(r, "category_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	themes, err := h.categories.ListThemes(r.Context(), userID, categoryID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list themes")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, themes)
}

// CreateTheme handles POST /themes.
func (h *CategoryHandler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req ThemeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	theme, err := h.categories.CreateTheme(r.Context(), userID, service.ThemeInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create theme")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, theme)
}

// UpdateTheme handles PUT /themes/{id}.
func (h *CategoryHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req ThemeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	theme, err := h.categories.UpdateTheme(r.Context(), userID, id, service.ThemeInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update theme")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, theme)
}

// DeleteTheme handles DELETE /themes/{id}.
func (h *CategoryHandler) DeleteTheme(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if err := h.categories.DeleteTheme(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete theme")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
