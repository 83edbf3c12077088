package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/store"
)

// CategoryInput carries the editable fields of a category.
type CategoryInput struct {
	Name  string
	Color string
	Icon  string
}

// ThemeInput carries the editable fields of a theme.
type ThemeInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description string
}

// CategoryService manages a user's categories and themes.
type CategoryService interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]domain.CategorySummary, error)
	CreateCategory(ctx context.Context, userID uuid.UUID, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, id uuid.UUID, in CategoryInput) (*domain.Category, error)

	// DeleteCategory removes a category and its themes. It fails with
	// store.ErrCategoryHasCards while cards still use the category.
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error

	ListThemes(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]domain.ThemeSummary, error)
	CreateTheme(ctx context.Context, userID uuid.UUID, in ThemeInput) (*domain.Theme, error)
	UpdateTheme(ctx context.Context, userID, id uuid.UUID, in ThemeInput) (*domain.Theme, error)
	DeleteTheme(ctx context.Context, userID, id uuid.UUID) error
}

type categoryServiceImpl struct {
	categories store.CategoryStore
	themes     store.ThemeStore
	now        Clock
	logger     *slog.Logger
}

var _ CategoryService = (*categoryServiceImpl)(nil)

// NewCategoryService creates a new CategoryService.
func NewCategoryService(
	categories store.CategoryStore,
	themes store.ThemeStore,
	now Clock,
	logger *slog.Logger,
) CategoryService {
	if categories == nil {
		panic("categories cannot be nil")
	}
	if themes == nil {
		panic("themes cannot be nil")
	}
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &categoryServiceImpl{
		categories: categories,
		themes:     themes,
		now:        now,
		logger:     logger.With(slog.String("component", "category_service")),
	}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, userID uuid.UUID) ([]domain.CategorySummary, error) {
	summaries, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrap("category", "list", "failed to list categories", err)
	}
	return summaries, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, userID uuid.UUID, in CategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(userID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Color), strings.TrimSpace(in.Icon))
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, wrap("category", "create", "failed to save category", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("category created",
		slog.String("category_id", category.ID.String()),
		slog.String("user_id", userID.String()))
	return category, nil
}

func (s *categoryServiceImpl) UpdateCategory(
	ctx context.Context,
	userID, id uuid.UUID,
	in CategoryInput,
) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, userID, id)
	if err != nil {
		return nil, wrap("category", "update", "failed to load category", err)
	}

	updated := *category
	if name := strings.TrimSpace(in.Name); name != "" {
		updated.Name = name
	}
	if color := strings.TrimSpace(in.Color); color != "" {
		updated.Color = color
	}
	if icon := strings.TrimSpace(in.Icon); icon != "" {
		updated.Icon = icon
	}
	updated.UpdatedAt = s.now()

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, &updated); err != nil {
		return nil, wrap("category", "update", "failed to save category", err)
	}
	return &updated, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, userID, id); err != nil {
		return wrap("category", "delete", "failed to delete category", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("category deleted",
		slog.String("category_id", id.String()))
	return nil
}

func (s *categoryServiceImpl) ListThemes(
	ctx context.Context,
	userID uuid.UUID,
	categoryID *uuid.UUID,
) ([]domain.ThemeSummary, error) {
	themes, err := s.themes.List(ctx, userID, categoryID)
	if err != nil {
		return nil, wrap("theme", "list", "failed to list themes", err)
	}
	return themes, nil
}

func (s *categoryServiceImpl) CreateTheme(ctx context.Context, userID uuid.UUID, in ThemeInput) (*domain.Theme, error) {
	if _, err := s.categories.GetByID(ctx, userID, in.CategoryID); err != nil {
		return nil, wrap("theme", "create", "failed to load category", err)
	}

	theme, err := domain.NewTheme(in.CategoryID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Description))
	if err != nil {
		return nil, err
	}
	if err := s.themes.Create(ctx, theme); err != nil {
		return nil, wrap("theme", "create", "failed to save theme", err)
	}
	return theme, nil
}

func (s *categoryServiceImpl) UpdateTheme(
	ctx context.Context,
	userID, id uuid.UUID,
	in ThemeInput,
) (*domain.Theme, error) {
	theme, err := s.themes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, wrap("theme", "update", "failed to load theme", err)
	}

	updated := *theme
	if in.CategoryID != uuid.Nil && in.CategoryID != theme.CategoryID {
		if _, err := s.categories.GetByID(ctx, userID, in.CategoryID); err != nil {
			return nil, wrap("theme", "update", "failed to load category", err)
		}
		updated.CategoryID = in.CategoryID
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		updated.Name = name
	}
	updated.Description = strings.TrimSpace(in.Description)
	updated.UpdatedAt = s.now()

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.themes.Update(ctx, &updated); err != nil {
		return nil, wrap("theme", "update", "failed to save theme", err)
	}
	return &updated, nil
}

func (s *categoryServiceImpl) DeleteTheme(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.themes.Delete(ctx, userID, id); err != nil {
		return wrap("theme", "delete", "failed to delete theme", err)
	}
	return nil
}
