package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Category and theme validation errors
var (
	ErrCategoryNameEmpty    = validationError("category name cannot be empty")
	ErrCategoryNameTooLong  = validationError("category name must be at most 100 characters long")
	ErrCategoryColorInvalid = validationError("category color must be a hex color like #2E86AB")
	ErrCategoryUserIDEmpty  = validationError("category user ID cannot be empty")
	ErrThemeNameEmpty       = validationError("theme name cannot be empty")
	ErrThemeNameTooLong     = validationError("theme name must be at most 100 characters long")
	ErrThemeCategoryIDEmpty = validationError("theme category ID cannot be empty")
)

const (
	// DefaultCategoryColor is used when a category is created without a color.
	DefaultCategoryColor = "#2E86AB"
	// DefaultCategoryIcon is used when a category is created without an icon.
	DefaultCategoryIcon = "📚"

	maxNameLength = 100
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category groups a user's cards by subject.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory creates a category for the given user. Empty color and icon
// fall back to the defaults.
func NewCategory(userID uuid.UUID, name, color, icon string) (*Category, error) {
	if color == "" {
		color = DefaultCategoryColor
	}
	if icon == "" {
		icon = DefaultCategoryIcon
	}

	now := time.Now().UTC()
	c := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrInvalidID
	}
	if c.UserID == uuid.Nil {
		return ErrCategoryUserIDEmpty
	}
	if c.Name == "" {
		return ErrCategoryNameEmpty
	}
	if len([]rune(c.Name)) > maxNameLength {
		return ErrCategoryNameTooLong
	}
	if !hexColorPattern.MatchString(c.Color) {
		return ErrCategoryColorInvalid
	}
	return nil
}

// CategorySummary is a category together with its aggregate counts.
type CategorySummary struct {
	Category
	ThemesCount int `json:"themes_count"`
	CardsCount  int `json:"cards_count"`
}

// Theme is a subdivision of a category.
type Theme struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTheme creates a theme inside the given category.
func NewTheme(categoryID uuid.UUID, name, description string) (*Theme, error) {
	now := time.Now().UTC()
	t := &Theme{
		ID:          uuid.New(),
		CategoryID:  categoryID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks if the Theme has valid data.
func (t *Theme) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.CategoryID == uuid.Nil {
		return ErrThemeCategoryIDEmpty
	}
	if t.Name == "" {
		return ErrThemeNameEmpty
	}
	if len([]rune(t.Name)) > maxNameLength {
		return ErrThemeNameTooLong
	}
	return nil
}

// ThemeSummary is a theme together with its card count.
type ThemeSummary struct {
	Theme
	CardsCount int `json:"cards_count"`
}
