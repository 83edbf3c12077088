package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = validationError("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = validationError("card user ID cannot be empty")

	// ErrCardCategoryIDEmpty is returned when a card has no category.
	ErrCardCategoryIDEmpty = validationError("card category ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card's question is blank.
	ErrCardQuestionEmpty = validationError("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is blank.
	ErrCardAnswerEmpty = validationError("card answer cannot be empty")

	// ErrCardDifficultyInvalid is returned for difficulties other than easy, medium and hard.
	ErrCardDifficultyInvalid = validationError("card difficulty must be one of easy, medium, hard")

	// ErrCardEaseFactorTooLow is returned when the ease factor is below MinEaseFactor.
	ErrCardEaseFactorTooLow = validationError("card ease factor must be at least 1.3")

	// ErrCardReviewCountNegative is returned when review_count is negative.
	ErrCardReviewCountNegative = validationError("card review count cannot be negative")
)

const (
	// DefaultEaseFactor is the ease factor of a card that has never been reviewed.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the lowest ease factor a card can ever hold.
	MinEaseFactor = 1.3
)

// Difficulty is the author's own estimate of how hard a card is. It is
// descriptive only and does not influence scheduling.
type Difficulty string

// Supported card difficulties.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the supported difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Card is a question/answer flashcard together with its scheduling state.
//
// ReviewCount, EaseFactor and NextReview are owned by the scheduler and are
// only changed in response to a review.
type Card struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	CategoryID uuid.UUID  `json:"category_id"`
	ThemeID    *uuid.UUID `json:"theme_id,omitempty"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Difficulty Difficulty `json:"difficulty"`
	Tags       []string   `json:"tags"`

	NextReview  time.Time `json:"next_review"`
	ReviewCount int       `json:"review_count"`
	EaseFactor  float64   `json:"ease_factor"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a card that is due for review immediately.
// An empty difficulty defaults to medium.
func NewCard(
	userID, categoryID uuid.UUID,
	themeID *uuid.UUID,
	question, answer string,
	difficulty Difficulty,
	tags []string,
) (*Card, error) {
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	now := time.Now().UTC()
	card := &Card{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  categoryID,
		ThemeID:     themeID,
		Question:    strings.TrimSpace(question),
		Answer:      strings.TrimSpace(answer),
		Difficulty:  difficulty,
		Tags:        NormalizeTags(tags),
		NextReview:  now,
		ReviewCount: 0,
		EaseFactor:  DefaultEaseFactor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}
	if c.CategoryID == uuid.Nil {
		return ErrCardCategoryIDEmpty
	}
	if strings.TrimSpace(c.Question) == "" {
		return ErrCardQuestionEmpty
	}
	if strings.TrimSpace(c.Answer) == "" {
		return ErrCardAnswerEmpty
	}
	if !c.Difficulty.Valid() {
		return ErrCardDifficultyInvalid
	}
	if c.ReviewCount < 0 {
		return ErrCardReviewCountNegative
	}
	if c.EaseFactor < MinEaseFactor {
		return ErrCardEaseFactorTooLow
	}
	return nil
}

// IsDue reports whether the card should be shown at time now.
func (c *Card) IsDue(now time.Time) bool {
	return !c.NextReview.After(now)
}

// CardPatch holds the optional fields of a partial card update.
// Nil fields are left untouched.
type CardPatch struct {
	CategoryID *uuid.UUID
	ThemeID    *uuid.UUID
	ClearTheme bool
	Question   *string
	Answer     *string
	Difficulty *Difficulty
	Tags       []string
	SetTags    bool
}

// ApplyPatch applies p to the card and validates the result. On failure the
// card is left unchanged.
func (c *Card) ApplyPatch(p CardPatch, now time.Time) error {
	updated := *c
	if p.CategoryID != nil {
		updated.CategoryID = *p.CategoryID
	}
	if p.ClearTheme {
		updated.ThemeID = nil
	} else if p.ThemeID != nil {
		id := *p.ThemeID
		updated.ThemeID = &id
	}
	if p.Question != nil {
		updated.Question = strings.TrimSpace(*p.Question)
	}
	if p.Answer != nil {
		updated.Answer = strings.TrimSpace(*p.Answer)
	}
	if p.Difficulty != nil {
		updated.Difficulty = *p.Difficulty
	}
	if p.SetTags {
		updated.Tags = NormalizeTags(p.Tags)
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = now.UTC()
	*c = updated
	return nil
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping the first occurrence order. It never returns nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
