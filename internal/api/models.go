package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest accepts a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID    `json:"user_id"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    string       `json:"expires_at"`
	User         *domain.User `json:"user,omitempty"`
}

// CategoryRequest creates or updates a category. Empty fields keep their
// current value on update.
type CategoryRequest struct {
	Name  string `json:"name"  validate:"omitempty,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor,len=7"`
	Icon  string `json:"icon"  validate:"omitempty,max=16"`
}

// ThemeRequest creates or replaces a theme.
type ThemeRequest struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Name        string    `json:"name"        validate:"required,max=100"`
	Description string    `json:"description" validate:"max=2000"`
}

// CreateCardRequest defines the payload for creating a card.
type CreateCardRequest struct {
	CategoryID uuid.UUID  `json:"category_id" validate:"required"`
	ThemeID    *uuid.UUID `json:"theme_id"`
	Question   string     `json:"question"    validate:"required"`
	Answer     string     `json:"answer"      validate:"required"`
	Difficulty string     `json:"difficulty"  validate:"omitempty,oneof=easy medium hard"`
	Tags       []string   `json:"tags"        validate:"max=20,dive,max=50"`
}

// UpdateCardRequest is a partial card update: absent fields are left
// unchanged and "theme_id": null removes the theme.
type UpdateCardRequest struct {
	CategoryID *uuid.UUID   `json:"category_id"`
	ThemeID    optionalUUID `json:"theme_id"`
	Question   *string      `json:"question"   validate:"omitempty,min=1"`
	Answer     *string      `json:"answer"     validate:"omitempty,min=1"`
	Difficulty *string      `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Tags       *[]string    `json:"tags"       validate:"omitempty,max=20,dive,max=50"`
}

// patch converts the request to a domain.CardPatch.
func (r UpdateCardRequest) patch() domain.CardPatch {
	p := domain.CardPatch{
		CategoryID: r.CategoryID,
		Question:   r.Question,
		Answer:     r.Answer,
	}
	if r.ThemeID.Set {
		if r.ThemeID.Value == nil {
			p.ClearTheme = true
		} else {
			p.ThemeID = r.ThemeID.Value
		}
	}
	if r.Difficulty != nil {
		d := domain.Difficulty(*r.Difficulty)
		p.Difficulty = &d
	}
	if r.Tags != nil {
		p.Tags = *r.Tags
		p.SetTags = true
	}
	return p
}

// optionalUUID tells an absent JSON field from an explicit null.
type optionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler. It is only called for fields
// present in the document.
func (o *optionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// SuggestAnswerRequest asks for an LLM drafted answer.
type SuggestAnswerRequest struct {
	Question   string     `json:"question"    validate:"required,max=2000"`
	CategoryID *uuid.UUID `json:"category_id"`
	ThemeID    *uuid.UUID `json:"theme_id"`
}

// SuggestAnswerResponse carries the drafted answer.
type SuggestAnswerResponse struct {
	Answer string `json:"answer"`
}

// StartSessionRequest opens a study session.
type StartSessionRequest struct {
	SessionType string `json:"session_type" validate:"omitempty,oneof=study review test"`
}

// SubmitAnswerRequest records one review inside a session. The rating is
// range checked by the review service.
type SubmitAnswerRequest struct {
	SessionID        uuid.UUID `json:"session_id"        validate:"required"`
	CardID           uuid.UUID `json:"card_id"           validate:"required"`
	IsCorrect        *bool     `json:"is_correct"        validate:"required"`
	DifficultyRating int       `json:"difficulty_rating"`
	ResponseTime     int       `json:"response_time"     validate:"gte=0"`
}

// EndSessionRequest closes a session.
type EndSessionRequest struct {
	SessionID uuid.UUID `json:"session_id" validate:"required"`
}

// GoalRequest creates a study goal. Dates use YYYY-MM-DD.
type GoalRequest struct {
	GoalType       string   `json:"goal_type"       validate:"required,oneof=daily weekly monthly"`
	TargetCards    *int     `json:"target_cards"    validate:"omitempty,gte=1"`
	TargetAccuracy *float64 `json:"target_accuracy" validate:"omitempty,gte=0,lte=100"`
	StartDate      string   `json:"start_date"      validate:"omitempty,datetime=2006-01-02"`
	EndDate        string   `json:"end_date"        validate:"omitempty,datetime=2006-01-02"`
}

// UpdateGoalRequest is a partial goal update.
type UpdateGoalRequest struct {
	TargetCards    *int     `json:"target_cards"    validate:"omitempty,gte=1"`
	TargetAccuracy *float64 `json:"target_accuracy" validate:"omitempty,gte=0,lte=100"`
	EndDate        *string  `json:"end_date"        validate:"omitempty,datetime=2006-01-02"`
	IsActive       *bool    `json:"is_active"`
}

// QuestionListRequest creates an empty question list.
type QuestionListRequest struct {
	Name        string     `json:"name"        validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// QuestionListTextRequest creates a question list from text, one question
// per line.
type QuestionListTextRequest struct {
	QuestionListRequest
	Text string `json:"text" validate:"required"`
}

// QuestionTextRequest replaces the questions of a list.
type QuestionTextRequest struct {
	Text string `json:"text" validate:"required"`
}

// ImportResponse reports how many questions were stored.
type ImportResponse struct {
	QuestionsCount int `json:"questions_count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// parseDate parses an optional YYYY-MM-DD date. An empty string yields the
// zero time.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date like 2024-01-31")
	}
	return t, nil
}
