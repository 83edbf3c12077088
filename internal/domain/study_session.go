package domain

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// Study session validation errors
var (
	ErrSessionUserIDEmpty     = validationError("session user ID cannot be empty")
	ErrSessionTypeInvalid     = validationError("session type must be one of study, review, test")
	ErrSessionCountsInvalid   = validationError("session correct answers cannot exceed total cards")
	ErrSessionEndBeforeStart  = validationError("session cannot end before it started")
	ErrReviewRatingOutOfRange = validationError("difficulty rating must be between 1 and 5")
	ErrReviewResponseNegative = validationError("response time cannot be negative")
)

// SessionType classifies a study session.
type SessionType string

// Supported session types.
const (
	SessionTypeStudy  SessionType = "study"
	SessionTypeReview SessionType = "review"
	SessionTypeTest   SessionType = "test"
)

// Valid reports whether t is a supported session type.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeStudy, SessionTypeReview, SessionTypeTest:
		return true
	default:
		return false
	}
}

// StudySession groups the reviews a user performs in one sitting.
type StudySession struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	SessionType    SessionType `json:"session_type"`
	StartedAt      time.Time   `json:"started_at"`
	EndedAt        *time.Time  `json:"ended_at"`
	TotalCards     int         `json:"total_cards"`
	CorrectAnswers int         `json:"correct_answers"`
}

// NewStudySession starts a session at now. An empty session type defaults to study.
func NewStudySession(userID uuid.UUID, sessionType SessionType, now time.Time) (*StudySession, error) {
	if sessionType == "" {
		sessionType = SessionTypeStudy
	}
	s := &StudySession{
		ID:          uuid.New(),
		UserID:      userID,
		SessionType: sessionType,
		StartedAt:   now.UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrInvalidID
	}
	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}
	if !s.SessionType.Valid() {
		return ErrSessionTypeInvalid
	}
	if s.CorrectAnswers > s.TotalCards || s.CorrectAnswers < 0 {
		return ErrSessionCountsInvalid
	}
	if s.EndedAt != nil && s.EndedAt.Before(s.StartedAt) {
		return ErrSessionEndBeforeStart
	}
	return nil
}

// IsEnded reports whether the session has been closed.
func (s *StudySession) IsEnded() bool {
	return s.EndedAt != nil
}

// RecordAnswer counts one reviewed card.
func (s *StudySession) RecordAnswer(isCorrect bool) {
	s.TotalCards++
	if isCorrect {
		s.CorrectAnswers++
	}
}

// End closes the session at now. Ending an already ended session is a no-op.
func (s *StudySession) End(now time.Time) {
	if s.EndedAt != nil {
		return
	}
	end := now.UTC()
	if end.Before(s.StartedAt) {
		end = s.StartedAt
	}
	s.EndedAt = &end
}

// DurationMinutes is the session length rounded to one decimal place, or 0
// while the session is still open.
func (s *StudySession) DurationMinutes() float64 {
	if s.EndedAt == nil {
		return 0
	}
	return roundTo1(s.EndedAt.Sub(s.StartedAt).Minutes())
}

// AccuracyPercentage is the share of correct answers in percent, rounded to
// one decimal place. Sessions without reviews report 0.
func (s *StudySession) AccuracyPercentage() float64 {
	return Accuracy(s.CorrectAnswers, s.TotalCards)
}

// MarshalJSON adds the derived duration and accuracy fields.
func (s StudySession) MarshalJSON() ([]byte, error) {
	type plain StudySession
	return json.Marshal(struct {
		plain
		DurationMinutes    float64 `json:"duration_minutes"`
		AccuracyPercentage float64 `json:"accuracy_percentage"`
	}{
		plain:              plain(s),
		DurationMinutes:    s.DurationMinutes(),
		AccuracyPercentage: s.AccuracyPercentage(),
	})
}

// Accuracy returns correct/total as a percentage rounded to one decimal place.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return roundTo1(float64(correct) / float64(total) * 100)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CardReview records one answer given during a study session.
type CardReview struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	CardID           uuid.UUID `json:"card_id"`
	SessionID        uuid.UUID `json:"session_id"`
	IsCorrect        bool      `json:"is_correct"`
	ResponseTime     int       `json:"response_time"` // seconds
	DifficultyRating int       `json:"difficulty_rating"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}

// NewCardReview builds a review event. The rating must be within
// MinDifficultyRating..MaxDifficultyRating.
func NewCardReview(
	userID, cardID, sessionID uuid.UUID,
	isCorrect bool,
	difficultyRating, responseTime int,
	now time.Time,
) (*CardReview, error) {
	r := &CardReview{
		ID:               uuid.New(),
		UserID:           userID,
		CardID:           cardID,
		SessionID:        sessionID,
		IsCorrect:        isCorrect,
		ResponseTime:     responseTime,
		DifficultyRating: difficultyRating,
		ReviewedAt:       now.UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Rating bounds, 1 is hardest and 5 is easiest.
const (
	MinDifficultyRating = 1
	MaxDifficultyRating = 5
)

// Validate checks if the CardReview has valid data.
func (r *CardReview) Validate() error {
	if r.ID == uuid.Nil || r.UserID == uuid.Nil || r.CardID == uuid.Nil || r.SessionID == uuid.Nil {
		return ErrInvalidID
	}
	if r.DifficultyRating < MinDifficultyRating || r.DifficultyRating > MaxDifficultyRating {
		return ErrReviewRatingOutOfRange
	}
	if r.ResponseTime < 0 {
		return ErrReviewResponseNegative
	}
	return nil
}
