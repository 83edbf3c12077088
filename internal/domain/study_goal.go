package domain

import (
	"time"

	"github.com/google/uuid"
)

// Study goal validation errors
var (
	ErrGoalUserIDEmpty        = validationError("goal user ID cannot be empty")
	ErrGoalTypeInvalid        = validationError("goal type must be one of daily, weekly, monthly")
	ErrGoalTargetMissing      = validationError("goal needs a target card count or a target accuracy")
	ErrGoalTargetCardsInvalid = validationError("goal target cards must be positive")
	ErrGoalAccuracyInvalid    = validationError("goal target accuracy must be between 0 and 100")
	ErrGoalDatesInvalid       = validationError("goal end date cannot be before its start date")
)

// GoalType is the cadence of a study goal.
type GoalType string

// Supported goal types.
const (
	GoalTypeDaily   GoalType = "daily"
	GoalTypeWeekly  GoalType = "weekly"
	GoalTypeMonthly GoalType = "monthly"
)

// Valid reports whether g is a supported goal type.
func (g GoalType) Valid() bool {
	switch g {
	case GoalTypeDaily, GoalTypeWeekly, GoalTypeMonthly:
		return true
	default:
		return false
	}
}

// DefaultEndDate returns the last day covered by a goal of this type
// starting on start.
func (g GoalType) DefaultEndDate(start time.Time) time.Time {
	switch g {
	case GoalTypeWeekly:
		return start.AddDate(0, 0, 6)
	case GoalTypeMonthly:
		return start.AddDate(0, 1, -1)
	default:
		return start
	}
}

// StudyGoal is a target the user sets for a period of study.
// StartDate and EndDate are calendar days in UTC, both inclusive.
type StudyGoal struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	GoalType       GoalType   `json:"goal_type"`
	TargetCards    *int       `json:"target_cards"`
	TargetAccuracy *float64   `json:"target_accuracy"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	IsActive       bool       `json:"is_active"`
	AchievedAt     *time.Time `json:"achieved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewStudyGoal creates an active goal. A zero end date is derived from the
// goal type.
func NewStudyGoal(
	userID uuid.UUID,
	goalType GoalType,
	targetCards *int,
	targetAccuracy *float64,
	startDate, endDate time.Time,
) (*StudyGoal, error) {
	start := TruncateToDay(startDate)
	var end time.Time
	if endDate.IsZero() {
		end = goalType.DefaultEndDate(start)
	} else {
		end = TruncateToDay(endDate)
	}

	g := &StudyGoal{
		ID:             uuid.New(),
		UserID:         userID,
		GoalType:       goalType,
		TargetCards:    targetCards,
		TargetAccuracy: targetAccuracy,
		StartDate:      start,
		EndDate:        end,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks if the StudyGoal has valid data.
func (g *StudyGoal) Validate() error {
	if g.ID == uuid.Nil {
		return ErrInvalidID
	}
	if g.UserID == uuid.Nil {
		return ErrGoalUserIDEmpty
	}
	if !g.GoalType.Valid() {
		return ErrGoalTypeInvalid
	}
	if g.TargetCards == nil && g.TargetAccuracy == nil {
		return ErrGoalTargetMissing
	}
	if g.TargetCards != nil && *g.TargetCards <= 0 {
		return ErrGoalTargetCardsInvalid
	}
	if g.TargetAccuracy != nil && (*g.TargetAccuracy < 0 || *g.TargetAccuracy > 100) {
		return ErrGoalAccuracyInvalid
	}
	if g.EndDate.Before(g.StartDate) {
		return ErrGoalDatesInvalid
	}
	return nil
}

// Window returns the half-open time range [from, to) covered by the goal.
func (g *StudyGoal) Window() (from, to time.Time) {
	return g.StartDate, g.EndDate.AddDate(0, 0, 1)
}

// Covers reports whether t falls within the goal's window.
func (g *StudyGoal) Covers(t time.Time) bool {
	from, to := g.Window()
	return !t.Before(from) && t.Before(to)
}

// Expired reports whether the goal's window closed before now.
func (g *StudyGoal) Expired(now time.Time) bool {
	_, to := g.Window()
	return !now.Before(to)
}

// GoalProgress is what the user achieved within a goal's window.
type GoalProgress struct {
	CardsReviewed  int     `json:"cards_reviewed"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
	Achieved       bool    `json:"achieved"`
}

// Evaluate compares the counts against the goal's targets.
func (g *StudyGoal) Evaluate(cardsReviewed, correct int) GoalProgress {
	p := GoalProgress{
		CardsReviewed:  cardsReviewed,
		CorrectAnswers: correct,
		Accuracy:       Accuracy(correct, cardsReviewed),
	}

	achieved := cardsReviewed > 0
	if g.TargetCards != nil && cardsReviewed < *g.TargetCards {
		achieved = false
	}
	if g.TargetAccuracy != nil && p.Accuracy < *g.TargetAccuracy {
		achieved = false
	}
	p.Achieved = achieved
	return p
}

// TruncateToDay returns midnight UTC of t's calendar day.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
