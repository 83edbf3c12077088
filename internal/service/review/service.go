// Package review runs study sessions: it records answers, reschedules cards
// with the spaced repetition algorithm and closes sessions.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
)

// Answer is a user's response to one card during a session.
type Answer struct {
	SessionID        uuid.UUID
	CardID           uuid.UUID
	IsCorrect        bool
	DifficultyRating int
	ResponseTime     int // seconds
}

// Result is the outcome of SubmitAnswer.
type Result struct {
	Card    *domain.Card         `json:"card"`
	Review  *domain.CardReview   `json:"review"`
	Session *domain.StudySession `json:"session"`
}

// Service provides study sessions and answer ingestion.
type Service interface {
	// StartSession opens a session. An empty type defaults to study.
	StartSession(ctx context.Context, userID uuid.UUID, sessionType domain.SessionType) (*domain.StudySession, error)

	// SubmitAnswer records an answer and reschedules the card.
	//
	// The rating must be within 1..5 (service.ErrInvalidRating). The session
	// and the card must belong to the user (service.ErrNotOwned) and the
	// session must still be open (service.ErrSessionEnded). The card update,
	// the review event and the session counters are written in one
	// transaction that holds row locks on the session and the card, so
	// concurrent answers for the same card are applied one after the other.
	SubmitAnswer(ctx context.Context, userID uuid.UUID, answer Answer) (*Result, error)

	// EndSession closes a session and announces it with a session ended
	// event. Ending a closed session returns it unchanged.
	EndSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)

	// History returns the user's most recent sessions. A non-positive limit
	// selects the default page size.
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StudySession, error)

	// CloseStaleSessions ends every session that has been open for longer
	// than maxAge and returns how many were closed.
	CloseStaleSessions(ctx context.Context, maxAge time.Duration) (int, error)
}
