package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/medcards-api/internal/domain"
)

// Common errors
var (
	ErrNilCard = errors.New("card cannot be nil")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview returns a copy of card with its scheduling state
	// advanced by one review. The input card is not modified.
	CalculateNextReview(
		card *domain.Card,
		isCorrect bool,
		difficultyRating int,
		now time.Time,
	) (*domain.Card, error)

	// Params returns a copy of the parameters the service schedules with.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: *NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		return NewDefaultService()
	}
	return &defaultService{
		params: *params,
	}
}

// CalculateNextReview implements the Service interface for calculating the next review
func (s *defaultService) CalculateNextReview(
	card *domain.Card,
	isCorrect bool,
	difficultyRating int,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	next := Schedule(State{
		ReviewCount: card.ReviewCount,
		EaseFactor:  card.EaseFactor,
		NextReview:  card.NextReview,
	}, isCorrect, difficultyRating, now, &s.params)

	updated := *card
	if card.Tags != nil {
		updated.Tags = append([]string(nil), card.Tags...)
	}
	updated.ReviewCount = next.ReviewCount
	updated.EaseFactor = next.EaseFactor
	updated.NextReview = next.NextReview
	updated.UpdatedAt = now

	return &updated, nil
}

func (s *defaultService) Params() Params {
	return s.params
}
