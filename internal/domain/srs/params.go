package srs

import (
	"github.com/phrazzld/medcards-api/internal/domain"
)

// Params defines all configurable parameters for the SRS algorithm.
// Intervals are expressed in (possibly fractional) days.
type Params struct {
	// Floor applied to the ease factor after every update
	MinEaseFactor float64

	// Intervals for the first and second consecutive correct answers
	FirstInterval  float64
	SecondInterval float64

	// Interval after an incorrect answer
	RetryInterval float64

	// Ease factor reduction after an incorrect answer or a poor recall
	FailurePenalty float64

	// Ratings below this count as a poor recall even when the answer was correct
	PoorRecallThreshold int

	// Rating that represents a perfect recall
	MaxRating int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the default.
type ParamsConfig struct {
	MinEaseFactor       float64
	FirstInterval       float64
	SecondInterval      float64
	RetryInterval       float64
	FailurePenalty      float64
	PoorRecallThreshold int
	MaxRating           int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:       domain.MinEaseFactor,
		FirstInterval:       1,
		SecondInterval:      6,
		RetryInterval:       0.01, // 14.4 minutes
		FailurePenalty:      0.2,
		PoorRecallThreshold: 3,
		MaxRating:           domain.MaxDifficultyRating,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.RetryInterval > 0 {
		params.RetryInterval = config.RetryInterval
	}
	if config.FailurePenalty > 0 {
		params.FailurePenalty = config.FailurePenalty
	}
	if config.PoorRecallThreshold > 0 {
		params.PoorRecallThreshold = config.PoorRecallThreshold
	}
	if config.MaxRating > 0 {
		params.MaxRating = config.MaxRating
	}

	return params
}
