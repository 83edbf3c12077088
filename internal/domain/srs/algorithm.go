package srs

import (
	"math"
	"time"
)

// State is the part of a card the scheduler owns.
type State struct {
	ReviewCount int
	EaseFactor  float64
	NextReview  time.Time
}

// Schedule computes the card state that follows a review.
//
// A correct answer increments ReviewCount. The first two correct answers in
// a row schedule the card params.FirstInterval and params.SecondInterval days
// out without touching the ease factor. From the third one on, the ease
// factor is adjusted by the rating (SM-2 quality formula, or a flat penalty
// when the rating is below params.PoorRecallThreshold) and the interval is
// ReviewCount * EaseFactor days.
//
// An incorrect answer resets ReviewCount to 0, applies the failure penalty to
// the ease factor and schedules a retry params.RetryInterval days out.
//
// The ease factor never drops below params.MinEaseFactor. Ratings are not
// validated here; callers are expected to pass 1..params.MaxRating.
//
// Schedule is pure: the result depends only on its arguments.
func Schedule(state State, isCorrect bool, rating int, now time.Time, params *Params) State {
	next := State{
		ReviewCount: state.ReviewCount,
		EaseFactor:  state.EaseFactor,
	}

	var intervalDays float64
	if isCorrect {
		next.ReviewCount++
		switch next.ReviewCount {
		case 1:
			intervalDays = params.FirstInterval
		case 2:
			intervalDays = params.SecondInterval
		default:
			if rating >= params.PoorRecallThreshold {
				next.EaseFactor = adjustEaseFactor(state.EaseFactor, rating, params)
			} else {
				// Only reachable through the API with a correct answer rated
				// below the threshold.
				next.EaseFactor = penalizeEaseFactor(state.EaseFactor, params)
			}
			intervalDays = float64(next.ReviewCount) * next.EaseFactor
		}
	} else {
		next.ReviewCount = 0
		next.EaseFactor = penalizeEaseFactor(state.EaseFactor, params)
		intervalDays = params.RetryInterval
	}

	next.NextReview = now.Add(DaysToDuration(intervalDays))
	return next
}

// adjustEaseFactor applies the SM-2 quality update
// ease + 0.1 - (max-r) * (0.08 + (max-r) * 0.02), floored at the minimum.
func adjustEaseFactor(ease float64, rating int, params *Params) float64 {
	q := float64(params.MaxRating - rating)
	return clampEaseFactor(ease+0.1-q*(0.08+q*0.02), params)
}

// penalizeEaseFactor lowers the ease factor by the failure penalty, floored at the minimum.
func penalizeEaseFactor(ease float64, params *Params) float64 {
	return clampEaseFactor(ease-params.FailurePenalty, params)
}

func clampEaseFactor(ease float64, params *Params) float64 {
	return math.Max(params.MinEaseFactor, ease)
}

// DaysToDuration converts fractional days to a duration without truncating
// to whole days. Intervals longer than the largest time.Duration (about 292
// years) saturate instead of wrapping negative.
func DaysToDuration(days float64) time.Duration {
	nanos := math.Round(days * float64(24*time.Hour))
	if nanos >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(nanos)
}
