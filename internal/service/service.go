package service

import (
	"errors"
	"time"

	"github.com/phrazzld/medcards-api/internal/domain"
)

// Clock returns the current time. Services take one so tests can pin time.
type Clock func() time.Time

// SystemClock is the Clock backed by the wall clock, in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}
