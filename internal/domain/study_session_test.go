package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudySessionLifecycle(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s, err := NewStudySession(uuid.New(), "", start)
	require.NoError(t, err)
	assert.Equal(t, SessionTypeStudy, s.SessionType)
	assert.False(t, s.IsEnded())
	assert.Equal(t, 0.0, s.DurationMinutes())
	assert.Equal(t, 0.0, s.AccuracyPercentage())

	s.RecordAnswer(true)
	s.RecordAnswer(false)
	s.RecordAnswer(true)
	assert.Equal(t, 3, s.TotalCards)
	assert.Equal(t, 2, s.CorrectAnswers)
	assert.Equal(t, 66.7, s.AccuracyPercentage())

	s.End(start.Add(12*time.Minute + 20*time.Second))
	require.True(t, s.IsEnded())
	assert.Equal(t, 12.3, s.DurationMinutes())

	firstEnd := *s.EndedAt
	s.End(start.Add(time.Hour))
	assert.Equal(t, firstEnd, *s.EndedAt, "ending twice keeps the first end time")
}

func TestStudySessionEndBeforeStartClamps(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s, err := NewStudySession(uuid.New(), SessionTypeTest, start)
	require.NoError(t, err)

	s.End(start.Add(-time.Minute))
	assert.Equal(t, start, *s.EndedAt)
	assert.NoError(t, s.Validate())
}

func TestNewStudySessionRejectsUnknownType(t *testing.T) {
	t.Parallel()

	_, err := NewStudySession(uuid.New(), "cram", time.Now())
	assert.ErrorIs(t, err, ErrSessionTypeInvalid)
}

func TestStudySessionJSONIncludesDerivedFields(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s, err := NewStudySession(uuid.New(), SessionTypeReview, start)
	require.NoError(t, err)
	s.RecordAnswer(true)
	s.End(start.Add(90 * time.Second))

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 1.5, decoded["duration_minutes"])
	assert.Equal(t, 100.0, decoded["accuracy_percentage"])
	assert.Equal(t, "review", decoded["session_type"])
	assert.EqualValues(t, 1, decoded["total_cards"])
}

func TestAccuracy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 50.0, Accuracy(1, 2))
	assert.Equal(t, 33.3, Accuracy(1, 3))
}

func TestNewCardReview(t *testing.T) {
	t.Parallel()

	now := time.Now()
	ids := [3]uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	for _, rating := range []int{0, 6, -1} {
		_, err := NewCardReview(ids[0], ids[1], ids[2], true, rating, 3, now)
		assert.ErrorIs(t, err, ErrReviewRatingOutOfRange, "rating %d", rating)
	}

	_, err := NewCardReview(ids[0], ids[1], ids[2], true, 3, -2, now)
	assert.ErrorIs(t, err, ErrReviewResponseNegative)

	r, err := NewCardReview(ids[0], ids[1], ids[2], false, 1, 0, now)
	require.NoError(t, err)
	assert.Equal(t, now.UTC(), r.ReviewedAt)
}
