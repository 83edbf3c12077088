package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCard(t *testing.T) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(uuid.New(), uuid.New(), nil, "q", "a", domain.DifficultyMedium, []string{"tag"})
	require.NoError(t, err)
	return card
}

func TestNewDefaultService(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	require.NotNil(t, service)
	assert.Equal(t, *NewDefaultParams(), service.Params())
}

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{SecondInterval: 3})
	service := NewServiceWithParams(params)
	params.SecondInterval = 100

	assert.Equal(t, 3.0, service.Params().SecondInterval, "service keeps its own copy")
	assert.Equal(t, *NewDefaultParams(), NewServiceWithParams(nil).Params())
}

func TestCalculateNextReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("nil card", func(t *testing.T) {
		_, err := service.CalculateNextReview(nil, true, 5, now)
		assert.ErrorIs(t, err, ErrNilCard)
	})

	t.Run("returns an updated copy", func(t *testing.T) {
		card := newTestCard(t)
		original := *card

		updated, err := service.CalculateNextReview(card, true, 5, now)
		require.NoError(t, err)

		assert.Equal(t, original, *card, "input card must not change")
		assert.Equal(t, card.ID, updated.ID)
		assert.Equal(t, 1, updated.ReviewCount)
		assert.Equal(t, 2.5, updated.EaseFactor)
		assert.Equal(t, now.Add(24*time.Hour), updated.NextReview)
		assert.Equal(t, now, updated.UpdatedAt)

		updated.Tags[0] = "changed"
		assert.Equal(t, "tag", card.Tags[0], "tags are copied")
	})

	t.Run("full sequence", func(t *testing.T) {
		card := newTestCard(t)
		var err error
		for i := 0; i < 3; i++ {
			card, err = service.CalculateNextReview(card, true, 5, now)
			require.NoError(t, err)
		}
		assert.Equal(t, 3, card.ReviewCount)
		assert.InDelta(t, 2.6, card.EaseFactor, 1e-9)
		assert.WithinDuration(t, now.Add(DaysToDuration(7.8)), card.NextReview, time.Second)

		card, err = service.CalculateNextReview(card, false, 5, now)
		require.NoError(t, err)
		assert.Equal(t, 0, card.ReviewCount)
		assert.InDelta(t, 2.4, card.EaseFactor, 1e-9)
		assert.Equal(t, now.Add(14*time.Minute+24*time.Second), card.NextReview)
		assert.NoError(t, card.Validate())
	})
}
