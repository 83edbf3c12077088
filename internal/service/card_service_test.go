package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/config"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/generation"
	"github.com/phrazzld/medcards-api/internal/mocks"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type cardFixture struct {
	cards      *mocks.MockCardStore
	categories *mocks.MockCategoryStore
	themes     *mocks.MockThemeStore
	tx         *mocks.MockTransactor
	generator  *mocks.MockGenerator
	userID     uuid.UUID
	category   *domain.Category
	theme      *domain.Theme
}

func newCardFixture() *cardFixture {
	userID := uuid.New()
	category := &domain.Category{ID: uuid.New(), UserID: userID, Name: "Cardiology", Color: "#2E86AB"}
	theme := &domain.Theme{ID: uuid.New(), CategoryID: category.ID, Name: "Arrhythmias"}

	f := &cardFixture{
		cards:     &mocks.MockCardStore{},
		tx:        &mocks.MockTransactor{},
		generator: &mocks.MockGenerator{Answer: "Atrial fibrillation."},
		userID:    userID,
		category:  category,
		theme:     theme,
	}
	f.categories = &mocks.MockCategoryStore{
		GetByIDFn: func(_ context.Context, uid, id uuid.UUID) (*domain.Category, error) {
			if uid == f.userID && id == f.category.ID {
				return f.category, nil
			}
			return nil, store.ErrCategoryNotFound
		},
	}
	f.themes = &mocks.MockThemeStore{
		GetByIDFn: func(_ context.Context, uid, id uuid.UUID) (*domain.Theme, error) {
			if uid == f.userID && id == f.theme.ID {
				return f.theme, nil
			}
			return nil, store.ErrThemeNotFound
		},
	}
	return f
}

func (f *cardFixture) service(generator generation.Generator) service.CardService {
	return service.NewCardService(
		f.cards, f.categories, f.themes, f.tx, generator,
		config.StudyConfig{DefaultBatchSize: 20, MaxBatchSize: 100},
		fixedClock, nil,
	)
}

func (f *cardFixture) card() *domain.Card {
	return &domain.Card{
		ID:          uuid.New(),
		UserID:      f.userID,
		CategoryID:  f.category.ID,
		Question:    "Most common sustained arrhythmia?",
		Answer:      "AF",
		Difficulty:  domain.DifficultyMedium,
		Tags:        []string{},
		NextReview:  fixedNow.Add(-time.Hour),
		ReviewCount: 3,
		EaseFactor:  2.36,
	}
}

func TestCardService_CreateCard(t *testing.T) {
	t.Parallel()

	t.Run("creates a card due now", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		var saved *domain.Card
		f.cards.CreateFn = func(_ context.Context, card *domain.Card) error {
			saved = card
			return nil
		}

		card, err := f.service(nil).CreateCard(context.Background(), f.userID, service.CardInput{
			CategoryID: f.category.ID,
			ThemeID:    &f.theme.ID,
			Question:   "  What is the first-line drug for SVT?  ",
			Answer:     "Adenosine",
			Tags:       []string{"drugs", "drugs", " "},
		})
		require.NoError(t, err)
		assert.Same(t, saved, card)
		assert.Equal(t, "What is the first-line drug for SVT?", card.Question)
		assert.Equal(t, domain.DifficultyMedium, card.Difficulty)
		assert.Equal(t, []string{"drugs"}, card.Tags)
		assert.Equal(t, fixedNow, card.NextReview)
		assert.Equal(t, 0, card.ReviewCount)
		assert.Equal(t, domain.DefaultEaseFactor, card.EaseFactor)
	})

	t.Run("rejects a theme from another category", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		f.theme.CategoryID = uuid.New()

		_, err := f.service(nil).CreateCard(context.Background(), f.userID, service.CardInput{
			CategoryID: f.category.ID,
			ThemeID:    &f.theme.ID,
			Question:   "Q",
			Answer:     "A",
		})
		assert.ErrorIs(t, err, service.ErrThemeCategoryMismatch)
	})

	t.Run("category of another user is not found", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()

		_, err := f.service(nil).CreateCard(context.Background(), uuid.New(), service.CardInput{
			CategoryID: f.category.ID,
			Question:   "Q",
			Answer:     "A",
		})
		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	})

	t.Run("validation errors are returned unchanged", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()

		_, err := f.service(nil).CreateCard(context.Background(), f.userID, service.CardInput{
			CategoryID: f.category.ID,
			Question:   "Q",
		})
		assert.ErrorIs(t, err, domain.ErrCardAnswerEmpty)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("storage failures are wrapped", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		f.cards.CreateFn = func(context.Context, *domain.Card) error {
			return store.NewStoreError("card", "create", "insert failed", errors.New("conn reset"))
		}

		_, err := f.service(nil).CreateCard(context.Background(), f.userID, service.CardInput{
			CategoryID: f.category.ID,
			Question:   "Q",
			Answer:     "A",
		})
		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.True(t, store.IsStorageError(err))
	})
}

func TestCardService_GetCard(t *testing.T) {
	t.Parallel()

	f := newCardFixture()
	card := f.card()
	f.cards.GetByIDFn = func(_ context.Context, id uuid.UUID) (*domain.Card, error) {
		if id == card.ID {
			return card, nil
		}
		return nil, store.ErrCardNotFound
	}
	svc := f.service(nil)

	got, err := svc.GetCard(context.Background(), f.userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card, got)

	_, err = svc.GetCard(context.Background(), uuid.New(), card.ID)
	assert.ErrorIs(t, err, service.ErrNotOwned)

	_, err = svc.GetCard(context.Background(), f.userID, uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestCardService_ListCards(t *testing.T) {
	t.Parallel()

	f := newCardFixture()
	var got store.CardFilter
	f.cards.ListFn = func(_ context.Context, filter store.CardFilter) ([]*domain.Card, error) {
		got = filter
		return []*domain.Card{f.card()}, nil
	}
	svc := f.service(nil)

	cards, err := svc.ListCards(context.Background(), f.userID, store.CardFilter{
		UserID:     uuid.New(),
		Difficulty: domain.DifficultyHard,
		Search:     "  atrial ",
		Limit:      -5,
	})
	require.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, f.userID, got.UserID, "the caller cannot list someone else's cards")
	assert.Equal(t, "atrial", got.Search)
	assert.Zero(t, got.Limit)

	_, err = svc.ListCards(context.Background(), f.userID, store.CardFilter{Difficulty: "impossible"})
	assert.ErrorIs(t, err, domain.ErrCardDifficultyInvalid)
}

func TestCardService_UpdateCard(t *testing.T) {
	t.Parallel()

	t.Run("applies the patch under a row lock", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		card := f.card()
		locked := false
		f.cards.GetForUpdateFn = func(context.Context, uuid.UUID) (*domain.Card, error) {
			locked = true
			return card, nil
		}
		var saved *domain.Card
		f.cards.UpdateFn = func(_ context.Context, c *domain.Card) error {
			saved = c
			return nil
		}

		answer := "Atrial fibrillation"
		hard := domain.DifficultyHard
		updated, err := f.service(nil).UpdateCard(context.Background(), f.userID, card.ID, domain.CardPatch{
			Answer:     &answer,
			Difficulty: &hard,
			ThemeID:    &f.theme.ID,
		})
		require.NoError(t, err)
		assert.True(t, locked)
		assert.Equal(t, 1, f.tx.Calls)
		assert.Same(t, saved, updated)
		assert.Equal(t, "Atrial fibrillation", updated.Answer)
		assert.Equal(t, domain.DifficultyHard, updated.Difficulty)
		assert.Equal(t, f.theme.ID, *updated.ThemeID)
		assert.Equal(t, 3, updated.ReviewCount, "scheduling state is untouched")
		assert.Equal(t, 2.36, updated.EaseFactor)
		assert.Equal(t, fixedNow, updated.UpdatedAt)
	})

	t.Run("moving to a category keeps the theme consistent", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		card := f.card()
		card.ThemeID = &f.theme.ID
		other := &domain.Category{ID: uuid.New(), UserID: f.userID, Name: "Neurology", Color: "#123456"}
		f.categories.GetByIDFn = func(context.Context, uuid.UUID, uuid.UUID) (*domain.Category, error) {
			return other, nil
		}
		f.cards.GetForUpdateFn = func(context.Context, uuid.UUID) (*domain.Card, error) { return card, nil }

		_, err := f.service(nil).UpdateCard(context.Background(), f.userID, card.ID, domain.CardPatch{
			CategoryID: &other.ID,
		})
		assert.ErrorIs(t, err, service.ErrThemeCategoryMismatch)

		updated, err := f.service(nil).UpdateCard(context.Background(), f.userID, card.ID, domain.CardPatch{
			CategoryID: &other.ID,
			ClearTheme: true,
		})
		require.NoError(t, err)
		assert.Equal(t, other.ID, updated.CategoryID)
		assert.Nil(t, updated.ThemeID)
	})

	t.Run("rejects other users", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		card := f.card()
		f.cards.GetForUpdateFn = func(context.Context, uuid.UUID) (*domain.Card, error) { return card, nil }
		f.cards.UpdateFn = func(context.Context, *domain.Card) error {
			t.Fatal("update must not be called")
			return nil
		}

		answer := "x"
		_, err := f.service(nil).UpdateCard(context.Background(), uuid.New(), card.ID, domain.CardPatch{Answer: &answer})
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})

	t.Run("invalid patch", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		card := f.card()
		f.cards.GetForUpdateFn = func(context.Context, uuid.UUID) (*domain.Card, error) { return card, nil }

		blank := "  "
		_, err := f.service(nil).UpdateCard(context.Background(), f.userID, card.ID, domain.CardPatch{Question: &blank})
		assert.ErrorIs(t, err, domain.ErrCardQuestionEmpty)
		assert.Equal(t, "Most common sustained arrhythmia?", card.Question)
	})
}

func TestCardService_DeleteCard(t *testing.T) {
	t.Parallel()

	f := newCardFixture()
	card := f.card()
	f.cards.GetByIDFn = func(context.Context, uuid.UUID) (*domain.Card, error) { return card, nil }
	var deleted uuid.UUID
	f.cards.DeleteFn = func(_ context.Context, id uuid.UUID) error {
		deleted = id
		return nil
	}
	svc := f.service(nil)

	assert.ErrorIs(t, svc.DeleteCard(context.Background(), uuid.New(), card.ID), service.ErrNotOwned)
	assert.Equal(t, uuid.Nil, deleted)

	require.NoError(t, svc.DeleteCard(context.Background(), f.userID, card.ID))
	assert.Equal(t, card.ID, deleted)
}

func TestCardService_DueCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default", limit: 0, wantLimit: 20},
		{name: "negative", limit: -1, wantLimit: 20},
		{name: "explicit", limit: 5, wantLimit: 5},
		{name: "capped", limit: 1000, wantLimit: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newCardFixture()
			var gotLimit int
			var gotNow time.Time
			f.cards.ListDueFn = func(_ context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error) {
				assert.Equal(t, f.userID, userID)
				gotNow = now
				gotLimit = limit
				return []*domain.Card{}, nil
			}

			_, err := f.service(nil).DueCards(context.Background(), f.userID, tc.limit)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLimit, gotLimit)
			assert.Equal(t, fixedNow, gotNow)
		})
	}
}

func TestCardService_SuggestAnswer(t *testing.T) {
	t.Parallel()

	t.Run("disabled without a generator", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		_, err := f.service(nil).SuggestAnswer(context.Background(), f.userID, service.SuggestInput{Question: "Q?"})
		assert.ErrorIs(t, err, service.ErrGenerationDisabled)
	})

	t.Run("passes category and theme names", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()

		answer, err := f.service(f.generator).SuggestAnswer(context.Background(), f.userID, service.SuggestInput{
			Question:   "Most common sustained arrhythmia?",
			CategoryID: &f.category.ID,
			ThemeID:    &f.theme.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Atrial fibrillation.", answer)

		requests := f.generator.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "Cardiology", requests[0].Category)
		assert.Equal(t, "Arrhythmias", requests[0].Theme)
	})

	t.Run("blank question", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		_, err := f.service(f.generator).SuggestAnswer(context.Background(), f.userID, service.SuggestInput{Question: " "})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, f.generator.Requests())
	})

	t.Run("generator failures keep their kind", func(t *testing.T) {
		t.Parallel()
		f := newCardFixture()
		f.generator.Err = generation.ErrTransientFailure

		_, err := f.service(f.generator).SuggestAnswer(context.Background(), f.userID, service.SuggestInput{Question: "Q?"})
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
	})
}
