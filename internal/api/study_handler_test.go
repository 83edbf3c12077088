package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/domain/srs"
	"github.com/phrazzld/medcards-api/internal/events"
	"github.com/phrazzld/medcards-api/internal/mocks"
	"github.com/phrazzld/medcards-api/internal/service/review"
	"github.com/phrazzld/medcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type studyFixture struct {
	userID   uuid.UUID
	card     *domain.Card
	session  *domain.StudySession
	cards    *mocks.MockCardStore
	sessions *mocks.MockStudySessionStore
	reviews  *mocks.MockCardReviewStore
}

func newStudyFixture() *studyFixture {
	userID := uuid.New()
	f := &studyFixture{
		userID: userID,
		card: &domain.Card{
			ID: uuid.New(), UserID: userID, CategoryID: uuid.New(),
			Question: "Q", Answer: "A", Difficulty: domain.DifficultyMedium, Tags: []string{},
			NextReview: testNow.Add(-time.Hour), EaseFactor: domain.DefaultEaseFactor,
		},
		session: &domain.StudySession{
			ID: uuid.New(), UserID: userID, SessionType: domain.SessionTypeStudy,
			StartedAt: testNow.Add(-5 * time.Minute),
		},
	}
	f.cards = &mocks.MockCardStore{
		GetForUpdateFn: func(_ context.Context, id uuid.UUID) (*domain.Card, error) {
			if id == f.card.ID {
				c := *f.card
				return &c, nil
			}
			return nil, store.ErrCardNotFound
		},
	}
	getSession := func(_ context.Context, id uuid.UUID) (*domain.StudySession, error) {
		if id == f.session.ID {
			s := *f.session
			return &s, nil
		}
		return nil, store.ErrSessionNotFound
	}
	f.sessions = &mocks.MockStudySessionStore{GetByIDFn: getSession, GetForUpdateFn: getSession}
	f.reviews = &mocks.MockCardReviewStore{}
	return f
}

func (f *studyFixture) handler() *StudyHandler {
	svc := review.NewService(
		review.Stores{Cards: f.cards, Sessions: f.sessions, Reviews: f.reviews},
		&mocks.MockTransactor{},
		srs.NewDefaultService(),
		events.NewInMemoryEventEmitter(nil),
		10,
		testClock,
		nil,
	)
	return NewStudyHandler(svc, nil)
}

func TestStudyHandler_StartSession(t *testing.T) {
	t.Parallel()

	f := newStudyFixture()
	h := f.handler()

	rec := serve(t, h.StartSession, request{
		method: http.MethodPost, pattern: "/study/start", path: "/study/start", userID: f.userID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "study", body["session_type"])
	assert.Nil(t, body["ended_at"])

	rec = serve(t, h.StartSession, request{
		method: http.MethodPost, pattern: "/study/start", path: "/study/start", userID: f.userID,
		body: StartSessionRequest{SessionType: "test"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "test", decode[map[string]any](t, rec)["session_type"])

	rec = serve(t, h.StartSession, request{
		method: http.MethodPost, pattern: "/study/start", path: "/study/start", userID: f.userID,
		body: StartSessionRequest{SessionType: "cram"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudyHandler_SubmitAnswer(t *testing.T) {
	t.Parallel()

	f := newStudyFixture()
	h := f.handler()

	rec := serve(t, h.SubmitAnswer, request{
		method: http.MethodPost, pattern: "/study/answer", path: "/study/answer", userID: f.userID,
		body: map[string]any{
			"session_id": f.session.ID, "card_id": f.card.ID,
			"is_correct": true, "difficulty_rating": 4, "response_time": 12,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[struct {
		Card    domain.Card       `json:"card"`
		Review  domain.CardReview `json:"review"`
		Session map[string]any    `json:"session"`
	}](t, rec)
	assert.Equal(t, 1, result.Card.ReviewCount)
	assert.InDelta(t, 2.5, result.Card.EaseFactor, 1e-9, "rating 4 leaves the ease unchanged")
	assert.True(t, testNow.Add(24*time.Hour).Equal(result.Card.NextReview))
	assert.Equal(t, 4, result.Review.DifficultyRating)
	assert.Equal(t, 12, result.Review.ResponseTime)
	assert.EqualValues(t, 1, result.Session["total_cards"])
	assert.EqualValues(t, 1, result.Session["correct_answers"])
}

func TestStudyHandler_SubmitAnswerErrors(t *testing.T) {
	t.Parallel()

	f := newStudyFixture()
	h := f.handler()
	ended := testNow.Add(-time.Minute)

	tests := []struct {
		name   string
		body   map[string]any
		setup  func()
		status int
	}{
		{
			name:   "missing is_correct",
			body:   map[string]any{"session_id": f.session.ID, "card_id": f.card.ID, "difficulty_rating": 3},
			status: http.StatusBadRequest,
		},
		{
			name:   "rating out of range",
			body:   map[string]any{"session_id": f.session.ID, "card_id": f.card.ID, "is_correct": true, "difficulty_rating": 9},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown card",
			body:   map[string]any{"session_id": f.session.ID, "card_id": uuid.New(), "is_correct": true, "difficulty_rating": 3},
			status: http.StatusNotFound,
		},
		{
			name:   "ended session",
			body:   map[string]any{"session_id": f.session.ID, "card_id": f.card.ID, "is_correct": true, "difficulty_rating": 3},
			setup:  func() { f.session.EndedAt = &ended },
			status: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				tc.setup()
			}
			rec := serve(t, h.SubmitAnswer, request{
				method: http.MethodPost, pattern: "/study/answer", path: "/study/answer", userID: f.userID, body: tc.body,
			})
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestStudyHandler_EndSession(t *testing.T) {
	t.Parallel()

	f := newStudyFixture()
	f.session.TotalCards, f.session.CorrectAnswers = 4, 3
	h := f.handler()

	rec := serve(t, h.EndSession, request{
		method: http.MethodPost, pattern: "/study/end", path: "/study/end", userID: f.userID,
		body: EndSessionRequest{SessionID: f.session.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.NotNil(t, body["ended_at"])
	assert.EqualValues(t, 75, body["accuracy_percentage"])
	assert.EqualValues(t, 5, body["duration_minutes"])

	rec = serve(t, h.EndSession, request{
		method: http.MethodPost, pattern: "/study/end", path: "/study/end", userID: uuid.New(),
		body: EndSessionRequest{SessionID: f.session.ID},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStudyHandler_History(t *testing.T) {
	t.Parallel()

	f := newStudyFixture()
	var gotLimit int
	f.sessions.ListByUserFn = func(_ context.Context, _ uuid.UUID, limit int) ([]*domain.StudySession, error) {
		gotLimit = limit
		return []*domain.StudySession{f.session}, nil
	}
	h := f.handler()

	rec := serve(t, h.History, request{method: http.MethodGet, pattern: "/study/history", path: "/study/history", userID: f.userID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
	assert.Equal(t, 10, gotLimit)

	rec = serve(t, h.History, request{method: http.MethodGet, pattern: "/study/history", path: "/study/history?limit=-3", userID: f.userID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
