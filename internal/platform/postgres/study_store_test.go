package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionColumnNames = []string{"id", "user_id", "session_type", "started_at", "ended_at", "total_cards", "correct_answers"}

func TestPostgresStudySessionStore_GetForUpdate(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresStudySessionStore(db, nil)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM study_sessions WHERE id = \\$1 FOR UPDATE").
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(sessionColumnNames).
			AddRow(id.String(), userID.String(), "review", fixedNow, nil, 4, 3))

	session, err := s.GetForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionTypeReview, session.SessionType)
	assert.False(t, session.IsEnded())
	assert.Equal(t, 4, session.TotalCards)
	assert.Equal(t, 3, session.CorrectAnswers)
}

func TestPostgresStudySessionStore_Update(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresStudySessionStore(db, nil)
	session, err := domain.NewStudySession(uuid.New(), "", fixedNow)
	require.NoError(t, err)
	session.RecordAnswer(true)
	session.End(fixedNow.Add(5 * time.Minute))

	mock.ExpectExec("UPDATE study_sessions SET ended_at").
		WithArgs(*session.EndedAt, 1, 1, session.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Update(context.Background(), session))
}

func TestPostgresStudySessionStore_CloseStale(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresStudySessionStore(db, nil)
	cutoff := fixedNow.Add(-2 * time.Hour)
	id := uuid.New()

	mock.ExpectQuery("UPDATE study_sessions SET ended_at = GREATEST(.+) RETURNING").
		WithArgs(fixedNow, cutoff).
		WillReturnRows(sqlmock.NewRows(sessionColumnNames).
			AddRow(id.String(), uuid.New().String(), "study", cutoff.Add(-time.Hour), fixedNow, 0, 0))

	closed, err := s.CloseStale(context.Background(), cutoff, fixedNow)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, id, closed[0].ID)
	assert.True(t, closed[0].IsEnded())
}

func TestPostgresStudySessionStore_GetByID_Missing(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresStudySessionStore(db, nil)

	mock.ExpectQuery("FROM study_sessions WHERE id").WillReturnRows(sqlmock.NewRows(sessionColumnNames))

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestPostgresCardReviewStore_Create(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresCardReviewStore(db, nil)
	review, err := domain.NewCardReview(uuid.New(), uuid.New(), uuid.New(), true, 4, 12, fixedNow)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO card_reviews").
		WithArgs(review.ID.String(), review.UserID.String(), review.CardID.String(), review.SessionID.String(),
			true, 12, 4, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), review))
}

func TestPostgresCardReviewStore_CountInRange(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresCardReviewStore(db, nil)
	userID := uuid.New()
	from := domain.TruncateToDay(fixedNow)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COUNT\\(\\*\\) FILTER").
		WithArgs(userID.String(), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count", "correct"}).AddRow(12, 9))

	counts, err := s.CountInRange(context.Background(), userID, from, to)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewCounts{Total: 12, Correct: 9}, counts)
}

func TestPostgresStudyGoalStore_ListByUser(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresStudyGoalStore(db, nil)
	userID := uuid.New()
	start := domain.TruncateToDay(fixedNow)

	mock.ExpectQuery("FROM study_goals WHERE user_id = \\$1").
		WithArgs(userID.String(), true).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "goal_type", "target_cards", "target_accuracy",
			"start_date", "end_date", "is_active", "achieved_at", "created_at",
		}).
			AddRow(uuid.New().String(), userID.String(), "weekly", 50, nil, start, start.AddDate(0, 0, 6), true, nil, fixedNow).
			AddRow(uuid.New().String(), userID.String(), "daily", nil, 80.0, start, start, true, fixedNow, fixedNow))

	goals, err := s.ListByUser(context.Background(), userID, true)
	require.NoError(t, err)
	require.Len(t, goals, 2)

	require.NotNil(t, goals[0].TargetCards)
	assert.Equal(t, 50, *goals[0].TargetCards)
	assert.Nil(t, goals[0].TargetAccuracy)
	assert.Nil(t, goals[0].AchievedAt)

	assert.Nil(t, goals[1].TargetCards)
	require.NotNil(t, goals[1].TargetAccuracy)
	assert.InDelta(t, 80.0, *goals[1].TargetAccuracy, 1e-9)
	assert.NotNil(t, goals[1].AchievedAt)
}

func TestPostgresStudyGoalStore_DeactivateExpired(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresStudyGoalStore(db, nil)

	mock.ExpectExec("UPDATE study_goals SET is_active = FALSE").
		WithArgs(domain.TruncateToDay(fixedNow)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.DeactivateExpired(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestPostgresStudyGoalStore_Delete_Missing(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresStudyGoalStore(db, nil)

	mock.ExpectExec("DELETE FROM study_goals").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), uuid.New()), store.ErrGoalNotFound)
}
