package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestNewStudyGoalDerivesEndDate(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 2, 10, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		goalType GoalType
		wantEnd  time.Time
	}{
		{GoalTypeDaily, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)},
		{GoalTypeWeekly, time.Date(2025, 2, 16, 0, 0, 0, 0, time.UTC)},
		{GoalTypeMonthly, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(string(tc.goalType), func(t *testing.T) {
			g, err := NewStudyGoal(uuid.New(), tc.goalType, intPtr(10), nil, start, time.Time{})
			require.NoError(t, err)
			assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), g.StartDate)
			assert.Equal(t, tc.wantEnd, g.EndDate)
			assert.True(t, g.IsActive)
		})
	}
}

func TestStudyGoalValidate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	_, err := NewStudyGoal(userID, "yearly", intPtr(1), nil, start, time.Time{})
	assert.ErrorIs(t, err, ErrGoalTypeInvalid)

	_, err = NewStudyGoal(userID, GoalTypeDaily, nil, nil, start, time.Time{})
	assert.ErrorIs(t, err, ErrGoalTargetMissing)

	_, err = NewStudyGoal(userID, GoalTypeDaily, intPtr(0), nil, start, time.Time{})
	assert.ErrorIs(t, err, ErrGoalTargetCardsInvalid)

	_, err = NewStudyGoal(userID, GoalTypeDaily, nil, floatPtr(101), start, time.Time{})
	assert.ErrorIs(t, err, ErrGoalAccuracyInvalid)

	_, err = NewStudyGoal(userID, GoalTypeDaily, intPtr(5), nil, start, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrGoalDatesInvalid)
}

func TestStudyGoalWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	g, err := NewStudyGoal(uuid.New(), GoalTypeWeekly, intPtr(50), nil, start, time.Time{})
	require.NoError(t, err)

	assert.True(t, g.Covers(start))
	assert.True(t, g.Covers(time.Date(2025, 2, 16, 23, 59, 0, 0, time.UTC)))
	assert.False(t, g.Covers(time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC)))
	assert.False(t, g.Covers(start.Add(-time.Second)))

	assert.False(t, g.Expired(time.Date(2025, 2, 16, 12, 0, 0, 0, time.UTC)))
	assert.True(t, g.Expired(time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC)))
}

func TestStudyGoalEvaluate(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	g, err := NewStudyGoal(uuid.New(), GoalTypeDaily, intPtr(10), floatPtr(80), start, time.Time{})
	require.NoError(t, err)

	p := g.Evaluate(10, 8)
	assert.True(t, p.Achieved)
	assert.Equal(t, 80.0, p.Accuracy)

	assert.False(t, g.Evaluate(9, 9).Achieved, "not enough cards")
	assert.False(t, g.Evaluate(20, 15).Achieved, "accuracy 75 below target")

	accOnly, err := NewStudyGoal(uuid.New(), GoalTypeDaily, nil, floatPtr(50), start, time.Time{})
	require.NoError(t, err)
	assert.False(t, accOnly.Evaluate(0, 0).Achieved, "no reviews never achieves a goal")
	assert.True(t, accOnly.Evaluate(2, 1).Achieved)
}
