package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/medcards-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionCloserFunc func(ctx context.Context, maxAge time.Duration) (int, error)

func (f sessionCloserFunc) CloseStaleSessions(ctx context.Context, maxAge time.Duration) (int, error) {
	return f(ctx, maxAge)
}

type goalExpirerFunc func(ctx context.Context, before time.Time) (int64, error)

func (f goalExpirerFunc) DeactivateExpired(ctx context.Context, before time.Time) (int64, error) {
	return f(ctx, before)
}

func TestConfigFrom(t *testing.T) {
	t.Parallel()

	cfg := ConfigFrom(config.JobsConfig{Enabled: true, IntervalMinutes: 5, StaleSessionMinutes: 90})
	assert.Equal(t, 5*time.Minute, cfg.Interval)
	assert.Equal(t, 90*time.Minute, cfg.StaleSessionAge)

	assert.Equal(t, DefaultConfig(), ConfigFrom(config.JobsConfig{}))
}

func TestCloseStaleSessions(t *testing.T) {
	t.Parallel()

	var gotAge time.Duration
	closer := sessionCloserFunc(func(_ context.Context, maxAge time.Duration) (int, error) {
		gotAge = maxAge
		return 3, nil
	})
	r := NewRunner(closer, nil, Config{StaleSessionAge: 2 * time.Hour}, nil, nil)

	assert.Equal(t, 3, r.CloseStaleSessions(context.Background()))
	assert.Equal(t, 2*time.Hour, gotAge)

	failing := NewRunner(sessionCloserFunc(func(context.Context, time.Duration) (int, error) {
		return 0, errors.New("database unavailable")
	}), nil, Config{}, nil, nil)
	assert.Zero(t, failing.CloseStaleSessions(context.Background()))
}

func TestExpireGoals(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 3, 17, 45, 0, 0, time.UTC)
	var before time.Time
	expirer := goalExpirerFunc(func(_ context.Context, b time.Time) (int64, error) {
		before = b
		return 2, nil
	})
	r := NewRunner(nil, expirer, Config{}, func() time.Time { return now }, nil)

	assert.Equal(t, int64(2), r.ExpireGoals(context.Background()))
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), before)
	assert.Zero(t, r.CloseStaleSessions(context.Background()), "no session closer configured")
}

func TestStartRunsJobsAndStops(t *testing.T) {
	t.Parallel()

	var sessionRuns, goalRuns atomic.Int32
	closer := sessionCloserFunc(func(context.Context, time.Duration) (int, error) {
		sessionRuns.Add(1)
		return 0, nil
	})
	expirer := goalExpirerFunc(func(context.Context, time.Time) (int64, error) {
		goalRuns.Add(1)
		return 0, nil
	})
	r := NewRunner(closer, expirer, Config{Interval: time.Hour}, nil, nil)

	require.NoError(t, r.Start())
	assert.ErrorIs(t, r.Start(), ErrAlreadyStarted)

	assert.Eventually(t, func() bool {
		return sessionRuns.Load() >= 1 && goalRuns.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond, "jobs run once on start")

	r.Stop()
	r.Stop()

	require.NoError(t, r.Start(), "a stopped runner can be started again")
	r.Stop()
}
