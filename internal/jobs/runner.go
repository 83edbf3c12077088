package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/medcards-api/internal/config"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/redact"
)

// SessionCloser closes study sessions that have been open longer than maxAge.
type SessionCloser interface {
	CloseStaleSessions(ctx context.Context, maxAge time.Duration) (int, error)
}

// GoalExpirer deactivates goals whose end date is before the given day.
type GoalExpirer interface {
	DeactivateExpired(ctx context.Context, before time.Time) (int64, error)
}

// ErrAlreadyStarted is returned by Start when the runner is running.
var ErrAlreadyStarted = errors.New("job runner already started")

// Config holds the schedule of the maintenance jobs.
type Config struct {
	// Interval between two runs of each job.
	Interval time.Duration
	// StaleSessionAge is how long a session may stay open before it is closed.
	StaleSessionAge time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Interval:        15 * time.Minute,
		StaleSessionAge: 4 * time.Hour,
	}
}

// ConfigFrom converts the application jobs section.
func ConfigFrom(cfg config.JobsConfig) Config {
	c := DefaultConfig()
	if cfg.IntervalMinutes > 0 {
		c.Interval = time.Duration(cfg.IntervalMinutes) * time.Minute
	}
	if cfg.StaleSessionMinutes > 0 {
		c.StaleSessionAge = time.Duration(cfg.StaleSessionMinutes) * time.Minute
	}
	return c
}

// Runner schedules the maintenance jobs.
type Runner struct {
	sessions SessionCloser
	goals    GoalExpirer
	config   Config
	now      func() time.Time
	logger   *slog.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
	cancel    context.CancelFunc
}

// NewRunner creates a Runner. Either dependency may be nil to skip its job.
func NewRunner(
	sessions SessionCloser,
	goals GoalExpirer,
	cfg Config,
	now func() time.Time,
	logger *slog.Logger,
) *Runner {
	defaults := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.StaleSessionAge <= 0 {
		cfg.StaleSessionAge = defaults.StaleSessionAge
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		sessions: sessions,
		goals:    goals,
		config:   cfg,
		now:      now,
		logger:   logger.With(slog.String("component", "job_runner")),
	}
}

// Start registers the jobs and runs the scheduler in the background. Each
// job runs once immediately and then every Config.Interval.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scheduler != nil {
		return ErrAlreadyStarted
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	ctx, cancel := context.WithCancel(context.Background())

	if r.sessions != nil {
		if _, err := s.Every(r.config.Interval).Tag("close_stale_sessions").Do(func() {
			r.CloseStaleSessions(ctx)
		}); err != nil {
			cancel()
			return fmt.Errorf("failed to schedule stale session job: %w", err)
		}
	}
	if r.goals != nil {
		if _, err := s.Every(r.config.Interval).Tag("expire_goals").Do(func() {
			r.ExpireGoals(ctx)
		}); err != nil {
			cancel()
			return fmt.Errorf("failed to schedule goal expiry job: %w", err)
		}
	}

	s.StartAsync()
	r.scheduler, r.cancel = s, cancel

	r.logger.Info("job runner started",
		slog.Int("jobs", len(s.Jobs())),
		slog.Duration("interval", r.config.Interval),
		slog.Duration("stale_session_age", r.config.StaleSessionAge))
	return nil
}

// Stop cancels running jobs and waits for the scheduler to stop. It is safe
// to call Stop on a runner that was never started.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scheduler == nil {
		return
	}
	r.cancel()
	r.scheduler.Stop()
	r.scheduler, r.cancel = nil, nil
	r.logger.Info("job runner stopped")
}

// CloseStaleSessions runs the stale session job once and returns the number
// of sessions closed. Failures are logged.
func (r *Runner) CloseStaleSessions(ctx context.Context) int {
	if r.sessions == nil {
		return 0
	}
	n, err := r.sessions.CloseStaleSessions(ctx, r.config.StaleSessionAge)
	if err != nil {
		r.logger.Error("failed to close stale sessions", redact.Attr(err))
		return 0
	}
	if n > 0 {
		r.logger.Info("closed stale sessions", slog.Int("count", n))
	}
	return n
}

// ExpireGoals runs the goal expiry job once and returns the number of goals
// deactivated. Failures are logged.
func (r *Runner) ExpireGoals(ctx context.Context) int64 {
	if r.goals == nil {
		return 0
	}
	n, err := r.goals.DeactivateExpired(ctx, domain.TruncateToDay(r.now()))
	if err != nil {
		r.logger.Error("failed to deactivate expired goals", redact.Attr(err))
		return 0
	}
	if n > 0 {
		r.logger.Info("deactivated expired goals", slog.Int64("count", n))
	}
	return n
}
