package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/events"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/store"
)

// GoalInput carries the fields of a new study goal. A zero StartDate means
// today; a zero EndDate is derived from the goal type.
type GoalInput struct {
	GoalType       domain.GoalType
	TargetCards    *int
	TargetAccuracy *float64
	StartDate      time.Time
	EndDate        time.Time
}

// GoalPatch holds the optional fields of a goal update.
type GoalPatch struct {
	TargetCards    *int
	TargetAccuracy *float64
	EndDate        *time.Time
	IsActive       *bool
}

// GoalWithProgress is a goal together with what the user achieved in its window.
type GoalWithProgress struct {
	*domain.StudyGoal
	Progress domain.GoalProgress `json:"progress"`
}

// GoalService manages study goals and tracks their achievement.
type GoalService interface {
	ListGoals(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.StudyGoal, error)
	CreateGoal(ctx context.Context, userID uuid.UUID, in GoalInput) (*domain.StudyGoal, error)

	// GetGoal returns the goal with its progress. Another user's goal yields ErrNotOwned.
	GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*GoalWithProgress, error)

	UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, patch GoalPatch) (*domain.StudyGoal, error)
	DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error

	// HandleEvent stamps achieved_at on the user's active goals once a
	// finished session brings them over their targets.
	events.EventHandler
}

type goalServiceImpl struct {
	goals   store.StudyGoalStore
	reviews store.CardReviewStore
	now     Clock
	logger  *slog.Logger
}

var _ GoalService = (*goalServiceImpl)(nil)

// NewGoalService creates a new GoalService.
func NewGoalService(
	goals store.StudyGoalStore,
	reviews store.CardReviewStore,
	now Clock,
	logger *slog.Logger,
) GoalService {
	if goals == nil {
		panic("goals cannot be nil")
	}
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &goalServiceImpl{
		goals:   goals,
		reviews: reviews,
		now:     now,
		logger:  logger.With(slog.String("component", "goal_service")),
	}
}

func (s *goalServiceImpl) ListGoals(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.StudyGoal, error) {
	goals, err := s.goals.ListByUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, wrap("goal", "list", "failed to list goals", err)
	}
	return goals, nil
}

func (s *goalServiceImpl) CreateGoal(ctx context.Context, userID uuid.UUID, in GoalInput) (*domain.StudyGoal, error) {
	start := in.StartDate
	if start.IsZero() {
		start = s.now()
	}

	goal, err := domain.NewStudyGoal(userID, in.GoalType, in.TargetCards, in.TargetAccuracy, start, in.EndDate)
	if err != nil {
		return nil, err
	}
	goal.CreatedAt = s.now()

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, wrap("goal", "create", "failed to save goal", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("study goal created",
		slog.String("goal_id", goal.ID.String()),
		slog.String("goal_type", string(goal.GoalType)))
	return goal, nil
}

func (s *goalServiceImpl) owned(ctx context.Context, userID, goalID uuid.UUID) (*domain.StudyGoal, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrNotOwned
	}
	return goal, nil
}

func (s *goalServiceImpl) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*GoalWithProgress, error) {
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, wrap("goal", "get", "failed to load goal", err)
	}

	progress, err := s.progress(ctx, goal)
	if err != nil {
		return nil, wrap("goal", "get", "failed to count reviews", err)
	}
	return &GoalWithProgress{StudyGoal: goal, Progress: progress}, nil
}

func (s *goalServiceImpl) progress(ctx context.Context, goal *domain.StudyGoal) (domain.GoalProgress, error) {
	from, to := goal.Window()
	counts, err := s.reviews.CountInRange(ctx, goal.UserID, from, to)
	if err != nil {
		return domain.GoalProgress{}, err
	}
	return goal.Evaluate(counts.Total, counts.Correct), nil
}

func (s *goalServiceImpl) UpdateGoal(
	ctx context.Context,
	userID, goalID uuid.UUID,
	patch GoalPatch,
) (*domain.StudyGoal, error) {
	goal, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, wrap("goal", "update", "failed to load goal", err)
	}

	updated := *goal
	if patch.TargetCards != nil {
		updated.TargetCards = patch.TargetCards
	}
	if patch.TargetAccuracy != nil {
		updated.TargetAccuracy = patch.TargetAccuracy
	}
	if patch.EndDate != nil {
		updated.EndDate = domain.TruncateToDay(*patch.EndDate)
	}
	if patch.IsActive != nil {
		updated.IsActive = *patch.IsActive
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.goals.Update(ctx, &updated); err != nil {
		return nil, wrap("goal", "update", "failed to save goal", err)
	}
	return &updated, nil
}

func (s *goalServiceImpl) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, goalID); err != nil {
		return wrap("goal", "delete", "failed to load goal", err)
	}
	if err := s.goals.Delete(ctx, goalID); err != nil {
		return wrap("goal", "delete", "failed to delete goal", err)
	}
	return nil
}

// HandleEvent implements events.EventHandler.
func (s *goalServiceImpl) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeSessionEnded {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	var payload events.SessionEndedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return NewServiceError("goal", "handle_event", "invalid session ended payload", err)
	}
	if payload.TotalCards == 0 {
		return nil
	}

	goals, err := s.goals.ListByUser(ctx, payload.UserID, true)
	if err != nil {
		return wrap("goal", "handle_event", "failed to list goals", err)
	}

	for _, goal := range goals {
		if goal.AchievedAt != nil || !goal.Covers(payload.EndedAt) {
			continue
		}
		progress, err := s.progress(ctx, goal)
		if err != nil {
			return wrap("goal", "handle_event", "failed to count reviews", err)
		}
		if !progress.Achieved {
			continue
		}

		achievedAt := payload.EndedAt.UTC()
		goal.AchievedAt = &achievedAt
		if err := s.goals.Update(ctx, goal); err != nil {
			return wrap("goal", "handle_event", "failed to mark goal achieved", err)
		}
		log.Info("study goal achieved",
			slog.String("goal_id", goal.ID.String()),
			slog.String("user_id", goal.UserID.String()))
	}
	return nil
}
