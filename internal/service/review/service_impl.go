package review

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/domain/srs"
	"github.com/phrazzld/medcards-api/internal/events"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/store"
)

const (
	defaultHistorySize = 10
	maxHistorySize     = 100
)

// Stores groups the persistence dependencies of the review service.
type Stores struct {
	Cards    store.CardStore
	Sessions store.StudySessionStore
	Reviews  store.CardReviewStore
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	cards       store.CardStore
	sessions    store.StudySessionStore
	reviews     store.CardReviewStore
	tx          store.Transactor
	srs         srs.Service
	emitter     events.EventEmitter
	historySize int
	now         service.Clock
	logger      *slog.Logger
}

// NewService creates a review Service. emitter may be nil, in which case no
// events are published.
func NewService(
	stores Stores,
	tx store.Transactor,
	srsService srs.Service,
	emitter events.EventEmitter,
	historySize int,
	now service.Clock,
	logger *slog.Logger,
) Service {
	if stores.Cards == nil || stores.Sessions == nil || stores.Reviews == nil {
		panic("stores cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	if now == nil {
		now = service.SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		cards:       stores.Cards,
		sessions:    stores.Sessions,
		reviews:     stores.Reviews,
		tx:          tx,
		srs:         srsService,
		emitter:     emitter,
		historySize: historySize,
		now:         now,
		logger:      logger.With(slog.String("component", "review_service")),
	}
}

func wrap(operation, message string, err error) error {
	if err == nil || service.IsExpected(err) {
		return err
	}
	return service.NewServiceError("review", operation, message, err)
}

// StartSession implements Service.StartSession.
func (s *serviceImpl) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	sessionType domain.SessionType,
) (*domain.StudySession, error) {
	session, err := domain.NewStudySession(userID, sessionType, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, wrap("start_session", "failed to save session", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("study session started",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("session_type", string(session.SessionType)))
	return session, nil
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *serviceImpl) SubmitAnswer(ctx context.Context, userID uuid.UUID, answer Answer) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", answer.CardID.String()),
		slog.String("session_id", answer.SessionID.String()))

	if answer.DifficultyRating < domain.MinDifficultyRating || answer.DifficultyRating > domain.MaxDifficultyRating {
		log.Warn("invalid difficulty rating", slog.Int("rating", answer.DifficultyRating))
		return nil, service.ErrInvalidRating
	}
	if answer.ResponseTime < 0 {
		return nil, domain.ErrReviewResponseNegative
	}

	var result Result
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessions.WithTx(tx)
		cards := s.cards.WithTx(tx)
		reviews := s.reviews.WithTx(tx)

		session, err := sessions.GetForUpdate(ctx, answer.SessionID)
		if err != nil {
			return err
		}
		if session.UserID != userID {
			log.Warn("session belongs to another user")
			return service.ErrNotOwned
		}
		if session.IsEnded() {
			return service.ErrSessionEnded
		}

		card, err := cards.GetForUpdate(ctx, answer.CardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			log.Warn("card belongs to another user",
				slog.String("owner_id", card.UserID.String()))
			return service.ErrNotOwned
		}

		now := s.now()
		next, err := s.srs.CalculateNextReview(card, answer.IsCorrect, answer.DifficultyRating, now)
		if err != nil {
			return err
		}
		if err := cards.Update(ctx, next); err != nil {
			return err
		}

		review, err := domain.NewCardReview(
			userID, card.ID, session.ID,
			answer.IsCorrect, answer.DifficultyRating, answer.ResponseTime,
			now,
		)
		if err != nil {
			return err
		}
		if err := reviews.Create(ctx, review); err != nil {
			return err
		}

		session.RecordAnswer(answer.IsCorrect)
		if err := sessions.Update(ctx, session); err != nil {
			return err
		}

		result = Result{Card: next, Review: review, Session: session}
		return nil
	})
	if err != nil {
		if !service.IsExpected(err) {
			log.Error("failed to submit answer", redact.Attr(err))
		}
		return nil, wrap("submit_answer", "failed to submit answer", err)
	}

	log.Debug("answer recorded",
		slog.Bool("is_correct", answer.IsCorrect),
		slog.Int("rating", answer.DifficultyRating),
		slog.Int("review_count", result.Card.ReviewCount),
		slog.Float64("ease_factor", result.Card.EaseFactor),
		slog.Time("next_review", result.Card.NextReview))
	return &result, nil
}

// EndSession implements Service.EndSession.
func (s *serviceImpl) EndSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error) {
	var (
		ended   *domain.StudySession
		changed bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessions.WithTx(tx)

		session, err := sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.UserID != userID {
			return service.ErrNotOwned
		}
		ended = session
		if session.IsEnded() {
			return nil
		}

		session.End(s.now())
		changed = true
		return sessions.Update(ctx, session)
	})
	if err != nil {
		return nil, wrap("end_session", "failed to end session", err)
	}

	if changed {
		logger.FromContextOrDefault(ctx, s.logger).Info("study session ended",
			slog.String("session_id", ended.ID.String()),
			slog.Int("total_cards", ended.TotalCards),
			slog.Int("correct_answers", ended.CorrectAnswers))
		s.announce(ctx, ended)
	}
	return ended, nil
}

// announce emits a session ended event. Handler failures are logged only:
// the session is already closed.
func (s *serviceImpl) announce(ctx context.Context, session *domain.StudySession) {
	if s.emitter == nil || session.EndedAt == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(events.TypeSessionEnded, events.SessionEndedPayload{
		UserID:         session.UserID,
		SessionID:      session.ID,
		EndedAt:        *session.EndedAt,
		TotalCards:     session.TotalCards,
		CorrectAnswers: session.CorrectAnswers,
	})
	if err != nil {
		log.Error("failed to build session ended event", redact.Attr(err))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to handle session ended event",
			slog.String("session_id", session.ID.String()),
			redact.Attr(err))
	}
}

// History implements Service.History.
func (s *serviceImpl) History(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StudySession, error) {
	if limit <= 0 {
		limit = s.historySize
	}
	if limit > maxHistorySize {
		limit = maxHistorySize
	}
	sessions, err := s.sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, wrap("history", "failed to list sessions", err)
	}
	return sessions, nil
}

// CloseStaleSessions implements Service.CloseStaleSessions.
func (s *serviceImpl) CloseStaleSessions(ctx context.Context, maxAge time.Duration) (int, error) {
	now := s.now()
	closed, err := s.sessions.CloseStale(ctx, now.Add(-maxAge), now)
	if err != nil {
		return 0, wrap("close_stale", "failed to close stale sessions", err)
	}
	for _, session := range closed {
		s.announce(ctx, session)
	}
	if len(closed) > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Info("closed stale study sessions",
			slog.Int("count", len(closed)))
	}
	return len(closed), nil
}
