package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/service/auth"
	"github.com/phrazzld/medcards-api/internal/store"
)

// RegisterParams are the inputs of UserService.Register.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

// UserService provides registration, login and profile lookups.
type UserService interface {
	// Register creates a user with a hashed password.
	// Returns store.ErrEmailExists or store.ErrUsernameExists on conflicts.
	Register(ctx context.Context, params RegisterParams) (*domain.User, error)

	// Authenticate checks a username (or email) and password and stamps the
	// login time. Unknown users and wrong passwords both yield
	// auth.ErrInvalidCredentials.
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userServiceImpl struct {
	users    store.UserStore
	tx       store.Transactor
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	now      Clock
	logger   *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	tx store.Transactor,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	now Clock,
	logger *slog.Logger,
) UserService {
	if users == nil {
		panic("users cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if hasher == nil || verifier == nil {
		panic("password hasher and verifier cannot be nil")
	}
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		tx:       tx,
		hasher:   hasher,
		verifier: verifier,
		now:      now,
		logger:   logger.With(slog.String("component", "user_service")),
	}
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(strings.TrimSpace(params.Username), strings.TrimSpace(params.Email), params.Password)
	if err != nil {
		log.Debug("registration rejected", redact.Attr(err))
		return nil, err
	}
	user.IsAdmin = params.IsAdmin

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", redact.Attr(err))
		return nil, NewServiceError("user", "register", "failed to hash password", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration conflicts with an existing user",
				slog.String("username", user.Username))
		} else {
			log.Error("failed to save user", redact.Attr(err))
		}
		return nil, wrap("user", "register", "failed to save user", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.Bool("is_admin", user.IsAdmin))
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *userServiceImpl) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.users.GetByEmail(ctx, login)
	} else {
		user, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown user")
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", redact.Attr(err))
		return nil, wrap("user", "authenticate", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, auth.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Error("failed to record login",
			slog.String("user_id", user.ID.String()),
			redact.Attr(err))
		return nil, wrap("user", "authenticate", "failed to record login", err)
	}
	user.RecordLogin(now)

	return user, nil
}

// GetUser implements UserService.GetUser
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrap("user", "get", "failed to retrieve user", err)
	}
	return user, nil
}
