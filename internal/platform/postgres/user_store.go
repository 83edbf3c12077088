package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

const userColumns = `id, username, email, hashed_password, is_admin, last_login_at, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}
	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			redact.Attr(err),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.IsAdmin,
		nullTime(user.LastLoginAt),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate user on create",
				slog.String("user_id", user.ID.String()))
			return mapUserUniqueViolation(err)
		}
		log.Error("failed to create user",
			redact.Attr(err),
			slog.String("user_id", user.ID.String()))
		return mapStoreError("user", "create", err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, "id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, "username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "email", `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, by, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("lookup", by))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("lookup", by),
			redact.Attr(err))
		return nil, mapStoreError("user", "get", err)
	}
	return user, nil
}

// UpdateLastLogin implements store.UserStore.UpdateLastLogin
func (s *PostgresUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`,
		at.UTC(), id)
	if err != nil {
		log.Error("failed to update last login",
			slog.String("user_id", id.String()),
			redact.Attr(err))
		return mapStoreError("user", "update", err)
	}
	return notFoundAs(CheckRowsAffected(result, "user"), store.ErrUserNotFound, "user", "update")
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.IsAdmin,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.LastLoginAt = timePtr(lastLogin)
	return &user, nil
}

func mapUserUniqueViolation(err error) error {
	switch uniqueConstraintName(err) {
	case "users_username_key":
		return MapUniqueViolation(err, "", "", store.ErrUsernameExists)
	default:
		return MapUniqueViolation(err, "", "", store.ErrEmailExists)
	}
}
