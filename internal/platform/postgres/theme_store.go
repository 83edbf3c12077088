package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

// PostgresThemeStore implements store.ThemeStore. Ownership of a theme is
// checked through its category.
type PostgresThemeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresThemeStore creates a theme store on db.
func NewPostgresThemeStore(db store.DBTX, logger *slog.Logger) *PostgresThemeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresThemeStore{
		db:     db,
		logger: logger.With(slog.String("component", "theme_store")),
	}
}

var _ store.ThemeStore = (*PostgresThemeStore)(nil)

// WithTx implements store.ThemeStore.WithTx
func (s *PostgresThemeStore) WithTx(tx *sql.Tx) store.ThemeStore {
	return &PostgresThemeStore{db: tx, logger: s.logger}
}

// Create implements store.ThemeStore.Create
func (s *PostgresThemeStore) Create(ctx context.Context, theme *domain.Theme) error {
	if err := theme.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO themes (id, category_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		theme.ID,
		theme.CategoryID,
		theme.Name,
		theme.Description,
		theme.CreatedAt,
		theme.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create theme",
			slog.String("theme_id", theme.ID.String()),
			redact.Attr(err))
		return mapStoreError("theme", "create", err)
	}
	return nil
}

// GetByID implements store.ThemeStore.GetByID
func (s *PostgresThemeStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Theme, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.category_id, t.name, t.description, t.created_at, t.updated_at
		FROM themes t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND c.user_id = $2
	`, id, userID)

	var t domain.Theme
	err := row.Scan(&t.ID, &t.CategoryID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrThemeNotFound
		}
		return nil, mapStoreError("theme", "get", err)
	}
	return &t, nil
}

// List implements store.ThemeStore.List
func (s *PostgresThemeStore) List(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]domain.ThemeSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := psql.Select(
		"t.id", "t.category_id", "t.name", "t.description", "t.created_at", "t.updated_at",
		"(SELECT COUNT(*) FROM cards k WHERE k.theme_id = t.id) AS cards_count",
	).
		From("themes t").
		Join("categories c ON c.id = t.category_id").
		Where(sq.Eq{"c.user_id": userID}).
		OrderBy("t.name")
	if categoryID != nil {
		query = query.Where(sq.Eq{"t.category_id": *categoryID})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, mapStoreError("theme", "list", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list themes",
			slog.String("user_id", userID.String()),
			redact.Attr(err))
		return nil, mapStoreError("theme", "list", err)
	}
	defer func() { _ = rows.Close() }()

	themes := []domain.ThemeSummary{}
	for rows.Next() {
		var ts domain.ThemeSummary
		if err := rows.Scan(
			&ts.ID, &ts.CategoryID, &ts.Name, &ts.Description, &ts.CreatedAt, &ts.UpdatedAt,
			&ts.CardsCount,
		); err != nil {
			return nil, mapStoreError("theme", "list", err)
		}
		themes = append(themes, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("theme", "list", err)
	}
	return themes, nil
}

// Update implements store.ThemeStore.Update
func (s *PostgresThemeStore) Update(ctx context.Context, theme *domain.Theme) error {
	if err := theme.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE themes SET category_id = $1, name = $2, description = $3, updated_at = $4
		WHERE id = $5
	`,
		theme.CategoryID,
		theme.Name,
		theme.Description,
		theme.UpdatedAt,
		theme.ID,
	)
	if err != nil {
		return mapStoreError("theme", "update", err)
	}
	return notFoundAs(CheckRowsAffected(result, "theme"), store.ErrThemeNotFound, "theme", "update")
}

// Delete implements store.ThemeStore.Delete
func (s *PostgresThemeStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM themes t
		USING categories c
		WHERE t.id = $1 AND c.id = t.category_id AND c.user_id = $2
	`, id, userID)
	if err != nil {
		return mapStoreError("theme", "delete", err)
	}
	return notFoundAs(CheckRowsAffected(result, "theme"), store.ErrThemeNotFound, "theme", "delete")
}
