package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

const categoryColumns = `c.id, c.user_id, c.name, c.color, c.icon, c.created_at, c.updated_at`

// PostgresCategoryStore implements store.CategoryStore.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a category store on db.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{db: tx, logger: s.logger}
}

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, color, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		category.Icon,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create category",
			slog.String("category_id", category.ID.String()),
			redact.Attr(err))
		return mapStoreError("category", "create", err)
	}

	log.Debug("category created", slog.String("category_id", category.ID.String()))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.id = $1 AND c.user_id = $2`,
		id, userID)

	var c domain.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get category",
			slog.String("category_id", id.String()),
			redact.Attr(err))
		return nil, mapStoreError("category", "get", err)
	}
	return &c, nil
}

// ListByUser implements store.CategoryStore.ListByUser
func (s *PostgresCategoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CategorySummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`,
			(SELECT COUNT(*) FROM themes t WHERE t.category_id = c.id) AS themes_count,
			(SELECT COUNT(*) FROM cards k WHERE k.category_id = c.id) AS cards_count
		FROM categories c
		WHERE c.user_id = $1
		ORDER BY c.name
	`, userID)
	if err != nil {
		log.Error("failed to list categories",
			slog.String("user_id", userID.String()),
			redact.Attr(err))
		return nil, mapStoreError("category", "list", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []domain.CategorySummary{}
	for rows.Next() {
		var cs domain.CategorySummary
		if err := rows.Scan(
			&cs.ID, &cs.UserID, &cs.Name, &cs.Color, &cs.Icon, &cs.CreatedAt, &cs.UpdatedAt,
			&cs.ThemesCount, &cs.CardsCount,
		); err != nil {
			return nil, mapStoreError("category", "list", err)
		}
		summaries = append(summaries, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("category", "list", err)
	}
	return summaries, nil
}

// Update implements store.CategoryStore.Update
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, color = $2, icon = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`,
		category.Name,
		category.Color,
		category.Icon,
		category.UpdatedAt,
		category.ID,
		category.UserID,
	)
	if err != nil {
		return mapStoreError("category", "update", err)
	}
	return notFoundAs(CheckRowsAffected(result, "category"), store.ErrCategoryNotFound, "category", "update")
}

// Delete implements store.CategoryStore.Delete
func (s *PostgresCategoryStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("category still has cards", slog.String("category_id", id.String()))
			return store.ErrCategoryHasCards
		}
		log.Error("failed to delete category",
			slog.String("category_id", id.String()),
			redact.Attr(err))
		return mapStoreError("category", "delete", err)
	}
	return notFoundAs(CheckRowsAffected(result, "category"), store.ErrCategoryNotFound, "category", "delete")
}

// notFoundAs replaces the generic not found error of CheckRowsAffected with
// the entity-specific one.
func notFoundAs(err, notFound error, entity, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return mapStoreError(entity, operation, err)
}
