package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/store"
)

var cardColumns = []string{
	"id", "user_id", "category_id", "theme_id", "question", "answer", "difficulty", "tags",
	"next_review", "review_count", "ease_factor", "created_at", "updated_at",
}

// psql builds PostgreSQL statements with numbered placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
// It returns a new CardStore instance that uses the provided transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	return s.CreateMultiple(ctx, []*domain.Card{card})
}

// CreateMultiple implements store.CardStore.CreateMultiple
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	insert := psql.Insert("cards").Columns(cardColumns...)
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during create",
				redact.Attr(err),
				slog.String("card_id", card.ID.String()))
			return err
		}
		tags, err := encodeTags(card.Tags)
		if err != nil {
			return err
		}
		insert = insert.Values(
			card.ID,
			card.UserID,
			card.CategoryID,
			nullUUID(card.ThemeID),
			card.Question,
			card.Answer,
			string(card.Difficulty),
			tags,
			card.NextReview.UTC(),
			card.ReviewCount,
			card.EaseFactor,
			card.CreatedAt,
			card.UpdatedAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create cards",
			slog.Int("count", len(cards)),
			redact.Attr(err))
		return mapStoreError("card", "create", err)
	}

	log.Debug("cards created", slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.getOne(ctx, id, "")
}

// GetForUpdate implements store.CardStore.GetForUpdate
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.getOne(ctx, id, "FOR UPDATE")
}

func (s *PostgresCardStore) getOne(ctx context.Context, id uuid.UUID, suffix string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	builder := psql.Select(cardColumns...).From("cards").Where(sq.Eq{"id": id})
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card query: %w", err)
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("card_id", id.String()),
			redact.Attr(err))
		return nil, mapStoreError("card", "get", err)
	}
	return card, nil
}

// List implements store.CardStore.List
func (s *PostgresCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	builder := psql.Select(cardColumns...).
		From("cards").
		Where(sq.Eq{"user_id": filter.UserID}).
		OrderBy("created_at DESC", "id")

	if filter.CategoryID != nil {
		builder = builder.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.ThemeID != nil {
		builder = builder.Where(sq.Eq{"theme_id": *filter.ThemeID})
	}
	if filter.Difficulty != "" {
		builder = builder.Where(sq.Eq{"difficulty": string(filter.Difficulty)})
	}
	if filter.Tag != "" {
		tag, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, fmt.Errorf("failed to encode tag filter: %w", err)
		}
		builder = builder.Where(sq.Expr("tags @> ?::jsonb", string(tag)))
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"question": pattern},
			sq.ILike{"answer": pattern},
		})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	return s.query(ctx, builder, "list")
}

// likeEscaper escapes LIKE metacharacters using Postgres' default escape
// character, the backslash.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListDue implements store.CardStore.ListDue
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	builder := psql.Select(cardColumns...).
		From("cards").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.LtOrEq{"next_review": now.UTC()}).
		OrderBy("next_review", "id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return s.query(ctx, builder, "list_due")
}

func (s *PostgresCardStore) query(ctx context.Context, builder sq.SelectBuilder, operation string) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards",
			slog.String("operation", operation),
			redact.Attr(err))
		return nil, mapStoreError("card", operation, err)
	}
	defer func() { _ = rows.Close() }()

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, mapStoreError("card", operation, err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("card", operation, err)
	}
	return cards, nil
}

// Update implements store.CardStore.Update
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}
	tags, err := encodeTags(card.Tags)
	if err != nil {
		return err
	}

	query, args, err := psql.Update("cards").
		Set("category_id", card.CategoryID).
		Set("theme_id", nullUUID(card.ThemeID)).
		Set("question", card.Question).
		Set("answer", card.Answer).
		Set("difficulty", string(card.Difficulty)).
		Set("tags", tags).
		Set("next_review", card.NextReview.UTC()).
		Set("review_count", card.ReviewCount).
		Set("ease_factor", card.EaseFactor).
		Set("updated_at", card.UpdatedAt).
		Where(sq.Eq{"id": card.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update card",
			slog.String("card_id", card.ID.String()),
			redact.Attr(err))
		return mapStoreError("card", "update", err)
	}
	return notFoundAs(CheckRowsAffected(result, "card"), store.ErrCardNotFound, "card", "update")
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete card",
			slog.String("card_id", id.String()),
			redact.Attr(err))
		return mapStoreError("card", "delete", err)
	}
	return notFoundAs(CheckRowsAffected(result, "card"), store.ErrCardNotFound, "card", "delete")
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card       domain.Card
		themeID    uuid.NullUUID
		difficulty string
		tags       []byte
	)
	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.CategoryID,
		&themeID,
		&card.Question,
		&card.Answer,
		&difficulty,
		&tags,
		&card.NextReview,
		&card.ReviewCount,
		&card.EaseFactor,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.ThemeID = uuidPtr(themeID)
	card.Difficulty = domain.Difficulty(difficulty)
	card.NextReview = card.NextReview.UTC()
	card.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode card tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw []byte) ([]string, error) {
	tags := []string{}
	if len(raw) == 0 {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("failed to decode card tags: %w", err)
	}
	return tags, nil
}
