package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
)

// CardFilter narrows a card listing. Zero values mean "no restriction".
type CardFilter struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	ThemeID    *uuid.UUID
	Difficulty domain.Difficulty
	Tag        string
	Search     string // case-insensitive match on question or answer
	Limit      int
	Offset     int
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card.
	// Returns ErrInvalidEntity if the card references a missing category or theme.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves several cards. Run it inside a transaction for atomicity.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a card and locks its row until the surrounding
	// transaction ends, serializing concurrent reviews of the same card.
	// Must be called on a store bound to a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// List returns the cards matching filter, newest first.
	List(ctx context.Context, filter CardFilter) ([]*domain.Card, error)

	// ListDue returns up to limit of the user's cards whose next review is at
	// or before now, most overdue first.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)

	// Update persists all mutable card fields, scheduling state included.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card and, through cascading, its review events.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) CardStore
}
