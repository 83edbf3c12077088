// Package store provides abstractions and implementations for data persistence
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// The function handles rollbacks in case of panic and logs appropriate information.
//
// Failures to begin or commit the transaction are reported as StoreError.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			redact.Attr(err))
		return NewStoreError("transaction", "begin", "failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					redact.Attr(txErr),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			redact.Attr(err))
		return err
	}

	err = tx.Commit()
	if err != nil {
		log.Error("failed to commit transaction",
			redact.Attr(err))
		return NewStoreError("transaction", "commit", "failed to commit transaction", err)
	}

	log.Debug("transaction committed successfully")
	return nil
}

// Transactor runs functions inside a database transaction. Services depend
// on it instead of *sql.DB so they can be exercised without a database.
type Transactor interface {
	RunInTx(ctx context.Context, fn TxFn) error
}

// SQLTransactor is the Transactor backed by a *sql.DB.
type SQLTransactor struct {
	db *sql.DB
}

var _ Transactor = (*SQLTransactor)(nil)

// NewSQLTransactor returns a Transactor that uses RunInTransaction on db.
func NewSQLTransactor(db *sql.DB) *SQLTransactor {
	if db == nil {
		panic("db cannot be nil")
	}
	return &SQLTransactor{db: db}
}

// RunInTx implements Transactor.
func (t *SQLTransactor) RunInTx(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn)
}
