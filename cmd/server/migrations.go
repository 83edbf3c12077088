package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/medcards-api/internal/platform/postgres"
)

// runMigrations applies a goose command using the migrations embedded in
// the postgres package.
func runMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	logger.Info("executing migrations", slog.String("command", command))
	return postgres.Migrate(ctx, db, command, logger)
}
