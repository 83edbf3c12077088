package postgres

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(MigrationFiles(), "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 5)

	for _, name := range files {
		content, err := fs.ReadFile(MigrationFiles(), name)
		require.NoError(t, err)
		assert.Contains(t, string(content), "-- +goose Up", name)
		assert.Contains(t, string(content), "-- +goose Down", name)
	}
}

func TestMigrationsEnforceSchedulingInvariants(t *testing.T) {
	t.Parallel()

	content, err := fs.ReadFile(MigrationFiles(), "migrations/00003_create_cards.sql")
	require.NoError(t, err)

	sql := string(content)
	assert.True(t, strings.Contains(sql, "ease_factor >= 1.3"))
	assert.True(t, strings.Contains(sql, "review_count >= 0"))
}

func TestMigrate_UnknownCommand(t *testing.T) {
	t.Parallel()

	db, _ := newMockDB(t)
	err := Migrate(context.Background(), db, "sideways", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}
