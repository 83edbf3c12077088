package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint, Message: "simulated"}
}

var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func cardRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "category_id", "theme_id", "question", "answer", "difficulty", "tags",
		"next_review", "review_count", "ease_factor", "created_at", "updated_at",
	})
}

func addCardRow(rows *sqlmock.Rows, id, userID, categoryID uuid.UUID, themeID any, tags string) *sqlmock.Rows {
	return rows.AddRow(
		id.String(), userID.String(), categoryID.String(), themeID,
		"What is the normal resting heart rate?", "60 to 100 bpm", "medium", tags,
		fixedNow, 2, 2.5, fixedNow, fixedNow,
	)
}
