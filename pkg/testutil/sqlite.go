package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"employee-api/internal/platform/config"
	"employee-api/internal/platform/database"
)

// NewSQLiteDB opens a migrated, private in-memory SQLite database that is
// closed when the test ends.
func NewSQLiteDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), config.Database{
		Driver: config.DriverSQLite,
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err, "failed to open sqlite database")
	require.NoError(t, db.Migrate(context.Background()), "failed to migrate sqlite database")

	t.Cleanup(func() { _ = db.Close() })
	return db
}
