package testutil

import (
	"context"
	"database/sql"
	"testing"

	"coursehub/internal/config"
	"coursehub/internal/database"
)

// OpenDB opens a named in-memory SQLite database with all migrations
// applied. The database is closed when the test finishes.
func OpenDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: database.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared&_busy_timeout=5000",
	}
	d, err := database.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}
