// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/irsalhamdi/e-commerce-books/config"
	"github.com/irsalhamdi/e-commerce-books/database"
	"github.com/jmoiron/sqlx"
)

// Open returns a private in-memory sqlite database with the schema applied.
// It is closed when the test ends.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := config.DB{
		Driver:  database.DriverSQLite,
		DSN:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		Migrate: true,
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
