package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/syllabus/internal/db"
)

// NewTestDB opens a private in-memory progress store with the program and
// enrollment schema migrated. It is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory progress store: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the unit of work the services run their
// read-modify-write transactions through.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
