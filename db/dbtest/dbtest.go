// Package dbtest opens throwaway metadata stores for tests
package dbtest

import (
	"bitwise74/files-manager/db"
	"os"
	"path/filepath"
	"testing"
)

// New returns a migrated store over a fresh SQLite file that is removed
// with the test's temp dir.
func New(t testing.TB) *db.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	// db.New refuses to create the file inside containers
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("failed to create database file: %v", err)
	}

	store, err := db.New(db.Config{Driver: "sqlite", DSN: path})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() { store.Close() })
	return store
}
