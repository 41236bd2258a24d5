// Package testutil provides shared test helpers for setting up vaults and journals.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/storage"
)

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// WriteNote writes a note file directly into the vault directory.
func WriteNote(t *testing.T, vaultDir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(vaultDir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadNote reads a note file directly from the vault directory.
func ReadNote(t *testing.T, vaultDir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(vaultDir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// TestJournal creates a temporary SQLite journal that is automatically cleaned up.
func TestJournal(t *testing.T) *journal.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	db, err := journal.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Logger returns a logger that discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
