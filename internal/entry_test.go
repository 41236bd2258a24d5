package internal

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/journal"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Vault.Path = t.TempDir()
	return cfg
}

func writeVaultFile(t *testing.T, cfg *Config, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.Vault.Path, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readVaultFile(t *testing.T, cfg *Config, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Vault.Path, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")
	writeVaultFile(t, cfg, "Note A.md", "content a\n")
	writeVaultFile(t, cfg, "Note B.md", "content b\n")
	writeVaultFile(t, cfg, "My Index.md", "[[Note A]]\n")

	if err := Run(context.Background(), WithConfig(cfg), WithLogOutput(io.Discard)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aux := readVaultFile(t, cfg, "unindexed.md")
	if aux != "[[Note B]]\n" {
		t.Errorf("auxiliary = %q, want %q", aux, "[[Note B]]\n")
	}
	idx := readVaultFile(t, cfg, "My Index.md")
	if !strings.Contains(idx, "#index") {
		t.Errorf("index not tagged: %q", idx)
	}

	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Notes != 3 || runs[0].Added != 1 || runs[0].Tagged != 1 {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestRun_MissingVaultIsFatal(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Vault.Path = filepath.Join(t.TempDir(), "missing")

	err := Run(context.Background(), WithConfig(cfg), WithLogOutput(io.Discard))
	if !errors.Is(err, apperr.ErrVaultMissing) {
		t.Errorf("error = %v, want ErrVaultMissing", err)
	}
}

func TestRun_VaultNotDirIsFatal(t *testing.T) {
	cfg := NewDefaultConfig()
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Vault.Path = file

	err := Run(context.Background(), WithConfig(cfg), WithLogOutput(io.Discard))
	if !errors.Is(err, apperr.ErrVaultNotDir) {
		t.Errorf("error = %v, want ErrVaultNotDir", err)
	}
}

func TestRun_ConfigRequired(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRun_EmptyVaultSucceeds(t *testing.T) {
	cfg := testConfig(t)
	if err := Run(context.Background(), WithConfig(cfg), WithLogOutput(io.Discard)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Vault.Path, "unindexed.md")); !errors.Is(err, os.ErrNotExist) {
		t.Error("empty vault must not produce an auxiliary file")
	}
}

func TestHistory_RequiresJournal(t *testing.T) {
	cfg := testConfig(t)
	err := History(context.Background(), 10, WithConfig(cfg), WithLogOutput(io.Discard))
	if !errors.Is(err, apperr.ErrJournalDisabled) {
		t.Errorf("error = %v, want ErrJournalDisabled", err)
	}
}

func TestRun_Idempotent(t *testing.T) {
	cfg := testConfig(t)
	writeVaultFile(t, cfg, "Note A.md", "")
	writeVaultFile(t, cfg, "My Index.md", "body\n")

	if err := Run(context.Background(), WithConfig(cfg), WithLogOutput(io.Discard)); err != nil {
		t.Fatal(err)
	}
	auxFirst := readVaultFile(t, cfg, "unindexed.md")
	idxFirst := readVaultFile(t, cfg, "My Index.md")

	if err := Run(context.Background(), WithConfig(cfg), WithLogOutput(io.Discard)); err != nil {
		t.Fatal(err)
	}
	if got := readVaultFile(t, cfg, "unindexed.md"); got != auxFirst {
		t.Errorf("auxiliary changed: %q vs %q", got, auxFirst)
	}
	if got := readVaultFile(t, cfg, "My Index.md"); got != idxFirst {
		t.Errorf("index changed: %q vs %q", got, idxFirst)
	}
}
