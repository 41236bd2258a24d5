// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/reconcile"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/watch"
)

// watchDebounce is how long vault events must settle before a pass re-runs.
const watchDebounce = 500 * time.Millisecond

// Run executes one reconciliation pass with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	store, err := openVault(cfg)
	if err != nil {
		return err
	}

	db, err := openJournal(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	runner := reconcile.NewRunner(store, logger, runnerOptions(cfg))
	report, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation pass: %w", err)
	}

	recordRun(db, logger, report)
	return nil
}

// Watch runs reconciliation passes continuously: one pass up front, then one
// after each debounced batch of vault changes, until interrupted.
func Watch(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	store, err := openVault(cfg)
	if err != nil {
		return err
	}

	db, err := openJournal(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	runner := reconcile.NewRunner(store, logger, runnerOptions(cfg))

	pass := func(ctx context.Context) error {
		report, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		recordRun(db, logger, report)
		return nil
	}

	// Initial pass before watching.
	if err := pass(ctx); err != nil {
		return fmt.Errorf("initial pass: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	g.Go(func() error {
		return watch.Run(watchCtx, cfg.Vault.Path, cfg.Vault.NoteExtension, watchDebounce, logger, pass)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("watch error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("watch stopped")
	return nil
}

// History prints the most recent journal runs to stdout.
func History(ctx context.Context, limit int, opts ...Option) error {
	app, _, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	if !cfg.Journal.JournalEnabled() {
		return apperr.ErrJournalDisabled
	}

	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	fmt.Printf("%-5s %-20s %-9s %6s %6s %6s %6s %6s %6s\n",
		"ID", "STARTED", "DURATION", "NOTES", "IDX", "UNIDX", "ADD", "DEL", "TAG")
	for _, r := range runs {
		fmt.Printf("%-5d %-20s %-9s %6d %6d %6d %6d %6d %6d\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Duration.Round(time.Millisecond),
			r.Notes, r.Indexes, r.Unindexed, r.Added, r.Removed, r.Tagged)
	}
	return nil
}

// setup applies options, validates the config presence, and installs the
// JSON logger.
func setup(opts []Option) (*application, *slog.Logger, error) {
	app := &application{logOut: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("vault_path", app.config.Vault.Path),
		slog.String("auxiliary_name", app.config.Vault.AuxiliaryName),
		slog.String("sentinel_tag", app.config.Vault.SentinelTag),
		slog.Bool("journal", app.config.Journal.JournalEnabled()),
		slog.String("log_level", app.config.App.LogLevel.String()))

	return app, logger, nil
}

// openVault validates the vault path and returns its storage provider.
// A missing or non-directory path is fatal for the run: nothing has been
// scanned or written yet.
func openVault(cfg *Config) (storage.Provider, error) {
	info, err := os.Stat(cfg.Vault.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrVaultMissing, cfg.Vault.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat vault path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", apperr.ErrVaultNotDir, cfg.Vault.Path)
	}
	return storage.NewFS(cfg.Vault.Path)
}

// openJournal opens the run journal when configured; nil means disabled.
func openJournal(cfg *Config, logger *slog.Logger) (*journal.DB, error) {
	if !cfg.Journal.JournalEnabled() {
		return nil, nil
	}
	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	logger.Info("journal enabled", slog.String("path", cfg.Journal.Path))
	return db, nil
}

// recordRun persists a pass report to the journal. Journal failures are
// diagnostics-only and never affect the pass outcome.
func recordRun(db *journal.DB, logger *slog.Logger, report *reconcile.Report) {
	if db == nil || report == nil {
		return
	}

	events := make([]journal.Event, 0, len(report.Added)+len(report.Removed)+len(report.Tagged))
	for _, stem := range report.Added {
		events = append(events, journal.Event{Kind: journal.EventAdded, Target: stem})
	}
	for _, target := range report.Removed {
		events = append(events, journal.Event{Kind: journal.EventRemoved, Target: target})
	}
	for _, name := range report.Tagged {
		events = append(events, journal.Event{Kind: journal.EventTagged, Target: name})
	}

	row := journal.RunRow{
		StartedAt:   report.StartedAt,
		Duration:    report.Duration,
		Notes:       report.Notes,
		Indexes:     report.Indexes,
		Unindexed:   report.Unindexed,
		Added:       len(report.Added),
		Removed:     len(report.Removed),
		Tagged:      len(report.Tagged),
		AuxChecksum: report.AuxChecksum,
	}
	if _, err := db.RecordRun(row, events); err != nil {
		logger.Warn("journal record failed", slog.String("error", err.Error()))
	}
}

// runnerOptions maps the vault config onto reconcile options.
func runnerOptions(cfg *Config) reconcile.Options {
	return reconcile.Options{
		NoteExtension: cfg.Vault.NoteExtension,
		IndexSuffix:   cfg.Vault.IndexSuffix,
		AuxiliaryName: cfg.Vault.AuxiliaryName,
		AuxiliaryStem: cfg.Vault.AuxiliaryStem(),
		SentinelTag:   cfg.Vault.SentinelTag,
	}
}
