// Package reconcile computes the unindexed note set and merges it into the
// auxiliary file.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/scanner"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/tagger"
)

// Options configures one reconciliation pass.
type Options struct {
	NoteExtension string
	IndexSuffix   string
	AuxiliaryName string
	AuxiliaryStem string
	SentinelTag   string
}

// Report summarizes one completed pass.
type Report struct {
	StartedAt   time.Time
	Duration    time.Duration
	Notes       int
	Indexes     int
	Unindexed   int
	Added       []string
	Removed     []string
	Tagged      []string
	AuxChecksum string
}

// Runner executes reconciliation passes over one vault.
type Runner struct {
	store  storage.Provider
	logger *slog.Logger
	opts   Options
}

// NewRunner creates a Runner over the given vault storage.
func NewRunner(store storage.Provider, logger *slog.Logger, opts Options) *Runner {
	return &Runner{store: store, logger: logger, opts: opts}
}

// Run performs one full pass: scan, extract links from index notes, compute
// the unindexed set, synchronize the auxiliary file, and tag index notes.
// Per-artifact failures are logged and skipped; only a failed vault listing
// aborts the pass.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	corpus, err := scanner.Scan(r.store, r.logger, scanner.Options{
		NoteExtension: r.opts.NoteExtension,
		IndexSuffix:   r.opts.IndexSuffix,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		StartedAt: start,
		Notes:     len(corpus.Catalog),
		Indexes:   len(corpus.Indexes),
	}

	if len(corpus.Catalog) == 0 {
		r.logger.Info("reconcile: no notes found, nothing to do")
		report.Duration = time.Since(start)
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	linked := r.collectLinked(corpus)
	// An index note is covered by being part of the index structure itself;
	// it never belongs on the unindexed list.
	for _, idx := range corpus.Indexes {
		linked[parser.Normalize(idx.Stem)] = struct{}{}
	}
	auxKey := parser.Normalize(r.opts.AuxiliaryStem)
	unindexed := Unindexed(corpus.Catalog, linked, auxKey)
	report.Unindexed = len(unindexed)

	r.logger.Info("reconcile: coverage computed",
		slog.Int("linked", len(linked)),
		slog.Int("unindexed", len(unindexed)))
	r.logger.Debug("reconcile: unindexed set", slog.Any("keys", unindexed))

	res, err := SyncAuxiliary(r.store, r.logger, r.opts.AuxiliaryName, unindexed, corpus.Catalog)
	if err != nil {
		// Best-effort per artifact: a failed auxiliary write does not stop
		// index tagging.
		r.logger.Warn("reconcile: auxiliary sync failed", slog.String("error", err.Error()))
	}
	if res != nil {
		report.Added = res.Added
		report.Removed = res.Removed
		if res.Content != "" {
			report.AuxChecksum = checksum.Sum([]byte(res.Content))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Tagged = tagger.Apply(r.store, r.logger, corpus.Indexes, r.opts.SentinelTag)

	report.Duration = time.Since(start)
	r.logger.Info("reconcile: pass finished",
		slog.Int("notes", report.Notes),
		slog.Int("indexes", report.Indexes),
		slog.Int("unindexed", report.Unindexed),
		slog.Int("added", len(report.Added)),
		slog.Int("removed", len(report.Removed)),
		slog.Int("tagged", len(report.Tagged)),
		slog.Duration("duration", report.Duration))

	return report, nil
}

// collectLinked unions the normalized wikilink targets of every index note.
// Unreadable index notes contribute nothing.
func (r *Runner) collectLinked(corpus *scanner.Corpus) map[string]struct{} {
	linked := make(map[string]struct{})
	for _, idx := range corpus.Indexes {
		data, err := r.store.Read(idx.Name)
		if err != nil {
			r.logger.Warn("reconcile: index note unreadable, skipping",
				slog.String("file", idx.Name),
				slog.String("error", err.Error()))
			continue
		}
		links := parser.ExtractLinks(string(data))
		r.logger.Debug("reconcile: links extracted",
			slog.String("file", idx.Name),
			slog.Int("count", len(links)))
		for key := range links {
			linked[key] = struct{}{}
		}
	}
	return linked
}
