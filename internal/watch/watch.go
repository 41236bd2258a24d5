// Package watch re-runs the reconciliation pass when vault files change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Trigger is invoked after a debounced batch of relevant file events.
type Trigger func(ctx context.Context) error

// Run watches the vault root (non-recursively, matching the flat vault
// contract) and invokes trigger after events touching note files or the
// auxiliary file settle. Passes run serially; events arriving during a pass
// schedule the next one. Returns when ctx is cancelled.
func Run(ctx context.Context, root, noteExt string, debounce time.Duration, logger *slog.Logger, trigger Trigger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started",
		slog.String("root", root),
		slog.Duration("debounce", debounce))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			if err := trigger(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("watcher: pass failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, noteExt) {
				continue
			}
			logger.Debug("watcher: change observed",
				slog.String("file", filepath.Base(ev.Name)),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant filters events down to note-file mutations. Chmod-only events are
// ignored; everything else on a matching extension schedules a pass.
func relevant(ev fsnotify.Event, noteExt string) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(ev.Name)
	// Skip the atomic-write temp files the storage layer creates.
	if strings.HasPrefix(name, ".ansuz-tmp-") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), noteExt)
}
