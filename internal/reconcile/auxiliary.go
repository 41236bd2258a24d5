package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// SyncResult describes the outcome of one auxiliary file reconciliation.
type SyncResult struct {
	// Added holds the original stems appended as new link lines.
	Added []string
	// Removed holds the raw targets of dropped link lines.
	Removed []string
	// Content is the final auxiliary content, empty when there is nothing to
	// hold.
	Content string
	// Wrote reports whether the file on disk was actually rewritten.
	Wrote bool
}

// SyncAuxiliary merges unindexed into the auxiliary file named auxName.
//
// Existing lines holding a sole wikilink are kept verbatim when their
// normalized target is still in unindexed and dropped otherwise; every other
// line is preserved verbatim. Keys not yet present are appended as new
// [[stem]] lines in normalized-key order, spelled via catalog. Trailing blank
// lines collapse to at most one trailing newline. The file is written only
// when the content actually changed, and is not created when there is nothing
// to hold.
func SyncAuxiliary(store storage.Provider, logger *slog.Logger, auxName string, unindexed map[string]struct{}, catalog map[string]string) (*SyncResult, error) {
	result := &SyncResult{}

	existing, readErr := store.Read(auxName)
	exists := readErr == nil
	if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
		// Unreadable counts as nothing preserved: rebuild from scratch.
		logger.Warn("reconcile: auxiliary file unreadable, rebuilding",
			slog.String("file", auxName),
			slog.String("error", readErr.Error()))
	}

	var lines []string
	kept := make(map[string]struct{})
	if exists {
		rawLines := strings.Split(string(existing), "\n")
		// The final empty element of a newline-terminated file is the
		// terminator, not a blank line.
		if n := len(rawLines); n > 0 && rawLines[n-1] == "" {
			rawLines = rawLines[:n-1]
		}
		for _, line := range rawLines {
			target, ok := parser.MatchLinkLine(line)
			if !ok {
				lines = append(lines, line)
				continue
			}
			key := parser.Normalize(target)
			if _, still := unindexed[key]; still {
				lines = append(lines, line)
				kept[key] = struct{}{}
			} else {
				logger.Info("reconcile: dropping auxiliary entry",
					slog.String("file", auxName),
					slog.String("target", target))
				result.Removed = append(result.Removed, target)
			}
		}
	}

	var missing []string
	for key := range unindexed {
		if _, ok := kept[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)

	for _, key := range missing {
		stem, ok := catalog[key]
		if !ok {
			logger.Error("reconcile: no original spelling for key", slog.String("key", key))
			continue
		}
		lines = append(lines, "[["+stem+"]]")
		result.Added = append(result.Added, stem)
		logger.Debug("reconcile: appending auxiliary entry",
			slog.String("key", key),
			slog.String("stem", stem))
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 {
		result.Content = strings.Join(lines, "\n") + "\n"
	}

	switch {
	case !exists && result.Content == "":
		// Nothing to hold and no file on disk: do not create one.
	case exists && result.Content == string(existing):
		logger.Debug("reconcile: auxiliary file unchanged", slog.String("file", auxName))
	default:
		if err := store.Write(auxName, []byte(result.Content)); err != nil {
			return result, fmt.Errorf("reconcile: write auxiliary: %w", err)
		}
		result.Wrote = true
		logger.Info("reconcile: auxiliary file updated",
			slog.String("file", auxName),
			slog.Int("added", len(result.Added)),
			slog.Int("removed", len(result.Removed)))
	}

	return result, nil
}
