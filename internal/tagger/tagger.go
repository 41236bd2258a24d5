// Package tagger ensures index notes carry the sentinel tag.
package tagger

import (
	"log/slog"
	"strings"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// lineState tracks the position relative to an optional leading frontmatter
// block while scanning content line by line.
type lineState int

const (
	beforeFrontmatter lineState = iota
	inFrontmatter
	afterFrontmatter
)

// EnsureTag returns content with tag present as a standalone line, and
// whether the content changed.
//
// Presence is plain substring containment. When absent, the tag line goes
// right after the closing delimiter of a leading frontmatter block (a "---"
// line at the very start matched by a later "---" line), consuming one
// immediately-following blank line; without a frontmatter block it becomes
// the first line. The result always ends in exactly one trailing newline.
func EnsureTag(content, tag string) (string, bool) {
	if strings.Contains(content, tag) {
		return content, false
	}

	lines := strings.Split(content, "\n")

	state := beforeFrontmatter
	closeIdx := -1
scan:
	for i, line := range lines {
		switch state {
		case beforeFrontmatter:
			if strings.TrimSpace(line) != "---" {
				break scan
			}
			state = inFrontmatter
		case inFrontmatter:
			if strings.TrimSpace(line) == "---" {
				state = afterFrontmatter
				closeIdx = i
				break scan
			}
		}
	}

	var out []string
	if closeIdx >= 0 {
		out = append(out, lines[:closeIdx+1]...)
		out = append(out, tag)
		rest := lines[closeIdx+1:]
		if len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
			// Consume one blank line so the insertion does not double it.
			rest = rest[1:]
		}
		out = append(out, rest...)
	} else {
		out = append(out, tag)
		out = append(out, lines...)
	}

	result := strings.TrimRight(strings.Join(out, "\n"), " \t\r\n") + "\n"
	return result, result != content
}

// Apply ensures every index note contains tag, writing back only the files
// whose content changed. Per-file failures are logged and skipped. Returns
// the names of the files rewritten.
func Apply(store storage.Provider, logger *slog.Logger, indexes []models.NoteFile, tag string) []string {
	var tagged []string
	for _, idx := range indexes {
		data, err := store.Read(idx.Name)
		if err != nil {
			logger.Warn("tagger: read failed",
				slog.String("file", idx.Name),
				slog.String("error", err.Error()))
			continue
		}

		next, changed := EnsureTag(string(data), tag)
		if !changed {
			logger.Debug("tagger: already tagged", slog.String("file", idx.Name))
			continue
		}

		if err := store.Write(idx.Name, []byte(next)); err != nil {
			logger.Warn("tagger: write failed",
				slog.String("file", idx.Name),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("tagger: tagged index note",
			slog.String("file", idx.Name),
			slog.String("tag", tag))
		tagged = append(tagged, idx.Name)
	}
	return tagged
}
