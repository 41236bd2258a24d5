// Package scanner enumerates the vault folder and classifies note files.
package scanner

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Corpus is the result of one vault scan.
type Corpus struct {
	// Catalog maps normalized note keys to the original stem spelling. The
	// normalized key is the note's identity; on a collision the first file
	// seen wins and later ones are discarded.
	Catalog map[string]string
	// Indexes holds the notes classified as index notes.
	Indexes []models.NoteFile
}

// Options controls file selection and classification.
type Options struct {
	// NoteExtension selects note files, matched case-insensitively.
	NoteExtension string
	// IndexSuffix marks index notes: filenames (case-insensitively) ending
	// in IndexSuffix + NoteExtension.
	IndexSuffix string
}

// Scan lists the vault's immediate note files and partitions them into the
// catalog and the index set. An empty vault yields an empty Corpus, not an
// error. Duplicate normalized stems are logged and discarded, first-seen
// wins.
func Scan(store storage.Provider, logger *slog.Logger, opts Options) (*Corpus, error) {
	files, err := store.List(opts.NoteExtension)
	if err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}

	indexSuffix := strings.ToLower(opts.IndexSuffix + opts.NoteExtension)

	corpus := &Corpus{Catalog: make(map[string]string, len(files))}
	for _, f := range files {
		key := parser.Normalize(f.Stem)
		if kept, ok := corpus.Catalog[key]; ok {
			logger.Warn("scanner: duplicate normalized note name",
				slog.String("key", key),
				slog.String("kept", kept),
				slog.String("discarded", f.Stem))
		} else {
			corpus.Catalog[key] = f.Stem
		}

		if strings.HasSuffix(strings.ToLower(f.Name), indexSuffix) {
			corpus.Indexes = append(corpus.Indexes, f)
		}
	}

	logger.Info("scanner: vault scanned",
		slog.Int("notes", len(corpus.Catalog)),
		slog.Int("indexes", len(corpus.Indexes)))
	logger.Debug("scanner: catalog", slog.Any("catalog", corpus.Catalog))

	return corpus, nil
}
