// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for vault file operations. All paths are
// filenames relative to the vault root; subfolders are never traversed.
type Provider interface {
	// List returns every immediate child file whose extension matches ext
	// (case-insensitively).
	List(ext string) ([]models.NoteFile, error)
	// Read returns the raw bytes of the file at name.
	Read(name string) ([]byte, error)
	// Write atomically writes content to name.
	Write(name string, content []byte) error
	// Exists reports whether a file named name is present.
	Exists(name string) (bool, error)
}
