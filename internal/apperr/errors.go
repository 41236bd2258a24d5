// Package apperr defines the sentinel errors of the failure taxonomy.
package apperr

import "errors"

var (
	// ErrVaultMissing marks a configured vault path that does not exist.
	// Fatal for the run: nothing is scanned or written.
	ErrVaultMissing = errors.New("vault path does not exist")
	// ErrVaultNotDir marks a configured vault path that is not a directory.
	// Fatal for the run.
	ErrVaultNotDir = errors.New("vault path is not a directory")
	// ErrJournalDisabled is returned when journal-backed operations are
	// requested without a configured journal database.
	ErrJournalDisabled = errors.New("journal is not configured")
)
