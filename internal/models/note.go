// Package models defines the domain types for Ansuz.
package models

// NoteFile identifies one note file in the vault folder.
type NoteFile struct {
	// Name is the filename including extension, relative to the vault root.
	Name string
	// Stem is the filename with the note extension stripped. It is the raw
	// spelling used when emitting a wikilink to this note.
	Stem string
}
