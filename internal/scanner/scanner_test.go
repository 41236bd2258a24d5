package scanner

import (
	"testing"

	"github.com/starford/ansuz/internal/testutil"
)

var opts = Options{NoteExtension: ".md", IndexSuffix: "index"}

func TestScan_CatalogAndIndexes(t *testing.T) {
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Note A.md", "")
	testutil.WriteNote(t, dir, "Note B.md", "")
	testutil.WriteNote(t, dir, "My Index.md", "[[Note A]]")
	testutil.WriteNote(t, dir, "notes.txt", "not a note")

	corpus, err := Scan(store, testutil.Logger(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(corpus.Catalog) != 3 {
		t.Fatalf("len(catalog) = %d, want 3", len(corpus.Catalog))
	}
	if corpus.Catalog["note a"] != "Note A" {
		t.Errorf("catalog[note a] = %q, want %q", corpus.Catalog["note a"], "Note A")
	}
	if len(corpus.Indexes) != 1 || corpus.Indexes[0].Name != "My Index.md" {
		t.Errorf("indexes = %v, want [My Index.md]", corpus.Indexes)
	}
}

func TestScan_IndexSuffixCaseInsensitive(t *testing.T) {
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Main INDEX.md", "")
	testutil.WriteNote(t, dir, "Plain Note.md", "")

	corpus, err := Scan(store, testutil.Logger(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(corpus.Indexes) != 1 || corpus.Indexes[0].Name != "Main INDEX.md" {
		t.Errorf("indexes = %v, want [Main INDEX.md]", corpus.Indexes)
	}
}

func TestScan_DuplicateNormalizedStems_FirstWins(t *testing.T) {
	dir, store := testutil.TestVault(t)
	// "My Note.md" and "my-note.md" collide on "my note".
	testutil.WriteNote(t, dir, "My Note.md", "")
	testutil.WriteNote(t, dir, "my-note.md", "")

	corpus, err := Scan(store, testutil.Logger(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(corpus.Catalog) != 1 {
		t.Fatalf("len(catalog) = %d, want 1", len(corpus.Catalog))
	}
	// os.ReadDir sorts entries, so "My Note" is seen first.
	if corpus.Catalog["my note"] != "My Note" {
		t.Errorf("catalog[my note] = %q, want %q", corpus.Catalog["my note"], "My Note")
	}
}

func TestScan_EmptyVault(t *testing.T) {
	_, store := testutil.TestVault(t)
	corpus, err := Scan(store, testutil.Logger(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(corpus.Catalog) != 0 || len(corpus.Indexes) != 0 {
		t.Errorf("expected empty corpus, got %v", corpus)
	}
}

func TestScan_ExtensionCaseInsensitive(t *testing.T) {
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Upper.MD", "")

	corpus, err := Scan(store, testutil.Logger(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if corpus.Catalog["upper"] != "Upper" {
		t.Errorf("catalog = %v, want key upper -> Upper", corpus.Catalog)
	}
}
