package parser

import "testing"

func TestNormalize_CaseAndPunctuation(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Note!", "my note"},
		{"my-note", "my note"},
		{"MY   NOTE", "my note"},
		{"Note_2024 (draft)", "note 2024 draft"},
		{"", ""},
		{"   ", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"My Note!", "already normal", "A--B__C", "  x  "}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestExtractLinks_DedupeOnNormalizedKey(t *testing.T) {
	links := ExtractLinks("see [[Foo Bar]] and [[foo-bar]]")
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	if _, ok := links["foo bar"]; !ok {
		t.Errorf("links = %v, want key %q", links, "foo bar")
	}
}

func TestExtractLinks_Multiple(t *testing.T) {
	links := ExtractLinks("[[A]] text [[B]]\n[[ C ]]")
	for _, key := range []string{"a", "b", "c"} {
		if _, ok := links[key]; !ok {
			t.Errorf("missing key %q in %v", key, links)
		}
	}
	if len(links) != 3 {
		t.Errorf("len(links) = %d, want 3", len(links))
	}
}

func TestExtractLinks_NoNesting(t *testing.T) {
	// The first closing pair terminates the match.
	links := ExtractLinks("[[outer [[inner]] trailing]]")
	if _, ok := links["outer inner"]; !ok {
		t.Errorf("links = %v, want key %q", links, "outer inner")
	}
}

func TestExtractLinks_None(t *testing.T) {
	links := ExtractLinks("no links here, [single] brackets do not count")
	if len(links) != 0 {
		t.Errorf("links = %v, want empty", links)
	}
}

func TestMatchLinkLine(t *testing.T) {
	cases := []struct {
		line   string
		target string
		ok     bool
	}{
		{"[[Note A]]", "Note A", true},
		{"  [[Note A]]  ", "Note A", true},
		{"[[ Note A ]]", "Note A", true},
		{"see [[Note A]]", "", false},
		{"[[Note A]] trailing", "", false},
		{"<!-- keep me -->", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		target, ok := MatchLinkLine(c.line)
		if ok != c.ok || target != c.target {
			t.Errorf("MatchLinkLine(%q) = (%q, %v), want (%q, %v)", c.line, target, ok, c.target, c.ok)
		}
	}
}
