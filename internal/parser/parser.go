// Package parser normalizes note identifiers and extracts wikilinks from
// Markdown content.
package parser

import (
	"regexp"
	"strings"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
	auxLineRe  = regexp.MustCompile(`^\s*\[\[([^\]]+)\]\]\s*$`)
)

// Normalize canonicalizes a raw note name or link target for comparison:
// lower-cased, every maximal run of characters outside [a-z0-9] collapsed to
// a single space, leading/trailing spaces trimmed. Total and idempotent; two
// names differing only in case, punctuation, or whitespace runs normalize
// identically.
func Normalize(raw string) string {
	lowered := strings.ToLower(raw)
	collapsed := nonAlnumRe.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(collapsed)
}

// ExtractLinks returns the set of normalized targets referenced via
// [[wikilink]] syntax in content. Duplicates collapse on the normalized key.
// The first closing bracket pair terminates a match; nesting is not
// supported.
func ExtractLinks(content string) map[string]struct{} {
	matches := wikilinkRe.FindAllStringSubmatch(content, -1)
	out := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		out[Normalize(strings.TrimSpace(m[1]))] = struct{}{}
	}
	return out
}

// MatchLinkLine reports whether line consists of exactly one wikilink with
// nothing but whitespace around it, returning the trimmed raw target.
func MatchLinkLine(line string) (string, bool) {
	m := auxLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
