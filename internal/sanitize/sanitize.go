// Package sanitize cleans model-produced summaries before they are shown.
package sanitize

import (
	"strings"
	"unicode/utf8"
)

const (
	paragraphSep = "\n\n"

	// MinParagraphLen is the shortest paragraph (in characters, after
	// trimming) that is not treated as noise. Shorter or equal is dropped.
	MinParagraphLen = 20
)

// Normalize trims raw, splits it on blank lines, drops empty, short and
// repeated paragraphs (case-insensitive), and joins the rest in order.
func Normalize(raw string) string {
	paragraphs := strings.Split(strings.TrimSpace(raw), paragraphSep)

	seen := make(map[string]struct{}, len(paragraphs))
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			continue
		}
		if utf8.RuneCountInString(p) <= MinParagraphLen {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, p)
	}
	return strings.Join(kept, paragraphSep)
}
