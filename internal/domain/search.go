package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes and drops combining marks so that accented
// characters fold to their ASCII base (e -> e).
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the matching surrogate for a title or query:
// diacritics folded, lowercased, punctuation collapsed to single
// spaces, trimmed. The result is stable under re-normalisation.
func Normalize(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))

	pending := false
	for _, r := range folded {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pending = true
			continue
		}

		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false

		r = unicode.ToLower(r)
		if r == 'ß' {
			b.WriteString("ss")
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Keywords splits a free-form query into the normalised keyword set:
// whitespace-separated tokens with single-character tokens discarded
// and duplicates collapsed, order preserved.
func Keywords(query string) []string {
	fields := strings.Fields(Normalize(query))

	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}

	return out
}
