package database

import (
	"github.com/cloudflare/ahocorasick"
)

// KeywordMatcher matches a set of keywords as raw substrings over
// already-normalised title text. The underlying automaton reports
// each pattern at most once per input, so a title matches when the
// hit count equals the pattern count. Repeated identical keywords
// collapse to one pattern.
type KeywordMatcher struct {
	patterns []string
	machine  *ahocorasick.Matcher
}

// NewKeywordMatcher builds the automaton over the deduplicated
// keyword set.
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	seen := make(map[string]struct{}, len(keywords))
	patterns := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		patterns = append(patterns, kw)
	}

	return &KeywordMatcher{
		patterns: patterns,
		machine:  ahocorasick.NewStringMatcher(patterns),
	}
}

// Empty reports whether no usable keywords were supplied.
func (m *KeywordMatcher) Empty() bool {
	return len(m.patterns) == 0
}

// MatchesAll reports whether every keyword occurs in text. Matching
// never crosses title boundaries because each title is matched as its
// own input. Hits are additionally deduplicated by pattern index
// before comparing against the pattern count.
func (m *KeywordMatcher) MatchesAll(text string) bool {
	if m.Empty() {
		return false
	}

	hits := m.machine.Match([]byte(text))
	if len(hits) < len(m.patterns) {
		return false
	}

	seen := make(map[int]struct{}, len(m.patterns))
	for _, pattern := range hits {
		seen[pattern] = struct{}{}
	}

	return len(seen) == len(m.patterns)
}
