package database

import (
	"sort"

	"github.com/fredmorcos/tvrank/internal/domain"
)

// Results accumulates query hits and imposes the final ordering.
// Default order: score descending with unrated titles last, then
// votes descending, year ascending, primary title ascending. The
// by-year mode sorts year ascending first, then score, votes, title.
// Titles without a release year sort last within the year key.
type Results struct {
	titles     []domain.Title
	sortByYear bool
	top        int
}

// NewResults creates an accumulator; top <= 0 disables truncation.
func NewResults(sortByYear bool, top int) *Results {
	return &Results{sortByYear: sortByYear, top: top}
}

// Add appends hits.
func (r *Results) Add(titles ...domain.Title) {
	r.titles = append(r.titles, titles...)
}

// Total returns the number of hits before truncation.
func (r *Results) Total() int {
	return len(r.titles)
}

// Truncated reports whether Sorted drops hits due to the top limit.
func (r *Results) Truncated() bool {
	return r.top > 0 && len(r.titles) > r.top
}

// Sorted sorts the accumulated hits and applies the top limit. The
// result is never nil, so an empty outcome still renders as a
// section in table output; the JSON and YAML printers omit empty
// sections.
func (r *Results) Sorted() []domain.Title {
	if r.titles == nil {
		return []domain.Title{}
	}

	if r.sortByYear {
		sort.SliceStable(r.titles, func(i, j int) bool {
			return lessByYear(&r.titles[i], &r.titles[j])
		})
	} else {
		sort.SliceStable(r.titles, func(i, j int) bool {
			return lessByRating(&r.titles[i], &r.titles[j])
		})
	}

	if r.top > 0 && len(r.titles) > r.top {
		return r.titles[:r.top]
	}
	return r.titles
}

// cmpRating orders rated before unrated, then score and votes
// descending. Returns <0 when a sorts first.
func cmpRating(a, b *domain.Title) int {
	ap, bp := a.Rating.Present(), b.Rating.Present()
	switch {
	case ap && !bp:
		return -1
	case !ap && bp:
		return 1
	}

	if a.Rating.Score != b.Rating.Score {
		if a.Rating.Score > b.Rating.Score {
			return -1
		}
		return 1
	}

	if a.Rating.Votes != b.Rating.Votes {
		if a.Rating.Votes > b.Rating.Votes {
			return -1
		}
		return 1
	}

	return 0
}

// cmpYear orders years ascending with unknown years last.
func cmpYear(a, b *domain.Title) int {
	ay, by := a.StartYear, b.StartYear
	switch {
	case ay == by:
		return 0
	case ay == 0:
		return 1
	case by == 0:
		return -1
	case ay < by:
		return -1
	default:
		return 1
	}
}

func lessByRating(a, b *domain.Title) bool {
	if c := cmpRating(a, b); c != 0 {
		return c < 0
	}
	if c := cmpYear(a, b); c != 0 {
		return c < 0
	}
	return a.Primary < b.Primary
}

func lessByYear(a, b *domain.Title) bool {
	if c := cmpYear(a, b); c != 0 {
		return c < 0
	}
	if c := cmpRating(a, b); c != 0 {
		return c < 0
	}
	return a.Primary < b.Primary
}
