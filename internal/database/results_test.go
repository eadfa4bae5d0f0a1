package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredmorcos/tvrank/internal/domain"
)

func makeTitle(id domain.TitleID, primary string, year uint16, score uint8, votes uint32) domain.Title {
	return domain.Title{
		ID:        id,
		Type:      domain.TitleTypeMovie,
		Primary:   primary,
		StartYear: year,
		Rating:    domain.Rating{Score: score, Votes: votes},
	}
}

func TestResultsDefaultOrder(t *testing.T) {
	r := NewResults(false, 0)
	r.Add(
		makeTitle(1, "Unrated", 2000, 0, 0),
		makeTitle(2, "Good", 2010, 80, 100),
		makeTitle(3, "Better", 1990, 90, 100),
		makeTitle(4, "Good but fewer votes", 2005, 80, 50),
		makeTitle(5, "No year", 0, 80, 100),
	)

	sorted := r.Sorted()
	require.Len(t, sorted, 5)

	// Score descending, then votes descending, then year ascending
	// with unknown years last; unrated titles sort last.
	assert.Equal(t, domain.TitleID(3), sorted[0].ID)
	assert.Equal(t, domain.TitleID(2), sorted[1].ID)
	assert.Equal(t, domain.TitleID(5), sorted[2].ID)
	assert.Equal(t, domain.TitleID(4), sorted[3].ID)
	assert.Equal(t, domain.TitleID(1), sorted[4].ID)
}

func TestResultsByYearOrder(t *testing.T) {
	r := NewResults(true, 0)
	r.Add(
		makeTitle(1, "New", 2013, 72, 600000),
		makeTitle(2, "Old", 1974, 64, 50000),
		makeTitle(3, "No year", 0, 90, 100),
		makeTitle(4, "Also new", 2013, 90, 10),
	)

	sorted := r.Sorted()
	require.Len(t, sorted, 4)

	assert.Equal(t, domain.TitleID(2), sorted[0].ID)
	assert.Equal(t, domain.TitleID(4), sorted[1].ID, "within a year, score decides")
	assert.Equal(t, domain.TitleID(1), sorted[2].ID)
	assert.Equal(t, domain.TitleID(3), sorted[3].ID, "unknown year sorts last")
}

func TestResultsTiesBreakOnTitle(t *testing.T) {
	r := NewResults(false, 0)
	r.Add(
		makeTitle(2, "Zebra", 2000, 70, 100),
		makeTitle(1, "Aardvark", 2000, 70, 100),
	)

	sorted := r.Sorted()
	assert.Equal(t, "Aardvark", sorted[0].Primary)
	assert.Equal(t, "Zebra", sorted[1].Primary)
}

func TestResultsTop(t *testing.T) {
	r := NewResults(false, 2)
	r.Add(
		makeTitle(1, "A", 2000, 50, 10),
		makeTitle(2, "B", 2000, 90, 10),
		makeTitle(3, "C", 2000, 70, 10),
	)

	assert.Equal(t, 3, r.Total())
	assert.True(t, r.Truncated())

	sorted := r.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, domain.TitleID(2), sorted[0].ID)
	assert.Equal(t, domain.TitleID(3), sorted[1].ID)
}

func TestResultsNoTop(t *testing.T) {
	r := NewResults(false, 0)
	r.Add(makeTitle(1, "A", 2000, 50, 10))

	assert.False(t, r.Truncated())
	assert.Len(t, r.Sorted(), 1)
}
