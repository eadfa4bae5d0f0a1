package scanner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredmorcos/tvrank/internal/database"
	"github.com/fredmorcos/tvrank/internal/domain"
)

var scanBasics = strings.Join([]string{
	"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
	"tt0098825\ttvSeries\tHouse of Cards\tHouse of Cards\t0\t1990\t1990\t55\tDrama",
	"tt0317248\tmovie\tCity of God\tCidade de Deus\t0\t2002\t\\N\t130\tCrime,Drama",
	"tt1343092\tmovie\tThe Great Gatsby\tThe Great Gatsby\t0\t2013\t\\N\t143\tDrama,Romance",
	"tt1856010\ttvSeries\tHouse of Cards\tHouse of Cards\t0\t2013\t2018\t51\tDrama",
	"tt2543164\tmovie\tArrival\tArrival\t0\t2016\t\\N\t116\tDrama,Sci-Fi",
}, "\n") + "\n"

var scanRatings = strings.Join([]string{
	"tconst\taverageRating\tnumVotes",
	"tt0317248\t8.6\t750000",
	"tt1343092\t7.2\t600000",
}, "\n") + "\n"

func makeService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Build(context.Background(), zerolog.Nop(), []byte(scanBasics), []byte(scanRatings), 2)
	require.NoError(t, err)
	return NewService(zerolog.Nop(), db)
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

func findResult(results []Result, path string) (Result, bool) {
	for _, r := range results {
		if r.Path == path {
			return r, true
		}
	}
	return Result{}, false
}

func TestParseTitleAndYear(t *testing.T) {
	tests := []struct {
		input string
		title string
		year  uint16
		ok    bool
	}{
		{"City of God (2002)", "City of God", 2002, true},
		{"The Great Gatsby (2013)", "The Great Gatsby", 2013, true},
		{"House of Cards", "", 0, false},
		{"(2002)", "", 0, false},
		{"Movie (20)", "", 0, false},
		{"Movie (2002) extra", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			title, year, ok := ParseTitleAndYear(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.title, title)
				assert.Equal(t, tt.year, year)
			}
		})
	}
}

func TestScanByNameAndYear(t *testing.T) {
	s := makeService(t)
	root := t.TempDir()

	matched := mkdir(t, root, "City of God (2002)")
	missed := mkdir(t, root, "Unknown Movie (1999)")

	results, err := s.Scan(context.Background(), root, database.QueryMovies)
	require.NoError(t, err)

	res, ok := findResult(results, matched)
	require.True(t, ok)
	require.Len(t, res.Titles, 1)
	assert.Equal(t, "tt0317248", res.Titles[0].ID.String())
	assert.Equal(t, uint16(2002), res.Titles[0].StartYear)

	// A valid query with zero results is an empty result, not an error.
	res, ok = findResult(results, missed)
	require.True(t, ok)
	assert.Empty(t, res.Titles)
}

func TestScanDescendsOnMiss(t *testing.T) {
	s := makeService(t)
	root := t.TempDir()

	mkdir(t, root, "collection")
	nested := mkdir(t, root, "collection", "The Great Gatsby (2013)")

	results, err := s.Scan(context.Background(), root, database.QueryMovies)
	require.NoError(t, err)

	res, ok := findResult(results, nested)
	require.True(t, ok)
	require.Len(t, res.Titles, 1)
	assert.Equal(t, "tt1343092", res.Titles[0].ID.String())
}

func TestScanExactTitleWithoutYear(t *testing.T) {
	s := makeService(t)
	root := t.TempDir()

	dir := mkdir(t, root, "House of Cards")

	results, err := s.Scan(context.Background(), root, database.QuerySeries)
	require.NoError(t, err)

	res, ok := findResult(results, dir)
	require.True(t, ok)
	require.Len(t, res.Titles, 2)
	for _, title := range res.Titles {
		assert.True(t, title.Type.IsSeries())
	}
}

func TestScanOverride(t *testing.T) {
	s := makeService(t)
	root := t.TempDir()

	pinned := mkdir(t, root, "some-dir")
	require.NoError(t, os.WriteFile(
		filepath.Join(pinned, TitleInfoFile),
		[]byte(`{"imdb":{"id":"tt2543164"}}`),
		0o644,
	))

	// The override is definitive: the subtree below is not scanned.
	mkdir(t, pinned, "City of God (2002)")

	results, err := s.Scan(context.Background(), root, database.QueryMovies)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, pinned, results[0].Path)
	require.Len(t, results[0].Titles, 1)
	assert.Equal(t, "tt2543164", results[0].Titles[0].ID.String())
}

func TestScanOverrideInvalidID(t *testing.T) {
	s := makeService(t)
	root := t.TempDir()

	// Trailing non-digits make the file invalid; it is ignored with a
	// warning and the directory falls back to name matching.
	dir := mkdir(t, root, "City of God (2002)")
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, TitleInfoFile),
		[]byte(`{"imdb":{"id":"tt2543164abc"}}`),
		0o644,
	))

	results, err := s.Scan(context.Background(), root, database.QueryMovies)
	require.NoError(t, err)

	res, ok := findResult(results, dir)
	require.True(t, ok)
	require.Len(t, res.Titles, 1)
	assert.Equal(t, "tt0317248", res.Titles[0].ID.String())
}

func TestScanNotADirectory(t *testing.T) {
	s := makeService(t)

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := s.Scan(context.Background(), file, database.QueryMovies)
	assert.ErrorIs(t, err, domain.ErrNotDirectory)
}

func TestMarkRoundTrip(t *testing.T) {
	s := makeService(t)
	dir := mkdir(t, t.TempDir(), "The Great Gatsby (2013)")

	require.NoError(t, s.Mark(dir, "tt1343092", false))

	body, err := os.ReadFile(filepath.Join(dir, TitleInfoFile))
	require.NoError(t, err)

	var ti TitleInfo
	require.NoError(t, json.Unmarshal(body, &ti))
	assert.Equal(t, "tt1343092", ti.Imdb.ID.String())

	// Marking again without force fails; with force it overwrites.
	err = s.Mark(dir, "tt0317248", false)
	assert.ErrorIs(t, err, domain.ErrMarkExists)

	require.NoError(t, s.Mark(dir, "tt0317248", true))

	body, err = os.ReadFile(filepath.Join(dir, TitleInfoFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &ti))
	assert.Equal(t, "tt0317248", ti.Imdb.ID.String())
}

func TestMarkInvalidID(t *testing.T) {
	s := makeService(t)
	dir := t.TempDir()

	err := s.Mark(dir, "tt1343092abc", false)
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, statErr := os.Stat(filepath.Join(dir, TitleInfoFile))
	assert.True(t, os.IsNotExist(statErr), "no file may be written for an invalid id")
}

func TestMarkUnknownID(t *testing.T) {
	s := makeService(t)

	err := s.Mark(t.TempDir(), "tt7777777", false)
	assert.ErrorIs(t, err, domain.ErrUnknownID)
}

func TestMarkNotADirectory(t *testing.T) {
	s := makeService(t)

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := s.Mark(file, "tt1343092", false)
	assert.ErrorIs(t, err, domain.ErrNotDirectory)
}
