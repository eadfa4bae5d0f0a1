package tsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredmorcos/tvrank/internal/domain"
)

func TestParseBasics(t *testing.T) {
	line := []byte("tt0000001\tshort\tCarmencita\tCarmencita\t0\t1894\t\\N\t1\tDocumentary,Short")

	row, err := ParseBasics(line)
	require.NoError(t, err)

	assert.False(t, row.Skip)
	assert.Equal(t, domain.TitleID(1), row.ID)
	assert.Equal(t, domain.TitleTypeShort, row.Type)
	assert.Equal(t, "Carmencita", string(row.Primary))
	assert.Nil(t, row.Original, "original equal to primary collapses to nil")
	assert.False(t, row.Adult)
	assert.Equal(t, uint16(1894), row.StartYear)
	assert.Zero(t, row.EndYear)
	assert.Equal(t, uint16(1), row.Runtime)
	assert.True(t, row.Genres.Has(domain.GenreDocumentary))
	assert.True(t, row.Genres.Has(domain.GenreShort))
}

func TestParseBasicsOriginalTitle(t *testing.T) {
	line := []byte("tt0317248\tmovie\tCity of God\tCidade de Deus\t0\t2002\t\\N\t130\tCrime,Drama")

	row, err := ParseBasics(line)
	require.NoError(t, err)
	assert.Equal(t, "City of God", string(row.Primary))
	assert.Equal(t, "Cidade de Deus", string(row.Original))
}

func TestParseBasicsSeries(t *testing.T) {
	line := []byte("tt1856010\ttvSeries\tHouse of Cards\tHouse of Cards\t0\t2013\t2018\t51\tDrama")

	row, err := ParseBasics(line)
	require.NoError(t, err)
	assert.Equal(t, domain.TitleTypeTvSeries, row.Type)
	assert.Equal(t, uint16(2013), row.StartYear)
	assert.Equal(t, uint16(2018), row.EndYear)
}

func TestParseBasicsUnsupportedType(t *testing.T) {
	line := []byte("tt0000002\tradioSeries\tSome Show\tSome Show\t0\t1950\t\\N\t\\N\t\\N")

	row, err := ParseBasics(line)
	require.NoError(t, err)
	assert.True(t, row.Skip)
}

func TestParseBasicsAdult(t *testing.T) {
	line := []byte("tt0000003\tmovie\tSomething\tSomething\t1\t1999\t\\N\t80\tDrama")

	row, err := ParseBasics(line)
	require.NoError(t, err)
	assert.True(t, row.Adult)
}

func TestParseBasicsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"bad id", "x0000001\tmovie\tA\tA\t0\t1990\t\\N\t90\tDrama"},
		{"trailing junk in id", "tt0001ab\tmovie\tA\tA\t0\t1990\t\\N\t90\tDrama"},
		{"missing columns", "tt0000001\tmovie\tA"},
		{"bad adult flag", "tt0000001\tmovie\tA\tA\t2\t1990\t\\N\t90\tDrama"},
		{"bad year", "tt0000001\tmovie\tA\tA\t0\tabc\t\\N\t90\tDrama"},
		{"end before start", "tt0000001\tmovie\tA\tA\t0\t1990\t1980\t90\tDrama"},
		{"unknown genre", "tt0000001\tmovie\tA\tA\t0\t1990\t\\N\t90\tNoSuchGenre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBasics([]byte(tt.line))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedRow)
		})
	}
}

func TestParseRatings(t *testing.T) {
	row, err := ParseRatings([]byte("tt0000001\t5.7\t1846"))
	require.NoError(t, err)
	assert.Equal(t, domain.TitleID(1), row.ID)
	assert.Equal(t, uint8(57), row.Score)
	assert.Equal(t, uint32(1846), row.Votes)
}

func TestParseRatingsScores(t *testing.T) {
	tests := []struct {
		input string
		want  uint8
		ok    bool
	}{
		{"8.6", 86, true},
		{"10.0", 100, true},
		{"0.0", 0, true},
		{"7", 70, true},
		{"10.1", 0, false},
		{"8.65", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			row, err := ParseRatings([]byte("tt0000001\t" + tt.input + "\t100"))
			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrMalformedRow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, row.Score)
		})
	}
}

func TestIsHeader(t *testing.T) {
	assert.True(t, IsHeader([]byte("tconst\ttitleType\tprimaryTitle")))
	assert.False(t, IsHeader([]byte("tt0000001\tshort\tCarmencita")))
}
