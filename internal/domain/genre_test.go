package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenre(t *testing.T) {
	tests := []struct {
		input string
		want  Genre
	}{
		{"Action", GenreAction},
		{"Documentary", GenreDocumentary},
		{"Film-Noir", GenreFilmNoir},
		{"Game-Show", GenreGameShow},
		{"Reality-TV", GenreRealityTv},
		{"Sci-Fi", GenreSciFi},
		{"Talk-Show", GenreTalkShow},
		{"Western", GenreWestern},
		{"Experimental", GenreExperimental},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseGenre(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}

	_, ok := ParseGenre("Telenovela")
	assert.False(t, ok)
}

func TestGenresBitset(t *testing.T) {
	var gs Genres
	assert.Empty(t, gs.All())

	gs.Add(GenreShort)
	gs.Add(GenreDocumentary)
	gs.Add(GenreDocumentary)

	assert.True(t, gs.Has(GenreShort))
	assert.True(t, gs.Has(GenreDocumentary))
	assert.False(t, gs.Has(GenreDrama))

	// Iteration follows declaration order, not insertion order.
	assert.Equal(t, []Genre{GenreDocumentary, GenreShort}, gs.All())
	assert.Equal(t, "Documentary, Short", gs.String())
}
