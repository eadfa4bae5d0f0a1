package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating(t *testing.T) {
	assert.False(t, Rating{}.Present())
	assert.Equal(t, "-", Rating{}.String())

	r := Rating{Score: 86, Votes: 750000}
	assert.True(t, r.Present())
	assert.Equal(t, "8.6", r.String())
}

func TestTitleRuntime(t *testing.T) {
	var title Title
	_, ok := title.RuntimeDuration()
	assert.False(t, ok)

	title.Runtime = 130
	d, ok := title.RuntimeDuration()
	require.True(t, ok)
	assert.Equal(t, 130*time.Minute, d)
}

func TestTitleURL(t *testing.T) {
	id, err := ParseTitleID("tt0317248")
	require.NoError(t, err)

	title := Title{ID: id}
	assert.Equal(t, "https://www.imdb.com/title/tt0317248/", title.URL())
}
