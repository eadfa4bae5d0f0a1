package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitleID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TitleID
		ok    bool
	}{
		{"numeric", "tt0000001", 1, true},
		{"city of god", "tt0317248", 317248, true},
		{"eight digits", "tt12345678", 12345678, true},
		{"no prefix", "0317248", 0, false},
		{"wrong prefix", "nm0000001", 0, false},
		{"empty", "", 0, false},
		{"prefix only", "tt", 0, false},
		{"non numeric", "ttabc", 0, false},
		{"trailing non numeric", "tt0000001abc", 0, false},
		{"embedded space", "tt00 1", 0, false},
		{"too wide", "tt123456789", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTitleID(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			gotBytes, err := ParseTitleIDBytes([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotBytes)
		})
	}
}

func TestTitleIDString(t *testing.T) {
	id, err := ParseTitleID("tt0317248")
	require.NoError(t, err)

	assert.Equal(t, "tt0317248", id.String())
	assert.Equal(t, "https://www.imdb.com/title/tt0317248/", id.URL())
}

func TestTitleIDCanonical(t *testing.T) {
	id, err := ParseTitleID("tt0317248")
	require.NoError(t, err)

	assert.Equal(t, [8]byte{'0', '0', '3', '1', '7', '2', '4', '8'}, id.Canonical())

	// Hashing is stable and derived from the canonical blob.
	assert.Equal(t, id.Hash(), id.Hash())

	other, err := ParseTitleID("tt0317249")
	require.NoError(t, err)
	assert.NotEqual(t, id.Hash(), other.Hash())
}

func TestTitleIDJSON(t *testing.T) {
	id, err := ParseTitleID("tt1343092")
	require.NoError(t, err)

	body, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"tt1343092"`, string(body))

	var parsed TitleID
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, id, parsed)

	var bad TitleID
	err = json.Unmarshal([]byte(`"tt1343092abc"`), &bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidID)
}
