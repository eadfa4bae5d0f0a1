package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercase passthrough", "city of god", "city of god"},
		{"uppercase", "City of God", "city of god"},
		{"diacritics", "Amélie", "amelie"},
		{"mixed diacritics", "Léon: The Professional", "leon the professional"},
		{"sharp s", "Straße", "strasse"},
		{"punctuation collapse", "WALL·E", "wall e"},
		{"multiple separators", "Mad Max: Fury -- Road!", "mad max fury road"},
		{"leading trailing", "  (Amores Perros)  ", "amores perros"},
		{"digits kept", "Se7en", "se7en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.want, got)

			// Idempotence.
			assert.Equal(t, got, Normalize(got))
		})
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"basic", "great gatsby", []string{"great", "gatsby"}},
		{"case folded", "Great GATSBY", []string{"great", "gatsby"}},
		{"duplicates collapse", "the the great", []string{"the", "great"}},
		{"single characters dropped", "a great z gatsby", []string{"great", "gatsby"}},
		{"only single characters", "a b c", nil},
		{"diacritics", "Amélie Montmartre", []string{"amelie", "montmartre"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keywords(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
