package format

import (
	"encoding/json"
	"io"

	"github.com/fredmorcos/tvrank/internal/domain"
)

type jsonPrinter struct{}

type resultDoc struct {
	Query  string         `json:"query,omitempty" yaml:"query,omitempty"`
	Movies []domain.Title `json:"movies,omitempty" yaml:"movies,omitempty"`
	Series []domain.Title `json:"series,omitempty" yaml:"series,omitempty"`
}

func (p *jsonPrinter) Print(w io.Writer, query string, movies, series []domain.Title) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resultDoc{Query: query, Movies: movies, Series: series})
}
