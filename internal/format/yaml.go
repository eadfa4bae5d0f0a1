package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/fredmorcos/tvrank/internal/domain"
)

type yamlPrinter struct{}

func (p *yamlPrinter) Print(w io.Writer, query string, movies, series []domain.Title) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(resultDoc{Query: query, Movies: movies, Series: series})
}
