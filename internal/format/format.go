// Package format renders query results as a terminal table, JSON or
// YAML.
package format

import (
	"io"

	"github.com/fredmorcos/tvrank/internal/domain"
)

// Printer renders one set of search results. Either section may be
// nil when the command only searched one view.
type Printer interface {
	Print(w io.Writer, query string, movies, series []domain.Title) error
}

// New returns the printer for the requested output format.
func New(f domain.OutputFormat) (Printer, error) {
	switch f {
	case domain.OutputTable:
		return &tablePrinter{}, nil
	case domain.OutputJSON:
		return &jsonPrinter{}, nil
	case domain.OutputYAML:
		return &yamlPrinter{}, nil
	default:
		return nil, &domain.InvalidOutputError{Format: f}
	}
}
