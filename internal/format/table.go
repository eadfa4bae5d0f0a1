package format

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/fredmorcos/tvrank/internal/domain"
)

type tablePrinter struct{}

func (p *tablePrinter) Print(w io.Writer, query string, movies, series []domain.Title) error {
	if movies != nil {
		if err := p.section(w, "Movies", query, movies); err != nil {
			return err
		}
	}
	if series != nil {
		if err := p.section(w, "Series", query, series); err != nil {
			return err
		}
	}
	return nil
}

func (p *tablePrinter) section(w io.Writer, heading, query string, titles []domain.Title) error {
	if query != "" {
		fmt.Fprintf(w, "%s matching %s:\n", heading, query)
	} else {
		fmt.Fprintf(w, "%s:\n", heading)
	}

	if len(titles) == 0 {
		fmt.Fprintln(w, "  (none)")
		fmt.Fprintln(w)
		return nil
	}

	tw := tabwriter.NewWriter(w, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "  Title\tOriginal\tYear\tRating\tVotes\tRuntime\tGenres\tType\tIMDB")

	for i := range titles {
		t := &titles[i]
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Primary,
			t.Original,
			formatYear(t),
			t.Rating.String(),
			formatVotes(t),
			formatRuntime(t),
			t.Genres.String(),
			t.Type.String(),
			t.URL(),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func formatYear(t *domain.Title) string {
	switch {
	case t.StartYear == 0:
		return "-"
	case t.EndYear != 0:
		return fmt.Sprintf("%d-%d", t.StartYear, t.EndYear)
	default:
		return fmt.Sprintf("%d", t.StartYear)
	}
}

func formatVotes(t *domain.Title) string {
	if !t.Rating.Present() {
		return "-"
	}
	return humanize.Comma(int64(t.Rating.Votes))
}

func formatRuntime(t *domain.Title) string {
	d, ok := t.RuntimeDuration()
	if !ok {
		return "-"
	}
	return d.String()
}
