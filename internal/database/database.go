// Package database holds the in-memory sharded title database: its
// parallel construction from the raw dumps, the binary snapshot it is
// persisted to, and the query service answering id, title and keyword
// lookups.
package database

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fredmorcos/tvrank/internal/domain"
)

// Query selects which of the two logical views is searched.
type Query uint8

const (
	QueryMovies Query = iota
	QuerySeries
)

func (q Query) String() string {
	if q == QueryMovies {
		return "movies"
	}
	return "series"
}

// matches reports whether a title type belongs to the queried group.
func (q Query) matches(t domain.TitleType) bool {
	if q == QueryMovies {
		return t.IsMovie()
	}
	return t.IsSeries()
}

// Database is the query service over the built shards. It is
// immutable and safe for any number of concurrent queries.
type Database struct {
	log     zerolog.Logger
	shards  []*Shard
	nMovies int
	nSeries int
}

func newDatabase(log zerolog.Logger, shards []*Shard) *Database {
	d := &Database{
		log:    log.With().Str("module", "database").Logger(),
		shards: shards,
	}

	for _, s := range shards {
		for i := range s.recs {
			switch {
			case s.recs[i].ttype.IsMovie():
				d.nMovies++
			case s.recs[i].ttype.IsSeries():
				d.nSeries++
			}
		}
	}

	return d
}

// ShardCount returns the number of shards K.
func (d *Database) ShardCount() int {
	return len(d.shards)
}

// NMovies returns the number of movie-like titles.
func (d *Database) NMovies() int {
	return d.nMovies
}

// NSeries returns the number of series-like titles.
func (d *Database) NSeries() int {
	return d.nSeries
}

// NTitles returns the total number of titles.
func (d *Database) NTitles() int {
	return d.nMovies + d.nSeries
}

// ByID looks up a single title. The id hashes to exactly one shard.
func (d *Database) ByID(id domain.TitleID, q Query) (domain.Title, bool) {
	k := id.Hash() % uint64(len(d.shards))
	return d.shards[k].byIDQuery(id, q)
}

// ByTitle returns all titles whose normalised primary or original
// title equals the normalised query.
func (d *Database) ByTitle(ctx context.Context, title string, q Query) ([]domain.Title, error) {
	return d.byTitle(ctx, title, -1, q)
}

// ByTitleAndYear is ByTitle filtered by release-year equality.
func (d *Database) ByTitleAndYear(ctx context.Context, title string, year uint16, q Query) ([]domain.Title, error) {
	return d.byTitle(ctx, title, int(year), q)
}

func (d *Database) byTitle(ctx context.Context, title string, year int, q Query) ([]domain.Title, error) {
	norm := domain.Normalize(title)
	if norm == "" {
		return nil, nil
	}

	slots := make([][]domain.Title, len(d.shards))

	g, gctx := errgroup.WithContext(ctx)
	for k, s := range d.shards {
		k, s := k, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[k] = s.byTitleQuery(norm, year, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merge(slots), nil
}

// ByKeywords returns all titles whose normalised primary title
// contains every keyword as a substring, or whose normalised original
// title does.
func (d *Database) ByKeywords(ctx context.Context, keywords []string, q Query) ([]domain.Title, error) {
	return d.byKeywords(ctx, keywords, -1, q)
}

// ByKeywordsAndYear is ByKeywords filtered by release-year equality.
func (d *Database) ByKeywordsAndYear(ctx context.Context, keywords []string, year uint16, q Query) ([]domain.Title, error) {
	return d.byKeywords(ctx, keywords, int(year), q)
}

func (d *Database) byKeywords(ctx context.Context, keywords []string, year int, q Query) ([]domain.Title, error) {
	m := NewKeywordMatcher(keywords)
	if m.Empty() {
		return nil, nil
	}

	slots := make([][]domain.Title, len(d.shards))

	g, gctx := errgroup.WithContext(ctx)
	for k, s := range d.shards {
		k, s := k, s
		g.Go(func() error {
			titles, err := s.byKeywordsQuery(gctx, m, year, q)
			if err != nil {
				return err
			}
			slots[k] = titles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merge(slots), nil
}

// merge concatenates per-shard results in shard order. Ids are unique
// across shards, so no cross-shard deduplication is needed.
func merge(slots [][]domain.Title) []domain.Title {
	var total int
	for _, s := range slots {
		total += len(s)
	}
	if total == 0 {
		return nil
	}

	out := make([]domain.Title, 0, total)
	for _, s := range slots {
		out = append(out, s...)
	}
	return out
}
