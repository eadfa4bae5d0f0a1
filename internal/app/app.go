// Package app wires the cache store, the database and the scanner
// behind the command surface.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/fredmorcos/tvrank/internal/database"
	"github.com/fredmorcos/tvrank/internal/domain"
	"github.com/fredmorcos/tvrank/internal/format"
	"github.com/fredmorcos/tvrank/internal/scanner"
	"github.com/fredmorcos/tvrank/internal/storage"
)

// App holds the initialised engine and answers the subcommands.
type App struct {
	log     zerolog.Logger
	cfg     *domain.Config
	db      *database.Database
	scan    *scanner.Service
	printer format.Printer
	out     io.Writer
}

// New acquires the dumps, loads the binary snapshot or rebuilds it
// from scratch, and returns a ready application.
func New(ctx context.Context, log zerolog.Logger, cfg *domain.Config) (*App, error) {
	printer, err := format.New(cfg.Output)
	if err != nil {
		return nil, err
	}

	paths := domain.NewPaths(cfg.CacheDir)
	store := storage.NewService(log, cfg.BaseURL, paths)
	sink := newBarSink(os.Stderr)

	files, err := store.Ensure(ctx, cfg.ForceUpdate, sink)
	if err != nil {
		return nil, err
	}

	shardCount := database.DefaultShardCount()

	db, err := database.Load(log, paths.SnapshotPath, shardCount, files[0].ModTime, files[1].ModTime)
	if err != nil {
		log.Debug().Err(err).Msg("snapshot unusable, rebuilding")

		basics, err := store.Extract(files[0], sink)
		if err != nil {
			return nil, err
		}
		ratings, err := store.Extract(files[1], sink)
		if err != nil {
			return nil, err
		}

		db, err = database.Build(ctx, log, basics, ratings, shardCount)
		if err != nil {
			return nil, err
		}

		if err := database.Save(db, paths.SnapshotPath, files[0].ModTime, files[1].ModTime); err != nil {
			log.Warn().Err(err).Msg("failed to write snapshot, will rebuild next run")
		}
	}

	log.Debug().
		Int("movies", db.NMovies()).
		Int("series", db.NSeries()).
		Int("shards", db.ShardCount()).
		Msg("database ready")

	return &App{
		log:     log,
		cfg:     cfg,
		db:      db,
		scan:    scanner.NewService(log, db),
		printer: printer,
		out:     os.Stdout,
	}, nil
}

// Search answers the search subcommand over both views. A trailing
// `(YYYY)` in the query adds a year filter; exact switches from
// keyword to exact-title matching.
func (a *App) Search(ctx context.Context, query string, exact bool) error {
	movies := database.NewResults(a.cfg.SortByYear, a.cfg.Top)
	series := database.NewResults(a.cfg.SortByYear, a.cfg.Top)

	var display string

	title, year, hasYear := scanner.ParseTitleAndYear(query)
	if !hasYear {
		title = query
	}

	if exact {
		display = domain.Normalize(title)
		if hasYear {
			display = fmt.Sprintf("%s (%d)", display, year)
		}

		for _, target := range []struct {
			q   database.Query
			res *database.Results
		}{{database.QueryMovies, movies}, {database.QuerySeries, series}} {
			var (
				titles []domain.Title
				err    error
			)
			if hasYear {
				titles, err = a.db.ByTitleAndYear(ctx, title, year, target.q)
			} else {
				titles, err = a.db.ByTitle(ctx, title, target.q)
			}
			if err != nil {
				return err
			}
			target.res.Add(titles...)
		}
	} else {
		keywords := domain.Keywords(title)
		if len(keywords) == 0 {
			return pkgerrors.Errorf("query %q contains no usable keywords", query)
		}

		display = fmt.Sprintf("keywords %v", keywords)
		if hasYear {
			display = fmt.Sprintf("%s (%d)", display, year)
		}

		for _, target := range []struct {
			q   database.Query
			res *database.Results
		}{{database.QueryMovies, movies}, {database.QuerySeries, series}} {
			var (
				titles []domain.Title
				err    error
			)
			if hasYear {
				titles, err = a.db.ByKeywordsAndYear(ctx, keywords, year, target.q)
			} else {
				titles, err = a.db.ByKeywords(ctx, keywords, target.q)
			}
			if err != nil {
				return err
			}
			target.res.Add(titles...)
		}
	}

	return a.printer.Print(a.out, display, movies.Sorted(), series.Sorted())
}

// ScanMovies walks a movie tree and prints the aggregated matches.
func (a *App) ScanMovies(ctx context.Context, root string) error {
	return a.scanTree(ctx, root, database.QueryMovies)
}

// ScanSeries walks a series tree and prints the aggregated matches.
func (a *App) ScanSeries(ctx context.Context, root string) error {
	return a.scanTree(ctx, root, database.QuerySeries)
}

func (a *App) scanTree(ctx context.Context, root string, q database.Query) error {
	results, err := a.scan.Scan(ctx, root, q)
	if err != nil {
		return err
	}

	matched := database.NewResults(a.cfg.SortByYear, a.cfg.Top)
	misses := 0
	for _, r := range results {
		if len(r.Titles) == 0 {
			misses++
			a.log.Warn().Str("path", r.Path).Str("query", r.Query).Msg("no titles matched")
			continue
		}
		matched.Add(r.Titles...)
	}

	if matched.Total() == 0 {
		a.log.Info().Str("root", root).Msg("none of the directories matched any titles")
	}
	if misses > 0 {
		a.log.Info().Int("directories", misses).Msg("directories without matches")
	}

	sorted := matched.Sorted()
	if q == database.QueryMovies {
		return a.printer.Print(a.out, root, sorted, nil)
	}
	return a.printer.Print(a.out, root, nil, sorted)
}

// Mark pins a directory to an explicit IMDB id.
func (a *App) Mark(dir, id string, force bool) error {
	return a.scan.Mark(dir, id, force)
}
