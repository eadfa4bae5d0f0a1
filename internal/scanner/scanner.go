// Package scanner composes database queries from a media directory
// tree: directory names carry (title, year) hints and tvrank.json
// files carry explicit-id overrides.
package scanner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/fredmorcos/tvrank/internal/database"
	"github.com/fredmorcos/tvrank/internal/domain"
)

// titleYearRe matches directory names of the form `TITLE (YYYY)`.
var titleYearRe = regexp.MustCompile(`^(.+?)\s+\((\d{4})\)$`)

// ParseTitleAndYear splits a `TITLE (YYYY)` name into its parts.
func ParseTitleAndYear(name string) (string, uint16, bool) {
	m := titleYearRe.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}

	year, err := strconv.ParseUint(m[2], 10, 16)
	if err != nil {
		return "", 0, false
	}

	return m[1], uint16(year), true
}

// Result pairs one scanned directory with the query it produced and
// the titles that matched. An empty title list is a valid outcome.
type Result struct {
	Path   string
	Query  string
	Titles []domain.Title
}

type Service struct {
	log zerolog.Logger
	db  *database.Database
}

func NewService(log zerolog.Logger, db *database.Database) *Service {
	return &Service{
		log: log.With().Str("module", "scanner").Logger(),
		db:  db,
	}
}

// Scan walks the tree under root. Directories with a valid
// tvrank.json are resolved by id and not descended; names matching
// `TITLE (YYYY)` query by title and year; other names query by exact
// title and are descended when that yields nothing.
func (s *Service) Scan(ctx context.Context, root string, q database.Query) ([]Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to stat scan root")
	}
	if !info.IsDir() {
		return nil, &domain.NotDirectoryError{Path: root}
	}

	var results []Result

	var walk func(dir string) error
	walk = func(dir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to read directory %s", dir)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			path := filepath.Join(dir, entry.Name())

			if res, handled := s.scanOverride(path, q); handled {
				results = append(results, res)
				continue
			}

			name := entry.Name()
			if title, year, ok := ParseTitleAndYear(name); ok {
				titles, err := s.db.ByTitleAndYear(ctx, title, year, q)
				if err != nil {
					return err
				}
				results = append(results, Result{Path: path, Query: name, Titles: titles})
				continue
			}

			titles, err := s.db.ByTitle(ctx, name, q)
			if err != nil {
				return err
			}
			if len(titles) > 0 {
				results = append(results, Result{Path: path, Query: name, Titles: titles})
				continue
			}

			if err := walk(path); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}

	return results, nil
}

// scanOverride resolves a directory through its tvrank.json, if any.
// A valid override is definitive: the subtree is not descended even
// when the id is unknown to the database. Malformed files are ignored
// with a warning and handled is false.
func (s *Service) scanOverride(path string, q database.Query) (Result, bool) {
	ti, err := ReadTitleInfo(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		return Result{}, false
	default:
		s.log.Warn().Err(err).Str("path", path).Msg("ignoring tvrank.json")
		return Result{}, false
	}

	id := ti.Imdb.ID
	if title, ok := s.db.ByID(id, q); ok {
		return Result{Path: path, Query: id.String(), Titles: []domain.Title{title}}, true
	}

	s.log.Warn().Stringer("id", id).Str("path", path).Msg("tvrank.json id not found in the database")
	return Result{Path: path, Query: id.String()}, true
}

// Mark writes a tvrank.json into dir pinning it to id. It refuses to
// overwrite an existing file unless force is set, and rejects ids
// that are malformed or absent from the database.
func (s *Service) Mark(dir string, rawID string, force bool) error {
	id, err := domain.ParseTitleID(rawID)
	if err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return &domain.NotDirectoryError{Path: dir}
	}

	if _, ok := s.db.ByID(id, database.QueryMovies); !ok {
		if _, ok := s.db.ByID(id, database.QuerySeries); !ok {
			return &domain.UnknownIDError{ID: id}
		}
	}

	path := filepath.Join(dir, TitleInfoFile)

	flags := os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	if !force {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return &domain.MarkExistsError{Path: dir}
		}
		return pkgerrors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	body, err := json.MarshalIndent(NewTitleInfo(id), "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal title info")
	}

	if _, err := f.Write(body); err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", path)
	}

	s.log.Info().Stringer("id", id).Str("path", path).Msg("marked")
	return nil
}
