package database

import (
	"context"

	"github.com/fredmorcos/tvrank/internal/domain"
)

const (
	flagAdult       = 1 << 0
	flagHasOriginal = 1 << 1
)

// record is the packed per-title representation. Variable-length
// strings live in the owning shard's arena and are referenced by
// 32-bit offsets.
type record struct {
	id          domain.TitleID
	primaryOff  uint32
	originalOff uint32
	primaryLen  uint16
	originalLen uint16
	startYear   uint16
	endYear     uint16
	runtime     uint16
	ttype       domain.TitleType
	flags       uint8
	genres      domain.Genres
	score       uint8
	votes       uint32
}

// Shard owns one partition of the title universe: its records sorted
// by id, the string arena, and the three lookup indexes. Shards are
// immutable once built and shared read-only across queries.
type Shard struct {
	recs  []record
	arena string

	byID       map[domain.TitleID]uint32
	byPrimary  map[string][]uint32
	byOriginal map[string][]uint32

	// Normalised-title sequences in record order, feeding the keyword
	// matcher. normOriginal entries are empty when a record has no
	// distinct original title.
	normPrimary  []string
	normOriginal []string

	// Arena positions of the normalised strings; populated by the
	// builder and only needed when writing a snapshot.
	normPrimaryOff  []uint32
	normOriginalOff []uint32
}

// Len returns the number of records in the shard.
func (s *Shard) Len() int {
	return len(s.recs)
}

// title materialises the record at index i.
func (s *Shard) title(i uint32) domain.Title {
	r := &s.recs[i]

	t := domain.Title{
		ID:        r.id,
		Type:      r.ttype,
		Primary:   s.arena[r.primaryOff : r.primaryOff+uint32(r.primaryLen)],
		Adult:     r.flags&flagAdult != 0,
		StartYear: r.startYear,
		EndYear:   r.endYear,
		Runtime:   r.runtime,
		Genres:    r.genres,
		Rating:    domain.Rating{Score: r.score, Votes: r.votes},
	}

	if r.flags&flagHasOriginal != 0 {
		t.Original = s.arena[r.originalOff : r.originalOff+uint32(r.originalLen)]
	}

	return t
}

// byIDQuery probes the id index, honouring the type-group filter.
func (s *Shard) byIDQuery(id domain.TitleID, q Query) (domain.Title, bool) {
	i, ok := s.byID[id]
	if !ok || !q.matches(s.recs[i].ttype) {
		return domain.Title{}, false
	}
	return s.title(i), true
}

// byTitleQuery collects records whose normalised primary or original
// title equals norm. Hits from both indexes are deduplicated by
// record index; year < 0 disables the year filter.
func (s *Shard) byTitleQuery(norm string, year int, q Query) []domain.Title {
	primary := s.byPrimary[norm]
	original := s.byOriginal[norm]
	if len(primary) == 0 && len(original) == 0 {
		return nil
	}

	seen := make(map[uint32]struct{}, len(primary)+len(original))
	out := make([]domain.Title, 0, len(primary)+len(original))

	collect := func(indices []uint32) {
		for _, i := range indices {
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}

			r := &s.recs[i]
			if !q.matches(r.ttype) {
				continue
			}
			if year >= 0 && int(r.startYear) != year {
				continue
			}
			out = append(out, s.title(i))
		}
	}

	collect(primary)
	collect(original)

	return out
}

// byKeywordsQuery scans the normalised-title sequences. A record
// matches when every keyword occurs in its normalised primary title,
// or every keyword occurs in its normalised original title. The scan
// short-circuits when the caller abandons the query.
func (s *Shard) byKeywordsQuery(ctx context.Context, m *KeywordMatcher, year int, q Query) ([]domain.Title, error) {
	var out []domain.Title

	for i := range s.recs {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		r := &s.recs[i]
		if !q.matches(r.ttype) {
			continue
		}
		if year >= 0 && int(r.startYear) != year {
			continue
		}

		if m.MatchesAll(s.normPrimary[i]) ||
			(s.normOriginal[i] != "" && m.MatchesAll(s.normOriginal[i])) {
			out = append(out, s.title(uint32(i)))
		}
	}

	return out, nil
}
