package database

import (
	"bytes"
	"context"
	"runtime"
	"sort"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fredmorcos/tvrank/internal/domain"
	"github.com/fredmorcos/tvrank/internal/tsv"
)

// pending is one decoded basics row staged for its target shard.
type pending struct {
	rec          record
	primary      string
	original     string
	normPrimary  string
	normOriginal string
}

type ratingValue struct {
	score uint8
	votes uint32
}

// DefaultShardCount derives the shard count from the available
// hardware parallelism.
func DefaultShardCount() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

// Build constructs the sharded database from the two raw blobs. The
// ratings pass is sequential; the basics blob is partitioned into
// newline-aligned ranges scanned by one worker per shard. Malformed
// rows are skipped with a warning, never fatal.
func Build(ctx context.Context, log zerolog.Logger, basics, ratings []byte, shardCount int) (*Database, error) {
	if shardCount <= 0 {
		shardCount = DefaultShardCount()
	}
	log = log.With().Str("module", "builder").Logger()

	ratingsMap := buildRatings(log, ratings)
	log.Debug().Int("ratings", len(ratingsMap)).Msg("ratings pass done")

	chunks := partition(basics, shardCount)

	// Per-worker, per-target-shard buffers; no cross-worker writes.
	buckets := make([][][]pending, len(chunks))
	var malformed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w, ch := range chunks {
		w, ch := w, ch
		buckets[w] = make([][]pending, shardCount)
		g.Go(func() error {
			return scanRange(gctx, log, basics[ch[0]:ch[1]], ratingsMap, buckets[w], &malformed)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if n := malformed.Load(); n > 0 {
		log.Warn().Int64("rows", n).Msg("skipped malformed rows")
	}

	// Merge is the single synchronisation barrier: concatenate the
	// per-worker buffers into final shards, one goroutine per shard.
	shards := make([]*Shard, shardCount)
	g, gctx = errgroup.WithContext(ctx)
	for k := range shards {
		k := k
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var items []pending
			for w := range buckets {
				items = append(items, buckets[w][k]...)
			}
			shards[k] = buildShard(log, items)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return newDatabase(log, shards), nil
}

// buildRatings decodes the ratings TSV into a temporary id map.
func buildRatings(log zerolog.Logger, ratings []byte) map[domain.TitleID]ratingValue {
	out := make(map[domain.TitleID]ratingValue, 1<<20)

	for len(ratings) > 0 {
		var line []byte
		if i := bytes.IndexByte(ratings, '\n'); i >= 0 {
			line, ratings = ratings[:i], ratings[i+1:]
		} else {
			line, ratings = ratings, nil
		}

		if len(line) == 0 || tsv.IsHeader(line) {
			continue
		}

		row, err := tsv.ParseRatings(line)
		if err != nil {
			log.Warn().Err(err).Msg("skipping ratings row")
			continue
		}
		if row.Votes == 0 {
			continue
		}

		out[row.ID] = ratingValue{score: row.Score, votes: row.Votes}
	}

	return out
}

// partition splits the blob into n disjoint byte ranges whose
// boundaries are aligned to the next newline.
func partition(data []byte, n int) [][2]int {
	if len(data) == 0 {
		return nil
	}

	chunk := len(data) / n
	if chunk == 0 {
		return [][2]int{{0, len(data)}}
	}

	var out [][2]int
	start := 0
	for i := 0; i < n && start < len(data); i++ {
		end := start + chunk
		if i == n-1 || end >= len(data) {
			end = len(data)
		} else if j := bytes.IndexByte(data[end:], '\n'); j >= 0 {
			end += j + 1
		} else {
			end = len(data)
		}
		out = append(out, [2]int{start, end})
		start = end
	}

	return out
}

// scanRange decodes one byte range of the basics blob into the
// worker's per-shard buffers.
func scanRange(
	ctx context.Context,
	log zerolog.Logger,
	data []byte,
	ratings map[domain.TitleID]ratingValue,
	buckets [][]pending,
	malformed *atomic.Int64,
) error {
	shardCount := uint64(len(buckets))
	lineNo := 0

	for len(data) > 0 {
		lineNo++
		if lineNo%8192 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}

		if len(line) == 0 || tsv.IsHeader(line) {
			continue
		}

		row, err := tsv.ParseBasics(line)
		if err != nil {
			malformed.Add(1)
			log.Debug().Err(err).Msg("skipping basics row")
			continue
		}
		if row.Skip || row.Adult {
			continue
		}

		p := pending{
			rec: record{
				id:        row.ID,
				startYear: row.StartYear,
				endYear:   row.EndYear,
				runtime:   row.Runtime,
				ttype:     row.Type,
				genres:    row.Genres,
			},
			primary: string(row.Primary),
		}

		if row.Original != nil {
			p.original = string(row.Original)
			p.rec.flags |= flagHasOriginal
		}

		p.normPrimary = domain.Normalize(p.primary)
		if p.original != "" {
			p.normOriginal = domain.Normalize(p.original)
		}

		if r, ok := ratings[row.ID]; ok {
			p.rec.score = r.score
			p.rec.votes = r.votes
		}

		k := row.ID.Hash() % shardCount
		buckets[k] = append(buckets[k], p)
	}

	return nil
}

// buildShard sorts the staged records by id, lays out the string
// arena and builds the shard indexes.
func buildShard(log zerolog.Logger, items []pending) *Shard {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].rec.id < items[j].rec.id
	})

	// Duplicate ids keep the first occurrence.
	dedup := items[:0]
	for i := range items {
		if i > 0 && items[i].rec.id == items[i-1].rec.id {
			log.Warn().Stringer("id", items[i].rec.id).Msg("duplicate title id, keeping first")
			continue
		}
		dedup = append(dedup, items[i])
	}
	items = dedup

	var arenaSize int
	for i := range items {
		arenaSize += len(items[i].primary) + len(items[i].original) +
			len(items[i].normPrimary) + len(items[i].normOriginal)
	}

	s := &Shard{
		recs:            make([]record, len(items)),
		byID:            make(map[domain.TitleID]uint32, len(items)),
		byPrimary:       make(map[string][]uint32, len(items)),
		byOriginal:      make(map[string][]uint32),
		normPrimary:     make([]string, len(items)),
		normOriginal:    make([]string, len(items)),
		normPrimaryOff:  make([]uint32, len(items)),
		normOriginalOff: make([]uint32, len(items)),
	}

	arena := make([]byte, 0, arenaSize)
	appendStr := func(v string) uint32 {
		off := uint32(len(arena))
		arena = append(arena, v...)
		return off
	}

	for i := range items {
		it := &items[i]
		rec := it.rec

		rec.primaryOff = appendStr(it.primary)
		rec.primaryLen = uint16(len(it.primary))
		if it.original != "" {
			rec.originalOff = appendStr(it.original)
			rec.originalLen = uint16(len(it.original))
		}

		s.normPrimaryOff[i] = appendStr(it.normPrimary)
		if it.normOriginal != "" {
			s.normOriginalOff[i] = appendStr(it.normOriginal)
		}

		s.recs[i] = rec
	}

	s.arena = string(arena)

	for i := range items {
		it := &items[i]
		idx := uint32(i)

		s.byID[it.rec.id] = idx

		normP := s.arena[s.normPrimaryOff[i] : int(s.normPrimaryOff[i])+len(it.normPrimary)]
		s.normPrimary[i] = normP
		s.byPrimary[normP] = append(s.byPrimary[normP], idx)

		if it.normOriginal != "" {
			normO := s.arena[s.normOriginalOff[i] : int(s.normOriginalOff[i])+len(it.normOriginal)]
			s.normOriginal[i] = normO
			s.byOriginal[normO] = append(s.byOriginal[normO], idx)
		}
	}

	return s
}
