package database

import (
	"bufio"
	"encoding/binary"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/fredmorcos/tvrank/internal/domain"
)

// Binary snapshot of the built shards. Layout (little-endian):
//
//	magic "TVRANK\0\0"              8 bytes
//	version                         u32
//	shard count K                   u32
//	basics source mtime             i64 (unix seconds)
//	ratings source mtime            i64
//	per shard:
//	  record count                  u32
//	  arena byte length             u32
//	  records                       packed, 40 bytes each
//	  arena                         byte blob
//	  primary index                 count, then (key off, key len,
//	                                idx count, idxs...) per entry
//	  original index                same
//
// The arena holds raw and normalised strings; index keys reference
// normalised strings by offset into the arena.
var snapshotMagic = [8]byte{'T', 'V', 'R', 'A', 'N', 'K', 0, 0}

const (
	snapshotVersion = 1
	recordSize      = 40
)

func putRecord(b []byte, r *record) {
	le := binary.LittleEndian
	le.PutUint64(b[0:], uint64(r.id))
	le.PutUint32(b[8:], r.primaryOff)
	le.PutUint32(b[12:], r.originalOff)
	le.PutUint16(b[16:], r.primaryLen)
	le.PutUint16(b[18:], r.originalLen)
	le.PutUint16(b[20:], r.startYear)
	le.PutUint16(b[22:], r.endYear)
	le.PutUint16(b[24:], r.runtime)
	b[26] = uint8(r.ttype)
	b[27] = r.flags
	le.PutUint32(b[28:], uint32(r.genres))
	b[32] = r.score
	b[33], b[34], b[35] = 0, 0, 0
	le.PutUint32(b[36:], r.votes)
}

func getRecord(b []byte) record {
	le := binary.LittleEndian
	return record{
		id:          domain.TitleID(le.Uint64(b[0:])),
		primaryOff:  le.Uint32(b[8:]),
		originalOff: le.Uint32(b[12:]),
		primaryLen:  le.Uint16(b[16:]),
		originalLen: le.Uint16(b[18:]),
		startYear:   le.Uint16(b[20:]),
		endYear:     le.Uint16(b[22:]),
		runtime:     le.Uint16(b[24:]),
		ttype:       domain.TitleType(b[26]),
		flags:       b[27],
		genres:      domain.Genres(le.Uint32(b[28:])),
		score:       b[32],
		votes:       le.Uint32(b[36:]),
	}
}

// Save writes the snapshot atomically next to its final path. The
// source mtimes are stored for invalidation.
func Save(db *Database, path string, basicsTime, ratingsTime time.Time) error {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(domain.ErrCacheIO, err.Error())
	}

	w := bufio.NewWriterSize(f, 1<<20)
	fail := func(err error) error {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(domain.ErrCacheIO, err.Error())
	}

	var scratch [recordSize]byte
	le := binary.LittleEndian

	writeU32 := func(v uint32) error {
		le.PutUint32(scratch[:4], v)
		_, err := w.Write(scratch[:4])
		return err
	}
	writeI64 := func(v int64) error {
		le.PutUint64(scratch[:8], uint64(v))
		_, err := w.Write(scratch[:8])
		return err
	}

	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return fail(err)
	}
	if err := writeU32(snapshotVersion); err != nil {
		return fail(err)
	}
	if err := writeU32(uint32(len(db.shards))); err != nil {
		return fail(err)
	}
	if err := writeI64(basicsTime.Unix()); err != nil {
		return fail(err)
	}
	if err := writeI64(ratingsTime.Unix()); err != nil {
		return fail(err)
	}

	for _, s := range db.shards {
		if err := writeU32(uint32(len(s.recs))); err != nil {
			return fail(err)
		}
		if err := writeU32(uint32(len(s.arena))); err != nil {
			return fail(err)
		}

		for i := range s.recs {
			putRecord(scratch[:], &s.recs[i])
			if _, err := w.Write(scratch[:]); err != nil {
				return fail(err)
			}
		}

		if _, err := w.WriteString(s.arena); err != nil {
			return fail(err)
		}

		if err := writeIndex(writeU32, s.byPrimary, s.normPrimaryOff); err != nil {
			return fail(err)
		}
		if err := writeIndex(writeU32, s.byOriginal, s.normOriginalOff); err != nil {
			return fail(err)
		}
	}

	if err := w.Flush(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(domain.ErrCacheIO, err.Error())
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(domain.ErrCacheIO, err.Error())
	}

	return nil
}

// writeIndex serialises one title index with its entries in key
// order, so that saving is reproducible.
func writeIndex(writeU32 func(uint32) error, index map[string][]uint32, offs []uint32) error {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := writeU32(uint32(len(keys))); err != nil {
		return err
	}

	for _, key := range keys {
		indices := index[key]

		// The key is the normalised title of every record it lists;
		// its arena position is recorded against the first.
		if err := writeU32(offs[indices[0]]); err != nil {
			return err
		}
		if err := writeU32(uint32(len(key))); err != nil {
			return err
		}
		if err := writeU32(uint32(len(indices))); err != nil {
			return err
		}
		for _, idx := range indices {
			if err := writeU32(idx); err != nil {
				return err
			}
		}
	}

	return nil
}

type snapshotReader struct {
	data []byte
	off  int
}

var errTruncated = errors.New("truncated snapshot")

func (r *snapshotReader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, errTruncated
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *snapshotReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *snapshotReader) i64() (int64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// Load reads a snapshot back into a ready database. Every mismatch
// (magic, version, shard count, source mtimes, truncation, corrupt
// offsets) reports ErrSnapshotIncompatible so the caller falls back
// to a full rebuild.
func Load(log zerolog.Logger, path string, shardCount int, basicsTime, ratingsTime time.Time) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(domain.ErrSnapshotIncompatible, err.Error())
	}

	db, err := load(log, data, shardCount, basicsTime, ratingsTime)
	if err != nil {
		return nil, errors.Wrap(domain.ErrSnapshotIncompatible, err.Error())
	}
	return db, nil
}

func load(log zerolog.Logger, data []byte, shardCount int, basicsTime, ratingsTime time.Time) (*Database, error) {
	r := &snapshotReader{data: data}

	magic, err := r.take(len(snapshotMagic))
	if err != nil {
		return nil, err
	}
	if string(magic) != string(snapshotMagic[:]) {
		return nil, errors.New("bad magic")
	}

	version, err := r.u32()
	if err != nil {
		return nil, err
	}
	if version != snapshotVersion {
		return nil, errors.Errorf("version %d, want %d", version, snapshotVersion)
	}

	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	if int(count) != shardCount {
		return nil, errors.Errorf("shard count %d, want %d", count, shardCount)
	}

	storedBasics, err := r.i64()
	if err != nil {
		return nil, err
	}
	storedRatings, err := r.i64()
	if err != nil {
		return nil, err
	}
	if storedBasics != basicsTime.Unix() || storedRatings != ratingsTime.Unix() {
		return nil, errors.New("source dumps were refreshed after the snapshot was written")
	}

	shards := make([]*Shard, shardCount)
	for k := range shards {
		s, err := loadShard(r)
		if err != nil {
			return nil, err
		}
		shards[k] = s
	}

	if r.off != len(r.data) {
		return nil, errors.New("trailing bytes")
	}

	return newDatabase(log, shards), nil
}

func loadShard(r *snapshotReader) (*Shard, error) {
	recordCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	arenaLen, err := r.u32()
	if err != nil {
		return nil, err
	}

	recBytes, err := r.take(int(recordCount) * recordSize)
	if err != nil {
		return nil, err
	}
	arenaBytes, err := r.take(int(arenaLen))
	if err != nil {
		return nil, err
	}

	s := &Shard{
		recs:            make([]record, recordCount),
		arena:           string(arenaBytes),
		byID:            make(map[domain.TitleID]uint32, recordCount),
		byPrimary:       make(map[string][]uint32, recordCount),
		byOriginal:      make(map[string][]uint32),
		normPrimary:     make([]string, recordCount),
		normOriginal:    make([]string, recordCount),
		normPrimaryOff:  make([]uint32, recordCount),
		normOriginalOff: make([]uint32, recordCount),
	}

	for i := range s.recs {
		rec := getRecord(recBytes[i*recordSize:])

		if _, ok := domain.TitleTypeFrom(uint8(rec.ttype)); !ok {
			return nil, errors.Errorf("invalid title type %d", rec.ttype)
		}
		if int(rec.primaryOff)+int(rec.primaryLen) > len(s.arena) ||
			int(rec.originalOff)+int(rec.originalLen) > len(s.arena) {
			return nil, errors.New("record string out of arena bounds")
		}

		s.recs[i] = rec
		s.byID[rec.id] = uint32(i)
	}

	if err := loadIndex(r, s, s.byPrimary, s.normPrimary, s.normPrimaryOff); err != nil {
		return nil, err
	}
	if err := loadIndex(r, s, s.byOriginal, s.normOriginal, s.normOriginalOff); err != nil {
		return nil, err
	}

	return s, nil
}

func loadIndex(r *snapshotReader, s *Shard, index map[string][]uint32, norms []string, offs []uint32) error {
	entries, err := r.u32()
	if err != nil {
		return err
	}

	for e := uint32(0); e < entries; e++ {
		keyOff, err := r.u32()
		if err != nil {
			return err
		}
		keyLen, err := r.u32()
		if err != nil {
			return err
		}
		if int(keyOff)+int(keyLen) > len(s.arena) {
			return errors.New("index key out of arena bounds")
		}
		key := s.arena[keyOff : keyOff+keyLen]

		idxCount, err := r.u32()
		if err != nil {
			return err
		}

		indices := make([]uint32, idxCount)
		for i := range indices {
			idx, err := r.u32()
			if err != nil {
				return err
			}
			if int(idx) >= len(s.recs) {
				return errors.New("index entry out of record bounds")
			}
			indices[i] = idx

			norms[idx] = key
			offs[idx] = keyOff
		}

		index[key] = indices
	}

	return nil
}
