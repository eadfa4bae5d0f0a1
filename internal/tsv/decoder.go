// Package tsv decodes the IMDB dump column formats. The decoder
// yields byte-slice views into the owning blob; interning and copying
// are the caller's decision.
package tsv

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/fredmorcos/tvrank/internal/domain"
)

var notAvail = []byte(`\N`)

// BasicsRow is one decoded row of title.basics.tsv. Primary and
// Original alias the input line; Original is nil when it equals the
// primary title ignoring case. Skip marks rows whose title type is outside the
// supported set.
type BasicsRow struct {
	ID        domain.TitleID
	Type      domain.TitleType
	Primary   []byte
	Original  []byte
	Adult     bool
	StartYear uint16
	EndYear   uint16
	Runtime   uint16
	Genres    domain.Genres
	Skip      bool
}

// RatingsRow is one decoded row of title.ratings.tsv. Score is the
// published one-decimal rating scaled to 0-100.
type RatingsRow struct {
	ID    domain.TitleID
	Score uint8
	Votes uint32
}

// IsHeader reports whether the line is the dumps' column-name header.
func IsHeader(line []byte) bool {
	return bytes.HasPrefix(line, []byte("tconst\t"))
}

func nextField(line []byte) (field, rest []byte, ok bool) {
	i := bytes.IndexByte(line, '\t')
	if i < 0 {
		return line, nil, false
	}
	return line[:i], line[i+1:], true
}

func parseUint(b []byte, max uint64) (uint64, error) {
	if len(b) == 0 {
		return 0, errors.Wrap(domain.ErrMalformedRow, "empty numeric field")
	}

	var n uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, errors.Wrapf(domain.ErrMalformedRow, "not a number: %q", b)
		}
		n = n*10 + uint64(c-'0')
		if n > max {
			return 0, errors.Wrapf(domain.ErrMalformedRow, "number out of range: %q", b)
		}
	}

	return n, nil
}

// parseOptUint16 decodes an optional numeric field where `\N` encodes
// absence; absence maps to zero.
func parseOptUint16(b []byte) (uint16, error) {
	if bytes.Equal(b, notAvail) {
		return 0, nil
	}
	n, err := parseUint(b, 65535)
	return uint16(n), err
}

// ParseBasics decodes one row of title.basics.tsv. The column order
// is id, type, primary title, original title, adult flag, start year,
// end year, runtime minutes, genres.
func ParseBasics(line []byte) (BasicsRow, error) {
	var row BasicsRow

	field, rest, ok := nextField(line)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing columns")
	}
	id, err := domain.ParseTitleIDBytes(field)
	if err != nil {
		return row, errors.Wrap(domain.ErrMalformedRow, err.Error())
	}
	row.ID = id

	field, rest, ok = nextField(rest)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing title type")
	}
	titleType, supported := domain.ParseTitleType(string(field))
	if !supported {
		row.Skip = true
		return row, nil
	}
	row.Type = titleType

	row.Primary, rest, ok = nextField(rest)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing primary title")
	}

	row.Original, rest, ok = nextField(rest)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing original title")
	}
	if bytes.EqualFold(row.Original, row.Primary) {
		row.Original = nil
	}

	field, rest, ok = nextField(rest)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing adult flag")
	}
	switch {
	case len(field) == 1 && field[0] == '0':
		row.Adult = false
	case len(field) == 1 && field[0] == '1':
		row.Adult = true
	default:
		return row, errors.Wrapf(domain.ErrMalformedRow, "invalid adult flag: %q", field)
	}

	field, rest, ok = nextField(rest)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing start year")
	}
	if row.StartYear, err = parseOptUint16(field); err != nil {
		return row, err
	}

	field, rest, ok = nextField(rest)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing end year")
	}
	if row.EndYear, err = parseOptUint16(field); err != nil {
		return row, err
	}
	if row.EndYear != 0 && row.StartYear != 0 && row.EndYear < row.StartYear {
		return row, errors.Wrap(domain.ErrMalformedRow, "end year precedes start year")
	}

	field, rest, ok = nextField(rest)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing runtime")
	}
	if row.Runtime, err = parseOptUint16(field); err != nil {
		return row, err
	}

	// Genres is the last column; rest is empty afterwards.
	field = rest
	if !bytes.Equal(field, notAvail) {
		for len(field) > 0 {
			var g []byte
			if i := bytes.IndexByte(field, ','); i >= 0 {
				g, field = field[:i], field[i+1:]
			} else {
				g, field = field, nil
			}

			genre, known := domain.ParseGenreBytes(g)
			if !known {
				return row, errors.Wrapf(domain.ErrMalformedRow, "unknown genre: %q", g)
			}
			row.Genres.Add(genre)
		}
	}

	return row, nil
}

// ParseRatings decodes one row of title.ratings.tsv: id, average
// rating with one decimal digit, vote count.
func ParseRatings(line []byte) (RatingsRow, error) {
	var row RatingsRow

	field, rest, ok := nextField(line)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing columns")
	}
	id, err := domain.ParseTitleIDBytes(field)
	if err != nil {
		return row, errors.Wrap(domain.ErrMalformedRow, err.Error())
	}
	row.ID = id

	field, rest, ok = nextField(rest)
	if !ok {
		return row, errors.Wrap(domain.ErrMalformedRow, "missing rating")
	}
	score, err := parseScore(field)
	if err != nil {
		return row, err
	}
	row.Score = score

	votes, err := parseUint(rest, 1<<32-1)
	if err != nil {
		return row, err
	}
	row.Votes = uint32(votes)

	return row, nil
}

// parseScore converts the published "X.Y" (or bare "X") rating into
// an integer 0-100.
func parseScore(b []byte) (uint8, error) {
	whole := b
	var frac byte

	if i := bytes.IndexByte(b, '.'); i >= 0 {
		if i+2 != len(b) {
			return 0, errors.Wrapf(domain.ErrMalformedRow, "invalid rating: %q", b)
		}
		whole = b[:i]
		frac = b[i+1]
		if frac < '0' || frac > '9' {
			return 0, errors.Wrapf(domain.ErrMalformedRow, "invalid rating: %q", b)
		}
		frac -= '0'
	}

	n, err := parseUint(whole, 10)
	if err != nil {
		return 0, err
	}

	score := n*10 + uint64(frac)
	if score > 100 {
		return 0, errors.Wrapf(domain.ErrMalformedRow, "rating out of range: %q", b)
	}

	return uint8(score), nil
}
