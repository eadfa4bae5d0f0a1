package domain

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// TitleID is the numeric part of an IMDB identifier of the form
// `tt` followed by zero-padded decimal digits. The canonical on-disk
// and hashing form is an 8-byte zero-padded ASCII digit blob.
type TitleID uint64

// maxTitleIDDigits bounds the decimal width so the canonical blob
// stays at 8 bytes.
const maxTitleIDDigits = 8

// ParseTitleID parses the IMDB string form of a title ID. Inputs that
// do not start with `tt`, contain non-digit characters after the
// prefix (including trailing garbage) or overflow the canonical width
// are rejected with an InvalidIDError.
func ParseTitleID(s string) (TitleID, error) {
	if len(s) < 3 || s[0] != 't' || s[1] != 't' {
		return 0, &InvalidIDError{ID: s}
	}

	digits := s[2:]
	if len(digits) > maxTitleIDDigits {
		return 0, &InvalidIDError{ID: s}
	}

	var num uint64
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, &InvalidIDError{ID: s}
		}
		num = num*10 + uint64(c-'0')
	}

	return TitleID(num), nil
}

// ParseTitleIDBytes is the allocation-free variant used on the ingest
// hot path. The input is only copied when constructing an error.
func ParseTitleIDBytes(b []byte) (TitleID, error) {
	if len(b) < 3 || b[0] != 't' || b[1] != 't' || len(b)-2 > maxTitleIDDigits {
		return 0, &InvalidIDError{ID: string(b)}
	}

	var num uint64
	for _, c := range b[2:] {
		if c < '0' || c > '9' {
			return 0, &InvalidIDError{ID: string(b)}
		}
		num = num*10 + uint64(c-'0')
	}

	return TitleID(num), nil
}

// String renders the ID in IMDB form, zero-padded to the usual
// seven digits.
func (id TitleID) String() string {
	return fmt.Sprintf("tt%07d", uint64(id))
}

// URL returns the IMDB title page for the ID.
func (id TitleID) URL() string {
	return fmt.Sprintf("https://www.imdb.com/title/%s/", id)
}

// Canonical returns the fixed-width ASCII digit blob used for shard
// hashing and binary persistence. Comparison on the blob is bytewise
// and agrees with numeric comparison.
func (id TitleID) Canonical() [8]byte {
	var b [8]byte
	num := uint64(id)
	for i := 7; i >= 0; i-- {
		b[i] = byte('0' + num%10)
		num /= 10
	}
	return b
}

// Hash returns the FNV-1a hash of the canonical blob. The shard of a
// title is Hash() mod the shard count.
func (id TitleID) Hash() uint64 {
	b := id.Canonical()
	h := fnv.New64a()
	h.Write(b[:])
	return h.Sum64()
}

// MarshalJSON renders the ID in its IMDB string form.
func (id TitleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON parses and validates the IMDB string form.
func (id *TitleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseTitleID(s)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

// MarshalYAML renders the ID in its IMDB string form.
func (id TitleID) MarshalYAML() (interface{}, error) {
	return id.String(), nil
}
