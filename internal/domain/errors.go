package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes of the engine. Services wrap
// these with context; callers match with errors.Is.
var (
	// ErrInvalidID is returned for malformed IMDB ids at user input
	// or in tvrank.json files.
	ErrInvalidID = errors.New("invalid IMDB id")

	// ErrCacheIO is returned for filesystem failures in the cache store.
	ErrCacheIO = errors.New("cache I/O failed")

	// ErrCacheFetch is returned for HTTP/network failures.
	ErrCacheFetch = errors.New("cache fetch failed")

	// ErrCacheCorrupt is returned when a downloaded blob cannot be
	// decompressed or parsed.
	ErrCacheCorrupt = errors.New("cache corrupt")

	// ErrSnapshotIncompatible is returned when the binary snapshot
	// cannot be loaded; callers fall back to a full rebuild.
	ErrSnapshotIncompatible = errors.New("snapshot incompatible")

	// ErrMalformedRow is returned for TSV rows that cannot be decoded.
	ErrMalformedRow = errors.New("malformed row")

	// ErrMarkExists is returned when a mark target already carries a
	// tvrank.json and overwriting was not forced.
	ErrMarkExists = errors.New("tvrank.json already exists")

	// ErrUnknownID is returned when an id is valid but not present in
	// the database.
	ErrUnknownID = errors.New("unknown IMDB id")

	// ErrNotDirectory is returned when a scan or mark target is not a
	// directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidOutput is returned for unsupported --output values.
	ErrInvalidOutput = errors.New("invalid output format")
)

// InvalidIDError carries the offending input.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("id %q does not match ttXXXXXXX", e.ID)
}

func (e *InvalidIDError) Is(target error) bool {
	return target == ErrInvalidID
}

// MarkExistsError carries the path that already holds a tvrank.json.
type MarkExistsError struct {
	Path string
}

func (e *MarkExistsError) Error() string {
	return fmt.Sprintf("%s already contains a tvrank.json (use --force to overwrite)", e.Path)
}

func (e *MarkExistsError) Is(target error) bool {
	return target == ErrMarkExists
}

// UnknownIDError carries a well-formed id that is absent from the
// database.
type UnknownIDError struct {
	ID TitleID
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("id %s not found in the database", e.ID)
}

func (e *UnknownIDError) Is(target error) bool {
	return target == ErrUnknownID
}

// InvalidOutputError carries the unsupported format value.
type InvalidOutputError struct {
	Format OutputFormat
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("output format %q is not one of table, json, yaml", string(e.Format))
}

func (e *InvalidOutputError) Is(target error) bool {
	return target == ErrInvalidOutput
}

// NotDirectoryError carries the offending path.
type NotDirectoryError struct {
	Path string
}

func (e *NotDirectoryError) Error() string {
	return fmt.Sprintf("%s is not a directory", e.Path)
}

func (e *NotDirectoryError) Is(target error) bool {
	return target == ErrNotDirectory
}
