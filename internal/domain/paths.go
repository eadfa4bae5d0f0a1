package domain

import "path/filepath"

// CacheFile names one of the files kept in the cache directory.
type CacheFile string

const (
	BasicsFile   CacheFile = "title.basics.tsv.gz"
	RatingsFile  CacheFile = "title.ratings.tsv.gz"
	SnapshotFile CacheFile = "db.bin"
	LockFile     CacheFile = ".lock"
)

// Paths holds the on-disk layout of the cache directory.
type Paths struct {
	CacheDir     string
	BasicsPath   string
	RatingsPath  string
	SnapshotPath string
	LockPath     string
}

// NewPaths lays out the cache directory.
func NewPaths(cacheDir string) *Paths {
	return &Paths{
		CacheDir:     cacheDir,
		BasicsPath:   makeCachePath(cacheDir, BasicsFile),
		RatingsPath:  makeCachePath(cacheDir, RatingsFile),
		SnapshotPath: makeCachePath(cacheDir, SnapshotFile),
		LockPath:     makeCachePath(cacheDir, LockFile),
	}
}

func makeCachePath(cacheDir string, cf CacheFile) string {
	return filepath.Join(cacheDir, string(cf))
}
