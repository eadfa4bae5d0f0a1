// Package storage owns the persistent cache of the IMDB dumps: it
// downloads, refreshes and extracts the two raw TSV blobs.
package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/fredmorcos/tvrank/internal/domain"
)

const (
	// freshFor is how long a downloaded dump is reused before it is
	// fetched again.
	freshFor = 30 * 24 * time.Hour

	// fetchTimeout bounds one full download; the dumps are large.
	fetchTimeout = 15 * time.Minute

	chunkSize = 512 * 1024
)

// File describes one acquired dump on disk.
type File struct {
	Name    domain.CacheFile
	Path    string
	ModTime time.Time
}

type Service struct {
	log    zerolog.Logger
	client *http.Client
	base   string
	paths  *domain.Paths
}

func NewService(log zerolog.Logger, baseURL string, paths *domain.Paths) *Service {
	return &Service{
		log:    log.With().Str("module", "storage").Logger(),
		client: &http.Client{Timeout: fetchTimeout},
		base:   baseURL,
		paths:  paths,
	}
}

// Ensure makes both dumps present and fresh on disk and returns their
// descriptors in (basics, ratings) order. A file is reused when it is
// younger than the freshness threshold and forceUpdate is unset.
func (s *Service) Ensure(ctx context.Context, forceUpdate bool, sink domain.ProgressSink) ([2]File, error) {
	var files [2]File

	if err := os.MkdirAll(s.paths.CacheDir, 0o755); err != nil {
		return files, errors.Wrap(domain.ErrCacheIO, err.Error())
	}

	unlock, err := s.acquireLock()
	if err != nil {
		return files, err
	}
	defer unlock()

	targets := [2]struct {
		name domain.CacheFile
		path string
	}{
		{domain.BasicsFile, s.paths.BasicsPath},
		{domain.RatingsFile, s.paths.RatingsPath},
	}

	for i, t := range targets {
		info, err := os.Stat(t.path)
		fresh := err == nil && time.Since(info.ModTime()) < freshFor

		switch {
		case fresh && !forceUpdate:
			s.log.Debug().Str("file", string(t.name)).Msg("cache file is fresh, reusing")
		default:
			if forceUpdate {
				s.log.Debug().Str("file", string(t.name)).Msg("force-update is enabled, re-fetching")
			} else {
				s.log.Debug().Str("file", string(t.name)).Msg("cache file is missing or stale, fetching")
			}
			if err := s.fetch(ctx, t.name, t.path, sink); err != nil {
				return files, err
			}
		}

		info, err = os.Stat(t.path)
		if err != nil {
			return files, errors.Wrap(domain.ErrCacheIO, err.Error())
		}
		files[i] = File{Name: t.name, Path: t.path, ModTime: info.ModTime()}
	}

	return files, nil
}

// fetch streams one dump to disk. The existing file stays intact
// until the temporary download is renamed over it; failures and
// cancellation remove the partial file.
func (s *Service) fetch(ctx context.Context, name domain.CacheFile, path string, sink domain.ProgressSink) error {
	u, err := url.JoinPath(s.base, string(name))
	if err != nil {
		return errors.Wrap(domain.ErrCacheFetch, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(domain.ErrCacheFetch, err.Error())
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(domain.ErrCacheFetch, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(domain.ErrCacheFetch, "unexpected status %d from %s", resp.StatusCode, u)
	}

	sink.Publish(domain.ProgressEvent{
		Kind:          domain.ProgressDownloadInit,
		Name:          string(name),
		ContentLength: resp.ContentLength,
	})

	tmp := path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(domain.ErrCacheIO, err.Error())
	}

	cleanup := func() {
		out.Close()
		os.Remove(tmp)
	}

	buf := make([]byte, chunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				cleanup()
				return errors.Wrap(domain.ErrCacheIO, werr.Error())
			}
			sink.Publish(domain.ProgressEvent{
				Kind:  domain.ProgressDownload,
				Name:  string(name),
				Delta: int64(n),
			})
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			cleanup()
			return errors.Wrap(domain.ErrCacheFetch, rerr.Error())
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(domain.ErrCacheIO, err.Error())
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(domain.ErrCacheIO, err.Error())
	}

	sink.Publish(domain.ProgressEvent{Kind: domain.ProgressDownloadDone, Name: string(name)})
	s.log.Info().Str("file", string(name)).Msg("fetched")

	return nil
}

// Extract decompresses one dump fully into memory. Progress is
// reported against the compressed size.
func (s *Service) Extract(f File, sink domain.ProgressSink) ([]byte, error) {
	in, err := os.Open(f.Path)
	if err != nil {
		return nil, errors.Wrap(domain.ErrCacheIO, err.Error())
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, errors.Wrap(domain.ErrCacheIO, err.Error())
	}

	sink.Publish(domain.ProgressEvent{
		Kind:          domain.ProgressExtractInit,
		Name:          string(f.Name),
		ContentLength: info.Size(),
	})

	counting := &progressReader{r: in, name: string(f.Name), sink: sink}
	gz, err := gzip.NewReader(counting)
	if err != nil {
		return nil, errors.Wrap(domain.ErrCacheCorrupt, err.Error())
	}
	defer gz.Close()

	// The dumps decompress to roughly 4x their download size.
	var out bytes.Buffer
	out.Grow(int(info.Size()) * 4)
	if _, err := io.Copy(&out, gz); err != nil {
		return nil, errors.Wrap(domain.ErrCacheCorrupt, err.Error())
	}

	sink.Publish(domain.ProgressEvent{Kind: domain.ProgressExtractDone, Name: string(f.Name)})
	s.log.Debug().Str("file", string(f.Name)).Int("bytes", out.Len()).Msg("extracted")

	return out.Bytes(), nil
}

// acquireLock creates the cache-dir sentinel. A leftover sentinel
// from a crashed run only produces a warning; the cache is private to
// a single process lifecycle.
func (s *Service) acquireLock() (func(), error) {
	f, err := os.OpenFile(s.paths.LockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			s.log.Warn().Str("path", s.paths.LockPath).Msg("stale lock file found, continuing")
			return func() {}, nil
		}
		return nil, errors.Wrap(domain.ErrCacheIO, err.Error())
	}
	f.Close()

	return func() { os.Remove(s.paths.LockPath) }, nil
}

// progressReader publishes per-chunk byte deltas as the compressed
// stream is consumed.
type progressReader struct {
	r    io.Reader
	name string
	sink domain.ProgressSink
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sink.Publish(domain.ProgressEvent{
			Kind:  domain.ProgressExtract,
			Name:  p.name,
			Delta: int64(n),
		})
	}
	return n, err
}
