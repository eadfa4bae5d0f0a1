package app

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/fredmorcos/tvrank/internal/domain"
)

// barSink renders cache-store progress events as terminal progress
// bars, one per file and phase. Publish is safe for concurrent use.
type barSink struct {
	mu   sync.Mutex
	out  io.Writer
	bars map[string]*progressbar.ProgressBar
}

func newBarSink(out io.Writer) *barSink {
	return &barSink{
		out:  out,
		bars: make(map[string]*progressbar.ProgressBar),
	}
}

func (s *barSink) Publish(ev domain.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case domain.ProgressDownloadInit:
		s.start("download:"+ev.Name, "downloading "+ev.Name, ev.ContentLength)
	case domain.ProgressDownload:
		s.advance("download:"+ev.Name, ev.Delta)
	case domain.ProgressDownloadDone:
		s.finish("download:" + ev.Name)
	case domain.ProgressExtractInit:
		s.start("extract:"+ev.Name, "extracting "+ev.Name, ev.ContentLength)
	case domain.ProgressExtract:
		s.advance("extract:"+ev.Name, ev.Delta)
	case domain.ProgressExtractDone:
		s.finish("extract:" + ev.Name)
	}
}

func (s *barSink) start(key, description string, total int64) {
	if total <= 0 {
		// Unknown totals render as a spinner.
		total = -1
	}

	s.bars[key] = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer: "=", SaucerHead: ">", SaucerPadding: " ", BarStart: "[", BarEnd: "]",
		}),
	)
}

func (s *barSink) advance(key string, delta int64) {
	if bar, ok := s.bars[key]; ok {
		bar.Add64(delta)
	}
}

func (s *barSink) finish(key string) {
	if bar, ok := s.bars[key]; ok {
		bar.Finish()
		delete(s.bars, key)
	}
}
