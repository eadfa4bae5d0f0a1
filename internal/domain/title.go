package domain

import (
	"fmt"
	"time"
)

// Rating is an aggregate IMDB rating. The score is stored as an
// integer 0-100 (IMDB publishes one decimal digit). Votes == 0 means
// no rating is available.
type Rating struct {
	Score uint8  `json:"score" yaml:"score"`
	Votes uint32 `json:"votes" yaml:"votes"`
}

// Present reports whether a rating exists at all.
func (r Rating) Present() bool {
	return r.Votes > 0
}

func (r Rating) String() string {
	if !r.Present() {
		return "-"
	}
	return fmt.Sprintf("%d.%d", r.Score/10, r.Score%10)
}

// Title is the materialised view of one catalog entry as returned by
// queries. Absent years and runtimes are encoded as zero.
type Title struct {
	ID        TitleID   `json:"id" yaml:"id"`
	Type      TitleType `json:"type" yaml:"type"`
	Primary   string    `json:"primary_title" yaml:"primary_title"`
	Original  string    `json:"original_title,omitempty" yaml:"original_title,omitempty"`
	Adult     bool      `json:"-" yaml:"-"`
	StartYear uint16    `json:"start_year,omitempty" yaml:"start_year,omitempty"`
	EndYear   uint16    `json:"end_year,omitempty" yaml:"end_year,omitempty"`
	Runtime   uint16    `json:"runtime_minutes,omitempty" yaml:"runtime_minutes,omitempty"`
	Genres    Genres    `json:"genres" yaml:"genres"`
	Rating    Rating    `json:"rating" yaml:"rating"`
}

// URL returns the IMDB page of the title.
func (t *Title) URL() string {
	return t.ID.URL()
}

// RuntimeDuration returns the runtime as a duration, or false when
// the dump carries no runtime.
func (t *Title) RuntimeDuration() (time.Duration, bool) {
	if t.Runtime == 0 {
		return 0, false
	}
	return time.Duration(t.Runtime) * time.Minute, true
}
