package domain

import "encoding/json"

// TitleType encodes the kind of a title as found in the basics dump.
type TitleType uint8

const (
	TitleTypeMovie TitleType = iota
	TitleTypeShort
	TitleTypeTvMovie
	TitleTypeTvEpisode
	TitleTypeTvSeries
	TitleTypeTvMiniSeries
	TitleTypeTvShort
	TitleTypeTvSpecial
	TitleTypeVideoGame
	TitleTypeVideo
	TitleTypeExperimental

	titleTypeCount
)

var titleTypeNames = [titleTypeCount]string{
	TitleTypeMovie:        "Movie",
	TitleTypeShort:        "Short Movie",
	TitleTypeTvMovie:      "TV Movie",
	TitleTypeTvEpisode:    "TV Episode",
	TitleTypeTvSeries:     "TV Series",
	TitleTypeTvMiniSeries: "TV Mini-Series",
	TitleTypeTvShort:      "TV Short",
	TitleTypeTvSpecial:    "TV Special",
	TitleTypeVideoGame:    "Video Game",
	TitleTypeVideo:        "Video",
	TitleTypeExperimental: "Experimental",
}

// ParseTitleType maps the raw basics-dump value to a TitleType. The
// second return is false for types outside the supported set (e.g.
// radio programmes), which callers skip.
func ParseTitleType(s string) (TitleType, bool) {
	switch s {
	case "movie":
		return TitleTypeMovie, true
	case "short":
		return TitleTypeShort, true
	case "tvMovie":
		return TitleTypeTvMovie, true
	case "tvEpisode":
		return TitleTypeTvEpisode, true
	case "tvSeries":
		return TitleTypeTvSeries, true
	case "tvMiniSeries":
		return TitleTypeTvMiniSeries, true
	case "tvShort":
		return TitleTypeTvShort, true
	case "tvSpecial":
		return TitleTypeTvSpecial, true
	case "videoGame":
		return TitleTypeVideoGame, true
	case "video":
		return TitleTypeVideo, true
	case "experimental":
		return TitleTypeExperimental, true
	default:
		return 0, false
	}
}

// TitleTypeFrom converts a persisted byte back into a TitleType.
func TitleTypeFrom(v uint8) (TitleType, bool) {
	if v >= uint8(titleTypeCount) {
		return 0, false
	}
	return TitleType(v), true
}

// IsMovie reports whether the type belongs to the movie-like group.
func (t TitleType) IsMovie() bool {
	switch t {
	case TitleTypeMovie, TitleTypeShort, TitleTypeTvMovie, TitleTypeVideo,
		TitleTypeVideoGame, TitleTypeExperimental:
		return true
	default:
		return false
	}
}

// IsSeries reports whether the type belongs to the series-like group.
func (t TitleType) IsSeries() bool {
	switch t {
	case TitleTypeTvSeries, TitleTypeTvMiniSeries, TitleTypeTvEpisode,
		TitleTypeTvShort, TitleTypeTvSpecial:
		return true
	default:
		return false
	}
}

func (t TitleType) String() string {
	if t >= titleTypeCount {
		return "Unknown"
	}
	return titleTypeNames[t]
}

// MarshalJSON renders the display name.
func (t TitleType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// MarshalYAML renders the display name.
func (t TitleType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}
