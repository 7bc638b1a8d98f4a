// Package content holds the normalized media model shared by every layer:
// content items, browsing modes, filter specs and the genre/mood tables, plus
// the adapter that turns catalog payloads into items and the completeness gate.
package content

import (
	"fmt"
	"strings"
)

// MediaKind is one of the three content categories the client aggregates
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
	KindAnime MediaKind = "anime"
)

// Kinds lists every media kind in tab order
var Kinds = []MediaKind{KindMovie, KindTV, KindAnime}

// ParseKind accepts the singular names and the backend's content_type values
func ParseKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return KindMovie, nil
	case "tv", "show", "shows", "series":
		return KindTV, nil
	case "anime":
		return KindAnime, nil
	default:
		return "", fmt.Errorf("unknown media kind %q (want movie, tv or anime)", s)
	}
}

// ContentType is the backend's content_type value and route suffix
// (trending-movies, search-tv, discover-anime)
func (k MediaKind) ContentType() string {
	if k == KindMovie {
		return "movies"
	}
	return string(k)
}

// DetailPath is the backend detail route for an id of this kind
func (k MediaKind) DetailPath(id string) string {
	return "/" + string(k) + "/" + id
}

// WebPath is the public site route for an id of this kind
func (k MediaKind) WebPath(id string) string {
	return "/" + k.ContentType() + "/" + id
}

// Label is the tab title
func (k MediaKind) Label() string {
	switch k {
	case KindMovie:
		return "Movies"
	case KindTV:
		return "TV Shows"
	case KindAnime:
		return "Anime"
	default:
		return string(k)
	}
}

func (k MediaKind) String() string { return string(k) }

// ContentItem is the normalized adapter output. Absent upstream values are nil,
// never a placeholder, so the completeness gate can test them uniformly.
type ContentItem struct {
	ID           string    `json:"id" yaml:"id"`
	Kind         MediaKind `json:"media_kind" yaml:"media_kind"`
	Title        string    `json:"title" yaml:"title"`
	PosterURL    *string   `json:"poster_url" yaml:"poster_url,omitempty"`
	BackdropURL  *string   `json:"backdrop_url" yaml:"backdrop_url,omitempty"`
	Rating       *float64  `json:"rating" yaml:"rating,omitempty"`
	ReleaseYear  *int      `json:"release_year" yaml:"release_year,omitempty"`
	Overview     *string   `json:"overview" yaml:"overview,omitempty"`
	EpisodeCount *int      `json:"episode_count" yaml:"episode_count,omitempty"`
}

// Key is the "{kind}-{id}" membership key used by the favorites store
func (c ContentItem) Key() string {
	return Key(c.Kind, c.ID)
}

// Key builds a membership key from its parts
func Key(kind MediaKind, id string) string {
	return string(kind) + "-" + id
}

// Poster returns the poster URL or ""
func (c ContentItem) Poster() string {
	if c.PosterURL == nil {
		return ""
	}
	return *c.PosterURL
}

// Year returns the release year or 0
func (c ContentItem) Year() int {
	if c.ReleaseYear == nil {
		return 0
	}
	return *c.ReleaseYear
}

// Score returns the rating or 0
func (c ContentItem) Score() float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

// Synopsis returns the overview or ""
func (c ContentItem) Synopsis() string {
	if c.Overview == nil {
		return ""
	}
	return *c.Overview
}

// Trailer points at a YouTube video
type Trailer struct {
	Key string `json:"key" yaml:"key"`
}

// URL is the watch page for the trailer
func (t Trailer) URL() string {
	return "https://www.youtube.com/watch?v=" + t.Key
}

// Detail is a single item with the extra fields the detail view shows
type Detail struct {
	ContentItem `yaml:",inline"`
	Genres      []string `json:"genres" yaml:"genres,omitempty"`
	Trailer     *Trailer `json:"trailer" yaml:"trailer,omitempty"`
	Runtime     *int     `json:"runtime" yaml:"runtime,omitempty"` // minutes
	Status      string   `json:"status" yaml:"status,omitempty"`
}
