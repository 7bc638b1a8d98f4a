package content

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidFilter is wrapped by every FilterSpec validation failure
var ErrInvalidFilter = errors.New("invalid filter")

// FilterSpec is the advanced multi-field filter. Genres hold upstream ids for
// movie/tv and labels for anime.
type FilterSpec struct {
	YearMin   int      `json:"year_min" yaml:"year_min"`
	YearMax   int      `json:"year_max" yaml:"year_max"`
	RatingMin float64  `json:"rating_min" yaml:"rating_min"`
	Language  string   `json:"language" yaml:"language"`
	SortBy    string   `json:"sort_by" yaml:"sort_by"`
	Genres    []string `json:"genres" yaml:"genres"`
	Season    string   `json:"season" yaml:"season"`
}

// Option is a value/label pair for pickers
type Option struct {
	Value string
	Label string
}

var sortOptions = map[MediaKind][]Option{
	KindMovie: {
		{"popularity.desc", "Most Popular"},
		{"vote_average.desc", "Highest Rated"},
		{"primary_release_date.desc", "Newest First"},
		{"primary_release_date.asc", "Oldest First"},
		{"title.asc", "Title (A-Z)"},
	},
	KindTV: {
		{"popularity.desc", "Most Popular"},
		{"vote_average.desc", "Highest Rated"},
		{"first_air_date.desc", "Newest First"},
		{"first_air_date.asc", "Oldest First"},
		{"name.asc", "Title (A-Z)"},
	},
	KindAnime: {
		{"POPULARITY_DESC", "Most Popular"},
		{"SCORE_DESC", "Highest Rated"},
		{"START_DATE_DESC", "Newest First"},
		{"START_DATE", "Oldest First"},
		{"TITLE_ROMAJI", "Title (A-Z)"},
	},
}

// Languages offered by the filter panel; "" means any
var Languages = []Option{
	{"", "All Languages"},
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"hi", "Hindi"},
	{"zh", "Chinese"},
}

// Seasons offered for anime; "" means any
var Seasons = []Option{
	{"", "All Seasons"},
	{"WINTER", "Winter"},
	{"SPRING", "Spring"},
	{"SUMMER", "Summer"},
	{"FALL", "Fall"},
}

// SortOptions returns the sort keys valid for kind
func SortOptions(kind MediaKind) []Option {
	return append([]Option(nil), sortOptions[kind]...)
}

// DefaultFilter is the filter panel's reset state
func DefaultFilter(kind MediaKind) FilterSpec {
	return FilterSpec{
		YearMin: 1990,
		YearMax: 2025,
		SortBy:  sortOptions[kind][0].Value,
	}
}

// Validate rejects specs that must never reach the network
func (f FilterSpec) Validate() error {
	if f.YearMin > f.YearMax {
		return fmt.Errorf("%w: year range %d-%d is inverted", ErrInvalidFilter, f.YearMin, f.YearMax)
	}
	if f.RatingMin < 0 || f.RatingMin > 10 {
		return fmt.Errorf("%w: minimum rating %.1f outside 0-10", ErrInvalidFilter, f.RatingMin)
	}
	if f.RatingMin*2 != math.Trunc(f.RatingMin*2) {
		return fmt.Errorf("%w: minimum rating %g is not a multiple of 0.5", ErrInvalidFilter, f.RatingMin)
	}
	return nil
}

// Query renders the discover endpoint parameters for kind. Anime takes the
// first genre label; movie/tv take a comma-joined id list.
func (f FilterSpec) Query(kind MediaKind) map[string]string {
	params := map[string]string{
		"year_min":   strconv.Itoa(f.YearMin),
		"year_max":   strconv.Itoa(f.YearMax),
		"rating_min": strconv.FormatFloat(f.RatingMin, 'f', -1, 64),
		"sort_by":    f.SortBy,
		"page":       "1",
	}

	if kind == KindAnime {
		if len(f.Genres) > 0 {
			params["genre"] = f.Genres[0]
		}
		if f.Season != "" {
			params["season"] = f.Season
		}
		return params
	}

	if f.Language != "" {
		params["language"] = f.Language
	}
	if len(f.Genres) > 0 {
		params["with_genres"] = strings.Join(f.Genres, ",")
	}
	return params
}

// GenreQuery is the discover query a quick-pick genre chip issues
func GenreQuery(kind MediaKind, label string) (map[string]string, bool) {
	if kind == KindAnime {
		return map[string]string{
			"year_min":   "1960",
			"year_max":   "2025",
			"rating_min": "0",
			"sort_by":    "popularity",
			"genre":      label,
			"page":       "1",
		}, true
	}

	id, ok := GenreID(kind, label)
	if !ok {
		return nil, false
	}
	return map[string]string{
		"year_min":    "1900",
		"year_max":    "2025",
		"rating_min":  "0",
		"language":    "",
		"sort_by":     "popularity.desc",
		"with_genres": id,
		"page":        "1",
	}, true
}
