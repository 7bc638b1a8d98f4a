package content

// GenreOption is a selectable genre; ID is empty for anime, which filters by label
type GenreOption struct {
	ID    string
	Label string
}

// Quick-pick genres shown as chips on the home view. Movie and TV labels map to
// upstream genre ids; a label outside the table selects nothing.
var quickGenreIDs = map[MediaKind]map[string]string{
	KindMovie: {
		"Action":   "28",
		"Comedy":   "35",
		"Drama":    "18",
		"Horror":   "27",
		"Sci-Fi":   "878",
		"Romance":  "10749",
		"Thriller": "53",
	},
	KindTV: {
		"Drama":   "18",
		"Comedy":  "35",
		"Action":  "10759",
		"Mystery": "9648",
		"Sci-Fi":  "10765",
		"Reality": "10764",
	},
}

var quickGenreLabels = map[MediaKind][]string{
	KindMovie: {"Action", "Comedy", "Drama", "Horror", "Sci-Fi", "Romance", "Thriller"},
	KindTV:    {"Drama", "Comedy", "Action", "Mystery", "Sci-Fi", "Reality"},
	KindAnime: {"Shounen", "Slice of Life", "Action", "Romance", "Psychological", "Comedy"},
}

// QuickGenres returns the genre chips for kind in display order
func QuickGenres(kind MediaKind) []string {
	return append([]string(nil), quickGenreLabels[kind]...)
}

// GenreID maps a quick-pick label to its upstream id. Anime has no table, so
// it always reports false; callers pass the label through instead.
func GenreID(kind MediaKind, label string) (string, bool) {
	id, ok := quickGenreIDs[kind][label]
	return id, ok
}

// Full genre lists offered by the advanced filter panel
var filterGenres = map[MediaKind][]GenreOption{
	KindMovie: {
		{"28", "Action"}, {"12", "Adventure"}, {"16", "Animation"}, {"35", "Comedy"},
		{"80", "Crime"}, {"99", "Documentary"}, {"18", "Drama"}, {"10751", "Family"},
		{"14", "Fantasy"}, {"36", "History"}, {"27", "Horror"}, {"10402", "Music"},
		{"9648", "Mystery"}, {"10749", "Romance"}, {"878", "Sci-Fi"}, {"10770", "TV Movie"},
		{"53", "Thriller"}, {"10752", "War"}, {"37", "Western"},
	},
	KindTV: {
		{"10759", "Action & Adventure"}, {"16", "Animation"}, {"35", "Comedy"},
		{"80", "Crime"}, {"99", "Documentary"}, {"18", "Drama"}, {"10751", "Family"},
		{"10762", "Kids"}, {"9648", "Mystery"}, {"10763", "News"}, {"10764", "Reality"},
		{"10765", "Sci-Fi & Fantasy"}, {"10766", "Soap"}, {"10767", "Talk"},
		{"10768", "War & Politics"}, {"37", "Western"},
	},
	KindAnime: animeGenres(
		"Action", "Adventure", "Comedy", "Drama", "Ecchi", "Fantasy",
		"Horror", "Mahou Shoujo", "Mecha", "Music", "Mystery", "Psychological",
		"Romance", "Sci-Fi", "Slice of Life", "Sports", "Supernatural", "Thriller",
	),
}

func animeGenres(labels ...string) []GenreOption {
	out := make([]GenreOption, len(labels))
	for i, l := range labels {
		out[i] = GenreOption{Label: l}
	}
	return out
}

// FilterGenres returns the advanced filter genre list for kind
func FilterGenres(kind MediaKind) []GenreOption {
	return append([]GenreOption(nil), filterGenres[kind]...)
}

// MoodOption is a mood the recommender understands
type MoodOption struct {
	Value string
	Label string
	Icon  string
}

// Moods in picker order
var Moods = []MoodOption{
	{"happy", "Happy", "☺"},
	{"sad", "Sad", "☹"},
	{"exciting", "Exciting", "⚡"},
	{"scary", "Scary", "👻"},
	{"thoughtful", "Thoughtful", "✎"},
	{"relaxing", "Relaxing", "☕"},
}

// ValidMood reports whether value is a known mood
func ValidMood(value string) bool {
	for _, m := range Moods {
		if m.Value == value {
			return true
		}
	}
	return false
}
