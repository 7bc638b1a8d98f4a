package content

import "fmt"

// ModeType tags a BrowsingMode variant
type ModeType int

const (
	ModeTrending ModeType = iota
	ModeSearch
	ModeMood
	ModeGenre
	ModeFilter
	ModeFavorites
	ModeHistory
)

func (t ModeType) String() string {
	switch t {
	case ModeTrending:
		return "trending"
	case ModeSearch:
		return "search"
	case ModeMood:
		return "mood"
	case ModeGenre:
		return "genre"
	case ModeFilter:
		return "filter"
	case ModeFavorites:
		return "favorites"
	case ModeHistory:
		return "history"
	default:
		return "unknown"
	}
}

// BrowsingMode says what the main grid is showing. Only the fields of the
// active variant are meaningful; use the constructors below.
type BrowsingMode struct {
	Type   ModeType
	Kind   MediaKind
	Query  string
	Mood   string
	Genre  string
	Filter FilterSpec
}

func Trending(kind MediaKind) BrowsingMode {
	return BrowsingMode{Type: ModeTrending, Kind: kind}
}

func Search(kind MediaKind, query string) BrowsingMode {
	return BrowsingMode{Type: ModeSearch, Kind: kind, Query: query}
}

func Mood(kind MediaKind, mood string) BrowsingMode {
	return BrowsingMode{Type: ModeMood, Kind: kind, Mood: mood}
}

func Genre(kind MediaKind, genre string) BrowsingMode {
	return BrowsingMode{Type: ModeGenre, Kind: kind, Genre: genre}
}

func AdvancedFilter(kind MediaKind, spec FilterSpec) BrowsingMode {
	return BrowsingMode{Type: ModeFilter, Kind: kind, Filter: spec}
}

func Favorites() BrowsingMode {
	return BrowsingMode{Type: ModeFavorites}
}

func History() BrowsingMode {
	return BrowsingMode{Type: ModeHistory}
}

// SetsFeatured reports whether a successful load promotes its first item
func (m BrowsingMode) SetsFeatured() bool {
	switch m.Type {
	case ModeTrending, ModeMood, ModeGenre, ModeFilter:
		return true
	default:
		return false
	}
}

// Gated reports whether results go through the completeness gate.
// Saved lists show everything the user chose to keep.
func (m BrowsingMode) Gated() bool {
	return m.Type != ModeFavorites && m.Type != ModeHistory
}

func (m BrowsingMode) String() string {
	switch m.Type {
	case ModeSearch:
		return fmt.Sprintf("search(%s, %q)", m.Kind, m.Query)
	case ModeMood:
		return fmt.Sprintf("mood(%s, %s)", m.Kind, m.Mood)
	case ModeGenre:
		return fmt.Sprintf("genre(%s, %s)", m.Kind, m.Genre)
	case ModeFilter:
		return fmt.Sprintf("filter(%s)", m.Kind)
	case ModeFavorites, ModeHistory:
		return m.Type.String()
	default:
		return fmt.Sprintf("%s(%s)", m.Type, m.Kind)
	}
}
