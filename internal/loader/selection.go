package loader

import (
	"strings"

	"github.com/mediamingle/mingle/internal/content"
)

// Selection is the picker state around the grid: the active tab and whichever
// of mood, genre, filter or query is applied
type Selection struct {
	Kind   content.MediaKind
	Mood   string
	Genre  string
	Filter *content.FilterSpec
	Query  string
}

// Selection returns a copy of the current picker state
func (l *Loader) Selection() Selection {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.selection
	if s.Filter != nil {
		f := *s.Filter
		s.Filter = &f
	}
	return s
}

// SwitchKind moves to another tab. Mood, genre, filter and query do not carry
// over; the returned mode is trending for the new kind.
func (l *Loader) SwitchKind(kind content.MediaKind) content.BrowsingMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection = Selection{Kind: kind}
	return content.Trending(kind)
}

// SelectMood picks a mood, clearing genre and filter
func (l *Loader) SelectMood(mood string) content.BrowsingMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection.Mood = mood
	l.selection.Genre = ""
	l.selection.Filter = nil
	return content.Mood(l.selection.Kind, mood)
}

// SelectGenre picks a quick genre, clearing mood and filter. It reports false
// and changes nothing when the label has no upstream mapping.
func (l *Loader) SelectGenre(label string) (content.BrowsingMode, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := content.GenreQuery(l.selection.Kind, label); !ok {
		return content.BrowsingMode{}, false
	}
	l.selection.Genre = label
	l.selection.Mood = ""
	l.selection.Filter = nil
	return content.Genre(l.selection.Kind, label), true
}

// ApplyFilter validates spec and makes it the only active selection
func (l *Loader) ApplyFilter(spec content.FilterSpec) (content.BrowsingMode, error) {
	if err := spec.Validate(); err != nil {
		return content.BrowsingMode{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection.Filter = &spec
	l.selection.Mood = ""
	l.selection.Genre = ""
	l.selection.Query = ""
	return content.AdvancedFilter(l.selection.Kind, spec), nil
}

// SubmitSearch records the query on the selection. Blank queries report false.
func (l *Loader) SubmitSearch(query string) (content.BrowsingMode, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return content.BrowsingMode{}, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection.Query = query
	return content.Search(l.selection.Kind, query), true
}

// ClearSelection drops mood, genre, filter and query and returns trending
func (l *Loader) ClearSelection() content.BrowsingMode {
	return l.SwitchKind(l.Selection().Kind)
}
