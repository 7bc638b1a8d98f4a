package userdata

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
)

// Favorite is a saved title
type Favorite struct {
	ID int `json:"id" yaml:"id"`
	Record `yaml:",inline"`
	AddedAt httpclient.Time `json:"added_at" yaml:"added_at"`
}

// Favorites caches the favorites list and a membership index over it. Both
// are replaced together from the backend after every mutation.
type Favorites struct {
	base

	mu      sync.RWMutex
	list    []Favorite
	members map[string]int // membership key -> favorite id
}

// NewFavorites creates an empty favorites store
func NewFavorites(api API, session Session, logger *slog.Logger) *Favorites {
	return &Favorites{
		base:    newBase(api, session, nil, logger),
		members: make(map[string]int),
	}
}

// Refresh reloads the authoritative list
func (f *Favorites) Refresh(ctx context.Context) error {
	if !f.authenticated() {
		f.replace(nil)
		return ErrNotAuthenticated
	}

	var list []Favorite
	if err := f.api.Get(ctx, "/favorites", nil, &list); err != nil {
		f.failed("favorites.refresh", err)
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	f.replace(list)
	return nil
}

// List returns a copy of the cached favorites
func (f *Favorites) List() []Favorite {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Favorite(nil), f.list...)
}

// IsFavorite is the O(1) membership test
func (f *Favorites) IsFavorite(kind content.MediaKind, id string) bool {
	_, ok := f.Lookup(kind, id)
	return ok
}

// Lookup returns the favorite id for a title
func (f *Favorites) Lookup(kind content.MediaKind, id string) (int, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	favID, ok := f.members[content.Key(kind, id)]
	return favID, ok
}

// Add saves item once the backend acknowledges, then reloads the list
func (f *Favorites) Add(ctx context.Context, item content.ContentItem) error {
	if !f.authenticated() {
		return ErrNotAuthenticated
	}

	if err := f.api.Post(ctx, "/favorites", RecordFor(item), nil); err != nil {
		f.failed("favorites.add", err)
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return f.Refresh(ctx)
}

// Remove deletes a favorite by its server id, then reloads the list
func (f *Favorites) Remove(ctx context.Context, favoriteID int) error {
	if !f.authenticated() {
		return ErrNotAuthenticated
	}

	if err := f.api.Delete(ctx, "/favorites/"+strconv.Itoa(favoriteID), nil); err != nil {
		f.failed("favorites.remove", err)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return f.Refresh(ctx)
}

// Toggle adds or removes item and reports whether it is now a favorite
func (f *Favorites) Toggle(ctx context.Context, item content.ContentItem) (bool, error) {
	if !f.authenticated() {
		return false, ErrNotAuthenticated
	}

	if favID, ok := f.Lookup(item.Kind, item.ID); ok {
		if err := f.Remove(ctx, favID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := f.Add(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}

// Check asks the backend whether a single title is a favorite. The detail
// view calls it once per load.
func (f *Favorites) Check(ctx context.Context, kind content.MediaKind, id string) (bool, int, error) {
	if !f.authenticated() {
		return false, 0, ErrNotAuthenticated
	}

	var resp struct {
		IsFavorite bool `json:"is_favorite"`
		FavoriteID *int `json:"favorite_id"`
	}
	path := fmt.Sprintf("/favorites/check/%s/%s", kind.ContentType(), id)
	if err := f.api.Get(ctx, path, nil, &resp); err != nil {
		f.failed("favorites.check", err)
		return false, 0, err
	}

	favID := 0
	if resp.FavoriteID != nil {
		favID = *resp.FavoriteID
	}
	return resp.IsFavorite, favID, nil
}

// Items returns the favorites as content items for the grid
func (f *Favorites) Items() []content.ContentItem {
	list := f.List()
	items := make([]content.ContentItem, 0, len(list))
	for _, fav := range list {
		items = append(items, fav.Item())
	}
	return items
}

func (f *Favorites) replace(list []Favorite) {
	members := make(map[string]int, len(list))
	for _, fav := range list {
		members[fav.Key()] = fav.ID
	}

	f.mu.Lock()
	f.list = list
	f.members = members
	f.mu.Unlock()
}
