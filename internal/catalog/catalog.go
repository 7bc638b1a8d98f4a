// Package catalog reads the backend's catalog proxy routes (trending, search,
// discover, recommend and detail) and normalizes the payloads into content items.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
)

// Client fetches catalog listings from the backend
type Client struct {
	http   *httpclient.Client
	logger *slog.Logger
}

// New creates a catalog client on top of an httpclient
func New(http *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: http, logger: logger}
}

// Trending lists what is trending for kind
func (c *Client) Trending(ctx context.Context, kind content.MediaKind) ([]content.ContentItem, error) {
	return c.list(ctx, kind, "/trending-"+kind.ContentType(), nil)
}

// Search runs a free-text title search
func (c *Client) Search(ctx context.Context, kind content.MediaKind, query string) ([]content.ContentItem, error) {
	return c.list(ctx, kind, "/search-"+kind.ContentType(), map[string]string{"query": query})
}

// Recommend lists titles matching a mood
func (c *Client) Recommend(ctx context.Context, kind content.MediaKind, mood string) ([]content.ContentItem, error) {
	return c.list(ctx, kind, "/recommend", map[string]string{
		"mood":         mood,
		"content_type": kind.ContentType(),
	})
}

// DiscoverGenre lists titles for a quick-pick genre chip. It reports false
// without calling the backend when the label has no upstream id.
func (c *Client) DiscoverGenre(ctx context.Context, kind content.MediaKind, label string) ([]content.ContentItem, bool, error) {
	params, ok := content.GenreQuery(kind, label)
	if !ok {
		c.logger.Debug("genre has no upstream id", "kind", kind, "genre", label)
		return nil, false, nil
	}
	items, err := c.list(ctx, kind, "/discover-"+kind.ContentType(), params)
	return items, true, err
}

// Discover applies an advanced filter
func (c *Client) Discover(ctx context.Context, kind content.MediaKind, spec content.FilterSpec) ([]content.ContentItem, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return c.list(ctx, kind, "/discover-"+kind.ContentType(), spec.Query(kind))
}

// Detail fetches a single title
func (c *Client) Detail(ctx context.Context, kind content.MediaKind, id string) (*content.Detail, error) {
	var raw json.RawMessage
	if err := c.http.Get(ctx, kind.DetailPath(id), nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to load %s %s: %w", kind, id, err)
	}
	return content.NormalizeDetail(kind, raw)
}

func (c *Client) list(ctx context.Context, kind content.MediaKind, path string, params map[string]string) ([]content.ContentItem, error) {
	var raw json.RawMessage
	if err := c.http.Get(ctx, path, params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []content.ContentItem{}, nil
	}

	items, err := content.Normalize(kind, raw)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("catalog listing", "path", path, "kind", kind, "items", len(items))
	return items, nil
}
