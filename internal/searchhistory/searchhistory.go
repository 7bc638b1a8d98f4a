// Package searchhistory keeps the most recent search queries, newest first,
// in the durable key/value store.
package searchhistory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/mediamingle/mingle/internal/kvstore"
)

// MaxEntries bounds the list; older queries are dropped
const MaxEntries = 10

const storeKey = "search_history"

// Cache is the recent-searches list. It is the only writer of its key.
type Cache struct {
	store  kvstore.Store
	key    string
	logger *slog.Logger

	mu      sync.RWMutex
	entries []string
}

// New creates a cache under "{namespace}:search_history". Call Load once
// before use.
func New(store kvstore.Store, namespace string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:  store,
		key:    kvstore.Key(namespace, storeKey),
		logger: logger,
	}
}

// Load reads the persisted list. An absent, unreadable or malformed value
// yields an empty list.
func (c *Cache) Load(ctx context.Context) {
	entries := c.read(ctx)

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
}

func (c *Cache) read(ctx context.Context) []string {
	value, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			c.logger.Warn("failed to read search history", "error", err)
		}
		return nil
	}

	var entries []string
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		c.logger.Warn("ignoring malformed search history", "error", err)
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Record moves query to the front, adding it if new, and persists the list.
// Blank queries are ignored.
func (c *Cache) Record(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	c.mu.Lock()
	next := make([]string, 0, MaxEntries)
	next = append(next, query)
	for _, e := range c.entries {
		if e != query {
			next = append(next, e)
		}
	}
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	c.entries = next
	c.mu.Unlock()

	return c.persist(ctx, next)
}

// List returns the queries, most recent first
func (c *Cache) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.entries...)
}

// Clear empties the list and removes the key
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}

// Suggest ranks recent queries against prefix. An empty prefix returns the
// newest n entries.
func (c *Cache) Suggest(prefix string, n int) []string {
	entries := c.List()
	prefix = strings.TrimSpace(prefix)

	var out []string
	if prefix == "" {
		out = entries
	} else {
		for _, m := range fuzzy.Find(prefix, entries) {
			out = append(out, m.Str)
		}
	}

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (c *Cache) persist(ctx context.Context, entries []string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode search history: %w", err)
	}
	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		c.logger.Warn("failed to save search history", "error", err)
		return fmt.Errorf("failed to save search history: %w", err)
	}
	return nil
}
