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

// DefaultHistoryLimit is how many entries Refresh asks for when given 0
const DefaultHistoryLimit = 50

// HistoryEntry is one viewed title
type HistoryEntry struct {
	ID int `json:"id" yaml:"id"`
	Record `yaml:",inline"`
	ViewedAt httpclient.Time `json:"viewed_at" yaml:"viewed_at"`
}

// History caches the watch history. Deletes apply locally before the backend
// answers; entries cannot reappear from elsewhere.
type History struct {
	base

	mu      sync.RWMutex
	entries []HistoryEntry
}

// NewHistory creates an empty history store
func NewHistory(api API, session Session, alerter Alerter, logger *slog.Logger) *History {
	return &History{base: newBase(api, session, alerter, logger)}
}

// Refresh reloads up to limit entries, most recent first
func (h *History) Refresh(ctx context.Context, limit int) error {
	if !h.authenticated() {
		h.set(nil)
		return ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var entries []HistoryEntry
	params := map[string]string{"limit": strconv.Itoa(limit)}
	if err := h.api.Get(ctx, "/history", params, &entries); err != nil {
		h.failed("history.refresh", err)
		return fmt.Errorf("failed to load history: %w", err)
	}
	h.set(entries)
	return nil
}

// List returns a copy of the cached entries
func (h *History) List() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]HistoryEntry(nil), h.entries...)
}

// Items returns the entries as content items for the grid
func (h *History) Items() []content.ContentItem {
	entries := h.List()
	items := make([]content.ContentItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Item())
	}
	return items
}

// Record notes that item was viewed. It is a side effect of navigation, so
// failures are logged and never alerted; signed-out calls do nothing.
func (h *History) Record(ctx context.Context, item content.ContentItem) error {
	if !h.authenticated() {
		return nil
	}
	if err := h.api.Post(ctx, "/history", RecordFor(item), nil); err != nil {
		h.logger.Warn("failed to record history", "key", item.Key(), "error", err)
		return err
	}
	return nil
}

// DeleteOne removes an entry locally, then on the backend
func (h *History) DeleteOne(ctx context.Context, id int) error {
	if !h.authenticated() {
		return ErrNotAuthenticated
	}

	h.mu.Lock()
	kept := h.entries[:0:0]
	for _, e := range h.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	h.entries = kept
	h.mu.Unlock()

	if err := h.api.Delete(ctx, "/history/"+strconv.Itoa(id), nil); err != nil {
		h.failed("history.delete", err)
		h.alerter.Alert(alertMessage("remove from history", err))
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// ClearAll empties the history locally, then on the backend
func (h *History) ClearAll(ctx context.Context) error {
	if !h.authenticated() {
		return ErrNotAuthenticated
	}

	h.set(nil)

	if err := h.api.Delete(ctx, "/history/all", nil); err != nil {
		h.failed("history.clear", err)
		h.alerter.Alert(alertMessage("clear history", err))
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (h *History) set(entries []HistoryEntry) {
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
}
