// Package kvstore persists small string values under namespaced keys. It backs
// client state that must survive restarts: recent searches and the session.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/database"
)

// ErrNotFound is returned by Get when the key is absent
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a durable string key/value store
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the backend selected in cfg.Storage. The sqlite backend shares
// the application database, which must already be initialized.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case "", "sqlite":
		db := database.GetDB()
		if db == nil {
			return nil, fmt.Errorf("sqlite storage requires an initialized database")
		}
		return NewSQLite(db), nil
	case "bolt":
		return OpenBolt(cfg.Storage.BoltPath)
	case "redis":
		return OpenRedis(ctx, cfg.Storage.Redis)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Key joins a namespace and a name the way every mingle key is built
func Key(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}
