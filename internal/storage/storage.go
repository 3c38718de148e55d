// Package storage persists sharpen's local records as keyed blobs.
package storage

import (
	"context"

	"github.com/HartBrook/sharpen/internal/config"
)

// Record keys.
const (
	HistoryKey  = "promptHistory"
	SettingsKey = "llmAppSettings"
)

// KV is a minimal key-value store for whole-record reads and writes.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the store selected by cfg.
func Open(cfg *config.Config, paths *config.Paths) (KV, error) {
	if cfg.Storage.Driver == config.DriverSQLite {
		return OpenSQL(paths.Database)
	}
	return NewFileStore(paths.StateDir), nil
}
