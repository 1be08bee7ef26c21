// Package cache stores rendered tool results and previews.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for a
// shared server deployment, and [NullCache] when caching is disabled. Keys
// are built by a [Keyer] so that every backend sees the same layout.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	TTLToolResult = 7 * 24 * time.Hour
	TTLPreview    = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
// A zero ttl means the entry never expires.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
