package cache

import (
	"context"
	"time"

	"github.com/matzehuels/constellar/pkg/observability"
)

// NullCache is the backend used when caching is off. It stores nothing,
// and every lookup is reported to the cache hooks as a miss so that
// uncached runs still show up in metrics and logs.
type NullCache struct {
	reason string
}

// NewNullCache returns a NullCache for the "none" backend.
func NewNullCache() Cache {
	return Disabled("backend none")
}

// Disabled returns a NullCache that records why caching is off, such as
// "--no-cache" or a file cache that could not be created.
func Disabled(reason string) *NullCache {
	return &NullCache{reason: reason}
}

// Reason reports why caching is disabled.
func (c *NullCache) Reason() string {
	return c.reason
}

// Get reports a miss of the key's kind and returns nothing.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	observability.Cache().OnCacheMiss(ctx, KeyKind(key))
	return nil, false, nil
}

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *NullCache) Delete(context.Context, string) error                     { return nil }
func (c *NullCache) Close() error                                             { return nil }

// IsDisabled reports whether c is a NullCache, and why.
func IsDisabled(c Cache) (reason string, ok bool) {
	n, ok := c.(*NullCache)
	if !ok {
		return "", false
	}
	return n.reason, true
}

var _ Cache = (*NullCache)(nil)
