// Package cache stores parsed module sets and rendered artifacts between
// runs.
//
// Three backends implement [Cache]: [FileCache] under the user cache
// directory for the CLI, [RedisCache] for servers sharing a cache, and
// [NullCache] when caching is disabled. Keys come from a [Keyer], which
// derives them from the bundle's identity and every option that changes the
// cached result.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cache entries live unless configured otherwise.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry. A miss is reported by the
// boolean result, not by an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
