// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a Redis server, for long-running servers sharing a cache
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// Keys are built by a [Keyer] from a content hash of the task snapshot plus
// every option that affects the output, so a changed snapshot or option is
// simply a different key and entries never need invalidating. Use [Hash] to
// hash snapshot bytes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
