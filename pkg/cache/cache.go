// Package cache stores fetched backend records and computed canvases.
//
// The menu page and the CLI both turn the same photo list into the same
// layout for a given seed, so both intermediate products are cacheable:
//
//   - photo lists fetched from the backend (short TTL, the list changes
//     whenever somebody uploads)
//   - placed canvases keyed by a hash of their inputs (long TTL, the
//     generator is deterministic for a given seed)
//
// Three backends implement [Cache]:
//   - [FileCache] for the CLI (~/.cache/dn-house/)
//   - [RedisCache] for servers sharing one cache across instances
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"errors"
	"time"
)

// TTLs for cached products.
const (
	TTLPhotos = 5 * time.Minute
	TTLCanvas = 7 * 24 * time.Hour
)

// ErrCacheMiss can be returned by helpers that need an error for a miss.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of 0 in Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
