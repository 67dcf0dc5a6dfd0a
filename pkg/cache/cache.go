// Package cache stores computed layout results keyed by content hash.
//
// Three backends share the [Cache] interface:
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (--redis-addr)
//
// Keys are built by a [Keyer] so callers never assemble key strings by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ResultKey(cache.Hash(scenarioBytes), cache.ResultKeyOpts{MaxPasses: 4})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// ResultTTL is how long a layout result stays cached. Results depend only
	// on the scenario bytes and engine version, so the TTL only bounds growth.
	ResultTTL = 7 * 24 * time.Hour

	// ExportTTL is how long a rendered export stays cached.
	ExportTTL = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
