// Package cache stores finished trial reports so that repeating a run with the
// same group set, seed and options is answered without rebuilding sequences.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON files under the user cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance (API server, multi-host studies)
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer], so that deployments can namespace entries with
// [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	// TTLReport is how long a trial report stays cached. Reports are pure
	// functions of their key, so the TTL only bounds disk usage.
	TTLReport = 7 * 24 * time.Hour

	// TTLSample is how long a single sampled sequence stays cached.
	TTLSample = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache never stores anything. It backs --no-cache and the "none" backend.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                      { return nil }
func (NullCache) Close() error                                              { return nil }
