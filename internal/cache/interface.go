// Package cache provides the published-page cache: rendered landing
// payloads keyed by slug, backed by memory or Redis.
package cache

import (
	"context"
	"time"
)

// Cacher is the interface all cache backends implement. Implementations
// must be safe for concurrent use. Values are []byte so memory and
// Redis backends share one contract.
type Cacher interface {
	// Get retrieves a value. Returns ErrCacheMiss if the key is absent
	// or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL uses the
	// backend's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Stats holds cache hit/miss counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	Items  int   `json:"items"`
}

// StatsProvider is an optional interface for backends that count.
type StatsProvider interface {
	Stats() Stats
}

// Error is the error type for cache operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)
