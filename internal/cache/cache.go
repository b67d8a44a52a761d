// Package cache defines the advisory cache used by the resolution pipeline.
// Caches here only ever trade latency for staleness: a miss, an expired
// entry, or a storage failure must never change a resolution's outcome.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a read-through string cache with per-entry TTL. Implementations
// must be safe for concurrent use. Failures are swallowed and reported as
// misses; there is deliberately no error return.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// Key builds a versioned cache key. Bumping the version string of a call
// site invalidates every entry written under the old behavior.
func Key(version string, parts ...string) string {
	return version + ":" + strings.Join(parts, ":")
}

// Nop is a Cache that stores nothing. Useful in tests and as a safe
// default when no store is wired.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) (string, bool) { return "", false }

// Set discards the value.
func (Nop) Set(context.Context, string, string, time.Duration) {}
