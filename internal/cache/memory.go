package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process TTL cache. Entries are evicted lazily on read
// and in bulk when the map grows past a sweep threshold.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// sweepThreshold bounds how large the map can grow before a write pays for
// a full expiry sweep.
const sweepThreshold = 4096

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached value when present and unexpired.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores a value with the given TTL. Non-positive TTLs are ignored.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= sweepThreshold {
		now := m.now()
		for k, e := range m.entries {
			if now.After(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
}
