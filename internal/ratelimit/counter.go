// Package ratelimit provides the Counter capability: an atomic
// increment-with-expiry that survives process restarts when backed by an
// external store. Callers depend on the interface, never on a concrete
// in-memory map.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Counter interface {
	// Incr increments key and returns the new value. The first increment
	// in a window arms the expiry; the counter resets when it fires.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
}

// MemoryCounter is a process-local fallback for development and tests. It
// is not shared across instances; production should use the Redis counter.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*memoryEntry)}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	e, ok := c.entries[key]
	if !ok || now.After(e.expiresAt) {
		e = &memoryEntry{expiresAt: now.Add(window)}
		c.entries[key] = e
	}
	e.count++
	return e.count, nil
}

func (c *MemoryCounter) Get(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return 0, nil
	}
	return e.count, nil
}
