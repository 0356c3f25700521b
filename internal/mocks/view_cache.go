package mocks

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryViewCache is an in-memory stand-in for the Redis view cache. Values
// are stored JSON-encoded so cached reads behave like Redis round trips.
type MemoryViewCache[T any] struct {
	mu      sync.Mutex
	entries map[string][]byte

	Gets    int
	Hits    int
	Sets    int
	Deletes []string
}

// NewMemoryViewCache creates an empty cache.
func NewMemoryViewCache[T any]() *MemoryViewCache[T] {
	return &MemoryViewCache[T]{entries: make(map[string][]byte)}
}

// Get returns the decoded entry for key.
func (c *MemoryViewCache[T]) Get(_ context.Context, key string) (*T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	data, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	c.Hits++
	return &v, true
}

// Set stores value under key.
func (c *MemoryViewCache[T]) Set(_ context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets++
	c.entries[key] = data
}

// Delete removes key.
func (c *MemoryViewCache[T]) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deletes = append(c.Deletes, key)
	delete(c.entries, key)
}

// Has reports whether key is cached.
func (c *MemoryViewCache[T]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
