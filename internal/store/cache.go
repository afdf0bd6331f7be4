// Package store provides the concurrency-safe per-spot caches the
// aggregation engine builds on.
package store

import "sync"

// Cache is a concurrency-safe map keyed by spot id. It owns its own
// locking; callers never need external synchronization. Writes are atomic
// per key, so a reader observes either the previous value or the new one,
// never a torn record.
type Cache[V any] struct {
	mu   sync.RWMutex
	data map[int]V
}

// NewCache creates an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{data: make(map[int]V)}
}

// Put stores v under id, replacing any previous value.
func (c *Cache[V]) Put(id int, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[id] = v
}

// Get returns the value for id and whether one is present.
func (c *Cache[V]) Get(id int) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[id]
	return v, ok
}

// Update atomically applies fn to the current value for id (zero value if
// absent) and stores the result. Used for read-modify-write merges such as
// per-model forecast updates.
func (c *Cache[V]) Update(id int, fn func(cur V, ok bool) V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.data[id]
	c.data[id] = fn(cur, ok)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Count returns how many cached values satisfy pred.
func (c *Cache[V]) Count(pred func(V) bool) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, v := range c.data {
		if pred(v) {
			n++
		}
	}
	return n
}
