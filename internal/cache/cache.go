// Package cache provides a small generic keyed cache with idempotent
// concurrent fills, the primitive every resolver-level cache (package.json
// records, resolved packages, file info) is built from. It mirrors the
// teacher's internal/cache package's idea of composing several narrow
// caches rather than one big one, but uses a generic building block instead
// of one hand-written cache per concrete type.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache maps string keys to values of type V. Zero V (e.g. a nil pointer)
// is a valid stored value distinct from "absent": Load's bool return tells
// the two apart, which is what lets callers negative-cache "known absent"
// lookups (§3 "packages: bare package name → PackageRecord or nil").
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]V
	group singleflight.Group
}

func New[V any]() *Cache[V] {
	return &Cache[V]{items: make(map[string]V)}
}

func (c *Cache[V]) Load(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *Cache[V]) Store(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// GetOrFill returns the cached value for key, computing and storing it via
// fill on a miss. Concurrent GetOrFill calls for the same key that race
// into a miss share a single fill call and observe the same result,
// satisfying the "idempotent fill" requirement: two concurrent misses may
// both attempt to populate the entry, but both must see the same final
// value.
func (c *Cache[V]) GetOrFill(key string, fill func() (V, error)) (V, error) {
	if v, ok := c.Load(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.Load(key); ok {
			return v, nil
		}
		val, ferr := fill()
		if ferr != nil {
			return val, ferr
		}
		c.Store(key, val)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
