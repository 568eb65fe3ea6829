package prefetch

import (
	"container/list"
	"context"
	"fmt"
	"sync"
)

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a thread-safe, fixed-size in-memory cache with least-recently-used
// eviction. It implements Fetcher and consults an optional fallback Fetcher
// on a miss, memoizing its result.
type LRU[K comparable, V any] struct {
	maxSize  int
	fallback Fetcher[K, V]

	mu      sync.Mutex
	order   *list.List
	entries map[K]*list.Element
}

// NewLRU creates an LRU cache holding at most maxSize entries.
func NewLRU[K comparable, V any](maxSize int, fallback Fetcher[K, V]) (*LRU[K, V], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("lru size must be positive, got %d", maxSize)
	}

	return &LRU[K, V]{
		maxSize:  maxSize,
		fallback: fallback,
		order:    list.New(),
		entries:  make(map[K]*list.Element),
	}, nil
}

// Fetch returns the cached value for key, or fetches it from the fallback
// and caches it. Without a fallback a miss is an error.
func (c *LRU[K, V]) Fetch(ctx context.Context, key K) (V, error) {
	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		value := elem.Value.(*lruEntry[K, V]).value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	var zero V
	if c.fallback == nil {
		return zero, fmt.Errorf("key %v not cached and no fallback configured", key)
	}

	value, err := c.fallback.Fetch(ctx, key)
	if err != nil {
		return zero, err
	}
	c.Put(key, value)

	return value, nil
}

// Put inserts or refreshes an entry, evicting the least recently used one
// when the cache is full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*lruEntry[K, V]).value = value
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*lruEntry[K, V]).key)
		}
	}
}

// Len reports the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
