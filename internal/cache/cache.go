package cache

import (
	"crypto/md5"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 1024

// Cache is a bounded, thread-safe LRU with hit/miss accounting.
type Cache[V any] struct {
	items  *lru.Cache[string, V]
	size   int
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache holding at most size entries.
func New[V any](size int) (*Cache[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	items, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &Cache[V]{items: items, size: size}, nil
}

// Key hashes a canonical input string into a fixed-length cache key.
func Key(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// Get retrieves an item and records a hit or a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.items.Get(key)
	if ok {
		c.hits.Add(1)
		slog.Debug("Cache hit", "key", short(key))
	} else {
		c.misses.Add(1)
		slog.Debug("Cache miss", "key", short(key))
	}
	return v, ok
}

// Set stores an item, evicting the least recently used one when full.
func (c *Cache[V]) Set(key string, value V) {
	if evicted := c.items.Add(key, value); evicted {
		slog.Debug("Cache eviction", "size", c.size)
	}
}

// Size returns the number of items held.
func (c *Cache[V]) Size() int {
	return c.items.Len()
}

// Stats returns cache statistics
func (c *Cache[V]) Stats() map[string]interface{} {
	hits := c.hits.Load()
	misses := c.misses.Load()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return map[string]interface{}{
		"items":    c.Size(),
		"capacity": c.size,
		"hits":     hits,
		"misses":   misses,
		"hit_rate": hitRate,
	}
}

func short(key string) string {
	if len(key) > 8 {
		return key[:8] + "..."
	}
	return key
}
