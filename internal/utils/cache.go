package utils

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a small TTL layer over an LRU cache, used for shared page
// renders. Each owner holds its own instance; there is no global one.
type Cache struct {
	entries *lru.Cache[string, cacheItem]
}

// NewCache creates a cache holding at most size entries.
func NewCache(size int) *Cache {
	entries, err := lru.New[string, cacheItem](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &Cache{entries: entries}
}

// Set stores data under key for ttl.
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.entries.Add(key, cacheItem{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data, or nil if absent or expired.
func (c *Cache) Get(key string) interface{} {
	item, ok := c.entries.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(item.expiresAt) {
		c.entries.Remove(key)
		return nil
	}

	return item.data
}

// Delete drops a single key.
func (c *Cache) Delete(key string) {
	c.entries.Remove(key)
}
