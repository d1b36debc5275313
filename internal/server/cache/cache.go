// Package cache keeps rendered profile metadata between requests. Uploaded
// datasets and comparison results are never cached.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache key prefixes.
const (
	keyProfiles = "profiles"
	keyProfile  = "profile:"
)

// ProfilesKey is the cache key of the profile listing.
func ProfilesKey() string {
	return keyProfiles
}

// ProfileKey is the cache key of one profile.
func ProfileKey(name string) string {
	return keyProfile + name
}

// Cache wraps go-cache with a load-through helper.
type Cache struct {
	store *gocache.Cache
}

// New creates a new cache with the given TTL and cleanup interval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value in the cache with default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// GetOrLoad returns the cached value for key or stores the result of load.
// Errors are not cached.
func (c *Cache) GetOrLoad(key string, load func() (any, error)) (any, bool, error) {
	if v, ok := c.store.Get(key); ok {
		return v, true, nil
	}
	v, err := load()
	if err != nil {
		return nil, false, err
	}
	c.store.Set(key, v, gocache.DefaultExpiration)
	return v, false, nil
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
