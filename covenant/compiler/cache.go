package compiler

import (
	"sync"
	"time"
)

// artifactCache memoizes compilation results per contract and source so
// repeated deploys of the same source skip the pipeline.
type artifactCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

type cacheEntry struct {
	result    *Result
	timestamp time.Time
}

func newArtifactCache() *artifactCache {
	return &artifactCache{
		cache: make(map[string]*cacheEntry),
		ttl:   time.Hour,
	}
}

func (c *artifactCache) Get(key string) *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[key]
	if !ok {
		return nil
	}

	if time.Since(entry.timestamp) > c.ttl {
		return nil
	}

	return entry.result
}

func (c *artifactCache) Put(key string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = &cacheEntry{
		result:    result,
		timestamp: time.Now(),
	}

	// Simple eviction: remove old entries
	if len(c.cache) > 1000 {
		c.evictOld()
	}
}

func (c *artifactCache) evictOld() {
	cutoff := time.Now().Add(-c.ttl)

	for key, entry := range c.cache {
		if entry.timestamp.Before(cutoff) {
			delete(c.cache, key)
		}
	}
}
