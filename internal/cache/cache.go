// Package cache provides the TTL result cache that memoizes analysis
// computations. It is an explicit dependency handed to services, not a
// process-wide singleton: a read either returns the last cached value
// or signals the caller to recompute, so the cache never changes what a
// computation produces, only when it runs.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// entry is one cached result with its expiry.
type entry struct {
	value    any
	cachedAt time.Time
	expires  time.Time
}

// ResultCache memoizes computation results keyed by operation identity
// plus arguments. Entries expire after the configured TTL; staleness
// triggers recomputation by the caller.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	maxSize int

	hits   int64
	misses int64
	stop   chan struct{}
	once   sync.Once
}

// New creates a result cache with the given TTL and entry limit, and
// starts a background sweep of expired entries. Call Stop on shutdown.
func New(ttl time.Duration, maxSize int) *ResultCache {
	c := &ResultCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Key builds a cache key from an operation name and its arguments.
func Key(op string, args ...any) string {
	var b strings.Builder
	b.WriteString(op)
	for _, a := range args {
		b.WriteByte('|')
		fmt.Fprintf(&b, "%v", a)
	}
	return b.String()
}

// Get returns the cached value for key when present and fresh.
func (c *ResultCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		c.misses++
		return nil, false
	}
	c.hits++
	return e.value, true
}

// Set stores a value under key with the cache TTL, evicting the oldest
// entry when the size limit is reached.
func (c *ResultCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize <= 0 {
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	now := time.Now()
	c.entries[key] = entry{value: value, cachedAt: now, expires: now.Add(c.ttl)}
}

// Invalidate removes a single entry.
func (c *ResultCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Stats reports cache effectiveness counters.
func (c *ResultCache) Stats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(c.hits) / float64(total)
	}
	return map[string]any{
		"entries":     len(c.entries),
		"max_size":    c.maxSize,
		"hit_count":   c.hits,
		"miss_count":  c.misses,
		"hit_ratio":   ratio,
		"ttl_seconds": c.ttl.Seconds(),
	}
}

// Stop terminates the background sweep. Safe to call more than once.
func (c *ResultCache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *ResultCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.cachedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *ResultCache) sweep() {
	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				if now.After(e.expires) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
