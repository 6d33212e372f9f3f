package scheduler

import (
	"sync"
	"time"
)

// DedupCache suppresses repeat reminders for the same cell inside a rolling
// window. It is injected into the scanner rather than shared as a global, so
// concurrent scanners never trample each other's suppression state.
type DedupCache struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
}

// NewDedupCache creates a cache with the given suppression window.
func NewDedupCache(window time.Duration) *DedupCache {
	return &DedupCache{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

// ShouldNotify reports whether a reminder for key may fire at now, and
// records it if so. Expired entries are evicted on access.
func (c *DedupCache) ShouldNotify(key string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, at := range c.seen {
		if now.Sub(at) >= c.window {
			delete(c.seen, k)
		}
	}

	if at, ok := c.seen[key]; ok && now.Sub(at) < c.window {
		return false
	}
	c.seen[key] = now
	return true
}

// Len returns the number of tracked keys.
func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
