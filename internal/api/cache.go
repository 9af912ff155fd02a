package api

import (
	"sync"
	"time"

	"github.com/mtlprog/hindsight/internal/domain"
)

// DefaultCacheTTL is how long a built history is served without rebuilding.
const DefaultCacheTTL = 10 * time.Minute

type cacheEntry struct {
	history   domain.History
	expiresAt time.Time
}

// historyCache keeps recently built histories keyed by account.
// A zero TTL disables caching.
type historyCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newHistoryCache(ttl time.Duration) *historyCache {
	return &historyCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *historyCache) get(account string) (domain.History, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[account]
	if !ok || c.now().After(entry.expiresAt) {
		return domain.History{}, false
	}
	return entry.history, true
}

func (c *historyCache) set(account string, h domain.History) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[account] = cacheEntry{
		history:   h,
		expiresAt: now.Add(c.ttl),
	}
}
