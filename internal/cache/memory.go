package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// MemoryTokenCache keeps access tokens in-process. Entries vanish on
// restart, which is acceptable: the cache is an optimization for token
// checks, not the durable session record.
type MemoryTokenCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{entries: map[string]entry{}}
}

func cacheKey(userID string, deviceID string) string {
	return userID + ":" + deviceID
}

func (c *MemoryTokenCache) Save(ctx context.Context, userID string, deviceID string, token string, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[cacheKey(userID, deviceID)] = entry{
		token:     token,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryTokenCache) Get(ctx context.Context, userID string, deviceID string) (string, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[cacheKey(userID, deviceID)]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.token, true, nil
}

func (c *MemoryTokenCache) Remove(ctx context.Context, userID string, deviceID string) error {
	c.mu.Lock()
	delete(c.entries, cacheKey(userID, deviceID))
	c.mu.Unlock()
	return nil
}

// StartCleanupTicker sweeps expired entries until ctx is cancelled.
func (c *MemoryTokenCache) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := c.sweep(time.Now())
			if removed > 0 {
				slog.Debug("token cache sweep", "removed", removed)
			}
		}
	}
}

func (c *MemoryTokenCache) sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
