package cache

import (
	"context"
	"sync"
	"time"

	"flightnum-service/internal/models"
)

// MemoryCache is a process-local Cache with the same lazy-staleness
// semantics as the Redis backend. It serves cache-disabled runs and tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	window  time.Duration
	now     func() time.Time
}

func NewMemoryCache(window time.Duration) *MemoryCache {
	if window <= 0 {
		window = ValidityWindow
	}
	return &MemoryCache{
		entries: make(map[string]Entry),
		window:  window,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]models.FlightResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().UnixMilli()-entry.Timestamp > c.window.Milliseconds() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	out := make([]models.FlightResult, len(entry.Data))
	copy(out, entry.Data)
	return out, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, flights []models.FlightResult) error {
	data := make([]models.FlightResult, len(flights))
	copy(data, flights)

	c.mu.Lock()
	c.entries[key] = Entry{Timestamp: c.now().UnixMilli(), Data: data}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

// NoOpCache disables caching entirely: every read misses, every write is
// dropped.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key string) ([]models.FlightResult, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, key string, flights []models.FlightResult) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
