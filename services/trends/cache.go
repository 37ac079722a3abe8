package trends

import (
	"sync"
	"time"

	"twoknow/models"
)

type cacheEntry struct {
	storedAt time.Time
	points   []models.HistoricalPoint
}

// Cache holds historical series for a fixed TTL.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	metrics *Metrics
	now     func() time.Time
}

func NewCache(ttl time.Duration, metrics *Metrics) *Cache {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		metrics: metrics,
		now:     time.Now,
	}
}

// Get returns the cached series for key. Expired entries are evicted and
// count as a miss.
func (c *Cache) Get(key string) ([]models.HistoricalPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.metrics.Inc(MetricCacheMisses)
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		c.metrics.Inc(MetricCacheMisses)
		return nil, false
	}
	c.metrics.Inc(MetricCacheHits)
	return entry.points, true
}

func (c *Cache) Set(key string, points []models.HistoricalPoint) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{storedAt: c.now(), points: points}
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
