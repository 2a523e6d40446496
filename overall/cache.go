package overall

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BuildFunc creates a Metric for a minimum score.
type BuildFunc func(minimumScore float64) (*Metric, error)

// Cache holds one Metric per minimum score. Concurrent Get calls for a score that is
// not cached yet share a single build.
type Cache struct {
	build BuildFunc
	group singleflight.Group

	mu      sync.RWMutex
	metrics map[string]*Metric
}

// NewCache returns an empty Cache that builds metrics with build.
func NewCache(build BuildFunc) *Cache {
	return &Cache{
		build:   build,
		metrics: make(map[string]*Metric),
	}
}

// Get returns the Metric for minimumScore, building it on first use.
// Failed builds are not cached.
func (c *Cache) Get(minimumScore float64) (*Metric, error) {
	key := strconv.FormatFloat(minimumScore, 'g', -1, 64)
	if m, ok := c.lookup(key); ok {
		return m, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if m, ok := c.lookup(key); ok {
			return m, nil
		}
		m, err := c.build(minimumScore)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.metrics[key] = m
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Metric), nil
}

// Len returns the number of cached metrics.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.metrics)
}

func (c *Cache) lookup(key string) (*Metric, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.metrics[key]
	return m, ok
}
