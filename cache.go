package pubadmin

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eringen/pubadmin/model"
)

// StatsCache is an in-memory cache of the dashboard counts with TTL.
// Concurrent misses share one fetch, and no lock is held while it runs.
type StatsCache struct {
	mu      sync.RWMutex
	stats   model.DashboardStats
	loaded  bool
	fetched time.Time
	gen     uint64
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
}

// NewStatsCache creates a StatsCache whose entry expires after ttl.
func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{ttl: ttl, now: time.Now}
}

func (c *StatsCache) valid() bool {
	return c.loaded && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load. A fetch
// already in flight is not stored.
func (c *StatsCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.gen++
	c.mu.Unlock()
}

// Get returns the cached counts, calling fetch when the entry is missing or
// stale. Callers arriving during a fetch wait for it, or for their own ctx.
// Failed fetches are not cached.
func (c *StatsCache) Get(ctx context.Context, fetch func(context.Context) (model.DashboardStats, error)) (model.DashboardStats, error) {
	c.mu.RLock()
	if c.valid() {
		stats := c.stats
		c.mu.RUnlock()
		return stats, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		stats, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.stats = stats
			c.loaded = true
			c.fetched = c.now()
		}
		c.mu.Unlock()
		return stats, nil
	})
	select {
	case <-ctx.Done():
		return model.DashboardStats{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.DashboardStats{}, res.Err
		}
		return res.Val.(model.DashboardStats), nil
	}
}
