package engagement

import (
	"context"
	"sync"
	"time"
)

type statsEntry struct {
	stats   ChannelStats
	expires time.Time
}

// CachingStatsSource wraps another StatsSource with a TTL-based in-memory
// cache. Channel stats tolerate slight staleness, so dashboards served within
// the TTL skip the four aggregate queries.
type CachingStatsSource struct {
	base StatsSource
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]statsEntry
}

// NewCachingStatsSource returns a StatsSource that caches computed stats for
// the provided TTL.
func NewCachingStatsSource(base StatsSource, ttl time.Duration) *CachingStatsSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingStatsSource{
		base:  base,
		ttl:   ttl,
		items: make(map[string]statsEntry),
	}
}

// ChannelStats returns cached stats when fresh, otherwise it delegates to the
// underlying source and stores the result.
func (c *CachingStatsSource) ChannelStats(ctx context.Context, ownerID string) (ChannelStats, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[ownerID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.stats, nil
	}

	stats, err := c.base.ChannelStats(ctx, ownerID)
	if err != nil {
		return ChannelStats{}, err
	}

	c.mu.Lock()
	c.items[ownerID] = statsEntry{stats: stats, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return stats, nil
}

// Invalidate drops a channel's cached entry, forcing the next read to
// recompute.
func (c *CachingStatsSource) Invalidate(ownerID string) {
	c.mu.Lock()
	delete(c.items, ownerID)
	c.mu.Unlock()
}

var _ StatsSource = (*CachingStatsSource)(nil)
