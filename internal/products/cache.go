package products

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/metrics"
)

// Freshness windows per query family.
const (
	ttlList            = 5 * time.Minute
	ttlDetail          = 10 * time.Minute
	ttlFeatured        = 15 * time.Minute
	ttlCategories      = 30 * time.Minute
	ttlSearch          = 2 * time.Minute
	ttlRecommendations = 15 * time.Minute
	ttlAvailability    = 1 * time.Minute
	ttlResolvedSets    = 5 * time.Minute
)

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// queryCache is a TTL cache over query results, keyed by the full parameter
// set. Stale entries are served while a background refresh replaces them;
// concurrent fetches of one key are deduplicated; and a fetch that was
// superseded while in flight never overwrites fresher data.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
	now     func() time.Time
	log     *logger.Logger
	metrics *metrics.ClientMetrics
}

func newQueryCache(log *logger.Logger, m *metrics.ClientMetrics) *queryCache {
	return &queryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
		log:     log,
		metrics: m,
	}
}

type fetchFunc func(ctx context.Context) (any, error)

// get returns the cached value for key if present, fetching on a miss. A
// present-but-stale entry is returned immediately and refreshed in the
// background.
func (c *queryCache) get(ctx context.Context, key string, ttl time.Duration, fetch fetchFunc) (any, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	var age time.Duration
	if ok {
		age = c.now().Sub(entry.fetchedAt)
	}
	c.mu.Unlock()

	switch {
	case ok && age <= ttl:
		c.observe("hit")
		return entry.value, nil
	case ok:
		c.observe("stale")
		go c.refresh(key, fetch)
		return entry.value, nil
	default:
		c.observe("miss")
		return c.fill(ctx, key, fetch)
	}
}

// fill fetches through singleflight and stores the result.
func (c *queryCache) fill(ctx context.Context, key string, fetch fetchFunc) (any, error) {
	started := c.now()
	value, err, _ := c.group.Do(key, func() (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.store(key, value, started)
	return value, nil
}

// refresh re-fetches a stale key off the request path. Failures keep the
// stale entry; it is still better than nothing.
func (c *queryCache) refresh(key string, fetch fetchFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	started := c.now()
	value, err, _ := c.group.Do(key, func() (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		if c.log != nil {
			c.log.WarnErr(c.log.WithQueryKey(ctx, key), "background refresh failed", err)
		}
		return
	}
	c.store(key, value, started)
}

// store writes a fetch result unless a fresher write landed while the fetch
// was in flight.
func (c *queryCache) store(key string, value any, started time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok && existing.fetchedAt.After(started) {
		return
	}
	c.entries[key] = cacheEntry{value: value, fetchedAt: c.now()}
}

func (c *queryCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *queryCache) observe(result string) {
	if c.metrics != nil {
		c.metrics.IncCacheLookup(result)
	}
}

// cached adapts the untyped cache to a concrete result type.
func cached[T any](ctx context.Context, c *queryCache, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	value, err := c.get(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, nil
	}
	return typed, nil
}
