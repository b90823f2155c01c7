package products

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueryCacheServesFreshWithoutRefetch(t *testing.T) {
	cache := newQueryCache(nil, nil)
	var fetches int32
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&fetches, 1)
		return "value", nil
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		value, err := cache.get(ctx, "key", time.Minute, fetch)
		if err != nil || value != "value" {
			t.Fatalf("unexpected result %v %v", value, err)
		}
	}
	if fetches != 1 {
		t.Fatalf("expected one fetch, got %d", fetches)
	}
}

func TestQueryCacheServesStaleImmediately(t *testing.T) {
	cache := newQueryCache(nil, nil)
	current := time.Unix(1000, 0)
	cache.now = func() time.Time { return current }

	cache.store("key", "old", current)
	current = current.Add(10 * time.Minute)

	done := make(chan struct{})
	value, err := cache.get(context.Background(), "key", time.Minute, func(context.Context) (any, error) {
		defer close(done)
		return "new", nil
	})
	if err != nil || value != "old" {
		t.Fatalf("stale value must be served immediately, got %v %v", value, err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("background refresh never ran")
	}
}

func TestQueryCacheSupersededFetchDoesNotOverwrite(t *testing.T) {
	cache := newQueryCache(nil, nil)
	current := time.Unix(1000, 0)
	cache.now = func() time.Time { return current }

	slowStart := current
	current = current.Add(time.Second)
	cache.store("key", "fresh", current)

	// A fetch that started before the fresh write must not clobber it.
	cache.store("key", "slow", slowStart)

	value, err := cache.get(context.Background(), "key", time.Minute, func(context.Context) (any, error) {
		t.Fatalf("no fetch expected")
		return nil, nil
	})
	if err != nil || value != "fresh" {
		t.Fatalf("expected the fresher value to survive, got %v %v", value, err)
	}
}
