package storage

import (
	"sync"
	"time"
)

// PerformanceStore tracks per-resource fetch timestamps and in-flight flags.
// Purely in-memory bookkeeping for cache freshness decisions.
type PerformanceStore struct {
	mu         sync.RWMutex
	lastUpdate map[string]time.Time
	loading    map[string]bool

	now func() time.Time
}

func NewPerformanceStore() *PerformanceStore {
	return &PerformanceStore{
		lastUpdate: make(map[string]time.Time),
		loading:    make(map[string]bool),
		now:        time.Now,
	}
}

// Touch records that the resource was just fetched.
func (s *PerformanceStore) Touch(resource string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdate[resource] = s.now()
}

func (s *PerformanceStore) LastUpdate(resource string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.lastUpdate[resource]
	return at, ok
}

// IsExpired reports whether the resource is older than ttl. A resource never
// touched is always expired.
func (s *PerformanceStore) IsExpired(resource string, ttl time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.lastUpdate[resource]
	if !ok {
		return true
	}
	return s.now().Sub(at) > ttl
}

func (s *PerformanceStore) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loading {
		s.loading[resource] = true
	} else {
		delete(s.loading, resource)
	}
}

func (s *PerformanceStore) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[resource]
}
