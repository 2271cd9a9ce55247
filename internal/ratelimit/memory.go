package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Store is the counter backend used to rate limit GraphQL clients.
type Store interface {
	// Increment atomically increments the counter for a key, creating it
	// with the given expiration when absent or expired, and returns the
	// new count.
	Increment(ctx context.Context, key string, expiration time.Duration) (int64, error)

	// Reset removes the counter for a key.
	Reset(ctx context.Context, key string) error

	Close() error
}

// MemoryStore implements Store with in-process storage. Counts are
// per-instance; multi-instance deployments need a shared backend.
type MemoryStore struct {
	mu         sync.Mutex
	data       map[string]*entry
	gcInterval time.Duration
	stopCh     chan struct{}
	stopped    int32
}

type entry struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory rate limit store. gcInterval
// controls how often expired counters are swept.
func NewMemoryStore(gcInterval time.Duration) *MemoryStore {
	if gcInterval <= 0 {
		gcInterval = 10 * time.Minute
	}

	store := &MemoryStore{
		data:       make(map[string]*entry),
		gcInterval: gcInterval,
		stopCh:     make(chan struct{}),
	}
	go store.gc()
	return store
}

// Increment atomically increments the counter for a key.
func (s *MemoryStore) Increment(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, exists := s.data[key]
	if !exists || now.After(e.expiresAt) {
		s.data[key] = &entry{count: 1, expiresAt: now.Add(expiration)}
		return 1, nil
	}

	e.count++
	return e.count, nil
}

// Reset removes the counter for a key.
func (s *MemoryStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Close stops the garbage collection goroutine.
func (s *MemoryStore) Close() error {
	if !atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		return nil
	}
	close(s.stopCh)
	return nil
}

func (s *MemoryStore) gc() {
	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, key)
		}
	}
}
