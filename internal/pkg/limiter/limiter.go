// Package limiter counts requests per key in fixed windows.
package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/portfolio-site/core/internal/pkg/redis"
)

// Store increments the counter for key in the current window and reports
// the count and time until the window resets.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, reset time.Duration, err error)
}

// RedisStore shares counters across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Store backed by Redis keys under prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return s.client.IncrWindow(ctx, s.prefix+key, window)
}

type bucket struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++

	// prune expired windows so idle keys don't accumulate
	if len(s.buckets) > 1024 {
		for k, other := range s.buckets {
			if !now.Before(other.resetAt) {
				delete(s.buckets, k)
			}
		}
	}

	return b.count, b.resetAt.Sub(now), nil
}
