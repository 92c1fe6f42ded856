package repositories

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shashiranjanraj/teahouse/app/models"
	"github.com/shashiranjanraj/teahouse/pkg/metrics"
)

// AllOrdersKey is the cache key holding the full listing.
const AllOrdersKey = "teahouse:orders:all"

// Cacher is the subset of pkg/cache.Redis the decorator needs.
type Cacher interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedOrderStore caches the listing of another store and drops the cached
// copy after every successful Create. Cache failures are logged and fall
// through to the wrapped store; they never fail a request.
//
// A listing read from the wrapped store is only written back when no Create
// invalidated the key while it was being read. After a failed invalidation
// the cache is bypassed until a later delete succeeds.
type CachedOrderStore struct {
	next  OrderStore
	cache Cacher
	ttl   time.Duration
	log   *slog.Logger

	mu    sync.Mutex // serializes invalidation with write-back
	gen   atomic.Uint64
	stale atomic.Bool
}

func NewCachedOrderStore(next OrderStore, cache Cacher, ttl time.Duration, log *slog.Logger) *CachedOrderStore {
	if log == nil {
		log = slog.Default()
	}
	return &CachedOrderStore{next: next, cache: cache, ttl: ttl, log: log}
}

func (s *CachedOrderStore) Backend() string { return s.next.Backend() }

func (s *CachedOrderStore) Create(ctx context.Context, order models.Order) (models.Order, error) {
	created, err := s.next.Create(ctx, order)
	if err != nil {
		return created, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen.Add(1)
	if err := s.cache.Del(ctx, AllOrdersKey); err != nil {
		s.stale.Store(true)
		s.log.Warn("orders cache: invalidate failed, bypassing cache", "error", err)
	}
	return created, nil
}

func (s *CachedOrderStore) All(ctx context.Context) ([]models.Order, error) {
	if !s.usable(ctx) {
		metrics.CacheLookups.WithLabelValues("bypass").Inc()
		return s.next.All(ctx)
	}

	gen := s.gen.Load()

	var cached []models.Order
	hit, err := s.cache.Get(ctx, AllOrdersKey, &cached)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("orders cache: read failed", "error", err)
	case hit:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	orders, err := s.next.All(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen.Load() != gen || s.stale.Load() {
		return orders, nil
	}
	if err := s.cache.Set(ctx, AllOrdersKey, orders, s.ttl); err != nil {
		s.log.Warn("orders cache: write failed", "error", err)
	}
	return orders, nil
}

// usable reports whether the cache may be read. A stale cache becomes
// usable again once the listing key is deleted.
func (s *CachedOrderStore) usable(ctx context.Context) bool {
	if !s.stale.Load() {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stale.Load() {
		return true
	}
	if err := s.cache.Del(ctx, AllOrdersKey); err != nil {
		return false
	}
	s.stale.Store(false)
	s.log.Info("orders cache: invalidation recovered")
	return true
}
