package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/platform/resilience"
)

type item struct {
	val      any
	deadline time.Time
}

func (it item) live(at time.Time) bool {
	return it.deadline.IsZero() || it.deadline.After(at)
}

// Store is an in-process TTL cache. Entries carry their own TTL so callers
// can keep volatile data (live odds) on a much shorter leash than settled
// data (finished results).
type Store struct {
	mu         sync.RWMutex
	items      map[string]item
	defaultTTL time.Duration
	flight     resilience.SingleFlight
	now        func() time.Time
}

func NewStore(defaultTTL time.Duration) *Store {
	return &Store{
		items:      map[string]item{},
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()

	switch {
	case !ok:
		return nil, false
	case it.live(s.now()):
		return it.val, true
	default:
		// Expired entries are reaped lazily on read.
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false
	}
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetTTL(ctx, key, value, s.defaultTTL)
}

func (s *Store) SetTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}

	it := item{val: value}
	if ttl > 0 {
		it.deadline = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
}

// GetOrLoad returns the cached value for key, or runs loader once for
// concurrent callers and caches the result with ttl.
func (s *Store) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if hit, ok := s.Get(ctx, key); ok {
		return hit, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// A concurrent loader may have filled the slot while we queued.
		if hit, ok := s.Get(ctx, key); ok {
			return hit, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.SetTTL(ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
