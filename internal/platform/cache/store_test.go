package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", time.Minute, loader)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if got, _ := v.(string); got != "value" {
				t.Errorf("unexpected value: %v", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", time.Minute, loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", time.Minute, loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	wantErr := errors.New("load failed")

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, wantErr
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", time.Minute, loader); !errors.Is(err, wantErr) {
		t.Fatalf("expected load error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", time.Minute, loader)
	if err != nil {
		t.Fatalf("retry after error should load: %v", err)
	}
	if v != "recovered" {
		t.Fatalf("unexpected value after retry: %v", v)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	store.SetTTL(ctx, "k", "v", 30*time.Second)

	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatalf("entry should be present before expiry")
	}

	now = now.Add(31 * time.Second)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("entry should expire after its TTL")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "matches:list:football", 1)
	store.Set(ctx, "matches:key:abc", 2)
	store.Set(ctx, "prediction:abc", 3)

	store.DeletePrefix(ctx, "matches:")

	if _, ok := store.Get(ctx, "matches:list:football"); ok {
		t.Fatalf("prefixed entry should be deleted")
	}
	if _, ok := store.Get(ctx, "matches:key:abc"); ok {
		t.Fatalf("prefixed entry should be deleted")
	}
	if _, ok := store.Get(ctx, "prediction:abc"); !ok {
		t.Fatalf("unrelated entry should survive")
	}
}
