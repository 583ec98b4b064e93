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
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "teams_39_2024", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errUnexpectedValue
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("expected reload to succeed, got v=%v err=%v", v, err)
	}
}

func TestStore_SetUntil_UsesEarliestExpiry(t *testing.T) {
	store := NewStore(10 * time.Second)
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.SetUntil("short", "a", now.Add(2*time.Second))
	store.SetUntil("long", "b", now.Add(time.Hour))

	now = now.Add(3 * time.Second)
	if _, ok := store.Get("short"); ok {
		t.Fatalf("expected short entry to expire at its own deadline")
	}
	if _, ok := store.Get("long"); !ok {
		t.Fatalf("expected long entry to survive until store ttl")
	}

	now = now.Add(10 * time.Second)
	if _, ok := store.Get("long"); ok {
		t.Fatalf("expected long entry to expire at store ttl")
	}
}

func TestStore_PurgeExpired(t *testing.T) {
	store := NewStore(0)
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.SetUntil("stale", 1, now.Add(-time.Second))
	store.SetUntil("fresh", 2, now.Add(time.Minute))
	store.Set("forever", 3)

	if removed := store.PurgeExpired(); removed != 1 {
		t.Fatalf("expected 1 purged entry, got %d", removed)
	}
	if got := store.Len(); got != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
