package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(0)

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for absent key")
	}

	s.Set(ctx, "k", 42)
	v, ok := s.Get(ctx, "k")
	if !ok || v.(int) != 42 {
		t.Fatalf("unexpected get: %v %v", v, ok)
	}

	s.Delete(ctx, "k")
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(10 * time.Millisecond)
	s.Set(ctx, "k", "v")

	if _, ok := s.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(0)
	s.Set(ctx, "players:agg:men", 1)
	s.Set(ctx, "players:agg:women", 2)
	s.Set(ctx, "matches:agg:men", 3)

	s.DeletePrefix(ctx, "players:")
	if _, ok := s.Get(ctx, "players:agg:men"); ok {
		t.Fatal("prefixed key survived DeletePrefix")
	}
	if _, ok := s.Get(ctx, "matches:agg:men"); !ok {
		t.Fatal("unrelated key deleted")
	}
}

func TestStore_GetOrLoad_DeduplicatesLoads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(0)

	var loads int32
	loader := func(context.Context) (any, error) {
		atomic.AddInt32(&loads, 1)
		time.Sleep(5 * time.Millisecond)
		return "value", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.GetOrLoad(ctx, "k", loader)
			if err != nil || v.(string) != "value" {
				t.Errorf("GetOrLoad: %v %v", v, err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Fatalf("expected single load, got %d", n)
	}
}

func TestStore_GetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(0)
	boom := errors.New("boom")

	if _, err := s.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}

	v, err := s.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		return "recovered", nil
	})
	if err != nil || v.(string) != "recovered" {
		t.Fatalf("failed load was cached: %v %v", v, err)
	}
}

func TestStore_NilReceiverIsDisabledCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var s *Store

	s.Set(ctx, "k", 1)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("nil store should never hit")
	}

	var loads int
	for i := 0; i < 2; i++ {
		v, err := s.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
			loads++
			return loads, nil
		})
		if err != nil || v.(int) != loads {
			t.Fatalf("GetOrLoad through nil store: %v %v", v, err)
		}
	}
	if loads != 2 {
		t.Fatalf("nil store must load through every call, got %d loads", loads)
	}
}
