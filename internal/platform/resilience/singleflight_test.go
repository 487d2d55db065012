package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions int32
	var shared int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, wasShared := g.Do("scoreboard/soccer-men/d1", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(100 * time.Millisecond)
				return "board", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if val != "board" {
				t.Errorf("unexpected value: %v", val)
			}
			if wasShared {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
	if got := atomic.LoadInt32(&shared); got != workers-1 {
		t.Fatalf("expected %d shared results, got %d", workers-1, got)
	}
}

func TestSingleFlight_KeyForgottenAfterCompletion(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions int

	for i := 0; i < 3; i++ {
		_, err, wasShared := g.Do("boxscore/12345", func() (any, error) {
			executions++
			return nil, nil
		})
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if wasShared {
			t.Fatalf("sequential call %d should not be shared", i)
		}
	}
	if executions != 3 {
		t.Fatalf("expected 3 executions, got %d", executions)
	}
}

func TestSingleFlight_SharesErrors(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	wantErr := errors.New("upstream unavailable")

	_, err, _ := g.Do("pbp/12345", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
