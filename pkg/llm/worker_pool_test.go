package llm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWorkerPool_Process_PreservesOrder(t *testing.T) {
	pool := NewWorkerPool(WorkerPoolConfig{MaxConcurrent: 3}, zap.NewNop())

	items := make([]WorkItem[string], 5)
	for i := range items {
		i := i
		items[i] = WorkItem[string]{
			ID: fmt.Sprintf("task%d", i),
			Execute: func(ctx context.Context) (string, error) {
				// Later items finish first.
				time.Sleep(time.Duration(5-i) * time.Millisecond)
				return fmt.Sprintf("result%d", i), nil
			},
		}
	}

	results := Process(context.Background(), pool, items)

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("task %s failed: %v", r.ID, r.Err)
		}
		if want := fmt.Sprintf("result%d", i); r.Result != want || r.ID != fmt.Sprintf("task%d", i) {
			t.Errorf("results[%d] = %s/%s, want task%d/%s", i, r.ID, r.Result, i, want)
		}
	}
}

func TestWorkerPool_Process_WithErrors(t *testing.T) {
	pool := NewWorkerPool(WorkerPoolConfig{MaxConcurrent: 2}, zap.NewNop())

	expectedErr := errors.New("task failed")
	items := []WorkItem[string]{
		{ID: "task1", Execute: func(ctx context.Context) (string, error) { return "result1", nil }},
		{ID: "task2", Execute: func(ctx context.Context) (string, error) { return "", expectedErr }},
		{ID: "task3", Execute: func(ctx context.Context) (string, error) { return "result3", nil }},
	}

	results := Process(context.Background(), pool, items)

	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("task1 and task3 should succeed, got %v / %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, expectedErr) {
		t.Errorf("task2 should fail with expectedErr, got: %v", results[1].Err)
	}
}

func TestWorkerPool_Process_EmptyItems(t *testing.T) {
	pool := NewWorkerPool(WorkerPoolConfig{MaxConcurrent: 2}, zap.NewNop())

	if results := Process[int](context.Background(), pool, nil); results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

func TestWorkerPool_Process_BoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(WorkerPoolConfig{MaxConcurrent: 2}, zap.NewNop())

	var running, peak int32
	items := make([]WorkItem[int], 8)
	for i := range items {
		items[i] = WorkItem[int]{
			ID: fmt.Sprintf("task%d", i),
			Execute: func(ctx context.Context) (int, error) {
				n := atomic.AddInt32(&running, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return 0, nil
			},
		}
	}

	Process(context.Background(), pool, items)

	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Errorf("expected at most 2 concurrent items, saw %d", got)
	}
}

func TestWorkerPool_Process_CancelledContextSkipsWork(t *testing.T) {
	pool := NewWorkerPool(WorkerPoolConfig{MaxConcurrent: 2}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	items := []WorkItem[int]{
		{ID: "a", Execute: func(ctx context.Context) (int, error) { atomic.AddInt32(&executed, 1); return 1, nil }},
		{ID: "b", Execute: func(ctx context.Context) (int, error) { atomic.AddInt32(&executed, 1); return 2, nil }},
	}

	results := Process(ctx, pool, items)

	if executed != 0 {
		t.Errorf("expected no items to run, %d ran", executed)
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("item %s: expected context.Canceled, got %v", r.ID, r.Err)
		}
	}
}

func TestNewWorkerPool_DefaultsConcurrency(t *testing.T) {
	pool := NewWorkerPool(WorkerPoolConfig{}, zap.NewNop())
	if pool.MaxConcurrent() != DefaultWorkerPoolConfig().MaxConcurrent {
		t.Errorf("expected default concurrency, got %d", pool.MaxConcurrent())
	}
}
