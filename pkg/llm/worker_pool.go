package llm

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// WorkerPoolConfig configures the worker pool.
type WorkerPoolConfig struct {
	MaxConcurrent int // Maximum concurrent LLM-backed calls (default: 4)
}

// DefaultWorkerPoolConfig returns sensible defaults for a single provider deployment.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		MaxConcurrent: 4,
	}
}

// WorkerPool bounds how many LLM-backed calls run at once. Provider rate limits
// apply per deployment, so one pool should be shared by a whole batch.
type WorkerPool struct {
	config WorkerPoolConfig
	logger *zap.Logger
}

// NewWorkerPool creates a worker pool.
func NewWorkerPool(config WorkerPoolConfig, logger *zap.Logger) *WorkerPool {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = DefaultWorkerPoolConfig().MaxConcurrent
	}
	return &WorkerPool{
		config: config,
		logger: logger.Named("llm-worker-pool"),
	}
}

// MaxConcurrent returns the effective concurrency limit.
func (p *WorkerPool) MaxConcurrent() int {
	return p.config.MaxConcurrent
}

// WorkItem is a unit of work; ID is used for logging only.
type WorkItem[T any] struct {
	ID      string
	Execute func(ctx context.Context) (T, error)
}

// WorkResult is the outcome of one WorkItem.
type WorkResult[T any] struct {
	ID     string
	Result T
	Err    error
}

// Process runs every item with bounded parallelism and returns results in
// submission order. A failing item does not stop the others. Items that have not
// started when ctx is done are not executed and report ctx.Err().
func Process[T any](ctx context.Context, pool *WorkerPool, items []WorkItem[T]) []WorkResult[T] {
	if len(items) == 0 {
		return nil
	}

	results := make([]WorkResult[T], len(items))
	sem := make(chan struct{}, pool.config.MaxConcurrent)

	var wg sync.WaitGroup
	for i, item := range items {
		results[i].ID = item.ID

		// Checked before the semaphore so a cancelled batch never starts new work,
		// even when a slot happens to be free.
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		}

		wg.Add(1)
		go func(i int, item WorkItem[T]) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].Result, results[i].Err = item.Execute(ctx)
		}(i, item)
	}
	wg.Wait()

	pool.logger.Debug("Batch complete",
		zap.Int("items", len(items)),
		zap.Int("max_concurrent", pool.config.MaxConcurrent))
	return results
}
