package matmul

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/tektwister/ai_engineering/matrix_multiplication_threads/internal/workerpool"
)

// Executor runs one task per row range concurrently and returns only after
// every task has finished. The return is the barrier: all writes made by
// the tasks are visible to the caller afterwards.
type Executor interface {
	Run(ranges []RowRange, task func(RowRange)) error
	Name() string
}

// SpawnExecutor starts a fresh goroutine for every range on each call.
type SpawnExecutor struct{}

// Run implements Executor.
func (SpawnExecutor) Run(ranges []RowRange, task func(RowRange)) error {
	var g errgroup.Group
	for _, r := range ranges {
		g.Go(func() error {
			return guard(r, task)
		})
	}
	return g.Wait()
}

// Name implements Executor.
func (SpawnExecutor) Name() string { return "spawn" }

// guard runs task on r and converts a panic into ErrWorkerFailed.
func guard(r RowRange, task func(RowRange)) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: rows %v: %v", ErrWorkerFailed, r, rec)
		}
	}()
	task(r)
	return nil
}

// PoolExecutor dispatches ranges to a persistent worker pool that is reused
// across calls. Ranges beyond the pool size wait for a free worker.
type PoolExecutor struct {
	pool *workerpool.Pool
}

// NewPoolExecutor starts a pool of the given size; workers <= 0 uses GOMAXPROCS.
// Close must be called to stop the workers.
func NewPoolExecutor(workers int) *PoolExecutor {
	return &PoolExecutor{pool: workerpool.New(workers)}
}

// Run implements Executor. A closed pool yields ErrWorkerSpawn.
func (e *PoolExecutor) Run(ranges []RowRange, task func(RowRange)) error {
	tasks := lo.Map(ranges, func(r RowRange, _ int) func() {
		return func() { task(r) }
	})
	err := e.pool.Run(tasks)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workerpool.ErrClosed):
		return fmt.Errorf("%w: %w", ErrWorkerSpawn, err)
	default:
		return fmt.Errorf("%w: %w", ErrWorkerFailed, err)
	}
}

// Name implements Executor.
func (e *PoolExecutor) Name() string {
	return fmt.Sprintf("pool(%d)", e.pool.NumWorkers())
}

// Workers returns the pool size.
func (e *PoolExecutor) Workers() int { return e.pool.NumWorkers() }

// Close stops the pool's workers. Later Run calls fail with ErrWorkerSpawn.
func (e *PoolExecutor) Close() { e.pool.Close() }
