package matmul

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ParallelMultiplier computes C = A × B by giving each worker a disjoint,
// contiguous range of C's rows. A and B are only read, and no two workers
// write the same row, so the only synchronization is the executor's barrier.
type ParallelMultiplier struct {
	exec   Executor
	logger zerolog.Logger
}

// Option configures a ParallelMultiplier.
type Option func(*ParallelMultiplier)

// WithExecutor selects how workers are run. The default is SpawnExecutor.
func WithExecutor(exec Executor) Option {
	return func(p *ParallelMultiplier) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *ParallelMultiplier) {
		p.logger = logger
	}
}

// NewParallelMultiplier creates a multiplier with the given options.
func NewParallelMultiplier(opts ...Option) *ParallelMultiplier {
	p := &ParallelMultiplier{
		exec:   SpawnExecutor{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Executor returns the executor workers are dispatched through.
func (p *ParallelMultiplier) Executor() Executor { return p.exec }

// MultiplyInto computes C = A × B with up to threads workers, overwriting c,
// and returns the number of workers actually used (see EffectiveThreads).
// Shapes are validated before any worker starts. C is complete when
// MultiplyInto returns without error.
//
// If the configured executor cannot start its workers, the call is retried
// once on fresh goroutines before ErrWorkerSpawn is returned.
func (p *ParallelMultiplier) MultiplyInto(a, b, c *Matrix, threads int) (int, error) {
	if err := checkShapes(a, b, c); err != nil {
		return 0, err
	}
	ranges, err := Partition(a.rows, threads)
	if err != nil {
		return 0, err
	}

	p.logger.Debug().
		Str("executor", p.exec.Name()).
		Int("requested", threads).
		Int("threads", len(ranges)).
		Ints("rows", lo.Map(ranges, func(r RowRange, _ int) int { return r.Len() })).
		Msg("dispatching row ranges")

	task := func(r RowRange) {
		multiplyRows(a, b, c, r.Start, r.End)
	}
	err = p.exec.Run(ranges, task)
	if errors.Is(err, ErrWorkerSpawn) {
		if _, fresh := p.exec.(SpawnExecutor); !fresh {
			p.logger.Warn().Err(err).Str("executor", p.exec.Name()).
				Msg("executor refused work, falling back to fresh goroutines")
			err = SpawnExecutor{}.Run(ranges, task)
		}
	}
	if err != nil {
		return 0, err
	}
	return len(ranges), nil
}

// Multiply computes C = A × B into a newly allocated matrix.
func (p *ParallelMultiplier) Multiply(a, b *Matrix, threads int) (*Matrix, int, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, 0, err
	}
	c, err := New(a.rows, b.cols)
	if err != nil {
		return nil, 0, err
	}
	used, err := p.MultiplyInto(a, b, c, threads)
	if err != nil {
		return nil, 0, err
	}
	return c, used, nil
}

// MultiplyParallel computes C = A × B on fresh goroutines, one per row range.
func MultiplyParallel(a, b, c *Matrix, threads int) (int, error) {
	return NewParallelMultiplier().MultiplyInto(a, b, c, threads)
}
