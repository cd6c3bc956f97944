package matmul

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Clock supplies the instants a benchmark run is measured between.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. time.Now carries a monotonic reading, so
// differences between two readings are immune to wall clock adjustments.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Speedup compares the mean sequential time with the mean parallel time.
// Defined is false when the parallel mean measured as zero, in which case
// Ratio and ImprovementPct are left at zero.
type Speedup struct {
	Ratio          float64
	ImprovementPct float64
	Defined        bool
}

// ComputeSpeedup returns sequential/parallel and the improvement
// (ratio-1)*100 in percent.
func ComputeSpeedup(sequential, parallel time.Duration) Speedup {
	if parallel <= 0 {
		return Speedup{}
	}
	ratio := float64(sequential) / float64(parallel)
	return Speedup{
		Ratio:          ratio,
		ImprovementPct: (ratio - 1) * 100,
		Defined:        true,
	}
}

// String returns a formatted string representation of the speedup.
func (s Speedup) String() string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.3fx (%+.2f%%)", s.Ratio, s.ImprovementPct)
}

// Result holds everything a benchmark run produced, for display or reports.
type Result struct {
	A, B       *Matrix
	Sequential *Matrix // C computed on one goroutine
	Parallel   *Matrix // C computed by the parallel multiplier

	SequentialMean time.Duration
	ParallelMean   time.Duration
	Speedup        Speedup

	Iterations       int
	ThreadsRequested int
	ThreadsUsed      int
	Executor         string
	Verified         bool
	Host             HostInfo
}

// Harness times the sequential multiplier against a ParallelMultiplier.
type Harness struct {
	clock      Clock
	multiplier *ParallelMultiplier
	logger     zerolog.Logger
	verify     bool
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithClock replaces the clock used for timing.
func WithClock(clock Clock) HarnessOption {
	return func(h *Harness) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithMultiplier sets the parallel multiplier under test.
func WithMultiplier(p *ParallelMultiplier) HarnessOption {
	return func(h *Harness) {
		if p != nil {
			h.multiplier = p
		}
	}
}

// WithHarnessLogger sets the logger used for per-phase diagnostics.
func WithHarnessLogger(logger zerolog.Logger) HarnessOption {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithVerify makes Run compare the warm-up results of both multipliers and
// fail with ErrVerification unless they are identical.
func WithVerify(verify bool) HarnessOption {
	return func(h *Harness) {
		h.verify = verify
	}
}

// NewHarness creates a harness using the system clock and a parallel
// multiplier on fresh goroutines unless options say otherwise.
func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{
		clock:      SystemClock{},
		multiplier: NewParallelMultiplier(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run multiplies A × B once with each multiplier as a warm-up, then times
// iterations sequential runs followed by iterations parallel runs and
// reports the mean of each.
//
// ctx is checked between runs only; a multiplication that has started
// always completes.
func (h *Harness) Run(ctx context.Context, a, b *Matrix, iterations, threads int) (*Result, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadIterations, iterations)
	}
	seq, err := New(a.rows, b.cols)
	if err != nil {
		return nil, err
	}
	par, err := New(a.rows, b.cols)
	if err != nil {
		return nil, err
	}

	if err := MultiplyInto(a, b, seq); err != nil {
		return nil, err
	}
	used, err := h.multiplier.MultiplyInto(a, b, par, threads)
	if err != nil {
		return nil, err
	}
	if h.verify {
		if diff, _ := seq.maxAbsDiff(par); !seq.Equal(par, 0) {
			return nil, fmt.Errorf("%w: parallel result differs from sequential by %g", ErrVerification, diff)
		}
		h.logger.Debug().Msg("parallel result matches sequential result")
	}

	seqTotal, err := h.measure(ctx, iterations, func() error {
		return MultiplyInto(a, b, seq)
	})
	if err != nil {
		return nil, fmt.Errorf("sequential phase: %w", err)
	}
	parTotal, err := h.measure(ctx, iterations, func() error {
		_, err := h.multiplier.MultiplyInto(a, b, par, threads)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("parallel phase: %w", err)
	}

	res := &Result{
		A:                a,
		B:                b,
		Sequential:       seq,
		Parallel:         par,
		SequentialMean:   seqTotal / time.Duration(iterations),
		ParallelMean:     parTotal / time.Duration(iterations),
		Iterations:       iterations,
		ThreadsRequested: threads,
		ThreadsUsed:      used,
		Executor:         h.multiplier.Executor().Name(),
		Verified:         h.verify,
		Host:             DetectHost(),
	}
	res.Speedup = ComputeSpeedup(res.SequentialMean, res.ParallelMean)

	h.logger.Debug().
		Dur("sequential_mean", res.SequentialMean).
		Dur("parallel_mean", res.ParallelMean).
		Int("threads", used).
		Stringer("speedup", res.Speedup).
		Msg("benchmark finished")
	return res, nil
}

// measure runs fn iterations times and returns the summed elapsed time.
func (h *Harness) measure(ctx context.Context, iterations int, fn func() error) (time.Duration, error) {
	// Force GC before timing
	runtime.GC()

	var total time.Duration
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := h.clock.Now()
		if err := fn(); err != nil {
			return 0, err
		}
		total += h.clock.Now().Sub(start)
	}
	return total, nil
}
