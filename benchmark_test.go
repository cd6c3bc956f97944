package matmul

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stepClock advances by a fixed step on every reading, so every measured
// run takes exactly one step.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

// frozenClock never advances.
type frozenClock struct{}

func (frozenClock) Now() time.Time { return time.Unix(0, 0) }

// idleExecutor reports success without running any task.
type idleExecutor struct{}

func (idleExecutor) Run([]RowRange, func(RowRange)) error { return nil }
func (idleExecutor) Name() string                         { return "idle" }

func TestComputeSpeedup(t *testing.T) {
	s := ComputeSpeedup(300*time.Millisecond, 100*time.Millisecond)
	require.True(t, s.Defined)
	require.InDelta(t, 3.0, s.Ratio, 1e-12)
	require.InDelta(t, 200.0, s.ImprovementPct, 1e-9)
	require.Equal(t, "3.000x (+200.00%)", s.String())

	slower := ComputeSpeedup(100*time.Millisecond, 200*time.Millisecond)
	require.InDelta(t, -50.0, slower.ImprovementPct, 1e-9)
}

func TestComputeSpeedupEqualTimes(t *testing.T) {
	s := ComputeSpeedup(42*time.Microsecond, 42*time.Microsecond)
	require.True(t, s.Defined)
	require.Equal(t, 1.0, s.Ratio)
	require.Equal(t, 0.0, s.ImprovementPct)
}

func TestComputeSpeedupZeroParallelTime(t *testing.T) {
	s := ComputeSpeedup(time.Second, 0)
	require.False(t, s.Defined)
	require.False(t, math.IsInf(s.Ratio, 0) || math.IsNaN(s.Ratio))
	require.Equal(t, "undefined", s.String())
}

func TestHarnessEqualTimingsGiveUnitSpeedup(t *testing.T) {
	a, b, expected := scenarioMatrices(t)
	clock := &stepClock{now: time.Unix(0, 0), step: 5 * time.Millisecond}
	h := NewHarness(WithClock(clock))

	res, err := h.Run(context.Background(), a, b, 4, 2)
	require.NoError(t, err)

	require.Equal(t, 5*time.Millisecond, res.SequentialMean)
	require.Equal(t, 5*time.Millisecond, res.ParallelMean)
	require.True(t, res.Speedup.Defined)
	require.Equal(t, 1.0, res.Speedup.Ratio)
	require.Equal(t, 0.0, res.Speedup.ImprovementPct)

	require.Equal(t, 4, res.Iterations)
	require.Equal(t, 2, res.ThreadsRequested)
	require.Equal(t, 2, res.ThreadsUsed)
	require.Equal(t, "spawn", res.Executor)
	require.Same(t, a, res.A)
	require.Same(t, b, res.B)
	require.True(t, res.Sequential.Equal(expected, 0))
	require.True(t, res.Parallel.Equal(expected, 0))
}

func TestHarnessZeroParallelTimeIsUndefined(t *testing.T) {
	a, b, _ := scenarioMatrices(t)
	res, err := NewHarness(WithClock(frozenClock{})).Run(context.Background(), a, b, 3, 0)
	require.NoError(t, err)
	require.Zero(t, res.ParallelMean)
	require.False(t, res.Speedup.Defined)
	require.Equal(t, 2, res.ThreadsUsed)
}

func TestHarnessRealClock(t *testing.T) {
	a, b := randomPair(t, 5, 32, 32, 32)
	pool := NewPoolExecutor(4)
	defer pool.Close()

	h := NewHarness(
		WithMultiplier(NewParallelMultiplier(WithExecutor(pool))),
		WithVerify(true),
	)
	res, err := h.Run(context.Background(), a, b, 3, 4)
	require.NoError(t, err)
	require.True(t, res.Verified)
	require.Equal(t, "pool(4)", res.Executor)
	require.True(t, res.SequentialMean > 0)
	require.Equal(t, res.Sequential.Data(), res.Parallel.Data())
	require.NoError(t, CrossCheck(a, b, res.Parallel, 1e-9))
}

func TestHarnessVerifyDetectsMismatch(t *testing.T) {
	a, b, _ := scenarioMatrices(t)
	h := NewHarness(
		WithMultiplier(NewParallelMultiplier(WithExecutor(idleExecutor{}))),
		WithVerify(true),
	)
	_, err := h.Run(context.Background(), a, b, 2, 2)
	require.ErrorIs(t, err, ErrVerification)
}

func TestHarnessRejectsBadInput(t *testing.T) {
	a, b, _ := scenarioMatrices(t)
	h := NewHarness()

	for _, iterations := range []int{0, -1} {
		_, err := h.Run(context.Background(), a, b, iterations, 2)
		require.ErrorIs(t, err, ErrBadIterations)
	}

	_, err := h.Run(context.Background(), a, a, 3, 2)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestHarnessStopsBetweenIterationsOnCancel(t *testing.T) {
	a, b, _ := scenarioMatrices(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHarness().Run(ctx, a, b, 5, 2)
	require.ErrorIs(t, err, context.Canceled)
}
