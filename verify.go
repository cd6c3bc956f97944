package matmul

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CrossCheck recomputes A × B with gonum and fails with ErrVerification if
// any element of c differs from it by more than tolerance. gonum sums in a
// different order, so a small tolerance is needed for non-integral inputs.
func CrossCheck(a, b, c *Matrix, tolerance float64) error {
	if err := checkShapes(a, b, c); err != nil {
		return err
	}
	var ref mat.Dense
	ref.Mul(
		mat.NewDense(a.rows, a.cols, a.data),
		mat.NewDense(b.rows, b.cols, b.data),
	)

	worst, wi, wj := 0.0, 0, 0
	for i := 0; i < c.rows; i++ {
		for j, v := range c.Row(i) {
			if diff := math.Abs(v - ref.At(i, j)); diff > worst || math.IsNaN(diff) {
				worst, wi, wj = diff, i, j
			}
		}
	}
	if !(worst <= tolerance) {
		return fmt.Errorf("%w: element (%d,%d) differs from reference by %g (tolerance %g)",
			ErrVerification, wi, wj, worst, tolerance)
	}
	return nil
}

// SelfTest multiplies a small matrix pair with a known product sequentially
// and with p at every thread count from 1 to the row count.
func SelfTest(p *ParallelMultiplier) error {
	a, _ := NewFromSlice([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	b, _ := NewFromSlice([][]float64{
		{7, 8},
		{9, 10},
		{11, 12},
	})
	expected, _ := NewFromSlice([][]float64{
		{58, 64},
		{139, 154},
	})

	got, err := Multiply(a, b)
	if err != nil {
		return err
	}
	if !got.Equal(expected, 0) {
		return fmt.Errorf("%w: sequential product is\n%v", ErrVerification, got)
	}
	for threads := 1; threads <= a.rows; threads++ {
		got, _, err := p.Multiply(a, b, threads)
		if err != nil {
			return fmt.Errorf("%d threads: %w", threads, err)
		}
		if !got.Equal(expected, 0) {
			return fmt.Errorf("%w: product with %d threads is\n%v", ErrVerification, threads, got)
		}
	}
	return nil
}
