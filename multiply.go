package matmul

import "fmt"

// Multiply computes C = A × B on the calling goroutine and returns a newly
// allocated C.
func Multiply(a, b *Matrix) (*Matrix, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	c, err := New(a.rows, b.cols)
	if err != nil {
		return nil, err
	}
	multiplyRows(a, b, c, 0, a.rows)
	return c, nil
}

// MultiplyInto computes C = A × B on the calling goroutine, overwriting c.
// Shapes are validated before anything is written.
func MultiplyInto(a, b, c *Matrix) error {
	if err := checkShapes(a, b, c); err != nil {
		return err
	}
	multiplyRows(a, b, c, 0, a.rows)
	return nil
}

// checkOperands validates that A (m×k) and B (k×n) can be multiplied.
func checkOperands(a, b *Matrix) error {
	if a == nil || b == nil {
		return ErrNilMatrix
	}
	if a.cols != b.rows {
		return fmt.Errorf("%w: A(%dx%d) × B(%dx%d)", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}
	return nil
}

// checkShapes additionally validates that C is m×n.
func checkShapes(a, b, c *Matrix) error {
	if err := checkOperands(a, b); err != nil {
		return err
	}
	if c == nil {
		return ErrNilMatrix
	}
	if c.rows != a.rows || c.cols != b.cols {
		return fmt.Errorf("%w: C(%dx%d) for A(%dx%d) × B(%dx%d)",
			ErrDimensionMismatch, c.rows, c.cols, a.rows, a.cols, b.rows, b.cols)
	}
	return nil
}

// multiplyRows writes rows [start, end) of C = A × B.
//
// Each output row is zeroed, then row j of B scaled by A[i][j] is added to
// it for every j. Both B's row and C's row are walked linearly, which is
// friendlier to row-major storage than the i,k,j dot-product order.
// The accumulation order is fixed, so the result does not depend on how the
// rows are split between workers.
func multiplyRows(a, b, c *Matrix, start, end int) {
	n, k := b.cols, a.cols
	for i := start; i < end; i++ {
		cRow := c.data[i*n : (i+1)*n]
		clear(cRow)
		aRow := a.data[i*k : (i+1)*k]
		for j, aij := range aRow {
			bRow := b.data[j*n : (j+1)*n]
			for l, bjl := range bRow {
				cRow[l] += aij * bjl
			}
		}
	}
}
