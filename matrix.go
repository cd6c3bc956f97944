// Package matmul multiplies dense matrices on one goroutine or across a
// fixed set of workers that each own a contiguous range of output rows,
// and benchmarks the two against each other.
package matmul

import (
	"fmt"
	"math"
	"strings"
)

// Matrix represents a 2D matrix stored in row-major order.
// Element (i, j) lives at data[i*cols+j]; the shape is fixed at creation.
type Matrix struct {
	data []float64
	rows int
	cols int
}

// New creates a rows×cols matrix with all elements set to zero.
// Non-positive dimensions yield ErrBadShape; storage the runtime cannot
// provide yields ErrAllocation.
func New(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	if rows > math.MaxInt/cols {
		return nil, fmt.Errorf("%w: %dx%d overflows int", ErrAllocation, rows, cols)
	}
	data, err := allocate(rows * cols)
	if err != nil {
		return nil, err
	}
	return &Matrix{data: data, rows: rows, cols: cols}, nil
}

// allocate turns the runtime's refusal of an oversized slice into an error.
func allocate(n int) (data []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: %d elements: %v", ErrAllocation, n, r)
		}
	}()
	return make([]float64, n), nil
}

// NewFromSlice creates a matrix from a 2D slice. Every row must have the
// same, non-zero length.
func NewFromSlice(values [][]float64) (*Matrix, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadShape)
	}
	m, err := New(len(values), len(values[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range values {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrBadShape, i, len(row), m.cols)
		}
		copy(m.Row(i), row)
	}
	return m, nil
}

// NewFromFlat creates a matrix from a row-major flat slice. The slice is copied.
func NewFromFlat(values []float64, rows, cols int) (*Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(values) != len(m.data) {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrBadShape, len(values), rows, cols)
	}
	copy(m.data, values)
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns the dimensions of the matrix.
func (m *Matrix) Shape() (int, int) {
	return m.rows, m.cols
}

// Data exposes the row-major backing store. Its length is always Rows()*Cols().
func (m *Matrix) Data() []float64 { return m.data }

// At returns the element at (row, col). Indices are not checked beyond
// what the slice bounds check does.
func (m *Matrix) At(row, col int) float64 {
	return m.data[row*m.cols+col]
}

// Set sets the element at (row, col). Indices are not checked.
func (m *Matrix) Set(row, col int, value float64) {
	m.data[row*m.cols+col] = value
}

// Row returns row i as a sub-slice of the backing store.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Get is the bounds-checked form of At.
func (m *Matrix) Get(row, col int) (float64, error) {
	if err := m.checkIndex(row, col); err != nil {
		return 0, err
	}
	return m.At(row, col), nil
}

// Put is the bounds-checked form of Set.
func (m *Matrix) Put(row, col int, value float64) error {
	if err := m.checkIndex(row, col); err != nil {
		return err
	}
	m.Set(row, col, value)
	return nil
}

func (m *Matrix) checkIndex(row, col int) error {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, row, col, m.rows, m.cols)
	}
	return nil
}

// Clone creates a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	dataCopy := make([]float64, len(m.data))
	copy(dataCopy, m.data)
	return &Matrix{
		data: dataCopy,
		rows: m.rows,
		cols: m.cols,
	}
}

// To2D converts the matrix to a 2D slice representation.
func (m *Matrix) To2D() [][]float64 {
	result := make([][]float64, m.rows)
	for i := range result {
		result[i] = append([]float64(nil), m.Row(i)...)
	}
	return result
}

// String returns a string representation of the matrix.
func (m *Matrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Matrix(%dx%d):\n", m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		sb.WriteString("[")
		for j, v := range m.Row(i) {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%.4f", v)
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// Equal checks if two matrices have the same shape and all elements agree
// within tolerance. A tolerance of 0 demands bit-for-bit equal values.
func (m *Matrix) Equal(other *Matrix, tolerance float64) bool {
	if other == nil || m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		if !(math.Abs(v-other.data[i]) <= tolerance) {
			return false
		}
	}
	return true
}

// maxAbsDiff reports the largest element-wise difference, or false when
// the shapes differ.
func (m *Matrix) maxAbsDiff(other *Matrix) (float64, bool) {
	if other == nil || m.rows != other.rows || m.cols != other.cols {
		return 0, false
	}
	maxDiff := 0.0
	for i, v := range m.data {
		if diff := math.Abs(v - other.data[i]); diff > maxDiff {
			maxDiff = diff
		}
	}
	return maxDiff, true
}

// Zeros creates a matrix filled with zeros.
func Zeros(rows, cols int) (*Matrix, error) {
	return New(rows, cols)
}

// Ones creates a matrix filled with ones.
func Ones(rows, cols int) (*Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = 1.0
	}
	return m, nil
}

// Eye creates an n×n identity matrix.
func Eye(n int) (*Matrix, error) {
	m, err := New(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
	}
	return m, nil
}
