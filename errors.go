package matmul

import "errors"

// Every message is prefixed with "matmul:". Callers match with errors.Is;
// context is added at the boundary with fmt.Errorf("...: %w", ErrX).
var (
	// ErrBadShape is returned when requested dimensions are not positive or
	// when supplied data does not match the declared shape.
	ErrBadShape = errors.New("matmul: invalid shape")

	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = errors.New("matmul: index out of range")

	// ErrNilMatrix indicates that a nil *Matrix was passed as an operand.
	ErrNilMatrix = errors.New("matmul: nil matrix")

	// ErrAllocation is returned when storage for a matrix cannot be obtained.
	ErrAllocation = errors.New("matmul: allocation failed")

	// ErrDimensionMismatch indicates operands that cannot be multiplied,
	// or an output matrix whose shape does not match the product.
	ErrDimensionMismatch = errors.New("matmul: dimension mismatch")

	// ErrWorkerSpawn is returned when an executor cannot start its workers.
	ErrWorkerSpawn = errors.New("matmul: cannot start worker")

	// ErrWorkerFailed is returned when a worker panicked while computing its rows.
	ErrWorkerFailed = errors.New("matmul: worker failed")

	// ErrBadIterations is returned for a non-positive benchmark iteration count.
	ErrBadIterations = errors.New("matmul: iterations must be > 0")

	// ErrVerification is returned when two results that must agree do not.
	ErrVerification = errors.New("matmul: result verification failed")

	// ErrParse is returned when matrix input contains a non-numeric token.
	ErrParse = errors.New("matmul: cannot parse value")

	// ErrShortInput is returned when matrix input ends before every element was read.
	ErrShortInput = errors.New("matmul: not enough values")
)
