package matmul

import "fmt"

// RowRange is the half-open interval [Start, End) of output rows owned by
// one worker.
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int { return r.End - r.Start }

// String returns a string representation of the range.
func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// EffectiveThreads resolves a requested worker count against the number of
// rows to split. A request <= 0 means one worker per row; a request larger
// than totalRows is capped at totalRows. The result lies in [1, totalRows]
// whenever totalRows > 0.
func EffectiveThreads(requested, totalRows int) int {
	if totalRows < 1 {
		return 1
	}
	if requested <= 0 || requested > totalRows {
		return totalRows
	}
	return requested
}

// Partition splits [0, totalRows) into EffectiveThreads(threads, totalRows)
// contiguous ranges in increasing order. The first totalRows%t ranges get
// one extra row, so sizes differ by at most one and the ranges cover every
// row exactly once.
func Partition(totalRows, threads int) ([]RowRange, error) {
	if totalRows <= 0 {
		return nil, fmt.Errorf("%w: %d rows to partition", ErrBadShape, totalRows)
	}
	t := EffectiveThreads(threads, totalRows)
	base, rem := totalRows/t, totalRows%t

	ranges := make([]RowRange, t)
	start := 0
	for w := range ranges {
		size := base
		if w < rem {
			size++
		}
		ranges[w] = RowRange{Start: start, End: start + size}
		start += size
	}
	return ranges, nil
}
