package matmul

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// NumberKind selects what kind of values FillRandom produces. It also
// controls how reports print matrices.
type NumberKind int

const (
	// KindInt - whole numbers, printed without decimals.
	KindInt NumberKind = iota + 1
	// KindFloat - uniformly distributed reals.
	KindFloat
	// KindMixed - each element is independently a whole number or a real.
	KindMixed
)

// String returns the name of the kind.
func (k NumberKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ParseNumberKind accepts "int", "float" or "mixed" (case-insensitive).
func ParseNumberKind(s string) (NumberKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "integers":
		return KindInt, nil
	case "float", "floats":
		return KindFloat, nil
	case "mixed":
		return KindMixed, nil
	default:
		return 0, fmt.Errorf("unknown number kind %q", s)
	}
}

// FillRandom overwrites every element of m with a value drawn from rng.
//
// Whole numbers are drawn uniformly from low..low+ceil(high-low); reals
// uniformly from [low, high). A reversed range yields low for whole numbers.
func FillRandom(m *Matrix, rng *rand.Rand, kind NumberKind, low, high float64) error {
	if m == nil {
		return ErrNilMatrix
	}
	if kind < KindInt || kind > KindMixed {
		return fmt.Errorf("unknown number kind %d", kind)
	}
	span := high - low
	intSpan := 0
	if span > 0 {
		intSpan = int(math.Ceil(span))
	}

	whole := func() float64 {
		if intSpan == 0 {
			return math.Trunc(low)
		}
		return math.Trunc(low) + float64(rng.Intn(intSpan+1))
	}
	uniform := func() float64 {
		return low + rng.Float64()*span
	}

	for i := range m.data {
		switch {
		case kind == KindInt:
			m.data[i] = whole()
		case kind == KindFloat:
			m.data[i] = uniform()
		case rng.Intn(2) == 1:
			m.data[i] = whole()
		default:
			m.data[i] = uniform()
		}
	}
	return nil
}

// RandomMatrix creates a rows×cols matrix filled by FillRandom.
func RandomMatrix(rng *rand.Rand, rows, cols int, kind NumberKind, low, high float64) (*Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	if err := FillRandom(m, rng, kind, low, high); err != nil {
		return nil, err
	}
	return m, nil
}

// Randn creates a matrix with random values from standard normal distribution.
func Randn(rng *rand.Rand, rows, cols int) (*Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = rng.NormFloat64()
	}
	return m, nil
}
