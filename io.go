package matmul

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadMatrix reads a rows×cols matrix from r. Values are separated by any
// whitespace and fill the matrix row by row; line breaks carry no meaning.
// Values after the last element are ignored.
func ReadMatrix(r io.Reader, rows, cols int) (*Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for idx := range m.data {
		i, j := idx/cols, idx%cols
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("read value at (%d,%d): %w", i, j, err)
			}
			return nil, fmt.Errorf("%w: input ended at (%d,%d) of %dx%d", ErrShortInput, i, j, rows, cols)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrParse, sc.Text(), i, j)
		}
		m.data[idx] = v
	}
	return m, nil
}

// LoadMatrixFile reads a rows×cols matrix from the file at path.
func LoadMatrixFile(path string, rows, cols int) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadMatrix(f, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteMatrix writes m one row per line. Whole-number kinds print as
// right-aligned integers, everything else with three decimals.
func WriteMatrix(w io.Writer, m *Matrix, kind NumberKind) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < m.rows; i++ {
		for _, v := range m.Row(i) {
			if kind == KindInt {
				fmt.Fprintf(bw, "%4d ", int64(v))
			} else {
				fmt.Fprintf(bw, "%7.3f ", v)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
