package matmul

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadMatrix(t *testing.T) {
	// Line breaks do not have to follow rows.
	m, err := ReadMatrix(strings.NewReader("1 2.5 -3\n4\t5e1\n\n6 99"), 2, 3)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2.5, -3}, {4, 50, 6}}, m.To2D())
}

func TestReadMatrixShortInput(t *testing.T) {
	_, err := ReadMatrix(strings.NewReader("1 2 3 4"), 2, 3)
	require.ErrorIs(t, err, ErrShortInput)
	require.Contains(t, err.Error(), "(1,1)")
}

func TestReadMatrixParseError(t *testing.T) {
	_, err := ReadMatrix(strings.NewReader("1 2\nthree 4"), 2, 2)
	require.ErrorIs(t, err, ErrParse)
	require.Contains(t, err.Error(), `"three" at (1,0)`)
}

func TestReadMatrixBadShape(t *testing.T) {
	_, err := ReadMatrix(strings.NewReader("1"), 0, 1)
	require.ErrorIs(t, err, ErrBadShape)
}

func TestLoadMatrixFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2\n3 4\n"), 0o644))

	m, err := LoadMatrixFile(path, 2, 2)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2}, {3, 4}}, m.To2D())

	_, err = LoadMatrixFile(path, 3, 2)
	require.ErrorIs(t, err, ErrShortInput)
	require.Contains(t, err.Error(), path)

	_, err = LoadMatrixFile(filepath.Join(t.TempDir(), "missing.txt"), 2, 2)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteMatrix(t *testing.T) {
	m := mustFromSlice(t, [][]float64{{1, -20}, {300, 4.75}})

	var ints bytes.Buffer
	require.NoError(t, WriteMatrix(&ints, m, KindInt))
	require.Equal(t, "   1  -20 \n 300    4 \n", ints.String())

	var floats bytes.Buffer
	require.NoError(t, WriteMatrix(&floats, m, KindFloat))
	require.Equal(t, "  1.000 -20.000 \n300.000   4.750 \n", floats.String())
}
