package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tektwister/ai_engineering/matrix_multiplication_threads/pkg/config"
)

func TestParseDims(t *testing.T) {
	dims, err := parseDims([]string{"5", "4", "4", "2"})
	require.NoError(t, err)
	require.Equal(t, [4]int{5, 4, 4, 2}, dims)

	_, err = parseDims([]string{"5", "0", "4", "2"})
	require.ErrorContains(t, err, "colsA must be a positive integer")

	_, err = parseDims([]string{"5", "x", "4", "2"})
	require.ErrorContains(t, err, `got "x"`)

	_, err = parseDims([]string{"5", "3", "4", "2"})
	require.ErrorContains(t, err, "cols(A) must equal rows(B) (3 != 4)")
}

func TestRootCommandRandomInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report")
	cmd := newRootCmd(config.Default())
	cmd.SetArgs([]string{"6", "3", "3", "4",
		"--iterations", "2", "--threads", "3", "--seed", "7", "--kind", "int",
		"--executor", "pool", "--pool-size", "2", "--verify",
		"--log-level", "error", "--json", "--output", out})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out + ".txt")
	require.NoError(t, err)
	require.Contains(t, string(data), "Multi-thread (3 threads)")
	require.Contains(t, string(data), "Executor: pool(2)")
}

func TestRootCommandFileInput(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.txt")
	bPath := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(aPath, []byte("1 2 3\n4 5 6\n"), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte("7 8\n9 10\n11 12\n"), 0o644))
	out := filepath.Join(dir, "known.txt")

	cmd := newRootCmd(config.Default())
	cmd.SetArgs([]string{"2", "3", "3", "2", "--a-file", aPath, "--b-file", bPath,
		"--iterations", "1", "--log-level", "error", "--json", "--output", out})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "Result (multi-thread):\n 58.000  64.000 \n139.000 154.000 \n"))
}

func TestRootCommandRejectsBadInput(t *testing.T) {
	tests := map[string][]string{
		"mismatch":       {"2", "3", "2", "2"},
		"one file":       {"2", "3", "3", "2", "--a-file", "a.txt"},
		"bad kind":       {"2", "3", "3", "2", "--kind", "complex"},
		"bad executor":   {"2", "3", "3", "2", "--executor", "gpu"},
		"bad log level":  {"2", "3", "3", "2", "--log-level", "loud"},
		"too few args":   {"2", "3", "3"},
		"missing a file": {"2", "3", "3", "2", "--a-file", "/nonexistent/a", "--b-file", "/nonexistent/b"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := newRootCmd(config.Default())
			cmd.SetArgs(args)
			require.Error(t, cmd.Execute())
		})
	}
}

func TestVerifyCommand(t *testing.T) {
	cmd := newRootCmd(config.Default())
	cmd.SetArgs([]string{"verify"})
	require.NoError(t, cmd.Execute())
}
