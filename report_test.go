package matmul

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scenarioResult builds a Result for the known 2x3 × 3x2 product.
func scenarioResult(t *testing.T, seqMean, parMean time.Duration) *Result {
	t.Helper()
	a, b, c := scenarioMatrices(t)
	return &Result{
		A:                a,
		B:                b,
		Sequential:       c,
		Parallel:         c.Clone(),
		SequentialMean:   seqMean,
		ParallelMean:     parMean,
		Speedup:          ComputeSpeedup(seqMean, parMean),
		Iterations:       10,
		ThreadsRequested: 0,
		ThreadsUsed:      2,
		Executor:         "spawn",
		Host:             HostInfo{NumCPU: 4, GOMAXPROCS: 4, GoVersion: "go1.25", Arch: "amd64"},
	}
}

func TestWriteReport(t *testing.T) {
	res := scenarioResult(t, 3*time.Millisecond, 1500*time.Microsecond)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res, KindInt))
	out := buf.String()

	for _, want := range []string{
		"Matrix Multiply Report\n======================\n\n",
		"A: 2 x 3\nB: 3 x 2\nC: 2 x 2\n\n",
		"Timing (averaged over 10 runs):\n",
		"Single-thread: 0.003000000 s\n",
		"Multi-thread (2 threads): 0.001500000 s\n",
		"Speedup = 2.000x\n",
		"Improvement = 100.00%\n",
		"Executor: spawn\n",
		"Host: go1.25/amd64, 4 CPUs, GOMAXPROCS=4\n",
		"Matrix A:\n   1    2    3 \n   4    5    6 \n",
		"Result (single-thread):\n  58   64 \n 139  154 \n",
		"Result (multi-thread):\n  58   64 \n 139  154 \n",
	} {
		require.Contains(t, out, want)
	}
}

func TestWriteReportUndefinedSpeedup(t *testing.T) {
	res := scenarioResult(t, time.Millisecond, 0)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res, KindFloat))
	require.Contains(t, buf.String(), "Speedup = undefined (multi-thread time = 0)\n")
	require.NotContains(t, buf.String(), "Improvement")
	require.Contains(t, buf.String(), " 58.000  64.000 \n")
}

func TestSaveReport(t *testing.T) {
	res := scenarioResult(t, 2*time.Millisecond, time.Millisecond)
	base := filepath.Join(t.TempDir(), "run")

	path, err := SaveReport(base, res, KindInt)
	require.NoError(t, err)
	require.Equal(t, base+".txt", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "Matrix Multiply Report"))

	explicit := filepath.Join(t.TempDir(), "run.log")
	path, err = SaveReport(explicit, res, KindInt)
	require.NoError(t, err)
	require.Equal(t, explicit, path)
}

func TestWriteReportJSON(t *testing.T) {
	res := scenarioResult(t, 2*time.Millisecond, time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, WriteReportJSON(&buf, res, true))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, 2.0, got["speedup"])
	require.Equal(t, 100.0, got["improvement_pct"])
	require.Equal(t, 2.0, got["threads_used"])
	require.Equal(t, "spawn", got["executor"])
	require.Equal(t, []any{[]any{58.0, 64.0}, []any{139.0, 154.0}}, got["parallel"])
}

func TestWriteReportJSONUndefinedSpeedup(t *testing.T) {
	res := scenarioResult(t, time.Millisecond, 0)

	var buf bytes.Buffer
	require.NoError(t, WriteReportJSON(&buf, res, false))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Contains(t, got, "speedup")
	require.Nil(t, got["speedup"])
	require.NotContains(t, got, "a")
}
