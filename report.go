package matmul

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteReport writes a plain-text report of res: shapes, mean timings,
// speedup, and the four matrices printed according to kind.
func WriteReport(w io.Writer, res *Result, kind NumberKind) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Matrix Multiply Report\n")
	fmt.Fprintf(bw, "======================\n\n")
	fmt.Fprintf(bw, "A: %d x %d\n", res.A.rows, res.A.cols)
	fmt.Fprintf(bw, "B: %d x %d\n", res.B.rows, res.B.cols)
	fmt.Fprintf(bw, "C: %d x %d\n\n", res.A.rows, res.B.cols)

	fmt.Fprintf(bw, "Timing (averaged over %d runs):\n", res.Iterations)
	fmt.Fprintf(bw, "Single-thread: %.9f s\n", res.SequentialMean.Seconds())
	fmt.Fprintf(bw, "Multi-thread (%d threads): %.9f s\n", res.ThreadsUsed, res.ParallelMean.Seconds())
	if res.Speedup.Defined {
		fmt.Fprintf(bw, "Speedup = %.3fx\n", res.Speedup.Ratio)
		fmt.Fprintf(bw, "Improvement = %.2f%%\n\n", res.Speedup.ImprovementPct)
	} else {
		fmt.Fprintf(bw, "Speedup = undefined (multi-thread time = 0)\n\n")
	}
	fmt.Fprintf(bw, "Executor: %s\n", res.Executor)
	fmt.Fprintf(bw, "Host: %s\n\n", res.Host)

	sections := []struct {
		title string
		m     *Matrix
	}{
		{"Matrix A:", res.A},
		{"Matrix B:", res.B},
		{"Result (single-thread):", res.Sequential},
		{"Result (multi-thread):", res.Parallel},
	}
	for _, s := range sections {
		fmt.Fprintf(bw, "%s\n", s.title)
		if err := WriteMatrix(bw, s.m, kind); err != nil {
			return err
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// SaveReport writes the text report to path, adding ".txt" when path has
// no extension, and returns the path actually written.
func SaveReport(path string, res *Result, kind NumberKind) (string, error) {
	if filepath.Ext(path) == "" {
		path += ".txt"
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteReport(f, res, kind); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// jsonReport is the JSON shape of a Result.
type jsonReport struct {
	ShapeA           [2]int      `json:"shape_a"`
	ShapeB           [2]int      `json:"shape_b"`
	Iterations       int         `json:"iterations"`
	ThreadsRequested int         `json:"threads_requested"`
	ThreadsUsed      int         `json:"threads_used"`
	Executor         string      `json:"executor"`
	SequentialSec    float64     `json:"sequential_mean_seconds"`
	ParallelSec      float64     `json:"parallel_mean_seconds"`
	Speedup          *float64    `json:"speedup"`
	ImprovementPct   *float64    `json:"improvement_pct"`
	Verified         bool        `json:"verified"`
	Host             HostInfo    `json:"host"`
	A                [][]float64 `json:"a,omitempty"`
	B                [][]float64 `json:"b,omitempty"`
	Sequential       [][]float64 `json:"sequential,omitempty"`
	Parallel         [][]float64 `json:"parallel,omitempty"`
}

// WriteReportJSON writes res as indented JSON. An undefined speedup is
// written as null. Matrices are included only when withMatrices is set.
func WriteReportJSON(w io.Writer, res *Result, withMatrices bool) error {
	out := jsonReport{
		ShapeA:           [2]int{res.A.rows, res.A.cols},
		ShapeB:           [2]int{res.B.rows, res.B.cols},
		Iterations:       res.Iterations,
		ThreadsRequested: res.ThreadsRequested,
		ThreadsUsed:      res.ThreadsUsed,
		Executor:         res.Executor,
		SequentialSec:    res.SequentialMean.Seconds(),
		ParallelSec:      res.ParallelMean.Seconds(),
		Verified:         res.Verified,
		Host:             res.Host,
	}
	if res.Speedup.Defined {
		ratio, pct := res.Speedup.Ratio, res.Speedup.ImprovementPct
		out.Speedup, out.ImprovementPct = &ratio, &pct
	}
	if withMatrices {
		out.A, out.B = res.A.To2D(), res.B.To2D()
		out.Sequential, out.Parallel = res.Sequential.To2D(), res.Parallel.To2D()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
