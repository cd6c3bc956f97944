package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	matmul "github.com/tektwister/ai_engineering/matrix_multiplication_threads"
	"github.com/tektwister/ai_engineering/matrix_multiplication_threads/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the flag values of the root command.
type options struct {
	aFile, bFile string
	kind         string
	low, high    float64
	seed         int64
	iterations   int
	threads      int
	executor     string
	poolSize     int
	verify       bool
	referenceTol float64
	output       string
	jsonOut      bool
	withMatrices bool
	logLevel     string
}

func newRootCmd(cfg *config.BenchConfig) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "benchmark <rowsA> <colsA> <rowsB> <colsB>",
		Short: "Compare single-threaded and row-partitioned parallel matrix multiplication",
		Example: "  benchmark 5 4 4 2\n" +
			"  benchmark 512 512 512 512 --threads 8 --iterations 20 --executor pool\n" +
			"  benchmark 3 3 3 2 --a-file a.txt --b-file b.txt --output report",
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), opts, args)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			return err
		},
	}

	bindFlags(cmd.Flags(), opts, cfg)
	cmd.AddCommand(newVerifyCmd())
	return cmd
}

// bindFlags registers the run flags, taking defaults from cfg.
func bindFlags(f *pflag.FlagSet, opts *options, cfg *config.BenchConfig) {
	f.StringVar(&opts.aFile, "a-file", "", "read matrix A from this file instead of generating it")
	f.StringVar(&opts.bFile, "b-file", "", "read matrix B from this file instead of generating it")
	f.StringVar(&opts.kind, "kind", matmul.KindFloat.String(), "random values: int, float or mixed")
	f.Float64Var(&opts.low, "min", 0, "lower bound of random values")
	f.Float64Var(&opts.high, "max", 10, "upper bound of random values")
	f.Int64Var(&opts.seed, "seed", cfg.Seed, "random seed (0 seeds from the clock)")
	f.IntVar(&opts.iterations, "iterations", cfg.Iterations, "timed runs per multiplier (non-positive uses the default)")
	f.IntVar(&opts.threads, "threads", cfg.Threads, "worker count, capped at rows of A (0 uses one per row)")
	f.StringVar(&opts.executor, "executor", cfg.Executor, "how workers run: spawn (fresh goroutines) or pool (reused)")
	f.IntVar(&opts.poolSize, "pool-size", cfg.PoolSize, "workers in the pool executor (0 uses GOMAXPROCS)")
	f.BoolVar(&opts.verify, "verify", cfg.Verify, "require identical sequential and parallel results and check against gonum")
	f.Float64Var(&opts.referenceTol, "reference-tol", 1e-9, "allowed difference from the gonum reference with --verify")
	f.StringVarP(&opts.output, "output", "o", "", "save a text report to this file (.txt is added without an extension)")
	f.BoolVar(&opts.jsonOut, "json", false, "print the results as JSON")
	f.BoolVar(&opts.withMatrices, "json-matrices", false, "include all matrices in the JSON output")
	f.StringVar(&opts.logLevel, "log-level", cfg.LogLevel.String(), "log level (debug, info, warn, error)")
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check both executors against a product with a known result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyExecutors()
		},
	}
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().
		Logger(), nil
}

func parseDims(args []string) ([4]int, error) {
	var dims [4]int
	names := [4]string{"rowsA", "colsA", "rowsB", "colsB"}
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return dims, fmt.Errorf("%s must be a positive integer, got %q", names[i], arg)
		}
		dims[i] = n
	}
	if dims[1] != dims[2] {
		return dims, fmt.Errorf("cols(A) must equal rows(B) (%d != %d)", dims[1], dims[2])
	}
	return dims, nil
}

func run(ctx context.Context, opts *options, args []string) error {
	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}
	dims, err := parseDims(args)
	if err != nil {
		return err
	}
	if opts.iterations <= 0 {
		logger.Info().Int("iterations", config.DefaultIterations).Msg("non-positive iterations, using default")
		opts.iterations = config.DefaultIterations
	}

	a, b, kind, err := inputMatrices(opts, dims, logger)
	if err != nil {
		return err
	}

	executor, closeExec, err := newExecutor(opts)
	if err != nil {
		return err
	}
	defer closeExec()

	multiplier := matmul.NewParallelMultiplier(
		matmul.WithExecutor(executor),
		matmul.WithLogger(logger),
	)
	harness := matmul.NewHarness(
		matmul.WithMultiplier(multiplier),
		matmul.WithHarnessLogger(logger),
		matmul.WithVerify(opts.verify),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if !opts.jsonOut {
		printBanner(dims)
	}
	logger.Info().
		Int("iterations", opts.iterations).
		Int("threads", opts.threads).
		Str("executor", executor.Name()).
		Msg("running benchmark")

	res, err := harness.Run(ctx, a, b, opts.iterations, opts.threads)
	if err != nil {
		return err
	}
	if opts.verify {
		if err := matmul.CrossCheck(a, b, res.Parallel, opts.referenceTol); err != nil {
			return err
		}
		logger.Info().Float64("tolerance", opts.referenceTol).Msg("parallel result matches gonum reference")
	}

	if opts.jsonOut {
		if err := matmul.WriteReportJSON(os.Stdout, res, opts.withMatrices); err != nil {
			return err
		}
	} else {
		printResults(res)
	}

	if opts.output != "" {
		path, err := matmul.SaveReport(opts.output, res, kind)
		if err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		logger.Info().Str("path", path).Msg("saved report")
	}
	return nil
}

// inputMatrices loads A and B from files when either file flag is set,
// otherwise generates them.
func inputMatrices(opts *options, dims [4]int, logger zerolog.Logger) (*matmul.Matrix, *matmul.Matrix, matmul.NumberKind, error) {
	if opts.aFile != "" || opts.bFile != "" {
		if opts.aFile == "" || opts.bFile == "" {
			return nil, nil, 0, errors.New("--a-file and --b-file must be given together")
		}
		a, err := matmul.LoadMatrixFile(opts.aFile, dims[0], dims[1])
		if err != nil {
			return nil, nil, 0, err
		}
		b, err := matmul.LoadMatrixFile(opts.bFile, dims[2], dims[3])
		if err != nil {
			return nil, nil, 0, err
		}
		return a, b, matmul.KindFloat, nil
	}

	kind, err := matmul.ParseNumberKind(opts.kind)
	if err != nil {
		return nil, nil, 0, err
	}
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug().Int64("seed", seed).Stringer("kind", kind).
		Float64("min", opts.low).Float64("max", opts.high).
		Msg("generating random matrices")

	rng := rand.New(rand.NewSource(seed))
	a, err := matmul.RandomMatrix(rng, dims[0], dims[1], kind, opts.low, opts.high)
	if err != nil {
		return nil, nil, 0, err
	}
	b, err := matmul.RandomMatrix(rng, dims[2], dims[3], kind, opts.low, opts.high)
	if err != nil {
		return nil, nil, 0, err
	}
	return a, b, kind, nil
}

func newExecutor(opts *options) (matmul.Executor, func(), error) {
	name, err := config.ParseExecutor(opts.executor)
	if err != nil {
		return nil, nil, err
	}
	if name == config.ExecutorPool {
		pool := matmul.NewPoolExecutor(opts.poolSize)
		return pool, pool.Close, nil
	}
	return matmul.SpawnExecutor{}, func() {}, nil
}

func verifyExecutors() error {
	fmt.Println("Verifying multiplier correctness...")
	fmt.Println()

	pool := matmul.NewPoolExecutor(0)
	defer pool.Close()

	allPassed := true
	for _, exec := range []matmul.Executor{matmul.SpawnExecutor{}, pool} {
		err := matmul.SelfTest(matmul.NewParallelMultiplier(matmul.WithExecutor(exec)))
		if err == nil {
			fmt.Printf("  ✓ %-16s PASSED\n", exec.Name())
		} else {
			fmt.Printf("  ✗ %-16s FAILED: %v\n", exec.Name(), err)
			allPassed = false
		}
	}

	fmt.Println()
	if !allPassed {
		return errors.New("some executors failed verification")
	}
	fmt.Println("All executors verified successfully!")
	return nil
}

func printBanner(dims [4]int) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║           Threaded Matrix Multiplication Benchmark                           ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════════════════════╣")
	fmt.Printf("║ CPUs: %-6d | A: %5dx%-5d | B: %5dx%-5d | Go: %-18s ║\n",
		runtime.NumCPU(), dims[0], dims[1], dims[2], dims[3], runtime.Version())
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

func printResults(res *matmul.Result) {
	fmt.Printf("Averaged over %d runs (executor %s):\n", res.Iterations, res.Executor)
	fmt.Println("┌──────────────────────────────┬──────────────────┐")
	fmt.Println("│ Multiplier                   │ Mean time        │")
	fmt.Println("├──────────────────────────────┼──────────────────┤")
	fmt.Printf("│ %-28s │ %14.9f s │\n", "Single-thread", res.SequentialMean.Seconds())
	fmt.Printf("│ %-28s │ %14.9f s │\n", fmt.Sprintf("Multi-thread (%d threads)", res.ThreadsUsed), res.ParallelMean.Seconds())
	fmt.Println("└──────────────────────────────┴──────────────────┘")

	fmt.Println()
	if res.Speedup.Defined {
		fmt.Printf("📈 Speedup: %.3fx\n", res.Speedup.Ratio)
		fmt.Printf("   Improvement: %.2f%%\n", res.Speedup.ImprovementPct)
	} else {
		fmt.Println("📈 Speedup: undefined (multi-thread time = 0)")
	}
	if res.ThreadsRequested > 0 && res.ThreadsUsed != res.ThreadsRequested {
		fmt.Printf("   Requested %d threads, used %d\n", res.ThreadsRequested, res.ThreadsUsed)
	}
}
