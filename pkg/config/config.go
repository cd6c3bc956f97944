// Package config loads benchmark settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read by Load.
const (
	EnvIterations = "MATMUL_ITERATIONS"
	EnvThreads    = "MATMUL_THREADS"
	EnvExecutor   = "MATMUL_EXECUTOR"
	EnvPoolSize   = "MATMUL_POOL_SIZE"
	EnvSeed       = "MATMUL_SEED"
	EnvLogLevel   = "MATMUL_LOG_LEVEL"
	EnvVerify     = "MATMUL_VERIFY"
)

// DefaultIterations is used when no iteration count is given or the given
// one is not positive.
const DefaultIterations = 10

// Executor names accepted in MATMUL_EXECUTOR.
const (
	ExecutorSpawn = "spawn"
	ExecutorPool  = "pool"
)

// BenchConfig holds the settings of a benchmark run.
type BenchConfig struct {
	Iterations int
	Threads    int // 0 means one worker per row of A
	Executor   string
	PoolSize   int   // 0 means GOMAXPROCS
	Seed       int64 // 0 means seed from the clock
	LogLevel   zerolog.Level
	Verify     bool
}

// Default returns the settings used when nothing is configured.
func Default() *BenchConfig {
	return &BenchConfig{
		Iterations: DefaultIterations,
		Executor:   ExecutorSpawn,
		LogLevel:   zerolog.InfoLevel,
	}
}

// Load loads the benchmark configuration from environment variables.
// It attempts to find a .env file in the current or parent directories;
// variables already set in the environment win over the file.
func Load() (*BenchConfig, error) {
	// Try to load .env from current or parent directories
	_ = loadEnvFile()

	cfg := Default()
	var err error
	if cfg.Iterations, err = intEnv(EnvIterations, cfg.Iterations); err != nil {
		return nil, err
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}
	if cfg.Threads, err = intEnv(EnvThreads, cfg.Threads); err != nil {
		return nil, err
	}
	if cfg.PoolSize, err = intEnv(EnvPoolSize, cfg.PoolSize); err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvSeed); v != "" {
		if cfg.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvSeed, err)
		}
	}
	if v := os.Getenv(EnvExecutor); v != "" {
		if cfg.Executor, err = ParseExecutor(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvExecutor, err)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(v)); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	if v := os.Getenv(EnvVerify); v != "" {
		if cfg.Verify, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvVerify, err)
		}
	}
	return cfg, nil
}

// ParseExecutor validates an executor name.
func ParseExecutor(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case ExecutorSpawn, ExecutorPool:
		return n, nil
	default:
		return "", fmt.Errorf("unknown executor %q (want %s or %s)", name, ExecutorSpawn, ExecutorPool)
	}
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// loadEnvFile attempts to look up until it finds a .env file
func loadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	// Look up to 5 levels
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
