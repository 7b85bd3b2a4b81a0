// Package main provides the bench CLI command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/msgbench/msgbench/internal/bench"
	"github.com/msgbench/msgbench/internal/dataset"
	"github.com/msgbench/msgbench/internal/logger"
)

// BenchConfig holds configuration for the bench command
type BenchConfig struct {
	Counts []int
	Bench  bench.Config
}

func parseBenchFlags(args []string) (*BenchConfig, error) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)

	counts := fs.String("counts", "", "Comma-separated record counts, strictly increasing (required)")
	dataDir := fs.String("data-dir", "./benchdata", "Directory for per-round database and dataset files")
	statsPath := fs.String("stats", "growth_stats.csv", "Stats CSV to append measurements to")
	chatID := fs.Int64("chat-id", 0, "Fix every message to this chat id (0 = random chats)")
	seed := fs.Int64("seed", getEnvInt64("MSGBENCH_SEED", 42), "Random seed")
	attachments := fs.Bool("attachments", false, "Include JSON media blobs in the kludges column")
	keep := fs.Bool("keep", false, "Keep per-round artifacts instead of deleting them")
	logLevel := fs.String("log-level", getEnv("MSGBENCH_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	logFormat := fs.String("log-format", getEnv("MSGBENCH_LOG_FORMAT", "console"), "Log format: json, console")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `
Usage: msgbench bench [OPTIONS]

Run the full measurement loop locally: for each count, generate a
dataset, bulk-load it into a fresh embedded SQLite messages table,
compact, measure the file size, and append record_count,size_in_bytes
to the stats CSV. The stats file feeds straight into 'msgbench analyze'.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  msgbench bench --counts 1000,2000,4000,8000 --stats stats.csv
  msgbench bench --counts 10000,100000 --data-dir /tmp/bench --keep
`)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	logger.Initialize(*logLevel, *logFormat)

	if *counts == "" {
		return nil, fmt.Errorf("%w: --counts is required", errUsage)
	}
	parsed, err := parseCounts(*counts)
	if err != nil {
		return nil, err
	}

	return &BenchConfig{
		Counts: parsed,
		Bench: bench.Config{
			DataDir:       *dataDir,
			StatsPath:     *statsPath,
			KeepArtifacts: *keep,
			Dataset: dataset.Config{
				Seed:        *seed,
				ChatID:      *chatID,
				Attachments: *attachments,
			},
		},
	}, nil
}

func parseCounts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	counts := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: bad count %q", errUsage, p)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func benchCommand(args []string) error {
	cfg, err := parseBenchFlags(args)
	if err != nil {
		return err
	}

	samples, err := bench.Run(context.Background(), cfg.Bench, cfg.Counts)
	if err != nil {
		return err
	}

	logger.Get().Info().
		Int("rounds", len(samples)).
		Str("stats", cfg.Bench.StatsPath).
		Msg("benchmark complete")
	return nil
}
