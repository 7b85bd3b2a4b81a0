// Package main provides the generate CLI command.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/msgbench/msgbench/internal/dataset"
	"github.com/msgbench/msgbench/internal/logger"
)

// GenerateConfig holds configuration for the generate command
type GenerateConfig struct {
	Count         int
	Output        string
	Gzip          bool
	ProgressEvery int
	Dataset       dataset.Config
}

func parseGenerateFlags(args []string) (*GenerateConfig, error) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)

	count := fs.Int("count", 0, "Number of messages to generate (required, > 0)")
	output := fs.String("output", "messages.csv", "Output CSV file path")
	chatID := fs.Int64("chat-id", 0, "Fix every message to this chat id (0 = random chats)")
	seed := fs.Int64("seed", getEnvInt64("MSGBENCH_SEED", 42), "Random seed")
	useGzip := fs.Bool("gzip", false, "Compress output with gzip")
	attachments := fs.Bool("attachments", false, "Include JSON media blobs in the kludges column")
	progressEvery := fs.Int("progress-every", 10000, "Log progress every N rows (0 = quiet)")
	logLevel := fs.String("log-level", getEnv("MSGBENCH_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	logFormat := fs.String("log-format", getEnv("MSGBENCH_LOG_FORMAT", "console"), "Log format: json, console")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `
Usage: msgbench generate [OPTIONS]

Generate a synthetic message dataset as headered CSV, one row per
message, list columns bracketed ([1,2,3]). The file is what an external
bulk loader consumes; nothing is loaded here.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  msgbench generate --count 1000000 --output messages.csv
  msgbench generate --count 500000 --chat-id 1234 --output one_chat.csv
  msgbench generate --count 1000000 --gzip --output messages.csv.gz
`)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	logger.Initialize(*logLevel, *logFormat)

	return &GenerateConfig{
		Count:         *count,
		Output:        *output,
		Gzip:          *useGzip,
		ProgressEvery: *progressEvery,
		Dataset: dataset.Config{
			Seed:        *seed,
			ChatID:      *chatID,
			Attachments: *attachments,
		},
	}, nil
}

func generateCommand(args []string) error {
	cfg, err := parseGenerateFlags(args)
	if err != nil {
		return err
	}
	return runGenerate(cfg)
}

func runGenerate(cfg *GenerateConfig) error {
	start := time.Now()

	opts := dataset.FileOptions{Gzip: cfg.Gzip, ProgressEvery: cfg.ProgressEvery}
	if cfg.ProgressEvery > 0 {
		opts.OnProgress = func(written int) {
			elapsed := time.Since(start).Seconds()
			logger.Get().Info().
				Int("written", written).
				Int("total", cfg.Count).
				Float64("msg_per_sec", float64(written)/elapsed).
				Msg("generating")
		}
	}

	if err := dataset.GenerateFile(cfg.Dataset, cfg.Count, cfg.Output, opts); err != nil {
		return err
	}

	fi, err := os.Stat(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to stat output file: %w", err)
	}
	logger.Get().Info().
		Int("messages", cfg.Count).
		Str("output", cfg.Output).
		Int64("file_bytes", fi.Size()).
		Float64("bytes_per_record", float64(fi.Size())/float64(cfg.Count)).
		Dur("elapsed", time.Since(start)).
		Msg("dataset generated")
	return nil
}
