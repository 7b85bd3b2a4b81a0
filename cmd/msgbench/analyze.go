// Package main provides the analyze CLI command.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/msgbench/msgbench/internal/growth"
	"github.com/msgbench/msgbench/internal/logger"
)

// AnalyzeConfig holds configuration for the analyze command
type AnalyzeConfig struct {
	Input    string
	Degree   int
	Model    string
	Chart    string
	Forecast int64
}

func parseAnalyzeFlags(args []string) (*AnalyzeConfig, error) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)

	input := fs.String("input", "", "Measurement CSV path (required)")
	degree := fs.Int("degree", 1, "Polynomial degree for the poly model")
	model := fs.String("model", "poly", "Regression model: poly, log, or both")
	chart := fs.String("chart", "", "Write a PNG chart to this path (optional)")
	forecast := fs.Int64("forecast", 0, "Forecast size at this record count (0 = none)")
	logLevel := fs.String("log-level", getEnv("MSGBENCH_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	logFormat := fs.String("log-format", getEnv("MSGBENCH_LOG_FORMAT", "console"), "Log format: json, console")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `
Usage: msgbench analyze [OPTIONS]

Fit regression curves to a table of record_count,size_in_bytes samples
and report formula, R², bytes/record and an optional forecast. A
malformed row aborts the run; rows are never skipped or coerced.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  msgbench analyze --input stats.csv
  msgbench analyze --input stats.csv --degree 2 --chart growth.png
  msgbench analyze --input stats.csv --model both --forecast 11000000000000
`)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	logger.Initialize(*logLevel, *logFormat)

	if *input == "" {
		return nil, fmt.Errorf("%w: --input is required", errUsage)
	}
	switch *model {
	case "poly", "log", "both":
	default:
		return nil, fmt.Errorf("%w: unknown model %q", errUsage, *model)
	}

	return &AnalyzeConfig{
		Input:    *input,
		Degree:   *degree,
		Model:    *model,
		Chart:    *chart,
		Forecast: *forecast,
	}, nil
}

func analyzeCommand(args []string) error {
	cfg, err := parseAnalyzeFlags(args)
	if err != nil {
		return err
	}
	return runAnalyze(cfg)
}

func runAnalyze(cfg *AnalyzeConfig) error {
	samples, err := growth.LoadSamples(cfg.Input)
	if err != nil {
		return err
	}

	var fits []*growth.Fit
	if cfg.Model == "poly" || cfg.Model == "both" {
		fit, err := growth.FitPoly(samples, cfg.Degree)
		if err != nil {
			return err
		}
		fits = append(fits, fit)
	}
	if cfg.Model == "log" || cfg.Model == "both" {
		fit, err := growth.FitLog(samples)
		if err != nil {
			return err
		}
		fits = append(fits, fit)
	}

	report := growth.BuildReport(samples, fits, cfg.Forecast)
	report.Log(logger.Get())

	// stdout carries the formulas so scripts can capture them without
	// parsing log output
	for _, f := range fits {
		fmt.Printf("%s\t%s\tR2=%.6f\n", f.Model, f.Formula(), f.R2)
	}

	if cfg.Chart != "" {
		if err := growth.RenderChart(cfg.Chart, samples, fits); err != nil {
			return err
		}
		logger.Get().Info().Str("chart", cfg.Chart).Msg("chart written")
	}
	return nil
}
