// Package main provides the msgbench CLI: synthetic message dataset
// generation, table-growth regression analysis, and an embedded
// load/measure benchmark loop.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/msgbench/msgbench/internal/dataset"
	"github.com/msgbench/msgbench/internal/growth"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes per error class. Operators branch on these in load
// scripts, so they are part of the CLI contract.
const (
	exitOK               = 0
	exitFailure          = 1
	exitInvalidArgument  = 2
	exitIOError          = 3
	exitParseError       = 4
	exitInsufficientData = 5
)

const helpText = `msgbench — storage growth benchmarking for a clustered messages table

USAGE:
    msgbench <command> [options]

COMMANDS:
    generate    Generate a synthetic message dataset CSV for bulk loading
    analyze     Fit regression curves to (record_count,size_in_bytes) samples
    bench       Run the generate/load/compact/measure loop against embedded SQLite
    version     Show version information
    help        Show this help message

Run 'msgbench <command> -h' for command options.

TYPICAL FLOW:
    msgbench generate --count 100000 --output messages.csv
    # bulk load messages.csv externally, measure, append to stats.csv; or:
    msgbench bench --counts 1000,2000,4000,8000 --stats stats.csv
    msgbench analyze --input stats.csv --degree 1 --chart growth.png

EXIT CODES:
    0 success, 2 invalid argument, 3 I/O error, 4 parse error,
    5 insufficient data, 1 other failure
`

func printHelp() {
	fmt.Print(helpText)
}

func printVersion() {
	fmt.Printf("msgbench %s (commit %s, built %s)\n", version, commit, date)
}

func main() {
	if len(os.Args) == 1 {
		printHelp()
		return
	}

	var err error
	switch os.Args[1] {
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printHelp()
		return
	case "generate":
		err = generateCommand(os.Args[2:])
	case "analyze":
		err = analyzeCommand(os.Args[2:])
	case "bench":
		err = benchCommand(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(exitInvalidArgument)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "msgbench %s: %v\n", os.Args[1], err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy onto distinct exit codes.
func exitCode(err error) int {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, dataset.ErrInvalidCount),
		errors.Is(err, growth.ErrInvalidDegree),
		errors.Is(err, errUsage):
		return exitInvalidArgument
	case errors.Is(err, growth.ErrInsufficientData):
		return exitInsufficientData
	case errors.Is(err, growth.ErrMalformedSamples),
		errors.Is(err, dataset.ErrMalformedRecord):
		return exitParseError
	case errors.As(err, &pathErr):
		return exitIOError
	default:
		return exitFailure
	}
}

// errUsage marks flag-level validation failures.
var errUsage = errors.New("invalid usage")

// Environment variable helpers
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
