package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/msgbench/msgbench/internal/dataset"
	"github.com/msgbench/msgbench/internal/growth"
	"github.com/msgbench/msgbench/internal/logger"
)

// Config controls a benchmark run.
type Config struct {
	// DataDir holds the per-round database and dataset files.
	DataDir string

	// StatsPath is the measurement CSV the rounds append to.
	StatsPath string

	// Dataset configures the generator used for every round. Each round
	// regenerates from the same seed, so a round of 2000 contains the
	// round of 1000 as a prefix, matching how the manual procedure kept
	// loading into the same growing table.
	Dataset dataset.Config

	// KeepArtifacts leaves the per-round files in DataDir instead of
	// removing them after measurement.
	KeepArtifacts bool
}

// Run executes one measurement round per target count and returns the
// appended samples. Counts must be positive and strictly increasing. A
// failed round aborts the run; rounds already measured stay in the
// stats file.
func Run(ctx context.Context, cfg Config, counts []int) ([]growth.Sample, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w, got none", dataset.ErrInvalidCount)
	}
	for i, c := range counts {
		if c <= 0 {
			return nil, fmt.Errorf("%w, got %d", dataset.ErrInvalidCount, c)
		}
		if i > 0 && c <= counts[i-1] {
			return nil, fmt.Errorf("%w: counts must be strictly increasing", dataset.ErrInvalidCount)
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	samples := make([]growth.Sample, 0, len(counts))
	for _, count := range counts {
		s, err := runRound(ctx, cfg, count)
		if err != nil {
			return samples, fmt.Errorf("round of %d records: %w", count, err)
		}
		if err := growth.AppendSample(cfg.StatsPath, s); err != nil {
			return samples, err
		}
		samples = append(samples, s)

		logger.Get().Info().
			Int64("records", s.Records).
			Int64("bytes", s.Bytes).
			Float64("bytes_per_record", float64(s.Bytes)/float64(s.Records)).
			Msg("measured round")
	}
	return samples, nil
}

// runRound generates a dataset file, loads it into a fresh store,
// compacts, and measures. The dataset goes through the CSV file rather
// than straight from the generator so each round exercises the same
// artifact an external bulk loader would consume.
func runRound(ctx context.Context, cfg Config, count int) (growth.Sample, error) {
	csvPath := filepath.Join(cfg.DataDir, fmt.Sprintf("messages_%d.csv", count))
	dbPath := filepath.Join(cfg.DataDir, fmt.Sprintf("messages_%d.db", count))
	if !cfg.KeepArtifacts {
		defer os.Remove(csvPath)
		defer os.Remove(dbPath)
	}

	// A leftover database from an aborted run would distort the size.
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return growth.Sample{}, fmt.Errorf("failed to remove stale database: %w", err)
	}

	if err := dataset.GenerateFile(cfg.Dataset, count, csvPath, dataset.FileOptions{}); err != nil {
		return growth.Sample{}, err
	}
	msgs, err := dataset.ReadFile(csvPath)
	if err != nil {
		return growth.Sample{}, err
	}

	st, err := Open(dbPath)
	if err != nil {
		return growth.Sample{}, err
	}
	defer st.Close()

	if err := st.LoadMessages(ctx, msgs); err != nil {
		return growth.Sample{}, err
	}
	if err := st.Compact(ctx); err != nil {
		return growth.Sample{}, err
	}

	loaded, err := st.Count(ctx)
	if err != nil {
		return growth.Sample{}, err
	}
	if loaded != int64(count) {
		return growth.Sample{}, fmt.Errorf("loaded %d messages, expected %d", loaded, count)
	}

	size, err := st.SizeOnDisk()
	if err != nil {
		return growth.Sample{}, err
	}
	return growth.Sample{Records: int64(count), Bytes: size}, nil
}
