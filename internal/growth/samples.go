// Package growth fits regression models to (record_count, size_in_bytes)
// measurements of a growing table and renders the result.
//
// The samples are whatever the operator measured; if they were taken
// after flush and compaction the fitted curve describes compacted
// on-disk size. The analyzer does not infer or adjust for that.
package growth

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Sample is one measurement round: the table held Records rows and
// occupied Bytes on disk.
type Sample struct {
	Records int64
	Bytes   int64
}

// sampleHeader is the canonical header row. Stats files appended by the
// bench loop carry it; hand-built files may omit it.
var sampleHeader = [2]string{"record_count", "size_in_bytes"}

// LoadSamples reads a measurement table. Rows must have strictly
// increasing record counts with no duplicates; any malformed row aborts
// with a ParseError naming the line.
func LoadSamples(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open measurement table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	var samples []Sample
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Field: "row", Cause: err}
			}
			return nil, fmt.Errorf("failed to read measurement table: %w", err)
		}

		// A non-numeric first row must be the canonical header.
		if line == 1 {
			if _, numErr := strconv.ParseInt(rec[0], 10, 64); numErr != nil {
				if rec[0] != sampleHeader[0] || rec[1] != sampleHeader[1] {
					return nil, &ParseError{Line: 1, Field: "header", Value: rec[0] + "," + rec[1]}
				}
				continue
			}
		}

		s, err := parseSample(rec, line)
		if err != nil {
			return nil, err
		}
		if len(samples) > 0 && s.Records <= samples[len(samples)-1].Records {
			return nil, &ParseError{Line: line, Field: "record_count",
				Value: strconv.FormatInt(s.Records, 10),
				Cause: fmt.Errorf("record counts must be strictly increasing")}
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseSample(rec []string, line int) (Sample, error) {
	records, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return Sample{}, &ParseError{Line: line, Field: "record_count", Value: rec[0], Cause: err}
	}
	if records <= 0 {
		return Sample{}, &ParseError{Line: line, Field: "record_count", Value: rec[0],
			Cause: fmt.Errorf("record count must be positive")}
	}
	bytes, err := strconv.ParseInt(rec[1], 10, 64)
	if err != nil {
		return Sample{}, &ParseError{Line: line, Field: "size_in_bytes", Value: rec[1], Cause: err}
	}
	if bytes < 0 {
		return Sample{}, &ParseError{Line: line, Field: "size_in_bytes", Value: rec[1],
			Cause: fmt.Errorf("size must be non-negative")}
	}
	return Sample{Records: records, Bytes: bytes}, nil
}

// AppendSample adds one measurement round to a stats CSV, creating the
// file with a header row when it does not exist yet.
func AppendSample(path string, s Sample) error {
	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open stats file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(sampleHeader[:]); err != nil {
			return fmt.Errorf("failed to write stats header: %w", err)
		}
	}
	if err := w.Write([]string{
		strconv.FormatInt(s.Records, 10),
		strconv.FormatInt(s.Bytes, 10),
	}); err != nil {
		return fmt.Errorf("failed to write stats row: %w", err)
	}
	w.Flush()
	return w.Error()
}
