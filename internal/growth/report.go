package growth

import (
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
)

// Report bundles everything the analyze command prints about a fit run.
type Report struct {
	Samples []Sample
	Fits    []*Fit

	// BytesPerRecord of the largest sample, the figure capacity
	// planning actually uses.
	BytesPerRecord float64

	// MeanBytesPerRecord across all samples, for spotting drift.
	MeanBytesPerRecord float64

	// ForecastCount and ForecastBytes are set when a forecast was
	// requested; the size comes from the first fit.
	ForecastCount int64
	ForecastBytes float64
}

// BuildReport derives the summary figures. forecastCount of zero means
// no forecast.
func BuildReport(samples []Sample, fits []*Fit, forecastCount int64) *Report {
	r := &Report{Samples: samples, Fits: fits}

	last := samples[len(samples)-1]
	r.BytesPerRecord = float64(last.Bytes) / float64(last.Records)

	ratios := make([]float64, len(samples))
	for i, s := range samples {
		ratios[i] = float64(s.Bytes) / float64(s.Records)
	}
	if mean, err := stats.Mean(ratios); err == nil {
		r.MeanBytesPerRecord = mean
	}

	if forecastCount > 0 && len(fits) > 0 {
		r.ForecastCount = forecastCount
		r.ForecastBytes = fits[0].Eval(float64(forecastCount))
	}
	return r
}

// Log writes the report through the given logger.
func (r *Report) Log(lg *zerolog.Logger) {
	last := r.Samples[len(r.Samples)-1]
	lg.Info().
		Int("samples", len(r.Samples)).
		Int64("max_records", last.Records).
		Int64("max_bytes", last.Bytes).
		Float64("bytes_per_record", r.BytesPerRecord).
		Float64("mean_bytes_per_record", r.MeanBytesPerRecord).
		Msg("measurement summary")

	for _, f := range r.Fits {
		lg.Info().
			Str("model", string(f.Model)).
			Int("degree", f.Degree).
			Str("formula", f.Formula()).
			Float64("r2", f.R2).
			Msg("fitted curve")
	}

	if r.ForecastCount > 0 {
		lg.Info().
			Int64("records", r.ForecastCount).
			Float64("bytes", r.ForecastBytes).
			Float64("terabytes", r.ForecastBytes/(1<<40)).
			Msg("forecast (descriptive fit, no error bounds)")
	}
}
