package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// measuredSamples are real compacted sizes from a Cassandra messages
// table loaded at doubling record counts.
var measuredSamples = []Sample{
	{1000, 233561},
	{2000, 456033},
	{4000, 919431},
	{8000, 1828982},
}

func TestFitPolyLinearGrowth(t *testing.T) {
	fit, err := FitPoly(measuredSamples, 1)
	require.NoError(t, err)

	require.Len(t, fit.Coeffs, 2)
	slope := fit.Coeffs[1]
	assert.InDelta(t, 228.27, slope, 3.0, "bytes per record slope")
	assert.Greater(t, fit.R2, 0.999, "growth should be near-linear")
}

func TestFitPolyExactLine(t *testing.T) {
	samples := []Sample{{1, 107}, {2, 207}, {3, 307}, {4, 407}}
	fit, err := FitPoly(samples, 1)
	require.NoError(t, err)

	assert.InDelta(t, 7, fit.Coeffs[0], 1e-6)
	assert.InDelta(t, 100, fit.Coeffs[1], 1e-6)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)
	assert.InDelta(t, 1007, fit.Eval(10), 1e-6)
}

func TestFitPolyQuadratic(t *testing.T) {
	// y = 2x^2 + 3x + 5
	var samples []Sample
	for _, x := range []int64{1, 2, 3, 5, 8} {
		samples = append(samples, Sample{x, 2*x*x + 3*x + 5})
	}

	fit, err := FitPoly(samples, 2)
	require.NoError(t, err)
	require.Len(t, fit.Coeffs, 3)
	assert.InDelta(t, 5, fit.Coeffs[0], 1e-6)
	assert.InDelta(t, 3, fit.Coeffs[1], 1e-6)
	assert.InDelta(t, 2, fit.Coeffs[2], 1e-6)
}

func TestFitLog(t *testing.T) {
	// y = 3*ln(x) + 7
	var samples []Sample
	for _, x := range []int64{10, 100, 1000, 10000} {
		samples = append(samples, Sample{x, int64(math.Round(3*math.Log(float64(x)) + 7))})
	}

	fit, err := FitLog(samples)
	require.NoError(t, err)
	assert.InDelta(t, 7, fit.Coeffs[0], 0.5)
	assert.InDelta(t, 3, fit.Coeffs[1], 0.1)
	assert.InDelta(t, 3*math.Log(500)+7, fit.Eval(500), 1.0)
}

func TestFitInsufficientData(t *testing.T) {
	_, err := FitPoly([]Sample{{1000, 233561}}, 1)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = FitLog([]Sample{{1000, 233561}})
	require.ErrorIs(t, err, ErrInsufficientData)

	// degree 3 needs four samples
	_, err = FitPoly(measuredSamples[:3], 3)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestFitInvalidDegree(t *testing.T) {
	for _, degree := range []int{0, -1} {
		_, err := FitPoly(measuredSamples, degree)
		require.ErrorIs(t, err, ErrInvalidDegree, "degree %d", degree)
	}
}

func TestFormula(t *testing.T) {
	tests := []struct {
		name     string
		fit      *Fit
		expected string
	}{
		{"linear", &Fit{Model: ModelPoly, Degree: 1, Coeffs: []float64{5, 100}}, "y = 100*x + 5"},
		{"quadratic", &Fit{Model: ModelPoly, Degree: 2, Coeffs: []float64{5, 3, 2}}, "y = 2*x^2 + 3*x + 5"},
		{"log", &Fit{Model: ModelLog, Degree: 1, Coeffs: []float64{7, 3}}, "y = 3*ln(x) + 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fit.Formula(); got != tt.expected {
				t.Errorf("Formula() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	fit, err := FitPoly(measuredSamples, 1)
	require.NoError(t, err)

	report := BuildReport(measuredSamples, []*Fit{fit}, 1_000_000)

	assert.InDelta(t, 228.6, report.BytesPerRecord, 0.2)
	assert.Greater(t, report.MeanBytesPerRecord, 225.0)
	assert.Equal(t, int64(1_000_000), report.ForecastCount)
	// forecast tracks the slope over the sampled range
	assert.InDelta(t, 228.27e6, report.ForecastBytes, 1e6)
}
