package growth

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// Model names the curve family a Fit belongs to.
type Model string

const (
	ModelPoly Model = "poly"
	ModelLog  Model = "log"
)

// Fit is a fitted regression curve over the sample set. Descriptive
// only: nothing is claimed about behavior beyond the sampled range.
type Fit struct {
	Model  Model
	Degree int

	// Coeffs in ascending order: y = Coeffs[0] + Coeffs[1]*x + ...
	// For ModelLog: y = Coeffs[0] + Coeffs[1]*ln(x).
	Coeffs []float64

	R2 float64
}

// FitPoly fits a least-squares polynomial of the given degree to
// (records, bytes). At least degree+1 samples are required, and never
// fewer than two.
func FitPoly(samples []Sample, degree int) (*Fit, error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDegree, degree)
	}
	if len(samples) < 2 || len(samples) < degree+1 {
		return nil, fmt.Errorf("%w: degree %d needs %d samples, have %d",
			ErrInsufficientData, degree, degree+1, len(samples))
	}

	xs, ys := sampleFloats(samples)
	coeffs, err := leastSquares(xs, ys, degree)
	if err != nil {
		return nil, err
	}

	f := &Fit{Model: ModelPoly, Degree: degree, Coeffs: coeffs}
	f.R2 = rSquared(f, xs, ys)
	return f, nil
}

// FitLog fits y = a*ln(x) + b, the model that tracks storage engines
// whose per-record overhead shrinks as segments merge.
func FitLog(samples []Sample) (*Fit, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientData, len(samples))
	}

	xs, ys := sampleFloats(samples)
	lnxs := make([]float64, len(xs))
	for i, x := range xs {
		lnxs[i] = math.Log(x)
	}
	coeffs, err := leastSquares(lnxs, ys, 1)
	if err != nil {
		return nil, err
	}

	f := &Fit{Model: ModelLog, Degree: 1, Coeffs: coeffs}
	f.R2 = rSquared(f, xs, ys)
	return f, nil
}

// Eval evaluates the fitted curve at x.
func (f *Fit) Eval(x float64) float64 {
	if f.Model == ModelLog {
		return f.Coeffs[0] + f.Coeffs[1]*math.Log(x)
	}
	// Horner, coefficients ascending
	y := 0.0
	for i := len(f.Coeffs) - 1; i >= 0; i-- {
		y = y*x + f.Coeffs[i]
	}
	return y
}

// Formula renders the fit as a human-readable equation.
func (f *Fit) Formula() string {
	var b strings.Builder
	b.WriteString("y = ")
	if f.Model == ModelLog {
		fmt.Fprintf(&b, "%.6g*ln(x) + %.6g", f.Coeffs[1], f.Coeffs[0])
		return b.String()
	}
	for i := len(f.Coeffs) - 1; i >= 0; i-- {
		if i < len(f.Coeffs)-1 {
			b.WriteString(" + ")
		}
		switch i {
		case 0:
			fmt.Fprintf(&b, "%.6g", f.Coeffs[i])
		case 1:
			fmt.Fprintf(&b, "%.6g*x", f.Coeffs[i])
		default:
			fmt.Fprintf(&b, "%.6g*x^%d", f.Coeffs[i], i)
		}
	}
	return b.String()
}

func sampleFloats(samples []Sample) (xs, ys []float64) {
	xs = make([]float64, len(samples))
	ys = make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s.Records)
		ys[i] = float64(s.Bytes)
	}
	return xs, ys
}

// leastSquares solves the Vandermonde system for an ascending
// coefficient vector via QR.
func leastSquares(xs, ys []float64, degree int) ([]float64, error) {
	a := mat.NewDense(len(xs), degree+1, nil)
	for i, x := range xs {
		v := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}
	b := mat.NewVecDense(len(ys), ys)

	var qr mat.QR
	qr.Factorize(a)
	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, b); err != nil {
		return nil, fmt.Errorf("least-squares solve failed: %w", err)
	}

	coeffs := make([]float64, degree+1)
	copy(coeffs, c.RawVector().Data)
	return coeffs, nil
}

// rSquared is the coefficient of determination of the fit against the
// observed points.
func rSquared(f *Fit, xs, ys []float64) float64 {
	mean, err := stats.Mean(ys)
	if err != nil {
		return math.NaN()
	}
	var ssRes, ssTot float64
	for i, x := range xs {
		d := ys[i] - f.Eval(x)
		ssRes += d * d
		t := ys[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}
