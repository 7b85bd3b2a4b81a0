package growth

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const bytesPerMB = 1 << 20

// RenderChart writes a PNG of the observed samples with every fitted
// curve overlaid. Sizes are drawn in megabytes.
func RenderChart(path string, samples []Sample, fits []*Fit) error {
	p := plot.New()
	p.Title.Text = "Table size vs record count"
	p.X.Label.Text = "records"
	p.Y.Label.Text = "size (MB)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = float64(s.Records)
		pts[i].Y = float64(s.Bytes) / bytesPerMB
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(4)
	p.Add(scatter)
	p.Legend.Add("observed", scatter)

	for i, f := range fits {
		fit := f
		line := plotter.NewFunction(func(x float64) float64 {
			return fit.Eval(x) / bytesPerMB
		})
		line.Samples = 200
		line.Width = vg.Points(2)
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (R²=%.4f)", fit.Formula(), fit.R2), line)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	p.X.Min = float64(samples[0].Records)
	p.X.Max = float64(samples[len(samples)-1].Records)

	if err := p.Save(10*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}
