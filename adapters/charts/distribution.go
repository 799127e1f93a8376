package charts

import (
	"fmt"
	"math"

	"cropeda/internal/errors"

	mstats "github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const densityPoints = 200

// density evaluates a Gaussian KDE with Scott's bandwidth over the data range
// widened by widen bandwidths. ok is false when the bandwidth degenerates.
func density(data []float64, widen float64) (xs, ys []float64, ok bool) {
	sample := mstats.Sample{Xs: data}
	bw := mstats.BandwidthScott(sample)
	if bw <= 0 || math.IsNaN(bw) || math.IsInf(bw, 0) {
		return nil, nil, false
	}
	kde := mstats.KDE{Sample: sample, Kernel: mstats.GaussianKernel, Bandwidth: bw}
	lo, hi := sample.Bounds()
	xs = vec.Linspace(lo-widen*bw, hi+widen*bw, densityPoints)
	return xs, vec.Map(kde.PDF, xs), true
}

// Histogram draws a count histogram of values with a KDE curve scaled to counts
func (r *Renderer) Histogram(feature string, values []float64, fill string) (Chart, error) {
	p, err := r.histogramPlot(fmt.Sprintf("Distribution of %s", feature), feature, values, fill)
	if err != nil {
		return Chart{}, err
	}
	return r.encode(p, r.opts.Width, r.opts.Height)
}

func (r *Renderer) histogramPlot(title, feature string, values []float64, fill string) (*plot.Plot, error) {
	data := finite(values)
	if len(data) == 0 {
		return nil, errors.NoData("no values to plot for " + feature)
	}

	p := newPlot(title, feature, "Count")
	h, err := plotter.NewHist(plotter.Values(data), r.opts.Bins)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bin histogram")
	}
	h.FillColor = Color(fill)
	h.LineStyle.Width = vg.Points(0.5)
	p.Add(h)

	if xs, ys, ok := density(data, 0); ok {
		scale := float64(len(data)) * h.Width
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = xs[i]
			pts[i].Y = ys[i] * scale
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to draw density")
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = Color("darkblue")
		p.Add(line)
	}
	return p, nil
}

// Box draws a single box plot of values
func (r *Renderer) Box(feature string, values []float64, fill string) (Chart, error) {
	data := finite(values)
	if len(data) == 0 {
		return Chart{}, errors.NoData("no values to plot for " + feature)
	}

	p := newPlot(fmt.Sprintf("Boxplot of %s", feature), "", feature)
	box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(data))
	if err != nil {
		return Chart{}, errors.Wrap(err, "failed to build box plot")
	}
	box.FillColor = Color(fill)
	p.Add(box)
	p.NominalX(feature)
	return r.encode(p, r.opts.Width, r.opts.Height)
}

// Violin draws one mirrored density outline per group, groups in the given order
func (r *Renderer) Violin(feature, groupBy string, groups []string, values [][]float64, fill string) (Chart, error) {
	if len(groups) == 0 {
		return Chart{}, errors.NoData("no groups to plot for " + feature)
	}

	p := newPlot(fmt.Sprintf("Violin Plot of %s by %s", feature, groupBy), groupBy, feature)
	const halfWidth = 0.4
	for i, g := range groups {
		data := finite(values[i])
		if len(data) == 0 {
			continue
		}
		xs, ys, ok := density(data, 2)
		if !ok {
			// constant group: draw a flat bar at its value
			xs, ys = []float64{data[0], data[0]}, []float64{1, 1}
		}
		peak := 0.0
		for _, y := range ys {
			peak = math.Max(peak, y)
		}

		outline := make(plotter.XYs, 0, 2*len(xs))
		for k := range xs {
			outline = append(outline, plotter.XY{X: float64(i) + halfWidth*ys[k]/peak, Y: xs[k]})
		}
		for k := len(xs) - 1; k >= 0; k-- {
			outline = append(outline, plotter.XY{X: float64(i) - halfWidth*ys[k]/peak, Y: xs[k]})
		}
		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return Chart{}, errors.Wrapf(err, "failed to outline group %s", g)
		}
		poly.Color = Color(fill)
		poly.LineStyle.Width = vg.Points(0.5)
		p.Add(poly)
	}
	p.NominalX(groups...)
	rotateX(p)
	return r.encode(p, r.opts.Width*2, r.opts.Height*1.5)
}
