package charts

import (
	"fmt"
	"math"

	"cropeda/adapters/stats"
	"cropeda/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Scatter plots y against x, skipping rows where either value is missing
func (r *Renderer) Scatter(xName, yName string, xs, ys []float64, fill string) (Chart, error) {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return Chart{}, errors.NoData(fmt.Sprintf("no complete %s/%s pairs to plot", xName, yName))
	}

	p := newPlot(fmt.Sprintf("Scatterplot of %s vs %s", xName, yName), xName, yName)
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return Chart{}, errors.Wrap(err, "failed to build scatter plot")
	}
	scatter.GlyphStyle.Color = Color(fill)
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(plotter.NewGrid())
	p.Add(scatter)
	return r.encode(p, r.opts.Width, r.opts.Height)
}

// corrGrid lays a correlation matrix out with the first column at the top row
type corrGrid struct {
	m *stats.CorrMatrix
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.Size()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	return g.m.At(g.m.Size()-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// Heatmap draws a correlation matrix on a diverging blue-red scale fixed to
// [-1, 1], annotated with two-decimal values.
func (r *Renderer) Heatmap(title string, m *stats.CorrMatrix) (Chart, error) {
	if m == nil || m.Size() == 0 {
		return Chart{}, errors.NoData("no numeric columns to correlate")
	}
	p, err := heatmapPlot(title, m)
	if err != nil {
		return Chart{}, err
	}
	side := r.opts.Width * 1.5
	return r.encode(p, side, side)
}

func heatmapPlot(title string, m *stats.CorrMatrix) (*plot.Plot, error) {
	grid := corrGrid{m: m}
	n := m.Size()

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min, hm.Max = -1, 1

	var xys plotter.XYs
	var labels []string
	for c := 0; c < n; c++ {
		for row := 0; row < n; row++ {
			z := grid.Z(c, row)
			if math.IsNaN(z) {
				continue
			}
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(row)})
			labels = append(labels, fmt.Sprintf("%.2f", z))
		}
	}

	p := newPlot(title, "", "")
	p.Add(hm)
	if len(xys) > 0 {
		annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, errors.Wrap(err, "failed to annotate heatmap")
		}
		for i := range annotations.TextStyle {
			annotations.TextStyle[i].XAlign = text.XCenter
			annotations.TextStyle[i].YAlign = text.YCenter
			annotations.TextStyle[i].Font.Size = vg.Points(7)
		}
		p.Add(annotations)
	}

	reversed := make([]string, n)
	for i, name := range m.Names {
		reversed[n-1-i] = name
	}
	p.NominalX(m.Names...)
	p.NominalY(reversed...)
	rotateX(p)
	return p, nil
}
