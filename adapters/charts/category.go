package charts

import (
	"fmt"

	"cropeda/internal/errors"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Bar draws one bar per category. Used for per-label means and label counts.
func (r *Renderer) Bar(title, xLabel, yLabel string, categories []string, values []float64, fill string) (Chart, error) {
	if len(categories) == 0 || len(categories) != len(values) {
		return Chart{}, errors.NoData("no categories to plot")
	}

	p := newPlot(title, xLabel, yLabel)
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(14))
	if err != nil {
		return Chart{}, errors.Wrap(err, "failed to build bar chart")
	}
	bars.Color = Color(fill)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(categories...)
	rotateX(p)
	return r.encode(p, r.opts.Width*2, r.opts.Height*1.5)
}

// MeanBar draws the mean of feature for every group
func (r *Renderer) MeanBar(feature, groupBy string, groups []string, means []float64, fill string) (Chart, error) {
	return r.Bar(fmt.Sprintf("Average %s by %s", feature, groupBy), groupBy, feature, groups, means, fill)
}

// CountPlot draws how often each category occurs
func (r *Renderer) CountPlot(column string, categories []string, counts []int) (Chart, error) {
	values := make([]float64, len(counts))
	for i, n := range counts {
		values[i] = float64(n)
	}
	return r.Bar(fmt.Sprintf("Distribution of %s", column), column, "Count", categories, values, "skyblue")
}
