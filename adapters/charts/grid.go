package charts

import (
	"bytes"
	"fmt"

	"cropeda/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Series is one named column of values for a multi-panel chart
type Series struct {
	Name   string
	Values []float64
	Fill   string
}

// HistogramGrid draws one histogram panel per series, cols panels per row,
// aligned on a single canvas.
func (r *Renderer) HistogramGrid(title string, series []Series, cols int) (Chart, error) {
	if len(series) == 0 {
		return Chart{}, errors.NoData("no series to plot")
	}
	if cols < 1 {
		cols = 1
	}
	rows := (len(series) + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, cols)
	}
	for k, s := range series {
		p, err := r.histogramPlot(fmt.Sprintf("Distribution of %s", s.Name), s.Name, s.Values, s.Fill)
		if err != nil {
			return Chart{}, err
		}
		plots[k/cols][k%cols] = p
	}

	img := vgimg.New(r.opts.Width*vg.Length(cols), r.opts.Height*vg.Length(rows))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j, p := range plots[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return Chart{}, errors.Wrap(err, "failed to encode PNG")
	}
	r.logger.Debug("Rendered %d-panel grid %q (%d bytes)", len(series), title, buf.Len())
	return Chart{Title: title, PNG: buf.Bytes()}, nil
}
