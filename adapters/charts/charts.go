package charts

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"math"
	"time"

	"cropeda/internal"
	"cropeda/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Options control the size of rendered charts
type Options struct {
	Width  vg.Length
	Height vg.Length
	Bins   int
}

// DefaultOptions renders 6x4 inch charts with 20 histogram bins
func DefaultOptions() Options {
	return Options{Width: 6 * vg.Inch, Height: 4 * vg.Inch, Bins: 20}
}

// InchOptions builds options from sizes given in inches
func InchOptions(widthIn, heightIn float64, bins int) Options {
	return Options{Width: vg.Length(widthIn) * vg.Inch, Height: vg.Length(heightIn) * vg.Inch, Bins: bins}
}

// Chart is a rendered PNG with its title
type Chart struct {
	Title string
	PNG   []byte
}

// DataURI returns the chart as an inline image source
func (c Chart) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(c.PNG)
}

// Renderer draws charts with gonum/plot and encodes them as PNG
type Renderer struct {
	opts   Options
	logger *internal.Logger
}

// NewRenderer creates a renderer, filling zero options with defaults
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Bins < 1 {
		opts.Bins = def.Bins
	}
	return &Renderer{opts: opts, logger: internal.DefaultLogger.With("Charts")}
}

// Options returns the effective options
func (r *Renderer) Options() Options {
	return r.opts
}

func (r *Renderer) encode(p *plot.Plot, w, h vg.Length) (Chart, error) {
	start := time.Now()
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return Chart{}, errors.Wrap(err, "failed to create PNG canvas")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return Chart{}, errors.Wrap(err, "failed to encode PNG")
	}
	r.logger.Debug("Rendered %q in %.2fms (%d bytes)", p.Title.Text, float64(time.Since(start).Nanoseconds())/1e6, buf.Len())
	return Chart{Title: p.Title.Text, PNG: buf.Bytes()}, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// rotateX tilts nominal tick labels so long crop names do not overlap
func rotateX(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
}

var namedColors = map[string]color.RGBA{
	"skyblue":         {R: 135, G: 206, B: 235, A: 255},
	"salmon":          {R: 250, G: 128, B: 114, A: 255},
	"lightgreen":      {R: 144, G: 238, B: 144, A: 255},
	"coral":           {R: 255, G: 127, B: 80, A: 255},
	"plum":            {R: 221, G: 160, B: 221, A: 255},
	"mediumvioletred": {R: 199, G: 21, B: 133, A: 255},
	"steelblue":       {R: 70, G: 130, B: 180, A: 255},
	"darkblue":        {R: 0, G: 0, B: 139, A: 255},
}

// Color resolves a color name, steelblue when unknown
func Color(name string) color.Color {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return namedColors["steelblue"]
}

// finite drops missing and infinite values
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
