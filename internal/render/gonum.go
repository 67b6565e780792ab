package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nao1215/plotreport/internal/model"
)

// pointsPerPixel converts 96 DPI pixels to vg lengths.
const pointsPerPixel = 72.0 / 96.0

// PNG renders the model as a PNG image of width x height pixels.
func PNG(m *model.PlotModel, width, height int) ([]byte, error) {
	return encode(m, width, height, "png")
}

// SVG renders the model as an SVG document.
func SVG(m *model.PlotModel, width, height int) (string, error) {
	data, err := encode(m, width, height, "svg")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PDF renders the model as a one page PDF document.
func PDF(m *model.PlotModel, width, height int) ([]byte, error) {
	return encode(m, width, height, "pdf")
}

// Painter draws a plot model onto any gonum canvas.
type Painter struct {
	Model *model.PlotModel
}

// NewPainter returns a Painter for m.
func NewPainter(m *model.PlotModel) *Painter {
	return &Painter{Model: m}
}

// Paint draws the plot to fill c.
func (p *Painter) Paint(c draw.Canvas) error {
	if p.Model == nil {
		return ErrNilModel
	}
	plt, err := newPlot(p.Model)
	if err != nil {
		return err
	}
	plt.Draw(c)
	return nil
}

func encode(m *model.PlotModel, width, height int, ext string) ([]byte, error) {
	if err := checkArgs(m, width, height); err != nil {
		return nil, err
	}
	p, err := newPlot(m)
	if err != nil {
		return nil, err
	}
	w := vg.Length(float64(width) * pointsPerPixel)
	h := vg.Length(float64(height) * pointsPerPixel)
	writer, err := p.WriterTo(w, h, ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s plot writer: %w", ext, err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write %s plot: %w", ext, err)
	}
	return buf.Bytes(), nil
}

func checkArgs(m *model.PlotModel, width, height int) error {
	if m == nil {
		return ErrNilModel
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}

// newPlot converts the model into a gonum plot.
func newPlot(m *model.PlotModel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = m.Title
	if m.Subtitle != "" {
		p.Title.Text += "\n" + m.Subtitle
	}
	p.X.Label.Text = m.XAxisTitle
	p.Y.Label.Text = m.YAxisTitle
	if c, ok := parseColor(m.Background); ok {
		p.BackgroundColor = c
	}
	p.Add(plotter.NewGrid())

	for i := range m.Series {
		s := &m.Series[i]
		c := plotutil.Color(i)
		if custom, ok := parseColor(s.Color); ok {
			c = custom
		}
		thumbnails, err := addSeries(p, s, c)
		if err != nil {
			return nil, fmt.Errorf("series %d: %w", i+1, err)
		}
		if s.Title != "" && len(thumbnails) > 0 {
			p.Legend.Add(s.Title, thumbnails...)
		}
	}
	return p, nil
}

// addSeries adds one plotter per drawable run of s.
func addSeries(p *plot.Plot, s *model.Series, c color.Color) ([]plot.Thumbnailer, error) {
	var thumbnails []plot.Thumbnailer
	for _, run := range drawableRuns(s) {
		xys := make(plotter.XYs, len(run))
		for i, pt := range run {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		switch s.Kind {
		case model.SeriesScatter:
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, err
			}
			sc.GlyphStyle.Color = c
			sc.GlyphStyle.Radius = vg.Length(s.Marker())
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(sc)
			thumbnails = []plot.Thumbnailer{sc}
		default:
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			line.Color = c
			line.Width = vg.Length(s.Thickness())
			if s.Kind == model.SeriesArea {
				line.FillColor = translucent(c)
			}
			p.Add(line)
			thumbnails = []plot.Thumbnailer{line}
		}
	}
	return thumbnails, nil
}

// drawableRuns returns the runs of valid points with infinite coordinates
// also treated as breaks, since they cannot be placed on an axis.
func drawableRuns(s *model.Series) [][]model.DataPoint {
	var runs [][]model.DataPoint
	for _, run := range s.ValidRuns() {
		start := 0
		for i, pt := range run {
			if !math.IsInf(pt.X, 0) && !math.IsInf(pt.Y, 0) {
				continue
			}
			if i > start {
				runs = append(runs, run[start:i])
			}
			start = i + 1
		}
		if start < len(run) {
			runs = append(runs, run[start:])
		}
	}
	return runs
}

func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0x60}
}

// parseColor parses "#RRGGBB" or "#AARRGGBB".
func parseColor(s string) (color.NRGBA, bool) {
	if s == "" || s[0] != '#' {
		return color.NRGBA{}, false
	}
	var a, r, g, b uint8 = 0xff, 0, 0, 0
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, false
		}
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &a, &r, &g, &b); err != nil {
			return color.NRGBA{}, false
		}
	default:
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, true
}
