package render

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot/plotutil"

	"github.com/nao1215/plotreport/internal/model"
)

const nsXAML = "http://schemas.microsoft.com/winfx/2006/xaml/presentation"

// XAML plot area margins in pixels.
const (
	xamlMarginLeft   = 60
	xamlMarginRight  = 20
	xamlMarginTop    = 40
	xamlMarginBottom = 50
	xamlTicks        = 5
)

// XAML renders the model as a WPF Canvas with axes, polylines and markers.
func XAML(m *model.PlotModel, width, height int) (string, error) {
	if err := checkArgs(m, width, height); err != nil {
		return "", err
	}

	background := "#FFFFFFFF"
	if c, ok := parseColor(m.Background); ok {
		background = argb(c.A, c.R, c.G, c.B)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<Canvas xmlns="%s" Width="%d" Height="%d" Background="%s">`+"\n", nsXAML, width, height, background)
	if m.Title != "" {
		fmt.Fprintf(&sb, `  <TextBlock Canvas.Left="%d" Canvas.Top="8" FontSize="16" FontWeight="Bold" Text="%s"/>`+"\n",
			xamlMarginLeft, escape(m.Title))
	}

	area := xamlArea{
		left:   xamlMarginLeft,
		top:    xamlMarginTop,
		width:  float64(width - xamlMarginLeft - xamlMarginRight),
		height: float64(height - xamlMarginTop - xamlMarginBottom),
	}
	area.minX, area.maxX, area.minY, area.maxY = finiteBounds(m)

	fmt.Fprintf(&sb, `  <Rectangle Canvas.Left="%s" Canvas.Top="%s" Width="%s" Height="%s" Stroke="#FF000000" StrokeThickness="1"/>`+"\n",
		num(area.left), num(area.top), num(area.width), num(area.height))
	area.writeTicks(&sb)
	if m.XAxisTitle != "" {
		fmt.Fprintf(&sb, `  <TextBlock Canvas.Left="%s" Canvas.Top="%d" FontSize="12" Text="%s"/>`+"\n",
			num(area.left+area.width/2), height-20, escape(m.XAxisTitle))
	}
	if m.YAxisTitle != "" {
		fmt.Fprintf(&sb, `  <TextBlock Canvas.Left="4" Canvas.Top="%s" FontSize="12" Text="%s"><TextBlock.LayoutTransform><RotateTransform Angle="-90"/></TextBlock.LayoutTransform></TextBlock>`+"\n",
			num(area.top+area.height/2), escape(m.YAxisTitle))
	}

	for i := range m.Series {
		s := &m.Series[i]
		stroke := seriesColor(s, i)
		for _, run := range drawableRuns(s) {
			switch s.Kind {
			case model.SeriesScatter:
				r := s.Marker()
				for _, pt := range run {
					x, y := area.project(pt)
					fmt.Fprintf(&sb, `  <Ellipse Canvas.Left="%s" Canvas.Top="%s" Width="%s" Height="%s" Fill="%s"/>`+"\n",
						num(x-r), num(y-r), num(2*r), num(2*r), stroke)
				}
			case model.SeriesArea:
				_, baseline := area.project(model.Pt(0, math.Max(area.minY, math.Min(0, area.maxY))))
				first, _ := area.project(run[0])
				last, _ := area.project(run[len(run)-1])
				points := area.points(run)
				fmt.Fprintf(&sb, `  <Polygon Points="%s,%s %s %s,%s" Fill="%s" Opacity="0.4"/>`+"\n",
					num(first), num(baseline), points, num(last), num(baseline), stroke)
				fmt.Fprintf(&sb, `  <Polyline Points="%s" Stroke="%s" StrokeThickness="%s"/>`+"\n", points, stroke, num(s.Thickness()))
			default:
				fmt.Fprintf(&sb, `  <Polyline Points="%s" Stroke="%s" StrokeThickness="%s"/>`+"\n",
					area.points(run), stroke, num(s.Thickness()))
			}
		}
	}
	sb.WriteString("</Canvas>\n")
	return sb.String(), nil
}

// xamlArea maps data coordinates into the plot rectangle.
type xamlArea struct {
	left, top, width, height float64
	minX, maxX, minY, maxY   float64
}

func (a xamlArea) project(p model.DataPoint) (float64, float64) {
	x := a.left + (p.X-a.minX)/(a.maxX-a.minX)*a.width
	y := a.top + a.height - (p.Y-a.minY)/(a.maxY-a.minY)*a.height
	return x, y
}

func (a xamlArea) points(run []model.DataPoint) string {
	parts := make([]string, len(run))
	for i, p := range run {
		x, y := a.project(p)
		parts[i] = num(x) + "," + num(y)
	}
	return strings.Join(parts, " ")
}

func (a xamlArea) writeTicks(sb *strings.Builder) {
	for i := range xamlTicks + 1 {
		f := float64(i) / xamlTicks
		x := a.left + f*a.width
		y := a.top + a.height - f*a.height
		fmt.Fprintf(sb, `  <TextBlock Canvas.Left="%s" Canvas.Top="%s" FontSize="10" Text="%s"/>`+"\n",
			num(x-10), num(a.top+a.height+4), strconv.FormatFloat(a.minX+f*(a.maxX-a.minX), 'g', 4, 64))
		fmt.Fprintf(sb, `  <TextBlock Canvas.Left="4" Canvas.Top="%s" FontSize="10" Text="%s"/>`+"\n",
			num(y-7), strconv.FormatFloat(a.minY+f*(a.maxY-a.minY), 'g', 4, 64))
	}
}

// finiteBounds returns the data extent over drawable points, widened so
// that no axis has zero length.
func finiteBounds(m *model.PlotModel) (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for i := range m.Series {
		for _, run := range drawableRuns(&m.Series[i]) {
			for _, p := range run {
				minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
				minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			}
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 1, 0, 1
	}
	if minX == maxX {
		minX, maxX = minX-1, maxX+1
	}
	if minY == maxY {
		minY, maxY = minY-1, maxY+1
	}
	return minX, maxX, minY, maxY
}

func seriesColor(s *model.Series, i int) string {
	if c, ok := parseColor(s.Color); ok {
		return argb(c.A, c.R, c.G, c.B)
	}
	r, g, b, a := plotutil.Color(i).RGBA()
	return argb(uint8(a>>8), uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

func argb(a, r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", a, r, g, b)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
