package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/go-pdf/fpdf"
	stdfnt "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Painter draws vector content onto a canvas. Images with a Painter are
// drawn natively by writers that support vector graphics.
type Painter interface {
	Paint(c draw.Canvas) error
}

// pdfCanvas is a vg.Canvas drawing into a box on the current page of an
// fpdf document. Lengths are points; the document unit is millimetres.
type pdfCanvas struct {
	doc   *fpdf.Fpdf
	stack []vg.Length
	alpha float64
	image func() string
	err   error
}

// paintBox draws p into the box with top left corner (x, y) and the given
// size in millimetres. The document state the canvas touches is restored.
func paintBox(doc *fpdf.Fpdf, p Painter, x, y, width, height float64, imageName func() string) error {
	lineWidth := doc.GetLineWidth()
	docX, docY := doc.GetXY()
	fontPt, _ := doc.GetFontSize()

	c := &pdfCanvas{doc: doc, stack: make([]vg.Length, 1), alpha: 1, image: imageName}
	doc.TransformBegin()
	// Map the vg origin to the bottom left of the box with y pointing up.
	doc.TransformTranslate(x, y+height)
	doc.TransformScale(100, -100, 0, 0)
	vg.Initialize(c)

	w := vg.Length(width / mmPerPoint)
	h := vg.Length(height / mmPerPoint)
	err := p.Paint(draw.NewCanvas(c, w, h))
	doc.TransformEnd()

	doc.SetDashPattern([]float64{}, 0)
	doc.SetLineWidth(lineWidth)
	doc.SetDrawColor(0, 0, 0)
	doc.SetTextColor(0, 0, 0)
	if c.alpha != 1 {
		doc.SetAlpha(1, "Normal")
	}
	doc.SetFontSize(fontPt)
	doc.SetXY(docX, docY)

	if err != nil {
		return err
	}
	return c.err
}

func (c *pdfCanvas) unit(l vg.Length) float64 {
	return l.Points() * mmPerPoint
}

func (c *pdfCanvas) point(pt vg.Point) (float64, float64) {
	return c.unit(pt.X), c.unit(pt.Y)
}

func (c *pdfCanvas) SetLineWidth(w vg.Length) {
	c.stack[len(c.stack)-1] = w
	c.doc.SetLineWidth(c.unit(w))
}

func (c *pdfCanvas) SetLineDash(dashes []vg.Length, offs vg.Length) {
	ds := make([]float64, len(dashes))
	for i, d := range dashes {
		ds[i] = c.unit(d)
	}
	c.doc.SetDashPattern(ds, c.unit(offs))
}

func (c *pdfCanvas) SetColor(clr color.Color) {
	if clr == nil {
		clr = color.Black
	}
	r, g, b, a := clr.RGBA()
	ri, gi, bi := int(r>>8), int(g>>8), int(b>>8)
	c.doc.SetFillColor(ri, gi, bi)
	c.doc.SetDrawColor(ri, gi, bi)
	c.doc.SetTextColor(ri, gi, bi)
	if alpha := float64(a) / math.MaxUint16; alpha != c.alpha {
		c.alpha = alpha
		c.doc.SetAlpha(alpha, "Normal")
	}
}

func (c *pdfCanvas) Rotate(rad float64) {
	c.doc.TransformRotate(-rad*180/math.Pi, 0, 0)
}

func (c *pdfCanvas) Translate(pt vg.Point) {
	c.doc.TransformTranslate(c.point(pt))
}

func (c *pdfCanvas) Scale(x, y float64) {
	c.doc.TransformScale(x*100, y*100, 0, 0)
}

func (c *pdfCanvas) Push() {
	c.stack = append(c.stack, c.stack[len(c.stack)-1])
	c.doc.TransformBegin()
}

func (c *pdfCanvas) Pop() {
	c.doc.TransformEnd()
	c.stack = c.stack[:len(c.stack)-1]
	c.doc.SetLineWidth(c.unit(c.stack[len(c.stack)-1]))
}

func (c *pdfCanvas) Stroke(p vg.Path) {
	if c.stack[len(c.stack)-1] > 0 {
		c.path(p, "D")
	}
}

func (c *pdfCanvas) Fill(p vg.Path) {
	c.path(p, "F")
}

// FillString draws text with the PDF core font closest to fnt.
func (c *pdfCanvas) FillString(fnt font.Face, pt vg.Point, text string) {
	if fnt.Font.Size == 0 {
		return
	}
	c.doc.SetFont(coreFont(fnt.Font), fontStyle(fnt.Font), fnt.Font.Size.Points())

	c.Push()
	defer c.Pop()
	c.Translate(pt)
	// fpdf places text from the top left corner.
	c.Scale(1, -1)

	_, h := c.doc.GetFontSize()
	top := -0.81 * h
	width := c.doc.GetStringWidth(text)
	c.doc.MoveTo(-c.doc.GetCellMargin(), top)
	c.doc.CellFormat(width, h, text, "", 0, "BL", false, 0, "")
}

func (c *pdfCanvas) DrawImage(rect vg.Rectangle, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		if c.err == nil {
			c.err = fmt.Errorf("failed to encode plot image: %w", err)
		}
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	name := c.image()
	c.doc.RegisterImageOptionsReader(name, opts, &buf)

	x, y := c.point(rect.Min)
	w, h := c.point(rect.Size())
	c.doc.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (c *pdfCanvas) path(p vg.Path, style string) {
	var startX, startY float64
	for _, comp := range p {
		switch comp.Type {
		case vg.MoveComp:
			startX, startY = c.point(comp.Pos)
			c.doc.MoveTo(startX, startY)
		case vg.LineComp:
			c.doc.LineTo(c.point(comp.Pos))
		case vg.ArcComp:
			c.arc(comp, style)
		case vg.CurveComp:
			px, py := c.point(comp.Pos)
			switch len(comp.Control) {
			case 1:
				cx, cy := c.point(comp.Control[0])
				c.doc.CurveTo(cx, cy, px, py)
			case 2:
				cx, cy := c.point(comp.Control[0])
				dx, dy := c.point(comp.Control[1])
				c.doc.CurveBezierCubicTo(cx, cy, dx, dy, px, py)
			}
		case vg.CloseComp:
			c.doc.LineTo(startX, startY)
			c.doc.ClosePath()
		}
	}
	c.doc.DrawPath(style)
}

func (c *pdfCanvas) arc(comp vg.PathComp, style string) {
	x0 := comp.Pos.X + comp.Radius*vg.Length(math.Cos(comp.Start))
	y0 := comp.Pos.Y + comp.Radius*vg.Length(math.Sin(comp.Start))
	c.doc.LineTo(c.unit(x0), c.unit(y0))

	const deg = 180 / math.Pi
	r := c.unit(comp.Radius)
	begin := comp.Start * deg
	c.doc.Arc(c.unit(comp.Pos.X), c.unit(comp.Pos.Y), r, r, comp.Angle*deg, begin, begin+comp.Angle*deg, style)

	x1 := comp.Pos.X + comp.Radius*vg.Length(math.Cos(comp.Start+comp.Angle))
	y1 := comp.Pos.Y + comp.Radius*vg.Length(math.Sin(comp.Start+comp.Angle))
	c.doc.MoveTo(c.unit(x1), c.unit(y1))
}

// coreFont maps a plot font onto a PDF core font family.
func coreFont(f font.Font) string {
	switch f.Variant {
	case "Serif":
		return "Times"
	case "Mono":
		return "Courier"
	default:
		return "Helvetica"
	}
}

func fontStyle(f font.Font) string {
	style := ""
	if f.Weight == stdfnt.WeightBold {
		style += "B"
	}
	if f.Style == stdfnt.StyleItalic {
		style += "I"
	}
	return style
}
