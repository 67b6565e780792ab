package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// XPS package constants.
const (
	nsXPS              = "http://schemas.microsoft.com/xps/2005/06"
	relTypeFixedRep    = "http://schemas.microsoft.com/xps/2005/06/fixedrepresentation"
	relTypeRequiredRes = "http://schemas.microsoft.com/xps/2005/06/required-resource"
	ctFixedDocSeq      = "application/vnd.ms-package.xps-fixeddocumentsequence+xml"
	ctFixedDoc         = "application/vnd.ms-package.xps-fixeddocument+xml"
	ctFixedPage        = "application/vnd.ms-package.xps-fixedpage+xml"
	ctOpenType         = "application/vnd.ms-opentype"

	xpsRegularFont = "/Resources/Fonts/GoRegular.ttf"
	xpsBoldFont    = "/Resources/Fonts/GoBold.ttf"

	// xpsUnitsPerMM converts millimetres to XPS units (1/96 inch).
	xpsUnitsPerMM = 96 / 25.4
	// xpsUnitsPerPoint converts points to XPS units.
	xpsUnitsPerPoint = 96.0 / 72.0
)

var (
	xpsFontsOnce sync.Once
	xpsRegular   *opentype.Font
	xpsBold      *opentype.Font
	errXPSFonts  error
)

// loadXPSFonts parses the embedded Go fonts used for XPS text.
func loadXPSFonts() error {
	xpsFontsOnce.Do(func() {
		if xpsRegular, errXPSFonts = opentype.Parse(goregular.TTF); errXPSFonts != nil {
			return
		}
		xpsBold, errXPSFonts = opentype.Parse(gobold.TTF)
	})
	return errXPSFonts
}

// XPSWriter outputs reports as XML Paper Specification documents.
// WriteReport lays the report out into fixed pages held in memory; Save
// writes the package to the output. Text uses the Go fonts, which are
// embedded in the package and used to measure line breaks.
type XPSWriter struct {
	baseWriter

	pkg *opcPackage
}

// NewXPSWriter creates an XPSWriter that outputs to the given writer.
func NewXPSWriter(output io.Writer, opts ...Option) *XPSWriter {
	return &XPSWriter{baseWriter: newBaseWriter(output, opts...)}
}

// WriteReport lays out the report. Call Save to emit the document.
func (w *XPSWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)
	if err := loadXPSFonts(); err != nil {
		return fmt.Errorf("failed to load fonts: %w", err)
	}

	l := newXPSLayout(style)
	defer l.close()
	for _, s := range r.Sections {
		for _, item := range s.Items {
			if err := w.layoutItem(l, item); err != nil {
				return err
			}
		}
	}

	pkg, err := l.pack(r.Title)
	if err != nil {
		return err
	}
	w.pkg = pkg
	return nil
}

// Save writes the laid out document.
func (w *XPSWriter) Save() error {
	if w.pkg == nil {
		return ErrNotWritten
	}
	return w.pkg.writeTo(w.output)
}

func (w *XPSWriter) layoutItem(l *xpsLayout, item Item) error {
	style := l.style
	switch it := item.(type) {
	case *Header:
		size := style.HeaderSize(it.Level)
		l.space(size * xpsUnitsPerPoint * 0.5)
		if err := l.paragraph(it.Text, true, size, 0, false); err != nil {
			return err
		}
		l.space(size * xpsUnitsPerPoint * 0.3)
	case *Paragraph:
		if err := l.paragraph(it.Text, false, style.FontSize, 0, false); err != nil {
			return err
		}
		l.space(style.FontSize * xpsUnitsPerPoint * 0.6)
	case *Image:
		if isPDF(it.Source) {
			return l.caption(fmt.Sprintf("[%s] %s", it.Caption, w.link(it.Source)))
		}
		data, err := w.readImage(it)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		pxWidth, pxHeight, err := imageSize(it, data)
		if err != nil {
			return err
		}
		l.image(data, pxWidth, pxHeight)
		return l.caption(it.Caption)
	case *Drawing:
		return l.caption("[" + it.Caption + "]")
	case *Equation:
		if err := l.paragraph(it.Content, false, style.FontSize, 0, true); err != nil {
			return err
		}
		if it.Caption != "" {
			return l.caption(it.Caption)
		}
	case *TableOfContents:
		if err := l.paragraph("Contents", true, style.FontSize, 0, false); err != nil {
			return err
		}
		if it.Source != nil {
			for _, h := range it.Source.Headers() {
				indent := float64(clampLevel(h.Level)-1) * 24
				if err := l.paragraph(h.Text, false, style.FontSize, indent, false); err != nil {
					return err
				}
			}
		}
		l.space(style.FontSize * xpsUnitsPerPoint * 0.6)
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		return l.table(t)
	}
	return nil
}

// xpsPage is one fixed page under construction.
type xpsPage struct {
	elements []string
	images   []string
}

type faceKey struct {
	bold bool
	size float64
}

// xpsLayout places text, images and tables on fixed pages.
type xpsLayout struct {
	style  *Style
	width  float64
	height float64
	margin float64

	pages  []*xpsPage
	page   *xpsPage
	y      float64
	images [][]byte
	faces  map[faceKey]font.Face
}

func newXPSLayout(style *Style) *xpsLayout {
	l := &xpsLayout{
		style:  style,
		width:  style.PageWidth * xpsUnitsPerMM,
		height: style.PageHeight * xpsUnitsPerMM,
		margin: style.Margin * xpsUnitsPerMM,
		faces:  make(map[faceKey]font.Face),
	}
	l.newPage()
	return l
}

func (l *xpsLayout) close() {
	for _, f := range l.faces {
		_ = f.Close()
	}
}

func (l *xpsLayout) newPage() {
	l.page = &xpsPage{}
	l.pages = append(l.pages, l.page)
	l.y = l.margin
}

// ensure starts a new page unless height fits above the bottom margin.
// A block taller than a whole page is placed at the top of a fresh page.
func (l *xpsLayout) ensure(height float64) {
	if l.y+height > l.height-l.margin && l.y > l.margin {
		l.newPage()
	}
}

func (l *xpsLayout) space(height float64) {
	l.y += height
}

func (l *xpsLayout) contentWidth() float64 {
	return l.width - 2*l.margin
}

// face returns the font face for a weight and size in points.
func (l *xpsLayout) face(bold bool, size float64) (font.Face, error) {
	key := faceKey{bold: bold, size: size}
	if f, ok := l.faces[key]; ok {
		return f, nil
	}
	src := xpsRegular
	if bold {
		src = xpsBold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size * xpsUnitsPerPoint,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	l.faces[key] = f
	return f, nil
}

func measure(f font.Face, s string) float64 {
	return float64(font.MeasureString(f, s)) / 64
}

// paragraph wraps text to the content width and places it line by line.
func (l *xpsLayout) paragraph(text string, bold bool, size, indent float64, center bool) error {
	f, err := l.face(bold, size)
	if err != nil {
		return err
	}
	metrics := f.Metrics()
	ascent := float64(metrics.Ascent) / 64
	lineHeight := float64(metrics.Height) / 64 * 1.2
	maxWidth := l.contentWidth() - indent

	for _, line := range wrapMeasured(text, maxWidth, func(s string) float64 { return measure(f, s) }) {
		l.ensure(lineHeight)
		x := l.margin + indent
		if center {
			x = l.margin + (l.contentWidth()-measure(f, line))/2
		}
		l.glyphs(line, bold, size, x, l.y+ascent)
		l.y += lineHeight
	}
	return nil
}

func (l *xpsLayout) caption(text string) error {
	if err := l.paragraph(text, false, l.style.FontSize-1, 0, true); err != nil {
		return err
	}
	l.space(l.style.FontSize * xpsUnitsPerPoint * 0.6)
	return nil
}

// glyphs adds a single line of text with its baseline at y.
func (l *xpsLayout) glyphs(text string, bold bool, size, x, y float64) {
	if text == "" {
		return
	}
	fontURI := xpsRegularFont
	if bold {
		fontURI = xpsBoldFont
	}
	unicode := xmlEscape(text)
	if strings.HasPrefix(unicode, "{") {
		unicode = "{}" + unicode
	}
	l.page.elements = append(l.page.elements, fmt.Sprintf(
		`<Glyphs Fill="#FF000000" FontUri="%s" FontRenderingEmSize="%.2f" OriginX="%.2f" OriginY="%.2f" UnicodeString="%s"/>`,
		fontURI, size*xpsUnitsPerPoint, x, y, unicode))
}

// rect adds a rectangle outline, filled when fill is a "#RRGGBB" color.
func (l *xpsLayout) rect(x, y, width, height float64, fill string) {
	fillAttr := ""
	if fill != "" {
		r, g, b := parseHexColor(fill)
		fillAttr = fmt.Sprintf(` Fill="#FF%02X%02X%02X"`, r, g, b)
	}
	l.page.elements = append(l.page.elements, fmt.Sprintf(
		`<Path Data="%s" Stroke="#FF000000" StrokeThickness="0.75"%s/>`, rectData(x, y, width, height), fillAttr))
}

// image places PNG data centered at the current position.
func (l *xpsLayout) image(data []byte, pxWidth, pxHeight int) {
	width, height := fitWidth(pxWidth, pxHeight, l.contentWidth())
	l.ensure(height)
	l.images = append(l.images, data)
	part := fmt.Sprintf("/Resources/Images/image%d.png", len(l.images))
	l.page.images = append(l.page.images, part)

	x := l.margin + (l.contentWidth()-width)/2
	l.page.elements = append(l.page.elements, fmt.Sprintf(
		`<Path Data="%s"><Path.Fill><ImageBrush ImageSource="%s" Viewbox="0,0,%d,%d" ViewboxUnits="Absolute" Viewport="%.2f,%.2f,%.2f,%.2f" ViewportUnits="Absolute"/></Path.Fill></Path>`,
		rectData(x, l.y, width, height), part, pxWidth, pxHeight, x, l.y, width, height))
	l.y += height + 6
}

func (l *xpsLayout) table(t *ItemsTable) error {
	rows, err := t.Rows(l.style)
	if err != nil {
		return err
	}
	size := l.style.FontSize
	regular, err := l.face(false, size)
	if err != nil {
		return err
	}
	metrics := regular.Metrics()
	ascent := float64(metrics.Ascent) / 64
	rowHeight := float64(metrics.Height)/64*1.2 + 4

	widths := t.Widths(60)
	for i := range widths {
		widths[i] *= xpsUnitsPerPoint * 1.5
	}

	if t.Caption != "" {
		if err := l.paragraph(t.Caption, true, size, 0, false); err != nil {
			return err
		}
	}
	row := func(cells []string, header bool) {
		l.ensure(rowHeight)
		x := l.margin
		for i, cell := range cells {
			fill := ""
			if header {
				fill = l.style.TableHeaderColor
			}
			l.rect(x, l.y, widths[i], rowHeight, fill)
			l.glyphs(cell, header, size, x+3, l.y+2+ascent)
			x += widths[i]
		}
		l.y += rowHeight
	}

	headers := t.Headers()
	row(headers, true)
	for _, cells := range rows {
		if l.y+rowHeight > l.height-l.margin {
			l.newPage()
			row(headers, true)
		}
		row(cells, false)
	}
	l.space(rowHeight * 0.5)
	return nil
}

// pack assembles the OPC package of the laid out pages.
func (l *xpsLayout) pack(title string) (*opcPackage, error) {
	pkg := &opcPackage{}
	err := pkg.addXML("[Content_Types].xml", xmlContentTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ctRelationships},
			{Extension: "fdseq", ContentType: ctFixedDocSeq},
			{Extension: "fdoc", ContentType: ctFixedDoc},
			{Extension: "fpage", ContentType: ctFixedPage},
			{Extension: "ttf", ContentType: ctOpenType},
			{Extension: "png", ContentType: "image/png"},
		},
		Overrides: []xmlOverride{
			{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
		},
	})
	if err != nil {
		return nil, err
	}
	err = pkg.addXML("_rels/.rels", xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{
			{ID: "R1", Type: relTypeFixedRep, Target: "/FixedDocumentSequence.fdseq"},
			{ID: "R2", Type: relTypeCoreProp, Target: "/docProps/core.xml"},
		},
	})
	if err != nil {
		return nil, err
	}
	pkg.addRaw("docProps/core.xml", []byte(coreProperties(title, l.style)))
	pkg.addRaw("FixedDocumentSequence.fdseq", []byte(xml10+
		`<FixedDocumentSequence xmlns="`+nsXPS+`"><DocumentReference Source="/Documents/1/FixedDocument.fdoc"/></FixedDocumentSequence>`))

	var doc strings.Builder
	doc.WriteString(xml10 + `<FixedDocument xmlns="` + nsXPS + `">`)
	for i := range l.pages {
		fmt.Fprintf(&doc, `<PageContent Source="Pages/%d.fpage" Width="%.2f" Height="%.2f"/>`, i+1, l.width, l.height)
	}
	doc.WriteString(`</FixedDocument>`)
	pkg.addRaw("Documents/1/FixedDocument.fdoc", []byte(doc.String()))

	lang := l.style.Locale
	if lang == "" {
		lang = DefaultLocale
	}
	for i, page := range l.pages {
		var sb strings.Builder
		fmt.Fprintf(&sb, `%s<FixedPage xmlns="%s" xml:lang="%s" Width="%.2f" Height="%.2f">`,
			xml10, nsXPS, xmlEscape(lang), l.width, l.height)
		for _, e := range page.elements {
			sb.WriteString(e)
		}
		sb.WriteString(`</FixedPage>`)
		pkg.addRaw(fmt.Sprintf("Documents/1/Pages/%d.fpage", i+1), []byte(sb.String()))

		rels := xmlRelationships{Xmlns: nsRelationships}
		targets := append([]string{xpsRegularFont, xpsBoldFont}, page.images...)
		for j, target := range targets {
			rels.Relationships = append(rels.Relationships, xmlRelationship{
				ID: fmt.Sprintf("R%d", j+1), Type: relTypeRequiredRes, Target: target,
			})
		}
		if err := pkg.addXML(fmt.Sprintf("Documents/1/Pages/_rels/%d.fpage.rels", i+1), rels); err != nil {
			return nil, err
		}
	}

	pkg.addRaw(strings.TrimPrefix(xpsRegularFont, "/"), goregular.TTF)
	pkg.addRaw(strings.TrimPrefix(xpsBoldFont, "/"), gobold.TTF)
	for i, data := range l.images {
		pkg.addRaw(fmt.Sprintf("Resources/Images/image%d.png", i+1), data)
	}
	return pkg, nil
}

const xml10 = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// rectData returns the path geometry of a rectangle.
func rectData(x, y, width, height float64) string {
	return fmt.Sprintf("M %.2f,%.2f L %.2f,%.2f L %.2f,%.2f L %.2f,%.2f Z",
		x, y, x+width, y, x+width, y+height, x, y+height)
}

// wrapMeasured breaks text into lines no wider than maxWidth as measured by
// width. Words wider than a line are placed on their own line.
func wrapMeasured(text string, maxWidth float64, width func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if width(candidate) > maxWidth {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
