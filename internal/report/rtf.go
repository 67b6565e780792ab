package report

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Twips per unit for RTF measurements.
const (
	twipsPerPoint = 20
	twipsPerMM    = 1440 / 25.4
	twipsPerPixel = 15
)

// RTFWriter outputs reports as Rich Text Format documents.
// PNG images are embedded as \pngblip pictures; PDF images cannot be
// embedded and are written as captioned references.
type RTFWriter struct {
	baseWriter
}

// NewRTFWriter creates an RTFWriter that outputs to the given writer.
func NewRTFWriter(output io.Writer, opts ...Option) *RTFWriter {
	return &RTFWriter{baseWriter: newBaseWriter(output, opts...)}
}

// WriteReport outputs the report as an RTF document.
func (w *RTFWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)

	var sb strings.Builder
	w.writeHeader(&sb, r, style)
	for _, s := range r.Sections {
		for _, item := range s.Items {
			if err := w.writeItem(&sb, item, style); err != nil {
				return err
			}
		}
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w.output, sb.String())
	return err
}

func (w *RTFWriter) writeHeader(sb *strings.Builder, r *Report, style *Style) {
	red, green, blue := parseHexColor(style.TableHeaderColor)
	margin := int(style.Margin * twipsPerMM)

	sb.WriteString("{\\rtf1\\ansi\\ansicpg1252\\deff0\n")
	fmt.Fprintf(sb, "{\\fonttbl{\\f0\\fswiss %s;}{\\f1\\fswiss %s;}{\\f2\\fmodern Courier New;}}\n",
		escapeRTF(style.BodyFont), escapeRTF(style.HeaderFont))
	fmt.Fprintf(sb, "{\\colortbl;\\red%d\\green%d\\blue%d;}\n", red, green, blue)
	d := style.Date.UTC()
	fmt.Fprintf(sb, "{\\info{\\title %s}{\\author %s}{\\creatim\\yr%d\\mo%d\\dy%d\\hr%d\\min%d}}\n",
		escapeRTF(r.Title), escapeRTF(style.Author), d.Year(), int(d.Month()), d.Day(), d.Hour(), d.Minute())
	fmt.Fprintf(sb, "\\paperw%d\\paperh%d\\margl%d\\margr%d\\margt%d\\margb%d\n",
		int(style.PageWidth*twipsPerMM), int(style.PageHeight*twipsPerMM), margin, margin, margin, margin)
	fmt.Fprintf(sb, "\\f0\\fs%d\n", halfPoints(style.FontSize))
}

func (w *RTFWriter) writeItem(sb *strings.Builder, item Item, style *Style) error {
	switch it := item.(type) {
	case *Header:
		level := clampLevel(it.Level)
		fmt.Fprintf(sb, "{\\pard\\sb240\\sa120\\keepn\\outlinelevel%d\\f1\\b\\fs%d %s\\par}\n",
			level-1, halfPoints(style.HeaderSize(level)), escapeRTF(it.Text))
	case *Paragraph:
		fmt.Fprintf(sb, "{\\pard\\sa120\\f0\\fs%d %s\\par}\n", halfPoints(style.FontSize), escapeRTF(it.Text))
	case *Image:
		return w.writeImage(sb, it, style)
	case *Drawing:
		writeRTFCaption(sb, "["+it.Caption+"]", style)
	case *Equation:
		fmt.Fprintf(sb, "{\\pard\\qc\\sa120\\f2\\fs%d %s\\par}\n", halfPoints(style.FontSize), escapeRTF(it.Content))
		if it.Caption != "" {
			writeRTFCaption(sb, it.Caption, style)
		}
	case *TableOfContents:
		fmt.Fprintf(sb, "{\\pard\\sa120\\f1\\b\\fs%d Contents\\par}\n", halfPoints(style.FontSize))
		if it.Source != nil {
			for _, h := range it.Source.Headers() {
				fmt.Fprintf(sb, "{\\pard\\li%d\\f0\\fs%d %s\\par}\n",
					(clampLevel(h.Level)-1)*360, halfPoints(style.FontSize), escapeRTF(h.Text))
			}
		}
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		return w.writeTable(sb, t, style)
	}
	return nil
}

func (w *RTFWriter) writeImage(sb *strings.Builder, img *Image, style *Style) error {
	if isPDF(img.Source) {
		writeRTFCaption(sb, fmt.Sprintf("[%s] %s", img.Caption, w.link(img.Source)), style)
		return nil
	}
	data, err := w.readImage(img)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	pxWidth, pxHeight, err := imageSize(img, data)
	if err != nil {
		return err
	}
	maxWidth := (style.PageWidth - 2*style.Margin) * twipsPerMM
	goalWidth, goalHeight := fitWidth(pxWidth*twipsPerPixel, pxHeight*twipsPerPixel, maxWidth)

	fmt.Fprintf(sb, "{\\pard\\qc{\\pict\\pngblip\\picw%d\\pich%d\\picwgoal%d\\pichgoal%d\n",
		pxWidth, pxHeight, int(goalWidth), int(goalHeight))
	encoded := hex.EncodeToString(data)
	for len(encoded) > 128 {
		sb.WriteString(encoded[:128])
		sb.WriteString("\n")
		encoded = encoded[128:]
	}
	sb.WriteString(encoded)
	sb.WriteString("}\\par}\n")
	writeRTFCaption(sb, img.Caption, style)
	return nil
}

func (w *RTFWriter) writeTable(sb *strings.Builder, t *ItemsTable, style *Style) error {
	rows, err := t.Rows(style)
	if err != nil {
		return err
	}
	if t.Caption != "" {
		fmt.Fprintf(sb, "{\\pard\\keepn\\sa60\\f0\\b\\fs%d %s\\par}\n", halfPoints(style.FontSize), escapeRTF(t.Caption))
	}

	widths := t.Widths(60)
	row := func(cells []string, header bool) {
		sb.WriteString("\\trowd\\trgaph108")
		if header {
			sb.WriteString("\\trhdr")
		}
		edge := 0
		for _, width := range widths {
			edge += int(width * twipsPerPoint * 1.5)
			sb.WriteString("\\clbrdrt\\brdrs\\clbrdrl\\brdrs\\clbrdrb\\brdrs\\clbrdrr\\brdrs")
			if header {
				sb.WriteString("\\clcbpat1")
			}
			fmt.Fprintf(sb, "\\cellx%d", edge)
		}
		sb.WriteString("\n")
		for _, cell := range cells {
			sb.WriteString("\\pard\\intbl ")
			if header {
				sb.WriteString("\\b ")
			}
			sb.WriteString(escapeRTF(cell))
			if header {
				sb.WriteString("\\b0")
			}
			sb.WriteString("\\cell\n")
		}
		sb.WriteString("\\row\n")
	}

	row(t.Headers(), true)
	for _, cells := range rows {
		row(cells, false)
	}
	sb.WriteString("\\pard\\sa120\\par\n")
	return nil
}

func writeRTFCaption(sb *strings.Builder, text string, style *Style) {
	fmt.Fprintf(sb, "{\\pard\\qc\\sa120\\f0\\i\\fs%d %s\\par}\n", halfPoints(style.FontSize-1), escapeRTF(text))
}

func halfPoints(size float64) int {
	return int(size * 2)
}

// escapeRTF escapes control characters and writes non-ASCII runes as
// \uN Unicode escapes with a '?' fallback.
func escapeRTF(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString("\\line ")
		case r == '\t':
			sb.WriteString("\\tab ")
		case r > 0x7f:
			if r > 0xffff {
				r = '?'
			}
			fmt.Fprintf(&sb, "\\u%d?", int16(r))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
