package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// mmPerPoint converts typographic points to millimetres.
const mmPerPoint = 25.4 / 72

// PDFWriter outputs reports as PDF documents.
// PNG images are placed as raster images. Images with a Painter are drawn
// as vector graphics onto the page. A PDF image without a Painter cannot be
// embedded and is written as its caption.
type PDFWriter struct {
	baseWriter
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer, opts ...Option) *PDFWriter {
	return &PDFWriter{baseWriter: newBaseWriter(output, opts...)}
}

// pdfDocument holds the state of one PDF being written.
type pdfDocument struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	style  *Style
	images int
}

// WriteReport outputs the report as a PDF document.
func (w *PDFWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: style.PageWidth, Ht: style.PageHeight},
	})
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(style.Date)
	pdf.SetModificationDate(style.Date)
	pdf.SetTitle(r.Title, true)
	pdf.SetAuthor(style.Author, true)
	pdf.SetCreator("plotreport", true)
	pdf.SetMargins(style.Margin, style.Margin, style.Margin)
	pdf.SetAutoPageBreak(true, style.Margin)
	pdf.AddPage()

	doc := &pdfDocument{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		style: style,
	}
	for _, s := range r.Sections {
		for _, item := range s.Items {
			if err := w.writeItem(doc, item); err != nil {
				return err
			}
			if pdf.Err() {
				return pdf.Error()
			}
		}
	}
	return pdf.Output(w.output)
}

func (w *PDFWriter) writeItem(doc *pdfDocument, item Item) error {
	pdf, style := doc.pdf, doc.style
	switch it := item.(type) {
	case *Header:
		level := clampLevel(it.Level)
		size := style.HeaderSize(level)
		pdf.Ln(size * mmPerPoint * 0.5)
		pdf.Bookmark(doc.tr(it.Text), level-1, -1)
		pdf.SetFont(pdfFont(style.HeaderFont), "B", size)
		pdf.MultiCell(0, size*mmPerPoint*1.3, doc.tr(it.Text), "", "L", false)
		pdf.Ln(size * mmPerPoint * 0.3)
	case *Paragraph:
		pdf.SetFont(pdfFont(style.BodyFont), "", style.FontSize)
		pdf.MultiCell(0, doc.lineHeight(), doc.tr(it.Text), "", "L", false)
		pdf.Ln(doc.lineHeight() * 0.5)
	case *Image:
		return w.writeImage(doc, it)
	case *Drawing:
		doc.caption("[" + it.Caption + "]")
	case *Equation:
		pdf.SetFont("Courier", "", style.FontSize)
		pdf.MultiCell(0, doc.lineHeight(), doc.tr(it.Content), "", "C", false)
		if it.Caption != "" {
			doc.caption(it.Caption)
		}
	case *TableOfContents:
		doc.contents(it)
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		return doc.table(t)
	}
	return nil
}

func (w *PDFWriter) writeImage(doc *pdfDocument, img *Image) error {
	pdf := doc.pdf
	pageWidth, pageHeight := pdf.GetPageSize()
	maxWidth := pageWidth - 2*doc.style.Margin

	switch {
	case img.Painter != nil:
		width, height := fitWidth(img.Width, img.Height, maxWidth)
		doc.ensureSpace(height, pageHeight)
		x, y := (pageWidth-width)/2, pdf.GetY()
		if err := paintBox(pdf, img.Painter, x, y, width, height, doc.imageName); err != nil {
			return fmt.Errorf("failed to draw %s: %w", img.Caption, err)
		}
		pdf.SetY(y + height)
	case isPDF(img.Source):
		doc.caption("[" + img.Caption + ": " + filepath.Base(img.Source) + "]")
		return nil
	default:
		data, err := w.readImage(img)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		pxWidth, pxHeight, err := imageSize(img, data)
		if err != nil {
			return err
		}
		width, height := fitWidth(pxWidth, pxHeight, maxWidth)
		name := doc.imageName()
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		doc.ensureSpace(height, pageHeight)
		pdf.ImageOptions(name, (pageWidth-width)/2, pdf.GetY(), width, height, true, opts, 0, "")
	}
	doc.caption(img.Caption)
	return nil
}

// imageName returns a new image name, unique within the document.
func (d *pdfDocument) imageName() string {
	d.images++
	return fmt.Sprintf("image%d", d.images)
}

func (d *pdfDocument) lineHeight() float64 {
	return d.style.FontSize * mmPerPoint * 1.4
}

// ensureSpace starts a new page unless height fits above the bottom margin.
func (d *pdfDocument) ensureSpace(height, pageHeight float64) {
	if d.pdf.GetY()+height > pageHeight-d.style.Margin {
		d.pdf.AddPage()
	}
}

func (d *pdfDocument) caption(text string) {
	d.pdf.SetFont(pdfFont(d.style.BodyFont), "I", d.style.FontSize-1)
	d.pdf.MultiCell(0, d.lineHeight(), d.tr(text), "", "C", false)
	d.pdf.Ln(d.lineHeight() * 0.5)
}

func (d *pdfDocument) contents(toc *TableOfContents) {
	d.pdf.SetFont(pdfFont(d.style.HeaderFont), "B", d.style.FontSize)
	d.pdf.MultiCell(0, d.lineHeight(), "Contents", "", "L", false)
	d.pdf.SetFont(pdfFont(d.style.BodyFont), "", d.style.FontSize)
	if toc.Source != nil {
		for _, h := range toc.Source.Headers() {
			indent := strings.Repeat("    ", clampLevel(h.Level)-1)
			d.pdf.MultiCell(0, d.lineHeight(), d.tr(indent+h.Text), "", "L", false)
		}
	}
	d.pdf.Ln(d.lineHeight() * 0.5)
}

func (d *pdfDocument) table(t *ItemsTable) error {
	rows, err := t.Rows(d.style)
	if err != nil {
		return err
	}
	pdf, style := d.pdf, d.style
	_, pageHeight := pdf.GetPageSize()
	widths := t.Widths(60)
	for i := range widths {
		widths[i] *= mmPerPoint * 1.5
	}
	rowHeight := d.lineHeight()

	if t.Caption != "" {
		pdf.SetFont(pdfFont(style.BodyFont), "B", style.FontSize)
		pdf.MultiCell(0, rowHeight, d.tr(t.Caption), "", "L", false)
	}
	header := func() {
		pdf.SetFont(pdfFont(style.BodyFont), "B", style.FontSize)
		pdf.SetFillColor(parseHexColor(style.TableHeaderColor))
		for i, h := range t.Headers() {
			pdf.CellFormat(widths[i], rowHeight, d.tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(pdfFont(style.BodyFont), "", style.FontSize)
	}

	header()
	for _, row := range rows {
		if pdf.GetY()+rowHeight > pageHeight-style.Margin {
			pdf.AddPage()
			header()
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], rowHeight, d.tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(rowHeight * 0.5)
	return nil
}

// pdfFont maps a font family to one of the PDF core fonts.
func pdfFont(family string) string {
	switch strings.ToLower(family) {
	case "times", "times new roman", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}
