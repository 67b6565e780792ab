package report

import (
	"fmt"
	"io"
	"strings"
)

// WordprocessingML package constants.
const (
	nsWordML         = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	relTypeOfficeDoc = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	ctDocumentMain   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles         = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"

	// emuPerPixel converts 96 DPI pixels to English Metric Units.
	emuPerPixel = 9525
	// emuPerMM converts millimetres to English Metric Units.
	emuPerMM = 36000
)

// DOCXWriter outputs reports as Word documents (Office Open XML).
// Headers map to the built-in Heading styles and PNG images are embedded
// as inline pictures. PDF images are referenced by a caption only.
type DOCXWriter struct {
	baseWriter
}

// NewDOCXWriter creates a DOCXWriter that outputs to the given writer.
func NewDOCXWriter(output io.Writer, opts ...Option) *DOCXWriter {
	return &DOCXWriter{baseWriter: newBaseWriter(output, opts...)}
}

// docxDocument accumulates the body and media of one document.
type docxDocument struct {
	body  strings.Builder
	media [][]byte
	style *Style
}

// WriteReport outputs the report as a .docx package.
func (w *DOCXWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)

	doc := &docxDocument{style: style}
	for _, s := range r.Sections {
		for _, item := range s.Items {
			if err := w.writeItem(doc, item); err != nil {
				return err
			}
		}
	}

	pkg, err := doc.pack(r.Title)
	if err != nil {
		return err
	}
	return pkg.writeTo(w.output)
}

func (w *DOCXWriter) writeItem(doc *docxDocument, item Item) error {
	switch it := item.(type) {
	case *Header:
		doc.paragraph(fmt.Sprintf("Heading%d", clampLevel(it.Level)), "", it.Text)
	case *Paragraph:
		doc.paragraph("", "", it.Text)
	case *Image:
		if isPDF(it.Source) {
			doc.paragraph("Caption", "", fmt.Sprintf("[%s] %s", it.Caption, w.link(it.Source)))
			return nil
		}
		data, err := w.readImage(it)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		pxWidth, pxHeight, err := imageSize(it, data)
		if err != nil {
			return err
		}
		doc.picture(data, pxWidth, pxHeight)
		doc.paragraph("Caption", "", it.Caption)
	case *Drawing:
		doc.paragraph("Caption", "", "["+it.Caption+"]")
	case *Equation:
		doc.paragraph("", `<w:jc w:val="center"/>`, it.Content)
		if it.Caption != "" {
			doc.paragraph("Caption", "", it.Caption)
		}
	case *TableOfContents:
		doc.paragraph("TOCHeading", "", "Contents")
		if it.Source != nil {
			for _, h := range it.Source.Headers() {
				doc.paragraph(fmt.Sprintf("TOC%d", clampLevel(h.Level)), "", h.Text)
			}
		}
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		return doc.table(t)
	}
	return nil
}

// paragraph appends a paragraph with an optional style and extra
// paragraph properties.
func (d *docxDocument) paragraph(styleID, props, text string) {
	d.body.WriteString("<w:p>")
	if styleID != "" || props != "" {
		d.body.WriteString("<w:pPr>")
		if styleID != "" {
			fmt.Fprintf(&d.body, `<w:pStyle w:val="%s"/>`, styleID)
		}
		d.body.WriteString(props)
		d.body.WriteString("</w:pPr>")
	}
	d.run(text, false)
	d.body.WriteString("</w:p>")
}

func (d *docxDocument) run(text string, bold bool) {
	d.body.WriteString("<w:r>")
	if bold {
		d.body.WriteString("<w:rPr><w:b/></w:rPr>")
	}
	fmt.Fprintf(&d.body, `<w:t xml:space="preserve">%s</w:t>`, xmlEscape(text))
	d.body.WriteString("</w:r>")
}

// picture appends a centered inline picture scaled to the text width.
func (d *docxDocument) picture(data []byte, pxWidth, pxHeight int) {
	d.media = append(d.media, data)
	id := len(d.media)
	maxWidth := (d.style.PageWidth - 2*d.style.Margin) * emuPerMM
	width, height := fitWidth(pxWidth*emuPerPixel, pxHeight*emuPerPixel, maxWidth)
	cx, cy := int64(width), int64(height)

	fmt.Fprintf(&d.body, `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Picture %d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="image%d.png"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="rIdImage%d"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, id, id, id, id, id, cx, cy)
}

func (d *docxDocument) table(t *ItemsTable) error {
	rows, err := t.Rows(d.style)
	if err != nil {
		return err
	}
	if t.Caption != "" {
		d.paragraph("Caption", `<w:keepNext/>`, t.Caption)
	}

	widths := t.Widths(60)
	fill := strings.TrimPrefix(d.style.TableHeaderColor, "#")
	d.body.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid>`)
	for _, width := range widths {
		fmt.Fprintf(&d.body, `<w:gridCol w:w="%d"/>`, int(width*twipsPerPoint*1.5))
	}
	d.body.WriteString("</w:tblGrid>")

	row := func(cells []string, header bool) {
		d.body.WriteString("<w:tr>")
		if header {
			d.body.WriteString("<w:trPr><w:tblHeader/></w:trPr>")
		}
		for i, cell := range cells {
			fmt.Fprintf(&d.body, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/>`, int(widths[i]*twipsPerPoint*1.5))
			if header {
				fmt.Fprintf(&d.body, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, xmlEscape(fill))
			}
			d.body.WriteString("</w:tcPr><w:p>")
			d.run(cell, header)
			d.body.WriteString("</w:p></w:tc>")
		}
		d.body.WriteString("</w:tr>")
	}
	row(t.Headers(), true)
	for _, cells := range rows {
		row(cells, false)
	}
	d.body.WriteString("</w:tbl><w:p/>")
	return nil
}

// pack assembles the package parts around the accumulated body.
func (d *docxDocument) pack(title string) (*opcPackage, error) {
	pkg := &opcPackage{}
	err := pkg.addXML("[Content_Types].xml", xmlContentTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ctRelationships},
			{Extension: "xml", ContentType: "application/xml"},
			{Extension: "png", ContentType: "image/png"},
		},
		Overrides: []xmlOverride{
			{PartName: "/word/document.xml", ContentType: ctDocumentMain},
			{PartName: "/word/styles.xml", ContentType: ctStyles},
			{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
		},
	})
	if err != nil {
		return nil, err
	}
	err = pkg.addXML("_rels/.rels", xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{
			{ID: "rId1", Type: relTypeOfficeDoc, Target: "word/document.xml"},
			{ID: "rId2", Type: relTypeCoreProp, Target: "docProps/core.xml"},
		},
	})
	if err != nil {
		return nil, err
	}
	pkg.addRaw("docProps/core.xml", []byte(coreProperties(title, d.style)))

	docRels := xmlRelationships{
		Xmlns:         nsRelationships,
		Relationships: []xmlRelationship{{ID: "rIdStyles", Type: relTypeStyles, Target: "styles.xml"}},
	}
	for i := range d.media {
		docRels.Relationships = append(docRels.Relationships, xmlRelationship{
			ID: fmt.Sprintf("rIdImage%d", i+1), Type: relTypeImage, Target: fmt.Sprintf("media/image%d.png", i+1),
		})
	}
	if err := pkg.addXML("word/_rels/document.xml.rels", docRels); err != nil {
		return nil, err
	}

	pkg.addRaw("word/document.xml", []byte(d.document()))
	pkg.addRaw("word/styles.xml", []byte(docxStyles(d.style)))
	for i, data := range d.media {
		pkg.addRaw(fmt.Sprintf("word/media/image%d.png", i+1), data)
	}
	return pkg, nil
}

func (d *docxDocument) document() string {
	margin := int(d.style.Margin * twipsPerMM)
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	fmt.Fprintf(&sb, `<w:document xmlns:w="%s" xmlns:r="%s" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"><w:body>`,
		nsWordML, nsOfficeDocRels)
	sb.WriteString(d.body.String())
	fmt.Fprintf(&sb, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`,
		int(d.style.PageWidth*twipsPerMM), int(d.style.PageHeight*twipsPerMM), margin, margin, margin, margin)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

// docxStyles returns the style definitions referenced by the document.
func docxStyles(style *Style) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	fmt.Fprintf(&sb, `<w:styles xmlns:w="%s">`, nsWordML)
	fmt.Fprintf(&sb, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s"/><w:sz w:val="%[2]d"/></w:rPr></w:rPrDefault>`+
		`<w:pPrDefault><w:pPr><w:spacing w:after="120"/></w:pPr></w:pPrDefault></w:docDefaults>`,
		xmlEscape(style.BodyFont), halfPoints(style.FontSize))
	sb.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>`)
	for level := LevelTitle; level <= LevelSubsection; level++ {
		fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:styleId="Heading%[1]d"><w:name w:val="heading %[1]d"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>`+
			`<w:pPr><w:keepNext/><w:spacing w:before="240"/><w:outlineLvl w:val="%[2]d"/></w:pPr>`+
			`<w:rPr><w:rFonts w:ascii="%[3]s" w:hAnsi="%[3]s"/><w:b/><w:sz w:val="%[4]d"/></w:rPr></w:style>`,
			level, level-1, xmlEscape(style.HeaderFont), halfPoints(style.HeaderSize(level)))
		fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:styleId="TOC%[1]d"><w:name w:val="toc %[1]d"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="%[2]d"/></w:pPr></w:style>`,
			level, (level-1)*360)
	}
	sb.WriteString(`<w:style w:type="paragraph" w:styleId="TOCHeading"><w:name w:val="TOC Heading"/><w:basedOn w:val="Normal"/><w:rPr><w:b/></w:rPr></w:style>`)
	fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:styleId="Caption"><w:name w:val="caption"/><w:basedOn w:val="Normal"/><w:pPr><w:jc w:val="center"/></w:pPr><w:rPr><w:i/><w:sz w:val="%d"/></w:rPr></w:style>`,
		halfPoints(style.FontSize-1))
	sb.WriteString(`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:tblPr><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
		`</w:tblBorders></w:tblPr></w:style>`)
	sb.WriteString(`</w:styles>`)
	return sb.String()
}
