package report

import "github.com/nao1215/plotreport/internal/model"

// Kind identifies the type of a report item.
type Kind string

// Item kinds.
const (
	KindHeader          Kind = "header"
	KindParagraph       Kind = "paragraph"
	KindImage           Kind = "image"
	KindDrawing         Kind = "drawing"
	KindEquation        Kind = "equation"
	KindPropertyTable   Kind = "propertyTable"
	KindItemsTable      Kind = "itemsTable"
	KindTableOfContents Kind = "tableOfContents"
)

// Item is a single element of a report section.
// The set of item types is closed; writers switch over the concrete types.
type Item interface {
	Kind() Kind
}

// Header levels used by the report builder.
const (
	LevelTitle      = 1
	LevelSection    = 2
	LevelSubsection = 3
)

// Header is a heading. Level 1 is the document title, 2 a section and 3 a
// subsection; levels outside 1..3 are clamped by writers.
type Header struct {
	Level int
	Text  string
}

// Paragraph is a block of body text.
type Paragraph struct {
	Text string
}

// Image references an image file (PNG or PDF) on disk.
type Image struct {
	Source  string
	Caption string

	// Width and Height are the pixel size the image was rendered at.
	// Zero means unknown; writers then read the size from PNG data.
	Width  int
	Height int

	// Data, when set, holds the encoded image and Source is not read.
	Data []byte

	// Painter, when set, draws the image as vector graphics for writers
	// that can. Other writers use Source.
	Painter Painter
}

// Drawing is vector content (SVG markup) embedded in the report itself.
type Drawing struct {
	Content string
	Caption string
}

// Equation is a TeX math expression.
type Equation struct {
	Content string
	Caption string
}

// TableOfContents lists the headers found in Source.
type TableOfContents struct {
	Source *Section
}

// Kind implements Item.
func (*Header) Kind() Kind { return KindHeader }

// Kind implements Item.
func (*Paragraph) Kind() Kind { return KindParagraph }

// Kind implements Item.
func (*Image) Kind() Kind { return KindImage }

// Kind implements Item.
func (*Drawing) Kind() Kind { return KindDrawing }

// Kind implements Item.
func (*Equation) Kind() Kind { return KindEquation }

// Kind implements Item.
func (*PropertyTable) Kind() Kind { return KindPropertyTable }

// Kind implements Item.
func (*ItemsTable) Kind() Kind { return KindItemsTable }

// Kind implements Item.
func (*TableOfContents) Kind() Kind { return KindTableOfContents }

// Report is the root of a report tree.
type Report struct {
	// Title is the document title used in metadata (HTML <title>, PDF info).
	Title string

	// Sections are written in order.
	Sections []*Section
}

// New creates an empty report.
func New(title string) *Report {
	return &Report{
		Title:    title,
		Sections: make([]*Section, 0),
	}
}

// Add appends a section.
func (r *Report) Add(s *Section) {
	r.Sections = append(r.Sections, s)
}

// AddHeader appends a header to the last section, creating a leading
// section when the report has none yet.
func (r *Report) AddHeader(level int, text string) *Header {
	if len(r.Sections) == 0 {
		r.Add(NewSection())
	}
	return r.Sections[len(r.Sections)-1].AddHeader(level, text)
}

// Walk calls fn for every item of every section in document order.
func (r *Report) Walk(fn func(Item)) {
	for _, s := range r.Sections {
		for _, item := range s.Items {
			fn(item)
		}
	}
}

// Tables returns every items table in the report, property tables excluded.
func (r *Report) Tables() []*ItemsTable {
	var tables []*ItemsTable
	r.Walk(func(item Item) {
		if t, ok := item.(*ItemsTable); ok {
			tables = append(tables, t)
		}
	})
	return tables
}

// Section is an ordered list of report items.
type Section struct {
	Items []Item
}

// NewSection creates an empty section.
func NewSection() *Section {
	return &Section{Items: make([]Item, 0)}
}

// Add appends an arbitrary item.
func (s *Section) Add(item Item) {
	s.Items = append(s.Items, item)
}

// AddHeader appends a header.
func (s *Section) AddHeader(level int, text string) *Header {
	h := &Header{Level: level, Text: text}
	s.Add(h)
	return h
}

// AddParagraph appends a paragraph.
func (s *Section) AddParagraph(text string) *Paragraph {
	p := &Paragraph{Text: text}
	s.Add(p)
	return p
}

// AddImage appends a reference to an image file.
func (s *Section) AddImage(source, caption string) *Image {
	img := &Image{Source: source, Caption: caption}
	s.Add(img)
	return img
}

// AddDrawing appends embedded SVG content.
func (s *Section) AddDrawing(content, caption string) *Drawing {
	d := &Drawing{Content: content, Caption: caption}
	s.Add(d)
	return d
}

// AddEquation appends a TeX equation.
func (s *Section) AddEquation(content, caption string) *Equation {
	e := &Equation{Content: content, Caption: caption}
	s.Add(e)
	return e
}

// AddTableOfContents appends a table of contents listing the headers of source.
func (s *Section) AddTableOfContents(source *Section) *TableOfContents {
	toc := &TableOfContents{Source: source}
	s.Add(toc)
	return toc
}

// AddPropertyTable appends a two-column table of name/value properties.
func (s *Section) AddPropertyTable(caption string, props []model.Property) *PropertyTable {
	pt := NewPropertyTable(caption, props)
	s.Add(pt)
	return pt
}

// AddItemsTable appends a table bound to items.
func (s *Section) AddItemsTable(caption string, fields []Field, items []FieldValuer) *ItemsTable {
	t := &ItemsTable{Caption: caption, Fields: fields, Items: items}
	s.Add(t)
	return t
}

// Headers returns the headers of the section in order.
func (s *Section) Headers() []*Header {
	var headers []*Header
	for _, item := range s.Items {
		if h, ok := item.(*Header); ok {
			headers = append(headers, h)
		}
	}
	return headers
}

// clampLevel limits a header level to 1..3.
func clampLevel(level int) int {
	return min(max(level, LevelTitle), LevelSubsection)
}
