package report

import (
	"sync"
	"time"
)

// Style is the shared formatting configuration handed to every writer.
// Writers read it; they never modify it.
type Style struct {
	// BodyFont is the font family for body text. Writers map it to the
	// closest family their format supports.
	BodyFont string

	// HeaderFont is the font family for headers.
	HeaderFont string

	// FontSize is the body text size in points.
	FontSize float64

	// HeaderSizes are the sizes in points of header levels 1, 2 and 3.
	HeaderSizes [3]float64

	// TableHeaderColor is the "#RRGGBB" shading of table header rows.
	TableHeaderColor string

	// Margin is the page margin in millimetres for paged formats.
	Margin float64

	// PageWidth and PageHeight are the page size in millimetres (A4 by default).
	PageWidth  float64
	PageHeight float64

	// Locale is the BCP 47 tag used to format numbers.
	Locale string

	// Author is written to document metadata.
	Author string

	// Date is written to document metadata. A fixed value keeps output
	// byte-identical across runs.
	Date time.Time

	formatterOnce sync.Once
	formatter     *Formatter
}

// Default style values.
const (
	DefaultBodyFont         = "Helvetica"
	DefaultFontSize         = 11
	DefaultTableHeaderColor = "#E0E0E0"
	DefaultMargin           = 20
	DefaultPageWidth        = 210
	DefaultPageHeight       = 297
	DefaultLocale           = "en"
)

// DefaultDate is the metadata timestamp used unless a style overrides it.
var DefaultDate = time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultStyle returns the style used when none is configured.
func DefaultStyle() *Style {
	return &Style{
		BodyFont:         DefaultBodyFont,
		HeaderFont:       DefaultBodyFont,
		FontSize:         DefaultFontSize,
		HeaderSizes:      [3]float64{20, 16, 13},
		TableHeaderColor: DefaultTableHeaderColor,
		Margin:           DefaultMargin,
		PageWidth:        DefaultPageWidth,
		PageHeight:       DefaultPageHeight,
		Locale:           DefaultLocale,
		Date:             DefaultDate,
	}
}

// HeaderSize returns the font size of a header level.
func (s *Style) HeaderSize(level int) float64 {
	return s.HeaderSizes[clampLevel(level)-1]
}

// Formatter returns the number formatter for the style's locale.
func (s *Style) Formatter() *Formatter {
	s.formatterOnce.Do(func() {
		s.formatter = NewFormatter(s.Locale)
	})
	return s.formatter
}

// orDefault returns s, or the default style when s is nil.
func orDefault(s *Style) *Style {
	if s == nil {
		return DefaultStyle()
	}
	return s
}
