package report

import (
	"fmt"

	"github.com/nao1215/plotreport/internal/model"
)

// FieldValuer is implemented by values that can populate a table row.
// FieldValue returns the value at path and whether the path exists.
type FieldValuer interface {
	FieldValue(path string) (any, bool)
}

// Field describes one column of an items table.
type Field struct {
	// Path is the property name looked up on every item.
	Path string

	// Header is the column title; Path is used when empty.
	Header string

	// Width is the preferred column width in points. Zero lets the writer decide.
	Width float64

	// Format is a numeric pattern such as "0.00" or "#,##0.0" applied to
	// numeric values. Empty means the shortest exact representation.
	Format string
}

// Title returns the header text of the field.
func (f Field) Title() string {
	if f.Header != "" {
		return f.Header
	}
	return f.Path
}

// ItemsTable is a table whose rows are generated from bound items.
type ItemsTable struct {
	Caption string
	Fields  []Field
	Items   []FieldValuer
}

// Headers returns the column titles.
func (t *ItemsTable) Headers() []string {
	headers := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		headers[i] = f.Title()
	}
	return headers
}

// Widths returns the column widths, substituting fallback for unset widths.
func (t *ItemsTable) Widths(fallback float64) []float64 {
	widths := make([]float64, len(t.Fields))
	for i, f := range t.Fields {
		widths[i] = f.Width
		if widths[i] <= 0 {
			widths[i] = fallback
		}
	}
	return widths
}

// Validate checks that the table has fields and that every field resolves
// on every item.
func (t *ItemsTable) Validate() error {
	if len(t.Fields) == 0 {
		return fmt.Errorf("%w: table %q has no fields", ErrFieldMismatch, t.Caption)
	}
	for i, item := range t.Items {
		for _, f := range t.Fields {
			if _, ok := item.FieldValue(f.Path); !ok {
				return fmt.Errorf("%w: table %q row %d has no field %q", ErrFieldMismatch, t.Caption, i, f.Path)
			}
		}
	}
	return nil
}

// Rows formats every cell of the table using the style's number formatting.
func (t *ItemsTable) Rows(style *Style) ([][]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	f := style.Formatter()
	rows := make([][]string, len(t.Items))
	for i, item := range t.Items {
		row := make([]string, len(t.Fields))
		for j, field := range t.Fields {
			v, _ := item.FieldValue(field.Path)
			row[j] = f.Format(v, field.Format)
		}
		rows[i] = row
	}
	return rows, nil
}

// Property table column widths.
const (
	PropertyNameWidth  = 50
	PropertyValueWidth = 100
)

// PropertyTable is a two-column items table of property names and values.
type PropertyTable struct {
	ItemsTable
}

// NewPropertyTable creates a property table with the fixed name/value columns.
func NewPropertyTable(caption string, props []model.Property) *PropertyTable {
	items := make([]FieldValuer, len(props))
	for i, p := range props {
		items[i] = p
	}
	return &PropertyTable{
		ItemsTable: ItemsTable{
			Caption: caption,
			Fields: []Field{
				{Path: "Name", Header: "Property", Width: PropertyNameWidth},
				{Path: "Value", Header: "Value", Width: PropertyValueWidth},
			},
			Items: items,
		},
	}
}

// Points adapts data points to table items.
func Points(points []model.DataPoint) []FieldValuer {
	items := make([]FieldValuer, len(points))
	for i, p := range points {
		items[i] = p
	}
	return items
}

// tableOf returns the underlying items table of a table item.
func tableOf(item Item) (*ItemsTable, bool) {
	switch t := item.(type) {
	case *ItemsTable:
		return t, true
	case *PropertyTable:
		return &t.ItemsTable, true
	default:
		return nil, false
	}
}
