package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs the report tree in JSON format.
// Tables are written with their formatted rows, so the output is exactly
// what the other writers render.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithJSONBaseDir sets the directory image links are made relative to.
func WithJSONBaseDir(dir string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.baseDir = dir
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonReport is the serialized form of a Report.
type jsonReport struct {
	Title    string        `json:"title"`
	Sections []jsonSection `json:"sections"`
}

type jsonSection struct {
	Items []jsonItem `json:"items"`
}

type jsonItem struct {
	Type     Kind       `json:"type"`
	Level    int        `json:"level,omitempty"`
	Text     string     `json:"text,omitempty"`
	Source   string     `json:"source,omitempty"`
	Caption  string     `json:"caption,omitempty"`
	Content  string     `json:"content,omitempty"`
	Headers  []string   `json:"headers,omitempty"`
	Widths   []float64  `json:"widths,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
	Contents []string   `json:"contents,omitempty"`
}

// WriteReport outputs the report in JSON format.
func (w *JSONWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)

	out := jsonReport{Title: r.Title, Sections: make([]jsonSection, 0, len(r.Sections))}
	for _, s := range r.Sections {
		js := jsonSection{Items: make([]jsonItem, 0, len(s.Items))}
		for _, item := range s.Items {
			ji, err := w.item(item, style)
			if err != nil {
				return err
			}
			js.Items = append(js.Items, ji)
		}
		out.Sections = append(out.Sections, js)
	}

	return w.writeJSON(out)
}

func (w *JSONWriter) item(item Item, style *Style) (jsonItem, error) {
	ji := jsonItem{Type: item.Kind()}
	switch it := item.(type) {
	case *Header:
		ji.Level = clampLevel(it.Level)
		ji.Text = it.Text
	case *Paragraph:
		ji.Text = it.Text
	case *Image:
		ji.Source = w.link(it.Source)
		ji.Caption = it.Caption
	case *Drawing:
		ji.Content = it.Content
		ji.Caption = it.Caption
	case *Equation:
		ji.Content = it.Content
		ji.Caption = it.Caption
	case *TableOfContents:
		if it.Source != nil {
			for _, h := range it.Source.Headers() {
				ji.Contents = append(ji.Contents, h.Text)
			}
		}
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		rows, err := t.Rows(style)
		if err != nil {
			return jsonItem{}, err
		}
		ji.Caption = t.Caption
		ji.Headers = t.Headers()
		ji.Widths = t.Widths(0)
		ji.Rows = rows
	}
	return ji, nil
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) error {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	_, err = w.output.Write(data)
	return err
}
