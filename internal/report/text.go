package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// textLineWidth is the column at which paragraphs are wrapped.
const textLineWidth = 70

// TextWriter outputs reports as plain text.
// Headers are underlined, paragraphs are wrapped at 70 columns and tables
// are rendered with fixed-width columns sized to their content.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...Option) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output, opts...)}
}

// WriteReport outputs the report as plain text.
func (w *TextWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)

	var sb strings.Builder
	for _, s := range r.Sections {
		for _, item := range s.Items {
			if err := w.writeItem(&sb, item, style); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w.output, sb.String())
	return err
}

func (w *TextWriter) writeItem(sb *strings.Builder, item Item, style *Style) error {
	switch it := item.(type) {
	case *Header:
		w.writeHeader(sb, it)
	case *Paragraph:
		for _, line := range wrapText(it.Text, textLineWidth) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	case *Image:
		sb.WriteString(fmt.Sprintf("[Image: %s] %s\n\n", it.Caption, w.link(it.Source)))
	case *Drawing:
		sb.WriteString(fmt.Sprintf("[Drawing: %s]\n\n", it.Caption))
	case *Equation:
		sb.WriteString("    " + it.Content)
		if it.Caption != "" {
			sb.WriteString("    (" + it.Caption + ")")
		}
		sb.WriteString("\n\n")
	case *TableOfContents:
		w.writeContents(sb, it)
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		return w.writeTable(sb, t, style)
	}
	return nil
}

func (w *TextWriter) writeHeader(sb *strings.Builder, h *Header) {
	switch clampLevel(h.Level) {
	case LevelTitle:
		sb.WriteString(strings.Repeat("=", textLineWidth))
		sb.WriteString("\n")
		pad := max((textLineWidth-utf8.RuneCountInString(h.Text))/2, 0)
		sb.WriteString(strings.Repeat(" ", pad) + strings.ToUpper(h.Text) + "\n")
		sb.WriteString(strings.Repeat("=", textLineWidth))
		sb.WriteString("\n\n")
	case LevelSection:
		sb.WriteString(strings.Repeat("-", textLineWidth))
		sb.WriteString("\n")
		sb.WriteString(strings.ToUpper(h.Text) + "\n")
		sb.WriteString(strings.Repeat("-", textLineWidth))
		sb.WriteString("\n\n")
	default:
		sb.WriteString(h.Text + "\n")
		sb.WriteString(strings.Repeat("~", utf8.RuneCountInString(h.Text)))
		sb.WriteString("\n\n")
	}
}

func (w *TextWriter) writeContents(sb *strings.Builder, toc *TableOfContents) {
	sb.WriteString("Contents\n")
	if toc.Source != nil {
		for _, h := range toc.Source.Headers() {
			indent := strings.Repeat("  ", clampLevel(h.Level)-1)
			sb.WriteString(indent + "* " + h.Text + "\n")
		}
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeTable(sb *strings.Builder, t *ItemsTable, style *Style) error {
	rows, err := t.Rows(style)
	if err != nil {
		return err
	}
	headers := t.Headers()

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	separator := func() {
		sb.WriteString("+")
		for _, cw := range widths {
			sb.WriteString(strings.Repeat("-", cw+2))
			sb.WriteString("+")
		}
		sb.WriteString("\n")
	}
	line := func(cells []string) {
		sb.WriteString("|")
		for i, cell := range cells {
			sb.WriteString(" ")
			sb.WriteString(padRight(cell, widths[i]))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	if t.Caption != "" {
		sb.WriteString(t.Caption + "\n")
	}
	separator()
	line(headers)
	separator()
	for _, row := range rows {
		line(row)
	}
	separator()
	sb.WriteString("\n")
	return nil
}

// padRight pads s with spaces to n runes.
func padRight(s string, n int) string {
	count := utf8.RuneCountInString(s)
	if count >= n {
		return s
	}
	return s + strings.Repeat(" ", n-count)
}

// wrapText breaks text into lines of at most width runes at word boundaries.
// Words longer than width are kept on their own line.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}
