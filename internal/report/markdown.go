package report

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// When the report has two or more items tables, a mermaid pie chart of their
// row counts follows the level-2 "Data" header.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output, opts...)}
}

// WriteReport outputs the report in Markdown format.
func (w *MarkdownWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)

	md := markdown.NewMarkdown(w.output)
	for _, s := range r.Sections {
		for _, item := range s.Items {
			if err := w.writeItem(md, r, item, style); err != nil {
				return err
			}
		}
	}
	return md.Build()
}

func (w *MarkdownWriter) writeItem(md *markdown.Markdown, r *Report, item Item, style *Style) error {
	switch it := item.(type) {
	case *Header:
		switch clampLevel(it.Level) {
		case LevelTitle:
			md.H1(it.Text)
		case LevelSection:
			md.H2(it.Text)
		default:
			md.H3(it.Text)
		}
		md.PlainText("")
		if it.Level == LevelSection && it.Text == "Data" {
			w.writeDistribution(md, r)
		}
	case *Paragraph:
		md.PlainText(it.Text)
		md.PlainText("")
	case *Image:
		md.PlainTextf("![%s](%s)", it.Caption, w.link(it.Source))
		md.PlainText("")
		md.PlainTextf("*%s*", it.Caption)
		md.PlainText("")
	case *Drawing:
		md.Note(it.Caption + " is a vector drawing; see the bitmap rendering below.")
		md.PlainText("")
	case *Equation:
		md.CodeBlocks(markdown.SyntaxHighlight("math"), it.Content)
		md.PlainText("")
	case *TableOfContents:
		if it.Source != nil {
			var entries []string
			for _, h := range it.Source.Headers() {
				entries = append(entries, "["+h.Text+"](#"+anchor(h.Text)+")")
			}
			if len(entries) > 0 {
				md.BulletList(entries...)
				md.PlainText("")
			}
		}
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		rows, err := t.Rows(style)
		if err != nil {
			return err
		}
		if t.Caption != "" {
			md.PlainTextf("**%s**", t.Caption)
			md.PlainText("")
		}
		md.Table(markdown.TableSet{
			Header: t.Headers(),
			Rows:   rows,
		})
		md.PlainText("")
	}
	return nil
}

// writeDistribution writes a mermaid pie chart of the rows of every items table.
func (w *MarkdownWriter) writeDistribution(md *markdown.Markdown, r *Report) {
	tables := r.Tables()
	if len(tables) < 2 {
		return
	}
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Points per table"),
		piechart.WithShowData(true),
	)
	total := 0
	for i, t := range tables {
		if len(t.Items) == 0 {
			continue
		}
		label := t.Caption
		if label == "" {
			label = "Table"
		}
		chart.LabelAndIntValue(label+" "+strconv.Itoa(i+1), uint64(len(t.Items)))
		total += len(t.Items)
	}
	if total == 0 {
		return
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// anchor converts header text to a GitHub heading anchor.
func anchor(text string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('-')
		}
	}
	return sb.String()
}
