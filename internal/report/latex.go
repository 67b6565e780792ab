package report

import (
	"fmt"
	"io"
	"strings"
)

// LaTeXWriter outputs reports as LaTeX article source.
// The document title and author are fixed at construction and written to
// the preamble; images are referenced with \includegraphics, so PDF and PNG
// files must stay next to the .tex file.
type LaTeXWriter struct {
	baseWriter

	title  string
	author string
}

// NewLaTeXWriter creates a LaTeXWriter with the given document metadata.
func NewLaTeXWriter(output io.Writer, title, author string, opts ...Option) *LaTeXWriter {
	return &LaTeXWriter{
		baseWriter: newBaseWriter(output, opts...),
		title:      title,
		author:     author,
	}
}

// WriteReport outputs the report as a LaTeX document.
func (w *LaTeXWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)

	var sb strings.Builder
	w.writePreamble(&sb, style)
	for _, s := range r.Sections {
		for _, item := range s.Items {
			if err := w.writeItem(&sb, item, style); err != nil {
				return err
			}
		}
	}
	sb.WriteString("\\end{document}\n")

	_, err := io.WriteString(w.output, sb.String())
	return err
}

func (w *LaTeXWriter) writePreamble(sb *strings.Builder, style *Style) {
	sb.WriteString("\\documentclass[a4paper]{article}\n")
	sb.WriteString("\\usepackage[utf8]{inputenc}\n")
	sb.WriteString("\\usepackage[T1]{fontenc}\n")
	sb.WriteString("\\usepackage{graphicx}\n")
	sb.WriteString("\\usepackage{amsmath}\n")
	sb.WriteString("\\usepackage{longtable}\n")
	fmt.Fprintf(sb, "\\usepackage[margin=%gmm]{geometry}\n", style.Margin)
	fmt.Fprintf(sb, "\\title{%s}\n", escapeLaTeX(w.title))
	fmt.Fprintf(sb, "\\author{%s}\n", escapeLaTeX(w.author))
	fmt.Fprintf(sb, "\\date{%s}\n", style.Date.Format("2006-01-02"))
	sb.WriteString("\\begin{document}\n")
	sb.WriteString("\\maketitle\n\n")
}

func (w *LaTeXWriter) writeItem(sb *strings.Builder, item Item, style *Style) error {
	switch it := item.(type) {
	case *Header:
		cmd := [...]string{"section", "subsection", "subsubsection"}[clampLevel(it.Level)-1]
		fmt.Fprintf(sb, "\\%s{%s}\n\n", cmd, escapeLaTeX(it.Text))
	case *Paragraph:
		sb.WriteString(escapeLaTeX(it.Text))
		sb.WriteString("\n\n")
	case *Image:
		sb.WriteString("\\begin{figure}[h]\n\\centering\n")
		fmt.Fprintf(sb, "\\includegraphics[width=\\textwidth]{%s}\n", w.link(it.Source))
		fmt.Fprintf(sb, "\\caption{%s}\n", escapeLaTeX(it.Caption))
		sb.WriteString("\\end{figure}\n\n")
	case *Drawing:
		fmt.Fprintf(sb, "%% vector drawing not embeddable in LaTeX: %s\n", strings.ReplaceAll(it.Caption, "\n", " "))
		fmt.Fprintf(sb, "\\emph{%s}\n\n", escapeLaTeX(it.Caption))
	case *Equation:
		sb.WriteString("\\begin{equation}\n")
		sb.WriteString(it.Content)
		sb.WriteString("\n\\end{equation}\n\n")
	case *TableOfContents:
		sb.WriteString("\\tableofcontents\n\n")
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		return w.writeTable(sb, t, style)
	}
	return nil
}

func (w *LaTeXWriter) writeTable(sb *strings.Builder, t *ItemsTable, style *Style) error {
	rows, err := t.Rows(style)
	if err != nil {
		return err
	}

	columns := make([]string, len(t.Fields))
	for i, width := range t.Widths(60) {
		columns[i] = fmt.Sprintf("p{%gpt}", width)
	}
	fmt.Fprintf(sb, "\\begin{longtable}{|%s|}\n", strings.Join(columns, "|"))
	if t.Caption != "" {
		fmt.Fprintf(sb, "\\caption{%s}\\\\\n", escapeLaTeX(t.Caption))
	}
	sb.WriteString("\\hline\n")
	sb.WriteString(latexRow(t.Headers()))
	sb.WriteString("\\hline\n\\endhead\n")
	for _, row := range rows {
		sb.WriteString(latexRow(row))
	}
	sb.WriteString("\\hline\n\\end{longtable}\n\n")
	return nil
}

func latexRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = escapeLaTeX(c)
	}
	return strings.Join(escaped, " & ") + " \\\\\n"
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// escapeLaTeX escapes the characters that are special in LaTeX text mode.
func escapeLaTeX(s string) string {
	return latexReplacer.Replace(s)
}
