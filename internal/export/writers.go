package export

import (
	"io"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/report"
)

// Default LaTeX document metadata.
const (
	DefaultLaTeXTitle  = "Example report"
	DefaultLaTeXAuthor = "oxyplot"
)

// WriterFactory creates the report writer for one export. dir is the
// target directory that image links are made relative to.
type WriterFactory func(out io.Writer, dir string) report.Writer

// registry maps every report format to its single writer factory.
type registry map[format.Format]WriterFactory

func defaultRegistry(latexTitle, latexAuthor string) registry {
	return registry{
		format.Text: func(out io.Writer, dir string) report.Writer {
			return report.NewTextWriter(out, report.WithBaseDir(dir))
		},
		format.HTML: func(out io.Writer, dir string) report.Writer {
			return report.NewHTMLWriter(out, report.WithBaseDir(dir))
		},
		format.PDF: func(out io.Writer, dir string) report.Writer {
			return report.NewPDFWriter(out, report.WithBaseDir(dir))
		},
		format.RTF: func(out io.Writer, dir string) report.Writer {
			return report.NewRTFWriter(out, report.WithBaseDir(dir))
		},
		format.LaTeX: func(out io.Writer, dir string) report.Writer {
			return report.NewLaTeXWriter(out, latexTitle, latexAuthor, report.WithBaseDir(dir))
		},
		format.XPS: func(out io.Writer, dir string) report.Writer {
			return report.NewXPSWriter(out, report.WithBaseDir(dir))
		},
		format.DOCX: func(out io.Writer, dir string) report.Writer {
			return report.NewDOCXWriter(out, report.WithBaseDir(dir))
		},
		format.Markdown: func(out io.Writer, dir string) report.Writer {
			return report.NewMarkdownWriter(out, report.WithBaseDir(dir))
		},
		format.JSON: func(out io.Writer, dir string) report.Writer {
			return report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithJSONBaseDir(dir))
		},
	}
}

// ReportFormats returns the formats SaveReport accepts in declaration order.
func (e *Exporter) ReportFormats() []format.Format {
	var formats []format.Format
	for _, f := range format.All() {
		if _, ok := e.writers[f]; ok && f.SupportsReport() {
			formats = append(formats, f)
		}
	}
	return formats
}
