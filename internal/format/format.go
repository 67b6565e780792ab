package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions with no registered format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format is an export file format.
type Format int

// Supported formats.
const (
	Text Format = iota + 1
	HTML
	PDF
	RTF
	LaTeX
	XPS
	DOCX
	Markdown
	JSON
	SVG
	PNG
	XAML
)

type info struct {
	name      string
	extension string
	report    bool
	plot      bool
}

var formats = map[Format]info{
	Text:     {name: "text", extension: ".txt", report: true},
	HTML:     {name: "html", extension: ".html", report: true},
	PDF:      {name: "pdf", extension: ".pdf", report: true, plot: true},
	RTF:      {name: "rtf", extension: ".rtf", report: true},
	LaTeX:    {name: "latex", extension: ".tex", report: true},
	XPS:      {name: "xps", extension: ".xps", report: true, plot: true},
	DOCX:     {name: "docx", extension: ".docx", report: true},
	Markdown: {name: "markdown", extension: ".md", report: true},
	JSON:     {name: "json", extension: ".json", report: true},
	SVG:      {name: "svg", extension: ".svg", plot: true},
	PNG:      {name: "png", extension: ".png", plot: true},
	XAML:     {name: "xaml", extension: ".xaml", plot: true},
}

// aliases maps additional extensions onto formats.
var aliases = map[string]Format{
	".htm":      HTML,
	".markdown": Markdown,
}

// All returns every format in declaration order.
func All() []Format {
	all := make([]Format, 0, len(formats))
	for f := Text; f <= XAML; f++ {
		all = append(all, f)
	}
	return all
}

// FromExtension resolves a file extension such as ".PDF" case-insensitively.
func FromExtension(ext string) (Format, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if f, ok := aliases[ext]; ok {
		return f, nil
	}
	for _, f := range All() {
		if formats[f].extension == ext {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// FromPath resolves the format of a target path by its extension.
func FromPath(path string) (Format, error) {
	return FromExtension(filepath.Ext(path))
}

// String returns the format name.
func (f Format) String() string {
	if i, ok := formats[f]; ok {
		return i.name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the canonical file extension including the dot.
func (f Format) Extension() string {
	return formats[f].extension
}

// SupportsReport reports whether a report document can be written in f.
func (f Format) SupportsReport() bool {
	return formats[f].report
}

// SupportsPlot reports whether a plot can be exported directly in f.
func (f Format) SupportsPlot() bool {
	return formats[f].plot
}

// EmbedsVector reports whether reports in f inline the plot as SVG.
func (f Format) EmbedsVector() bool {
	return f == HTML
}

// EmbedsPDF reports whether reports in f reference a rendered PDF plot.
func (f Format) EmbedsPDF() bool {
	return f == PDF || f == LaTeX
}

// IntermediatePath returns the path of a plot file rendered next to target,
// "<dir>/<name>_plot<ext>" where name is the target name without extension.
func IntermediatePath(target, ext string) string {
	dir := filepath.Dir(target)
	name := strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
	return filepath.Join(dir, name+"_plot"+ext)
}
