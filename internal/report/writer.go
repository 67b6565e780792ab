package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // PNG decoder for image sizes
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Writer defines the interface for report output.
// Implementations serialize a report tree in a specific format.
type Writer interface {
	// WriteReport serializes the report using the shared style.
	WriteReport(r *Report, style *Style) error
}

// Saver is implemented by writers that build the document in memory during
// WriteReport and emit it in a separate, explicit step.
type Saver interface {
	Save() error
}

// MultiWriter writes the same report with multiple Writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteReport writes the report with every Writer and stops on the first error.
// Writers that implement Saver are saved after they have written.
func (m *MultiWriter) WriteReport(r *Report, style *Style) error {
	for _, w := range m.writers {
		if err := w.WriteReport(r, style); err != nil {
			return err
		}
		if s, ok := w.(Saver); ok {
			if err := s.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Option configures the common settings of a writer.
type Option func(*baseWriter)

// WithBaseDir sets the directory the document is written to. Image links
// are made relative to it.
func WithBaseDir(dir string) Option {
	return func(b *baseWriter) {
		b.baseDir = dir
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output  io.Writer
	baseDir string
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts ...Option) baseWriter {
	b := baseWriter{output: output}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// link returns the reference to an image as seen from the document.
// Paths inside the base directory become relative, slash-separated paths.
func (b *baseWriter) link(source string) string {
	if b.baseDir == "" {
		return filepath.ToSlash(source)
	}
	absBase, err := filepath.Abs(b.baseDir)
	if err != nil {
		return filepath.ToSlash(source)
	}
	absSource, err := filepath.Abs(source)
	if err != nil {
		return filepath.ToSlash(source)
	}
	rel, err := filepath.Rel(absBase, absSource)
	if err != nil {
		return filepath.ToSlash(source)
	}
	return filepath.ToSlash(rel)
}

// readImage loads the encoded bytes of an image.
func (b *baseWriter) readImage(img *Image) ([]byte, error) {
	if len(img.Data) > 0 {
		return img.Data, nil
	}
	return os.ReadFile(img.Source) //nolint:gosec // Paths come from the report builder
}

// isPDF reports whether an image source is a PDF document.
func isPDF(source string) bool {
	return strings.EqualFold(filepath.Ext(source), ".pdf")
}

// imageSize returns the pixel size of an image, decoding the PNG header
// when the report does not record it.
func imageSize(img *Image, data []byte) (int, int, error) {
	if img.Width > 0 && img.Height > 0 {
		return img.Width, img.Height, nil
	}
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("%w: %s has no recorded size", ErrUnsupportedImage, img.Source)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrUnsupportedImage, img.Source, err)
	}
	if format != "png" {
		return 0, 0, fmt.Errorf("%w: %s is %s", ErrUnsupportedImage, img.Source, format)
	}
	return cfg.Width, cfg.Height, nil
}

// fitWidth scales w x h to fit maxWidth while keeping the aspect ratio.
func fitWidth(w, h int, maxWidth float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxWidth, maxWidth * 0.625
	}
	width := min(float64(w), maxWidth)
	return width, width * float64(h) / float64(w)
}
