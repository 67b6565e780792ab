package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/shell"
)

// CopyKind selects what Copy puts on the clipboard.
type CopyKind int

const (
	// CopySVG copies the SVG markup of the plot.
	CopySVG CopyKind = iota

	// CopyXAML copies the XAML markup of the plot.
	CopyXAML

	// CopyBitmap copies the PNG rendering as a data URI.
	CopyBitmap
)

// String returns the CLI name of the kind.
func (k CopyKind) String() string {
	switch k {
	case CopySVG:
		return "svg"
	case CopyXAML:
		return "xaml"
	case CopyBitmap:
		return "bitmap"
	default:
		return "unknown"
	}
}

// ParseCopyKind resolves a CLI name case-insensitively. "png" is accepted
// for bitmaps.
func ParseCopyKind(name string) (CopyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "svg":
		return CopySVG, nil
	case "xaml":
		return CopyXAML, nil
	case "bitmap", "png":
		return CopyBitmap, nil
	default:
		return 0, fmt.Errorf("%w: cannot copy %q", ErrUnsupportedFormat, name)
	}
}

// Copy renders the plot at the exporter's plot size and writes it to the
// clipboard. It returns the copied text.
func (e *Exporter) Copy(ctx context.Context, kind CopyKind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var f format.Format
	switch kind {
	case CopySVG:
		f = format.SVG
	case CopyXAML:
		f = format.XAML
	case CopyBitmap:
		f = format.PNG
	default:
		return "", fmt.Errorf("%w: copy kind %d", ErrUnsupportedFormat, int(kind))
	}

	data, err := e.render(e.model, f, e.width, e.height)
	if err != nil {
		return "", &RenderError{Path: "clipboard", Err: err}
	}
	text := string(data)
	if kind == CopyBitmap {
		text = shell.PNGDataURI(data)
	}
	if err := e.clipboard.WriteText(text); err != nil {
		return "", fmt.Errorf("failed to copy %s: %w", kind, err)
	}
	e.logger.Debug("copied plot", "kind", kind.String(), "bytes", len(text))
	return text, nil
}
