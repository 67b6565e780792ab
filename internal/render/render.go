package render

import (
	"fmt"
	"io"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/model"
)

// Render writes the model in a plot format to w.
func Render(w io.Writer, m *model.PlotModel, f format.Format, width, height int) error {
	data, err := Bytes(m, f, width, height)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Bytes renders the model in a plot format.
func Bytes(m *model.PlotModel, f format.Format, width, height int) ([]byte, error) {
	switch f {
	case format.PNG:
		return PNG(m, width, height)
	case format.PDF:
		return PDF(m, width, height)
	case format.XPS:
		return XPS(m, width, height)
	case format.SVG:
		s, err := SVG(m, width, height)
		return []byte(s), err
	case format.XAML:
		s, err := XAML(m, width, height)
		return []byte(s), err
	default:
		return nil, fmt.Errorf("%w: %v cannot hold a plot", format.ErrUnsupportedFormat, f)
	}
}
