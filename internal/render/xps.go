package render

import (
	"bytes"

	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/report"
)

// XPS renders the model as a one page XPS document holding the PNG rendering.
func XPS(m *model.PlotModel, width, height int) ([]byte, error) {
	data, err := PNG(m, width, height)
	if err != nil {
		return nil, err
	}

	r := report.New(m.Title)
	s := report.NewSection()
	img := s.AddImage("plot.png", "")
	img.Data = data
	img.Width, img.Height = width, height
	r.Add(s)

	style := report.DefaultStyle()
	style.PageWidth = float64(width) * 25.4 / 96
	style.PageHeight = float64(height) * 25.4 / 96
	style.Margin = 0

	var buf bytes.Buffer
	w := report.NewXPSWriter(&buf)
	if err := report.NewMultiWriter(w).WriteReport(r, style); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
