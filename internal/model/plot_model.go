package model

// PlotModel is the in-memory representation of a chart.
// Exporters read a PlotModel; they never modify it.
type PlotModel struct {
	// Title is drawn above the plot area.
	Title string `json:"title" yaml:"title"`

	// Subtitle is drawn below the title when set.
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`

	// XAxisTitle labels the horizontal axis.
	XAxisTitle string `json:"xAxisTitle,omitempty" yaml:"xAxisTitle,omitempty"`

	// YAxisTitle labels the vertical axis.
	YAxisTitle string `json:"yAxisTitle,omitempty" yaml:"yAxisTitle,omitempty"`

	// Background is a "#RRGGBB" fill for the whole surface. Empty means white.
	Background string `json:"background,omitempty" yaml:"background,omitempty"`

	// Series are drawn in order; later series paint over earlier ones.
	Series []Series `json:"series" yaml:"series"`
}

// NewEmptyPlotModel creates a model with a title and no series.
func NewEmptyPlotModel(title string) *PlotModel {
	return &PlotModel{
		Title:  title,
		Series: make([]Series, 0),
	}
}

// AddSeries appends a series and returns a pointer to the stored copy.
func (m *PlotModel) AddSeries(s Series) *Series {
	m.Series = append(m.Series, s)
	return &m.Series[len(m.Series)-1]
}

// TotalNumberOfPoints returns the number of points across all series,
// valid or not. A nil model has zero points.
func (m *PlotModel) TotalNumberOfPoints() int {
	if m == nil {
		return 0
	}
	total := 0
	for i := range m.Series {
		total += len(m.Series[i].Points)
	}
	return total
}

// Bounds returns the extent of all valid points.
// ok is false when the model has no valid point.
func (m *PlotModel) Bounds() (minX, maxX, minY, maxY float64, ok bool) {
	for i := range m.Series {
		for _, p := range m.Series[i].Points {
			if !p.IsValid() {
				continue
			}
			if !ok {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				ok = true
				continue
			}
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
		}
	}
	return minX, maxX, minY, maxY, ok
}
