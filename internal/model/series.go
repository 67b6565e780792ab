package model

import (
	"fmt"
	"strconv"
)

// SeriesKind is the way a series is drawn.
type SeriesKind int

const (
	// SeriesLine connects consecutive valid points with straight segments.
	SeriesLine SeriesKind = iota

	// SeriesScatter draws a marker at every valid point.
	SeriesScatter

	// SeriesArea draws a line and fills the region down to y=0.
	SeriesArea
)

// String returns the type name shown in report property tables.
func (k SeriesKind) String() string {
	switch k {
	case SeriesLine:
		return "LineSeries"
	case SeriesScatter:
		return "ScatterSeries"
	case SeriesArea:
		return "AreaSeries"
	default:
		return "UnknownSeries"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SeriesKind) MarshalText() ([]byte, error) {
	switch k {
	case SeriesLine:
		return []byte("line"), nil
	case SeriesScatter:
		return []byte("scatter"), nil
	case SeriesArea:
		return []byte("area"), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSeriesKind, int(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SeriesKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "line":
		*k = SeriesLine
	case "scatter":
		*k = SeriesScatter
	case "area":
		*k = SeriesArea
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSeriesKind, string(text))
	}
	return nil
}

// Series is an ordered sequence of data points with its drawing style.
type Series struct {
	// Title is shown in legends and report headers.
	Title string `json:"title" yaml:"title"`

	// Kind selects line, scatter or area rendering.
	Kind SeriesKind `json:"kind" yaml:"kind"`

	// Color is a "#RRGGBB" string. Empty means the renderer palette color.
	Color string `json:"color,omitempty" yaml:"color,omitempty"`

	// StrokeThickness is the line width in pixels. Zero means 2.
	StrokeThickness float64 `json:"strokeThickness,omitempty" yaml:"strokeThickness,omitempty"`

	// MarkerSize is the scatter marker radius in pixels. Zero means 3.
	MarkerSize float64 `json:"markerSize,omitempty" yaml:"markerSize,omitempty"`

	// Points holds the data in drawing order.
	Points []DataPoint `json:"points" yaml:"points"`
}

// Default style values applied when a Series leaves them unset.
const (
	DefaultStrokeThickness = 2.0
	DefaultMarkerSize      = 3.0
)

// Thickness returns the effective stroke thickness.
func (s *Series) Thickness() float64 {
	if s.StrokeThickness > 0 {
		return s.StrokeThickness
	}
	return DefaultStrokeThickness
}

// Marker returns the effective marker size.
func (s *Series) Marker() float64 {
	if s.MarkerSize > 0 {
		return s.MarkerSize
	}
	return DefaultMarkerSize
}

// ValidCount returns the number of points for which IsValid is true.
func (s *Series) ValidCount() int {
	n := 0
	for _, p := range s.Points {
		if p.IsValid() {
			n++
		}
	}
	return n
}

// ValidRuns splits the points into maximal runs of consecutive valid points.
// An invalid point ends the current run, so lines are broken at NaN gaps.
// Empty runs are never returned.
func (s *Series) ValidRuns() [][]DataPoint {
	var runs [][]DataPoint
	start := -1
	for i, p := range s.Points {
		if p.IsValid() {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s.Points[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s.Points[start:])
	}
	return runs
}

// Property is a single name/value pair describing a series.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FieldValue resolves "Name" and "Value" so properties can fill a table.
func (p Property) FieldValue(path string) (any, bool) {
	switch path {
	case "Name":
		return p.Name, true
	case "Value":
		return p.Value, true
	default:
		return nil, false
	}
}

// Properties returns the series properties listed in report property tables.
func (s *Series) Properties() []Property {
	color := s.Color
	if color == "" {
		color = "Automatic"
	}
	return []Property{
		{Name: "Title", Value: s.Title},
		{Name: "Type", Value: s.Kind.String()},
		{Name: "Color", Value: color},
		{Name: "StrokeThickness", Value: strconv.FormatFloat(s.Thickness(), 'g', -1, 64)},
		{Name: "MarkerSize", Value: strconv.FormatFloat(s.Marker(), 'g', -1, 64)},
		{Name: "Points", Value: strconv.Itoa(len(s.Points))},
		{Name: "ValidPoints", Value: strconv.Itoa(s.ValidCount())},
	}
}
