package model

import "math"

// DataPoint is a single coordinate in a series.
type DataPoint struct {
	// X is the x-coordinate.
	X float64 `json:"x" yaml:"x"`

	// Y is the y-coordinate.
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for DataPoint{X: x, Y: y}.
func Pt(x, y float64) DataPoint {
	return DataPoint{X: x, Y: y}
}

// IsValid reports whether neither coordinate is NaN.
// Infinite coordinates are valid; only NaN marks a missing value.
func IsValid(p DataPoint) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// IsValid reports whether neither coordinate is NaN.
func (p DataPoint) IsValid() bool {
	return IsValid(p)
}

// FieldValue returns the coordinate named by path ("X" or "Y").
// It lets report tables bind columns to data points by name.
func (p DataPoint) FieldValue(path string) (any, bool) {
	switch path {
	case "X", "x":
		return p.X, true
	case "Y", "y":
		return p.Y, true
	default:
		return nil, false
	}
}
