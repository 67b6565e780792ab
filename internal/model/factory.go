package model

import (
	"fmt"
	"math"
	"strings"
)

// ModelType identifies one of the built-in demo models.
type ModelType int

const (
	// ModelSineWave is a single sine wave sampled over [0, 10].
	ModelSineWave ModelType = iota

	// ModelNormalDistribution shows three normal density curves.
	ModelNormalDistribution

	// ModelClover is a four-leaf parametric curve.
	ModelClover

	// ModelSquareWave is a Fourier approximation of a square wave plus its samples.
	ModelSquareWave

	// ModelGaps is a line series with NaN gaps that break the line.
	ModelGaps
)

// DefaultModelType is used when no model is specified.
const DefaultModelType = ModelSineWave

var modelTypeNames = map[ModelType]string{
	ModelSineWave:           "sine-wave",
	ModelNormalDistribution: "normal-distribution",
	ModelClover:             "clover",
	ModelSquareWave:         "square-wave",
	ModelGaps:               "gaps",
}

// ModelTypes returns all built-in model types in declaration order.
func ModelTypes() []ModelType {
	return []ModelType{
		ModelSineWave,
		ModelNormalDistribution,
		ModelClover,
		ModelSquareWave,
		ModelGaps,
	}
}

// String returns the CLI name of the model type.
func (t ModelType) String() string {
	if name, ok := modelTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseModelType resolves a model type name case-insensitively.
// Both "sine-wave" and "SineWave" are accepted.
func ParseModelType(name string) (ModelType, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	for t, n := range modelTypeNames {
		if normalized == n || normalized == strings.ReplaceAll(n, "-", "") {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModelType, name)
}

// NewPlotModel creates the built-in model of the given type.
func NewPlotModel(t ModelType) (*PlotModel, error) {
	switch t {
	case ModelSineWave:
		return sineWave(), nil
	case ModelNormalDistribution:
		return normalDistribution(), nil
	case ModelClover:
		return clover(), nil
	case ModelSquareWave:
		return squareWave(), nil
	case ModelGaps:
		return gaps(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownModelType, int(t))
	}
}

// sample evaluates f at n+1 evenly spaced points in [from, to].
func sample(f func(float64) float64, from, to float64, n int) []DataPoint {
	points := make([]DataPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		x := from + (to-from)*float64(i)/float64(n)
		points = append(points, Pt(x, f(x)))
	}
	return points
}

func sineWave() *PlotModel {
	m := NewEmptyPlotModel("Sine wave")
	m.XAxisTitle = "x"
	m.YAxisTitle = "sin(x)"
	m.AddSeries(Series{
		Title:  "sin(x)",
		Kind:   SeriesLine,
		Points: sample(math.Sin, 0, 10, 100),
	})
	return m
}

func normalDistribution() *PlotModel {
	m := NewEmptyPlotModel("Normal distribution")
	m.Subtitle = "Probability density function"
	m.YAxisTitle = "p(x)"
	for _, p := range []struct{ mean, variance float64 }{
		{0, 0.2},
		{0, 1},
		{-2, 0.5},
	} {
		mean, variance := p.mean, p.variance
		pdf := func(x float64) float64 {
			return math.Exp(-(x-mean)*(x-mean)/(2*variance)) / math.Sqrt(2*math.Pi*variance)
		}
		m.AddSeries(Series{
			Title:  fmt.Sprintf("μ=%g, σ²=%g", mean, variance),
			Kind:   SeriesLine,
			Points: sample(pdf, -5, 5, 200),
		})
	}
	return m
}

func clover() *PlotModel {
	m := NewEmptyPlotModel("Clover")
	m.Subtitle = "r = cos(2θ)"
	n := 360
	points := make([]DataPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		r := math.Cos(2 * theta)
		points = append(points, Pt(r*math.Cos(theta), r*math.Sin(theta)))
	}
	m.AddSeries(Series{Title: "clover", Kind: SeriesLine, Points: points})
	return m
}

func squareWave() *PlotModel {
	m := NewEmptyPlotModel("Square wave")
	m.Subtitle = "Fourier series, 10 terms"
	approx := func(x float64) float64 {
		y := 0.0
		for k := 1; k <= 19; k += 2 {
			y += math.Sin(float64(k)*x) / float64(k)
		}
		return 4 / math.Pi * y
	}
	m.AddSeries(Series{Title: "approximation", Kind: SeriesLine, Points: sample(approx, -math.Pi, math.Pi, 400)})
	m.AddSeries(Series{
		Title:      "samples",
		Kind:       SeriesScatter,
		MarkerSize: 2,
		Points: sample(func(x float64) float64 {
			if x < 0 {
				return -1
			}
			return 1
		}, -math.Pi, math.Pi, 20),
	})
	return m
}

func gaps() *PlotModel {
	m := NewEmptyPlotModel("Line with gaps")
	m.Subtitle = "NaN values break the line"
	points := sample(func(x float64) float64 { return math.Sqrt(x) }, 0, 20, 40)
	for i := range points {
		if i%10 == 5 {
			points[i].Y = math.NaN()
		}
	}
	m.AddSeries(Series{Title: "sqrt(x)", Kind: SeriesArea, Points: points})
	return m
}
