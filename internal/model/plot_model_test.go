package model

import (
	"errors"
	"math"
	"testing"
)

func TestTotalNumberOfPoints(t *testing.T) {
	t.Parallel()

	t.Run("nil model has no points", func(t *testing.T) {
		t.Parallel()
		var m *PlotModel
		if m.TotalNumberOfPoints() != 0 {
			t.Error("expected 0 points for nil model")
		}
	})

	t.Run("counts invalid points too", func(t *testing.T) {
		t.Parallel()
		m := NewEmptyPlotModel("m")
		m.AddSeries(Series{Points: []DataPoint{Pt(0, 0), Pt(1, math.NaN())}})
		m.AddSeries(Series{Points: []DataPoint{Pt(2, 2)}})
		if got := m.TotalNumberOfPoints(); got != 3 {
			t.Errorf("expected 3 points, got %d", got)
		}
	})
}

func TestBounds(t *testing.T) {
	t.Parallel()

	t.Run("ignores invalid points", func(t *testing.T) {
		t.Parallel()
		m := NewEmptyPlotModel("m")
		m.AddSeries(Series{Points: []DataPoint{Pt(0, 0), Pt(math.NaN(), 100), Pt(2, 4)}})
		minX, maxX, minY, maxY, ok := m.Bounds()
		if !ok {
			t.Fatal("expected bounds")
		}
		if minX != 0 || maxX != 2 || minY != 0 || maxY != 4 {
			t.Errorf("unexpected bounds (%v, %v, %v, %v)", minX, maxX, minY, maxY)
		}
	})

	t.Run("no valid points", func(t *testing.T) {
		t.Parallel()
		m := NewEmptyPlotModel("m")
		if _, _, _, _, ok := m.Bounds(); ok {
			t.Error("expected no bounds for empty model")
		}
	})
}

func TestNewPlotModel(t *testing.T) {
	t.Parallel()

	for _, mt := range ModelTypes() {
		t.Run(mt.String(), func(t *testing.T) {
			t.Parallel()
			m, err := NewPlotModel(mt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Title == "" {
				t.Error("expected a title")
			}
			if len(m.Series) == 0 {
				t.Error("expected at least one series")
			}
			if m.TotalNumberOfPoints() == 0 {
				t.Error("expected points")
			}
		})
	}

	t.Run("gaps model contains invalid points", func(t *testing.T) {
		t.Parallel()
		m, err := NewPlotModel(ModelGaps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s := m.Series[0]
		if s.ValidCount() == len(s.Points) {
			t.Error("expected NaN gaps in the gaps model")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := NewPlotModel(ModelType(99))
		if !errors.Is(err, ErrUnknownModelType) {
			t.Errorf("expected ErrUnknownModelType, got %v", err)
		}
	})
}

func TestParseModelType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected ModelType
	}{
		{"sine-wave", ModelSineWave},
		{"SineWave", ModelSineWave},
		{"sine_wave", ModelSineWave},
		{" Clover ", ModelClover},
		{"normal-distribution", ModelNormalDistribution},
		{"gaps", ModelGaps},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseModelType(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseModelType("spiral"); !errors.Is(err, ErrUnknownModelType) {
			t.Errorf("expected ErrUnknownModelType, got %v", err)
		}
	})
}
