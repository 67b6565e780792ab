package model

import (
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSeriesValidRuns(t *testing.T) {
	t.Parallel()

	nan := math.NaN()

	testCases := []struct {
		name     string
		points   []DataPoint
		expected []int
	}{
		{"empty", nil, nil},
		{"all valid", []DataPoint{Pt(0, 0), Pt(1, 1), Pt(2, 2)}, []int{3}},
		{"all invalid", []DataPoint{Pt(nan, 0), Pt(1, nan)}, nil},
		{"gap in middle", []DataPoint{Pt(0, 0), Pt(1, nan), Pt(2, 2), Pt(3, 3)}, []int{1, 2}},
		{"leading and trailing gaps", []DataPoint{Pt(nan, 0), Pt(1, 1), Pt(2, 2), Pt(3, nan)}, []int{2}},
		{"consecutive gaps", []DataPoint{Pt(0, 0), Pt(nan, 1), Pt(nan, 2), Pt(3, 3)}, []int{1, 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := Series{Points: tc.points}
			runs := s.ValidRuns()
			if len(runs) != len(tc.expected) {
				t.Fatalf("expected %d runs, got %d", len(tc.expected), len(runs))
			}
			for i, run := range runs {
				if len(run) != tc.expected[i] {
					t.Errorf("run %d: expected %d points, got %d", i, tc.expected[i], len(run))
				}
				for _, p := range run {
					if !p.IsValid() {
						t.Errorf("run %d contains invalid point %v", i, p)
					}
				}
			}
		})
	}
}

func TestSeriesProperties(t *testing.T) {
	t.Parallel()

	s := Series{
		Title:  "data",
		Kind:   SeriesScatter,
		Points: []DataPoint{Pt(0, 0), Pt(1, math.NaN())},
	}

	props := s.Properties()
	got := make(map[string]string, len(props))
	for _, p := range props {
		got[p.Name] = p.Value
	}

	expected := map[string]string{
		"Title":           "data",
		"Type":            "ScatterSeries",
		"Color":           "Automatic",
		"StrokeThickness": "2",
		"MarkerSize":      "3",
		"Points":          "2",
		"ValidPoints":     "1",
	}
	for name, value := range expected {
		if got[name] != value {
			t.Errorf("property %s: expected %q, got %q", name, value, got[name])
		}
	}
}

func TestSeriesKindText(t *testing.T) {
	t.Parallel()

	t.Run("decodes kinds from YAML", func(t *testing.T) {
		t.Parallel()

		var s Series
		if err := yaml.Unmarshal([]byte("title: a\nkind: area\n"), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Kind != SeriesArea {
			t.Errorf("expected SeriesArea, got %v", s.Kind)
		}
	})

	t.Run("empty kind means line", func(t *testing.T) {
		t.Parallel()

		var k SeriesKind = SeriesArea
		if err := k.UnmarshalText(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if k != SeriesLine {
			t.Errorf("expected SeriesLine, got %v", k)
		}
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		t.Parallel()

		var k SeriesKind
		err := k.UnmarshalText([]byte("pie"))
		if !errors.Is(err, ErrUnknownSeriesKind) {
			t.Errorf("expected ErrUnknownSeriesKind, got %v", err)
		}
	})
}
