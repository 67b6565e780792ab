package export

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
)

func TestSaveAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opener := &recordingOpener{}
	e := newTestExporter(t, WithOpener(opener), WithPlotSize(200, 120))

	targets := []string{
		filepath.Join(dir, "a.html"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "c.xyz"),
		filepath.Join(dir, "d.tex"),
	}
	results, err := e.SaveAll(context.Background(), targets, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(targets) {
		t.Fatalf("expected %d results, got %d", len(targets), len(results))
	}
	for i, r := range results {
		if r.Target != targets[i] {
			t.Errorf("result %d: expected target %s, got %s", i, targets[i], r.Target)
		}
	}

	if results[0].Err != nil || len(results[0].Result.Artifacts) != 1 {
		t.Errorf("a.html: unexpected result %+v", results[0])
	}
	if results[1].Err != nil || len(results[1].Result.Artifacts) != 0 {
		t.Errorf("b.png: expected a plot export, got %+v", results[1])
	}
	if !errors.Is(results[2].Err, ErrConflictingTarget) {
		t.Errorf("a.txt: expected ErrConflictingTarget, got %v", results[2].Err)
	}
	if !errors.Is(results[3].Err, ErrUnsupportedFormat) {
		t.Errorf("c.xyz: expected ErrUnsupportedFormat, got %v", results[3].Err)
	}
	if results[4].Err != nil || len(results[4].Result.Artifacts) != 2 {
		t.Errorf("d.tex: unexpected result %+v", results[4])
	}
	if len(opener.folders) != 1 {
		t.Errorf("expected one folder revealed, got %v", opener.folders)
	}
}

func TestSaveAllCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	results, err := newTestExporter(t).SaveAll(ctx, []string{filepath.Join(dir, "a.txt")}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(results) != 1 || results[0].Result != nil {
		t.Errorf("expected no successful result, got %+v", results)
	}
}

func TestConflictingTargets(t *testing.T) {
	t.Parallel()

	e := New(nil)
	tests := []struct {
		name    string
		targets []string
		want    []bool
	}{
		{
			name:    "reports sharing a plot file",
			targets: []string{"out/r.pdf", "out/./r.tex", "other/r.tex", "out/s.html"},
			want:    []bool{false, true, false, false},
		},
		{
			name:    "duplicate target fails only the later one",
			targets: []string{"out/r.txt", "out/r.txt", "out/r.txt"},
			want:    []bool{false, true, true},
		},
		{
			name:    "plot files sharing a stem",
			targets: []string{"out/r.svg", "out/r.png", "out/r.xaml"},
			want:    []bool{false, false, false},
		},
		{
			name:    "plot file next to a report",
			targets: []string{"out/r.svg", "out/r.html"},
			want:    []bool{false, false},
		},
		{
			name:    "plot file named like an intermediate",
			targets: []string{"out/r.html", "out/r_plot.png"},
			want:    []bool{false, true},
		},
		{
			name:    "pdf report intermediate",
			targets: []string{"out/r_plot.pdf", "out/r.pdf"},
			want:    []bool{false, true},
		},
		{
			name:    "unsupported target writes nothing",
			targets: []string{"out/r.xyz", "out/r.xyz"},
			want:    []bool{false, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conflicts := e.conflictingTargets(tt.targets)
			if len(conflicts) != len(tt.targets) {
				t.Fatalf("expected %d entries, got %d", len(tt.targets), len(conflicts))
			}
			for i, want := range tt.want {
				if got := conflicts[i] != nil; got != want {
					t.Errorf("%s (index %d): expected conflict %v, got %v", tt.targets[i], i, want, conflicts[i])
				}
				if conflicts[i] != nil && !errors.Is(conflicts[i], ErrConflictingTarget) {
					t.Errorf("%s: expected ErrConflictingTarget, got %v", tt.targets[i], conflicts[i])
				}
			}
		})
	}
}

func TestSaveAllDuplicateTarget(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "r.txt")
	results, err := newTestExporter(t).SaveAll(context.Background(), []string{target, target}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Err != nil {
		t.Errorf("expected the first target to be saved, got %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, ErrConflictingTarget) {
		t.Errorf("expected ErrConflictingTarget, got %v", results[1].Err)
	}
}

func TestSaveAllPlotStem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	targets := []string{filepath.Join(dir, "r.svg"), filepath.Join(dir, "r.png"), filepath.Join(dir, "r.xaml")}
	results, err := newTestExporter(t).SaveAll(context.Background(), targets, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: unexpected error: %v", r.Target, r.Err)
		}
	}
}

func TestSaveAllProgress(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var seen []string
	e := newTestExporter(t, WithProgress(func(r BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, filepath.Base(r.Target))
	}))

	dir := t.TempDir()
	targets := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.png"), filepath.Join(dir, "c.xyz")}
	if _, err := e.SaveAll(context.Background(), targets, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slices.Sort(seen)
	if strings.Join(seen, ",") != "a.txt,b.png,c.xyz" {
		t.Errorf("expected one call per target, got %v", seen)
	}
}
