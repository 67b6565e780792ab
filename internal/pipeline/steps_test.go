package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/report"
)

// fakeRender returns the format name as the rendered bytes.
func fakeRender(_ *model.PlotModel, f format.Format, _, _ int) ([]byte, error) {
	return []byte(f.String()), nil
}

func TestRenderStepDo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target    string
		artifacts []string
		vector    bool
	}{
		{target: "report.txt", artifacts: []string{"report_plot.png"}},
		{target: "report.html", artifacts: []string{"report_plot.png"}, vector: true},
		{target: "report.pdf", artifacts: []string{"report_plot.pdf", "report_plot.png"}},
		{target: "report.tex", artifacts: []string{"report_plot.pdf", "report_plot.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			job := newTestJob(t, tt.target)
			step := NewRenderStep(WithRenderFunc(fakeRender))
			if err := step.Do(context.Background(), job); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(job.Artifacts) != len(tt.artifacts) {
				t.Fatalf("expected %d artifacts, got %v", len(tt.artifacts), job.Artifacts)
			}
			for i, name := range tt.artifacts {
				if filepath.Base(job.Artifacts[i]) != name {
					t.Errorf("artifact %d: expected %s, got %s", i, name, job.Artifacts[i])
				}
				if _, err := os.Stat(job.Artifacts[i]); err != nil {
					t.Errorf("expected %s to exist: %v", name, err)
				}
			}
			if (job.Vector != "") != tt.vector {
				t.Errorf("unexpected vector content %q", job.Vector)
			}
		})
	}

	t.Run("wraps render failures", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		job := newTestJob(t, "report.txt")
		step := NewRenderStep(WithRenderFunc(func(*model.PlotModel, format.Format, int, int) ([]byte, error) {
			return nil, boom
		}))

		err := step.Do(context.Background(), job)
		var renderErr *RenderError
		if !errors.As(err, &renderErr) {
			t.Fatalf("expected RenderError, got %v", err)
		}
		if !errors.Is(err, boom) || !strings.HasSuffix(renderErr.Path, "report_plot.png") {
			t.Errorf("unexpected render error %v", renderErr)
		}
	})
}

func TestBuildStepDo(t *testing.T) {
	t.Parallel()

	job := newTestJob(t, "report.txt")
	step := NewBuildStep(func(job *Job) (*report.Report, error) {
		return report.New(job.Model.Title), nil
	})
	if err := step.Do(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Report == nil || job.Report.Title != job.Model.Title {
		t.Errorf("unexpected report %+v", job.Report)
	}
}

// saverWriter records WriteReport and Save calls.
type saverWriter struct {
	out    io.Writer
	writes int
	saves  int
}

func (w *saverWriter) WriteReport(r *report.Report, _ *report.Style) error {
	w.writes++
	return nil
}

func (w *saverWriter) Save() error {
	w.saves++
	_, err := io.WriteString(w.out, "saved")
	return err
}

func TestWriteStepDo(t *testing.T) {
	t.Parallel()

	t.Run("writes target and digest", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t, "report.txt")
		job.Report = report.New("r")
		step := NewWriteStep(func(_ *Job, out io.Writer) (report.Writer, error) {
			return report.NewTextWriter(out), nil
		})
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(job.Digest) != 64 {
			t.Errorf("expected 64 hex digits, got %q", job.Digest)
		}
		digest, err := FileDigest(job.Target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if digest != job.Digest {
			t.Error("expected file digest to match job digest")
		}
	})

	t.Run("saves writers implementing Saver", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t, "report.xps")
		job.Report = report.New("r")
		var w *saverWriter
		step := NewWriteStep(func(_ *Job, out io.Writer) (report.Writer, error) {
			w = &saverWriter{out: out}
			return w, nil
		})
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.writes != 1 || w.saves != 1 {
			t.Errorf("expected one write and one save, got %d and %d", w.writes, w.saves)
		}
		data, err := os.ReadFile(job.Target)
		if err != nil || string(data) != "saved" {
			t.Errorf("unexpected target content %q (%v)", data, err)
		}
	})

	t.Run("wraps writer failures", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t, "report.txt")
		job.Report = report.New("r")
		step := NewWriteStep(func(_ *Job, _ io.Writer) (report.Writer, error) {
			return nil, errors.New("no writer")
		})
		err := step.Do(context.Background(), job)
		var writeErr *WriteError
		if !errors.As(err, &writeErr) || writeErr.Path != job.Target {
			t.Fatalf("expected WriteError for target, got %v", err)
		}
		entries, _ := os.ReadDir(filepath.Dir(job.Target))
		if len(entries) != 0 {
			t.Errorf("expected no files after failure, got %d", len(entries))
		}
	})

	t.Run("requires a report", func(t *testing.T) {
		t.Parallel()

		job := newTestJob(t, "report.txt")
		step := NewWriteStep(func(_ *Job, out io.Writer) (report.Writer, error) {
			return report.NewTextWriter(out), nil
		})
		if err := step.Do(context.Background(), job); !errors.Is(err, report.ErrNilReport) {
			t.Errorf("expected ErrNilReport, got %v", err)
		}
	})
}

func TestPlotStepDo(t *testing.T) {
	t.Parallel()

	job := newTestJob(t, "plot.svg")
	if err := NewPlotStep(fakeRender).Do(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(job.Target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "svg" {
		t.Errorf("unexpected content %q", data)
	}
}
