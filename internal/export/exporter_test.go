package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/pipeline"
	"github.com/nao1215/plotreport/internal/render"
	"github.com/nao1215/plotreport/internal/report"
	"github.com/nao1215/plotreport/internal/shell"
)

// deterministicRender renders with gonum except for PDF, which gets a fixed
// one-page document so repeated exports are byte-identical.
func deterministicRender(m *model.PlotModel, f format.Format, width, height int) ([]byte, error) {
	if f != format.PDF {
		return render.Bytes(m, f, width, height)
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: float64(width) * 0.75, Ht: float64(height) * 0.75},
	})
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(report.DefaultDate)
	pdf.SetModificationDate(report.DefaultDate)
	pdf.AddPage()
	pdf.Line(0, 0, float64(width)*0.75, float64(height)*0.75)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newTestExporter(t *testing.T, opts ...Option) *Exporter {
	t.Helper()

	m, err := model.NewPlotModel(model.ModelSquareWave)
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}
	return New(m, append([]Option{WithRenderFunc(deterministicRender)}, opts...)...)
}

// dirEntries returns the sorted file names in dir.
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names
}

func TestSaveReportFormats(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	formats := e.ReportFormats()
	if len(formats) != 9 {
		t.Fatalf("expected 9 report formats, got %v", formats)
	}

	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			target := filepath.Join(dir, "report"+f.Extension())
			res, err := e.SaveReport(context.Background(), target)
			if err != nil {
				t.Fatalf("SaveReport failed: %v", err)
			}
			if res.Path != target || res.Format != f {
				t.Errorf("unexpected result %+v", res)
			}

			want := []string{"report" + f.Extension(), "report_plot.png"}
			if f.EmbedsPDF() {
				want = append(want, "report_plot.pdf")
			}
			slices.Sort(want)
			if got := dirEntries(t, dir); !slices.Equal(got, want) {
				t.Errorf("expected files %v, got %v", want, got)
			}
			if len(res.Artifacts) != len(want)-1 {
				t.Errorf("expected %d artifacts, got %v", len(want)-1, res.Artifacts)
			}

			digest, err := pipeline.FileDigest(target)
			if err != nil {
				t.Fatal(err)
			}
			if digest != res.Digest {
				t.Errorf("expected digest %s, got %s", digest, res.Digest)
			}
		})
	}
}

func TestSaveReportUnsupported(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	for _, name := range []string{"report.xyz", "report", "plot.svg", "plot.PNG", "plot.xaml"} {
		dir := t.TempDir()
		_, err := e.SaveReport(context.Background(), filepath.Join(dir, name))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
		if got := dirEntries(t, dir); len(got) != 0 {
			t.Errorf("%s: expected no files, got %v", name, got)
		}
	}
}

// countingWriter counts WriteReport calls.
type countingWriter struct {
	inner report.Writer
	mu    sync.Mutex
	calls int
}

func (w *countingWriter) WriteReport(r *report.Report, style *report.Style) error {
	w.mu.Lock()
	w.calls++
	w.mu.Unlock()
	return w.inner.WriteReport(r, style)
}

func TestSaveReportTextWriterInvokedOnce(t *testing.T) {
	t.Parallel()

	var writers []*countingWriter
	e := newTestExporter(t, WithWriter(format.Text, func(out io.Writer, dir string) report.Writer {
		w := &countingWriter{inner: report.NewTextWriter(out, report.WithBaseDir(dir))}
		writers = append(writers, w)
		return w
	}))

	target := filepath.Join(t.TempDir(), "report.txt")
	if _, err := e.SaveReport(context.Background(), target); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	if len(writers) != 1 || writers[0].calls != 1 {
		t.Errorf("expected one writer invoked once, got %d writers", len(writers))
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	// The text writer upper-cases title and section headers.
	if got := strings.Count(string(data), "EXAMPLE REPORT FROM OXYPLOT"); got != 1 {
		t.Errorf("expected the document header exactly once, got %d", got)
	}
}

// saveRepeatedly saves target n times and fails unless every run writes the
// same bytes as the first.
func saveRepeatedly(t *testing.T, e *Exporter, target string, n int) {
	t.Helper()

	var first []byte
	var digest string
	for i := range n {
		res, err := e.SaveReport(context.Background(), target)
		if err != nil {
			t.Fatalf("SaveReport run %d failed: %v", i, err)
		}
		data, err := os.ReadFile(target)
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first, digest = data, res.Digest
			continue
		}
		if !bytes.Equal(first, data) || res.Digest != digest {
			t.Fatalf("run %d: expected byte-identical output", i)
		}
	}
}

func TestSaveReportIdempotent(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	for _, f := range e.ReportFormats() {
		t.Run(f.String(), func(t *testing.T) {
			t.Parallel()

			saveRepeatedly(t, e, filepath.Join(t.TempDir(), "report"+f.Extension()), 20)
		})
	}

	t.Run("pdf with the default renderer", func(t *testing.T) {
		t.Parallel()

		m, err := model.NewPlotModel(model.ModelSquareWave)
		if err != nil {
			t.Fatalf("failed to create model: %v", err)
		}
		saveRepeatedly(t, New(m), filepath.Join(t.TempDir(), "report.pdf"), 20)
	})
}

func TestSaveReportHTMLRoundTrip(t *testing.T) {
	t.Parallel()

	m := model.NewEmptyPlotModel("round trip")
	m.AddSeries(model.Series{Title: "squares", Points: []model.DataPoint{model.Pt(0, 0), model.Pt(1, 1), model.Pt(2, 4)}})
	e := New(m)

	target := filepath.Join(t.TempDir(), "report.html")
	if _, err := e.SaveReport(context.Background(), target); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	for _, cell := range []string{"<td>0.00</td>", "<td>1.00</td>", "<td>2.00</td>", "<td>4.00</td>"} {
		if !strings.Contains(html, cell) {
			t.Errorf("expected %s in output", cell)
		}
	}
	if !strings.Contains(html, "<svg") {
		t.Error("expected inline SVG plot")
	}
	if !strings.Contains(html, `src="report_plot.png"`) {
		t.Error("expected relative PNG reference")
	}
}

type failingWriter struct{ err error }

func (w failingWriter) WriteReport(*report.Report, *report.Style) error { return w.err }

func TestSaveReportWriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	e := newTestExporter(t, WithWriter(format.RTF, func(io.Writer, string) report.Writer {
		return failingWriter{err: boom}
	}))

	dir := t.TempDir()
	target := filepath.Join(dir, "report.rtf")
	_, err := e.SaveReport(context.Background(), target)

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected *WriteError, got %v", err)
	}
	if writeErr.Path != target || !errors.Is(err, boom) {
		t.Errorf("unexpected write error %v", writeErr)
	}
	if got := dirEntries(t, dir); len(got) != 0 {
		t.Errorf("expected target and intermediates removed, got %v", got)
	}
}

func TestSaveReportRenderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("no surface")
	e := newTestExporter(t, WithRenderFunc(func(m *model.PlotModel, f format.Format, w, h int) ([]byte, error) {
		if f == format.PNG {
			return nil, boom
		}
		return deterministicRender(m, f, w, h)
	}))

	dir := t.TempDir()
	_, err := e.SaveReport(context.Background(), filepath.Join(dir, "report.pdf"))

	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("expected *RenderError, got %v", err)
	}
	if filepath.Base(renderErr.Path) != "report_plot.png" || !errors.Is(err, boom) {
		t.Errorf("unexpected render error %v", renderErr)
	}
	if got := dirEntries(t, dir); len(got) != 0 {
		t.Errorf("expected the PDF intermediate removed, got %v", got)
	}
}

func TestSaveReportCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	_, err := newTestExporter(t).SaveReport(ctx, filepath.Join(dir, "report.txt"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if got := dirEntries(t, dir); len(got) != 0 {
		t.Errorf("expected no files, got %v", got)
	}
}

// recordingOpener records revealed paths.
type recordingOpener struct {
	mu      sync.Mutex
	folders []string
	err     error
}

func (o *recordingOpener) OpenFolder(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.folders = append(o.folders, path)
	return o.err
}

func (o *recordingOpener) OpenURL(string) error { return nil }

func TestSaveReportOpensFolder(t *testing.T) {
	t.Parallel()

	t.Run("after success", func(t *testing.T) {
		t.Parallel()

		opener := &recordingOpener{}
		e := newTestExporter(t, WithOpener(opener))
		target := filepath.Join(t.TempDir(), "report.md")
		if _, err := e.SaveReport(context.Background(), target); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
		if len(opener.folders) != 1 || opener.folders[0] != target {
			t.Errorf("expected folder of %s revealed, got %v", target, opener.folders)
		}
	})

	t.Run("opener failure does not fail the export", func(t *testing.T) {
		t.Parallel()

		opener := &recordingOpener{err: errors.New("no file manager")}
		e := newTestExporter(t, WithOpener(opener))
		if _, err := e.SaveReport(context.Background(), filepath.Join(t.TempDir(), "report.json")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("not after failure", func(t *testing.T) {
		t.Parallel()

		opener := &recordingOpener{}
		e := newTestExporter(t, WithOpener(opener))
		_, _ = e.SaveReport(context.Background(), filepath.Join(t.TempDir(), "report.xyz"))
		if len(opener.folders) != 0 {
			t.Errorf("expected no folder revealed, got %v", opener.folders)
		}
	})
}

func TestSavePlot(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, WithPlotSize(320, 200))
	for _, ext := range []string{".svg", ".png", ".pdf", ".xaml", ".xps"} {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			target := filepath.Join(dir, "plot"+ext)
			res, err := e.SavePlot(context.Background(), target, 0, 0)
			if err != nil {
				t.Fatalf("SavePlot failed: %v", err)
			}
			if len(res.Artifacts) != 0 {
				t.Errorf("expected no intermediates, got %v", res.Artifacts)
			}
			if got := dirEntries(t, dir); len(got) != 1 {
				t.Errorf("expected only the target, got %v", got)
			}
		})
	}

	t.Run("rejects report-only formats", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		for _, name := range []string{"plot.txt", "plot.docx", "plot.xyz"} {
			if _, err := e.SavePlot(context.Background(), filepath.Join(dir, name), 100, 100); !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
			}
		}
		if got := dirEntries(t, dir); len(got) != 0 {
			t.Errorf("expected no files, got %v", got)
		}
	})

	t.Run("invalid size is a render error", func(t *testing.T) {
		t.Parallel()

		_, err := New(model.NewEmptyPlotModel("x"), WithPlotSize(-1, 10)).
			SavePlot(context.Background(), filepath.Join(t.TempDir(), "plot.png"), 0, 0)
		if !errors.Is(err, render.ErrInvalidSize) {
			t.Errorf("expected ErrInvalidSize, got %v", err)
		}
	})
}

func TestCopy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   CopyKind
		marker string
	}{
		{CopySVG, "<svg"},
		{CopyXAML, "<Canvas"},
		{CopyBitmap, "data:image/png;base64,"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()

			clip := &shell.MemoryClipboard{}
			e := newTestExporter(t, WithClipboard(clip), WithPlotSize(200, 120))
			text, err := e.Copy(context.Background(), tt.kind)
			if err != nil {
				t.Fatalf("Copy failed: %v", err)
			}
			if clip.Text() != text {
				t.Error("expected clipboard to hold the returned text")
			}
			if !strings.Contains(text, tt.marker) {
				t.Errorf("expected %q in copied text, got %.40q", tt.marker, text)
			}
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		if _, err := newTestExporter(t).Copy(context.Background(), CopyKind(42)); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestParseCopyKind(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]CopyKind{"svg": CopySVG, "XAML": CopyXAML, "bitmap": CopyBitmap, "png": CopyBitmap} {
		got, err := ParseCopyKind(name)
		if err != nil || got != want {
			t.Errorf("ParseCopyKind(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseCopyKind("emf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
