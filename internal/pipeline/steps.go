package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/render"
	"github.com/nao1215/plotreport/internal/report"
)

// RenderFunc renders a plot model in a plot format.
type RenderFunc func(m *model.PlotModel, f format.Format, width, height int) ([]byte, error)

// BuildFunc builds the report tree of a job.
type BuildFunc func(job *Job) (*report.Report, error)

// WriterFunc creates the report writer for a job's format writing to out.
type WriterFunc func(job *Job, out io.Writer) (report.Writer, error)

// RenderStep renders the intermediate plot files a report refers to.
// Every report gets a PNG rendering; formats that embed PDF also get a PDF
// rendering, and formats that inline vector graphics get the SVG markup in
// Job.Vector instead of a file.
type RenderStep struct {
	render RenderFunc
	logger *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderFunc replaces the plot renderer.
func WithRenderFunc(fn RenderFunc) RenderStepOption {
	return func(s *RenderStep) {
		s.render = fn
	}
}

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a render step.
func NewRenderStep(opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		render: render.Bytes,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do renders the intermediates of the job.
func (s *RenderStep) Do(ctx context.Context, job *Job) error {
	var plots []format.Format
	if job.Format.EmbedsPDF() {
		plots = append(plots, format.PDF)
	}
	plots = append(plots, format.PNG)

	for _, f := range plots {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := format.IntermediatePath(job.Target, f.Extension())
		data, err := s.render(job.Model, f, job.Width, job.Height)
		if err != nil {
			return &RenderError{Path: path, Err: err}
		}
		if _, err := WriteFile(path, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}); err != nil {
			return &RenderError{Path: path, Err: err}
		}
		job.Artifacts = append(job.Artifacts, path)
		s.logger.Debug("rendered intermediate", "path", path, "bytes", len(data))
	}

	if job.Format.EmbedsVector() {
		data, err := s.render(job.Model, format.SVG, job.Width, job.Height)
		if err != nil {
			return &RenderError{Path: job.Target, Err: err}
		}
		job.Vector = string(data)
	}
	return nil
}

// BuildStep builds the report tree.
type BuildStep struct {
	build BuildFunc
}

// NewBuildStep creates a build step using fn.
func NewBuildStep(fn BuildFunc) *BuildStep {
	return &BuildStep{build: fn}
}

// Name returns the step name.
func (s *BuildStep) Name() string {
	return "build"
}

// Do builds the report of the job.
func (s *BuildStep) Do(_ context.Context, job *Job) error {
	r, err := s.build(job)
	if err != nil {
		return err
	}
	job.Report = r
	return nil
}

// WriteStep writes the report to the target through a temporary file.
// Writers implementing report.Saver are saved before the file is closed.
type WriteStep struct {
	newWriter WriterFunc
	style     *report.Style
	logger    *slog.Logger
}

// WriteStepOption configures a WriteStep.
type WriteStepOption func(*WriteStep)

// WithStyle sets the style handed to the writer.
func WithStyle(style *report.Style) WriteStepOption {
	return func(s *WriteStep) {
		s.style = style
	}
}

// WithWriteLogger sets a custom logger for the write step.
func WithWriteLogger(logger *slog.Logger) WriteStepOption {
	return func(s *WriteStep) {
		s.logger = logger
	}
}

// NewWriteStep creates a write step that obtains writers from fn.
func NewWriteStep(fn WriterFunc, opts ...WriteStepOption) *WriteStep {
	s := &WriteStep{
		newWriter: fn,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do writes the job's report to its target.
func (s *WriteStep) Do(_ context.Context, job *Job) error {
	if job.Report == nil {
		return &WriteError{Path: job.Target, Err: report.ErrNilReport}
	}
	digest, err := WriteFile(job.Target, func(out io.Writer) error {
		w, err := s.newWriter(job, out)
		if err != nil {
			return err
		}
		if err := w.WriteReport(job.Report, s.style); err != nil {
			return err
		}
		if saver, ok := w.(report.Saver); ok {
			return saver.Save()
		}
		return nil
	})
	if err != nil {
		return &WriteError{Path: job.Target, Err: err}
	}
	job.Digest = digest
	s.logger.Debug("wrote report", "path", job.Target, "format", job.Format.String())
	return nil
}

// PlotStep writes the plot itself to the target.
type PlotStep struct {
	render RenderFunc
}

// NewPlotStep creates a plot step. A nil fn uses render.Bytes.
func NewPlotStep(fn RenderFunc) *PlotStep {
	if fn == nil {
		fn = render.Bytes
	}
	return &PlotStep{render: fn}
}

// Name returns the step name.
func (s *PlotStep) Name() string {
	return "plot"
}

// Do renders and writes the plot.
func (s *PlotStep) Do(_ context.Context, job *Job) error {
	data, err := s.render(job.Model, job.Format, job.Width, job.Height)
	if err != nil {
		return &RenderError{Path: job.Target, Err: err}
	}
	digest, err := WriteFile(job.Target, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return &WriteError{Path: job.Target, Err: err}
	}
	job.Digest = digest
	return nil
}
