package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/pipeline"
	"github.com/nao1215/plotreport/internal/render"
	"github.com/nao1215/plotreport/internal/report"
	"github.com/nao1215/plotreport/internal/shell"
)

// Default size of direct plot exports, in pixels.
const (
	DefaultPlotWidth  = 800
	DefaultPlotHeight = 500
)

// Result describes a successful export.
type Result struct {
	// Path is the written target.
	Path string

	// Format is the resolved target format.
	Format format.Format

	// Artifacts are the intermediate plot files written next to Path.
	Artifacts []string

	// Digest is the hex BLAKE2b-256 digest of the target.
	Digest string
}

// Exporter saves one plot model as reports and plot files.
// An Exporter is safe for concurrent use; it never modifies the model.
type Exporter struct {
	model     *model.PlotModel
	style     *report.Style
	logger    *slog.Logger
	opener    shell.Opener
	clipboard shell.Clipboard
	render    pipeline.RenderFunc
	writers   registry
	overrides registry
	content   Content
	progress  func(BatchResult)

	width, height int

	latexTitle, latexAuthor string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithStyle sets the style handed to report writers.
func WithStyle(style *report.Style) Option {
	return func(e *Exporter) {
		e.style = style
	}
}

// WithOpener sets the opener called after every successful save.
func WithOpener(opener shell.Opener) Option {
	return func(e *Exporter) {
		e.opener = opener
	}
}

// WithClipboard sets the clipboard used by Copy.
func WithClipboard(clipboard shell.Clipboard) Option {
	return func(e *Exporter) {
		e.clipboard = clipboard
	}
}

// WithPlotSize sets the default size of direct plot exports and copies.
func WithPlotSize(width, height int) Option {
	return func(e *Exporter) {
		e.width, e.height = width, height
	}
}

// WithLaTeXMetadata sets the title and author of LaTeX documents.
func WithLaTeXMetadata(title, author string) Option {
	return func(e *Exporter) {
		e.latexTitle, e.latexAuthor = title, author
	}
}

// WithContent selects the optional report content.
func WithContent(c Content) Option {
	return func(e *Exporter) {
		e.content = c
	}
}

// WithProgress sets a function called by SaveAll as each target finishes.
// Calls are serialized but arrive in completion order.
func WithProgress(fn func(BatchResult)) Option {
	return func(e *Exporter) {
		e.progress = fn
	}
}

// WithRenderFunc replaces the plot renderer.
func WithRenderFunc(fn pipeline.RenderFunc) Option {
	return func(e *Exporter) {
		e.render = fn
	}
}

// WithWriter replaces the writer used for a report format.
func WithWriter(f format.Format, fn WriterFactory) Option {
	return func(e *Exporter) {
		if e.overrides == nil {
			e.overrides = make(registry)
		}
		e.overrides[f] = fn
	}
}

// New creates an Exporter for m.
func New(m *model.PlotModel, opts ...Option) *Exporter {
	e := &Exporter{
		model:       m,
		style:       report.DefaultStyle(),
		opener:      shell.NopOpener{},
		clipboard:   &shell.MemoryClipboard{},
		render:      render.Bytes,
		width:       DefaultPlotWidth,
		height:      DefaultPlotHeight,
		latexTitle:  DefaultLaTeXTitle,
		latexAuthor: DefaultLaTeXAuthor,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.writers = defaultRegistry(e.latexTitle, e.latexAuthor)
	for f, fn := range e.overrides {
		e.writers[f] = fn
	}
	e.overrides = nil
	return e
}

// Model returns the exported model.
func (e *Exporter) Model() *model.PlotModel {
	return e.model
}

// SaveReport writes the report of the model to path. The format is chosen
// by the file extension.
//
// The plot is first rendered to the intermediate files the report embeds,
// then the report tree is built and written with the format's writer. On
// failure the target is untouched and intermediates are removed.
func (e *Exporter) SaveReport(ctx context.Context, path string) (*Result, error) {
	job, err := e.reportJob(path)
	if err != nil {
		return nil, err
	}
	if err := e.reportPipeline().Execute(ctx, job); err != nil {
		return nil, err
	}
	return e.finish(job), nil
}

// SavePlot writes the plot itself to path at width x height pixels. Zero
// sizes fall back to the exporter's plot size.
func (e *Exporter) SavePlot(ctx context.Context, path string, width, height int) (*Result, error) {
	job, err := e.plotJob(path, width, height)
	if err != nil {
		return nil, err
	}
	p := pipeline.New(pipeline.WithLogger(e.logger))
	p.AddStep(pipeline.NewPlotStep(e.render))
	if err := p.Execute(ctx, job); err != nil {
		return nil, err
	}
	return e.finish(job), nil
}

func (e *Exporter) reportJob(path string) (*pipeline.Job, error) {
	job, err := pipeline.NewJob(e.model, path, ReportPlotWidth, ReportPlotHeight)
	if err != nil {
		return nil, err
	}
	if _, ok := e.writers[job.Format]; !ok || !job.Format.SupportsReport() {
		return nil, fmt.Errorf("%w: %s cannot hold a report", ErrUnsupportedFormat, job.Format)
	}
	return job, nil
}

func (e *Exporter) plotJob(path string, width, height int) (*pipeline.Job, error) {
	if width <= 0 || height <= 0 {
		width, height = e.width, e.height
	}
	job, err := pipeline.NewJob(e.model, path, width, height)
	if err != nil {
		return nil, err
	}
	if !job.Format.SupportsPlot() {
		return nil, fmt.Errorf("%w: %s cannot hold a plot", ErrUnsupportedFormat, job.Format)
	}
	return job, nil
}

// reportPipeline creates the render, build and write pipeline of a report.
func (e *Exporter) reportPipeline() *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(e.logger))
	p.AddSteps(
		pipeline.NewRenderStep(
			pipeline.WithRenderFunc(e.render),
			pipeline.WithRenderLogger(e.logger),
		),
		pipeline.NewBuildStep(func(job *pipeline.Job) (*report.Report, error) {
			return CreateReport(job.Model, job.Target, job.Vector, e.content)
		}),
		pipeline.NewWriteStep(e.newWriter,
			pipeline.WithStyle(e.style),
			pipeline.WithWriteLogger(e.logger),
		),
	)
	return p
}

func (e *Exporter) newWriter(job *pipeline.Job, out io.Writer) (report.Writer, error) {
	fn, ok := e.writers[job.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, job.Format)
	}
	return fn(out, filepath.Dir(job.Target)), nil
}

// finish reveals the target of a completed job and builds its result.
func (e *Exporter) finish(job *pipeline.Job) *Result {
	e.logger.Info("export saved",
		"path", job.Target,
		"format", job.Format.String(),
		"digest", job.Digest,
		"artifacts", len(job.Artifacts),
	)
	e.reveal(job.Target)
	return resultOf(job)
}

func (e *Exporter) reveal(path string) {
	if err := e.opener.OpenFolder(path); err != nil {
		e.logger.Warn("failed to open containing folder", "path", path, "error", err)
	}
}

func resultOf(job *pipeline.Job) *Result {
	return &Result{
		Path:      job.Target,
		Format:    job.Format,
		Artifacts: append([]string(nil), job.Artifacts...),
		Digest:    job.Digest,
	}
}
