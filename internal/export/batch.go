package export

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/pipeline"
)

// BatchResult is the outcome of one target of a batch export.
type BatchResult struct {
	Target string
	Result *Result
	Err    error
}

// SaveAll exports the model to every target concurrently, running at most
// concurrency exports at once. Targets with a report format get a report;
// plot-only targets (.svg, .png, .xaml) get the plot at the exporter's plot
// size.
//
// Results are returned in target order. Failures are recorded per target
// and the error return is only set when ctx is cancelled. A target that
// would write the target or plot file of an earlier target fails with
// ErrConflictingTarget. The progress function, if set, is called as each
// target finishes. The opener is called once, for the first successful
// target.
func (e *Exporter) SaveAll(ctx context.Context, targets []string, concurrency int) ([]BatchResult, error) {
	conflicts := e.conflictingTargets(targets)

	newJob := func(i int, target string) (*pipeline.Job, error) {
		if conflicts[i] != nil {
			return nil, conflicts[i]
		}
		job, err := e.reportJob(target)
		if err == nil {
			return job, nil
		}
		if plotJob, plotErr := e.plotJob(target, 0, 0); plotErr == nil {
			return plotJob, nil
		}
		return nil, err
	}
	newPipeline := func(job *pipeline.Job) *pipeline.Pipeline {
		if job.Format.SupportsReport() {
			return e.reportPipeline()
		}
		p := pipeline.New(pipeline.WithLogger(e.logger))
		p.AddStep(pipeline.NewPlotStep(e.render))
		return p
	}

	var mu sync.Mutex
	results := make([]BatchResult, len(targets))
	done := make([]bool, len(targets))
	bp := pipeline.NewBatchProcessor(newPipeline, newJob,
		pipeline.WithBatchLogger(e.logger),
		pipeline.WithConcurrency(concurrency),
	)
	err := bp.ProcessBatchWithCallback(ctx, targets, func(job *pipeline.Job, i int) {
		r := BatchResult{Target: targets[i], Err: job.Err}
		if job.Err == nil {
			r.Result = resultOf(job)
		}

		mu.Lock()
		defer mu.Unlock()
		results[i], done[i] = r, true
		if e.progress != nil {
			e.progress(r)
		}
	})

	revealed := false
	for i, target := range targets {
		switch {
		case !done[i]:
			results[i] = BatchResult{Target: target, Err: ctx.Err()}
		case results[i].Err == nil && !revealed:
			revealed = true
			e.reveal(results[i].Result.Path)
		}
	}
	return results, err
}

// conflictingTargets returns, in target order, ErrConflictingTarget for
// every target that would write a file an earlier target writes, and nil
// for the others. A rejected target writes nothing.
func (e *Exporter) conflictingTargets(targets []string) []error {
	conflicts := make([]error, len(targets))
	owners := make(map[string]string)
	for i, target := range targets {
		outputs := e.outputs(target)
		for _, path := range outputs {
			if first, ok := owners[path]; ok {
				conflicts[i] = fmt.Errorf("%w: %s and %s both write %s", ErrConflictingTarget, first, target, path)
				break
			}
		}
		if conflicts[i] != nil {
			continue
		}
		for _, path := range outputs {
			owners[path] = target
		}
	}
	return conflicts
}

// outputs returns the cleaned paths SaveAll writes for target: the target
// itself and, for reports, the plot files the report references.
func (e *Exporter) outputs(target string) []string {
	f, err := format.FromPath(target)
	if err != nil {
		return nil
	}
	paths := []string{filepath.Clean(target)}
	if _, ok := e.writers[f]; !ok || !f.SupportsReport() {
		if !f.SupportsPlot() {
			return nil
		}
		return paths
	}
	paths = append(paths, filepath.Clean(format.IntermediatePath(target, format.PNG.Extension())))
	if f.EmbedsPDF() {
		paths = append(paths, filepath.Clean(format.IntermediatePath(target, format.PDF.Extension())))
	}
	return paths
}
