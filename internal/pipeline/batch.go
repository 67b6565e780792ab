package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// JobFunc creates the job for the export target at index i of a batch.
type JobFunc func(i int, target string) (*Job, error)

// PipelineFunc creates the pipeline that runs a job.
type PipelineFunc func(job *Job) *Pipeline

// BatchProcessor handles concurrent export of one model to many targets.
// It uses errgroup to manage goroutines and respect concurrency limits.
// Each target owns its files, so jobs never share intermediates.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each job.
	pipelineFactory PipelineFunc

	// newJob creates the job for a target.
	newJob JobFunc

	// concurrency is the maximum number of concurrent exports.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent exports.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// newJob creates the job of each target, and pipelineFactory is called with
// that job to create a fresh pipeline instance for it.
func NewBatchProcessor(pipelineFactory PipelineFunc, newJob JobFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		newJob:          newJob,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatchWithCallback exports to every target concurrently and calls
// callback with each finished job and the index of its target. It respects
// the configured concurrency limit and context cancellation.
//
// The callback is called from the goroutine that ran the job, so it should
// be thread-safe if it accesses shared state. Failed jobs carry their error
// in Job.Err. Targets that never started because the batch was cancelled
// get no callback, and the error return is only set in that case.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(job *Job, index int),
) error {
	bp.logger.Info("starting batch export",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	err := bp.run(ctx, targets, callback)

	bp.logger.Info("batch export complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)
	return err
}

func (bp *BatchProcessor) run(ctx context.Context, targets []string, done func(job *Job, index int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			job, err := bp.newJob(i, target)
			if err != nil {
				bp.logger.Warn("export rejected", "target", target, "error", err)
				done(&Job{Target: target, Err: err}, i)
				return nil
			}

			if err := bp.pipelineFactory(job).Execute(ctx, job); err != nil {
				bp.logger.Warn("export failed",
					"target", target,
					"error", err,
				)
			} else {
				bp.logger.Info("export completed",
					"target", target,
					"digest", job.Digest,
				)
			}
			done(job, i)

			// Failures are recorded in the job so other targets continue.
			return nil
		})
	}

	return g.Wait()
}
