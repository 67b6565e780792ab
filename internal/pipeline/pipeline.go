package pipeline

import (
	"context"
	"log/slog"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step reading and extending the
// job left by previous steps.
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the job to modify.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence and stops at the first
// failing step. Cancellation is checked before each step; steps handle
// their own cancellation while running.
//
// When the pipeline stops on an error, the artifacts recorded in the job
// are removed before the error is returned.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	p.logger.Debug("starting pipeline",
		"target", job.Target,
		"steps", p.StepNames(),
	)

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return p.fail(job, ctx.Err())
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"target", job.Target,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"target", job.Target,
				"error", err,
			)
			return p.fail(job, err)
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"target", job.Target,
		)

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
	}

	return nil
}

// fail records err in the job and removes its artifacts.
func (p *Pipeline) fail(job *Job, err error) error {
	job.Err = err
	if cleanupErr := job.cleanup(); cleanupErr != nil {
		p.logger.Warn("failed to remove intermediate files",
			"target", job.Target,
			"error", cleanupErr,
		)
	}
	return err
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
