package pipeline

import (
	"errors"
	"os"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/report"
)

// Job is the state of one export shared by the steps of a pipeline.
type Job struct {
	// Model is the plot being exported. Steps never modify it.
	Model *model.PlotModel

	// Target is the output path and Format its resolved format.
	Target string
	Format format.Format

	// Width and Height are the plot size in pixels.
	Width  int
	Height int

	// Artifacts are the intermediate files written next to the target,
	// in creation order.
	Artifacts []string

	// Vector is the SVG markup of the plot for formats that inline it.
	Vector string

	// Report is the document tree built for the target.
	Report *report.Report

	// Digest is the hex BLAKE2b-256 digest of the written target.
	Digest string

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string

	// Err is the error that ended the job, if any.
	Err error
}

// NewJob creates a job for exporting m to target.
// The target format is resolved from the file extension.
func NewJob(m *model.PlotModel, target string, width, height int) (*Job, error) {
	f, err := format.FromPath(target)
	if err != nil {
		return nil, err
	}
	return &Job{
		Model:  m,
		Target: target,
		Format: f,
		Width:  width,
		Height: height,
	}, nil
}

// cleanup removes the artifacts written by the job.
func (j *Job) cleanup() error {
	var errs []error
	for _, path := range j.Artifacts {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	j.Artifacts = nil
	return errors.Join(errs...)
}
