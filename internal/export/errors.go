package export

import (
	"errors"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/pipeline"
)

// ErrUnsupportedFormat is returned when a target extension cannot be exported.
var ErrUnsupportedFormat = format.ErrUnsupportedFormat

// ErrConflictingTarget is returned by batch exports for a target whose
// intermediate files would collide with those of an earlier target.
var ErrConflictingTarget = errors.New("target writes a file another target writes")

// RenderError reports a failure to render a plot file.
type RenderError = pipeline.RenderError

// WriteError reports a failure to write an output document.
type WriteError = pipeline.WriteError
