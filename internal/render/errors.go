package render

import "errors"

var (
	// ErrInvalidSize is returned when a requested width or height is not positive.
	ErrInvalidSize = errors.New("plot size must be positive")

	// ErrNilModel is returned when no plot model is given.
	ErrNilModel = errors.New("plot model is nil")
)
