package model

import "errors"

var (
	// ErrUnknownSeriesKind is returned when a series kind name is not recognized.
	ErrUnknownSeriesKind = errors.New("unknown series kind")

	// ErrUnknownModelType is returned when a built-in model name is not recognized.
	ErrUnknownModelType = errors.New("unknown model type")
)
