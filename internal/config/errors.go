package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a readable message.
var (
	// ErrNoModel is returned when no model name or file is configured.
	ErrNoModel = errors.New("no model specified: provide a built-in model name or a model file")

	// ErrInvalidPlotSize is returned when the plot width or height is not positive.
	ErrInvalidPlotSize = errors.New("invalid plot size: width and height must be positive")

	// ErrInvalidConcurrency is returned when the batch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidLocale is returned when the locale is not a BCP 47 tag.
	ErrInvalidLocale = errors.New("invalid locale: must be a BCP 47 language tag such as en or de-CH")

	// ErrInvalidColor is returned when the table header color is not "#RRGGBB".
	ErrInvalidColor = errors.New("invalid table header color: must be #RRGGBB")

	// ErrInvalidFontSize is returned when the body font size is not positive.
	ErrInvalidFontSize = errors.New("invalid font size: must be positive")

	// ErrInvalidMargin is returned when the page margin is negative.
	ErrInvalidMargin = errors.New("invalid margin: must be non-negative")
)
