package source

import "errors"

var (
	// ErrDatabaseNotFound is returned when a database file does not exist
	// and creation was not requested.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrUnexpectedColumns is returned when a query does not return the
	// series, x and y columns, optionally followed by kind and color.
	ErrUnexpectedColumns = errors.New("query must return series, x, y and optionally kind and color columns")

	// ErrEmptyModel is returned when a source produced no series.
	ErrEmptyModel = errors.New("model has no series")

	// ErrUnknownSource is returned when a path has no recognized model extension.
	ErrUnknownSource = errors.New("unknown model source")
)
