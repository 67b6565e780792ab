package report

import "errors"

var (
	// ErrFieldMismatch is returned when a table field cannot be resolved on
	// one of the bound items.
	ErrFieldMismatch = errors.New("table field does not match item shape")

	// ErrNilReport is returned when a writer is given a nil report.
	ErrNilReport = errors.New("report is nil")

	// ErrUnsupportedImage is returned when an image file type cannot be embedded.
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrNotWritten is returned when a document is saved before it was written.
	ErrNotWritten = errors.New("document has not been written")
)
