// Package export saves plot models as reports and plot files.
//
// An Exporter resolves the target format from the file extension, renders
// the plot files a report embeds, builds the report tree with CreateReport
// and serializes it with exactly one writer per format. Writes go through
// internal/pipeline, so a failed export never leaves a partial target or
// orphaned intermediates behind.
//
// Results and failures are distinguished by type:
//   - *Result on success
//   - ErrUnsupportedFormat when the extension has no writer or exporter
//   - *RenderError when a plot file could not be rendered
//   - *WriteError when a document could not be written
//
// Desktop side effects (revealing the saved file, clipboard) go through the
// shell package interfaces passed as options.
package export
