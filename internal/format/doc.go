// Package format resolves output file extensions to export formats and
// describes what each format can hold.
package format
