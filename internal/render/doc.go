// Package render draws plot models to image and vector files.
//
// PNG, SVG and PDF output is produced by gonum.org/v1/plot. XAML is written
// directly as a WPF Canvas, and XPS wraps the PNG rendering in a one page
// fixed document. Sizes are given in pixels at 96 DPI.
package render
