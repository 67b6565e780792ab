// Package report provides the format-independent report tree and the
// writers that serialize it.
//
// A Report is a title plus ordered sections; a Section is an ordered list of
// items (headers, paragraphs, images, drawings, equations, property tables,
// items tables and tables of contents). The tree carries no formatting; all
// shared formatting lives in Style, which every writer receives.
//
// This package contains writers for different output formats:
//   - TextWriter: Plain text with underlined headers and fixed-width tables
//   - HTMLWriter: HTML5 with inline SVG drawings
//   - MarkdownWriter: GitHub Flavored Markdown
//   - PDFWriter: PDF with embedded raster and vector images
//   - RTFWriter: Rich Text Format with embedded PNG pictures
//   - LaTeXWriter: LaTeX article source
//   - XPSWriter: XML Paper Specification fixed document
//   - DOCXWriter: Office Open XML word processing document
//   - JSONWriter: The report tree as JSON
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
