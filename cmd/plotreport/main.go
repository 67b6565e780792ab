// Package main provides the entry point for the plotreport CLI.
//
// plotreport exports plot models as plot files (SVG, PNG, PDF, XAML, XPS)
// and as reports (text, HTML, Markdown, PDF, RTF, LaTeX, XPS, DOCX, JSON).
//
// Usage:
//
//	plotreport report out/report.html
//	plotreport plot --model clover out/clover.svg
//	plotreport batch out/report.pdf out/report.docx out/plot.png
//
// See --help for all available options.
package main

// main is the entry point for plotreport.
func main() {
	Execute()
}
