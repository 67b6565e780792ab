package main

import (
	"github.com/nao1215/plotreport/internal/shell"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <output>",
		Short: "Save a report describing the plot and its data",
		Long: `Report writes a document with an introduction, the plot as a vector and
a bitmap image, and one data table per series.

The format is chosen by the extension of the output file:
  .txt .html .md .pdf .rtf .tex .xps .docx .json

The plot images are written next to the report as <name>_plot.png and, for
PDF and LaTeX reports, <name>_plot.pdf.

Examples:
  # HTML report of the default sine wave model
  plotreport report out/report.html

  # LaTeX report of a SQLite model with a table of contents
  plotreport report --model plots.db --toc out/report.tex

  # Do not open the output folder after saving
  plotreport report --no-open report.docx`,
		Args: cobra.ExactArgs(1),
		RunE: runReportCmd,
	}

	addExportFlags(cmd)

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	exporter, err := s.newExporter(shell.SystemClipboard{})
	if err != nil {
		return err
	}

	result, err := exporter.SaveReport(s.ctx, args[0])
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}
