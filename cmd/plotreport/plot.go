package main

import (
	"github.com/nao1215/plotreport/internal/shell"
	"github.com/spf13/cobra"
)

// NewPlotCmd creates the plot command.
func NewPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <output>",
		Short: "Save the plot as an image or vector file",
		Long: `Plot renders the model and writes it directly, without a report.

The format is chosen by the extension of the output file:
  .svg .png .pdf .xaml .xps

Examples:
  # PNG of the clover model at the default 800x500 size
  plotreport plot --model clover clover.png

  # Large SVG
  plotreport plot -W 1600 -H 1000 plot.svg`,
		Args: cobra.ExactArgs(1),
		RunE: runPlotCmd,
	}

	addExportFlags(cmd)

	return cmd
}

// runPlotCmd executes the plot command.
func runPlotCmd(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	exporter, err := s.newExporter(shell.SystemClipboard{})
	if err != nil {
		return err
	}

	result, err := exporter.SavePlot(s.ctx, args[0], s.cfg.Width, s.cfg.Height)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}
