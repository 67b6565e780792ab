package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/plotreport/internal/config"
	"github.com/nao1215/plotreport/internal/export"
	"github.com/nao1215/plotreport/internal/shell"
	"github.com/spf13/cobra"
)

// errBatchFailed is returned when at least one batch target failed.
var errBatchFailed = errors.New("batch export failed")

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <output>...",
		Short: "Save the model to many files concurrently",
		Long: `Batch exports one model to every output file. Report formats get a
report, plot-only formats (.svg, .png, .xaml) get the plot.

Outputs that would share plot files, such as report.html and report.txt,
are rejected because both reports reference report_plot.png.

Examples:
  # Every report format at once
  plotreport batch out/a.txt out/b.html out/c.pdf out/d.rtf out/e.tex out/f.docx

  # Limit concurrency
  plotreport batch -n 2 out/a.pdf out/b.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatchCmd,
	}

	addExportFlags(cmd)
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of concurrent exports")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	// Lines are printed as targets finish, so their order may vary.
	failed := 0
	out := cmd.OutOrStdout()
	progress := func(r export.BatchResult) {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "Failed %s: %v\n", r.Target, r.Err)
			return
		}
		printResult(out, r.Result)
	}

	exporter, err := s.newExporter(shell.SystemClipboard{}, export.WithProgress(progress))
	if err != nil {
		return err
	}

	results, err := exporter.SaveAll(s.ctx, args, s.cfg.Concurrency)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d targets", errBatchFailed, failed, len(results))
	}
	return nil
}
