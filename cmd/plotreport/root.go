// Package main provides the entry point for the plotreport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for plotreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plotreport",
		Short: "Export plot models as plot files and reports",
		Long: `plotreport exports a plot model either directly as a plot file or as a
report document describing the plot and its data.

The output format is chosen by the file extension:
  plots:   .svg .png .pdf .xaml .xps
  reports: .txt .html .md .pdf .rtf .tex .xps .docx .json

Models are built-in demo models (see "plotreport models"), YAML/JSON model
files or SQLite databases.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", logFormatText,
		"Log output format: text or json")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .plotreport in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewPlotCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewCopyCmd())
	cmd.AddCommand(NewModelsCmd())
	cmd.AddCommand(NewHelpHomeCmd())
	cmd.AddCommand(NewDocsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
