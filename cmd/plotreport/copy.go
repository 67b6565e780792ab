package main

import (
	"fmt"

	"github.com/nao1215/plotreport/internal/export"
	"github.com/nao1215/plotreport/internal/shell"
	"github.com/spf13/cobra"
)

// NewCopyCmd creates the copy command.
func NewCopyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy [svg|xaml|bitmap]",
		Short: "Copy the plot to the clipboard",
		Long: `Copy renders the plot and places it on the system clipboard as SVG text,
XAML text or a PNG data URI. The default is svg.

Examples:
  plotreport copy
  plotreport copy --model gaps xaml
  plotreport copy --print bitmap > plot.uri`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"svg", "xaml", "bitmap"},
		RunE:      runCopyCmd,
	}

	addExportFlags(cmd)
	cmd.Flags().BoolP("print", "p", false,
		"Print the copied text instead of using the system clipboard")

	return cmd
}

// runCopyCmd executes the copy command.
func runCopyCmd(cmd *cobra.Command, args []string) error {
	kind := export.CopySVG
	if len(args) == 1 {
		var err error
		if kind, err = export.ParseCopyKind(args[0]); err != nil {
			return err
		}
	}

	printOnly, err := cmd.Flags().GetBool("print")
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	var clipboard shell.Clipboard = shell.SystemClipboard{}
	if printOnly {
		clipboard = &shell.MemoryClipboard{}
	}
	exporter, err := s.newExporter(clipboard)
	if err != nil {
		return err
	}

	text, err := exporter.Copy(s.ctx, kind)
	if err != nil {
		return err
	}
	if printOnly {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Copied %s plot to the clipboard (%d bytes)\n", kind, len(text))
	return nil
}
