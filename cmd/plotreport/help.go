package main

import (
	"fmt"

	"github.com/nao1215/plotreport/internal/shell"
	"github.com/spf13/cobra"
)

// NewHelpHomeCmd creates the help-home command.
func NewHelpHomeCmd() *cobra.Command {
	return newOpenURLCmd("help-home", "Open the project home page", shell.HelpHome, shell.NewBrowser())
}

// NewDocsCmd creates the docs command.
func NewDocsCmd() *cobra.Command {
	return newOpenURLCmd("docs", "Open the online documentation", shell.HelpDocumentation, shell.NewBrowser())
}

// newOpenURLCmd creates a command that opens url with opener.
func newOpenURLCmd(use, short, url string, opener shell.Opener) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + " (" + url + ") in the default browser.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opener.OpenURL(url); err != nil {
				return fmt.Errorf("failed to open %s: %w", url, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", url)
			return nil
		},
	}
}
