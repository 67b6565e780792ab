package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/source"
	"github.com/spf13/cobra"
)

// errUnsupportedModelFile is returned when --save names an unknown file type.
var errUnsupportedModelFile = errors.New("model files must end in .yaml, .yml, .db, .sqlite or .sqlite3")

// NewModelsCmd creates the models command.
func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the built-in models or save a model to a file",
		Long: `Models lists the built-in demo models with their series and point counts.

With --save, the model selected by --model is written to a YAML model file
or a SQLite database, which can then be edited and passed back to --model.

Examples:
  # List built-in models
  plotreport models

  # Save the gaps model as a YAML file to edit
  plotreport models --model gaps --save gaps.yaml

  # Store the clover model in a SQLite database
  plotreport models --model clover --save plots.db`,
		Args: cobra.NoArgs,
		RunE: runModelsCmd,
	}

	addModelFlags(cmd)
	cmd.Flags().StringP("save", "s", "",
		"Write the selected model to a .yaml or SQLite file")

	return cmd
}

// runModelsCmd executes the models command.
func runModelsCmd(cmd *cobra.Command, _ []string) error {
	savePath, err := cmd.Flags().GetString("save")
	if err != nil {
		return err
	}
	if savePath == "" {
		return listModels(cmd)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	m, err := loadModel(s.ctx, s.cfg)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(savePath)) {
	case ".yaml", ".yml":
		err = saveModelFile(savePath, m)
	case ".db", ".sqlite", ".sqlite3":
		err = saveModelDB(s.ctx, savePath, m)
	default:
		return fmt.Errorf("%w: %s", errUnsupportedModelFile, savePath)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved model %q to %s\n", m.Title, savePath)
	return nil
}

// listModels prints every built-in model.
func listModels(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for _, t := range model.ModelTypes() {
		m, err := model.NewPlotModel(t)
		if err != nil {
			return err
		}
		marker := " "
		if t == model.DefaultModelType {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-20s %-28s %d series, %d points\n",
			marker, t, m.Title, len(m.Series), m.TotalNumberOfPoints())
	}
	return nil
}

// saveModelFile writes m as YAML to path.
func saveModelFile(path string, m *model.PlotModel) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	if err := source.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// saveModelDB stores m in the SQLite database at path, replacing its contents.
func saveModelDB(ctx context.Context, path string, m *model.PlotModel) error {
	db, err := source.Open(path, source.Options{CreateIfNotExists: true})
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Store(ctx, m)
}
