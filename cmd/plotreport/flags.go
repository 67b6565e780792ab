package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/plotreport/internal/config"
	"github.com/nao1215/plotreport/internal/export"
	"github.com/nao1215/plotreport/internal/log"
	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/shell"
	"github.com/nao1215/plotreport/internal/source"
	"github.com/spf13/cobra"
)

// addModelFlags adds the flags that select the exported model.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", config.DefaultModel,
		"Built-in model name, YAML/JSON model file or SQLite database")
	cmd.Flags().StringP("query", "q", "",
		"SQL query returning (series, x, y[, kind, color]) rows for SQLite models")
}

// addExportFlags adds the flags shared by all exporting commands.
func addExportFlags(cmd *cobra.Command) {
	addModelFlags(cmd)

	cmd.Flags().IntP("width", "W", config.DefaultWidth,
		"Width of plot exports in pixels")
	cmd.Flags().IntP("height", "H", config.DefaultHeight,
		"Height of plot exports in pixels")
	cmd.Flags().StringP("title", "t", config.DefaultTitle,
		"Report document title")
	cmd.Flags().Bool("toc", false,
		"Add a table of contents to reports")
	cmd.Flags().Bool("equations", false,
		"Add the sample equations section to reports")
	cmd.Flags().Bool("no-open", false,
		"Do not reveal saved files in the file manager")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// errUnknownLogFormat is returned for a --log-format other than text or json.
var errUnknownLogFormat = errors.New("unknown log format")

// newLogger creates the logger selected by the log-format flag.
func newLogger(cmd *cobra.Command, verbose bool) (*slog.Logger, error) {
	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		logFormat, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			logFormat = logFormatText
		}
	}
	switch logFormat {
	case logFormatText:
		return log.NewLogger(cmd.ErrOrStderr(), verbose), nil
	case logFormatJSON:
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose), nil
	default:
		return nil, fmt.Errorf("%w %q: want %s or %s", errUnknownLogFormat, logFormat, logFormatText, logFormatJSON)
	}
}

// getConfigFlag retrieves the config flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// buildConfig creates a Config from the configuration file and cobra
// command flags. Flags that were set explicitly override the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getConfigFlag(cmd)

	// If the user explicitly specified a config file path, error if not found.
	// If no path was specified, silently use defaults if no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := overrideString(cmd, "model", &cfg.Model); err != nil {
		return nil, err
	}
	if err := overrideString(cmd, "query", &cfg.Query); err != nil {
		return nil, err
	}
	if err := overrideString(cmd, "title", &cfg.Title); err != nil {
		return nil, err
	}
	if err := overrideInt(cmd, "width", &cfg.Width); err != nil {
		return nil, err
	}
	if err := overrideInt(cmd, "height", &cfg.Height); err != nil {
		return nil, err
	}
	if err := overrideInt(cmd, "concurrency", &cfg.Concurrency); err != nil {
		return nil, err
	}
	if err := overrideBool(cmd, "toc", &cfg.TableOfContents); err != nil {
		return nil, err
	}
	if err := overrideBool(cmd, "equations", &cfg.Equations); err != nil {
		return nil, err
	}

	noOpen := !cfg.OpenFolder
	if err := overrideBool(cmd, "no-open", &noOpen); err != nil {
		return nil, err
	}
	cfg.OpenFolder = !noOpen

	return cfg, nil
}

// changed reports whether the named flag exists and was set by the user.
func changed(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if !changed(cmd, name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideInt(cmd *cobra.Command, name string, dst *int) error {
	if !changed(cmd, name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) error {
	if !changed(cmd, name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// session is the state shared by one run of an exporting command.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	logger *slog.Logger
}

// newSession builds and validates the configuration, installs the logger
// and derives a context that is cancelled on SIGINT or SIGTERM.
// The caller must call close.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger, err := newLogger(cmd, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return &session{ctx: ctx, cancel: cancel, cfg: cfg, logger: logger}, nil
}

// close releases the signal handler.
func (s *session) close() {
	s.cancel()
}

// loadModel loads the plot model selected by the configuration.
func loadModel(ctx context.Context, cfg *config.Config) (*model.PlotModel, error) {
	src, err := source.FromArg(cfg.Model, source.Options{Query: cfg.Query})
	if err != nil {
		return nil, err
	}
	m, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", cfg.Model, err)
	}
	return m, nil
}

// newExporter creates an Exporter for the configured model. opts are
// applied after the configured options.
func (s *session) newExporter(clipboard shell.Clipboard, opts ...export.Option) (*export.Exporter, error) {
	cfg := s.cfg
	m, err := loadModel(s.ctx, cfg)
	if err != nil {
		return nil, err
	}

	var opener shell.Opener = shell.NopOpener{}
	if cfg.OpenFolder {
		opener = shell.NewBrowser()
	}

	return export.New(m, append([]export.Option{
		export.WithLogger(s.logger),
		export.WithStyle(cfg.ReportStyle()),
		export.WithOpener(opener),
		export.WithClipboard(clipboard),
		export.WithPlotSize(cfg.Width, cfg.Height),
		export.WithLaTeXMetadata(cfg.LaTeXTitle, cfg.LaTeXAuthor),
		export.WithContent(export.Content{
			Title:           cfg.Title,
			TableOfContents: cfg.TableOfContents,
			Equations:       cfg.Equations,
		}),
	}, opts...)...), nil
}

// printResult writes a one-line summary of a saved file.
func printResult(w io.Writer, r *export.Result) {
	fmt.Fprintf(w, "Saved %s (%s, blake2b-256 %s)\n", r.Path, r.Format, r.Digest)
	for _, a := range r.Artifacts {
		fmt.Fprintf(w, "  plot: %s\n", a)
	}
}
