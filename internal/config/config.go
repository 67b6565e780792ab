package config

import (
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"

	"github.com/nao1215/plotreport/internal/report"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "plotreport"

	// DefaultModel is the built-in model exported when none is given.
	DefaultModel = "sine-wave"

	// DefaultWidth and DefaultHeight are the size of direct plot exports
	// in pixels. Reports always embed 800x500 renderings.
	DefaultWidth  = 800
	DefaultHeight = 500

	// DefaultTitle is the report document title.
	DefaultTitle = "Oxyplot example report"

	// DefaultLaTeXTitle and DefaultLaTeXAuthor fill the LaTeX title page.
	DefaultLaTeXTitle  = "Example report"
	DefaultLaTeXAuthor = "oxyplot"

	// DefaultConcurrency is the number of concurrent exports in a batch.
	DefaultConcurrency = 4
)

// Config holds all options of an export run.
// It is populated from the config file and CLI flags and passed through
// the application rather than kept in global state.
type Config struct {
	// Verbose enables debug logging. When false, only warnings and errors
	// are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// Model is a built-in model name, a YAML/JSON model file or a SQLite
	// database path.
	Model string

	// Query overrides the SQL query used for SQLite models.
	Query string

	// Width and Height are the size of direct plot exports in pixels.
	Width  int
	Height int

	// Title is the report document title.
	Title string

	// LaTeXTitle and LaTeXAuthor are written to the LaTeX title page.
	LaTeXTitle  string
	LaTeXAuthor string

	// TableOfContents adds a contents listing to reports.
	TableOfContents bool

	// Equations adds the sample equations section to reports.
	Equations bool

	// OpenFolder reveals every saved file in the file manager.
	OpenFolder bool

	// Concurrency is the number of concurrent exports in a batch.
	Concurrency int

	// Style is the shared formatting of report writers.
	Style StyleConfig
}

// StyleConfig holds the configurable parts of report.Style.
type StyleConfig struct {
	BodyFont         string
	HeaderFont       string
	FontSize         float64
	TableHeaderColor string
	Margin           float64
	Locale           string
	Author           string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Title:       DefaultTitle,
		LaTeXTitle:  DefaultLaTeXTitle,
		LaTeXAuthor: DefaultLaTeXAuthor,
		OpenFolder:  true,
		Concurrency: DefaultConcurrency,
		Style: StyleConfig{
			BodyFont:         report.DefaultBodyFont,
			HeaderFont:       report.DefaultBodyFont,
			FontSize:         report.DefaultFontSize,
			TableHeaderColor: report.DefaultTableHeaderColor,
			Margin:           report.DefaultMargin,
			Locale:           report.DefaultLocale,
		},
	}
}

// XDGConfigDir returns the XDG config directory for plotreport.
// On Linux: ~/.config/plotreport
// On macOS: ~/Library/Application Support/plotreport
// On Windows: %APPDATA%\plotreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Model == "" {
		return ErrNoModel
	}
	if c.Width <= 0 || c.Height <= 0 {
		return ErrInvalidPlotSize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if _, err := language.Parse(c.Style.Locale); err != nil {
		return ErrInvalidLocale
	}
	if !hexColor.MatchString(c.Style.TableHeaderColor) {
		return ErrInvalidColor
	}
	if c.Style.FontSize <= 0 {
		return ErrInvalidFontSize
	}
	if c.Style.Margin < 0 {
		return ErrInvalidMargin
	}
	return nil
}

// ReportStyle returns the report style described by the configuration.
func (c *Config) ReportStyle() *report.Style {
	style := report.DefaultStyle()
	style.BodyFont = c.Style.BodyFont
	style.HeaderFont = c.Style.HeaderFont
	style.FontSize = c.Style.FontSize
	style.TableHeaderColor = c.Style.TableHeaderColor
	style.Margin = c.Style.Margin
	style.Locale = c.Style.Locale
	style.Author = c.Style.Author
	return style
}
