package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".plotreport"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the .plotreport configuration file.
// Unset values leave the corresponding Config field untouched.
type File struct {
	Model       string `yaml:"model,omitempty"`
	Query       string `yaml:"query,omitempty"`
	Width       int    `yaml:"width,omitempty"`
	Height      int    `yaml:"height,omitempty"`
	OpenFolder  *bool  `yaml:"openFolder,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`

	Report ReportSettings `yaml:"report,omitempty"`
	LaTeX  LaTeXSettings  `yaml:"latex,omitempty"`
	Style  StyleSettings  `yaml:"style,omitempty"`
}

// ReportSettings configures report content.
type ReportSettings struct {
	Title           string `yaml:"title,omitempty"`
	TableOfContents *bool  `yaml:"tableOfContents,omitempty"`
	Equations       *bool  `yaml:"equations,omitempty"`
}

// LaTeXSettings configures the LaTeX title page.
type LaTeXSettings struct {
	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`
}

// StyleSettings configures the shared report style.
type StyleSettings struct {
	BodyFont         string   `yaml:"bodyFont,omitempty"`
	HeaderFont       string   `yaml:"headerFont,omitempty"`
	FontSize         float64  `yaml:"fontSize,omitempty"`
	TableHeaderColor string   `yaml:"tableHeaderColor,omitempty"`
	Margin           *float64 `yaml:"margin,omitempty"`
	Locale           string   `yaml:"locale,omitempty"`
	Author           string   `yaml:"author,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Unknown keys are an error so typos do not go unnoticed.
func LoadConfigFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cf File
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the values set in f into c.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	setString(&c.Model, f.Model)
	setString(&c.Query, f.Query)
	if f.Width > 0 {
		c.Width = f.Width
	}
	if f.Height > 0 {
		c.Height = f.Height
	}
	if f.OpenFolder != nil {
		c.OpenFolder = *f.OpenFolder
	}
	if f.Concurrency > 0 {
		c.Concurrency = f.Concurrency
	}

	setString(&c.Title, f.Report.Title)
	if f.Report.TableOfContents != nil {
		c.TableOfContents = *f.Report.TableOfContents
	}
	if f.Report.Equations != nil {
		c.Equations = *f.Report.Equations
	}

	setString(&c.LaTeXTitle, f.LaTeX.Title)
	setString(&c.LaTeXAuthor, f.LaTeX.Author)

	setString(&c.Style.BodyFont, f.Style.BodyFont)
	setString(&c.Style.HeaderFont, f.Style.HeaderFont)
	if f.Style.FontSize != 0 {
		c.Style.FontSize = f.Style.FontSize
	}
	setString(&c.Style.TableHeaderColor, f.Style.TableHeaderColor)
	if f.Style.Margin != nil {
		c.Style.Margin = *f.Style.Margin
	}
	setString(&c.Style.Locale, f.Style.Locale)
	setString(&c.Style.Author, f.Style.Author)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .plotreport in the current directory
// 3. Look for .plotreport in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
