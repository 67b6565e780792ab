package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/plotreport/internal/model"
)

// Source produces a plot model.
type Source interface {
	Load(ctx context.Context) (*model.PlotModel, error)
}

// Builtin loads one of the demo models.
type Builtin struct {
	Type model.ModelType
}

// Load creates the demo model.
func (b Builtin) Load(ctx context.Context) (*model.PlotModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return model.NewPlotModel(b.Type)
}

// File loads a model from a YAML or JSON document.
type File struct {
	Path string
}

// Load reads and decodes the file.
func (f File) Load(ctx context.Context) (*model.PlotModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()

	m, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Path, err)
	}
	if m.Title == "" {
		m.Title = strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
	}
	return m, nil
}

// Decode reads a model document. JSON documents are accepted because JSON
// is valid YAML. Unknown keys are rejected.
func Decode(r io.Reader) (*model.PlotModel, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m model.PlotModel
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyModel
		}
		return nil, err
	}
	if len(m.Series) == 0 {
		return nil, ErrEmptyModel
	}
	return &m, nil
}

// Encode writes m as a YAML document that Decode can read back.
func Encode(w io.Writer, m *model.PlotModel) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return enc.Close()
}

// FromArg resolves a CLI model argument. Paths ending in .yaml, .yml or
// .json are model files, .db, .sqlite and .sqlite3 are databases, and
// anything else must name a built-in model.
func FromArg(arg string, opts Options) (Source, error) {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml", ".json":
		return File{Path: arg}, nil
	case ".db", ".sqlite", ".sqlite3":
		return dbSource{path: arg, opts: opts}, nil
	}
	t, err := model.ParseModelType(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, arg)
	}
	return Builtin{Type: t}, nil
}

// dbSource opens the database for a single load.
type dbSource struct {
	path string
	opts Options
}

func (s dbSource) Load(ctx context.Context) (*model.PlotModel, error) {
	db, err := Open(s.path, s.opts)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Load(ctx)
}
