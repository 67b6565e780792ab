package source

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/plotreport/internal/model"
)

// DefaultQuery reads the tables written by Store.
const DefaultQuery = `SELECT s.title, p.x, p.y, s.kind, s.color
FROM points p
JOIN series s ON s.id = p.series_id
ORDER BY s.position, p.position`

// DB reads plot models from a SQLite database.
type DB struct {
	db    *sql.DB
	path  string
	query string
	title string
}

// Options configures how a database is opened and read.
type Options struct {
	// CreateIfNotExists creates the database file and its directory.
	// Loading leaves it false so a mistyped path is an error.
	CreateIfNotExists bool

	// Query returns (series, x, y) rows, optionally followed by the series
	// kind and color. Empty means DefaultQuery. A NULL coordinate becomes
	// NaN, which breaks the series line. Kind and color are taken from the
	// first row of a series; NULL means a line in the palette color.
	Query string

	// Title is the model title. Empty means the file name without extension.
	Title string
}

// Open opens the SQLite database at path.
func Open(path string, opts Options) (*DB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if opts.Title == "" {
		opts.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	db := NewDB(sqlDB, opts)
	db.path = path
	return db, nil
}

// NewDB wraps an open database handle.
func NewDB(db *sql.DB, opts Options) *DB {
	query := opts.Query
	if query == "" {
		query = DefaultQuery
	}
	return &DB{db: db, query: query, title: opts.Title}
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database file path, or "" for a wrapped handle.
func (d *DB) Path() string {
	return d.path
}

// Load runs the query and groups rows into series in order of first
// appearance.
func (d *DB) Load(ctx context.Context) (*model.PlotModel, error) {
	rows, err := d.db.QueryContext(ctx, d.query)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	styled := len(cols) == 5
	if len(cols) != 3 && !styled {
		return nil, fmt.Errorf("%w: got %d", ErrUnexpectedColumns, len(cols))
	}

	m := model.NewEmptyPlotModel(d.title)
	index := make(map[string]int)
	for rows.Next() {
		var (
			title       string
			x, y        sql.NullFloat64
			kind, color sql.NullString
		)
		dest := []any{&title, &x, &y}
		if styled {
			dest = append(dest, &kind, &color)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		i, ok := index[title]
		if !ok {
			s := model.Series{Title: title, Kind: model.SeriesLine, Color: color.String}
			if kind.Valid {
				if err := s.Kind.UnmarshalText([]byte(kind.String)); err != nil {
					return nil, fmt.Errorf("series %q: %w", title, err)
				}
			}
			i = len(m.Series)
			index[title] = i
			m.AddSeries(s)
		}
		m.Series[i].Points = append(m.Series[i].Points, model.Pt(nullFloat(x), nullFloat(y)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate points: %w", err)
	}
	if len(m.Series) == 0 {
		return nil, ErrEmptyModel
	}
	return m, nil
}

// Store replaces the database content with m using the schema DefaultQuery reads.
func (d *DB) Store(ctx context.Context, m *model.PlotModel) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM points; DELETE FROM series;"); err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}

	for i := range m.Series {
		s := &m.Series[i]
		kind, err := s.Kind.MarshalText()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO series (position, title, kind, color) VALUES (?, ?, ?, ?)",
			i, s.Title, string(kind), s.Color)
		if err != nil {
			return fmt.Errorf("failed to insert series %q: %w", s.Title, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read series id: %w", err)
		}
		for j, p := range s.Points {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO points (series_id, position, x, y) VALUES (?, ?, ?, ?)",
				id, j, nullable(p.X), nullable(p.Y)); err != nil {
				return fmt.Errorf("failed to insert point: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS series (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	kind TEXT NOT NULL DEFAULT 'line',
	color TEXT
);

CREATE TABLE IF NOT EXISTS points (
	series_id INTEGER NOT NULL REFERENCES series(id),
	position INTEGER NOT NULL,
	x REAL,
	y REAL
);

CREATE INDEX IF NOT EXISTS idx_points_series ON points(series_id, position);
`

func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// nullable stores NaN as NULL; SQLite has no NaN.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
