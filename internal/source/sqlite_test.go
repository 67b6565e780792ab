package source

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nao1215/plotreport/internal/model"
)

const testQuery = "SELECT series, x, y FROM data"

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("missing database without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "none.db"), Options{})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("creates nested directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a", "b", "points.db")
		db, err := Open(path, Options{CreateIfNotExists: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer db.Close()
		if db.Path() != path {
			t.Errorf("expected path %s, got %s", path, db.Path())
		}
	})
}

func TestStoreLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "measurements.db")
	db, err := Open(path, Options{CreateIfNotExists: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	m := model.NewEmptyPlotModel("stored")
	m.AddSeries(model.Series{Title: "b", Points: []model.DataPoint{model.Pt(0, 0), model.Pt(1, math.NaN())}})
	m.AddSeries(model.Series{Title: "a", Kind: model.SeriesScatter, Color: "#FF8000", Points: []model.DataPoint{model.Pt(2, 4)}})

	ctx := context.Background()
	if err := db.Store(ctx, m); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	// Storing twice replaces the content.
	if err := db.Store(ctx, m); err != nil {
		t.Fatalf("second Store failed: %v", err)
	}

	got, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Title != "measurements" {
		t.Errorf("expected title from file name, got %q", got.Title)
	}
	if len(got.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(got.Series))
	}
	if got.Series[0].Title != "b" || got.Series[1].Title != "a" {
		t.Errorf("expected insertion order b, a; got %s, %s", got.Series[0].Title, got.Series[1].Title)
	}
	if len(got.Series[0].Points) != 2 || got.Series[0].Points[1].IsValid() {
		t.Errorf("expected NULL to load as an invalid point, got %v", got.Series[0].Points)
	}
	if got.Series[0].Kind != model.SeriesLine || got.Series[0].Color != "" {
		t.Errorf("expected b to load as a palette line, got %v %q", got.Series[0].Kind, got.Series[0].Color)
	}
	if got.Series[1].Kind != model.SeriesScatter || got.Series[1].Color != "#FF8000" {
		t.Errorf("expected a to load as an orange scatter, got %v %q", got.Series[1].Kind, got.Series[1].Color)
	}

	t.Run("FromArg", func(t *testing.T) {
		src, err := FromArg(path, Options{Title: "override"})
		if err != nil {
			t.Fatal(err)
		}
		loaded, err := src.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Title != "override" || loaded.TotalNumberOfPoints() != 3 {
			t.Errorf("unexpected model %q with %d points", loaded.Title, loaded.TotalNumberOfPoints())
		}
	})
}

func TestLoadWithMock(t *testing.T) {
	t.Parallel()

	t.Run("groups rows by first appearance", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to open sqlmock: %v", err)
		}
		defer sqlDB.Close()

		rows := sqlmock.NewRows([]string{"series", "x", "y"}).
			AddRow("s2", 0.0, 1.0).
			AddRow("s1", 0.0, 2.0).
			AddRow("s2", 1.0, nil)
		mock.ExpectQuery(testQuery).WillReturnRows(rows)

		m, err := NewDB(sqlDB, Options{Query: testQuery, Title: "mock"}).Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(m.Series) != 2 || m.Series[0].Title != "s2" {
			t.Fatalf("unexpected series %+v", m.Series)
		}
		if len(m.Series[0].Points) != 2 || !math.IsNaN(m.Series[0].Points[1].Y) {
			t.Errorf("unexpected points %v", m.Series[0].Points)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("reads kind and color columns", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to open sqlmock: %v", err)
		}
		defer sqlDB.Close()

		rows := sqlmock.NewRows([]string{"series", "x", "y", "kind", "color"}).
			AddRow("s1", 0.0, 1.0, "area", "#00FF00").
			AddRow("s2", 0.0, 2.0, nil, nil).
			AddRow("s1", 1.0, 3.0, "scatter", "#000000")
		mock.ExpectQuery(testQuery).WillReturnRows(rows)

		m, err := NewDB(sqlDB, Options{Query: testQuery}).Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(m.Series) != 2 {
			t.Fatalf("unexpected series %+v", m.Series)
		}
		// The first row of a series decides its style.
		if m.Series[0].Kind != model.SeriesArea || m.Series[0].Color != "#00FF00" {
			t.Errorf("unexpected style %v %q", m.Series[0].Kind, m.Series[0].Color)
		}
		if m.Series[1].Kind != model.SeriesLine || m.Series[1].Color != "" {
			t.Errorf("expected NULL style to be a palette line, got %v %q", m.Series[1].Kind, m.Series[1].Color)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to open sqlmock: %v", err)
		}
		defer sqlDB.Close()

		mock.ExpectQuery(testQuery).WillReturnRows(
			sqlmock.NewRows([]string{"series", "x", "y", "kind", "color"}).AddRow("s", 0.0, 1.0, "bar", nil))

		_, err = NewDB(sqlDB, Options{Query: testQuery}).Load(context.Background())
		if !errors.Is(err, model.ErrUnknownSeriesKind) {
			t.Errorf("expected ErrUnknownSeriesKind, got %v", err)
		}
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to open sqlmock: %v", err)
		}
		defer sqlDB.Close()

		boom := errors.New("no such table")
		mock.ExpectQuery(testQuery).WillReturnError(boom)

		_, err = NewDB(sqlDB, Options{Query: testQuery}).Load(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped query error, got %v", err)
		}
	})

	t.Run("wrong column count", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to open sqlmock: %v", err)
		}
		defer sqlDB.Close()

		mock.ExpectQuery(testQuery).WillReturnRows(sqlmock.NewRows([]string{"x", "y"}).AddRow(1.0, 2.0))

		_, err = NewDB(sqlDB, Options{Query: testQuery}).Load(context.Background())
		if !errors.Is(err, ErrUnexpectedColumns) {
			t.Errorf("expected ErrUnexpectedColumns, got %v", err)
		}
	})

	t.Run("non numeric value", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to open sqlmock: %v", err)
		}
		defer sqlDB.Close()

		mock.ExpectQuery(testQuery).WillReturnRows(
			sqlmock.NewRows([]string{"series", "x", "y"}).AddRow("s", "abc", 1.0))

		if _, err := NewDB(sqlDB, Options{Query: testQuery}).Load(context.Background()); err == nil {
			t.Error("expected scan error")
		}
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to open sqlmock: %v", err)
		}
		defer sqlDB.Close()

		mock.ExpectQuery(testQuery).WillReturnRows(sqlmock.NewRows([]string{"series", "x", "y"}))

		_, err = NewDB(sqlDB, Options{Query: testQuery}).Load(context.Background())
		if !errors.Is(err, ErrEmptyModel) {
			t.Errorf("expected ErrEmptyModel, got %v", err)
		}
	})

	t.Run("store rolls back on insert failure", func(t *testing.T) {
		t.Parallel()

		sqlDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to open sqlmock: %v", err)
		}
		defer sqlDB.Close()

		boom := errors.New("disk full")
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM points").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO series").WillReturnError(boom)
		mock.ExpectRollback()

		m := model.NewEmptyPlotModel("m")
		m.AddSeries(model.Series{Title: "s", Points: []model.DataPoint{model.Pt(0, 0)}})
		if err := NewDB(sqlDB, Options{}).Store(context.Background(), m); !errors.Is(err, boom) {
			t.Errorf("expected wrapped insert error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})
}
