// Package source loads plot models for export.
//
// A model comes from one of three places:
//   - Builtin: one of the demo models created by model.NewPlotModel
//   - File: a YAML or JSON document decoded with gopkg.in/yaml.v3
//   - DB: a SQLite database queried for (series, x, y[, kind, color]) rows
//
// SQLite access uses modernc.org/sqlite, a CGO-free driver, so model
// databases can be read on every platform the CLI is built for.
package source
