// Package model defines the plot data structures shared by every exporter.
//
// This package contains the following main types:
//   - DataPoint: A single X/Y coordinate with a NaN validity predicate
//   - Series: An ordered, styled sequence of data points
//   - PlotModel: The ordered collection of series that exporters read from
//   - ModelType: The built-in demo models that NewPlotModel can create
//
// The types are plain values so they can be decoded from YAML/JSON model
// files and read concurrently by batch exports without locking. Exporters
// never mutate a PlotModel.
package model
