// Package config provides the configuration of the plotreport CLI.
// It defines the export options, their defaults and validation, and the
// optional .plotreport YAML file that supplies defaults under CLI flags.
package config
