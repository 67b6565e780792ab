// Package pipeline runs export jobs through a fixed sequence of steps.
//
// A report export renders the intermediate plot files, builds the report
// tree and writes the target document. Each stage is a Step receiving the
// Job, so stages share state without knowing about each other. A failed
// job removes every file it created.
//
// The package supports single exports and batch processing of many
// targets with concurrency control using errgroup.
package pipeline
