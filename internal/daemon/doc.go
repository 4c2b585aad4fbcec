// Package daemon wires the long-running coursegen process: it enforces
// single-instance execution with a file lock, fails over jobs orphaned by a
// previous run, starts the pipeline worker pool, and serves the HTTP API
// used by uploaders and the CLI.
package daemon
