// Package logging centralizes slog construction and the structured field
// vocabulary used across the service. Handlers support console output for
// interactive use and JSON for log aggregation; field constants keep job,
// stage, and error attributes consistent between the pipeline, the HTTP
// layer, and the CLI.
package logging
