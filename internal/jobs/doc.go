// Package jobs persists video processing jobs and their lifecycle state.
//
// A Job advances through a fixed status order (uploaded, processing,
// transcript_extracted, snapshots_extracted, completed) with error as the
// terminal failure state reachable from any non-terminal status. The SQLite
// store is the single source of truth: the HTTP layer reads it for status
// polling while pipeline workers claim and update jobs through it, so a
// status read is valid at any point in a job's lifetime.
package jobs
