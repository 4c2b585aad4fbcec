// Package pipeline coordinates job processing using a bounded worker pool.
//
// Workers poll the job store for uploaded jobs, claim them atomically, and
// run each claimed job through three stages in order: transcribe, sample,
// and compose. Every stage persists its result and advances the job status
// before the next stage starts, so status polling always reflects a
// consistent intermediate state.
//
// Stage failures move the job to the error status with a human-readable
// message; frame sampling failures are the one exception and degrade to an
// empty snapshot set. Failed jobs are never retried automatically.
package pipeline
