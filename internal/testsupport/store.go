package testsupport

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"coursegen/internal/config"
	"coursegen/internal/jobs"
)

// MustOpenStore opens a jobs.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *jobs.Store {
	t.Helper()

	store, err := jobs.Open(cfg)
	if err != nil {
		t.Fatalf("jobs.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJob creates an uploaded job for tests using the provided store.
func NewJob(t testing.TB, store *jobs.Store, title, sourcePath string, mode jobs.Mode) *jobs.Job {
	t.Helper()

	job, err := store.NewJob(context.Background(), uuid.NewString(), title, "upload.mp4", sourcePath, mode)
	if err != nil {
		t.Fatalf("store.NewJob: %v", err)
	}
	return job
}
