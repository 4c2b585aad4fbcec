package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"coursegen/internal/config"
	"coursegen/internal/courses"
	"coursegen/internal/jobs"
	"coursegen/internal/logging"
	"coursegen/internal/pipeline"
)

// Daemon coordinates the background pipeline and the HTTP API, and enforces
// single-instance execution.
type Daemon struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *jobs.Store
	courseStore *courses.Store
	pipeline    *pipeline.Manager

	api *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running     bool               `json:"running"`
	Workers     int                `json:"workers"`
	StateDBPath string             `json:"state_db_path"`
	LockPath    string             `json:"lock_path"`
	JobCounts   map[jobs.Status]int `json:"job_counts"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *jobs.Store, courseStore *courses.Store, manager *pipeline.Manager, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || courseStore == nil || manager == nil {
		return nil, errors.New("daemon requires config, stores, and pipeline manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.StateDir, "coursegen.lock")
	d := &Daemon{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "daemon"),
		store:       store,
		courseStore: courseStore,
		pipeline:    manager,
		lockPath:    lockPath,
		lock:        flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the instance lock, fails over orphaned jobs, and launches
// the pipeline and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another coursegen daemon instance is already running")
	}

	// Jobs left mid-pipeline by a previous run cannot resume; mark them
	// failed so status polling does not report them as live.
	failed, err := d.store.FailInFlight(ctx, jobs.DaemonStopReason)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("fail in-flight jobs: %w", err)
	}
	if failed > 0 {
		d.logger.Warn("failed over jobs from previous run", logging.Int("count", int(failed)))
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.pipeline.Start(runCtx); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start pipeline: %w", err)
	}
	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			d.pipeline.Stop()
			cancel()
			d.cancel = nil
			_ = d.lock.Unlock()
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("coursegen daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.pipeline.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("coursegen daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr reports the API server's bound address, or empty when not serving.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	counts, err := d.store.Stats(ctx)
	if err != nil {
		d.logger.Warn("failed to collect job stats", logging.Error(err))
		counts = nil
	}
	return Status{
		Running:     d.running.Load(),
		Workers:     d.cfg.Workflow.Workers,
		StateDBPath: d.store.Path(),
		LockPath:    d.lockPath,
		JobCounts:   counts,
	}
}
