package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"coursegen/internal/config"
	"coursegen/internal/courses"
	"coursegen/internal/jobs"
	"coursegen/internal/logging"
	"coursegen/internal/media/frames"
	"coursegen/internal/scenes"
	"coursegen/internal/services"
	"coursegen/internal/visuals"
)

// JobRepository is the slice of the job store the pipeline drives: claiming
// the next uploaded job and persisting per-stage updates. The SQLite-backed
// jobs.Store satisfies it.
type JobRepository interface {
	Claim(ctx context.Context) (*jobs.Job, error)
	Update(ctx context.Context, job *jobs.Job) error
}

// CourseRepository persists generated courses.
type CourseRepository interface {
	Create(ctx context.Context, course *courses.Course) (string, error)
}

// Transcriber produces transcript text for a video file.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// FrameSampler extracts snapshots from a video file.
type FrameSampler interface {
	Sample(ctx context.Context, path string, count int) ([]frames.Snapshot, error)
}

// CourseBuilder turns a transcript into a validated course structure.
type CourseBuilder interface {
	GenerateCourse(ctx context.Context, title, transcript string, mode jobs.Mode) (*courses.Course, error)
}

// Manager runs the processing pipeline over claimed jobs.
type Manager struct {
	cfg         *config.Config
	store       JobRepository
	courseStore CourseRepository
	logger      *slog.Logger

	transcriber Transcriber
	sampler     FrameSampler
	builder     CourseBuilder

	workers            int
	pollInterval       time.Duration
	errorRetryInterval time.Duration
	newRand            func() *rand.Rand

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures optional Manager behavior.
type Option func(*Manager)

// WithRandSource overrides how per-job random sources are created (used in
// tests to pin scene assignment and visual synthesis outcomes).
func WithRandSource(newRand func() *rand.Rand) Option {
	return func(m *Manager) {
		if newRand != nil {
			m.newRand = newRand
		}
	}
}

// WithPollInterval overrides the idle poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.pollInterval = interval
		}
	}
}

// NewManager constructs a pipeline manager.
func NewManager(
	cfg *config.Config,
	store JobRepository,
	courseStore CourseRepository,
	logger *slog.Logger,
	transcriber Transcriber,
	sampler FrameSampler,
	builder CourseBuilder,
	opts ...Option,
) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.Workflow.Workers
	if workers <= 0 {
		workers = 1
	}
	m := &Manager{
		cfg:                cfg,
		store:              store,
		courseStore:        courseStore,
		logger:             logging.NewComponentLogger(logger, "pipeline"),
		transcriber:        transcriber,
		sampler:            sampler,
		builder:            builder,
		workers:            workers,
		pollInterval:       time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	if m.pollInterval <= 0 {
		m.pollInterval = 2 * time.Second
	}
	if m.errorRetryInterval <= 0 {
		m.errorRetryInterval = 5 * time.Second
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("pipeline already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(m.workers)
	for i := 0; i < m.workers; i++ {
		go m.runWorker(runCtx, i)
	}
	m.logger.Info("pipeline started", logging.Int("workers", m.workers))
	return nil
}

// Stop terminates background processing and waits for in-flight jobs.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("pipeline stopped")
}

func (m *Manager) runWorker(ctx context.Context, index int) {
	defer m.wg.Done()
	logger := m.logger.With(logging.Int("worker", index))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := m.store.Claim(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("failed to claim next job",
				logging.Error(err),
				logging.String(logging.FieldEventType, "claim_failed"),
				logging.String(logging.FieldErrorHint, "check state database access"))
			m.waitOrShutdown(ctx, m.errorRetryInterval)
			continue
		}
		if job == nil {
			m.waitOrShutdown(ctx, m.pollInterval)
			continue
		}

		if err := m.process(ctx, logger, job); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (m *Manager) waitOrShutdown(ctx context.Context, delay time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

// process runs a claimed job through all pipeline stages.
func (m *Manager) process(ctx context.Context, workerLogger *slog.Logger, job *jobs.Job) error {
	requestID := uuid.NewString()
	ctx = services.WithJobID(ctx, job.ID)
	ctx = services.WithRequestID(ctx, requestID)
	jobLogger := workerLogger.With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldCorrelationID, requestID),
	)
	jobStart := time.Now()
	jobLogger.Info("job processing started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("title", job.Title),
		logging.String("mode", string(job.Mode)))

	if err := m.runStages(ctx, jobLogger, job); err != nil {
		return err
	}

	jobLogger.Info("job processing completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.String("course_id", job.CourseID),
		logging.Duration("job_duration", time.Since(jobStart)))
	return nil
}

func (m *Manager) runStages(ctx context.Context, jobLogger *slog.Logger, job *jobs.Job) error {
	// Stage 1: transcribe.
	if err := m.runStage(ctx, jobLogger, job, "transcribe", jobs.StatusTranscriptExtracted, func(stageCtx context.Context) error {
		transcript, err := m.transcriber.Transcribe(stageCtx, job.SourcePath)
		if err != nil {
			return err
		}
		job.Transcript = transcript
		return nil
	}); err != nil {
		return err
	}

	// Stage 2: sample frames. Failures degrade to an empty snapshot set.
	var snapshots []frames.Snapshot
	if err := m.runStage(ctx, jobLogger, job, "sample", jobs.StatusSnapshotsExtracted, func(stageCtx context.Context) error {
		count := m.cfg.Media.ConciseSnapshotCount
		if job.Mode == jobs.ModeFull {
			count = m.cfg.Media.FullSnapshotCount
		}
		sampled, err := m.sampler.Sample(stageCtx, job.SourcePath, count)
		if err != nil {
			if !services.IsNonFatal(err) {
				return err
			}
			logging.WithContext(stageCtx, m.logger).Warn("frame sampling failed; continuing without snapshots",
				logging.Error(err),
				logging.String(logging.FieldEventType, "sampling_degraded"))
			sampled = nil
		}
		encoded, err := json.Marshal(sampled)
		if err != nil {
			return fmt.Errorf("encode snapshots: %w", err)
		}
		job.SnapshotsJSON = string(encoded)
		snapshots = sampled
		return nil
	}); err != nil {
		return err
	}

	// Stage 3: compose the course.
	if err := m.runStage(ctx, jobLogger, job, "compose", jobs.StatusCompleted, func(stageCtx context.Context) error {
		course, err := m.builder.GenerateCourse(stageCtx, job.Title, job.Transcript, job.Mode)
		if err != nil {
			return err
		}
		rng := m.newRand()
		engine := scenes.NewEngine(rng)
		engine.Decorate(course, snapshots, visuals.NewSynthesizer(rng))

		courseID, err := m.courseStore.Create(stageCtx, course)
		if err != nil {
			return fmt.Errorf("persist course: %w", err)
		}
		job.CourseID = courseID
		return nil
	}); err != nil {
		return err
	}

	return nil
}

// runStage executes one stage and persists the job with doneStatus on
// success. Failures move the job to the error status.
func (m *Manager) runStage(ctx context.Context, jobLogger *slog.Logger, job *jobs.Job, name string, doneStatus jobs.Status, fn func(context.Context) error) error {
	stageCtx := services.WithStage(ctx, name)
	stageLogger := jobLogger.With(logging.String(logging.FieldStage, name))
	stageStart := time.Now()
	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	if err := fn(stageCtx); err != nil {
		if errors.Is(err, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return err
		}
		m.failJob(ctx, stageLogger, job, err)
		return err
	}

	job.Status = doneStatus
	if err := m.store.Update(ctx, job); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		return wrapped
	}
	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(job.Status)),
		logging.Duration("stage_duration", time.Since(stageStart)))
	return nil
}

func (m *Manager) failJob(ctx context.Context, stageLogger *slog.Logger, job *jobs.Job, cause error) {
	stageLogger.Error("stage failed",
		logging.Error(cause),
		logging.String(logging.FieldEventType, "stage_failure"))
	job.SetFailed(cause.Error())
	if err := m.store.Update(ctx, job); err != nil {
		stageLogger.Error("failed to persist job failure", logging.Error(err))
	}
}
