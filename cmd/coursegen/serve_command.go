package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"coursegen/internal/courses"
	"coursegen/internal/daemon"
	"coursegen/internal/jobs"
	"coursegen/internal/logging"
	"coursegen/internal/media/frames"
	"coursegen/internal/pipeline"
	"coursegen/internal/services/llm"
	"coursegen/internal/services/structurer"
	"coursegen/internal/services/transcribe"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the coursegen daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(cmdCtx context.Context, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.LogDir, "coursegen.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := jobs.Open(cfg)
	if err != nil {
		logger.Error("open job store", logging.Error(err))
		return err
	}
	courseStore := courses.NewStore(store.DB())

	transcriber := transcribe.NewService(transcribe.Config{
		FFmpegBinary:   cfg.FFmpegBinary,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.TranscribeModel,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, logger)

	sampler := frames.NewSampler(
		frames.NewFFmpegOpener(cfg.FFmpegBinary, cfg.FFprobeBinary),
		frames.SamplerConfig{
			Width:       cfg.SnapshotWidth,
			Height:      cfg.SnapshotHeight,
			JPEGQuality: cfg.SnapshotJPEGQuality,
		},
		logger,
	)

	builder := structurer.New(llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.CourseModel,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}), logger)

	manager := pipeline.NewManager(cfg, store, courseStore, logger, transcriber, sampler, builder)

	d, err := daemon.New(cfg, store, courseStore, manager, logger)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	<-signalCtx.Done()
	logger.Info("coursegen daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
