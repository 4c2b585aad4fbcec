package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeMedia()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.UploadDir, err = expandPath(c.UploadDir); err != nil {
		return fmt.Errorf("paths.upload_dir: %w", err)
	}
	if c.StaticDir, err = expandPath(c.StaticDir); err != nil {
		return fmt.Errorf("paths.static_dir: %w", err)
	}
	if c.StateDir, err = expandPath(c.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.LogDir, err = expandPath(c.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.APIBind = strings.TrimSpace(c.APIBind)
	if c.APIBind == "" {
		c.APIBind = defaultAPIBind
	}
	if c.APIToken == "" {
		if value, ok := os.LookupEnv("COURSEGEN_API_TOKEN"); ok {
			c.APIToken = strings.TrimSpace(value)
		}
	}
	if value, ok := os.LookupEnv("COURSEGEN_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.APIBind = strings.TrimSpace(value)
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenAI.BaseURL), "/")
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	c.TranscribeModel = strings.TrimSpace(c.TranscribeModel)
	if c.TranscribeModel == "" {
		c.TranscribeModel = defaultTranscribeModel
	}
	c.CourseModel = strings.TrimSpace(c.CourseModel)
	if c.CourseModel == "" {
		c.CourseModel = defaultCourseModel
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeoutSeconds
	}
}

func (c *Config) normalizeMedia() {
	c.FFmpegBinary = strings.TrimSpace(c.FFmpegBinary)
	if c.FFmpegBinary == "" {
		c.FFmpegBinary = defaultFFmpegBinary
	}
	c.FFprobeBinary = strings.TrimSpace(c.FFprobeBinary)
	if c.FFprobeBinary == "" {
		c.FFprobeBinary = defaultFFprobeBinary
	}
	if c.SnapshotWidth <= 0 {
		c.SnapshotWidth = defaultSnapshotWidth
	}
	if c.SnapshotHeight <= 0 {
		c.SnapshotHeight = defaultSnapshotHeight
	}
	if c.SnapshotJPEGQuality <= 0 || c.SnapshotJPEGQuality > 100 {
		c.SnapshotJPEGQuality = defaultSnapshotJPEGQuality
	}
	if c.ConciseSnapshotCount <= 0 {
		c.ConciseSnapshotCount = defaultConciseSnapshots
	}
	if c.FullSnapshotCount <= 0 {
		c.FullSnapshotCount = defaultFullSnapshots
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.QueuePollInterval <= 0 {
		c.QueuePollInterval = defaultQueuePollInterval
	}
	if c.ErrorRetryInterval <= 0 {
		c.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeLogging() {
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
