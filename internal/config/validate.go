package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.UploadDir == "" {
		return errors.New("paths.upload_dir must be set")
	}
	if c.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/coursegen/config.toml"
		}
		return fmt.Errorf("openai.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'coursegen config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.SnapshotWidth <= 0 || c.SnapshotHeight <= 0 {
		return errors.New("media.snapshot_width and media.snapshot_height must be positive")
	}
	if c.ConciseSnapshotCount > c.FullSnapshotCount {
		return errors.New("media.concise_snapshot_count must not exceed media.full_snapshot_count")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workers <= 0 {
		return errors.New("workflow.workers must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.LogFormat {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.LogFormat)
	}
}
