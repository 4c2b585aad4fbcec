package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAppliesDefaultsForMissingFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("COURSEGEN_API_BIND", "")
	t.Setenv("COURSEGEN_API_TOKEN", "")

	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("file should not exist")
	}
	if path == "" {
		t.Error("expected resolved path")
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("api key = %q, want env override", cfg.APIKey)
	}
	if cfg.APIBind != defaultAPIBind {
		t.Errorf("api bind = %q, want default", cfg.APIBind)
	}
	if cfg.TranscribeModel != defaultTranscribeModel || cfg.CourseModel != defaultCourseModel {
		t.Errorf("models = %q/%q, want defaults", cfg.TranscribeModel, cfg.CourseModel)
	}
	if cfg.Workers != defaultWorkers {
		t.Errorf("workers = %d, want %d", cfg.Workers, defaultWorkers)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("COURSEGEN_API_BIND", "")
	t.Setenv("COURSEGEN_API_TOKEN", "")

	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := `[paths]
upload_dir = "` + filepath.Join(base, "uploads") + `"
state_dir = "` + filepath.Join(base, "state") + `"
api_bind = "127.0.0.1:9000"

[openai]
api_key = "file-key"
course_model = "gpt-4o"

[workflow]
workers = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.CourseModel != "gpt-4o" {
		t.Errorf("course model = %q", cfg.CourseModel)
	}
	if cfg.APIBind != "127.0.0.1:9000" {
		t.Errorf("api bind = %q", cfg.APIBind)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if !filepath.IsAbs(cfg.UploadDir) {
		t.Errorf("upload dir not absolute: %q", cfg.UploadDir)
	}
	// Unset fields fall back to defaults.
	if cfg.TranscribeModel != defaultTranscribeModel {
		t.Errorf("transcribe model = %q", cfg.TranscribeModel)
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, _, _, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err == nil {
		t.Fatal("expected error without api key")
	}
	if !strings.Contains(err.Error(), "openai.api_key") {
		t.Errorf("error should mention openai.api_key: %v", err)
	}
}

func TestEnvironmentOverridesBindAndToken(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("COURSEGEN_API_BIND", "0.0.0.0:8080")
	t.Setenv("COURSEGEN_API_TOKEN", "sekrit")

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBind != "0.0.0.0:8080" {
		t.Errorf("api bind = %q", cfg.APIBind)
	}
	if cfg.APIToken != "sekrit" {
		t.Errorf("api token = %q", cfg.APIToken)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	bad := Default()
	bad.APIKey = "key"
	bad.ConciseSnapshotCount = 20
	bad.FullSnapshotCount = 10
	if err := bad.Validate(); err == nil {
		t.Error("expected error when concise count exceeds full count")
	}

	badFormat := Default()
	badFormat.APIKey = "key"
	badFormat.LogFormat = "xml"
	if err := badFormat.Validate(); err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestExpandPathResolvesHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := expandPath("~/example")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "example") {
		t.Errorf("expandPath = %q", got)
	}
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteDefault(target); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if err := WriteDefault(target); err == nil {
		t.Fatal("expected error when file already exists")
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[openai]") {
		t.Errorf("sample config missing openai section")
	}
}
