package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"coursegen/internal/logging"
	"coursegen/internal/services"
)

func readLogLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var records []map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	for decoder.More() {
		record := map[string]any{}
		if err := decoder.Decode(&record); err != nil {
			t.Fatalf("decode log record: %v", err)
		}
		records = append(records, record)
	}
	return records
}

func TestJSONLoggerWritesStandardKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursegen.log")
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("job processing started", logging.String(logging.FieldEventType, "job_start"))
	logger.Debug("suppressed at info level")

	records := readLogLines(t, path)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record["msg"] != "job processing started" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("expected ts key")
	}
	if record[logging.FieldEventType] != "job_start" {
		t.Fatalf("unexpected event type: %v", record[logging.FieldEventType])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextCarriesJobFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursegen.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithJobID(context.Background(), "job-1")
	ctx = services.WithStage(ctx, "compose")
	ctx = services.WithRequestID(ctx, "req-9")
	logging.WithContext(ctx, logger).Info("stage started")

	records := readLogLines(t, path)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record[logging.FieldJobID] != "job-1" {
		t.Fatalf("unexpected job id: %v", record[logging.FieldJobID])
	}
	if record[logging.FieldStage] != "compose" {
		t.Fatalf("unexpected stage: %v", record[logging.FieldStage])
	}
	if record[logging.FieldCorrelationID] != "req-9" {
		t.Fatalf("unexpected correlation id: %v", record[logging.FieldCorrelationID])
	}
}

func TestNewComponentLoggerTagsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursegen.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logging.NewComponentLogger(logger, "pipeline").Info("pipeline started")

	records := readLogLines(t, path)
	if len(records) != 1 || records[0][logging.FieldComponent] != "pipeline" {
		t.Fatalf("expected component-tagged record, got %v", records)
	}
}
