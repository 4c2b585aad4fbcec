package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// fakeExtract writes a placeholder audio file where ffmpeg would.
func fakeExtract(t *testing.T) func(ctx context.Context, name string, args ...string) error {
	t.Helper()
	return func(_ context.Context, name string, args ...string) error {
		if name == "" {
			t.Error("runner invoked with empty binary name")
		}
		destination := args[len(args)-1]
		return os.WriteFile(destination, []byte("RIFFfake"), 0o644)
	}
}

func TestTranscribePostsExtractedAudio(t *testing.T) {
	var gotAuth, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Write([]byte(`{"text": "hello from the lecture"}`))
	}))
	defer server.Close()

	service := NewService(Config{APIKey: "secret", BaseURL: server.URL, Model: "whisper-1"}, nil,
		WithRunner(fakeExtract(t)))
	transcript, err := service.Transcribe(context.Background(), "lecture.mp4")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if transcript != "hello from the lecture" {
		t.Fatalf("unexpected transcript: %q", transcript)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotModel != "whisper-1" {
		t.Fatalf("unexpected model field: %q", gotModel)
	}
}

func TestTranscribeExtractFailure(t *testing.T) {
	service := NewService(Config{APIKey: "secret"}, nil,
		WithRunner(func(context.Context, string, ...string) error {
			return errors.New("no audio stream")
		}))
	_, err := service.Transcribe(context.Background(), "silent.mp4")
	if err == nil || !strings.Contains(err.Error(), "extract") {
		t.Fatalf("expected extract failure, got %v", err)
	}
}

func TestTranscribeServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid audio"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	service := NewService(Config{APIKey: "secret", BaseURL: server.URL}, nil,
		WithRunner(fakeExtract(t)))
	_, err := service.Transcribe(context.Background(), "lecture.mp4")
	if err == nil || !strings.Contains(err.Error(), "http 400") {
		t.Fatalf("expected http status error, got %v", err)
	}
}

func TestTranscribeEmptyTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "  "}`))
	}))
	defer server.Close()

	service := NewService(Config{APIKey: "secret", BaseURL: server.URL}, nil,
		WithRunner(fakeExtract(t)))
	_, err := service.Transcribe(context.Background(), "lecture.mp4")
	if err == nil || !strings.Contains(err.Error(), "empty transcript") {
		t.Fatalf("expected empty transcript error, got %v", err)
	}
}
