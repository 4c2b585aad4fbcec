package services_test

import (
	"errors"
	"strings"
	"testing"

	"coursegen/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscription, "transcribe", "extract-audio", "ffmpeg failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcribe", "extract-audio", "ffmpeg failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransientMarker(t *testing.T) {
	err := services.Wrap(nil, "compose", "persist", "write failed", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected nil marker to fall back to transient, got %v", err)
	}
}

func TestIsNonFatal(t *testing.T) {
	sampling := services.Wrap(services.ErrFrameSampling, "sample", "open", "unreadable source", nil)
	if !services.IsNonFatal(sampling) {
		t.Fatalf("expected sampling failure to be non-fatal: %v", sampling)
	}

	for _, marker := range []error{
		services.ErrUploadValidation,
		services.ErrTranscription,
		services.ErrCourseGeneration,
		services.ErrConfiguration,
		services.ErrTransient,
	} {
		err := services.Wrap(marker, "stage", "op", "failed", nil)
		if services.IsNonFatal(err) {
			t.Fatalf("expected %v to be fatal", marker)
		}
	}
	if services.IsNonFatal(nil) {
		t.Fatal("nil error must not be non-fatal")
	}
}
