package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUploadValidation = errors.New("upload validation error")
	ErrTranscription    = errors.New("transcription error")
	ErrFrameSampling    = errors.New("frame sampling failure")
	ErrCourseGeneration = errors.New("course generation error")
	ErrConfiguration    = errors.New("configuration error")
	ErrNotFound         = errors.New("not found")
	ErrTransient        = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsNonFatal reports whether a stage error degrades gracefully instead of
// failing the job. Frame sampling is the only non-fatal failure: downstream
// stages tolerate an empty snapshot set.
func IsNonFatal(err error) bool {
	return errors.Is(err, ErrFrameSampling)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
