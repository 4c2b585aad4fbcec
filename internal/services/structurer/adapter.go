// Package structurer turns a transcript into a validated course document via
// a text-generation service. Its job is prompt construction and defensive
// deserialization only; it never fabricates course content itself.
package structurer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"coursegen/internal/courses"
	"coursegen/internal/jobs"
	"coursegen/internal/logging"
	"coursegen/internal/services"
)

// Generator is the text-generation dependency.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GenerationError reports an unusable generation response. Raw carries the
// full response body for diagnostics.
type GenerationError struct {
	Raw    string
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("course generation: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return services.ErrCourseGeneration
}

// Adapter builds prompts and parses generation responses into courses.
type Adapter struct {
	gen    Generator
	logger *slog.Logger
}

// New constructs an adapter around the generator.
func New(gen Generator, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Adapter{gen: gen, logger: logger}
}

// GenerateCourse produces a validated course for the transcript. Mode
// selects the style directive. Parsing tries the response verbatim, then
// once more with code-fence markers stripped; anything still unparseable,
// and any course failing validation, surfaces as a GenerationError.
func (a *Adapter) GenerateCourse(ctx context.Context, title, transcript string, mode jobs.Mode) (*courses.Course, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, services.Wrap(services.ErrCourseGeneration, "compose", "prompt", "empty transcript", nil)
	}

	system := systemPrompt
	if mode == jobs.ModeFull {
		system += fullDirective
	} else {
		system += conciseDirective
	}
	user := fmt.Sprintf("Video Title: %s\n\nTranscript: %s", title, transcript)

	content, err := a.gen.Complete(ctx, system, user)
	if err != nil {
		return nil, services.Wrap(services.ErrCourseGeneration, "compose", "complete", "text generation request failed", err)
	}

	course, err := parseCourse(content)
	if err != nil {
		a.logger.Error("unparseable generation response",
			logging.String(logging.FieldStage, "compose"),
			logging.Error(err))
		return nil, err
	}
	if err := course.Validate(); err != nil {
		return nil, &GenerationError{Raw: content, Reason: fmt.Sprintf("generated course failed validation: %v", err)}
	}
	return course, nil
}

func parseCourse(content string) (*courses.Course, error) {
	var course courses.Course
	if err := json.Unmarshal([]byte(content), &course); err == nil {
		return &course, nil
	}

	repaired := stripCodeFence(content)
	if err := json.Unmarshal([]byte(repaired), &course); err != nil {
		return nil, &GenerationError{Raw: content, Reason: fmt.Sprintf("response is not valid JSON after code-fence repair: %v", err)}
	}
	return &course, nil
}

// stripCodeFence removes a single leading ```json marker and trailing ```
// marker, the common wrapping artifact of generation services.
func stripCodeFence(content string) string {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
