// Package transcribe extracts a video's soundtrack with ffmpeg and sends it
// to a speech-to-text service. All failures here surface as transcription
// errors and fail the owning job.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"coursegen/internal/logging"
	"coursegen/internal/services"
)

const defaultHTTPTimeout = 300 * time.Second

// Config captures the settings required to transcribe a video.
type Config struct {
	FFmpegBinary   string
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Service turns video files into transcript text.
type Service struct {
	cfg        Config
	httpClient *http.Client
	run        func(ctx context.Context, name string, args ...string) error
	logger     *slog.Logger
}

// Option customizes the service.
type Option func(*Service)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithRunner overrides how external commands are executed (useful for tests).
func WithRunner(run func(ctx context.Context, name string, args ...string) error) Option {
	return func(s *Service) {
		if run != nil {
			s.run = run
		}
	}
}

// NewService constructs a transcription service.
func NewService(cfg Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.FFmpegBinary = strings.TrimSpace(cfg.FFmpegBinary)
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "whisper-1"
	}
	service := &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	service.run = service.runCommand
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Transcribe extracts the soundtrack of the video at path and returns its
// transcript text.
func (s *Service) Transcribe(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "validate", "empty video path", nil)
	}

	workDir, err := os.MkdirTemp("", "coursegen-audio-")
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "workdir", "create temporary audio directory", err)
	}
	defer os.RemoveAll(workDir)

	audioPath := filepath.Join(workDir, "audio.wav")
	if err := s.extractAudio(ctx, path, audioPath); err != nil {
		return "", err
	}

	start := time.Now()
	transcript, err := s.requestTranscription(ctx, audioPath)
	if err != nil {
		return "", err
	}
	s.logger.Debug("transcription complete",
		logging.String("source", path),
		logging.Int("transcript_chars", len(transcript)),
		logging.Duration("elapsed", time.Since(start)))
	return transcript, nil
}

func (s *Service) extractAudio(ctx context.Context, source, destination string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		destination,
	}
	if err := s.run(ctx, s.cfg.FFmpegBinary, args...); err != nil {
		return services.Wrap(services.ErrTranscription, "transcribe", "extract audio", "failed to extract soundtrack with ffmpeg", err)
	}
	return nil
}

func (s *Service) requestTranscription(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "open audio", "open extracted soundtrack", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "build multipart form", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "copy audio into form", err)
	}
	if err := form.WriteField("model", s.cfg.Model); err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "write model field", err)
	}
	if err := form.Close(); err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "finalize multipart form", err)
	}

	endpoint := s.cfg.BaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "build transcription request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "speech-to-text request failed", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", "read speech-to-text response", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("speech-to-text returned http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
		return "", services.Wrap(services.ErrTranscription, "transcribe", "request", detail, nil)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "parse", "decode speech-to-text response", err)
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return "", services.Wrap(services.ErrTranscription, "transcribe", "parse", "speech-to-text returned an empty transcript", nil)
	}
	return parsed.Text, nil
}

func (s *Service) runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
