package frames

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"github.com/disintegration/imaging"

	"coursegen/internal/logging"
	"coursegen/internal/services"
)

// Snapshot is a single sampled frame, re-encoded and carried inline.
type Snapshot struct {
	Timestamp   float64 `json:"timestamp"`
	FrameIndex  int     `json:"frame_index"`
	ImageData   string  `json:"image_data"`
	Description string  `json:"description"`
}

// Decoder provides random access to a video's frames.
type Decoder interface {
	FrameCount() int
	FrameRate() float64
	DecodeFrame(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// OpenDecoderFunc opens a Decoder for a video path.
type OpenDecoderFunc func(ctx context.Context, path string) (Decoder, error)

// Sampler extracts evenly spaced snapshots from video files.
type Sampler struct {
	open    OpenDecoderFunc
	width   int
	height  int
	quality int
	logger  *slog.Logger
}

// SamplerConfig controls the output canvas and encoding quality.
type SamplerConfig struct {
	Width       int
	Height      int
	JPEGQuality int
}

// NewSampler builds a sampler around the provided decoder opener.
func NewSampler(open OpenDecoderFunc, cfg SamplerConfig, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 80
	}
	return &Sampler{
		open:    open,
		width:   cfg.Width,
		height:  cfg.Height,
		quality: cfg.JPEGQuality,
		logger:  logger,
	}
}

// Sample extracts up to count snapshots spread across the middle 80% of the
// video. Timestamps in the result are strictly ascending. Errors returned
// here wrap services.ErrFrameSampling and callers are expected to treat them
// as recoverable.
func (s *Sampler) Sample(ctx context.Context, path string, count int) ([]Snapshot, error) {
	if count <= 0 {
		return nil, nil
	}
	decoder, err := s.open(ctx, path)
	if err != nil {
		return nil, services.Wrap(services.ErrFrameSampling, "sample", "open", "open video for sampling", err)
	}
	defer func() {
		if cerr := decoder.Close(); cerr != nil {
			s.logger.Warn("failed to close frame decoder", logging.Error(cerr))
		}
	}()

	frameCount := decoder.FrameCount()
	rate := decoder.FrameRate()
	if frameCount <= 0 || rate <= 0 {
		return nil, services.Wrap(services.ErrFrameSampling, "sample", "probe", fmt.Sprintf("video reports %d frames at %.2f fps", frameCount, rate), nil)
	}
	duration := float64(frameCount) / rate

	snapshots := make([]Snapshot, 0, count)
	for _, ts := range SampleTimes(duration, count) {
		index := int(ts * rate)
		if index >= frameCount {
			index = frameCount - 1
		}
		frame, err := decoder.DecodeFrame(ctx, index)
		if err != nil {
			s.logger.Warn("skipping undecodable frame",
				logging.Int("frame_index", index),
				logging.Float64("timestamp", ts),
				logging.Error(err))
			continue
		}
		data, err := s.encode(frame)
		if err != nil {
			s.logger.Warn("skipping unencodable frame",
				logging.Int("frame_index", index),
				logging.Error(err))
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Timestamp:   ts,
			FrameIndex:  index,
			ImageData:   data,
			Description: fmt.Sprintf("Video frame at %.1fs", ts),
		})
	}
	return snapshots, nil
}

// SampleTimes returns count timestamps evenly spaced across the middle 80%
// of a duration. A single sample lands at the midpoint.
func SampleTimes(duration float64, count int) []float64 {
	if duration <= 0 || count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{duration * 0.5}
	}
	start := duration * 0.1
	end := duration * 0.9
	step := (end - start) / float64(count-1)
	times := make([]float64, count)
	for i := range times {
		times[i] = start + float64(i)*step
	}
	return times
}

func (s *Sampler) encode(frame image.Image) (string, error) {
	fitted := imaging.Fit(frame, s.width, s.height, imaging.Lanczos)
	canvas := imaging.New(s.width, s.height, image.Black)
	canvas = imaging.PasteCenter(canvas, fitted)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: s.quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
