package frames

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os/exec"
	"strings"

	"coursegen/internal/media/ffprobe"
)

// ffmpegDecoder decodes individual frames by seeking with ffmpeg and piping
// a single MJPEG frame over stdout. Seek accuracy at this granularity is
// sufficient for snapshot sampling.
type ffmpegDecoder struct {
	binary     string
	path       string
	frameCount int
	frameRate  float64
}

// NewFFmpegOpener returns an OpenDecoderFunc backed by ffprobe and ffmpeg.
// Empty binary names fall back to PATH lookup.
func NewFFmpegOpener(ffmpegBinary, ffprobeBinary string) OpenDecoderFunc {
	return func(ctx context.Context, path string) (Decoder, error) {
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, errors.New("open decoder: empty path")
		}
		probe, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
		if err != nil {
			return nil, err
		}
		if probe.VideoStreamCount() == 0 {
			return nil, fmt.Errorf("open decoder: %s has no video stream", path)
		}
		binary := strings.TrimSpace(ffmpegBinary)
		if binary == "" {
			binary = "ffmpeg"
		}
		return &ffmpegDecoder{
			binary:     binary,
			path:       path,
			frameCount: probe.FrameCount(),
			frameRate:  probe.FrameRate(),
		}, nil
	}
}

func (d *ffmpegDecoder) FrameCount() int { return d.frameCount }

func (d *ffmpegDecoder) FrameRate() float64 { return d.frameRate }

func (d *ffmpegDecoder) DecodeFrame(ctx context.Context, index int) (image.Image, error) {
	if index < 0 || index >= d.frameCount {
		return nil, fmt.Errorf("decode frame: index %d out of range [0,%d)", index, d.frameCount)
	}
	if d.frameRate <= 0 {
		return nil, fmt.Errorf("decode frame: unknown frame rate for %s", d.path)
	}
	seek := float64(index) / d.frameRate

	args := []string{
		"-v", "error",
		"-ss", fmt.Sprintf("%.3f", seek),
		"-i", d.path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"-",
	}
	cmd := exec.CommandContext(ctx, d.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode frame %d: %w: %s", index, err, strings.TrimSpace(stderr.String()))
	}
	frame, err := jpeg.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode frame %d output: %w", index, err)
	}
	return frame, nil
}

func (d *ffmpegDecoder) Close() error { return nil }
