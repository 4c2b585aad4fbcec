package ffprobe

import (
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", AvgFrameRate: "30000/1001", NBFrames: "3600"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if math.Abs(result.FrameRate()-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate: %v", result.FrameRate())
	}
	if result.FrameCount() != 3600 {
		t.Fatalf("unexpected frame count: %d", result.FrameCount())
	}
}

func TestFrameRateFallsBackToRFrameRate(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", AvgFrameRate: "0/0", RFrameRate: "25/1"},
		},
	}
	if result.FrameRate() != 25 {
		t.Fatalf("unexpected frame rate: %v", result.FrameRate())
	}
}

func TestFrameCountDerivedFromDuration(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", AvgFrameRate: "30/1"},
		},
		Format: Format{Duration: "120"},
	}
	if result.FrameCount() != 3600 {
		t.Fatalf("unexpected derived frame count: %d", result.FrameCount())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.FrameRate() != 0 {
		t.Fatalf("expected frame rate 0, got %v", result.FrameRate())
	}
}
