package scenes

import (
	"math/rand/v2"
	"testing"

	"coursegen/internal/courses"
	"coursegen/internal/media/frames"
)

func testSnapshots(count int, spacing float64) []frames.Snapshot {
	snaps := make([]frames.Snapshot, count)
	for i := range snaps {
		snaps[i] = frames.Snapshot{
			Timestamp:  float64(i) * spacing,
			FrameIndex: i * 30,
			ImageData:  "data:image/jpeg;base64,Zm9v",
		}
	}
	return snaps
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestPickIsDeterministicForFixedSeed(t *testing.T) {
	snaps := testSnapshots(10, 12)
	engineA := NewEngine(newRand(7))
	engineB := NewEngine(newRand(7))
	for i := 0; i < 8; i++ {
		a, okA := engineA.Pick(snaps, i, 8)
		b, okB := engineB.Pick(snaps, i, 8)
		if !okA || !okB {
			t.Fatalf("expected a snapshot for scene %d", i)
		}
		if a.FrameIndex != b.FrameIndex {
			t.Fatalf("scene %d diverged across identical seeds: %d vs %d", i, a.FrameIndex, b.FrameIndex)
		}
	}
}

func TestPickTrendsForwardWithSceneIndex(t *testing.T) {
	snaps := testSnapshots(20, 10)
	const scenes = 6
	sums := make([]float64, scenes)
	const trials = 500
	for seed := uint64(0); seed < trials; seed++ {
		engine := NewEngine(newRand(seed))
		for i := 0; i < scenes; i++ {
			snap, ok := engine.Pick(snaps, i, scenes)
			if !ok {
				t.Fatal("expected a snapshot")
			}
			sums[i] += snap.Timestamp
		}
	}
	for i := 1; i < scenes; i++ {
		if sums[i] <= sums[i-1] {
			t.Fatalf("mean timestamp should grow with scene index: %v", sums)
		}
	}
}

func TestPickEmptySnapshots(t *testing.T) {
	engine := NewEngine(newRand(1))
	if _, ok := engine.Pick(nil, 0, 4); ok {
		t.Fatal("expected no snapshot from an empty set")
	}
}

func TestPickSingleSceneTargetsMidpoint(t *testing.T) {
	snaps := testSnapshots(11, 10) // timestamps 0..100
	hits := map[int]int{}
	for seed := uint64(0); seed < 200; seed++ {
		engine := NewEngine(newRand(seed))
		snap, _ := engine.Pick(snaps, 0, 1)
		hits[snap.FrameIndex]++
	}
	// Midpoint of the timeline is 50s; the closest-match path always picks
	// index 5 and the variety path stays within the 30s window around it.
	for frameIndex := range hits {
		ts := snaps[frameIndex/30].Timestamp
		if ts < 20 || ts > 80 {
			t.Fatalf("single-scene pick strayed outside midpoint window: %v", ts)
		}
	}
}

type stubSynth struct{}

func (stubSynth) Compose(string) []courses.VisualElement {
	return []courses.VisualElement{
		courses.NewAvatar(courses.Avatar{Position: courses.Named("left"), Emotion: "neutral"}),
	}
}

func TestDecorateAttachesPrimaryImageFirst(t *testing.T) {
	course := &courses.Course{
		Title: "Intro to Signals",
		Sections: []courses.Section{
			{
				Title: "Basics",
				Type:  courses.SectionContent,
				Scenes: []courses.Scene{
					{SceneType: courses.SceneIntroduction, Narration: "Welcome to the course."},
					{SceneType: courses.SceneContent, Narration: "Sampling turns waves into numbers."},
				},
			},
		},
	}
	snaps := testSnapshots(6, 15)
	engine := NewEngine(newRand(3))
	engine.Decorate(course, snaps, stubSynth{})

	for _, section := range course.Sections {
		for _, scene := range section.Scenes {
			if scene.VideoSnapshot == nil {
				t.Fatal("every scene should receive a snapshot when the set is non-empty")
			}
			if len(scene.VisualElements) < 2 {
				t.Fatalf("expected primary image plus synthesized elements, got %d", len(scene.VisualElements))
			}
			first := scene.VisualElements[0]
			if first.Image == nil || !first.Image.Primary {
				t.Fatal("first element must be the primary snapshot image")
			}
		}
	}
	if err := course.Validate(); err != nil {
		t.Fatalf("decorated course should validate: %v", err)
	}
}

func TestDecorateWithoutSnapshots(t *testing.T) {
	course := &courses.Course{
		Title: "Intro",
		Sections: []courses.Section{
			{
				Title:  "Only",
				Type:   courses.SectionContent,
				Scenes: []courses.Scene{{SceneType: courses.SceneContent, Narration: "No frames here."}},
			},
		},
	}
	engine := NewEngine(newRand(9))
	engine.Decorate(course, nil, stubSynth{})

	scene := course.Sections[0].Scenes[0]
	if scene.VideoSnapshot != nil {
		t.Fatal("no snapshot should be attached when the set is empty")
	}
	if len(scene.VisualElements) != 1 {
		t.Fatalf("expected only synthesized elements, got %d", len(scene.VisualElements))
	}
}
