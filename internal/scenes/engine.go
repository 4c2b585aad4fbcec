package scenes

import (
	"math"
	"math/rand/v2"

	"coursegen/internal/courses"
	"coursegen/internal/media/frames"
)

const (
	// ratioJitter perturbs the per-scene target ratio so adjacent scenes
	// do not land on identical frames.
	ratioJitter = 0.1
	// windowSeconds bounds the candidate set for the variety pick.
	windowSeconds = 30.0
	// varietyProbability is the chance of picking uniformly within the
	// window instead of the closest snapshot.
	varietyProbability = 0.2
)

// Synthesizer produces decorative visual elements for a scene's narration.
type Synthesizer interface {
	Compose(narration string) []courses.VisualElement
}

// Engine assigns snapshots to scenes and decorates them with visuals.
type Engine struct {
	rng *rand.Rand
}

// NewEngine builds an engine around the provided random source.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Pick selects the snapshot for scene sceneIndex out of totalScenes. The
// second return is false when the snapshot set is empty.
func (e *Engine) Pick(snapshots []frames.Snapshot, sceneIndex, totalScenes int) (frames.Snapshot, bool) {
	if len(snapshots) == 0 {
		return frames.Snapshot{}, false
	}
	if len(snapshots) == 1 {
		return snapshots[0], true
	}

	ratio := 0.5
	if totalScenes > 1 {
		ratio = float64(sceneIndex)/float64(totalScenes-1) + (e.rng.Float64()*2-1)*ratioJitter
		ratio = math.Min(1, math.Max(0, ratio))
	}
	first := snapshots[0].Timestamp
	last := snapshots[len(snapshots)-1].Timestamp
	target := first + ratio*(last-first)

	if e.rng.Float64() < varietyProbability {
		if near := indicesWithin(snapshots, target, windowSeconds); len(near) > 0 {
			return snapshots[near[e.rng.IntN(len(near))]], true
		}
	}
	return snapshots[closestIndex(snapshots, target)], true
}

// Decorate walks every scene of the course in order, assigning snapshots and
// synthesizing visual elements. Scenes with an assigned snapshot carry it as
// a primary image element ahead of the synthesized ones. An empty snapshot
// set leaves scenes with synthesized elements only.
func (e *Engine) Decorate(course *courses.Course, snapshots []frames.Snapshot, synth Synthesizer) {
	total := course.SceneCount()
	index := 0
	for si := range course.Sections {
		section := &course.Sections[si]
		for ci := range section.Scenes {
			scene := &section.Scenes[ci]
			elements := synth.Compose(scene.Narration)
			if snap, ok := e.Pick(snapshots, index, total); ok {
				primary := courses.NewImage(courses.Image{
					Position:    courses.Named("full"),
					ImageData:   snap.ImageData,
					Description: snap.Description,
					Primary:     true,
				})
				elements = append([]courses.VisualElement{primary}, elements...)
				scene.VideoSnapshot = &courses.SnapshotRef{
					Timestamp:   snap.Timestamp,
					FrameIndex:  snap.FrameIndex,
					Description: snap.Description,
				}
			}
			scene.VisualElements = elements
			index++
		}
	}
}

func closestIndex(snapshots []frames.Snapshot, target float64) int {
	best := 0
	bestDiff := math.Abs(snapshots[0].Timestamp - target)
	for i := 1; i < len(snapshots); i++ {
		diff := math.Abs(snapshots[i].Timestamp - target)
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}

func indicesWithin(snapshots []frames.Snapshot, target, window float64) []int {
	var near []int
	for i, snap := range snapshots {
		if math.Abs(snap.Timestamp-target) <= window {
			near = append(near, i)
		}
	}
	return near
}
