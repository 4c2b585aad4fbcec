package visuals

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"coursegen/internal/courses"
)

// tone classifies narration into one of three avatar styling buckets.
type tone int

const (
	toneNeutral tone = iota
	toneQuestioning
	toneExplaining
)

// bucket holds the discrete choice sets for one avatar tone.
type bucket struct {
	emotions  []string
	hair      []string
	shirts    []string
	positions []string
	styles    []string
}

var buckets = map[tone]bucket{
	toneQuestioning: {
		emotions:  []string{"thoughtful", "serious"},
		hair:      []string{"#4a3728", "#1c1c1c"},
		shirts:    []string{"#3b6ea5", "#6b4f9e"},
		positions: []string{"left", "center"},
		styles:    []string{"professional", "technical"},
	},
	toneExplaining: {
		emotions:  []string{"happy", "serious"},
		hair:      []string{"#8b5a2b", "#2f2f2f"},
		shirts:    []string{"#b2432f", "#2e7d4f"},
		positions: []string{"center", "right"},
		styles:    []string{"professional", "casual"},
	},
	toneNeutral: {
		emotions:  []string{"neutral", "happy"},
		hair:      []string{"#5b4636", "#3d3d3d"},
		shirts:    []string{"#46627f", "#607d5b"},
		positions: []string{"left", "right"},
		styles:    []string{"casual", "professional"},
	},
}

// altAvatarPositions are the fixed placements for a rare second presenter.
var altAvatarPositions = []courses.Position{
	{X: 0.1, Y: 0.75},
	{X: 0.9, Y: 0.75},
	{X: 0.1, Y: 0.25},
	{X: 0.9, Y: 0.25},
}

var calloutPhrases = []string{"Key Points", "Important", "Note", "Remember", "Focus"}

var (
	interrogativeRe = regexp.MustCompile(`(?i)\b(what|how|why|when|where)\b`)
	explanatoryRe   = regexp.MustCompile(`(?i)\b(explain|show|demonstrate|illustrate)\b`)
	importanceRe    = regexp.MustCompile(`(?i)\b(important|key|main|primary|essential)\b`)
	processRe       = regexp.MustCompile(`(?i)\b(step|process|method|way|approach)\b`)
	comparisonRe    = regexp.MustCompile(`(?i)\b(compare|versus|vs|different|similar)\b`)
	digitRe         = regexp.MustCompile(`[0-9]`)
)

// Synthesizer generates visual elements for scene narration.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer builds a synthesizer around the provided random source.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// Compose returns the visual elements for a narration. The first element is
// always a presenter avatar; the rest are probabilistic extras.
func (s *Synthesizer) Compose(narration string) []courses.VisualElement {
	narrationTone := classify(narration)
	elements := []courses.VisualElement{s.avatar(narrationTone)}

	if digitRe.MatchString(narration) && s.chance(0.3) {
		elements = append(elements, s.numberHighlight())
	}
	if (narrationTone == toneExplaining || importanceRe.MatchString(narration)) && s.chance(0.3) {
		elements = append(elements, s.arrow())
	}
	if wordCount(narration) > 10 && s.chance(0.3) {
		elements = append(elements, s.callout())
	}
	if processRe.MatchString(narration) && s.chance(0.4) {
		elements = append(elements, s.stepIndicator())
	}
	if comparisonRe.MatchString(narration) && s.chance(0.3) {
		elements = append(elements, s.comparisonIndicator())
	}
	if s.chance(0.1) {
		elements = append(elements, s.secondAvatar(narrationTone))
	}
	return elements
}

func classify(narration string) tone {
	switch {
	case strings.Contains(narration, "?") || interrogativeRe.MatchString(narration):
		return toneQuestioning
	case strings.Contains(narration, "!") || explanatoryRe.MatchString(narration):
		return toneExplaining
	default:
		return toneNeutral
	}
}

func (s *Synthesizer) chance(p float64) bool {
	return s.rng.Float64() < p
}

func (s *Synthesizer) pick(values []string) string {
	return values[s.rng.IntN(len(values))]
}

func (s *Synthesizer) avatar(narrationTone tone) courses.VisualElement {
	b := buckets[narrationTone]
	return courses.NewAvatar(courses.Avatar{
		Position:   courses.Named(s.pick(b.positions)),
		Emotion:    s.pick(b.emotions),
		HairColor:  s.pick(b.hair),
		ShirtColor: s.pick(b.shirts),
		Style:      s.pick(b.styles),
	})
}

func (s *Synthesizer) secondAvatar(narrationTone tone) courses.VisualElement {
	b := buckets[narrationTone]
	return courses.NewAvatar(courses.Avatar{
		Position:   altAvatarPositions[s.rng.IntN(len(altAvatarPositions))],
		Emotion:    s.pick(b.emotions),
		HairColor:  s.pick(b.hair),
		ShirtColor: s.pick(b.shirts),
		Style:      s.pick(b.styles),
	})
}

func (s *Synthesizer) numberHighlight() courses.VisualElement {
	return courses.NewShape(courses.Shape{
		Position:  courses.At(s.between(0.2, 0.8), s.between(0.3, 0.7)),
		ShapeType: "rectangle",
		Width:     s.between(0.15, 0.3),
		Height:    s.between(0.08, 0.15),
		Color:     s.pick([]string{"#ffd54f", "#ffb74d"}),
		Purpose:   "highlight",
	})
}

func (s *Synthesizer) arrow() courses.VisualElement {
	return courses.NewShape(courses.Shape{
		Position:  courses.At(s.between(0.2, 0.8), s.between(0.2, 0.8)),
		ShapeType: "arrow",
		Width:     s.between(0.1, 0.25),
		Height:    s.between(0.04, 0.08),
		Color:     s.pick([]string{"#e53935", "#1e88e5"}),
		Purpose:   "highlight",
	})
}

func (s *Synthesizer) callout() courses.VisualElement {
	return courses.NewText(courses.Text{
		Position: courses.Named(s.pick([]string{"top", "bottom"})),
		Content:  calloutPhrases[s.rng.IntN(len(calloutPhrases))],
		FontSize: s.between(18, 28),
		Color:    s.pick([]string{"#ffffff", "#ffeb3b"}),
		Style:    "heading",
	})
}

func (s *Synthesizer) stepIndicator() courses.VisualElement {
	diameter := s.between(0.06, 0.12)
	return courses.NewShape(courses.Shape{
		Position:  courses.At(s.between(0.1, 0.9), s.between(0.7, 0.9)),
		ShapeType: "circle",
		Width:     diameter,
		Height:    diameter,
		Color:     s.pick([]string{"#4caf50", "#26a69a"}),
		Purpose:   "connect",
	})
}

func (s *Synthesizer) comparisonIndicator() courses.VisualElement {
	return courses.NewShape(courses.Shape{
		Position:  courses.At(s.between(0.25, 0.75), s.between(0.3, 0.7)),
		ShapeType: "rectangle",
		Width:     s.between(0.3, 0.45),
		Height:    s.between(0.2, 0.35),
		Color:     s.pick([]string{"#90caf9", "#ce93d8"}),
		Purpose:   "separate",
	})
}

func (s *Synthesizer) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func wordCount(narration string) int {
	return len(strings.Fields(narration))
}
