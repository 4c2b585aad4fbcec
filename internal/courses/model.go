package courses

import (
	"fmt"
	"strings"
)

// Course is the structured output generated from a video transcript.
type Course struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Sections    []Section `json:"sections"`
	Metadata    Metadata  `json:"metadata"`
}

// Metadata carries generation-level annotations about a course.
type Metadata struct {
	Source                 string `json:"source,omitempty"`
	Difficulty             string `json:"difficulty,omitempty"`
	TargetAudience         string `json:"target_audience,omitempty"`
	EstimatedTotalDuration string `json:"estimated_total_duration,omitempty"`
}

// SectionType distinguishes narrated content sections from quizzes.
type SectionType string

const (
	SectionContent SectionType = "content"
	SectionQuiz    SectionType = "quiz"
)

// Section is one unit of a course: narrated scenes with optional supporting
// blocks, or a quiz with questions.
type Section struct {
	Title     string      `json:"title"`
	Type      SectionType `json:"type"`
	Duration  string      `json:"duration,omitempty"`
	Scenes    []Scene     `json:"scenes,omitempty"`
	Blocks    []Block     `json:"blocks,omitempty"`
	Questions []Question  `json:"questions,omitempty"`
}

// SceneType categorizes the role a scene plays within its section.
type SceneType string

const (
	SceneIntroduction SceneType = "introduction"
	SceneContent      SceneType = "content"
	SceneSummary      SceneType = "summary"
)

// Scene is one narrated unit of course content. When a video snapshot is
// assigned, VisualElements[0] is the primary image element derived from it
// and VideoSnapshot mirrors the frame metadata; the two must stay consistent.
type Scene struct {
	SceneType      SceneType       `json:"scene_type"`
	Narration      string          `json:"narration"`
	VisualElements []VisualElement `json:"visual_elements,omitempty"`
	VideoSnapshot  *SnapshotRef    `json:"video_snapshot,omitempty"`
}

// SnapshotRef records where in the source video a scene's frame came from.
type SnapshotRef struct {
	Timestamp   float64 `json:"timestamp"`
	FrameIndex  int     `json:"frame_index"`
	Description string  `json:"description,omitempty"`
}

// Question is a single multiple-choice quiz item.
type Question struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation,omitempty"`
}

var questionKeys = map[string]struct{}{"A": {}, "B": {}, "C": {}, "D": {}}

// Validate checks quiz integrity: the correct answer must be one of the keys
// present in the options map, and option keys stay within A-D.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question %q has no options", q.Question)
	}
	for key := range q.Options {
		if _, ok := questionKeys[key]; !ok {
			return fmt.Errorf("question %q has invalid option key %q", q.Question, key)
		}
	}
	if _, ok := q.Options[q.CorrectAnswer]; !ok {
		return fmt.Errorf("question %q correct answer %q is not among its options", q.Question, q.CorrectAnswer)
	}
	return nil
}

// Validate checks the course shape after deserialization. It is run wherever
// course data crosses into the system so malformed generated or submitted
// content is rejected before persistence.
func (c *Course) Validate() error {
	if c == nil {
		return fmt.Errorf("course is nil")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("course title is empty")
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("course has no sections")
	}
	for i, section := range c.Sections {
		if err := section.validate(); err != nil {
			return fmt.Errorf("section %d (%q): %w", i, section.Title, err)
		}
	}
	return nil
}

func (s Section) validate() error {
	switch s.Type {
	case SectionContent:
		if len(s.Scenes) == 0 && len(s.Blocks) == 0 {
			return fmt.Errorf("content section has no scenes or blocks")
		}
	case SectionQuiz:
		if len(s.Questions) == 0 {
			return fmt.Errorf("quiz section has no questions")
		}
	default:
		return fmt.Errorf("unknown section type %q", s.Type)
	}
	for i, scene := range s.Scenes {
		if err := scene.validate(); err != nil {
			return fmt.Errorf("scene %d: %w", i, err)
		}
	}
	for i, block := range s.Blocks {
		if err := block.Validate(); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	for i, question := range s.Questions {
		if err := question.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

func (sc Scene) validate() error {
	switch sc.SceneType {
	case SceneIntroduction, SceneContent, SceneSummary:
	default:
		return fmt.Errorf("unknown scene type %q", sc.SceneType)
	}
	for i, element := range sc.VisualElements {
		if err := element.Validate(); err != nil {
			return fmt.Errorf("visual element %d: %w", i, err)
		}
	}
	if sc.VideoSnapshot != nil {
		if len(sc.VisualElements) == 0 {
			return fmt.Errorf("video snapshot recorded without a primary image element")
		}
		primary := sc.VisualElements[0].Image
		if primary == nil || !primary.Primary {
			return fmt.Errorf("video snapshot requires visual element 0 to be the primary image")
		}
	}
	return nil
}

// SceneCount returns the total number of scenes across all sections.
func (c *Course) SceneCount() int {
	total := 0
	for _, section := range c.Sections {
		total += len(section.Scenes)
	}
	return total
}
