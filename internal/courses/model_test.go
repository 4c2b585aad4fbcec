package courses

import "testing"

func validCourse() *Course {
	return &Course{
		Title:       "Sample Course",
		Description: "A short course",
		Sections: []Section{
			{
				Title: "Content",
				Type:  SectionContent,
				Scenes: []Scene{
					{
						SceneType: SceneIntroduction,
						Narration: "Welcome.",
						VisualElements: []VisualElement{
							NewAvatar(Avatar{Position: Named("center"), Emotion: "neutral"}),
						},
					},
					{
						SceneType: SceneContent,
						Narration: "Details.",
					},
				},
			},
			{
				Title: "Quiz",
				Type:  SectionQuiz,
				Questions: []Question{
					{
						Question:      "Pick one",
						Options:       map[string]string{"A": "first", "B": "second"},
						CorrectAnswer: "B",
					},
				},
			},
		},
	}
}

func TestCourseValidateAcceptsWellFormedCourse(t *testing.T) {
	if err := validCourse().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestCourseValidateRejectsMissingPieces(t *testing.T) {
	noTitle := validCourse()
	noTitle.Title = "  "
	if err := noTitle.Validate(); err == nil {
		t.Error("expected error for empty title")
	}

	noSections := validCourse()
	noSections.Sections = nil
	if err := noSections.Validate(); err == nil {
		t.Error("expected error for empty sections")
	}

	emptyContent := validCourse()
	emptyContent.Sections[0].Scenes = nil
	if err := emptyContent.Validate(); err == nil {
		t.Error("expected error for content section without scenes or blocks")
	}

	emptyQuiz := validCourse()
	emptyQuiz.Sections[1].Questions = nil
	if err := emptyQuiz.Validate(); err == nil {
		t.Error("expected error for quiz section without questions")
	}

	badSectionType := validCourse()
	badSectionType.Sections[0].Type = "interlude"
	if err := badSectionType.Validate(); err == nil {
		t.Error("expected error for unknown section type")
	}
}

func TestSceneSnapshotRequiresPrimaryImageFirst(t *testing.T) {
	course := validCourse()
	scene := &course.Sections[0].Scenes[0]
	scene.VideoSnapshot = &SnapshotRef{Timestamp: 12.5, FrameIndex: 375}
	if err := course.Validate(); err == nil {
		t.Fatal("expected error when snapshot set without primary image")
	}

	scene.VisualElements = append([]VisualElement{
		NewImage(Image{Position: Named("full"), ImageData: "data:image/jpeg;base64,QUJD", Primary: true}),
	}, scene.VisualElements...)
	if err := course.Validate(); err != nil {
		t.Fatalf("Validate with primary image: %v", err)
	}
}

func TestQuestionValidate(t *testing.T) {
	base := Question{
		Question:      "Pick",
		Options:       map[string]string{"A": "x", "B": "y"},
		CorrectAnswer: "A",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	missingAnswer := base
	missingAnswer.CorrectAnswer = "D"
	if err := missingAnswer.Validate(); err == nil {
		t.Error("expected error for answer outside options")
	}

	badKey := base
	badKey.Options = map[string]string{"A": "x", "Z": "y"}
	if err := badKey.Validate(); err == nil {
		t.Error("expected error for option key outside A-D")
	}

	empty := base
	empty.Options = nil
	if err := empty.Validate(); err == nil {
		t.Error("expected error for question without options")
	}
}

func TestSceneCount(t *testing.T) {
	if got := validCourse().SceneCount(); got != 2 {
		t.Errorf("SceneCount = %d, want 2", got)
	}
}
