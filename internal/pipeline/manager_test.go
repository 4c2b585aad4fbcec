package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"coursegen/internal/config"
	"coursegen/internal/courses"
	"coursegen/internal/jobs"
	"coursegen/internal/media/frames"
	"coursegen/internal/services"
	"coursegen/internal/testsupport"
)

type fakeTranscriber struct {
	transcript string
	err        error
}

func (f fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	return f.transcript, f.err
}

type fakeSampler struct {
	snapshots []frames.Snapshot
	err       error
}

func (f fakeSampler) Sample(context.Context, string, int) ([]frames.Snapshot, error) {
	return f.snapshots, f.err
}

type fakeBuilder struct {
	course *courses.Course
	err    error
}

func (f fakeBuilder) GenerateCourse(context.Context, string, string, jobs.Mode) (*courses.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	clone := *f.course
	clone.Sections = append([]courses.Section(nil), f.course.Sections...)
	for i := range clone.Sections {
		clone.Sections[i].Scenes = append([]courses.Scene(nil), f.course.Sections[i].Scenes...)
	}
	return &clone, nil
}

func testCourse() *courses.Course {
	return &courses.Course{
		Title:       "Generated Course",
		Description: "From transcript.",
		Sections: []courses.Section{
			{
				Title: "Content",
				Type:  courses.SectionContent,
				Scenes: []courses.Scene{
					{SceneType: courses.SceneIntroduction, Narration: "Welcome."},
					{SceneType: courses.SceneContent, Narration: "The main idea."},
				},
			},
			{
				Title: "Quiz",
				Type:  courses.SectionQuiz,
				Questions: []courses.Question{
					{
						Question:      "What was the main idea?",
						Options:       map[string]string{"A": "This", "B": "That", "C": "Other", "D": "None"},
						CorrectAnswer: "A",
						Explanation:   "It was this.",
					},
				},
			},
		},
	}
}

func testSnapshots() []frames.Snapshot {
	snaps := make([]frames.Snapshot, 10)
	for i := range snaps {
		snaps[i] = frames.Snapshot{
			Timestamp:  12 + float64(i)*10.67,
			FrameIndex: i * 320,
			ImageData:  "data:image/jpeg;base64,Zm9v",
		}
	}
	return snaps
}

type managerFixture struct {
	cfg         *config.Config
	store       *jobs.Store
	courseStore *courses.Store
	manager     *Manager
}

func newFixture(t *testing.T, transcriber Transcriber, sampler FrameSampler, builder CourseBuilder) *managerFixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(2))
	store := testsupport.MustOpenStore(t, cfg)
	courseStore := courses.NewStore(store.DB())
	manager := NewManager(cfg, store, courseStore, nil, transcriber, sampler, builder,
		WithPollInterval(10*time.Millisecond),
		WithRandSource(func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }))
	return &managerFixture{cfg: cfg, store: store, courseStore: courseStore, manager: manager}
}

func (f *managerFixture) waitForTerminal(t *testing.T, id string) *jobs.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := f.store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if job != nil && job.Status.IsTerminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal status")
	return nil
}

func TestManagerProcessesJobToCompletion(t *testing.T) {
	fixture := newFixture(t,
		fakeTranscriber{transcript: "the full lecture text"},
		fakeSampler{snapshots: testSnapshots()},
		fakeBuilder{course: testCourse()})
	job := testsupport.NewJob(t, fixture.store, "Lecture", "/videos/lecture.mp4", jobs.ModeConcise)

	if err := fixture.manager.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer fixture.manager.Stop()

	done := fixture.waitForTerminal(t, job.ID)
	if done.Status != jobs.StatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", done.Status, done.ErrorMessage)
	}
	if done.CourseID == "" {
		t.Fatal("completed job must carry a course id")
	}
	if done.Transcript != "the full lecture text" {
		t.Fatalf("transcript not persisted: %q", done.Transcript)
	}
	if !strings.Contains(done.SnapshotsJSON, "frame_index") {
		t.Fatalf("snapshots not persisted: %q", done.SnapshotsJSON)
	}

	course, err := fixture.courseStore.Get(context.Background(), done.CourseID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	for _, section := range course.Sections {
		for _, scene := range section.Scenes {
			if scene.VideoSnapshot == nil {
				t.Fatal("decorated scenes should carry snapshots")
			}
			if len(scene.VisualElements) == 0 || scene.VisualElements[0].Image == nil {
				t.Fatal("decorated scenes should lead with the primary image")
			}
		}
	}
}

func TestManagerTranscriptionFailureFailsJob(t *testing.T) {
	fixture := newFixture(t,
		fakeTranscriber{err: services.Wrap(services.ErrTranscription, "transcribe", "request", "speech-to-text unreachable", errors.New("dial tcp"))},
		fakeSampler{snapshots: testSnapshots()},
		fakeBuilder{course: testCourse()})
	job := testsupport.NewJob(t, fixture.store, "Lecture", "/videos/lecture.mp4", jobs.ModeConcise)

	if err := fixture.manager.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer fixture.manager.Stop()

	done := fixture.waitForTerminal(t, job.ID)
	if done.Status != jobs.StatusError {
		t.Fatalf("expected error status, got %s", done.Status)
	}
	if done.ErrorMessage == "" {
		t.Fatal("failed job must carry an error message")
	}
	if done.CourseID != "" {
		t.Fatalf("failed job must not carry a course id, got %q", done.CourseID)
	}
}

func TestManagerFrameSamplingFailureIsNonFatal(t *testing.T) {
	fixture := newFixture(t,
		fakeTranscriber{transcript: "text"},
		fakeSampler{err: services.Wrap(services.ErrFrameSampling, "sample", "open", "unreadable container", errors.New("bad header"))},
		fakeBuilder{course: testCourse()})
	job := testsupport.NewJob(t, fixture.store, "Lecture", "/videos/lecture.mp4", jobs.ModeFull)

	if err := fixture.manager.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer fixture.manager.Stop()

	done := fixture.waitForTerminal(t, job.ID)
	if done.Status != jobs.StatusCompleted {
		t.Fatalf("sampling failure must not fail the job, got %s (%s)", done.Status, done.ErrorMessage)
	}

	course, err := fixture.courseStore.Get(context.Background(), done.CourseID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	for _, section := range course.Sections {
		for _, scene := range section.Scenes {
			if scene.VideoSnapshot != nil {
				t.Fatal("no snapshots should be attached when sampling failed")
			}
		}
	}
}

func TestManagerCourseGenerationFailureFailsJob(t *testing.T) {
	fixture := newFixture(t,
		fakeTranscriber{transcript: "text"},
		fakeSampler{snapshots: testSnapshots()},
		fakeBuilder{err: services.Wrap(services.ErrCourseGeneration, "compose", "complete", "unparseable response", nil)})
	job := testsupport.NewJob(t, fixture.store, "Lecture", "/videos/lecture.mp4", jobs.ModeConcise)

	if err := fixture.manager.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer fixture.manager.Stop()

	done := fixture.waitForTerminal(t, job.ID)
	if done.Status != jobs.StatusError {
		t.Fatalf("expected error status, got %s", done.Status)
	}
	if !strings.Contains(done.ErrorMessage, "unparseable response") {
		t.Fatalf("error message should carry the cause: %q", done.ErrorMessage)
	}
}

func TestManagerStartTwiceFails(t *testing.T) {
	fixture := newFixture(t, fakeTranscriber{transcript: "t"}, fakeSampler{}, fakeBuilder{course: testCourse()})
	if err := fixture.manager.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer fixture.manager.Stop()
	if err := fixture.manager.Start(context.Background()); err == nil {
		t.Fatal("second start must fail while running")
	}
}
