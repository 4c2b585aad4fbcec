package textutil

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"lecture.mp4", "lecture.mp4"},
		{"my video.mp4", "my_video.mp4"},
		{"../../etc/passwd", "passwd"},
		{`c:\videos\talk.mov`, "talk.mov"},
		{"résumé.mp4", "r_sum_.mp4"},
		{"...", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.input); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"intro-to-go.mp4", "Intro To Go"},
		{"machine_learning_basics.mov", "Machine Learning Basics"},
		{"Lecture 01.avi", "Lecture 01"},
		{".mp4", "Untitled Video"},
	}
	for _, tc := range cases {
		if got := TitleFromFilename(tc.input); got != tc.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("a very long string value", 10); got != "a very ..." {
		t.Errorf("Truncate long = %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate tiny = %q", got)
	}
}
