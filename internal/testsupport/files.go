package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteVideoFile drops a placeholder video file at path. The content is not
// a decodable video; tests that need real decoding stub the decoder instead.
func WriteVideoFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("fake video payload"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
