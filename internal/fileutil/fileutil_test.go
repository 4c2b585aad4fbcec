package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestWriteStreamCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "file.bin")
	if err := WriteStream(path, strings.NewReader("payload")); err != nil {
		t.Fatalf("WriteStream: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteStreamRemovesPartialFileOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.bin")
	if err := WriteStream(path, failingReader{}); err == nil {
		t.Fatal("expected error from failing reader")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("partial file should be removed, stat err = %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	if err := os.WriteFile(src, []byte("copy me"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	dst := filepath.Join(dir, "out", "dst.bin")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "copy me" {
		t.Errorf("content = %q", data)
	}
}
