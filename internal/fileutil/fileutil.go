// Package fileutil provides small filesystem helpers shared by the upload
// and media paths.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteStream writes src to path, creating parent directories as needed.
// A partial file is removed on failure so callers never observe truncated
// uploads.
func WriteStream(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// CopyFile streams src to dst with default permissions, using WriteStream's
// cleanup behavior.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return WriteStream(dst, in)
}
