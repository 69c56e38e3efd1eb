package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Attacher persists named binary artifacts associated with the current test
// run for post-run inspection. Attachment is best-effort: a failing attacher
// must never change an assertion outcome.
type Attacher interface {
	Attach(name string, body []byte, contentType string) error
}

// FileAttacher writes artifacts into a directory, one timestamped file per
// attachment.
type FileAttacher struct {
	dir string
}

// NewFileAttacher creates an attacher rooted at dir.
func NewFileAttacher(dir string) *FileAttacher {
	return &FileAttacher{dir: dir}
}

// Attach writes the body as <name>_<timestamp><ext> under the artifact
// directory, creating it if needed.
func (a *FileAttacher) Attach(name string, body []byte, contentType string) error {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory %q: %w", a.dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s%s", name, timestamp, extFor(contentType))
	return os.WriteFile(filepath.Join(a.dir, filename), body, 0644)
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpeg"
	case "text/markdown":
		return ".md"
	case "text/html":
		return ".html"
	default:
		return ".bin"
	}
}
