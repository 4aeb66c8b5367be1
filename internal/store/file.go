package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"taskboard/internal/models"
	"taskboard/internal/taskfile"
)

// DefaultFileName is the task file inside the configured directory.
const DefaultFileName = "tasks.md"

const filePerms = 0644

// FileBackend stores tasks in a human-editable markdown file.
type FileBackend struct {
	path   string
	parser taskfile.Parser
}

// NewFileBackend creates a backend for the task file at path. The file need not exist.
func NewFileBackend(path string, parser taskfile.Parser) *FileBackend {
	return &FileBackend{path: path, parser: parser}
}

// Path returns the task file path.
func (b *FileBackend) Path() string {
	return b.path
}

// LockFile returns the sidecar lock file. The task file itself is replaced on every
// write, so it cannot carry the lock.
func (b *FileBackend) LockFile() string {
	return b.path + ".lock"
}

// Read parses the task file. A missing file is an empty list.
func (b *FileBackend) Read(ctx context.Context) ([]models.Task, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("failed to open task file: %w", err)
	}
	defer f.Close()

	return b.parser.Parse(f)
}

// Replace rewrites the whole file through a temp file and rename.
func (b *FileBackend) Replace(ctx context.Context, tasks []models.Task) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("failed to create task directory: %w", err)
	}

	_, statErr := os.Stat(b.path)
	created := errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(b.path, bytes.NewReader(taskfile.Format(tasks))); err != nil {
		return fmt.Errorf("failed to write task file: %w", err)
	}

	// atomic.WriteFile leaves new files with temp file permissions
	if created {
		if err := os.Chmod(b.path, filePerms); err != nil {
			return fmt.Errorf("failed to set task file permissions: %w", err)
		}
	}

	return nil
}

// Close is a no-op; the file is only open during Read.
func (b *FileBackend) Close() error {
	return nil
}
