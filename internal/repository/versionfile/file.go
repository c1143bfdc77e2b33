package versionfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Repository defines persistence operations for the version marker.
type Repository interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, tag string) error
}

// FileRepository reads and writes the plain-text VERSION marker on disk.
// The marker holds a single version token; surrounding whitespace is
// insignificant.
type FileRepository struct {
	// path is the filesystem location of the version marker.
	path string
	// mu protects concurrent access to the marker file.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when the version marker does not exist.
	ErrNotFound = errors.New("version file not found")
	// ErrEmpty is returned when the version marker holds no version token.
	ErrEmpty = errors.New("version file is empty")
)

// markerPermissions is used when writing the version marker.
const markerPermissions = 0o644

// NewFileRepository creates a repository backed by the marker at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the marker location the repository operates on.
func (r *FileRepository) Path() string {
	return r.path
}

// Read returns the version token from the marker file.
func (r *FileRepository) Read(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return "", fmt.Errorf("read version file: %w", err)
	}

	tag := strings.TrimSpace(string(contents))
	if tag == "" {
		return "", fmt.Errorf("%s: %w", r.path, ErrEmpty)
	}

	return tag, nil
}

// Write persists the version token, followed by a newline.
func (r *FileRepository) Write(_ context.Context, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ErrEmpty
	}

	if err := os.WriteFile(r.path, []byte(tag+"\n"), markerPermissions); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}

	return nil
}
