package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localStorage keeps media files on the local filesystem under basePath/kind/id
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// generatePath builds the full file path for id inside the kind directory.
// Ids that would escape the kind directory are rejected.
func (s *localStorage) generatePath(id, kind string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid file id %q", id)
	}
	return filepath.Join(s.basePath, kind, id), nil
}

// Create creates a new file and returns a WriteCloser
func (s *localStorage) Create(id, kind string) (io.WriteCloser, error) {
	path, err := s.generatePath(id, kind)
	if err != nil {
		return nil, err
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return os.Create(path)
}

// OpenFile opens a file for use with http.ServeContent
func (s *localStorage) OpenFile(id, kind string) (*os.File, error) {
	path, err := s.generatePath(id, kind)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a file
func (s *localStorage) Delete(id, kind string) error {
	path, err := s.generatePath(id, kind)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
