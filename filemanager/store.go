// Package filemanager implements the standalone file-manager utility: a
// directory-scoped file store with HTTP and CLI front ends.
package filemanager

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"contenthub/utils"
)

// Store provides CRUD over plain files inside one fixed directory.
// Names are sanitized so callers can never escape the directory.
type Store struct {
	dir string
}

// NewStore creates the backing directory when missing and returns a
// Store scoped to it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the names of all stored files, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, utils.NewInternalError("failed to list files")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Create writes a new file with the given content. An existing file of
// the same name is not overwritten.
func (s *Store) Create(name, content string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return utils.NewConflictError("File already exists")
		}
		return utils.NewInternalError("failed to create file")
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return utils.NewInternalError("failed to write file")
	}
	return nil
}

// Read returns a file's content by name.
func (s *Store) Read(name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", utils.NewNotFoundError("File not found")
		}
		return "", utils.NewInternalError("failed to read file")
	}
	return string(b), nil
}

// Delete removes a file by name.
func (s *Store) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return utils.NewNotFoundError("File not found")
		}
		return utils.NewInternalError("failed to delete file")
	}
	return nil
}

// resolve sanitizes a filename against path traversal and returns its
// absolute path inside the store directory.
func (s *Store) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", utils.NewValidationError("Filename is required")
	}
	if name != filepath.Base(name) ||
		strings.ContainsAny(name, `/\`) ||
		name == "." || name == ".." {
		return "", utils.NewValidationError("Invalid filename")
	}
	return filepath.Join(s.dir, name), nil
}
