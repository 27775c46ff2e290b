// Package images provides profile image processing and storage.
package images

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages image filesystem operations for one entity type.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	subdir   string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance rooted at {basePath}/{subdir}.
// Example: NewStorage("/data/images", "dj-profiles") -> /data/images/dj-profiles/.
func NewStorage(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{
		basePath: storagePath,
		subdir:   subdir,
	}, nil
}

// Subdir returns the subdirectory name this storage writes under.
func (s *Storage) Subdir() string {
	return s.subdir
}

// Save stores image data under the given filename.
func (s *Storage) Save(filename string, imgData []byte) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(filename), imgData, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// Get retrieves image data for a filename.
func (s *Storage) Get(filename string) ([]byte, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", filename, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks whether a stored image exists.
func (s *Storage) Exists(filename string) bool {
	if filename == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Delete removes a stored image. Deleting a missing file is not an error.
func (s *Storage) Delete(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Path returns the absolute filesystem path for a filename. The filename
// is flattened to its base so callers cannot escape the storage directory.
func (s *Storage) Path(filename string) string {
	return filepath.Join(s.basePath, filepath.Base(filename))
}
