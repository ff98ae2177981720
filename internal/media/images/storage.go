// Package images provides album cover validation, processing, and storage.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages cover image filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance for album covers.
// Covers are stored directly under basePath as {albumID}.jpg.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// Save stores cover data for an album, replacing any existing cover.
func (s *Storage) Save(albumID string, imgData []byte) error {
	if albumID == "" {
		return fmt.Errorf("album ID cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(albumID), imgData, 0o644); err != nil {
		return fmt.Errorf("failed to write cover file: %w", err)
	}
	return nil
}

// Get retrieves cover data for an album.
func (s *Storage) Get(albumID string) ([]byte, error) {
	if albumID == "" {
		return nil, fmt.Errorf("album ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(albumID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("cover not found for %s: %w", albumID, err)
		}
		return nil, fmt.Errorf("failed to read cover file: %w", err)
	}
	return data, nil
}

// Exists checks if a cover exists for an album.
func (s *Storage) Exists(albumID string) bool {
	if albumID == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(albumID))
	return err == nil
}

// Delete removes an album's cover. Deleting a missing cover is not an
// error.
func (s *Storage) Delete(albumID string) error {
	if albumID == "" {
		return fmt.Errorf("album ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(albumID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cover file: %w", err)
	}
	return nil
}

// Hash computes the SHA256 hash of a cover.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(albumID string) (string, error) {
	data, err := s.Get(albumID)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for an album's cover.
func (s *Storage) Path(albumID string) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%s.jpg", albumID))
}
