package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage manages media files on the local filesystem.
// Thread-safe for concurrent operations.
//
// Layout under the base path:
//
//	{owner}/{entry}/{media}{ext}           original upload
//	{owner}/{entry}/_derived/{media}.jpg   enhanced variant
//	{owner}/{entry}/_derived/{media}_thumb.jpg
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance rooted at basePath.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// SaveOriginal stores the untouched upload and returns its path relative to
// the storage root.
func (s *Storage) SaveOriginal(ownerID, entryID, mediaID, ext string, data []byte) (string, error) {
	rel := filepath.Join(ownerID, entryID, mediaID+ext)
	return rel, s.write(rel, data)
}

// SaveDerived stores the enhanced variant.
func (s *Storage) SaveDerived(ownerID, entryID, mediaID string, data []byte) (string, error) {
	rel := filepath.Join(ownerID, entryID, "_derived", mediaID+".jpg")
	return rel, s.write(rel, data)
}

// SaveThumb stores the square thumbnail.
func (s *Storage) SaveThumb(ownerID, entryID, mediaID string, data []byte) (string, error) {
	rel := filepath.Join(ownerID, entryID, "_derived", mediaID+"_thumb.jpg")
	return rel, s.write(rel, data)
}

func (s *Storage) write(rel string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create media subdirectory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write media file: %w", err)
	}

	return nil
}

// Get retrieves a stored file by its relative path. Paths that escape the
// storage root are rejected.
func (s *Storage) Get(rel string) ([]byte, error) {
	path, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("media not found at %s: %w", rel, err)
		}
		return nil, fmt.Errorf("failed to read media file: %w", err)
	}

	return data, nil
}

// Exists checks whether a stored file is present.
func (s *Storage) Exists(rel string) bool {
	path, err := s.resolve(rel)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(path)
	return err == nil
}

// Resolve returns the absolute path for a relative media path, rejecting
// anything that escapes the storage root.
func (s *Storage) Resolve(rel string) (string, error) {
	return s.resolve(rel)
}

func (s *Storage) resolve(rel string) (string, error) {
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid media path %q", rel)
	}
	return filepath.Join(s.basePath, clean), nil
}

// DeleteEntry removes all files stored for an entry.
func (s *Storage) DeleteEntry(ownerID, entryID string) error {
	if ownerID == "" || entryID == "" {
		return fmt.Errorf("owner and entry IDs cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, ownerID, entryID)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete entry media: %w", err)
	}
	return nil
}
