package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewStorage_EmptyBasePath(t *testing.T) {
	_, err := NewStorage("")
	assert.Error(t, err)
}

func TestStorage_SaveAndGet(t *testing.T) {
	s := setupTestStorage(t)

	rel, err := s.SaveOriginal("owner-1", "en-1", "md-1", ".jpg", []byte("original"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("owner-1", "en-1", "md-1.jpg"), rel)

	data, err := s.Get(rel)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)
	assert.True(t, s.Exists(rel))
}

func TestStorage_DerivedLayout(t *testing.T) {
	s := setupTestStorage(t)

	derived, err := s.SaveDerived("owner-1", "en-1", "md-1", []byte("derived"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("owner-1", "en-1", "_derived", "md-1.jpg"), derived)

	thumb, err := s.SaveThumb("owner-1", "en-1", "md-1", []byte("thumb"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("owner-1", "en-1", "_derived", "md-1_thumb.jpg"), thumb)
}

func TestStorage_EmptyData(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.SaveOriginal("owner-1", "en-1", "md-1", ".jpg", nil)
	assert.Error(t, err)
}

func TestStorage_GetMissing(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.Get(filepath.Join("owner-1", "en-1", "nope.jpg"))
	assert.Error(t, err)
	assert.False(t, s.Exists(filepath.Join("owner-1", "en-1", "nope.jpg")))
}

func TestStorage_RejectsTraversal(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.Get("../outside.jpg")
	assert.Error(t, err)

	_, err = s.Get("/etc/passwd")
	assert.Error(t, err)
}

func TestStorage_DeleteEntry(t *testing.T) {
	s := setupTestStorage(t)

	rel, err := s.SaveOriginal("owner-1", "en-1", "md-1", ".png", []byte("data"))
	require.NoError(t, err)
	_, err = s.SaveDerived("owner-1", "en-1", "md-1", []byte("derived"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry("owner-1", "en-1"))

	assert.False(t, s.Exists(rel))

	// Owner directory is untouched
	_, statErr := os.Stat(filepath.Join(s.basePath, "owner-1"))
	assert.NoError(t, statErr)
}
