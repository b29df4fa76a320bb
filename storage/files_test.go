// path: storage/files_test.go
package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "uploads"), zap.NewNop().Sugar())
	require.NoError(t, err)
	return fs
}

func TestSaveAndExists(t *testing.T) {
	fs := newTestFileStore(t)

	p, err := fs.Save(bytes.NewReader([]byte("jpeg bytes")), ".jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, PublicPrefix+"/"))
	assert.True(t, strings.HasSuffix(p, ".jpg"))
	assert.True(t, fs.Exists(p))

	// Two saves of identical content still get distinct names.
	p2, err := fs.Save(bytes.NewReader([]byte("jpeg bytes")), ".jpg")
	require.NoError(t, err)
	assert.NotEqual(t, p, p2)
}

func TestRemoveIsIdempotent(t *testing.T) {
	fs := newTestFileStore(t)

	p, err := fs.Save(bytes.NewReader([]byte("x")), ".png")
	require.NoError(t, err)

	require.NoError(t, fs.Remove(p))
	assert.False(t, fs.Exists(p))
	require.NoError(t, fs.Remove(p))
}

func TestArchiveMovesFile(t *testing.T) {
	fs := newTestFileStore(t)
	archiveDir := filepath.Join(t.TempDir(), "archive")

	p, err := fs.Save(bytes.NewReader([]byte("photo")), ".webp")
	require.NoError(t, err)

	require.NoError(t, fs.Archive(p, archiveDir))
	assert.False(t, fs.Exists(p))

	name := filepath.Base(strings.TrimPrefix(p, PublicPrefix+"/"))
	moved, err := os.ReadFile(filepath.Join(archiveDir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("photo"), moved)
}

func TestArchiveFallsBackToCopyWhenRenameFails(t *testing.T) {
	fs := newTestFileStore(t)
	archiveDir := filepath.Join(t.TempDir(), "archive")

	p, err := fs.Save(bytes.NewReader([]byte("photo")), ".jpg")
	require.NoError(t, err)

	// Simulate the archive dir sitting on another device.
	fs.rename = func(oldpath, newpath string) error {
		return errors.New("rename: invalid cross-device link")
	}

	require.NoError(t, fs.Archive(p, archiveDir))
	assert.False(t, fs.Exists(p))

	name := filepath.Base(strings.TrimPrefix(p, PublicPrefix+"/"))
	moved, err := os.ReadFile(filepath.Join(archiveDir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("photo"), moved)
}

func TestArchiveMissingFileFails(t *testing.T) {
	fs := newTestFileStore(t)
	err := fs.Archive(PublicPrefix+"/gone.jpg", filepath.Join(t.TempDir(), "archive"))
	assert.Error(t, err)
}

func TestPathsNeverEscapeRoot(t *testing.T) {
	fs := newTestFileStore(t)

	outside := filepath.Join(filepath.Dir(fs.Root()), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))

	assert.False(t, fs.Exists(PublicPrefix+"/../secret.txt"))
	require.NoError(t, fs.Remove(PublicPrefix+"/../secret.txt"))

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
