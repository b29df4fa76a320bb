// path: storage/files.go
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublicPrefix is the URL prefix under which stored files are served and the
// prefix persisted in every photoPath column and flat-log entry.
const PublicPrefix = "/uploads"

// FileStore owns the photo files under one root directory. Paths it accepts
// and returns are the persisted "/uploads/<name>" form; only the basename
// ever reaches the filesystem, so a stored path can never escape the root.
type FileStore struct {
	root string
	log  *zap.SugaredLogger

	// rename is os.Rename; swappable so the cross-device fallback is
	// reachable in tests.
	rename func(oldpath, newpath string) error
}

func NewFileStore(root string, log *zap.SugaredLogger) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{
		root:   root,
		log:    log.With("component", "filestore"),
		rename: os.Rename,
	}, nil
}

// Root returns the on-disk directory, for static serving.
func (f *FileStore) Root() string { return f.root }

// Save writes the content under a generated collision-resistant name
// (unix-ms plus a random component, preserving the extension) and returns
// the public path. An existing file is never overwritten.
func (f *FileStore) Save(src io.Reader, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if len(ext) > 8 {
		ext = ext[:8]
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	dst := filepath.Join(f.root, name)

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return PublicPrefix + "/" + name, nil
}

// Exists reports whether the referenced file is present.
func (f *FileStore) Exists(photoPath string) bool {
	_, err := os.Stat(f.abs(photoPath))
	return err == nil
}

// Remove deletes the file. Absence is not an error.
func (f *FileStore) Remove(photoPath string) error {
	err := os.Remove(f.abs(photoPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", photoPath, err)
	}
	return nil
}

// Archive moves the file into archiveDir. A failed rename (e.g. cross-device)
// falls back to copy-then-delete. The error is reported to the caller but is
// never a reason to undo anything already committed elsewhere.
func (f *FileStore) Archive(photoPath, archiveDir string) error {
	src := f.abs(photoPath)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	dst := filepath.Join(archiveDir, filepath.Base(src))

	if err := f.rename(src, dst); err == nil {
		return nil
	} else if os.IsNotExist(err) {
		return fmt.Errorf("archive %s: %w", photoPath, err)
	} else {
		f.log.Warnw("rename failed, copying instead", "file", photoPath, "err", err)
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("archive copy %s: %w", photoPath, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("archive remove %s: %w", photoPath, err)
	}
	return nil
}

// abs maps a persisted "/uploads/<name>" path to its on-disk location.
func (f *FileStore) abs(photoPath string) string {
	name := strings.TrimPrefix(photoPath, PublicPrefix+"/")
	return filepath.Join(f.root, filepath.Base(name))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
