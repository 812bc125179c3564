// Package media stores uploaded listing images on the local filesystem and
// removes them when a listing is deleted.
package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is the public path prefix under which stored images are served.
const URLPrefix = "/uploads/"

// ErrNotImage is returned when an upload does not look like an image file.
var ErrNotImage = errors.New("only image files are allowed")

// allowed image extensions, lowercase.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// FileStore persists uploaded images in a single directory and hands back
// their public URL paths.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if
// needed. If logger is nil, a default logger will be used.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}

	return &FileStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "media_store")),
	}, nil
}

// Save writes the uploaded content to a uniquely named file, keeping the
// original extension. Returns the public URL path of the stored image.
// Returns ErrNotImage if the original filename does not carry an image
// extension.
func (s *FileStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !imageExtensions[ext] {
		return "", ErrNotImage
	}

	// Timestamp plus UUID keeps names unique and roughly sortable.
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New(), ext)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}

	s.logger.Debug("stored uploaded image", slog.String("file", name))
	return URLPrefix + name, nil
}

// Remove deletes the stored files behind the given public URL paths. Paths
// outside the store (e.g. external image URLs in seed data) are skipped.
// Missing files are not an error; the listing is going away either way.
func (s *FileStore) Remove(urlPaths []string) {
	for _, p := range urlPaths {
		name, ok := strings.CutPrefix(p, URLPrefix)
		if !ok || name == "" || strings.Contains(name, "/") {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove uploaded image",
				slog.String("file", name),
				slog.String("error", err.Error()))
		}
	}
}

// Dir returns the directory the store writes into, for static file serving.
func (s *FileStore) Dir() string {
	return s.dir
}
