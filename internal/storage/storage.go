// Package storage stores uploaded book cover images. The object store
// is an external collaborator; handlers only depend on ImageStore.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists an uploaded image and returns the public URL path
// it will be served under.
type ImageStore interface {
	SaveImage(filename string, r io.Reader) (string, error)
}

// Disk stores images under a local directory, served as static files.
type Disk struct {
	dir string
}

// NewDisk creates the image directory if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// SaveImage writes the upload under a fresh UUID name, keeping the
// original extension, and returns the /images/ URL path.
func (d *Disk) SaveImage(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	name := uuid.New().String() + ext
	f, err := os.Create(filepath.Join(d.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return "/images/" + name, nil
}
