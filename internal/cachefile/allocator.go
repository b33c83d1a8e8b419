package cachefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
)

// Operation tags used in output file names.
const (
	TagCompressed = "compressed"
	TagCropped    = "cropped"
)

// Extension is the extension of every allocated file.
const Extension = ".jpg"

// maxAttempts bounds retries on a name collision.
const maxAttempts = 3

// Allocator creates uniquely named files in Dir.
type Allocator struct {
	Dir string
}

// NewAllocator returns an Allocator for dir.
func NewAllocator(dir string) *Allocator {
	return &Allocator{Dir: dir}
}

// Name returns a candidate file name for stem and tag. It does not touch the
// filesystem.
func Name(stem, tag string, id uuid.UUID) string {
	return fmt.Sprintf("%s_%s%s%s", stem, tag, id.String(), Extension)
}

// Create creates a new, empty file named after stem and tag. The cache
// directory is created if needed. The caller owns the returned file and must
// close it.
func (a *Allocator) Create(stem, tag string) (*os.File, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("failed to generate file id: %w", err)
		}

		path := filepath.Join(a.Dir, Name(stem, tag, id))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("failed to allocate a unique output file in %s", a.Dir)
}

// Remove deletes a partially written output file. A missing file is not an
// error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
