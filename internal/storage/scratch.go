package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scratch manages the temporary area for intermediate artifacts. It is
// created at run start and removed wholesale at run end, keeping
// half-written files out of the output directory.
type Scratch struct {
	dir string
}

// NewScratch creates the scratch directory. If dir is empty, a directory
// under os.TempDir() is used.
func NewScratch(dir string) (*Scratch, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "image_conversion")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	return &Scratch{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Scratch) Dir() string {
	return s.dir
}

// Path joins name onto the scratch directory.
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Remove deletes the scratch directory and everything in it. Removal is
// best-effort cleanup and runs regardless of how many jobs failed; a
// failure here is reported but must not fail the run.
func (s *Scratch) Remove() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove scratch directory: %w", err)
	}
	return nil
}
