// Package discover finds candidate input images in a single directory.
// The scan is deliberately non-recursive: outputs are written next to
// their sources, and descending into subdirectories would pick them up
// on the next run.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when the source directory contains no files
// with an accepted image extension. This is a defined failure, not a
// silent no-op: the caller is expected to abort the run.
var ErrNoImages = errors.New("discover: no images found for conversion")

// Accepted input extensions (lowercase, with leading dot).
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ImageFile describes one discovered input image.
type ImageFile struct {
	// Path is the absolute path to the file.
	Path string
	// Dir is the directory containing the file; outputs are placed here.
	Dir string
	// Base is the file name including extension.
	Base string
	// Ext is the extension as found on disk, including the leading dot.
	Ext string
	// Stem is the file name without its extension, used for output naming.
	Stem string
}

// NewImageFile builds an ImageFile from a path, resolving it to an
// absolute path and deriving the name components.
func NewImageFile(path string) (ImageFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ImageFile{}, fmt.Errorf("resolve path %s: %w", path, err)
	}
	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	return ImageFile{
		Path: abs,
		Dir:  filepath.Dir(abs),
		Base: base,
		Ext:  ext,
		Stem: strings.TrimSuffix(base, ext),
	}, nil
}

// Scan lists dir (non-recursively) and returns the regular files whose
// extension matches an accepted image type, case-insensitively, sorted
// by path for deterministic processing order. It returns ErrNoImages
// when nothing matches.
func Scan(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var images []ImageFile
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExtensions[ext] {
			continue
		}
		img, err := NewImageFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	if len(images) == 0 {
		return nil, ErrNoImages
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Path < images[j].Path })
	return images, nil
}
