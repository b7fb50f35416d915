// Package util - Input discovery for batch detection.
package util

import (
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sahi/images"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Frame is the frame number parsed from a "frame-N" name, or -1.
	Frame int
}

// Load decodes the image file.
func (f ImageFile) Load() (image.Image, error) {
	return images.Load(f.Path)
}

// frameNumber parses names such as "frame-12.jpg".
func frameNumber(name string) int {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if !strings.HasPrefix(stem, "frame-") {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(stem, "frame-"))
	if err != nil {
		return -1
	}
	return n
}

// LoadDirectoryImageFiles lists the image files of a directory.
//
// Files named "frame-N" are ordered by N so extracted video frames keep their
// sequence; they come after any other files, which are ordered by name.
//
// Arguments:
//   - dir: Directory path containing image files.
//
// Returns:
//   - []ImageFile: The image files in processing order.
//   - error: Error if the directory cannot be read.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read directory %s", dir)
	}

	var out []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(file.Name())) {
		case ".jpg", ".jpeg", ".png", ".bmp":
			out = append(out, ImageFile{
				Path:  filepath.Join(dir, file.Name()),
				Frame: frameNumber(file.Name()),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frame != out[j].Frame {
			return out[i].Frame < out[j].Frame
		}
		return out[i].Path < out[j].Path
	})

	return out, nil
}
