// Package images - Image loading and saving for the detection pipeline.
package images

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Load decodes the image at path, applying any EXIF orientation.
//
// Arguments:
//   - path: The image file to read.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error if the file cannot be read or decoded.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load image %s", path)
	}
	return img, nil
}

// Save encodes img to path; the format is chosen from the extension.
//
// Arguments:
//   - img: The image to write.
//   - path: The destination file.
//
// Returns:
//   - error: An error if the extension is unsupported or writing fails.
func Save(img image.Image, path string) error {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return errors.Wrapf(err, "failed to save image %s", path)
	}
	return nil
}
