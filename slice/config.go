package slice

import (
	"image"

	"github.com/pkg/errors"
)

// DefaultOverlap is the overlap ratio used when tiles are sized automatically.
const DefaultOverlap float32 = 0.2

// Config describes how a frame is cut into tiles.
type Config struct {
	// Width is the tile width in pixels.
	Width int `json:"width" yaml:"width"`
	// Height is the tile height in pixels.
	Height int `json:"height" yaml:"height"`
	// OverlapWidth is the fraction of Width shared by horizontally adjacent tiles.
	OverlapWidth float32 `json:"overlap_width" yaml:"overlap_width"`
	// OverlapHeight is the fraction of Height shared by vertically adjacent tiles.
	OverlapHeight float32 `json:"overlap_height" yaml:"overlap_height"`
	// Auto sizes tiles to the detector input, ignoring Width and Height.
	Auto bool `json:"auto" yaml:"auto"`
}

// DefaultConfig returns a configuration that sizes tiles to the detector input.
func DefaultConfig() Config {
	return Config{
		Width:         640,
		Height:        640,
		OverlapWidth:  DefaultOverlap,
		OverlapHeight: DefaultOverlap,
		Auto:          true,
	}
}

// AutoConfig returns tiles matching the detector's native input size with the default overlap.
//
// Arguments:
//   - inputWidth: The detector input width in pixels.
//   - inputHeight: The detector input height in pixels.
//
// Returns:
//   - Config: A manual configuration equivalent to the automatic choice.
func AutoConfig(inputWidth, inputHeight int) Config {
	return Config{
		Width:         inputWidth,
		Height:        inputHeight,
		OverlapWidth:  DefaultOverlap,
		OverlapHeight: DefaultOverlap,
	}
}

// FullFrame returns a configuration producing a single tile covering the whole image.
func FullFrame(width, height int) Config {
	return Config{Width: width, Height: height}
}

// Resolve returns the manual configuration to plan with. Auto configurations are
// replaced by AutoConfig for the given detector input size.
func (c Config) Resolve(input image.Point) Config {
	if c.Auto {
		return AutoConfig(input.X, input.Y)
	}
	return c
}

// Validate checks the tile size and overlap ratios.
//
// Returns:
//   - error: An error wrapping ErrInvalidArgument, or nil.
func (c Config) Validate() error {
	if c.Auto {
		if c.OverlapWidth < 0 || c.OverlapWidth >= 1 || c.OverlapHeight < 0 || c.OverlapHeight >= 1 {
			return errors.Wrap(ErrInvalidArgument, "overlap ratios must be in [0, 1)")
		}
		return nil
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "slice size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.OverlapWidth < 0 || c.OverlapWidth >= 1 {
		return errors.Wrapf(ErrInvalidArgument, "overlap width must be in [0, 1), got %v", c.OverlapWidth)
	}
	if c.OverlapHeight < 0 || c.OverlapHeight >= 1 {
		return errors.Wrapf(ErrInvalidArgument, "overlap height must be in [0, 1), got %v", c.OverlapHeight)
	}
	return nil
}
