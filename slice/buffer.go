package slice

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-sahi/models/postprocess"
)

const channels = 4

// Buffer holds the cropped pixels of every tile of a Grid in a single NHWC
// uint8 tensor of shape (tiles, SliceHeight, SliceWidth, 4), together with one
// detection output slot per tile.
//
// A Buffer is reused across frames of the same size. Distinct tiles may be read
// and their output slots written from different goroutines; Fill and Reset must
// not run concurrently with anything else.
type Buffer struct {
	grid   *Grid
	pixels *tensor.Dense
	// Outputs holds the tile-local detections of each tile, indexed by Tile.Index.
	Outputs [][]postprocess.Result
}

// NewBuffer allocates a buffer for every tile of grid.
//
// Arguments:
//   - grid: The planned grid.
//
// Returns:
//   - *Buffer: A zeroed buffer with empty output slots.
func NewBuffer(grid *Grid) *Buffer {
	n := grid.Len()
	data := make([]uint8, n*grid.SliceHeight*grid.SliceWidth*channels)

	return &Buffer{
		grid:    grid,
		pixels:  tensor.New(tensor.WithShape(n, grid.SliceHeight, grid.SliceWidth, channels), tensor.WithBacking(data)),
		Outputs: make([][]postprocess.Result, n),
	}
}

// Grid returns the grid the buffer was allocated for.
func (b *Buffer) Grid() *Grid {
	return b.grid
}

// Tensor returns the NHWC pixel tensor backing every tile.
func (b *Buffer) Tensor() *tensor.Dense {
	return b.pixels
}

// Fill crops every tile from src into the buffer and clears the outputs.
//
// Arguments:
//   - src: The full frame. Its size must match the grid's image size.
//
// Returns:
//   - error: An error wrapping ErrInvalidArgument if the frame size differs from the grid.
func (b *Buffer) Fill(src image.Image) error {
	bounds := src.Bounds()
	if bounds.Dx() != b.grid.ImageWidth || bounds.Dy() != b.grid.ImageHeight {
		return errors.Wrapf(ErrInvalidArgument, "frame is %dx%d, grid expects %dx%d",
			bounds.Dx(), bounds.Dy(), b.grid.ImageWidth, b.grid.ImageHeight)
	}

	for _, t := range b.grid.Tiles {
		cropped := imaging.Crop(src, t.Rect().Image().Add(bounds.Min))
		dst := b.Image(t.Index)
		rowBytes := t.Width * channels
		for y := 0; y < t.Height; y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowBytes], cropped.Pix[y*cropped.Stride:y*cropped.Stride+rowBytes])
		}
	}

	b.Reset()
	return nil
}

// Image returns a zero-copy view of tile i's pixels, taken from the tensor's
// first axis. Writes to the view change the tensor. It panics if i is not a
// tile index of the grid.
func (b *Buffer) Image(i int) *image.NRGBA {
	view, err := b.pixels.Slice(tensor.S(i))
	if err != nil {
		panic(errors.Wrapf(err, "tile %d is outside the buffer", i))
	}

	w, h := b.grid.SliceWidth, b.grid.SliceHeight
	pix := view.Data().([]uint8)[:w*h*channels]

	return &image.NRGBA{
		Pix:    pix[:len(pix):len(pix)],
		Stride: w * channels,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// SetOutput stores the tile-local detections of tile i.
func (b *Buffer) SetOutput(i int, results []postprocess.Result) {
	b.Outputs[i] = results
}

// Reset clears every output slot, keeping the pixels.
func (b *Buffer) Reset() {
	for i := range b.Outputs {
		b.Outputs[i] = nil
	}
}
