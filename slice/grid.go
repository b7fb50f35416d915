package slice

import (
	"fmt"
	"image"

	"github.com/nvr-ai/go-sahi/images"
)

// Tile is one cell of a Grid in full-image pixel coordinates.
type Tile struct {
	// Index is the row-major position of the tile in Grid.Tiles.
	Index int
	// Row and Column locate the tile in the grid.
	Row, Column int
	// X and Y are the top-left corner of the tile.
	X, Y int
	// Width and Height are the clamped tile size.
	Width, Height int
}

// Rect returns the tile's region of the full image.
func (t Tile) Rect() images.Rect {
	return images.Rect{X1: t.X, Y1: t.Y, X2: t.X + t.Width, Y2: t.Y + t.Height}
}

// Origin returns the top-left corner of the tile, the offset that maps tile-local
// coordinates back to the full image.
func (t Tile) Origin() image.Point {
	return image.Pt(t.X, t.Y)
}

func (t Tile) String() string {
	return fmt.Sprintf("tile[%d](r%d c%d) %dx%d@(%d,%d)", t.Index, t.Row, t.Column, t.Width, t.Height, t.X, t.Y)
}

// Grid is the full set of tiles planned for one image size.
type Grid struct {
	ImageWidth  int
	ImageHeight int
	// SliceWidth and SliceHeight are the tile size after clamping to the image.
	SliceWidth  int
	SliceHeight int
	// Columns is the number of tiles per row, Rows the number of tile rows.
	Columns int
	Rows    int
	// Tiles lists every tile in row-major order: row 0 left to right, then row 1.
	Tiles []Tile
}

// NewGrid plans the tiles covering an imageWidth x imageHeight frame.
//
// Arguments:
//   - imageWidth: The frame width in pixels.
//   - imageHeight: The frame height in pixels.
//   - cfg: A manual slice configuration. Auto configurations must be resolved first.
//
// Returns:
//   - *Grid: The planned grid.
//   - error: An error wrapping ErrInvalidArgument for invalid geometry.
//
// @example
// grid, _ := NewGrid(1000, 1000, Config{Width: 640, Height: 640, OverlapWidth: 0.2, OverlapHeight: 0.2})
// // grid.Columns == 2, grid.Rows == 2, tile origins (0,0) (360,0) (0,360) (360,360)
func NewGrid(imageWidth, imageHeight int, cfg Config) (*Grid, error) {
	xs, err := Starts(imageWidth, cfg.Width, cfg.OverlapWidth)
	if err != nil {
		return nil, err
	}
	ys, err := Starts(imageHeight, cfg.Height, cfg.OverlapHeight)
	if err != nil {
		return nil, err
	}

	g := &Grid{
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
		SliceWidth:  min(cfg.Width, imageWidth),
		SliceHeight: min(cfg.Height, imageHeight),
		Columns:     len(xs),
		Rows:        len(ys),
		Tiles:       make([]Tile, 0, len(xs)*len(ys)),
	}

	for row, y := range ys {
		for col, x := range xs {
			g.Tiles = append(g.Tiles, Tile{
				Index:  len(g.Tiles),
				Row:    row,
				Column: col,
				X:      x,
				Y:      y,
				Width:  g.SliceWidth,
				Height: g.SliceHeight,
			})
		}
	}

	return g, nil
}

// Len returns the number of tiles.
func (g *Grid) Len() int {
	return len(g.Tiles)
}

// At returns the tile at the given row and column.
func (g *Grid) At(row, col int) Tile {
	return g.Tiles[row*g.Columns+col]
}

// Bounds returns the full image rectangle the grid covers.
func (g *Grid) Bounds() images.Rect {
	return images.Rect{X2: g.ImageWidth, Y2: g.ImageHeight}
}
