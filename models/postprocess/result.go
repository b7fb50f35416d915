// Package postprocess - Detection results and the steps applied to them after inference.
package postprocess

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/nvr-ai/go-sahi/images"
)

// Box is an axis-aligned detection box in pixel coordinates at model output precision.
type Box struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Right  float32 `json:"right"`
	Bottom float32 `json:"bottom"`
}

// Width returns the box width, or 0 for an inverted box.
func (b Box) Width() float32 {
	return math32.Max(0, b.Right-b.Left)
}

// Height returns the box height, or 0 for an inverted box.
func (b Box) Height() float32 {
	return math32.Max(0, b.Bottom-b.Top)
}

// Area returns the box area. Degenerate boxes have an area of 0.
func (b Box) Area() float32 {
	return b.Width() * b.Height()
}

// Offset returns b translated by (dx, dy).
func (b Box) Offset(dx, dy float32) Box {
	return Box{Left: b.Left + dx, Top: b.Top + dy, Right: b.Right + dx, Bottom: b.Bottom + dy}
}

// Clip limits b to [0,width] x [0,height].
func (b Box) Clip(width, height float32) Box {
	return Box{
		Left:   math32.Min(math32.Max(b.Left, 0), width),
		Top:    math32.Min(math32.Max(b.Top, 0), height),
		Right:  math32.Min(math32.Max(b.Right, 0), width),
		Bottom: math32.Min(math32.Max(b.Bottom, 0), height),
	}
}

// Intersection returns the area shared by b and o.
func (b Box) Intersection(o Box) float32 {
	w := math32.Min(b.Right, o.Right) - math32.Max(b.Left, o.Left)
	h := math32.Min(b.Bottom, o.Bottom) - math32.Max(b.Top, o.Top)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IoU returns the Intersection over Union of b and o, or 0 when either box is
// degenerate or they do not intersect.
func (b Box) IoU(o Box) float32 {
	areaB, areaO := b.Area(), o.Area()
	inter := b.Intersection(o)
	if areaB == 0 || areaO == 0 || inter == 0 {
		return 0
	}
	return inter / (areaB + areaO - inter)
}

// Overlap returns the intersection of b and o divided by the smaller area.
func (b Box) Overlap(o Box) float32 {
	areaB, areaO := b.Area(), o.Area()
	inter := b.Intersection(o)
	if areaB == 0 || areaO == 0 || inter == 0 {
		return 0
	}
	return inter / math32.Min(areaB, areaO)
}

// Rect rounds b to integer pixel coordinates.
func (b Box) Rect() images.Rect {
	return images.Rect{
		X1: int(math32.Floor(b.Left + 0.5)),
		Y1: int(math32.Floor(b.Top + 0.5)),
		X2: int(math32.Floor(b.Right + 0.5)),
		Y2: int(math32.Floor(b.Bottom + 0.5)),
	}
}

// BoxFromRect converts an integer rectangle into a Box.
func BoxFromRect(r images.Rect) Box {
	return Box{Left: float32(r.X1), Top: float32(r.Y1), Right: float32(r.X2), Bottom: float32(r.Y2)}
}

// Result represents a single detection result.
type Result struct {
	// The bounding box of the result.
	Box Box `json:"box"`
	// The confidence score of the result, in [0, 1].
	Score float32 `json:"score"`
	// The predicted class index of the result.
	Class int `json:"class"`
}

func (r Result) String() string {
	return fmt.Sprintf("class=%d score=%.2f box=(%.1f,%.1f,%.1f,%.1f)",
		r.Class, r.Score, r.Box.Left, r.Box.Top, r.Box.Right, r.Box.Bottom)
}
