// Package images - Rectangle geometry shared by tiling, detection and label placement.
package images

import "image"

// Rect is a lightweight axis-aligned rectangle in pixel coordinates.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// FromImageRect converts an image.Rectangle into a Rect.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Dx returns the width of r, or 0 if r is inverted.
func (r Rect) Dx() int {
	return max(0, r.X2-r.X1)
}

// Dy returns the height of r, or 0 if r is inverted.
func (r Rect) Dy() int {
	return max(0, r.Y2-r.Y1)
}

// Area returns the area of r in pixels. Degenerate rectangles have an area of 0.
func (r Rect) Area() int {
	return r.Dx() * r.Dy()
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Area() == 0
}

// Intersect returns the overlapping region of r and o. The result is empty when
// the rectangles do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
		X2: min(r.X2, o.X2),
		Y2: min(r.Y2, o.Y2),
	}
	if out.X2 <= out.X1 || out.Y2 <= out.Y1 {
		return Rect{}
	}
	return out
}

// Clamp limits r to the canvas [0,width) x [0,height).
//
// Only the near edges are raised to 0 and the far edges lowered to the canvas
// size, so a rectangle lying completely off the canvas may come back inverted.
// Area reports 0 for such a rectangle.
//
// Arguments:
//   - width: The canvas width in pixels.
//   - height: The canvas height in pixels.
//
// Returns:
//   - Rect: The clamped rectangle.
func (r Rect) Clamp(width, height int) Rect {
	return Rect{
		X1: max(0, r.X1),
		Y1: max(0, r.Y1),
		X2: min(width, r.X2),
		Y2: min(height, r.Y2),
	}
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{X1: r.X1 + dx, Y1: r.Y1 + dy, X2: r.X2 + dx, Y2: r.Y2 + dy}
}

// In reports whether every pixel of r lies inside o. An empty r is never inside.
func (r Rect) In(o Rect) bool {
	if r.Empty() {
		return false
	}
	return r.X1 >= o.X1 && r.Y1 >= o.Y1 && r.X2 <= o.X2 && r.Y2 <= o.Y2
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// intersectionArea returns the overlapping area of r and o in pixels.
func intersectionArea(r, o Rect) int {
	interW := min(r.X2, o.X2) - max(r.X1, o.X1)
	interH := min(r.Y2, o.Y2) - max(r.Y1, o.Y1)
	if interW <= 0 || interH <= 0 {
		return 0
	}
	return interW * interH
}

// CalculateIoU returns the Intersection over Union of two rectangles.
//
// IoU is the area both rectangles share divided by the area they cover together:
//
//	IoU = Area(A ∩ B) / (Area(A) + Area(B) - Area(A ∩ B))
//
// A value of 1.0 means the rectangles are identical and 0.0 means they do not
// touch. The result is 0 when either rectangle has zero area or when they do
// not intersect, so degenerate inputs never divide by zero.
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0.
//
// Example Usage:
// ```go
//
//	rect1 := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
//	rect2 := Rect{X1: 5, Y1: 5, X2: 15, Y2: 15}
//
//	iou := CalculateIoU(rect1, rect2) // 25 / (100 + 100 - 25) = 0.142857
//
// ```
func CalculateIoU(r, o Rect) float32 {
	areaR := r.Area()
	areaO := o.Area()
	inter := intersectionArea(r, o)
	if areaR == 0 || areaO == 0 || inter == 0 {
		return 0.0
	}

	// Cast before dividing; integer division would truncate to 0.
	return float32(inter) / float32(areaR+areaO-inter)
}

// CalculateOverlap returns the intersection area of two rectangles divided by
// the area of the smaller one.
//
// A value of 1.0 means the smaller rectangle is completely covered by the larger
// one. Like CalculateIoU it returns 0 for degenerate or disjoint inputs.
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0.
func CalculateOverlap(r, o Rect) float32 {
	areaR := r.Area()
	areaO := o.Area()
	inter := intersectionArea(r, o)
	if areaR == 0 || areaO == 0 || inter == 0 {
		return 0.0
	}
	return float32(inter) / float32(min(areaR, areaO))
}
