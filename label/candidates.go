package label

import "github.com/nvr-ai/go-sahi/images"

// Footprint is the pixel size a caption needs when drawn.
type Footprint struct {
	// Width is the caption advance width.
	Width int
	// Height is the distance from the baseline to the top of the tallest glyph.
	Height int
	// Baseline is the distance from the baseline to the bottom of the lowest glyph.
	Baseline int
}

// MeasureFunc measures a caption. It must return the same footprint for the
// same caption so that layouts are reproducible.
type MeasureFunc func(caption string) Footprint

// candidates returns the ten label rectangles around box in their fixed order:
// above-left, right of the box, left of the box, below-left, above-right,
// below-right, then inside the box at top-left, top-right, bottom-right and
// bottom-left.
func candidates(box images.Rect, fp Footprint) [10]images.Rect {
	w := fp.Width
	h := fp.Height + fp.Baseline
	l, t, r, b := box.X1, box.Y1, box.X2, box.Y2

	return [10]images.Rect{
		{X1: l, Y1: t - h, X2: l + w, Y2: t},
		{X1: r, Y1: t, X2: r + w, Y2: t + h},
		{X1: l - w, Y1: t, X2: l, Y2: t + h},
		{X1: l, Y1: b, X2: l + w, Y2: b + h},
		{X1: r - w, Y1: t - h, X2: r, Y2: t},
		{X1: r - w, Y1: b, X2: r, Y2: b + h},
		{X1: l, Y1: t, X2: l + w, Y2: t + h},
		{X1: r - w, Y1: t, X2: r, Y2: t + h},
		{X1: r - w, Y1: b - h, X2: r, Y2: b},
		{X1: l, Y1: b - h, X2: l + w, Y2: b},
	}
}

// fallback is the label flush with the box's top-left corner, used when no
// candidate fits on the canvas.
func fallback(box images.Rect, fp Footprint) images.Rect {
	return images.Rect{X1: box.X1, Y1: box.Y1, X2: box.X1 + fp.Width, Y2: box.Y1 + fp.Height + fp.Baseline}
}

// onCanvas reports whether c lies entirely within the canvas.
func onCanvas(canvas, c images.Rect) bool {
	return images.CalculateOverlap(canvas, c) == 1 && c.Area() <= canvas.Area()
}
