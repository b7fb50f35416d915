// Package label - Greedy placement of detection captions so they overlap as little as possible.
package label

import (
	"image"

	"github.com/nvr-ai/go-sahi/images"
)

// Manager places the captions of one frame. Each placement is committed and
// steers later placements away from it, so the order in which boxes are
// presented changes the layout.
//
// A Manager is not safe for concurrent use. Create one per frame or call Reset
// between frames.
type Manager struct {
	measure   MeasureFunc
	positions []images.Rect
}

// NewManager creates a Manager that measures captions with measure.
func NewManager(measure MeasureFunc) *Manager {
	return &Manager{measure: measure}
}

// SelectOptimalPosition picks and commits a caption rectangle for box.
//
// The box is first clamped to the canvas. Of the ten candidate rectangles around
// it, only those fully on the canvas are considered; if none are, the caption
// goes flush at the box's top-left corner even if that leaves the canvas. Each
// candidate is scored by its largest IoU with the captions already placed. The
// first candidate scoring 0 wins; otherwise the lowest score wins, with ties
// going to the earlier candidate.
//
// Arguments:
//   - box: The detection box in canvas pixels.
//   - canvasWidth: The canvas width in pixels.
//   - canvasHeight: The canvas height in pixels.
//   - caption: The text to place.
//
// Returns:
//   - image.Point: The text origin, the committed rectangle's left edge at its baseline.
func (m *Manager) SelectOptimalPosition(box images.Rect, canvasWidth, canvasHeight int, caption string) image.Point {
	clamped := box.Clamp(canvasWidth, canvasHeight)
	fp := m.measure(caption)
	canvas := images.Rect{X2: canvasWidth, Y2: canvasHeight}

	var fits []images.Rect
	for _, c := range candidates(clamped, fp) {
		if onCanvas(canvas, c) {
			fits = append(fits, c)
		}
	}
	if len(fits) == 0 {
		fits = append(fits, fallback(clamped, fp))
	}

	best := fits[0]
	bestScore := float32(1)
	for _, c := range fits {
		score := m.maxIoU(c)
		if score == 0 {
			best = c
			break
		}
		if score < bestScore {
			best, bestScore = c, score
		}
	}

	m.positions = append(m.positions, best)
	return image.Pt(best.X1, best.Y1+fp.Height)
}

func (m *Manager) maxIoU(c images.Rect) float32 {
	var highest float32
	for _, p := range m.positions {
		highest = max(highest, images.CalculateIoU(c, p))
	}
	return highest
}

// CurrentPosition returns the most recently committed caption rectangle. The
// second return value is false when nothing has been placed.
func (m *Manager) CurrentPosition() (images.Rect, bool) {
	if len(m.positions) == 0 {
		return images.Rect{}, false
	}
	return m.positions[len(m.positions)-1], true
}

// Positions returns a copy of every rectangle committed since the last Reset, in order.
func (m *Manager) Positions() []images.Rect {
	return append([]images.Rect(nil), m.positions...)
}

// Reset forgets every committed rectangle.
func (m *Manager) Reset() {
	m.positions = m.positions[:0]
}
