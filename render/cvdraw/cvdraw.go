// Package cvdraw - Drawing of detections on OpenCV frames.
package cvdraw

import (
	"image/color"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-sahi/label"
	"github.com/nvr-ai/go-sahi/models"
	"github.com/nvr-ai/go-sahi/models/postprocess"
	"github.com/nvr-ai/go-sahi/render"
)

const (
	fontFace      = gocv.FontHersheySimplex
	fontScale     = 1.0
	fontThickness = 2
	boxThickness  = 5
)

// Measure is the label.MeasureFunc for captions drawn by Annotate.
func Measure(caption string) label.Footprint {
	size, baseline := gocv.GetTextSizeWithBaseline(caption, fontFace, fontScale, fontThickness)
	return label.Footprint{Width: size.X, Height: size.Y, Baseline: baseline}
}

func rgba(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Annotate draws results onto frame in place: every box outline first, then
// every caption on a background filled with its class color.
//
// Arguments:
//   - frame: The BGR frame to draw on.
//   - results: Detections in frame pixel coordinates.
//   - names: Class names for captions; nil uses COCO.
func Annotate(frame *gocv.Mat, results []postprocess.Result, names models.ClassNames) {
	if names == nil {
		names = models.COCOClasses
	}

	for _, r := range results {
		gocv.Rectangle(frame, r.Box.Rect().Image(), rgba(render.ClassColor(r.Class)), boxThickness)
	}

	manager := label.NewManager(Measure)
	for _, r := range results {
		caption := render.Caption(names, r)
		origin := manager.SelectOptimalPosition(r.Box.Rect(), frame.Cols(), frame.Rows(), caption)
		rect, _ := manager.CurrentPosition()

		gocv.Rectangle(frame, rect.Image(), rgba(render.ClassColor(r.Class)), -1)
		gocv.PutTextWithParams(frame, caption, origin, fontFace, fontScale,
			color.RGBA{A: 255}, fontThickness, gocv.LineAA, false)
	}
}
