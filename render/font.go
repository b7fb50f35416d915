package render

import (
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/nvr-ai/go-sahi/label"
)

var regular *truetype.Font

// init sets up the font captions are drawn with.
func init() {
	var err error
	regular, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// NewFace returns a Go Regular face of the given point size at 72 DPI, so one
// point is one pixel.
func NewFace(size float64) font.Face {
	return truetype.NewFace(regular, &truetype.Options{Size: size})
}

// FaceMeasurer measures captions with face. Height is the face ascent and
// Baseline its descent, so every caption of a face gets the same height.
func FaceMeasurer(face font.Face) label.MeasureFunc {
	metrics := face.Metrics()
	return func(caption string) label.Footprint {
		return label.Footprint{
			Width:    font.MeasureString(face, caption).Ceil(),
			Height:   metrics.Ascent.Ceil(),
			Baseline: metrics.Descent.Ceil(),
		}
	}
}

// FontMeasurer is the label.MeasureFunc matching captions drawn by an
// Annotator with the given font size.
func FontMeasurer(size float64) label.MeasureFunc {
	return FaceMeasurer(NewFace(size))
}
