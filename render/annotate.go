package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/nvr-ai/go-sahi/images"
	"github.com/nvr-ai/go-sahi/label"
	"github.com/nvr-ai/go-sahi/models"
	"github.com/nvr-ai/go-sahi/models/postprocess"
)

// Config controls how detections are drawn.
type Config struct {
	// FontSize is the caption size in pixels.
	FontSize float64 `yaml:"font_size" json:"font_size"`
	// LineWidth is the box outline width in pixels.
	LineWidth float64 `yaml:"line_width" json:"line_width"`
	// Renderer selects the drawing backend used by the CLI: "gg" or "opencv".
	Renderer string `yaml:"renderer" json:"renderer"`
}

// DefaultConfig returns the default drawing configuration.
func DefaultConfig() Config {
	return Config{
		FontSize:  24,
		LineWidth: 5,
		Renderer:  "gg",
	}
}

// Caption formats the text drawn for a result.
func Caption(names models.ClassNames, r postprocess.Result) string {
	return fmt.Sprintf("%s %.2f", names.Name(r.Class), r.Score)
}

// Label is a placed caption.
type Label struct {
	Caption string
	// Origin is where the text is drawn, on its baseline.
	Origin image.Point
	// Rect is the committed caption background.
	Rect  images.Rect
	Color color.NRGBA
}

// Annotator draws detections with gg. It is not safe for concurrent use.
type Annotator struct {
	config  Config
	names   models.ClassNames
	face    font.Face
	measure label.MeasureFunc
}

// NewAnnotator creates an Annotator.
//
// Arguments:
//   - config: Font size and line width.
//   - names: Class names for captions; nil uses COCO.
//
// Returns:
//   - *Annotator: The annotator.
func NewAnnotator(config Config, names models.ClassNames) *Annotator {
	if config.FontSize <= 0 {
		config.FontSize = DefaultConfig().FontSize
	}
	if config.LineWidth <= 0 {
		config.LineWidth = DefaultConfig().LineWidth
	}
	if names == nil {
		names = models.COCOClasses
	}

	face := NewFace(config.FontSize)
	return &Annotator{
		config:  config,
		names:   names,
		face:    face,
		measure: FaceMeasurer(face),
	}
}

// Labels places the captions of results on a canvas of the given size. A fresh
// label.Manager is used, so the layout depends only on the order of results.
func (a *Annotator) Labels(results []postprocess.Result, width, height int) []Label {
	manager := label.NewManager(a.measure)
	labels := make([]Label, 0, len(results))

	for _, r := range results {
		caption := Caption(a.names, r)
		origin := manager.SelectOptimalPosition(r.Box.Rect(), width, height, caption)
		rect, _ := manager.CurrentPosition()
		labels = append(labels, Label{
			Caption: caption,
			Origin:  origin,
			Rect:    rect,
			Color:   ClassColor(r.Class),
		})
	}

	return labels
}

// Annotate draws every box outline first and then every caption on top, each
// on a background filled with its class color.
//
// Arguments:
//   - img: The source image, left untouched.
//   - results: Detections in img's pixel coordinates.
//
// Returns:
//   - image.Image: A new image with the annotations.
func (a *Annotator) Annotate(img image.Image, results []postprocess.Result) image.Image {
	dc := gg.NewContextForImage(img)
	width, height := dc.Width(), dc.Height()

	dc.SetLineWidth(a.config.LineWidth)
	for _, r := range results {
		dc.SetColor(ClassColor(r.Class))
		dc.DrawRectangle(
			float64(r.Box.Left),
			float64(r.Box.Top),
			float64(r.Box.Width()),
			float64(r.Box.Height()),
		)
		dc.Stroke()
	}

	dc.SetFontFace(a.face)
	for _, l := range a.Labels(results, width, height) {
		dc.SetColor(l.Color)
		dc.DrawRectangle(float64(l.Rect.X1), float64(l.Rect.Y1), float64(l.Rect.Dx()), float64(l.Rect.Dy()))
		dc.Fill()

		dc.SetColor(color.Black)
		dc.DrawString(l.Caption, float64(l.Origin.X), float64(l.Origin.Y))
	}

	return dc.Image()
}
