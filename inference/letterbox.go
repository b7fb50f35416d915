package inference

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sahi/models/postprocess"
)

// padValue is the gray used to fill the letterbox border.
const padValue = 114

// LetterboxInfo records how an image was fitted into the model input.
type LetterboxInfo struct {
	// Scale is the resize factor applied to the source.
	Scale float32
	// PadX and PadY are the left and top border widths in model pixels.
	PadX, PadY int
	// SrcWidth and SrcHeight are the source image size.
	SrcWidth, SrcHeight int
}

// Unmap converts a box in model input pixels back to source pixels, clipped to the source.
func (l LetterboxInfo) Unmap(b postprocess.Box) postprocess.Box {
	px, py := float32(l.PadX), float32(l.PadY)
	out := postprocess.Box{
		Left:   (b.Left - px) / l.Scale,
		Top:    (b.Top - py) / l.Scale,
		Right:  (b.Right - px) / l.Scale,
		Bottom: (b.Bottom - py) / l.Scale,
	}
	return out.Clip(float32(l.SrcWidth), float32(l.SrcHeight))
}

// UnmapAll converts every result back to source pixels and drops boxes that
// collapse to nothing once clipped. The slice is filtered in place.
func (l LetterboxInfo) UnmapAll(results []postprocess.Result) []postprocess.Result {
	out := results[:0]
	for _, r := range results {
		r.Box = l.Unmap(r.Box)
		if r.Box.Area() > 0 {
			out = append(out, r)
		}
	}
	return out
}

// LetterboxImage resizes img to fit size while keeping its aspect ratio and
// centers it on a gray canvas.
//
// Arguments:
//   - img: The source image.
//   - size: The model input width and height.
//
// Returns:
//   - *image.NRGBA: The letterboxed image of exactly size.
//   - LetterboxInfo: The transform needed to map boxes back to img.
func LetterboxImage(img image.Image, size image.Point) (*image.NRGBA, LetterboxInfo) {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()

	scale := math32.Min(float32(size.X)/float32(srcW), float32(size.Y)/float32(srcH))
	newW := max(1, min(size.X, int(math32.Floor(float32(srcW)*scale+0.5))))
	newH := max(1, min(size.Y, int(math32.Floor(float32(srcH)*scale+0.5))))

	info := LetterboxInfo{
		Scale:     scale,
		PadX:      (size.X - newW) / 2,
		PadY:      (size.Y - newH) / 2,
		SrcWidth:  srcW,
		SrcHeight: srcH,
	}

	resized := img
	if newW != srcW || newH != srcH {
		resized = resize.Resize(uint(newW), uint(newH), img, resize.Bilinear)
	}

	canvas := imaging.New(size.X, size.Y, color.NRGBA{R: padValue, G: padValue, B: padValue, A: 255})
	return imaging.Paste(canvas, resized, image.Pt(info.PadX, info.PadY)), info
}

// Letterbox fits img into the model input and writes it to dst as planar
// RGB float32 in [0, 1], the [1, 3, height, width] layout YOLO models expect.
//
// Arguments:
//   - img: The source image.
//   - size: The model input width and height.
//   - dst: The destination tensor data, at least 3*size.X*size.Y long.
//
// Returns:
//   - LetterboxInfo: The transform needed to map boxes back to img.
//   - error: An error if dst is too small.
func Letterbox(img image.Image, size image.Point, dst []float32) (LetterboxInfo, error) {
	channelSize := size.X * size.Y
	if len(dst) < channelSize*3 {
		return LetterboxInfo{}, errors.Errorf("destination tensor only holds %d floats, needs %d", len(dst), channelSize*3)
	}

	boxed, info := LetterboxImage(img, size)

	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	i := 0
	for y := 0; y < size.Y; y++ {
		row := boxed.Pix[y*boxed.Stride : y*boxed.Stride+size.X*4]
		for x := 0; x < size.X; x++ {
			red[i] = float32(row[x*4]) / 255.0
			green[i] = float32(row[x*4+1]) / 255.0
			blue[i] = float32(row[x*4+2]) / 255.0
			i++
		}
	}

	return info, nil
}
