// Package render - Drawing of detections and their captions on images.
package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ClassColor returns a stable color for a class index. Hue and saturation are
// hashed from the index and the value is fixed at 1, so neighbouring classes
// get visibly different colors.
func ClassColor(id int) color.NRGBA {
	u := uint32(id)
	hue := float64(((u<<2)^0x937151)%100) / 100
	sat := float64(((u<<3)^0x315793)%100) / 100

	r, g, b := colorful.Hsv(hue*360, sat, 1).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
