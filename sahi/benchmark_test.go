package sahi

import (
	"context"
	"image"
	"testing"

	"github.com/nvr-ai/go-sahi/models/postprocess"
)

// nopDetector returns no detections, isolating the slicing overhead.
type nopDetector struct{}

func (nopDetector) Detect(context.Context, image.Image) ([]postprocess.Result, error) {
	return nil, nil
}
func (nopDetector) InputSize() image.Point { return image.Pt(640, 640) }
func (nopDetector) Close() error           { return nil }

// BenchmarkPredict measures planning, cropping, mapping and merging of a
// 1920x1080 frame without model cost.
//
// @example
// go test -bench=BenchmarkPredict -benchmem ./sahi
func BenchmarkPredict(b *testing.B) {
	p, err := New(nopDetector{}, DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 1920, 1080))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Predict(ctx, img); err != nil {
			b.Fatal(err)
		}
	}
}
