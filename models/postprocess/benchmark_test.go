package postprocess

import (
	"image"
	"testing"
)

// tileDetections builds the detections of a 4x2 grid of 640px tiles with 0.2
// overlap, each tile reporting the same objects near its overlap band.
func tileDetections() []Result {
	var all []Result
	for row := 0; row < 2; row++ {
		for col := 0; col < 4; col++ {
			origin := image.Pt(col*512, row*440)
			local := make([]Result, 0, 40)
			for i := 0; i < 40; i++ {
				x := float32(i%8) * 70
				y := float32(i/8) * 110
				local = append(local, Result{
					Box:   Box{Left: x, Top: y, Right: x + 60, Bottom: y + 90},
					Score: 0.5 + float32(i%10)/20,
					Class: i % 3,
				})
			}
			all = append(all, MapTile(origin, local)...)
		}
	}
	return all
}

// BenchmarkMergeTiles benchmarks the cross-tile merge of a 1920x1080 frame.
//
// @example
// go test -bench=BenchmarkMergeTiles -benchmem ./models/postprocess
func BenchmarkMergeTiles(b *testing.B) {
	detections := tileDetections()
	config := DefaultMergeConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MergeTiles(detections, config)
	}
}

// BenchmarkBoxIoU benchmarks the IoU used by every suppression step.
func BenchmarkBoxIoU(b *testing.B) {
	box1 := Box{Left: 10, Top: 20, Right: 100, Bottom: 200}
	box2 := Box{Left: 50, Top: 60, Right: 150, Bottom: 250}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = box1.IoU(box2)
	}
}
