package images

import (
	"math/rand"
	"testing"
)

// BenchmarkIoU_NonOverlapping tests rectangles that don't overlap, the early return path.
func BenchmarkIoU_NonOverlapping(b *testing.B) {
	rect1 := Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}
	rect2 := Rect{X1: 200, Y1: 200, X2: 300, Y2: 300}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CalculateIoU(rect1, rect2)
	}
}

// BenchmarkIoU_PartialOverlap tests a typical caption collision.
func BenchmarkIoU_PartialOverlap(b *testing.B) {
	rect1 := Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}
	rect2 := Rect{X1: 50, Y1: 50, X2: 150, Y2: 150}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CalculateIoU(rect1, rect2)
	}
}

// BenchmarkOverlap_RandomPairs benchmarks the containment ratio with random
// rectangle pairs inside a 1920x1080 frame.
func BenchmarkOverlap_RandomPairs(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	pairs := make([]struct{ r1, r2 Rect }, 1000)
	for i := range pairs {
		x1, y1 := rng.Intn(1920), rng.Intn(1080)
		x2, y2 := rng.Intn(1920), rng.Intn(1080)
		pairs[i].r1 = Rect{X1: x1, Y1: y1, X2: x1 + rng.Intn(300) + 20, Y2: y1 + rng.Intn(300) + 20}
		pairs[i].r2 = Rect{X1: x2, Y1: y2, X2: x2 + rng.Intn(300) + 20, Y2: y2 + rng.Intn(300) + 20}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		pair := pairs[i%len(pairs)]
		_ = CalculateOverlap(pair.r1, pair.r2)
	}
}
