package inference

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-sahi/models"
	"github.com/nvr-ai/go-sahi/models/postprocess"
)

func TestLetterbox(t *testing.T) {
	src := imaging.New(200, 100, color.NRGBA{R: 255, A: 255})
	size := image.Pt(64, 64)
	dst := make([]float32, 3*64*64)

	info, err := Letterbox(src, size, dst)
	require.NoError(t, err)

	assert.InDelta(t, 0.32, info.Scale, 1e-6)
	assert.Equal(t, 0, info.PadX)
	assert.Equal(t, 16, info.PadY)

	at := func(c, x, y int) float32 { return dst[c*64*64+y*64+x] }

	// Border rows are padding gray.
	for c := 0; c < 3; c++ {
		assert.InDelta(t, 114.0/255.0, at(c, 0, 0), 1e-6)
		assert.InDelta(t, 114.0/255.0, at(c, 63, 63), 1e-6)
	}

	// The image area is red.
	assert.InDelta(t, 1.0, at(0, 32, 32), 0.01)
	assert.InDelta(t, 0.0, at(1, 32, 32), 0.01)
	assert.InDelta(t, 0.0, at(2, 32, 32), 0.01)
}

func TestLetterbox_DestinationTooSmall(t *testing.T) {
	_, err := Letterbox(imaging.New(10, 10, color.White), image.Pt(64, 64), make([]float32, 10))
	assert.Error(t, err)
}

func TestLetterboxInfo_Unmap(t *testing.T) {
	info := LetterboxInfo{Scale: 0.32, PadY: 16, SrcWidth: 200, SrcHeight: 100}

	got := info.Unmap(postprocess.Box{Left: 0, Top: 16, Right: 64, Bottom: 48})
	assert.InDelta(t, 0, got.Left, 1e-4)
	assert.InDelta(t, 0, got.Top, 1e-4)
	assert.InDelta(t, 200, got.Right, 1e-3)
	assert.InDelta(t, 100, got.Bottom, 1e-3)

	clipped := info.Unmap(postprocess.Box{Left: -10, Top: 0, Right: 32, Bottom: 32})
	assert.Equal(t, float32(0), clipped.Left)
	assert.Equal(t, float32(0), clipped.Top)
	assert.InDelta(t, 100, clipped.Right, 1e-3)
	assert.InDelta(t, 50, clipped.Bottom, 1e-3)

	results := info.UnmapAll([]postprocess.Result{
		{Box: postprocess.Box{Left: 8, Top: 24, Right: 16, Bottom: 32}},
		{Box: postprocess.Box{Left: 0, Top: 0, Right: 64, Bottom: 10}}, // entirely in the top padding
	})
	require.Len(t, results, 1)
	assert.InDelta(t, 25, results[0].Box.Left, 1e-3)
}

func TestLetterboxImage_KeepsSquareInput(t *testing.T) {
	src := imaging.New(64, 64, color.NRGBA{G: 200, A: 255})

	boxed, info := LetterboxImage(src, image.Pt(64, 64))

	assert.Equal(t, image.Rect(0, 0, 64, 64), boxed.Bounds())
	assert.Equal(t, float32(1), info.Scale)
	assert.Equal(t, uint8(200), boxed.NRGBAAt(0, 0).G)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(), "model path is required")

	cfg.ModelPath = "yolov8n.onnx"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8400, cfg.NumAnchors())
	assert.Equal(t, 80, cfg.NumClasses)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Unknown type", func(c *Config) { c.Type = "ssd" }},
		{"Zero input", func(c *Config) { c.InputShape = image.Point{} }},
		{"Unaligned input", func(c *Config) { c.InputShape = image.Pt(650, 640) }},
		{"No classes", func(c *Config) { c.NumClasses = 0 }},
		{"Confidence above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
		{"Negative NMS", func(c *Config) { c.NMSThreshold = -0.1 }},
		{"Unknown engine", func(c *Config) { c.Engine = "tflite" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := cfg
			tt.mutate(&bad)
			assert.Error(t, bad.Validate())
		})
	}

	cfg.Type = models.TypeYOLOv5
	cfg.Engine = EngineOpenCV
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 25200, cfg.NumAnchors())
}
