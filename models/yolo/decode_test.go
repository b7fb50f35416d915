package yolo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-sahi/models"
	"github.com/nvr-ai/go-sahi/models/postprocess"
)

// transpose lays out per-anchor rows attribute-major as YOLOv8 does.
func transpose(rows [][]float32) []float32 {
	attrs := len(rows[0])
	out := make([]float32, attrs*len(rows))
	for i, row := range rows {
		for a, v := range row {
			out[a*len(rows)+i] = v
		}
	}
	return out
}

func TestDecode_YOLOv8(t *testing.T) {
	output := transpose([][]float32{
		{50, 50, 20, 10, 0.9, 0.1},
		{52, 50, 20, 10, 0.8, 0.2}, // duplicate of the first, suppressed
		{10, 10, 4, 4, 0.1, 0.3},   // below threshold
		{200, 100, 40, 40, 0.2, 0.7},
	})

	results, err := Decode(output, Config{
		Type:                models.TypeYOLOv8,
		NumClasses:          2,
		NumAnchors:          4,
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, postprocess.Box{Left: 40, Top: 45, Right: 60, Bottom: 55}, results[0].Box)
	assert.Equal(t, float32(0.9), results[0].Score)
	assert.Equal(t, 0, results[0].Class)

	assert.Equal(t, postprocess.Box{Left: 180, Top: 80, Right: 220, Bottom: 120}, results[1].Box)
	assert.Equal(t, 1, results[1].Class)
}

func TestDecode_YOLOv5(t *testing.T) {
	output := []float32{
		100, 100, 50, 50, 0.9, 0.2, 0.8,
		100, 100, 50, 50, 0.4, 0.9, 0.1, // low objectness
		300, 300, 10, 10, 0.6, 0.5, 0.1, // 0.6 * 0.5 below threshold
	}

	results, err := Decode(output, Config{
		Type:                models.TypeYOLOv5,
		NumClasses:          2,
		NumAnchors:          3,
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, postprocess.Box{Left: 75, Top: 75, Right: 125, Bottom: 125}, results[0].Box)
	assert.InDelta(t, 0.72, results[0].Score, 1e-6)
	assert.Equal(t, 1, results[0].Class)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(make([]float32, 10), Config{Type: models.TypeYOLOv8, NumClasses: 2, NumAnchors: 3})
	assert.Error(t, err)

	_, err = Decode(nil, Config{Type: models.TypeYOLOv8})
	assert.Error(t, err)

	_, err = Decode(make([]float32, 18), Config{Type: "yolov3", NumClasses: 2, NumAnchors: 3})
	assert.ErrorIs(t, err, models.ErrUnsupportedModel)
}

func TestDecode_NothingAboveThreshold(t *testing.T) {
	results, err := Decode(make([]float32, 18), Config{
		Type:                models.TypeYOLOv11,
		NumClasses:          2,
		NumAnchors:          3,
		ConfidenceThreshold: 0.5,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}
