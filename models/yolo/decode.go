// Package yolo - Decoding of raw YOLO output tensors into detections.
package yolo

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sahi/models"
	"github.com/nvr-ai/go-sahi/models/postprocess"
)

// Config describes the output tensor and the thresholds applied while decoding.
type Config struct {
	Type                models.Type
	NumClasses          int
	NumAnchors          int
	ConfidenceThreshold float32
	NMSThreshold        float32
}

// Decode converts a flat YOLO output into detections in model input pixels.
//
// YOLOv5 outputs are read row by row, [anchors, 5+classes], and the score is
// objectness times the best class score. YOLOv8 and YOLOv11 outputs are read
// attribute-major, [4+classes, anchors], and the score is the best class score.
// Predictions below the confidence threshold are dropped and the rest go through
// class-aware greedy NMS.
//
// Arguments:
//   - output: The raw output tensor data.
//   - cfg: The layout and thresholds.
//
// Returns:
//   - []postprocess.Result: Detections sorted by descending score.
//   - error: An error if the output size does not match the layout.
func Decode(output []float32, cfg Config) ([]postprocess.Result, error) {
	if !cfg.Type.HasObjectness() && !cfg.Type.Transposed() {
		return nil, errors.Wrapf(models.ErrUnsupportedModel, "%q", cfg.Type)
	}
	attrs := cfg.Type.Attributes(cfg.NumClasses)
	if cfg.NumClasses <= 0 || cfg.NumAnchors <= 0 {
		return nil, errors.Errorf("invalid output layout: %d classes, %d anchors", cfg.NumClasses, cfg.NumAnchors)
	}
	if len(output) != attrs*cfg.NumAnchors {
		return nil, errors.Errorf("output has %d values, expected %d x %d", len(output), attrs, cfg.NumAnchors)
	}

	var results []postprocess.Result
	if cfg.Type.HasObjectness() {
		results = decodeRows(output, cfg)
	} else {
		results = decodeColumns(output, cfg)
	}

	postprocess.SortByScore(results)
	return postprocess.ApplyGreedyNMS(results, &postprocess.NMSConfig{
		IoUThreshold: cfg.NMSThreshold,
		ClassAware:   true,
	}), nil
}

// decodeRows reads the [anchors, 5+classes] layout.
func decodeRows(output []float32, cfg Config) []postprocess.Result {
	numCols := 5 + cfg.NumClasses
	results := make([]postprocess.Result, 0, 64)

	for i := 0; i < cfg.NumAnchors; i++ {
		offset := i * numCols
		objConf := output[offset+4]
		if objConf < cfg.ConfidenceThreshold {
			continue
		}

		classID := 0
		maxScore := float32(0)
		for j := 5; j < numCols; j++ {
			score := output[offset+j]
			if score > maxScore {
				maxScore = score
				classID = j - 5
			}
		}

		finalScore := objConf * maxScore
		if finalScore < cfg.ConfidenceThreshold {
			continue
		}

		results = append(results, postprocess.Result{
			Box:   centerBox(output[offset], output[offset+1], output[offset+2], output[offset+3]),
			Score: finalScore,
			Class: classID,
		})
	}

	return results
}

// decodeColumns reads the [4+classes, anchors] layout.
func decodeColumns(output []float32, cfg Config) []postprocess.Result {
	n := cfg.NumAnchors
	results := make([]postprocess.Result, 0, 64)

	for idx := 0; idx < n; idx++ {
		classID := 0
		probability := float32(-1e9)
		for col := 0; col < cfg.NumClasses; col++ {
			p := output[n*(col+4)+idx]
			if p > probability {
				probability = p
				classID = col
			}
		}

		if probability < cfg.ConfidenceThreshold {
			continue
		}

		results = append(results, postprocess.Result{
			Box:   centerBox(output[idx], output[n+idx], output[2*n+idx], output[3*n+idx]),
			Score: probability,
			Class: classID,
		})
	}

	return results
}

func centerBox(cx, cy, w, h float32) postprocess.Box {
	return postprocess.Box{
		Left:   cx - w/2,
		Top:    cy - h/2,
		Right:  cx + w/2,
		Bottom: cy + h/2,
	}
}
