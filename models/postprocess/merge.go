package postprocess

// MergeConfig controls how detections from overlapping tiles are consolidated.
type MergeConfig struct {
	// IoUThreshold suppresses a detection whose IoU with a kept one exceeds it.
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold"`
	// SmallBoxOverlap suppresses a detection when the intersection covers more than
	// this fraction of the smaller box. This catches an object cut by a tile edge
	// next to its complete twin from the neighbouring tile. 0 disables the check.
	SmallBoxOverlap float32 `json:"small_box_overlap" yaml:"small_box_overlap"`
	// ClassAware restricts suppression to detections of the same class.
	ClassAware bool `json:"class_aware" yaml:"class_aware"`
}

// DefaultMergeConfig returns the merge settings used by the predictor.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		IoUThreshold:    0.45,
		SmallBoxOverlap: 0.7,
		ClassAware:      true,
	}
}

// MergeTiles removes duplicate detections produced by overlapping tiles.
//
// The detections are first ordered by descending score (equal scores keep tile
// order), then kept greedily: a detection is dropped when it overlaps an already
// kept one by more than IoUThreshold, or when their intersection covers more than
// SmallBoxOverlap of the smaller box.
//
// Arguments:
//   - detections: Full-image detections of every tile in row-major tile order.
//   - config: The merge thresholds.
//
// Returns:
//   - []Result: The kept detections, highest score first. The input is not modified.
func MergeTiles(detections []Result, config MergeConfig) []Result {
	if len(detections) == 0 {
		return nil
	}

	sorted := make([]Result, len(detections))
	copy(sorted, detections)
	SortByScore(sorted)

	keep := make([]Result, 0, len(sorted))
	for _, det := range sorted {
		if !suppressed(det, keep, config) {
			keep = append(keep, det)
		}
	}

	return keep
}

func suppressed(det Result, keep []Result, config MergeConfig) bool {
	for _, kept := range keep {
		if config.ClassAware && det.Class != kept.Class {
			continue
		}
		if det.Box.IoU(kept.Box) > config.IoUThreshold {
			return true
		}
		if config.SmallBoxOverlap > 0 && det.Box.Overlap(kept.Box) > config.SmallBoxOverlap {
			return true
		}
	}
	return false
}
