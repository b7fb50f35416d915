package models

import (
	"fmt"

	"github.com/samber/lo"
)

// ClassNames maps zero-based class indices to human-readable labels.
type ClassNames []string

// COCOClasses is the 80 COCO classes in YOLO order (no background).
var COCOClasses = ClassNames{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse",
	"sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie",
	"suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut",
	"cake", "chair", "couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// Name returns the label for idx, or "class_<idx>" when idx is out of range.
func (c ClassNames) Name(idx int) string {
	if idx < 0 || idx >= len(c) {
		return fmt.Sprintf("class_%d", idx)
	}
	return c[idx]
}

// Index returns the class index for name.
//
// Arguments:
//   - name: The class label.
//
// Returns:
//   - int: The zero-based index.
//   - error: An error if name is not in the set.
func (c ClassNames) Index(name string) (int, error) {
	idx := lo.IndexOf(c, name)
	if idx < 0 {
		return -1, fmt.Errorf("class %q not found", name)
	}
	return idx, nil
}

// Indices resolves several names at once, as used by class filters.
func (c ClassNames) Indices(names ...string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, name := range names {
		idx, err := c.Index(name)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}
