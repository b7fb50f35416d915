// Package models - Detection model types and their output class sets.
package models

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupportedModel is returned for a model type that cannot be decoded.
var ErrUnsupportedModel = errors.New("unsupported model type")

// Type identifies a YOLO generation and with it the layout of the output tensor.
type Type string

const (
	// TypeYOLOv5 outputs rows of [cx, cy, w, h, objectness, class scores...].
	TypeYOLOv5 Type = "yolov5"
	// TypeYOLOv8 outputs a transposed [4+classes, anchors] tensor without objectness.
	TypeYOLOv8 Type = "yolov8"
	// TypeYOLOv11 shares the YOLOv8 output layout.
	TypeYOLOv11 Type = "yolov11"
)

// Strides are the downsampling factors of the three detection heads.
var Strides = []int{8, 16, 32}

// anchorsPerCell is the number of anchor boxes per grid cell in anchor-based heads.
const anchorsPerCell = 3

// ParseType converts a name such as "yolov8" or "YOLOv11" to a Type.
//
// Arguments:
//   - name: The model type name, case-insensitive.
//
// Returns:
//   - Type: The parsed type.
//   - error: ErrUnsupportedModel if the name is unknown.
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	switch t {
	case TypeYOLOv5, TypeYOLOv8, TypeYOLOv11:
		return t, nil
	}
	return "", errors.Wrapf(ErrUnsupportedModel, "%q", name)
}

// HasObjectness reports whether each prediction carries an objectness score.
func (t Type) HasObjectness() bool {
	return t == TypeYOLOv5
}

// Transposed reports whether the output is laid out attribute-major, [4+classes, anchors].
func (t Type) Transposed() bool {
	return t == TypeYOLOv8 || t == TypeYOLOv11
}

// NumAnchors returns the number of predictions the model emits for an input size.
//
// Arguments:
//   - width: The model input width in pixels.
//   - height: The model input height in pixels.
//
// Returns:
//   - int: The prediction count, for example 8400 for a 640x640 YOLOv8 and 25200 for YOLOv5.
func (t Type) NumAnchors(width, height int) int {
	cells := 0
	for _, s := range Strides {
		cells += (width / s) * (height / s)
	}
	if t.HasObjectness() {
		return cells * anchorsPerCell
	}
	return cells
}

// Attributes returns the number of values per prediction for numClasses classes.
func (t Type) Attributes(numClasses int) int {
	if t.HasObjectness() {
		return 5 + numClasses
	}
	return 4 + numClasses
}
