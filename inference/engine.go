// Package inference - Detector interface, configuration and shared preprocessing for inference backends.
package inference

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sahi/inference/providers"
	"github.com/nvr-ai/go-sahi/models"
	"github.com/nvr-ai/go-sahi/models/postprocess"
)

var (
	// ErrNotInitialized is returned when a detector is used before it is loaded or after Close.
	ErrNotInitialized = errors.New("detector not initialized")
	// ErrUnsupportedModel is returned for a model type no backend can decode.
	ErrUnsupportedModel = models.ErrUnsupportedModel
)

// Detector runs an object detection model on one image at a time.
type Detector interface {
	// Detect returns the detections in img, in img's own pixel coordinates with
	// the origin at img.Bounds().Min.
	Detect(ctx context.Context, img image.Image) ([]postprocess.Result, error)
	// InputSize returns the model's native input width and height.
	InputSize() image.Point
	// Close releases the model.
	Close() error
}

// EngineType selects the inference backend.
type EngineType string

const (
	// EngineONNX runs models with the onnxruntime library.
	EngineONNX EngineType = "onnx"
	// EngineOpenCV runs models with the OpenCV DNN module.
	EngineOpenCV EngineType = "opencv"
)

// Config describes a detection model and how to run it.
type Config struct {
	// Engine selects the inference backend.
	Engine EngineType `json:"engine" yaml:"engine"`
	// ModelPath specifies the path to the ONNX model file.
	ModelPath string `json:"model_path" yaml:"model_path"`
	// Type selects the output decoding.
	Type models.Type `json:"type" yaml:"type"`
	// InputShape defines the model input dimensions (width, height).
	InputShape image.Point `json:"input_shape" yaml:"input_shape"`
	// ConfidenceThreshold filters detections below this confidence level.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// NMSThreshold controls the per-image Non-Maximum Suppression IoU threshold.
	NMSThreshold float32 `json:"nms_threshold" yaml:"nms_threshold"`
	// NumClasses is the number of classes the model predicts.
	NumClasses int `json:"num_classes" yaml:"num_classes"`
	// Provider configures the onnxruntime execution provider.
	Provider providers.Config `json:"provider" yaml:"provider"`
}

// DefaultConfig returns a configuration for a 640x640 COCO YOLOv8 model.
//
// @example
// config := DefaultConfig()
// config.ModelPath = "path/to/model.onnx"
// detector, err := onnx.NewDetector(config)
func DefaultConfig() Config {
	return Config{
		Engine:              EngineONNX,
		Type:                models.TypeYOLOv8,
		InputShape:          image.Point{X: 640, Y: 640},
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		NumClasses:          len(models.COCOClasses),
		Provider:            providers.DefaultConfig(),
	}
}

// Validate checks the model configuration.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return errors.New("model path is required")
	}
	if _, err := models.ParseType(string(c.Type)); err != nil {
		return err
	}
	if c.InputShape.X <= 0 || c.InputShape.Y <= 0 {
		return errors.Errorf("input shape must be positive, got %v", c.InputShape)
	}
	if c.InputShape.X%32 != 0 || c.InputShape.Y%32 != 0 {
		return errors.Errorf("input shape must be a multiple of 32, got %v", c.InputShape)
	}
	if c.NumClasses <= 0 {
		return errors.Errorf("num classes must be positive, got %d", c.NumClasses)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return errors.Errorf("confidence threshold must be in [0, 1], got %v", c.ConfidenceThreshold)
	}
	if c.NMSThreshold < 0 || c.NMSThreshold > 1 {
		return errors.Errorf("nms threshold must be in [0, 1], got %v", c.NMSThreshold)
	}
	switch c.Engine {
	case "", EngineONNX:
		return c.Provider.Validate()
	case EngineOpenCV:
		return nil
	}
	return errors.Errorf("unknown engine %q", c.Engine)
}

// NumAnchors returns the number of predictions in the model output.
func (c Config) NumAnchors() int {
	return c.Type.NumAnchors(c.InputShape.X, c.InputShape.Y)
}
