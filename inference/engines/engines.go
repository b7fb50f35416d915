// Package engines - Creates a detector for the configured inference engine.
package engines

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sahi/inference"
	"github.com/nvr-ai/go-sahi/inference/cvdnn"
	"github.com/nvr-ai/go-sahi/inference/onnx"
)

// New creates a detector for config.Engine. An empty engine selects ONNX Runtime.
//
// Arguments:
//   - config: The model and engine configuration.
//
// Returns:
//   - inference.Detector: The loaded detector. The caller owns it and must Close it.
//   - error: An error if the engine is unknown or the model cannot be loaded.
//
// @example
// config := inference.DefaultConfig()
// config.ModelPath = "yolov8n.onnx"
// detector, err := engines.New(config)
func New(config inference.Config) (inference.Detector, error) {
	switch config.Engine {
	case inference.EngineOpenCV:
		d, err := cvdnn.NewDetector(config)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "", inference.EngineONNX:
		d, err := onnx.NewDetector(config)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, errors.Errorf("unknown engine %q", config.Engine)
}
