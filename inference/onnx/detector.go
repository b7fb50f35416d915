// Package onnx - YOLO object detection with the onnxruntime library.
package onnx

import (
	"context"
	"image"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/multierr"

	"github.com/nvr-ai/go-sahi/inference"
	"github.com/nvr-ai/go-sahi/inference/providers"
	"github.com/nvr-ai/go-sahi/models/postprocess"
	"github.com/nvr-ai/go-sahi/models/yolo"
)

// Detector runs a YOLO model in an onnxruntime session with preallocated
// input and output tensors. Calls to Detect are serialized.
type Detector struct {
	mu      sync.Mutex
	config  inference.Config
	decode  yolo.Config
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

var _ inference.Detector = (*Detector)(nil)

// outputShape returns the output tensor shape of the configured model.
func outputShape(cfg inference.Config) ort.Shape {
	attrs := int64(cfg.Type.Attributes(cfg.NumClasses))
	anchors := int64(cfg.NumAnchors())
	if cfg.Type.Transposed() {
		return ort.NewShape(1, attrs, anchors)
	}
	return ort.NewShape(1, anchors, attrs)
}

// ioNames returns the first input and output names of the model, falling back
// to the names used by the Ultralytics exporter.
func ioNames(modelPath string) (string, string) {
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil || len(inputs) == 0 || len(outputs) == 0 {
		return "images", "output0"
	}
	return inputs[0].Name, outputs[0].Name
}

// NewDetector creates a new ONNX detector.
//
// Order of operations:
//  1. Runtime setup: loads the onnxruntime shared library once per process.
//  2. Tensor allocation: fixed-shape buffers for the [1, 3, H, W] input and the model output.
//  3. Session options: threading, graph optimization and the execution provider.
//  4. Session creation: loads the model and binds the tensors.
//
// Arguments:
//   - config: The model and provider configuration.
//
// Returns:
//   - *Detector: A detector ready for Detect.
//   - error: An error if the configuration is invalid or the session cannot be created.
func NewDetector(config inference.Config) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := providers.InitializeRuntime(config.Provider); err != nil {
		return nil, err
	}

	inputTensor, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(config.InputShape.Y), int64(config.InputShape.X)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating input tensor")
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape(config))
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "error creating output tensor")
	}

	options, err := providers.NewSessionOptions(config.Provider)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, err
	}
	defer options.Destroy()

	inputName, outputName := ioNames(config.ModelPath)
	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{inputName},
		[]string{outputName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrapf(err, "error creating ORT session for %s", config.ModelPath)
	}

	return &Detector{
		config: config,
		decode: yolo.Config{
			Type:                config.Type,
			NumClasses:          config.NumClasses,
			NumAnchors:          config.NumAnchors(),
			ConfidenceThreshold: config.ConfidenceThreshold,
			NMSThreshold:        config.NMSThreshold,
		},
		session: session,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

// InputSize returns the model input width and height.
func (d *Detector) InputSize() image.Point {
	return d.config.InputShape
}

// Detect letterboxes img into the input tensor, runs the session and decodes
// the output back into img's coordinates.
//
// Arguments:
//   - ctx: Checked before inference starts.
//   - img: The image or tile to run on.
//
// Returns:
//   - []postprocess.Result: Detections relative to img.Bounds().Min, highest score first.
//   - error: ErrNotInitialized after Close, or a runtime error.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]postprocess.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil, inference.ErrNotInitialized
	}

	info, err := inference.Letterbox(img, d.config.InputShape, d.input.GetData())
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare input")
	}

	if err := d.session.Run(); err != nil {
		return nil, errors.Wrap(err, "failed to run inference")
	}

	results, err := yolo.Decode(d.output.GetData(), d.decode)
	if err != nil {
		return nil, err
	}
	return info.UnmapAll(results), nil
}

// Close releases the session and its tensors.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.session != nil {
		err = multierr.Append(err, d.session.Destroy())
		d.session = nil
	}
	if d.input != nil {
		err = multierr.Append(err, d.input.Destroy())
		d.input = nil
	}
	if d.output != nil {
		err = multierr.Append(err, d.output.Destroy())
		d.output = nil
	}
	return err
}
