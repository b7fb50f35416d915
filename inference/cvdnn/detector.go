// Package cvdnn - YOLO object detection with the OpenCV DNN module.
package cvdnn

import (
	"context"
	"image"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-sahi/inference"
	"github.com/nvr-ai/go-sahi/models/postprocess"
	"github.com/nvr-ai/go-sahi/models/yolo"
)

// Detector handles ONNX model inference using gocv.ReadNet(). Calls to Detect are serialized.
type Detector struct {
	mu     sync.Mutex
	config inference.Config
	decode yolo.Config
	net    gocv.Net
	loaded bool
}

var _ inference.Detector = (*Detector)(nil)

// NewDetector loads the model with OpenCV.
//
// Arguments:
//   - config: The model configuration. Provider settings are ignored.
//
// Returns:
//   - *Detector: A detector ready for Detect.
//   - error: An error if the configuration is invalid or the model cannot be loaded.
func NewDetector(config inference.Config) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model file not found: %s", config.ModelPath)
	}

	net := gocv.ReadNet(config.ModelPath, "")
	if net.Empty() {
		return nil, errors.Errorf("failed to load ONNX model: %s", config.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendOpenCV)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &Detector{
		config: config,
		decode: yolo.Config{
			Type:                config.Type,
			NumClasses:          config.NumClasses,
			NumAnchors:          config.NumAnchors(),
			ConfidenceThreshold: config.ConfidenceThreshold,
			NMSThreshold:        config.NMSThreshold,
		},
		net:    net,
		loaded: true,
	}, nil
}

// InputSize returns the model input width and height.
func (d *Detector) InputSize() image.Point {
	return d.config.InputShape
}

// Detect letterboxes img, runs a forward pass and decodes the output back into img's coordinates.
//
// Arguments:
//   - ctx: Checked before inference starts.
//   - img: The image or tile to run on.
//
// Returns:
//   - []postprocess.Result: Detections relative to img.Bounds().Min, highest score first.
//   - error: ErrNotInitialized after Close, or an OpenCV error.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]postprocess.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		return nil, inference.ErrNotInitialized
	}

	boxed, info := inference.LetterboxImage(img, d.config.InputShape)
	mat, err := gocv.ImageToMatRGB(boxed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert image")
	}
	defer mat.Close()

	// Convert to blob (normalize and change format)
	blob := gocv.BlobFromImage(mat, 1.0/255.0, d.config.InputShape, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	outputs := d.net.Forward("")
	defer outputs.Close()

	data, err := outputs.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read output")
	}

	results, err := yolo.Decode(data, d.decode)
	if err != nil {
		return nil, err
	}
	return info.UnmapAll(results), nil
}

// DetectMat runs Detect on an OpenCV frame.
func (d *Detector) DetectMat(ctx context.Context, frame gocv.Mat) ([]postprocess.Result, error) {
	img, err := frame.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert frame")
	}
	return d.Detect(ctx, img)
}

// Close releases the network.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		return nil
	}
	d.loaded = false
	return d.net.Close()
}
