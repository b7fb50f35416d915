// Package providers - ONNX Runtime execution provider selection and session options.
package providers

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// Backend identifies an ONNX Runtime execution provider.
type Backend string

const (
	// CPUBackend uses the default CPU execution provider.
	CPUBackend Backend = "cpu"
	// CUDABackend uses NVIDIA CUDA for GPU acceleration.
	CUDABackend Backend = "cuda"
	// TensorRTBackend uses NVIDIA TensorRT for optimized inference.
	TensorRTBackend Backend = "tensorrt"
	// CoreMLBackend uses Apple CoreML for macOS/iOS acceleration.
	CoreMLBackend Backend = "coreml"
	// OpenVINOBackend uses Intel OpenVINO for inference optimization.
	OpenVINOBackend Backend = "openvino"
)

// ErrUnsupportedBackend is returned for an unknown execution provider name.
var ErrUnsupportedBackend = errors.New("unsupported execution provider")

// ParseBackend converts a provider name to a Backend. An empty name selects the CPU.
func ParseBackend(name string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(name)))
	switch b {
	case "":
		return CPUBackend, nil
	case CPUBackend, CUDABackend, TensorRTBackend, CoreMLBackend, OpenVINOBackend:
		return b, nil
	}
	return "", errors.Wrapf(ErrUnsupportedBackend, "%q", name)
}

// Config selects the execution provider and the threading of an inference session.
type Config struct {
	// Backend specifies the execution provider to use.
	Backend Backend `json:"backend" yaml:"backend"`
	// LibraryPath overrides the onnxruntime shared library location.
	LibraryPath string `json:"library_path" yaml:"library_path"`
	// IntraOpThreads parallelizes execution within graph nodes. 0 uses the runtime default.
	IntraOpThreads int `json:"intra_op_threads" yaml:"intra_op_threads"`
	// InterOpThreads parallelizes execution across independent graph nodes. 0 uses the runtime default.
	InterOpThreads int `json:"inter_op_threads" yaml:"inter_op_threads"`
	// GraphOptimization is one of "disable", "basic", "extended" or "all".
	GraphOptimization string `json:"graph_optimization" yaml:"graph_optimization"`
	// CUDA configures the CUDA and TensorRT backends.
	CUDA CUDAOptions `json:"cuda" yaml:"cuda"`
	// CoreML configures the CoreML backend.
	CoreML CoreMLOptions `json:"coreml" yaml:"coreml"`
	// OpenVINO configures the OpenVINO backend.
	OpenVINO OpenVINOOptions `json:"openvino" yaml:"openvino"`
}

// DefaultConfig returns a CPU configuration with threads sized to the host.
//
// @example
// config := DefaultConfig()
// config.Backend = CUDABackend
// options, err := NewSessionOptions(config)
func DefaultConfig() Config {
	return Config{
		Backend:           CPUBackend,
		IntraOpThreads:    max(1, runtime.NumCPU()/2),
		InterOpThreads:    max(1, runtime.NumCPU()/4),
		GraphOptimization: "extended",
		OpenVINO:          DefaultOpenVINOOptions(),
	}
}

// Validate checks the backend name and thread counts.
func (c Config) Validate() error {
	if _, err := ParseBackend(string(c.Backend)); err != nil {
		return err
	}
	if c.IntraOpThreads < 0 || c.InterOpThreads < 0 {
		return errors.Errorf("thread counts must not be negative, got intra=%d inter=%d", c.IntraOpThreads, c.InterOpThreads)
	}
	if _, err := graphOptimizationLevel(c.GraphOptimization); err != nil {
		return err
	}
	return nil
}

func graphOptimizationLevel(name string) (ort.GraphOptimizationLevel, error) {
	switch strings.ToLower(name) {
	case "disable", "none":
		return ort.GraphOptimizationLevelDisableAll, nil
	case "basic":
		return ort.GraphOptimizationLevelEnableBasic, nil
	case "", "extended":
		return ort.GraphOptimizationLevelEnableExtended, nil
	case "all":
		return ort.GraphOptimizationLevelEnableAll, nil
	}
	return 0, errors.Errorf("unknown graph optimization level %q", name)
}
