package providers

import (
	"os"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// LibraryEnv overrides the onnxruntime shared library location when set.
const LibraryEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

var initMu sync.Mutex

// SharedLibraryPath returns the onnxruntime shared library to load: the configured
// path, then $ONNXRUNTIME_SHARED_LIBRARY_PATH, then a per-platform default.
func SharedLibraryPath(cfg Config) string {
	if cfg.LibraryPath != "" {
		return cfg.LibraryPath
	}
	if p := os.Getenv(LibraryEnv); p != "" {
		return p
	}

	switch runtime.GOOS {
	case "windows":
		return "./third_party/onnxruntime.dll"
	case "darwin":
		return "./third_party/libonnxruntime.dylib"
	}
	if runtime.GOARCH == "arm64" {
		return "./third_party/onnxruntime_arm64.so"
	}
	return "./third_party/onnxruntime.so"
}

// InitializeRuntime loads the onnxruntime shared library and prepares the
// environment. It is safe to call more than once; only the first call loads.
func InitializeRuntime(cfg Config) error {
	initMu.Lock()
	defer initMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}

	libPath := SharedLibraryPath(cfg)
	if _, err := os.Stat(libPath); err != nil {
		return errors.Wrapf(err, "ONNX Runtime library not found at %s", libPath)
	}

	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "error initializing ORT environment")
	}
	return nil
}

// NewSessionOptions builds session options for cfg: threading, graph
// optimization and the selected execution provider. The caller must Destroy
// the result.
//
// Arguments:
//   - cfg: The provider configuration.
//
// Returns:
//   - *ort.SessionOptions: Configured session options.
//   - error: An error if an option or the execution provider cannot be applied.
func NewSessionOptions(cfg Config) (*ort.SessionOptions, error) {
	level, err := graphOptimizationLevel(cfg.GraphOptimization)
	if err != nil {
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "error creating ORT session options")
	}

	if err := configure(options, cfg, level); err != nil {
		options.Destroy()
		return nil, err
	}
	return options, nil
}

func configure(options *ort.SessionOptions, cfg Config, level ort.GraphOptimizationLevel) error {
	if cfg.IntraOpThreads > 0 {
		if err := options.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
			return errors.Wrap(err, "error setting intra-op threads")
		}
	}
	if cfg.InterOpThreads > 0 {
		if err := options.SetInterOpNumThreads(cfg.InterOpThreads); err != nil {
			return errors.Wrap(err, "error setting inter-op threads")
		}
	}
	if err := options.SetGraphOptimizationLevel(level); err != nil {
		return errors.Wrap(err, "error setting graph optimization level")
	}

	switch cfg.Backend {
	case "", CPUBackend:
		return nil

	case CUDABackend:
		cuda, err := cfg.CUDA.ToNativeProviderOptions()
		if err != nil {
			return errors.Wrap(err, "error creating CUDA provider options")
		}
		defer cuda.Destroy()
		return errors.Wrap(options.AppendExecutionProviderCUDA(cuda), "error enabling CUDA")

	case TensorRTBackend:
		trt, err := cfg.CUDA.ToNativeTensorRTOptions()
		if err != nil {
			return errors.Wrap(err, "error creating TensorRT provider options")
		}
		defer trt.Destroy()
		return errors.Wrap(options.AppendExecutionProviderTensorRT(trt), "error enabling TensorRT")

	case CoreMLBackend:
		return errors.Wrap(options.AppendExecutionProviderCoreML(cfg.CoreML.Flags()), "error enabling CoreML")

	case OpenVINOBackend:
		return errors.Wrap(options.AppendExecutionProviderOpenVINO(cfg.OpenVINO.Values()), "error enabling OpenVINO")
	}

	return errors.Wrapf(ErrUnsupportedBackend, "%q", cfg.Backend)
}
