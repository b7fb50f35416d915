package providers

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// CUDAOptions contains arguments for the CUDA and TensorRT providers.
// See:
// https://onnxruntime.ai/docs/execution-providers/CUDA-ExecutionProvider.html#configuration-options
type CUDAOptions struct {
	// The device ID.
	DeviceID int `json:"device_id" yaml:"device_id"`
	// The size limit of the device memory arena in bytes. 0 leaves it unlimited.
	GPUMemLimit int64 `json:"gpu_mem_limit" yaml:"gpu_mem_limit"`
	// The type of search done for cuDNN convolution algorithms: EXHAUSTIVE, HEURISTIC or DEFAULT.
	CudnnConvAlgoSearch string `json:"cudnn_conv_algo_search" yaml:"cudnn_conv_algo_search"`
	// TensorRT only: build FP16 engines.
	FP16 bool `json:"fp16" yaml:"fp16"`
	// TensorRT only: directory for the serialized engine cache. Empty disables caching.
	EngineCachePath string `json:"engine_cache_path" yaml:"engine_cache_path"`
}

// cudaValues renders the options in the key format of the CUDA provider.
func (o CUDAOptions) cudaValues() map[string]string {
	values := map[string]string{
		"device_id": fmt.Sprintf("%d", o.DeviceID),
	}
	if o.GPUMemLimit > 0 {
		values["gpu_mem_limit"] = fmt.Sprintf("%d", o.GPUMemLimit)
	}
	if o.CudnnConvAlgoSearch != "" {
		values["cudnn_conv_algo_search"] = o.CudnnConvAlgoSearch
	}
	return values
}

// tensorRTValues renders the options in the key format of the TensorRT provider.
func (o CUDAOptions) tensorRTValues() map[string]string {
	values := map[string]string{
		"device_id":       fmt.Sprintf("%d", o.DeviceID),
		"trt_fp16_enable": fmt.Sprintf("%t", o.FP16),
	}
	if o.EngineCachePath != "" {
		values["trt_engine_cache_enable"] = "1"
		values["trt_engine_cache_path"] = o.EngineCachePath
	}
	return values
}

// ToNativeProviderOptions converts the options to native CUDA provider options.
// The caller must Destroy the result.
func (o CUDAOptions) ToNativeProviderOptions() (*ort.CUDAProviderOptions, error) {
	opts, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return nil, err
	}
	if err := opts.Update(o.cudaValues()); err != nil {
		opts.Destroy()
		return nil, err
	}
	return opts, nil
}

// ToNativeTensorRTOptions converts the options to native TensorRT provider options.
// The caller must Destroy the result.
func (o CUDAOptions) ToNativeTensorRTOptions() (*ort.TensorRTProviderOptions, error) {
	opts, err := ort.NewTensorRTProviderOptions()
	if err != nil {
		return nil, err
	}
	if err := opts.Update(o.tensorRTValues()); err != nil {
		opts.Destroy()
		return nil, err
	}
	return opts, nil
}

// CoreMLOptions contains arguments for the CoreML provider.
// See: https://onnxruntime.ai/docs/execution-providers/CoreML-ExecutionProvider.html
type CoreMLOptions struct {
	// Limit CoreML to running on CPU only.
	CPUOnly bool `json:"cpu_only" yaml:"cpu_only"`
	// Only allow the CoreML EP to take nodes with inputs that have static shapes.
	RequireStaticInputShapes bool `json:"require_static_input_shapes" yaml:"require_static_input_shapes"`
	// Enable CoreML EP to run on a subgraph in the body of a control flow operator.
	EnableOnSubgraphs bool `json:"enable_on_subgraphs" yaml:"enable_on_subgraphs"`
}

// CoreML provider flags, as defined by coreml_provider_factory.h.
const (
	coreMLFlagUseCPUOnly          uint32 = 0x001
	coreMLFlagEnableOnSubgraph    uint32 = 0x002
	coreMLFlagOnlyAllowStaticMode uint32 = 0x008
)

// Flags returns the CoreML provider flag set.
func (o CoreMLOptions) Flags() uint32 {
	var flags uint32
	if o.CPUOnly {
		flags |= coreMLFlagUseCPUOnly
	}
	if o.EnableOnSubgraphs {
		flags |= coreMLFlagEnableOnSubgraph
	}
	if o.RequireStaticInputShapes {
		flags |= coreMLFlagOnlyAllowStaticMode
	}
	return flags
}

// OpenVINOOptions contains arguments for the OpenVINO provider.
// See:
// https://onnxruntime.ai/docs/execution-providers/OpenVINO-ExecutionProvider.html#summary-of-options
type OpenVINOOptions struct {
	// The accelerator hardware type, such as CPU, GPU or NPU.
	DeviceType string `json:"device_type" yaml:"device_type"`
	// FP32, FP16 or ACCURACY.
	Precision string `json:"precision" yaml:"precision"`
	// Number of inference threads. 0 leaves the accelerator default.
	NumOfThreads int `json:"num_of_threads" yaml:"num_of_threads"`
	// Directory for compiled blobs. Empty disables caching.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// DefaultOpenVINOOptions returns CPU FP32 options.
func DefaultOpenVINOOptions() OpenVINOOptions {
	return OpenVINOOptions{DeviceType: "CPU", Precision: "FP32"}
}

// Values renders the options in the key format of the OpenVINO provider.
func (o OpenVINOOptions) Values() map[string]string {
	values := map[string]string{}
	if o.DeviceType != "" {
		values["device_type"] = o.DeviceType
	}
	if o.Precision != "" {
		values["precision"] = o.Precision
	}
	if o.NumOfThreads > 0 {
		values["num_of_threads"] = fmt.Sprintf("%d", o.NumOfThreads)
	}
	if o.CacheDir != "" {
		values["cache_dir"] = o.CacheDir
	}
	return values
}
