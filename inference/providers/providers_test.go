package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input    string
		expected Backend
	}{
		{"", CPUBackend},
		{"cpu", CPUBackend},
		{"CUDA", CUDABackend},
		{"tensorrt", TensorRTBackend},
		{" coreml ", CoreMLBackend},
		{"openvino", OpenVINOBackend},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b, err := ParseBackend(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b)
		})
	}

	_, err := ParseBackend("dnnl")
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.GreaterOrEqual(t, cfg.IntraOpThreads, 1)

	bad := cfg
	bad.Backend = "rocm"
	assert.ErrorIs(t, bad.Validate(), ErrUnsupportedBackend)

	bad = cfg
	bad.InterOpThreads = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.GraphOptimization = "maximum"
	assert.Error(t, bad.Validate())
}

func TestProviderValues(t *testing.T) {
	cuda := CUDAOptions{DeviceID: 1, GPUMemLimit: 2 << 30, CudnnConvAlgoSearch: "HEURISTIC", FP16: true, EngineCachePath: "/tmp/trt"}

	assert.Equal(t, map[string]string{
		"device_id":              "1",
		"gpu_mem_limit":          "2147483648",
		"cudnn_conv_algo_search": "HEURISTIC",
	}, cuda.cudaValues())

	assert.Equal(t, map[string]string{
		"device_id":               "1",
		"trt_fp16_enable":         "true",
		"trt_engine_cache_enable": "1",
		"trt_engine_cache_path":   "/tmp/trt",
	}, cuda.tensorRTValues())

	assert.Equal(t, map[string]string{"device_type": "CPU", "precision": "FP32"}, DefaultOpenVINOOptions().Values())

	assert.Equal(t, uint32(0), CoreMLOptions{}.Flags())
	assert.Equal(t, uint32(0x009), CoreMLOptions{CPUOnly: true, RequireStaticInputShapes: true}.Flags())
}

func TestSharedLibraryPath(t *testing.T) {
	t.Setenv(LibraryEnv, "/opt/ort/libonnxruntime.so")
	assert.Equal(t, "/opt/ort/libonnxruntime.so", SharedLibraryPath(Config{}))
	assert.Equal(t, "/custom.so", SharedLibraryPath(Config{LibraryPath: "/custom.so"}))

	t.Setenv(LibraryEnv, "")
	assert.NotEmpty(t, SharedLibraryPath(Config{}))
}
