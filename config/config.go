// Package config - File-based configuration of the detection pipeline.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-sahi/inference"
	"github.com/nvr-ai/go-sahi/models"
	"github.com/nvr-ai/go-sahi/models/postprocess"
	"github.com/nvr-ai/go-sahi/render"
	"github.com/nvr-ai/go-sahi/slice"
)

// Config aggregates every pipeline setting.
type Config struct {
	// Model selects the model and inference backend.
	Model inference.Config `json:"model" yaml:"model"`
	// Slice controls how frames are tiled.
	Slice slice.Config `json:"slice" yaml:"slice"`
	// Merge controls cross-tile duplicate suppression.
	Merge postprocess.MergeConfig `json:"merge" yaml:"merge"`
	// Render controls annotation output.
	Render render.Config `json:"render" yaml:"render"`
	// Workers is the number of tiles inferred concurrently.
	Workers int `json:"workers" yaml:"workers"`
	// Classes overrides the class names. Empty uses COCO.
	Classes []string `json:"classes,omitempty" yaml:"classes,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:   inference.DefaultConfig(),
		Slice:   slice.DefaultConfig(),
		Merge:   postprocess.DefaultMergeConfig(),
		Render:  render.DefaultConfig(),
		Workers: 1,
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default values.
//
// Arguments:
//   - path: The YAML file. Empty returns the defaults.
//
// Returns:
//   - Config: The merged configuration.
//   - error: An error if the file cannot be read, parsed or validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}

// Validate checks the slicing, merge and concurrency settings. The model is
// validated when a detector is created, so a configuration without a model
// path is still valid for planning.
func (c Config) Validate() error {
	if err := c.Slice.Validate(); err != nil {
		return err
	}
	if c.Merge.IoUThreshold < 0 || c.Merge.IoUThreshold > 1 {
		return errors.Errorf("merge iou threshold must be in [0, 1], got %v", c.Merge.IoUThreshold)
	}
	if c.Merge.SmallBoxOverlap < 0 || c.Merge.SmallBoxOverlap > 1 {
		return errors.Errorf("merge small box overlap must be in [0, 1], got %v", c.Merge.SmallBoxOverlap)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Render.Renderer {
	case "", "gg", "opencv":
	default:
		return errors.Errorf("unknown renderer %q", c.Render.Renderer)
	}
	return nil
}

// ClassNames returns the configured class names.
func (c Config) ClassNames() models.ClassNames {
	if len(c.Classes) == 0 {
		return models.COCOClasses
	}
	return models.ClassNames(c.Classes)
}
