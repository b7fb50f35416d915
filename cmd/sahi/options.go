package main

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-sahi/config"
	"github.com/nvr-ai/go-sahi/inference"
	"github.com/nvr-ai/go-sahi/inference/engines"
	"github.com/nvr-ai/go-sahi/inference/providers"
	"github.com/nvr-ai/go-sahi/models"
	"github.com/nvr-ai/go-sahi/models/postprocess"
	"github.com/nvr-ai/go-sahi/profiler"
	"github.com/nvr-ai/go-sahi/sahi"
)

// loadConfig reads --config and applies every flag the user set on top of it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return cfg, err
	}

	if c.IsSet(flagModel) {
		cfg.Model.ModelPath = c.String(flagModel)
	}
	if c.IsSet(flagType) {
		t, err := models.ParseType(c.String(flagType))
		if err != nil {
			return cfg, err
		}
		cfg.Model.Type = t
	}
	if c.IsSet(flagBackend) {
		cfg.Model.Engine = inference.EngineType(c.String(flagBackend))
	}
	if c.IsSet(flagProvider) {
		b, err := providers.ParseBackend(c.String(flagProvider))
		if err != nil {
			return cfg, err
		}
		cfg.Model.Provider.Backend = b
	}
	if c.IsSet(flagConfidence) {
		cfg.Model.ConfidenceThreshold = float32(c.Float64(flagConfidence))
	}
	if c.IsSet(flagInputSize) {
		n := c.Int(flagInputSize)
		cfg.Model.InputShape = image.Pt(n, n)
	}

	// Explicit tile sizes switch to manual slicing unless --auto is given too.
	if c.IsSet(flagSliceWidth) {
		cfg.Slice.Width = c.Int(flagSliceWidth)
		cfg.Slice.Auto = false
	}
	if c.IsSet(flagSliceHeight) {
		cfg.Slice.Height = c.Int(flagSliceHeight)
		cfg.Slice.Auto = false
	}
	if c.IsSet(flagOverlapWidth) {
		cfg.Slice.OverlapWidth = float32(c.Float64(flagOverlapWidth))
	}
	if c.IsSet(flagOverlapHeight) {
		cfg.Slice.OverlapHeight = float32(c.Float64(flagOverlapHeight))
	}
	if c.IsSet(flagAuto) {
		cfg.Slice.Auto = c.Bool(flagAuto)
	}

	if c.IsSet(flagRenderer) {
		cfg.Render.Renderer = c.String(flagRenderer)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}

	return cfg, cfg.Validate()
}

// newPredictor loads the model and wraps it in a predictor.
func newPredictor(cfg config.Config, logger *zap.Logger, tracker *profiler.Tracker) (*sahi.Predictor, error) {
	detector, err := engines.New(cfg.Model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load detector")
	}

	logger.Info("loaded model",
		zap.String("model", cfg.Model.ModelPath),
		zap.String("engine", string(cfg.Model.Engine)),
		zap.String("type", string(cfg.Model.Type)),
		zap.Int("input_width", cfg.Model.InputShape.X),
		zap.Int("input_height", cfg.Model.InputShape.Y),
	)

	predictor, err := sahi.New(detector, sahi.Options{
		Slice:    cfg.Slice,
		Merge:    cfg.Merge,
		Workers:  cfg.Workers,
		Logger:   logger,
		Profiler: tracker,
		Postprocessors: []postprocess.Postprocessor{
			postprocess.NewScoreFilter(cfg.Model.ConfidenceThreshold),
		},
	})
	if err != nil {
		_ = detector.Close()
		return nil, err
	}
	return predictor, nil
}

// predictFunc selects full-frame or sliced prediction.
func predictFunc(c *cli.Context, p *sahi.Predictor) func(ctx context.Context, img image.Image) ([]postprocess.Result, error) {
	if c.Bool(flagFullFrame) {
		return p.PredictFullFrame
	}
	return p.Predict
}
