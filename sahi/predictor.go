// Package sahi - Slice-assisted inference: runs a detector over overlapping tiles
// of a frame and merges the tile detections into frame coordinates.
package sahi

import (
	"context"
	"image"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nvr-ai/go-sahi/inference"
	"github.com/nvr-ai/go-sahi/models/postprocess"
	"github.com/nvr-ai/go-sahi/profiler"
	"github.com/nvr-ai/go-sahi/slice"
)

// Options configures a Predictor.
type Options struct {
	// Slice is the tiling used by Predict.
	Slice slice.Config
	// Merge controls how detections from overlapping tiles are combined.
	Merge postprocess.MergeConfig
	// Workers is the number of tiles inferred at once. Values below 2 run tiles sequentially.
	Workers int
	// Logger receives debug output. Nil disables logging.
	Logger *zap.Logger
	// Profiler receives stage timings. Nil disables timing.
	Profiler *profiler.Tracker
	// Postprocessors run in order on the merged detections.
	Postprocessors []postprocess.Postprocessor
}

// DefaultOptions returns auto-sized tiles, the default merge and sequential inference.
func DefaultOptions() Options {
	return Options{
		Slice:   slice.DefaultConfig(),
		Merge:   postprocess.DefaultMergeConfig(),
		Workers: 1,
	}
}

// Predictor runs a detector over sliced frames. The tile buffer is reused
// between frames of the same size, so calls are serialized.
type Predictor struct {
	mu       sync.Mutex
	detector inference.Detector
	options  Options
	logger   *zap.Logger
	post     postprocess.Postprocessor
	buffer   *slice.Buffer
	closed   bool
}

// New creates a Predictor that owns detector.
//
// Arguments:
//   - detector: The per-tile detector. Closed by Predictor.Close.
//   - options: Slicing, merge and concurrency settings.
//
// Returns:
//   - *Predictor: The predictor.
//   - error: An error if the slice configuration is invalid.
func New(detector inference.Detector, options Options) (*Predictor, error) {
	if detector == nil {
		return nil, errors.New("detector is required")
	}
	if err := options.Slice.Validate(); err != nil {
		return nil, err
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Predictor{
		detector: detector,
		options:  options,
		logger:   logger,
		post:     postprocess.Chain(options.Postprocessors...),
	}, nil
}

// Predict detects objects in img using the configured slicing. Auto slicing
// sizes tiles to the detector input.
//
// Arguments:
//   - ctx: Checked between tiles.
//   - img: The frame.
//
// Returns:
//   - []postprocess.Result: Merged detections in img's pixel coordinates, relative to img.Bounds().Min.
//   - error: An error if planning or inference fails.
func (p *Predictor) Predict(ctx context.Context, img image.Image) ([]postprocess.Result, error) {
	return p.predict(ctx, img, p.options.Slice.Resolve(p.detector.InputSize()))
}

// PredictManual detects objects in img using the given slicing instead of the configured one.
func (p *Predictor) PredictManual(ctx context.Context, img image.Image, cfg slice.Config) ([]postprocess.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return p.predict(ctx, img, cfg.Resolve(p.detector.InputSize()))
}

// PredictFullFrame runs the detector once on the whole of img.
func (p *Predictor) PredictFullFrame(ctx context.Context, img image.Image) ([]postprocess.Result, error) {
	b := img.Bounds()
	return p.predict(ctx, img, slice.FullFrame(b.Dx(), b.Dy()))
}

// Plan returns the grid Predict would use for a frame of the given size.
func (p *Predictor) Plan(width, height int) (*slice.Grid, error) {
	return slice.NewGrid(width, height, p.options.Slice.Resolve(p.detector.InputSize()))
}

func (p *Predictor) predict(ctx context.Context, img image.Image, cfg slice.Config) ([]postprocess.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, inference.ErrNotInitialized
	}

	start := time.Now()
	bounds := img.Bounds()

	done := p.options.Profiler.StartOperation(profiler.StageSlice)
	grid, err := slice.NewGrid(bounds.Dx(), bounds.Dy(), cfg)
	done()
	if err != nil {
		return nil, err
	}

	buf := p.bufferFor(grid)

	done = p.options.Profiler.StartOperation(profiler.StageCrop)
	err = buf.Fill(img)
	done()
	if err != nil {
		return nil, err
	}

	if err := p.detectTiles(ctx, buf); err != nil {
		return nil, err
	}

	done = p.options.Profiler.StartOperation(profiler.StageMap)
	var detections []postprocess.Result
	for _, t := range buf.Grid().Tiles {
		detections = append(detections, postprocess.MapTile(t.Origin(), buf.Outputs[t.Index])...)
	}
	done()

	done = p.options.Profiler.StartOperation(profiler.StageMerge)
	merged := p.post(postprocess.MergeTiles(detections, p.options.Merge))
	done()

	p.logger.Debug("predicted frame",
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
		zap.Int("tiles", grid.Len()),
		zap.Int("detections", len(detections)),
		zap.Int("merged", len(merged)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return merged, nil
}

// bufferFor returns the cached buffer when its grid has the same tiles, otherwise allocates a new one.
func (p *Predictor) bufferFor(grid *slice.Grid) *slice.Buffer {
	if p.buffer != nil {
		old := p.buffer.Grid()
		if old.ImageWidth == grid.ImageWidth && old.ImageHeight == grid.ImageHeight &&
			old.SliceWidth == grid.SliceWidth && old.SliceHeight == grid.SliceHeight &&
			slices.Equal(old.Tiles, grid.Tiles) {
			return p.buffer
		}
	}

	p.buffer = slice.NewBuffer(grid)
	p.logger.Debug("allocated tile buffer",
		zap.Int("tiles", grid.Len()),
		zap.Int("columns", grid.Columns),
		zap.Int("rows", grid.Rows),
		zap.Int("slice_width", grid.SliceWidth),
		zap.Int("slice_height", grid.SliceHeight),
	)
	return p.buffer
}

// detectTiles runs the detector on every tile, writing each tile's results
// into its own output slot.
func (p *Predictor) detectTiles(ctx context.Context, buf *slice.Buffer) error {
	tiles := buf.Grid().Tiles

	detect := func(ctx context.Context, t slice.Tile) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		done := p.options.Profiler.StartOperation(profiler.StageInfer)
		results, err := p.detector.Detect(ctx, buf.Image(t.Index))
		done()
		if err != nil {
			return errors.Wrapf(err, "failed to detect on %s", t)
		}
		buf.SetOutput(t.Index, results)
		return nil
	}

	if p.options.Workers < 2 || len(tiles) < 2 {
		for _, t := range tiles {
			if err := detect(ctx, t); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.Workers)
	for _, t := range tiles {
		g.Go(func() error {
			return detect(gctx, t)
		})
	}
	return g.Wait()
}

// Close closes the detector. Later predictions return inference.ErrNotInitialized.
func (p *Predictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.buffer = nil
	return p.detector.Close()
}
