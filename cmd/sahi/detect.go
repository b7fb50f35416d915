package main

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-sahi/config"
	"github.com/nvr-ai/go-sahi/images"
	"github.com/nvr-ai/go-sahi/models/postprocess"
	"github.com/nvr-ai/go-sahi/profiler"
	"github.com/nvr-ai/go-sahi/render"
	"github.com/nvr-ai/go-sahi/render/cvdraw"
	"github.com/nvr-ai/go-sahi/util"
)

type job struct {
	input  string
	output string
}

// jobs resolves --image/--dir and --output into input and output paths.
func jobs(c *cli.Context) ([]job, error) {
	imagePath, dir, output := c.String(flagImage), c.String(flagDir), c.String(flagOutput)

	switch {
	case imagePath != "" && dir != "":
		return nil, errors.New("--image and --dir are mutually exclusive")
	case imagePath != "":
		if output == "" {
			ext := filepath.Ext(imagePath)
			output = strings.TrimSuffix(imagePath, ext) + "_sahi" + ext
		}
		return []job{{input: imagePath, output: output}}, nil
	case dir != "":
		if output == "" {
			output = filepath.Join(dir, "sahi")
		}
		if err := os.MkdirAll(output, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create output directory %s", output)
		}
		files, err := util.LoadDirectoryImageFiles(dir)
		if err != nil {
			return nil, err
		}
		out := make([]job, 0, len(files))
		for _, f := range files {
			out = append(out, job{input: f.Path, output: filepath.Join(output, filepath.Base(f.Path))})
		}
		return out, nil
	}
	return nil, errors.New("one of --image or --dir is required")
}

func detectAction(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	todo, err := jobs(c)
	if err != nil {
		return err
	}

	tracker := profiler.NewTracker(0)
	predictor, err := newPredictor(cfg, logger, tracker)
	if err != nil {
		return err
	}
	defer predictor.Close()

	predict := predictFunc(c, predictor)
	names := cfg.ClassNames()
	annotator := render.NewAnnotator(cfg.Render, names)

	for _, j := range todo {
		img, err := images.Load(j.input)
		if err != nil {
			return err
		}

		start := time.Now()
		results, err := predict(c.Context, img)
		if err != nil {
			return errors.Wrapf(err, "failed to detect on %s", j.input)
		}

		logger.Info("detected",
			zap.String("image", j.input),
			zap.Int("detections", len(results)),
			zap.Duration("elapsed", time.Since(start)),
		)
		for _, r := range results {
			logger.Info("detection",
				zap.String("image", j.input),
				zap.String("class", names.Name(r.Class)),
				zap.Float32("score", r.Score),
				zap.Float32("left", r.Box.Left),
				zap.Float32("top", r.Box.Top),
				zap.Float32("right", r.Box.Right),
				zap.Float32("bottom", r.Box.Bottom),
			)
		}

		if err := writeAnnotated(cfg, annotator, img, results, j.output); err != nil {
			return err
		}
	}

	tracker.Log(logger)
	return nil
}

// writeAnnotated draws results with the configured renderer and saves the image.
func writeAnnotated(cfg config.Config, annotator *render.Annotator, img image.Image, results []postprocess.Result, path string) error {
	if cfg.Render.Renderer != "opencv" {
		return images.Save(annotator.Annotate(img, results), path)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return errors.Wrap(err, "failed to convert image")
	}
	defer mat.Close()

	cvdraw.Annotate(&mat, results, cfg.ClassNames())
	if !gocv.IMWrite(path, mat) {
		return errors.Errorf("failed to write %s", path)
	}
	return nil
}
