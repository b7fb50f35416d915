// Package main is the sahi command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	// Flags.
	flagConfig        = "config"
	flagDebug         = "debug"
	flagModel         = "model"
	flagType          = "type"
	flagBackend       = "backend"
	flagProvider      = "provider"
	flagConfidence    = "confidence"
	flagInputSize     = "input-size"
	flagImage         = "image"
	flagDir           = "dir"
	flagInput         = "input"
	flagOutput        = "output"
	flagSliceWidth    = "slice-width"
	flagSliceHeight   = "slice-height"
	flagOverlapWidth  = "overlap-width"
	flagOverlapHeight = "overlap-height"
	flagAuto          = "auto"
	flagFullFrame     = "full-frame"
	flagRenderer      = "renderer"
	flagWorkers       = "workers"
	flagWidth         = "width"
	flagHeight        = "height"
	flagCodec         = "codec"
	flagMaxFrames     = "max-frames"
)

func main() {
	var logger *zap.Logger

	app := &cli.App{
		Name:  "sahi",
		Usage: "slice-assisted object detection for large images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load pipeline configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			if c.Bool(flagDebug) {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			return err
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "detect",
				Usage: "detect objects in an image or a directory of images and write annotated copies",
				Flags: append(append(modelFlags(), sliceFlags()...),
					&cli.StringFlag{
						Name:  flagImage,
						Usage: "input image `FILE`",
					},
					&cli.StringFlag{
						Name:  flagDir,
						Usage: "directory of input images",
					},
					&cli.StringFlag{
						Name:    flagOutput,
						Aliases: []string{"o"},
						Usage:   "output file for --image, output directory for --dir",
					},
					&cli.StringFlag{
						Name:  flagRenderer,
						Usage: "annotation renderer: gg or opencv",
					},
					&cli.IntFlag{
						Name:  flagWorkers,
						Usage: "tiles inferred concurrently",
					},
				),
				Action: func(c *cli.Context) error {
					return detectAction(c, logger)
				},
			},
			{
				Name:  "plan",
				Usage: "print the tile grid for an image size",
				Flags: append(sliceFlags(),
					&cli.IntFlag{
						Name:     flagWidth,
						Usage:    "image width in pixels",
						Required: true,
					},
					&cli.IntFlag{
						Name:     flagHeight,
						Usage:    "image height in pixels",
						Required: true,
					},
					&cli.IntFlag{
						Name:  flagInputSize,
						Usage: "detector input size used by --auto",
					},
				),
				Action: planAction,
			},
			{
				Name:  "video",
				Usage: "run auto-sliced detection on every frame of a video",
				Flags: append(append(modelFlags(), sliceFlags()...),
					&cli.StringFlag{
						Name:     flagInput,
						Aliases:  []string{"i"},
						Usage:    "input video `FILE`, stream URL or capture device index",
						Required: true,
					},
					&cli.StringFlag{
						Name:     flagOutput,
						Aliases:  []string{"o"},
						Usage:    "output video `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagCodec,
						Value: "mp4v",
						Usage: "FourCC of the output video",
					},
					&cli.IntFlag{
						Name:  flagMaxFrames,
						Usage: "stop after this many frames, 0 for all",
					},
					&cli.IntFlag{
						Name:  flagWorkers,
						Usage: "tiles inferred concurrently",
					},
				),
				Action: func(c *cli.Context) error {
					return videoAction(c, logger)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagModel,
			Aliases: []string{"m"},
			Usage:   "ONNX model `FILE`",
		},
		&cli.StringFlag{
			Name:  flagType,
			Usage: "model output layout: yolov5, yolov8 or yolov11",
		},
		&cli.StringFlag{
			Name:  flagBackend,
			Usage: "inference engine: onnx or opencv",
		},
		&cli.StringFlag{
			Name:  flagProvider,
			Usage: "onnxruntime execution provider: cpu, cuda, tensorrt, coreml or openvino",
		},
		&cli.Float64Flag{
			Name:  flagConfidence,
			Usage: "minimum detection confidence",
		},
		&cli.IntFlag{
			Name:  flagInputSize,
			Usage: "square model input size in pixels",
		},
	}
}

func sliceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  flagSliceWidth,
			Usage: "tile width in pixels",
		},
		&cli.IntFlag{
			Name:  flagSliceHeight,
			Usage: "tile height in pixels",
		},
		&cli.Float64Flag{
			Name:  flagOverlapWidth,
			Usage: "horizontal overlap ratio between tiles",
		},
		&cli.Float64Flag{
			Name:  flagOverlapHeight,
			Usage: "vertical overlap ratio between tiles",
		},
		&cli.BoolFlag{
			Name:  flagAuto,
			Usage: "size tiles to the model input with 0.2 overlap",
		},
		&cli.BoolFlag{
			Name:  flagFullFrame,
			Usage: "run the model once on the whole frame",
		},
	}
}
