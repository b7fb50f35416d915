package main

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-sahi/profiler"
	"github.com/nvr-ai/go-sahi/render/cvdraw"
)

func videoAction(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	input, output := c.String(flagInput), c.String(flagOutput)

	// A numeric input selects a capture device, anything else a file or stream URL.
	var source interface{} = input
	if id, err := strconv.Atoi(input); err == nil {
		source = id
	}

	capture, err := gocv.OpenVideoCapture(source)
	if err != nil {
		return errors.Wrapf(err, "failed to open video %s", input)
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = 30
	}
	width := int(capture.Get(gocv.VideoCaptureFrameWidth))
	height := int(capture.Get(gocv.VideoCaptureFrameHeight))

	writer, err := gocv.VideoWriterFile(output, c.String(flagCodec), fps, width, height, true)
	if err != nil {
		return errors.Wrapf(err, "failed to create video %s", output)
	}
	defer writer.Close()

	tracker := profiler.NewTracker(0)
	predictor, err := newPredictor(cfg, logger, tracker)
	if err != nil {
		return err
	}
	defer predictor.Close()

	predict := predictFunc(c, predictor)
	names := cfg.ClassNames()
	maxFrames := c.Int(flagMaxFrames)

	logger.Info("processing video",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("fps", fps),
	)

	frame := gocv.NewMat()
	defer frame.Close()

	start := time.Now()
	count := 0
	for maxFrames <= 0 || count < maxFrames {
		if err := c.Context.Err(); err != nil {
			return err
		}
		if ok := capture.Read(&frame); !ok || frame.Empty() {
			break
		}

		img, err := frame.ToImage()
		if err != nil {
			return errors.Wrapf(err, "failed to convert frame %d", count)
		}

		results, err := predict(c.Context, img)
		if err != nil {
			return errors.Wrapf(err, "failed to detect on frame %d", count)
		}

		cvdraw.Annotate(&frame, results, names)
		if err := writer.Write(frame); err != nil {
			return errors.Wrapf(err, "failed to write frame %d", count)
		}

		count++
		logger.Debug("processed frame", zap.Int("frame", count), zap.Int("detections", len(results)))
	}

	elapsed := time.Since(start)
	logger.Info("finished video",
		zap.Int("frames", count),
		zap.Duration("elapsed", elapsed),
		zap.Float64("fps", float64(count)/max(elapsed.Seconds(), 1e-9)),
	)
	tracker.Log(logger)
	return nil
}
