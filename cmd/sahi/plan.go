package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nvr-ai/go-sahi/slice"
)

func planAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	width, height := c.Int(flagWidth), c.Int(flagHeight)

	sliceCfg := cfg.Slice.Resolve(cfg.Model.InputShape)
	if c.Bool(flagFullFrame) {
		sliceCfg = slice.FullFrame(width, height)
	}

	grid, err := slice.NewGrid(width, height, sliceCfg)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "image %dx%d, tiles %dx%d overlap %.2f/%.2f: %d columns x %d rows = %d tiles\n",
		width, height, grid.SliceWidth, grid.SliceHeight,
		sliceCfg.OverlapWidth, sliceCfg.OverlapHeight,
		grid.Columns, grid.Rows, grid.Len())
	for _, t := range grid.Tiles {
		fmt.Fprintf(w, "  %s -> %v\n", t, t.Rect().Image())
	}
	return nil
}
