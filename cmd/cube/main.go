// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Cube renders a spinning cube offscreen for a number of
// frames and reports what was presented.
//
// Usage:
//
//	cube [-config file.toml] [-frames n] [-width w] [-height h] [-v]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gviegas/rcore/engine"
	"github.com/gviegas/rcore/frame"
	"github.com/gviegas/rcore/wsi"
)

func main() {
	var (
		cfgFile = flag.String("config", "", "TOML configuration `file`")
		frames  = flag.Int("frames", 120, "number of frames to render")
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		verbose = flag.Bool("v", false, "log lifecycle and debug-layer messages")
	)
	flag.Parse()
	if *verbose {
		engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := run(*cfgFile, *frames, *width, *height); err != nil {
		fmt.Fprintf(os.Stderr, "cube: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgFile string, frames, width, height int) error {
	cfg := frame.DefaultConfig()
	if cfgFile != "" {
		var err error
		if cfg, err = frame.LoadConfig(cfgFile); err != nil {
			return err
		}
	}
	app := frame.New(cfg)
	win := wsi.NewHeadless(width, height, app)
	if err := app.Init(win); err != nil {
		return err
	}
	defer app.Destroy()
	for app.Frames() < frames {
		ok, err := app.Step()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	sc := app.SwapChain()
	fmt.Printf("%d frames, %dx%d, %d samples, driver %v, level %v\n",
		app.Frames(), app.BackBuffer().Width(), app.BackBuffer().Height(),
		sc.Samples(), sc.DriverType(), sc.FeatureLevel())
	return nil
}
