// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package engine implements the core of a real-time
// renderer on top of a driver.Device.
//
// Every GPU object is wrapped by a type with an explicit
// lifecycle: the zero value is uninitialized, Init (or one
// of its variants) creates the native object and Destroy
// releases it. Destroy is idempotent, and calling Render or
// a bind method before Init logs a warning and does
// nothing. Wrappers must not be copied.
package engine

import (
	"log/slog"

	"github.com/gviegas/rcore/driver"
)

const (
	// The maximum number of swapchain buffers.
	MaxBufferCount = 16

	// The maximum number of MSAA samples.
	MaxSamples = 32

	dflBufferCount = 2
	dflFormat      = driver.RGBA8un
	dflDepthFormat = driver.D24unS8ui
	dflSamples     = 4
)

// Config is used to configure presentation.
type Config struct {
	// Name of the driver to use. It need only be
	// a substring of the driver name, and case is
	// ignored.
	//
	// Default is "" (any driver).
	Driver string `toml:"driver"`

	// The number of swapchain buffers.
	//
	// Default is 2.
	BufferCount int `toml:"buffer_count"`

	// The pixel format of the swapchain buffers.
	//
	// Default is driver.RGBA8un.
	Format driver.PixelFmt `toml:"format"`

	// The pixel format of the depth/stencil target.
	//
	// Default is driver.D24unS8ui.
	DepthFormat driver.PixelFmt `toml:"depth_format"`

	// The preferred number of MSAA samples.
	// It is halved until the device supports it.
	//
	// Default is 4.
	Samples int `toml:"samples"`

	// Whether to wait for vertical sync on present.
	//
	// Default is false.
	VSync bool `toml:"vsync"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BufferCount: dflBufferCount,
		Format:      dflFormat,
		DepthFormat: dflDepthFormat,
		Samples:     dflSamples,
	}
}

// normalize replaces invalid values of c by defaults.
func (c *Config) normalize() {
	if c.BufferCount < 1 || c.BufferCount > MaxBufferCount {
		c.BufferCount = dflBufferCount
	}
	if c.Format == driver.FUnknown || c.Format.IsDepth() {
		c.Format = dflFormat
	}
	if !c.DepthFormat.IsDepth() {
		c.DepthFormat = dflDepthFormat
	}
	c.Samples = min(max(c.Samples, 1), MaxSamples)
}

// SetLogger sets the logger used by the engine and by
// the drivers. It forwards to driver.SetLogger.
func SetLogger(l *slog.Logger) { driver.SetLogger(l) }

// warn logs a call that was ignored.
func warn(op, msg string, args ...any) {
	driver.Logger().Warn("engine: "+msg, append([]any{"op", op}, args...)...)
}

// noCopy may be embedded into structs which must not be
// copied after first use. go vet's copylocks check reports
// such copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
