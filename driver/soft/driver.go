// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package soft implements driver interfaces in software.
//
// Resources live in CPU memory. Clears, copies, updates and
// presentation are carried out on that memory; draw calls
// capture the bound pipeline state instead of rasterizing.
// The backend keeps a table of live objects and validates
// its inputs the way a debug layer would, logging misuse
// through driver.Logger.
//
// The driver registers itself under the name "soft".
// Use New to obtain unregistered instances.
package soft

import (
	"github.com/gviegas/rcore/driver"
)

const driverName = "soft"

// Default limits.
const (
	MaxImage2D    = 16384
	MaxTargets    = 8
	MaxViewports  = 16
	MaxVertexBufs = 16
	MaxConstBufs  = 14
	MaxResources  = 128
	MaxSamplers   = 16
	MaxSamples    = 8
)

// CaptureDraws is the default number of draw calls that a
// context keeps for inspection.
const CaptureDraws = 64

// Config configures a Driver.
type Config struct {
	// Name overrides the driver name.
	Name string
	// MaxSamples limits the supported sample counts.
	// Zero means MaxSamples.
	MaxSamples int
	// MaxImage2D limits the size of 2D images.
	// Zero means MaxImage2D.
	MaxImage2D int
	// Type is the driver type that the device reports.
	// DTUnknown means DTReference.
	Type driver.DriverType
	// CaptureDraws is the number of most recent draw calls
	// kept by the context (see Draws).
	// Zero means CaptureDraws and a negative value disables
	// the capture.
	CaptureDraws int
	// Fail, if not nil, is called at the start of every
	// device call that can fail, with the name of the
	// call (e.g., "NewImage"). A failure Status that it
	// returns is returned by the call.
	Fail func(op string) driver.Status
}

// Driver implements driver.Driver.
type Driver struct {
	cfg Config
	dev *device
}

func init() {
	driver.Register(New())
}

// New returns a new, unregistered Driver with the default
// configuration.
func New() *Driver { return NewWith(Config{}) }

// NewWith returns a new, unregistered Driver.
func NewWith(cfg Config) *Driver {
	if cfg.Name == "" {
		cfg.Name = driverName
	}
	if cfg.MaxSamples <= 0 || cfg.MaxSamples > MaxSamples {
		cfg.MaxSamples = MaxSamples
	}
	if cfg.MaxImage2D <= 0 || cfg.MaxImage2D > MaxImage2D {
		cfg.MaxImage2D = MaxImage2D
	}
	if cfg.Type <= driver.DTUnknown || cfg.Type > driver.DTReference {
		cfg.Type = driver.DTReference
	}
	switch {
	case cfg.CaptureDraws == 0:
		cfg.CaptureDraws = CaptureDraws
	case cfg.CaptureDraws < 0:
		cfg.CaptureDraws = 0
	}
	return &Driver{cfg: cfg}
}

// Open implements driver.Driver.
func (d *Driver) Open() (driver.Device, error) {
	if d.dev != nil {
		return d.dev, nil
	}
	if s := d.fail("Open"); s.Failed() {
		return nil, s
	}
	d.dev = newDevice(d)
	driver.Logger().Info("device opened", "driver", d.cfg.Name, "type", d.cfg.Type, "level", driver.FL11_0)
	return d.dev, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return d.cfg.Name }

// Close implements driver.Driver.
// Objects that are still alive are reported and
// abandoned.
func (d *Driver) Close() {
	if d.dev == nil {
		return
	}
	d.dev.ctx.ClearState()
	if live := d.dev.LiveObjects(); len(live) > 0 {
		driver.Logger().Warn("device closed with live objects", "driver", d.cfg.Name, "count", len(live), "objects", live)
	}
	d.dev.closed = true
	d.dev = nil
	driver.Logger().Info("device closed", "driver", d.cfg.Name)
}

func (d *Driver) fail(op string) driver.Status {
	if d.cfg.Fail == nil {
		return driver.SOK
	}
	return d.cfg.Fail(op)
}
