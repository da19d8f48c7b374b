// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"fmt"

	"github.com/gviegas/rcore/driver"
)

// device implements driver.Device, driver.Presenter and
// driver.LeakReporter.
type device struct {
	drv    *Driver
	caps   driver.Caps
	ctx    *context
	tab    table
	closed bool
	// Swapchains indexed by window handle.
	chains map[uintptr]*swapchain
}

func newDevice(drv *Driver) *device {
	d := &device{
		drv: drv,
		caps: driver.Caps{
			Type:          drv.cfg.Type,
			Level:         driver.FL11_0,
			MaxImage2D:    drv.cfg.MaxImage2D,
			MaxTargets:    MaxTargets,
			MaxViewports:  MaxViewports,
			MaxVertexBufs: MaxVertexBufs,
			MaxConstBufs:  MaxConstBufs,
			MaxResources:  MaxResources,
			MaxSamplers:   MaxSamplers,
		},
		chains: make(map[uintptr]*swapchain),
	}
	d.ctx = &context{d: d, capture: drv.cfg.CaptureDraws}
	d.ctx.reset()
	return d
}

// Driver implements driver.Device.
func (d *device) Driver() driver.Driver { return d.drv }

// Caps implements driver.Device.
func (d *device) Caps() driver.Caps { return d.caps }

// ImmediateContext implements driver.Device.
func (d *device) ImmediateContext() driver.Context { return d.ctx }

// check runs the common checks of device calls.
func (d *device) check(op string) error {
	if d.closed {
		return fmt.Errorf("soft: %s: %w", op, driver.EDeviceRemoved)
	}
	if s := d.drv.fail(op); s.Failed() {
		return fmt.Errorf("soft: %s: %w", op, s)
	}
	return nil
}

// invalid logs a rejected device call and returns an
// error wrapping driver.EInvalidArg.
func invalid(op, reason string, args ...any) error {
	driver.Logger().Warn("soft: invalid argument", append([]any{"op", op, "reason", reason}, args...)...)
	return fmt.Errorf("soft: %s: %s: %w", op, reason, driver.EInvalidArg)
}

// MultisampleQuality implements driver.Device.
func (d *device) MultisampleQuality(pf driver.PixelFmt, samples int) (int, error) {
	const op = "MultisampleQuality"
	if err := d.check(op); err != nil {
		return 0, err
	}
	if pf.Size() == 0 {
		return 0, invalid(op, "unknown format", "format", pf)
	}
	switch {
	case samples == 1:
		return 1, nil
	case samples < 1 || samples > d.drv.cfg.MaxSamples || samples&(samples-1) != 0:
		return 0, nil
	case pf == driver.R32ui:
		// Integer formats cannot be multisampled.
		return 0, nil
	}
	return 1, nil
}

// checkSamples validates a sample count/quality pair.
func (d *device) checkSamples(op string, pf driver.PixelFmt, samples, quality int) error {
	levels, err := d.MultisampleQuality(pf, samples)
	if err != nil {
		return err
	}
	if quality < 0 || quality >= levels {
		return invalid(op, "unsupported sample count/quality", "format", pf, "samples", samples, "quality", quality)
	}
	return nil
}
