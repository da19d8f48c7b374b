// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"

	"github.com/gviegas/rcore/driver"
)

// DefaultSampler is the description of a trilinear
// sampler that wraps in every direction.
var DefaultSampler = driver.SamplerDesc{
	Filter: driver.FLinear,
	AddrU:  driver.AWrap,
	AddrV:  driver.AWrap,
	AddrW:  driver.AWrap,
	Cmp:    driver.CNever,
	MinLOD: 0,
	MaxLOD: 1000,
}

// Sampler wraps a driver.Sampler.
type Sampler struct {
	_       noCopy
	sampler driver.Sampler
}

// Init creates the sampler.
// A nil desc means DefaultSampler.
func (s *Sampler) Init(dev *GraphicsDevice, desc *driver.SamplerDesc) error {
	if s.sampler != nil {
		return fmt.Errorf("engine: Sampler.Init: %w", ErrAlreadyCreated)
	}
	if desc == nil {
		desc = &DefaultSampler
	}
	sampler, err := dev.NewSampler(desc)
	if err != nil {
		return err
	}
	s.sampler = sampler
	return nil
}

// Render binds the sampler to the given slot of the pixel
// stage.
func (s *Sampler) Render(ctx *DeviceContext, slot int) {
	if s == nil || s.sampler == nil {
		warn("Sampler.Render", "sampler not created")
		return
	}
	ctx.SetSamplers(driver.SPixel, slot, []driver.Sampler{s.sampler})
}

// Sampler returns the native sampler.
func (s *Sampler) Sampler() driver.Sampler { return s.sampler }

// Destroy releases the native sampler.
func (s *Sampler) Destroy() {
	if s == nil || s.sampler == nil {
		return
	}
	s.sampler.Destroy()
	*s = Sampler{}
}

// Viewport is a full-window viewport with a [0, 1] depth
// range. It has no native object.
type Viewport struct {
	vp driver.Viewport
}

// Init sets the viewport to width by height pixels.
func (v *Viewport) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("engine: Viewport.Init: invalid size %dx%d: %w", width, height, driver.EInvalidArg)
	}
	v.vp = driver.Viewport{Width: float32(width), Height: float32(height), ZNear: 0, ZFar: 1}
	return nil
}

// Render binds the viewport to the rasterizer.
func (v *Viewport) Render(ctx *DeviceContext) {
	if v == nil || v.vp.Width == 0 {
		warn("Viewport.Render", "viewport not created")
		return
	}
	ctx.SetViewports([]driver.Viewport{v.vp})
}

// Viewport returns the viewport.
func (v *Viewport) Viewport() driver.Viewport { return v.vp }

// Destroy resets the viewport.
func (v *Viewport) Destroy() {
	if v != nil {
		*v = Viewport{}
	}
}
