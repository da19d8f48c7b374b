// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"fmt"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/wsi"
)

const scPrefix = "engine: swapchain: "

// SwapChain presents rendered images to a window.
type SwapChain struct {
	_       noCopy
	sc      driver.Swapchain
	ctx     *DeviceContext
	typ     driver.DriverType
	level   driver.FeatureLevel
	samples int
	quality int
	sync    int

	// Acquired to create sc and released after it.
	pdev    driver.PresentDevice
	adapter driver.Adapter
	factory driver.Factory

	destroyed bool
}

// Init creates a swapchain for win and stores its back
// buffer in backBuf.
// The MSAA sample count of cfg is halved until dev
// supports it. The buffers take the current size of win.
// If any step fails, everything acquired so far is
// released and the error is returned.
func (s *SwapChain) Init(dev *GraphicsDevice, ctx *DeviceContext, backBuf *Texture, win wsi.Window, cfg *Config) (err error) {
	const op = "SwapChain.Init"
	switch {
	case s.destroyed:
		return fmt.Errorf(scPrefix+"%w", ErrDestroyed)
	case s.sc != nil:
		return fmt.Errorf(scPrefix+"%w", ErrAlreadyCreated)
	case dev.Device() == nil:
		return notCreated(op, "device")
	case ctx.Context() == nil:
		return notCreated(op, "context")
	case backBuf == nil:
		return notCreated(op, "back buffer texture")
	case win == nil || win.Closed():
		return notCreated(op, "window")
	}
	pres, ok := dev.Device().(driver.Presenter)
	if !ok {
		return newCreationError("PresentDevice", driver.ErrCannotPresent)
	}
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	c.normalize()

	samples, quality, err := negotiateMSAA(dev, c.Format, c.Samples)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			s.release()
		}
	}()
	if s.pdev, err = pres.PresentDevice(); err != nil {
		return newCreationError("PresentDevice", err)
	}
	if s.adapter, err = s.pdev.Adapter(); err != nil {
		return newCreationError("Adapter", err)
	}
	if s.factory, err = s.adapter.Factory(); err != nil {
		return newCreationError("Factory", err)
	}
	desc := driver.SwapchainDesc{
		BufferCount: c.BufferCount,
		Format:      c.Format,
		Width:       win.Width(),
		Height:      win.Height(),
		Samples:     samples,
		Quality:     quality,
		Usage:       driver.URenderTarget,
		Windowed:    true,
	}
	if s.sc, err = s.factory.NewSwapchain(dev.Device(), &desc, win); err != nil {
		return newCreationError("NewSwapchain", err)
	}
	if err = backBuf.initFromSwapchain(s.sc); err != nil {
		return
	}
	caps := dev.Caps()
	s.ctx = ctx
	s.typ = caps.Type
	s.level = caps.Level
	s.samples = samples
	s.quality = quality
	s.sync = 0
	if c.VSync {
		s.sync = 1
	}
	driver.Logger().Info("engine: swapchain created", "adapter", s.adapter.Name(),
		"width", desc.Width, "height", desc.Height, "buffers", desc.BufferCount,
		"samples", samples, "quality", quality)
	return nil
}

// negotiateMSAA returns the highest sample count not
// greater than samples that dev supports for pf, along
// with its highest quality level.
func negotiateMSAA(dev *GraphicsDevice, pf driver.PixelFmt, samples int) (int, int, error) {
	want := samples
	for {
		levels, err := dev.MultisampleQuality(pf, samples)
		if err != nil {
			return 0, 0, err
		}
		if levels > 0 {
			if samples != want {
				driver.Logger().Warn("engine: MSAA sample count reduced", "want", want, "have", samples)
			}
			return samples, levels - 1, nil
		}
		if samples <= 1 {
			return 0, 0, &CreationError{
				Op:     "MultisampleQuality",
				Status: driver.EUnsupported,
				Err:    fmt.Errorf("format %v not renderable: %w", pf, driver.EUnsupported),
			}
		}
		samples /= 2
	}
}

// Present presents the back buffer.
// An occluded window is not an error.
func (s *SwapChain) Present() error {
	if s == nil || s.sc == nil {
		warn("SwapChain.Present", "swapchain not created")
		return nil
	}
	err := s.sc.Present(s.sync)
	if err == nil {
		return nil
	}
	var st driver.Status
	if errors.As(err, &st) && !st.Failed() {
		driver.Logger().Debug("engine: present skipped", "status", st)
		return nil
	}
	return fmt.Errorf(scPrefix+"present: %w", err)
}

// Resize resizes the swapchain buffers and stores the new
// back buffer in backBuf.
// The caller must destroy every view of the back buffer,
// and backBuf itself, before calling Resize. Output targets
// are unbound from the context.
func (s *SwapChain) Resize(width, height int, backBuf *Texture) error {
	if s == nil || s.sc == nil {
		return notCreated("SwapChain.Resize", "swapchain")
	}
	if backBuf == nil {
		return notCreated("SwapChain.Resize", "back buffer texture")
	}
	s.ctx.SetTargets(nil, nil)
	if err := s.sc.Resize(width, height); err != nil {
		return fmt.Errorf(scPrefix+"resize: %w", err)
	}
	driver.Logger().Info("engine: swapchain resized", "width", width, "height", height)
	return backBuf.initFromSwapchain(s.sc)
}

// Swapchain returns the native swapchain.
func (s *SwapChain) Swapchain() driver.Swapchain { return s.sc }

// DriverType returns the type of the driver that created
// the swapchain.
func (s *SwapChain) DriverType() driver.DriverType { return s.typ }

// FeatureLevel returns the feature level of the device.
func (s *SwapChain) FeatureLevel() driver.FeatureLevel { return s.level }

// Samples returns the MSAA sample count of the buffers.
func (s *SwapChain) Samples() int { return s.samples }

// Quality returns the MSAA quality level of the buffers.
func (s *SwapChain) Quality() int { return s.quality }

// CurrentIndex returns the index of the buffer that will
// be displayed next.
func (s *SwapChain) CurrentIndex() int {
	if s == nil || s.sc == nil {
		return 0
	}
	return s.sc.CurrentIndex()
}

// release releases the swapchain and then the handles used
// to create it.
func (s *SwapChain) release() {
	if s.sc != nil {
		s.sc.Destroy()
	}
	if s.pdev != nil {
		s.pdev.Destroy()
	}
	if s.adapter != nil {
		s.adapter.Destroy()
	}
	if s.factory != nil {
		s.factory.Destroy()
	}
	*s = SwapChain{}
}

// Destroy releases the swapchain, the present device, the
// adapter and the factory, in this order.
// A destroyed SwapChain cannot be initialized again.
func (s *SwapChain) Destroy() {
	if s == nil || (s.sc == nil && s.pdev == nil) {
		return
	}
	s.release()
	s.destroyed = true
}
