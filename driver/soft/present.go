// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"fmt"
	"slices"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/wsi"
)

// Maximum number of swapchain buffers.
const MaxBuffers = 16

// presentDevice implements driver.PresentDevice.
type presentDevice struct {
	object
}

// PresentDevice implements driver.Presenter.
func (d *device) PresentDevice() (driver.PresentDevice, error) {
	if err := d.check("PresentDevice"); err != nil {
		return nil, err
	}
	pd := &presentDevice{}
	d.track(&pd.object, "present-device")
	return pd, nil
}

// Adapter implements driver.PresentDevice.
func (pd *presentDevice) Adapter() (driver.Adapter, error) {
	if pd.refs <= 0 {
		return nil, invalid("Adapter", "released present device")
	}
	if err := pd.d.check("Adapter"); err != nil {
		return nil, err
	}
	a := &adapter{}
	pd.d.track(&a.object, "adapter")
	return a, nil
}

// Destroy implements driver.Destroyer.
func (pd *presentDevice) Destroy() {
	if pd == nil {
		return
	}
	if pd.release() {
		*pd = presentDevice{}
	}
}

// adapter implements driver.Adapter.
type adapter struct {
	object
}

// Name implements driver.Adapter.
func (a *adapter) Name() string { return "Software Reference Adapter" }

// Factory implements driver.Adapter.
func (a *adapter) Factory() (driver.Factory, error) {
	if a.refs <= 0 {
		return nil, invalid("Factory", "released adapter")
	}
	if err := a.d.check("Factory"); err != nil {
		return nil, err
	}
	f := &factory{}
	a.d.track(&f.object, "factory")
	return f, nil
}

// Destroy implements driver.Destroyer.
func (a *adapter) Destroy() {
	if a == nil {
		return
	}
	if a.release() {
		*a = adapter{}
	}
}

// factory implements driver.Factory.
type factory struct {
	object
}

// Destroy implements driver.Destroyer.
func (f *factory) Destroy() {
	if f == nil {
		return
	}
	if f.release() {
		*f = factory{}
	}
}

// swapchain implements driver.Swapchain.
type swapchain struct {
	object
	desc driver.SwapchainDesc
	win  wsi.Window
	hwnd uintptr
	back *image
	// Front buffers, one per buffer beyond the back
	// buffer, holding presented pixels.
	front    [][]byte
	presents int
}

// NewSwapchain implements driver.Factory.
func (f *factory) NewSwapchain(dev driver.Device, desc *driver.SwapchainDesc, win wsi.Window) (driver.Swapchain, error) {
	const op = "NewSwapchain"
	if f.refs <= 0 {
		return nil, invalid(op, "released factory")
	}
	d, ok := dev.(*device)
	if !ok || d != f.d {
		return nil, invalid(op, "device not created by this factory's driver")
	}
	if err := d.check(op); err != nil {
		return nil, err
	}
	switch {
	case desc == nil:
		return nil, invalid(op, "nil description")
	case win == nil || win.Closed() || win.Handle() == 0:
		return nil, fmt.Errorf("soft: %s: %w: %w", op, driver.ErrWindow, driver.EInvalidCall)
	case d.chains[win.Handle()] != nil:
		return nil, fmt.Errorf("soft: %s: window already has a swapchain: %w: %w", op, driver.ErrWindow, driver.EInvalidCall)
	case desc.BufferCount < 1 || desc.BufferCount > MaxBuffers:
		return nil, invalid(op, "invalid buffer count", "count", desc.BufferCount)
	case desc.Usage&driver.URenderTarget == 0:
		return nil, invalid(op, "usage lacks URenderTarget", "usage", desc.Usage)
	case desc.Usage&^(driver.URenderTarget|driver.UShaderResource) != 0:
		return nil, invalid(op, "invalid usage", "usage", desc.Usage)
	case desc.Format.IsDepth() || desc.Format.Size() == 0:
		return nil, invalid(op, "invalid format", "format", desc.Format)
	}
	dsc := *desc
	if dsc.Width == 0 {
		dsc.Width = win.Width()
	}
	if dsc.Height == 0 {
		dsc.Height = win.Height()
	}
	if dsc.Samples == 0 {
		dsc.Samples = 1
	}
	sc := &swapchain{desc: dsc, win: win, hwnd: win.Handle()}
	if err := sc.alloc(d); err != nil {
		return nil, err
	}
	d.track(&sc.object, "swapchain")
	d.chains[sc.hwnd] = sc
	driver.Logger().Info("soft: swapchain created", "width", dsc.Width, "height", dsc.Height,
		"buffers", dsc.BufferCount, "format", dsc.Format, "samples", dsc.Samples)
	return sc, nil
}

// alloc creates the buffers of sc for its current
// description.
func (sc *swapchain) alloc(d *device) error {
	img, err := d.NewImage(&driver.ImageDesc{
		Width:   max(sc.desc.Width, 1),
		Height:  max(sc.desc.Height, 1),
		Format:  sc.desc.Format,
		Samples: sc.desc.Samples,
		Quality: sc.desc.Quality,
		Usage:   sc.desc.Usage,
	}, nil)
	if err != nil {
		return err
	}
	sc.back = img.(*image)
	sc.back.kind = "back-buffer"
	sc.front = make([][]byte, sc.desc.BufferCount)
	for i := range sc.front {
		sc.front[i] = make([]byte, len(sc.back.pix))
	}
	return nil
}

// Buffer implements driver.Swapchain.
// Only buffer 0, the back buffer, is accessible.
func (sc *swapchain) Buffer(i int) (driver.Image, error) {
	if sc.refs <= 0 {
		return nil, invalid("Buffer", "released swapchain")
	}
	if i != 0 {
		return nil, invalid("Buffer", "only buffer 0 is accessible", "index", i)
	}
	sc.back.addRef()
	return sc.back, nil
}

// Present implements driver.Swapchain.
func (sc *swapchain) Present(syncInterval int) error {
	const op = "Present"
	if sc.refs <= 0 {
		return invalid(op, "released swapchain")
	}
	if err := sc.d.check(op); err != nil {
		return err
	}
	if syncInterval < 0 || syncInterval > 4 {
		return invalid(op, "invalid sync interval", "interval", syncInterval)
	}
	if sc.win.Closed() {
		return fmt.Errorf("soft: %s: %w: %w", op, driver.ErrWindow, driver.EInvalidCall)
	}
	if sc.win.Width() == 0 || sc.win.Height() == 0 {
		return driver.SOccluded
	}
	copy(sc.front[sc.CurrentIndex()], sc.back.pix)
	sc.presents++
	return nil
}

// CurrentIndex implements driver.Swapchain.
func (sc *swapchain) CurrentIndex() int {
	if sc.desc.BufferCount == 0 {
		return 0
	}
	return sc.presents % sc.desc.BufferCount
}

// Resize implements driver.Swapchain.
func (sc *swapchain) Resize(width, height int) error {
	const op = "Resize"
	if sc.refs <= 0 {
		return invalid(op, "released swapchain")
	}
	if err := sc.d.check(op); err != nil {
		return err
	}
	if sc.back.refs > 1 {
		warn("swapchain resized while buffers are referenced", "refs", sc.back.refs-1)
		return fmt.Errorf("soft: %s: buffers still referenced: %w", op, driver.EInvalidCall)
	}
	if width == 0 {
		width = sc.win.Width()
	}
	if height == 0 {
		height = sc.win.Height()
	}
	old, desc := sc.back, sc.desc
	sc.desc.Width, sc.desc.Height = width, height
	if err := sc.alloc(sc.d); err != nil {
		sc.back, sc.desc = old, desc
		return err
	}
	old.Destroy()
	driver.Logger().Info("soft: swapchain resized", "width", width, "height", height)
	return nil
}

// Desc implements driver.Swapchain.
func (sc *swapchain) Desc() driver.SwapchainDesc { return sc.desc }

// Destroy implements driver.Destroyer.
func (sc *swapchain) Destroy() {
	if sc == nil {
		return
	}
	if sc.refs == 1 {
		if sc.back.refs > 1 {
			warn("swapchain destroyed while buffers are referenced", "refs", sc.back.refs-1)
		}
		sc.back.Destroy()
		delete(sc.d.chains, sc.hwnd)
	}
	if sc.release() {
		*sc = swapchain{}
	}
}

// displayed returns the pixels of the last presented
// buffer.
func (sc *swapchain) displayed() []byte {
	if sc.presents == 0 {
		return nil
	}
	i := (sc.presents - 1) % sc.desc.BufferCount
	return slices.Clone(sc.front[i])
}
