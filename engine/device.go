// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"

	"github.com/gviegas/rcore/driver"
)

// GraphicsDevice owns an open driver.Device.
// It is the only factory of GPU objects.
type GraphicsDevice struct {
	_    noCopy
	drv  driver.Driver
	dev  driver.Device
	caps driver.Caps
}

// Init opens the first registered driver whose name
// contains name (case is ignored and the empty string
// matches any driver).
// It fails with ErrAlreadyCreated if d was already
// created, and with a *CreationError if no driver could
// be opened.
func (d *GraphicsDevice) Init(name string) error {
	if d.dev != nil {
		return fmt.Errorf("engine: GraphicsDevice.Init: %w", ErrAlreadyCreated)
	}
	drv, dev, err := loadDriver(name)
	if err != nil {
		return newCreationError("Open", err)
	}
	d.set(drv, dev)
	return nil
}

// InitWith opens drv.
func (d *GraphicsDevice) InitWith(drv driver.Driver) error {
	if d.dev != nil {
		return fmt.Errorf("engine: GraphicsDevice.InitWith: %w", ErrAlreadyCreated)
	}
	if drv == nil {
		return notCreated("GraphicsDevice.InitWith", "driver")
	}
	dev, err := drv.Open()
	if err != nil {
		return newCreationError("Open", err)
	}
	d.set(drv, dev)
	return nil
}

func (d *GraphicsDevice) set(drv driver.Driver, dev driver.Device) {
	d.drv = drv
	d.dev = dev
	d.caps = dev.Caps()
	driver.Logger().Info("engine: device created", "driver", drv.Name(),
		"type", d.caps.Type, "level", d.caps.Level)
}

// Driver returns the driver that d opened.
func (d *GraphicsDevice) Driver() driver.Driver { return d.drv }

// Device returns the native device, or nil if d was not
// created.
func (d *GraphicsDevice) Device() driver.Device {
	if d == nil {
		return nil
	}
	return d.dev
}

// Caps returns the capabilities of the device.
func (d *GraphicsDevice) Caps() driver.Caps { return d.caps }

// Live returns a description of every native object of
// the device that is still alive, if the driver can
// report them.
func (d *GraphicsDevice) Live() []string {
	if d == nil || d.dev == nil {
		return nil
	}
	if lr, ok := d.dev.(driver.LeakReporter); ok {
		return lr.LiveObjects()
	}
	return nil
}

// Destroy reports leaked objects and closes the driver.
func (d *GraphicsDevice) Destroy() {
	if d == nil || d.dev == nil {
		return
	}
	if live := d.Live(); len(live) > 0 {
		driver.Logger().Warn("engine: device destroyed with live objects", "count", len(live), "objects", live)
	}
	d.drv.Close()
	driver.Logger().Info("engine: device destroyed", "driver", d.drv.Name())
	d.drv = nil
	d.dev = nil
	d.caps = driver.Caps{}
}

// create calls f with the native device of d, and wraps
// the error in a *CreationError.
func create[T any](d *GraphicsDevice, op string, f func(driver.Device) (T, error)) (T, error) {
	var zero T
	if d == nil || d.dev == nil {
		warn(op, "device not created")
		return zero, notCreated(op, "device")
	}
	x, err := f(d.dev)
	if err != nil {
		return zero, newCreationError(op, err)
	}
	return x, nil
}

// NewImage creates a new driver.Image.
func (d *GraphicsDevice) NewImage(desc *driver.ImageDesc, data *driver.InitData) (driver.Image, error) {
	return create(d, "NewImage", func(dev driver.Device) (driver.Image, error) {
		return dev.NewImage(desc, data)
	})
}

// NewRenderTargetView creates a new render target view.
func (d *GraphicsDevice) NewRenderTargetView(img driver.Image, desc *driver.ViewDesc) (driver.View, error) {
	return create(d, "NewRenderTargetView", func(dev driver.Device) (driver.View, error) {
		return dev.NewRenderTargetView(img, desc)
	})
}

// NewDepthStencilView creates a new depth/stencil view.
func (d *GraphicsDevice) NewDepthStencilView(img driver.Image, desc *driver.ViewDesc) (driver.View, error) {
	return create(d, "NewDepthStencilView", func(dev driver.Device) (driver.View, error) {
		return dev.NewDepthStencilView(img, desc)
	})
}

// NewShaderResourceView creates a new shader resource view.
func (d *GraphicsDevice) NewShaderResourceView(img driver.Image, desc *driver.ViewDesc) (driver.View, error) {
	return create(d, "NewShaderResourceView", func(dev driver.Device) (driver.View, error) {
		return dev.NewShaderResourceView(img, desc)
	})
}

// NewVertexShader creates a new vertex shader.
func (d *GraphicsDevice) NewVertexShader(code []byte) (driver.Shader, error) {
	return create(d, "NewVertexShader", func(dev driver.Device) (driver.Shader, error) {
		return dev.NewVertexShader(code)
	})
}

// NewPixelShader creates a new pixel shader.
func (d *GraphicsDevice) NewPixelShader(code []byte) (driver.Shader, error) {
	return create(d, "NewPixelShader", func(dev driver.Device) (driver.Shader, error) {
		return dev.NewPixelShader(code)
	})
}

// NewInputLayout creates a new input layout.
func (d *GraphicsDevice) NewInputLayout(elems []driver.InputElement, vsCode []byte) (driver.InputLayout, error) {
	return create(d, "NewInputLayout", func(dev driver.Device) (driver.InputLayout, error) {
		return dev.NewInputLayout(elems, vsCode)
	})
}

// NewBuffer creates a new driver.Buffer.
func (d *GraphicsDevice) NewBuffer(desc *driver.BufferDesc, data []byte) (driver.Buffer, error) {
	return create(d, "NewBuffer", func(dev driver.Device) (driver.Buffer, error) {
		return dev.NewBuffer(desc, data)
	})
}

// NewSampler creates a new driver.Sampler.
func (d *GraphicsDevice) NewSampler(desc *driver.SamplerDesc) (driver.Sampler, error) {
	return create(d, "NewSampler", func(dev driver.Device) (driver.Sampler, error) {
		return dev.NewSampler(desc)
	})
}

// NewRasterState creates a new driver.RasterState.
func (d *GraphicsDevice) NewRasterState(desc *driver.RasterDesc) (driver.RasterState, error) {
	return create(d, "NewRasterState", func(dev driver.Device) (driver.RasterState, error) {
		return dev.NewRasterState(desc)
	})
}

// NewBlendState creates a new driver.BlendState.
func (d *GraphicsDevice) NewBlendState(desc *driver.BlendDesc) (driver.BlendState, error) {
	return create(d, "NewBlendState", func(dev driver.Device) (driver.BlendState, error) {
		return dev.NewBlendState(desc)
	})
}

// MultisampleQuality returns the number of quality levels
// that the device supports for the given format and
// sample count. Zero means unsupported.
func (d *GraphicsDevice) MultisampleQuality(pf driver.PixelFmt, samples int) (int, error) {
	return create(d, "MultisampleQuality", func(dev driver.Device) (int, error) {
		return dev.MultisampleQuality(pf, samples)
	})
}
