// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/driver/soft"
)

// newDevice creates a device and its context on a new
// soft driver. Both are destroyed when the test ends.
func newDevice(t *testing.T, cfg soft.Config) (*GraphicsDevice, *DeviceContext) {
	t.Helper()
	dev := new(GraphicsDevice)
	require.NoError(t, dev.InitWith(soft.NewWith(cfg)))
	ctx := new(DeviceContext)
	require.NoError(t, ctx.Init(dev))
	t.Cleanup(func() {
		ctx.Destroy()
		dev.Destroy()
	})
	return dev, ctx
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "", cfg.Driver)
	assert.Equal(t, 2, cfg.BufferCount)
	assert.Equal(t, driver.RGBA8un, cfg.Format)
	assert.Equal(t, driver.D24unS8ui, cfg.DepthFormat)
	assert.Equal(t, 4, cfg.Samples)
	assert.False(t, cfg.VSync)

	bad := Config{BufferCount: 99, Format: driver.D32f, DepthFormat: driver.RGBA8un, Samples: -3}
	bad.normalize()
	assert.Equal(t, 2, bad.BufferCount)
	assert.Equal(t, driver.RGBA8un, bad.Format)
	assert.Equal(t, driver.D24unS8ui, bad.DepthFormat)
	assert.Equal(t, 1, bad.Samples)
}

func TestGraphicsDevice(t *testing.T) {
	var dev GraphicsDevice
	require.NoError(t, dev.Init("SOFT"))
	assert.NotNil(t, dev.Device())
	assert.Equal(t, "soft", dev.Driver().Name())
	assert.Equal(t, driver.DTReference, dev.Caps().Type)
	assert.Equal(t, driver.FL11_0, dev.Caps().Level)
	assert.ErrorIs(t, dev.Init("soft"), ErrAlreadyCreated)
	assert.ErrorIs(t, dev.InitWith(soft.New()), ErrAlreadyCreated)
	assert.Empty(t, dev.Live())

	dev.Destroy()
	assert.Nil(t, dev.Device())
	assert.Nil(t, dev.Driver())
	assert.NotPanics(t, dev.Destroy)

	err := dev.Init("no such driver")
	var ce *CreationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Open", ce.Op)
	assert.ErrorIs(t, err, driver.ErrNoDevice)
	assert.Nil(t, dev.Device())

	assert.ErrorIs(t, dev.InitWith(nil), ErrNotCreated)
}

func TestCreationError(t *testing.T) {
	drv := soft.NewWith(soft.Config{Fail: func(op string) driver.Status {
		if op == "Open" {
			return driver.EDeviceRemoved
		}
		return driver.SOK
	}})
	var dev GraphicsDevice
	err := dev.InitWith(drv)
	var ce *CreationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Open", ce.Op)
	assert.Equal(t, driver.EDeviceRemoved, ce.Status)
	assert.Equal(t, driver.EDeviceRemoved, driver.StatusOf(err))
	assert.Contains(t, err.Error(), "Open")

	d, _ := newDevice(t, soft.Config{Fail: func(op string) driver.Status {
		if op == "NewBuffer" {
			return driver.EOutOfMemory
		}
		return driver.SOK
	}})
	buf, err := d.NewBuffer(&driver.BufferDesc{Size: 16, Usage: driver.UConstBuf}, nil)
	assert.Nil(t, buf)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "NewBuffer", ce.Op)
	assert.Equal(t, driver.EOutOfMemory, ce.Status)

	_, err = d.NewImage(nil, nil)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, driver.EInvalidArg, ce.Status)
}

func TestNotCreated(t *testing.T) {
	var dev GraphicsDevice
	_, err := dev.NewImage(&driver.ImageDesc{Width: 1, Height: 1, Format: driver.RGBA8un}, nil)
	assert.ErrorIs(t, err, ErrNotCreated)
	_, err = dev.NewBuffer(&driver.BufferDesc{Size: 16}, nil)
	assert.ErrorIs(t, err, ErrNotCreated)
	_, err = dev.MultisampleQuality(driver.RGBA8un, 1)
	assert.ErrorIs(t, err, ErrNotCreated)
	var nilDev *GraphicsDevice
	_, err = nilDev.NewSampler(&DefaultSampler)
	assert.ErrorIs(t, err, ErrNotCreated)

	var ctx DeviceContext
	assert.ErrorIs(t, ctx.Init(&dev), ErrNotCreated)
	_, err = ctx.Map(nil, driver.MapRead)
	assert.ErrorIs(t, err, ErrNotCreated)
}

// Every wrapper must tolerate use before Init and
// repeated Destroy calls.
func TestUninitialized(t *testing.T) {
	var (
		ctx  DeviceContext
		tex  Texture
		rtv  RenderTargetView
		dsv  DepthStencilView
		srv  ShaderResourceView
		spl  Sampler
		vp   Viewport
		prog ShaderProgram
		vb   VertexBuffer
		ib   IndexBuffer
		cb   ConstantBuffer[[4]float32]
		sc   SwapChain
		dev  GraphicsDevice
	)
	assert.NotPanics(t, func() {
		ctx.SetTopology(driver.TTriangleList)
		ctx.DrawIndexed(3, 0, 0)
		ctx.ClearState()
		ctx.Flush()
		tex.Render(&ctx, 0)
		rtv.Render(&ctx, &dsv, [4]float32{})
		rtv.Bind(&ctx, nil)
		dsv.Render(&ctx)
		srv.Render(&ctx, 0)
		spl.Render(&ctx, 0)
		vp.Render(&ctx)
		prog.Render(&ctx)
		vb.Render(&ctx, 0)
		ib.Render(&ctx)
		cb.Update(&ctx, &[4]float32{1, 2, 3, 4})
		cb.Render(&ctx, driver.SVertex, 0)
		assert.NoError(t, sc.Present())
		assert.Zero(t, sc.CurrentIndex())
		assert.ErrorIs(t, sc.Resize(1, 1, &tex), ErrNotCreated)
		for range 2 {
			ctx.Destroy()
			tex.Destroy()
			rtv.Destroy()
			dsv.Destroy()
			srv.Destroy()
			spl.Destroy()
			vp.Destroy()
			prog.Destroy()
			vb.Destroy()
			ib.Destroy()
			cb.Destroy()
			sc.Destroy()
			dev.Destroy()
		}
	})
	assert.Zero(t, cb.Revision())

	// Nil receivers and nil contexts.
	var (
		nilTex *Texture
		nilRTV *RenderTargetView
		nilCtx *DeviceContext
	)
	assert.NotPanics(t, func() {
		nilTex.Render(nilCtx, 0)
		nilRTV.Render(nilCtx, nil, [4]float32{})
		nilCtx.ClearState()
		nilTex.Destroy()
		nilRTV.Destroy()
		nilCtx.Destroy()
	})
}

func TestDeviceContext(t *testing.T) {
	dev, ctx := newDevice(t, soft.Config{})
	require.NotNil(t, ctx.Context())
	assert.Same(t, dev.Device().ImmediateContext(), ctx.Context())
	assert.ErrorIs(t, ctx.Init(dev), ErrAlreadyCreated)

	ctx.SetTopology(driver.TTriangleList)
	ctx.Flush()
	assert.Equal(t, driver.TTriangleList, soft.StateOf(ctx.Context()).Topology)
	assert.Equal(t, 1, soft.Flushes(ctx.Context()))

	native := ctx.Context()
	ctx.Destroy()
	assert.Nil(t, ctx.Context())
	assert.Equal(t, driver.TUndefined, soft.StateOf(native).Topology)
}
