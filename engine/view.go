// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"

	"github.com/gviegas/rcore/driver"
)

// viewDesc returns the description of a view of tex.
// A zero format means the format of tex. A zero dim
// means 2D, or 2D multisampled if tex has more than one
// sample.
func viewDesc(tex *Texture, format driver.PixelFmt, dim driver.ViewDim) *driver.ViewDesc {
	if format == driver.FUnknown {
		format = tex.format
	}
	if dim == driver.VUnknown {
		dim = driver.V2D
		if tex.samples > 1 {
			dim = driver.V2DMS
		}
	}
	return &driver.ViewDesc{Format: format, Dim: dim, Levels: 1}
}

// checkView checks the common preconditions of view
// creation.
func checkView(op string, created bool, dev *GraphicsDevice, tex *Texture, usage driver.Usage) error {
	switch {
	case created:
		return fmt.Errorf("engine: %s: %w", op, ErrAlreadyCreated)
	case dev.Device() == nil:
		return notCreated(op, "device")
	case tex == nil || tex.img == nil:
		return notCreated(op, "texture")
	case tex.usage&usage == 0:
		return &CreationError{
			Op:     op,
			Status: driver.EInvalidArg,
			Err:    fmt.Errorf("texture usage 0x%x lacks 0x%x: %w", tex.usage, usage, driver.EInvalidArg),
		}
	}
	return nil
}

// RenderTargetView is a view of a texture as a render
// target.
type RenderTargetView struct {
	_    noCopy
	view driver.View
	tex  *Texture
}

// Init creates a render target view of tex.
// tex must have been created with driver.URenderTarget.
// dim may be driver.VUnknown, in which case it is derived
// from the sample count of tex.
func (v *RenderTargetView) Init(dev *GraphicsDevice, tex *Texture, format driver.PixelFmt, dim driver.ViewDim) error {
	const op = "RenderTargetView.Init"
	if err := checkView(op, v.view != nil, dev, tex, driver.URenderTarget); err != nil {
		return err
	}
	view, err := dev.NewRenderTargetView(tex.img, viewDesc(tex, format, dim))
	if err != nil {
		return err
	}
	v.view, v.tex = view, tex
	return nil
}

// Render clears the render target to color and binds it,
// along with dsv, to the output merger.
// dsv may be nil.
func (v *RenderTargetView) Render(ctx *DeviceContext, dsv *DepthStencilView, color [4]float32) {
	if v == nil || v.view == nil {
		warn("RenderTargetView.Render", "view not created")
		return
	}
	ctx.ClearTarget(v.view, color)
	ctx.SetTargets([]driver.View{v.view}, dsv.handle())
}

// Bind binds the render target, along with dsv, to the
// output merger without clearing it.
func (v *RenderTargetView) Bind(ctx *DeviceContext, dsv *DepthStencilView) {
	if v == nil || v.view == nil {
		warn("RenderTargetView.Bind", "view not created")
		return
	}
	ctx.SetTargets([]driver.View{v.view}, dsv.handle())
}

// View returns the native view.
func (v *RenderTargetView) View() driver.View { return v.view }

// Texture returns the texture that v views.
func (v *RenderTargetView) Texture() *Texture { return v.tex }

// Destroy releases the native view.
func (v *RenderTargetView) Destroy() {
	if v == nil || v.view == nil {
		return
	}
	v.view.Destroy()
	*v = RenderTargetView{}
}

// DepthStencilView is a view of a texture as a
// depth/stencil target.
type DepthStencilView struct {
	_    noCopy
	view driver.View
	tex  *Texture
}

// Init creates a depth/stencil view of tex.
// tex must have been created with driver.UDepthStencil.
func (v *DepthStencilView) Init(dev *GraphicsDevice, tex *Texture, format driver.PixelFmt) error {
	const op = "DepthStencilView.Init"
	if err := checkView(op, v.view != nil, dev, tex, driver.UDepthStencil); err != nil {
		return err
	}
	view, err := dev.NewDepthStencilView(tex.img, viewDesc(tex, format, driver.VUnknown))
	if err != nil {
		return err
	}
	v.view, v.tex = view, tex
	return nil
}

// Render clears depth to 1 and stencil to 0.
func (v *DepthStencilView) Render(ctx *DeviceContext) {
	if v == nil || v.view == nil {
		warn("DepthStencilView.Render", "view not created")
		return
	}
	ctx.ClearDepthStencil(v.view, driver.CDepth|driver.CStencil, 1, 0)
}

func (v *DepthStencilView) handle() driver.View {
	if v == nil || v.view == nil {
		return nil
	}
	return v.view
}

// View returns the native view.
func (v *DepthStencilView) View() driver.View { return v.view }

// Texture returns the texture that v views.
func (v *DepthStencilView) Texture() *Texture { return v.tex }

// Destroy releases the native view.
func (v *DepthStencilView) Destroy() {
	if v == nil || v.view == nil {
		return
	}
	v.view.Destroy()
	*v = DepthStencilView{}
}

// ShaderResourceView is a view of a texture that shaders
// can sample.
type ShaderResourceView struct {
	_    noCopy
	view driver.View
	tex  *Texture
}

// Init creates a shader resource view of tex.
// tex must have been created with driver.UShaderResource.
func (v *ShaderResourceView) Init(dev *GraphicsDevice, tex *Texture, format driver.PixelFmt) error {
	const op = "ShaderResourceView.Init"
	if err := checkView(op, v.view != nil, dev, tex, driver.UShaderResource); err != nil {
		return err
	}
	view, err := dev.NewShaderResourceView(tex.img, viewDesc(tex, format, driver.VUnknown))
	if err != nil {
		return err
	}
	v.view, v.tex = view, tex
	return nil
}

// Render binds the view to the given slot of the pixel
// stage.
func (v *ShaderResourceView) Render(ctx *DeviceContext, slot int) {
	if v == nil || v.view == nil {
		warn("ShaderResourceView.Render", "view not created")
		return
	}
	ctx.SetResources(driver.SPixel, slot, []driver.View{v.view})
}

// View returns the native view.
func (v *ShaderResourceView) View() driver.View { return v.view }

// Texture returns the texture that v views.
func (v *ShaderResourceView) Texture() *Texture { return v.tex }

// Destroy releases the native view.
func (v *ShaderResourceView) Destroy() {
	if v == nil || v.view == nil {
		return
	}
	v.view.Destroy()
	*v = ShaderResourceView{}
}
