// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/gviegas/rcore/driver"
)

// DeviceContext wraps the immediate context of a device.
// Its methods forward to the driver.Context, except when
// it was not created, in which case they are no-ops.
type DeviceContext struct {
	_   noCopy
	ctx driver.Context
}

// Init obtains the immediate context of dev.
func (c *DeviceContext) Init(dev *GraphicsDevice) error {
	if c.ctx != nil {
		return ErrAlreadyCreated
	}
	if dev.Device() == nil {
		return notCreated("DeviceContext.Init", "device")
	}
	c.ctx = dev.Device().ImmediateContext()
	return nil
}

// Context returns the native context, or nil if c was
// not created.
func (c *DeviceContext) Context() driver.Context {
	if c == nil {
		return nil
	}
	return c.ctx
}

// Destroy resets the bound state and forgets the native
// context.
func (c *DeviceContext) Destroy() {
	if c == nil || c.ctx == nil {
		return
	}
	c.ctx.ClearState()
	c.ctx = nil
}

func (c *DeviceContext) ok(op string) bool {
	if c == nil || c.ctx == nil {
		warn(op, "context not created")
		return false
	}
	return true
}

// Input assembly.

// SetInputLayout binds the input layout of the vertex
// stage.
func (c *DeviceContext) SetInputLayout(il driver.InputLayout) {
	if c.ok("SetInputLayout") {
		c.ctx.SetInputLayout(il)
	}
}

// SetVertexBufs binds vertex buffers starting at slot
// start.
func (c *DeviceContext) SetVertexBufs(start int, bufs []driver.VertexBufBinding) {
	if c.ok("SetVertexBufs") {
		c.ctx.SetVertexBufs(start, bufs)
	}
}

// SetIndexBuf binds the index buffer.
func (c *DeviceContext) SetIndexBuf(b driver.IndexBufBinding) {
	if c.ok("SetIndexBuf") {
		c.ctx.SetIndexBuf(b)
	}
}

// SetTopology sets the primitive topology.
func (c *DeviceContext) SetTopology(t driver.Topology) {
	if c.ok("SetTopology") {
		c.ctx.SetTopology(t)
	}
}

// Shader stages.

// SetVertShader binds the vertex shader.
func (c *DeviceContext) SetVertShader(s driver.Shader) {
	if c.ok("SetVertShader") {
		c.ctx.SetVertShader(s)
	}
}

// SetPixShader binds the pixel shader.
func (c *DeviceContext) SetPixShader(s driver.Shader) {
	if c.ok("SetPixShader") {
		c.ctx.SetPixShader(s)
	}
}

// SetConstBufs binds constant buffers to stage, starting
// at slot start.
func (c *DeviceContext) SetConstBufs(stage driver.Stage, start int, bufs []driver.Buffer) {
	if c.ok("SetConstBufs") {
		c.ctx.SetConstBufs(stage, start, bufs)
	}
}

// SetResources binds shader resource views to stage,
// starting at slot start.
func (c *DeviceContext) SetResources(stage driver.Stage, start int, views []driver.View) {
	if c.ok("SetResources") {
		c.ctx.SetResources(stage, start, views)
	}
}

// SetSamplers binds samplers to stage, starting at slot
// start.
func (c *DeviceContext) SetSamplers(stage driver.Stage, start int, samplers []driver.Sampler) {
	if c.ok("SetSamplers") {
		c.ctx.SetSamplers(stage, start, samplers)
	}
}

// Rasterizer.

// SetViewports sets the viewports of the rasterizer.
func (c *DeviceContext) SetViewports(vp []driver.Viewport) {
	if c.ok("SetViewports") {
		c.ctx.SetViewports(vp)
	}
}

// SetRasterState sets the rasterizer state.
// A nil state selects the default.
func (c *DeviceContext) SetRasterState(rs driver.RasterState) {
	if c.ok("SetRasterState") {
		c.ctx.SetRasterState(rs)
	}
}

// Output merger.

// SetTargets binds render target views and a
// depth/stencil view to the output merger.
// dsv may be nil.
func (c *DeviceContext) SetTargets(rtvs []driver.View, dsv driver.View) {
	if c.ok("SetTargets") {
		c.ctx.SetTargets(rtvs, dsv)
	}
}

// SetBlendState sets the blend state, the blend factor
// and the sample mask.
func (c *DeviceContext) SetBlendState(bs driver.BlendState, factor [4]float32, mask uint32) {
	if c.ok("SetBlendState") {
		c.ctx.SetBlendState(bs, factor, mask)
	}
}

// Commands.

// ClearTarget clears rtv to color.
func (c *DeviceContext) ClearTarget(rtv driver.View, color [4]float32) {
	if c.ok("ClearTarget") {
		c.ctx.ClearTarget(rtv, color)
	}
}

// ClearDepthStencil clears the planes of dsv selected by
// flags.
func (c *DeviceContext) ClearDepthStencil(dsv driver.View, flags driver.ClearFlag, depth float32, stencil uint8) {
	if c.ok("ClearDepthStencil") {
		c.ctx.ClearDepthStencil(dsv, flags, depth, stencil)
	}
}

// Update copies data into res.
// rowPitch is the size in bytes of one row of an image;
// it is ignored for buffers.
func (c *DeviceContext) Update(res driver.Resource, data []byte, rowPitch int) {
	if c.ok("Update") {
		c.ctx.Update(res, data, rowPitch)
	}
}

// Map fails with ErrNotCreated if c was not created.
func (c *DeviceContext) Map(res driver.Resource, mode driver.MapMode) (driver.Mapped, error) {
	if !c.ok("Map") {
		return driver.Mapped{}, notCreated("Map", "context")
	}
	return c.ctx.Map(res, mode)
}

// Unmap invalidates the memory returned by Map.
func (c *DeviceContext) Unmap(res driver.Resource) {
	if c.ok("Unmap") {
		c.ctx.Unmap(res)
	}
}

// CopyResource copies src into dst.
func (c *DeviceContext) CopyResource(dst, src driver.Resource) {
	if c.ok("CopyResource") {
		c.ctx.CopyResource(dst, src)
	}
}

// Resolve resolves the multisampled image src into dst.
func (c *DeviceContext) Resolve(dst, src driver.Image, pf driver.PixelFmt) {
	if c.ok("Resolve") {
		c.ctx.Resolve(dst, src, pf)
	}
}

// DrawIndexed draws idxCount indexed vertices using the
// current bindings.
func (c *DeviceContext) DrawIndexed(idxCount, startIdx, baseVert int) {
	if c.ok("DrawIndexed") {
		c.ctx.DrawIndexed(idxCount, startIdx, baseVert)
	}
}

// ClearState unbinds everything and restores the default
// state.
func (c *DeviceContext) ClearState() {
	if c.ok("ClearState") {
		c.ctx.ClearState()
	}
}

// Flush submits pending commands.
func (c *DeviceContext) Flush() {
	if c.ok("Flush") {
		c.ctx.Flush()
	}
}
