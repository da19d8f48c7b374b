// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"slices"

	"github.com/gviegas/rcore/driver"
)

// State is the pipeline state bound to a context.
type State struct {
	InputLayout  driver.InputLayout
	VertexBufs   [MaxVertexBufs]driver.VertexBufBinding
	IndexBuf     driver.IndexBufBinding
	Topology     driver.Topology
	VertShader   driver.Shader
	PixShader    driver.Shader
	ConstBufs    [2][MaxConstBufs]driver.Buffer
	Resources    [2][MaxResources]driver.View
	Samplers     [2][MaxSamplers]driver.Sampler
	Viewports    []driver.Viewport
	RasterState  driver.RasterState
	Targets      [MaxTargets]driver.View
	DepthStencil driver.View
	BlendState   driver.BlendState
	BlendFactor  [4]float32
	SampleMask   uint32
}

// Draw is a draw call captured by a context along with
// the state bound when it was issued.
type Draw struct {
	State
	IdxCount int
	StartIdx int
	BaseVert int
}

// context implements driver.Context.
// Bound objects are retained until replaced or until
// ClearState is called.
type context struct {
	d       *device
	st      State
	flushes int
	// Ring of the last capture draws, oldest at next
	// once full.
	draws   []Draw
	next    int
	capture int
	issued  int
}

func (c *context) reset() {
	c.st = State{SampleMask: 0xffffffff, BlendFactor: [4]float32{1, 1, 1, 1}}
}

// bind replaces the binding at *slot with x, retaining x
// and releasing the previous binding.
func bind[T comparable](slot *T, x T) {
	var zero T
	if *slot == x {
		return
	}
	if x != zero {
		retain(x)
	}
	old := *slot
	*slot = x
	if old != zero {
		drop(old)
	}
}

func warn(msg string, args ...any) {
	driver.Logger().Warn("soft: "+msg, args...)
}

// SetInputLayout implements driver.Context.
func (c *context) SetInputLayout(il driver.InputLayout) { bind(&c.st.InputLayout, il) }

// SetVertexBufs implements driver.Context.
func (c *context) SetVertexBufs(start int, bufs []driver.VertexBufBinding) {
	if start < 0 || start+len(bufs) > MaxVertexBufs {
		warn("vertex buffer slots out of range", "start", start, "count", len(bufs))
		return
	}
	for i, b := range bufs {
		if b.Buf != nil && b.Buf.Desc().Usage&driver.UVertexBuf == 0 {
			warn("buffer bound as vertex buffer lacks UVertexBuf", "slot", start+i)
		}
		slot := &c.st.VertexBufs[start+i]
		buf := slot.Buf
		bind(&buf, b.Buf)
		*slot = driver.VertexBufBinding{Buf: buf, Stride: b.Stride, Off: b.Off}
	}
}

// SetIndexBuf implements driver.Context.
func (c *context) SetIndexBuf(b driver.IndexBufBinding) {
	if b.Buf != nil && b.Buf.Desc().Usage&driver.UIndexBuf == 0 {
		warn("buffer bound as index buffer lacks UIndexBuf")
	}
	if b.Off%b.Format.Size() != 0 {
		warn("misaligned index buffer offset", "off", b.Off)
	}
	buf := c.st.IndexBuf.Buf
	bind(&buf, b.Buf)
	c.st.IndexBuf = driver.IndexBufBinding{Buf: buf, Format: b.Format, Off: b.Off}
}

// SetTopology implements driver.Context.
func (c *context) SetTopology(t driver.Topology) { c.st.Topology = t }

// SetVertShader implements driver.Context.
func (c *context) SetVertShader(s driver.Shader) {
	if s != nil && s.Stage() != driver.SVertex {
		warn("pixel shader bound to vertex stage")
	}
	bind(&c.st.VertShader, s)
}

// SetPixShader implements driver.Context.
func (c *context) SetPixShader(s driver.Shader) {
	if s != nil && s.Stage() != driver.SPixel {
		warn("vertex shader bound to pixel stage")
	}
	bind(&c.st.PixShader, s)
}

func validStage(stage driver.Stage) bool {
	return stage == driver.SVertex || stage == driver.SPixel
}

// SetConstBufs implements driver.Context.
func (c *context) SetConstBufs(stage driver.Stage, start int, bufs []driver.Buffer) {
	if !validStage(stage) || start < 0 || start+len(bufs) > MaxConstBufs {
		warn("constant buffer slots out of range", "stage", stage, "start", start, "count", len(bufs))
		return
	}
	for i, b := range bufs {
		if b != nil && b.Desc().Usage&driver.UConstBuf == 0 {
			warn("buffer bound as constant buffer lacks UConstBuf", "stage", stage, "slot", start+i)
		}
		bind(&c.st.ConstBufs[stage][start+i], b)
	}
}

// SetResources implements driver.Context.
func (c *context) SetResources(stage driver.Stage, start int, views []driver.View) {
	if !validStage(stage) || start < 0 || start+len(views) > MaxResources {
		warn("shader resource slots out of range", "stage", stage, "start", start, "count", len(views))
		return
	}
	for i, v := range views {
		if v != nil && v.Kind() != driver.KShaderResource {
			warn("non-shader-resource view bound as shader resource", "stage", stage, "slot", start+i)
		}
		bind(&c.st.Resources[stage][start+i], v)
	}
}

// SetSamplers implements driver.Context.
func (c *context) SetSamplers(stage driver.Stage, start int, samplers []driver.Sampler) {
	if !validStage(stage) || start < 0 || start+len(samplers) > MaxSamplers {
		warn("sampler slots out of range", "stage", stage, "start", start, "count", len(samplers))
		return
	}
	for i, s := range samplers {
		bind(&c.st.Samplers[stage][start+i], s)
	}
}

// SetViewports implements driver.Context.
func (c *context) SetViewports(vp []driver.Viewport) {
	if len(vp) > MaxViewports {
		warn("too many viewports", "count", len(vp))
		vp = vp[:MaxViewports]
	}
	for _, v := range vp {
		if v.Width <= 0 || v.Height <= 0 || v.ZNear < 0 || v.ZFar > 1 || v.ZNear > v.ZFar {
			warn("degenerate viewport", "viewport", v)
		}
	}
	c.st.Viewports = append(c.st.Viewports[:0:0], vp...)
}

// SetRasterState implements driver.Context.
func (c *context) SetRasterState(rs driver.RasterState) { bind(&c.st.RasterState, rs) }

// SetTargets implements driver.Context.
func (c *context) SetTargets(rtvs []driver.View, dsv driver.View) {
	if len(rtvs) > MaxTargets {
		warn("too many render targets", "count", len(rtvs))
		rtvs = rtvs[:MaxTargets]
	}
	for i, v := range rtvs {
		if v != nil && v.Kind() != driver.KRenderTarget {
			warn("non-render-target view bound as render target", "slot", i)
		}
	}
	if dsv != nil && dsv.Kind() != driver.KDepthStencil {
		warn("non-depth-stencil view bound as depth/stencil target")
	}
	for i := range c.st.Targets {
		var v driver.View
		if i < len(rtvs) {
			v = rtvs[i]
		}
		bind(&c.st.Targets[i], v)
	}
	bind(&c.st.DepthStencil, dsv)
	c.unbindHazards()
}

// unbindHazards removes shader resources whose images are
// bound as output.
func (c *context) unbindHazards() {
	out := func(im driver.Image) bool {
		for _, v := range c.st.Targets {
			if v != nil && v.Image() == im {
				return true
			}
		}
		return c.st.DepthStencil != nil && c.st.DepthStencil.Image() == im
	}
	for s := range c.st.Resources {
		for i, v := range c.st.Resources[s] {
			if v != nil && out(v.Image()) {
				warn("resource bound as input and output; input unbound", "stage", driver.Stage(s), "slot", i)
				bind(&c.st.Resources[s][i], nil)
			}
		}
	}
}

// SetBlendState implements driver.Context.
func (c *context) SetBlendState(bs driver.BlendState, factor [4]float32, mask uint32) {
	bind(&c.st.BlendState, bs)
	c.st.BlendFactor = factor
	c.st.SampleMask = mask
}

// viewImage returns the image of a live view of kind k.
func viewImage(v driver.View, k driver.ViewKind, op string) *image {
	vw, ok := v.(*view)
	if !ok || vw == nil || vw.refs <= 0 {
		warn("invalid view", "op", op)
		return nil
	}
	if vw.vkind != k {
		warn("wrong view kind", "op", op, "kind", vw.vkind)
		return nil
	}
	return vw.img
}

// ClearTarget implements driver.Context.
func (c *context) ClearTarget(rtv driver.View, color [4]float32) {
	im := viewImage(rtv, driver.KRenderTarget, "ClearTarget")
	if im == nil {
		return
	}
	pf := rtv.Desc().Format
	px := make([]byte, pf.Size())
	packColor(px, pf, color)
	fill(im.pix, px)
	im.clears++
}

// ClearDepthStencil implements driver.Context.
func (c *context) ClearDepthStencil(dsv driver.View, flags driver.ClearFlag, depth float32, stencil uint8) {
	im := viewImage(dsv, driver.KDepthStencil, "ClearDepthStencil")
	if im == nil {
		return
	}
	if flags&(driver.CDepth|driver.CStencil) == 0 {
		warn("depth/stencil clear with no aspects")
		return
	}
	if depth < 0 || depth > 1 {
		warn("depth clear value out of range", "depth", depth)
	}
	pf := im.desc.Format
	n := pf.Size()
	for i := 0; i < len(im.pix); i += n {
		packDepth(im.pix[i:i+n], pf, flags, depth, stencil)
	}
	im.clears++
}

// Update implements driver.Context.
func (c *context) Update(res driver.Resource, data []byte, rowPitch int) {
	switch r := res.(type) {
	case *buffer:
		if r == nil || r.refs <= 0 {
			warn("update of invalid buffer")
			return
		}
		if r.desc.Mem != driver.MDefault {
			warn("update of buffer not created with MDefault", "mem", r.desc.Mem)
			return
		}
		if r.desc.Usage&driver.UConstBuf != 0 && len(data) != len(r.data) {
			warn("partial constant buffer update", "size", len(r.data), "data", len(data))
		}
		copy(r.data, data)
		r.updates++
	case *image:
		if r == nil || r.refs <= 0 {
			warn("update of invalid image")
			return
		}
		if r.desc.Mem != driver.MDefault {
			warn("update of image not created with MDefault", "mem", r.desc.Mem)
			return
		}
		if r.desc.Samples > 1 || r.desc.Format.IsDepth() {
			warn("update of multisampled or depth image")
			return
		}
		if !copyRows(r.pix, r.pitch, data, rowPitch, r.desc.Height) {
			warn("image update data too short", "size", len(data))
			return
		}
		r.updates++
	default:
		warn("update of unknown resource")
	}
}

// Map implements driver.Context.
func (c *context) Map(res driver.Resource, mode driver.MapMode) (driver.Mapped, error) {
	var (
		o      *object
		mem    driver.MemUsage
		cpu    driver.CPUAccess
		mapped *bool
		m      driver.Mapped
	)
	switch r := res.(type) {
	case *buffer:
		if r == nil {
			return m, invalid("Map", "nil buffer")
		}
		o, mem, cpu, mapped = &r.object, r.desc.Mem, r.desc.CPU, &r.mapped
		m.Data = r.data
	case *image:
		if r == nil {
			return m, invalid("Map", "nil image")
		}
		o, mem, cpu, mapped = &r.object, r.desc.Mem, r.desc.CPU, &r.mapped
		m.Data, m.RowPitch = r.pix, r.pitch
	default:
		return m, invalid("Map", "unknown resource")
	}
	if o.refs <= 0 {
		return driver.Mapped{}, invalid("Map", "released resource")
	}
	var need driver.CPUAccess
	switch mode {
	case driver.MapRead:
		need = driver.CPURead
	case driver.MapWrite:
		need = driver.CPUWrite
	case driver.MapReadWrite:
		need = driver.CPURead | driver.CPUWrite
	case driver.MapWriteDiscard:
		if mem != driver.MDynamic {
			return driver.Mapped{}, invalid("Map", "write-discard of non-dynamic resource")
		}
		need = driver.CPUWrite
	}
	if mem != driver.MDynamic && mem != driver.MStaging || cpu&need != need {
		return driver.Mapped{}, invalid("Map", "resource lacks CPU access", "mode", mode, "cpu", cpu)
	}
	if mem == driver.MDynamic && mode != driver.MapWriteDiscard {
		return driver.Mapped{}, invalid("Map", "dynamic resources must be mapped with write-discard")
	}
	if *mapped {
		warn("resource mapped twice", "kind", o.kind)
		return driver.Mapped{}, driver.EInvalidCall
	}
	*mapped = true
	return m, nil
}

// Unmap implements driver.Context.
func (c *context) Unmap(res driver.Resource) {
	switch r := res.(type) {
	case *buffer:
		if r != nil && r.mapped {
			r.mapped = false
			return
		}
	case *image:
		if r != nil && r.mapped {
			r.mapped = false
			return
		}
	}
	warn("unmap of resource that is not mapped")
}

// CopyResource implements driver.Context.
func (c *context) CopyResource(dst, src driver.Resource) {
	switch d := dst.(type) {
	case *buffer:
		s, ok := src.(*buffer)
		if !ok || d == nil || s == nil || d.refs <= 0 || s.refs <= 0 {
			warn("invalid buffer copy")
			return
		}
		if d == s || d.desc.Size != s.desc.Size || d.desc.Mem == driver.MImmutable {
			warn("incompatible buffer copy", "dst", d.desc.Size, "src", s.desc.Size)
			return
		}
		copy(d.data, s.data)
	case *image:
		s, ok := src.(*image)
		if !ok || d == nil || s == nil || d.refs <= 0 || s.refs <= 0 {
			warn("invalid image copy")
			return
		}
		if d == s || d.desc.Width != s.desc.Width || d.desc.Height != s.desc.Height ||
			d.desc.Format.Size() != s.desc.Format.Size() || d.desc.Samples != s.desc.Samples ||
			d.desc.Mem == driver.MImmutable {
			warn("incompatible image copy", "dst", d.desc, "src", s.desc)
			return
		}
		copy(d.pix, s.pix)
	default:
		warn("copy of unknown resource")
	}
}

// Resolve implements driver.Context.
func (c *context) Resolve(dst, src driver.Image, pf driver.PixelFmt) {
	d, ok1 := dst.(*image)
	s, ok2 := src.(*image)
	if !ok1 || !ok2 || d == nil || s == nil || d.refs <= 0 || s.refs <= 0 {
		warn("invalid resolve")
		return
	}
	if s.desc.Samples <= 1 || d.desc.Samples != 1 || d.desc.Width != s.desc.Width ||
		d.desc.Height != s.desc.Height || pf.Size() != s.desc.Format.Size() || pf.Size() != d.desc.Format.Size() {
		warn("incompatible resolve", "dst", d.desc, "src", s.desc, "format", pf)
		return
	}
	copy(d.pix, s.pix)
}

// DrawIndexed implements driver.Context.
// Nothing is rasterized: the draw is recorded, and every
// bound render target counts it.
func (c *context) DrawIndexed(idxCount, startIdx, baseVert int) {
	st := &c.st
	switch {
	case st.InputLayout == nil:
		warn("draw without input layout")
	case st.VertShader == nil:
		warn("draw without vertex shader")
	case st.PixShader == nil:
		warn("draw without pixel shader")
	case st.IndexBuf.Buf == nil:
		warn("draw without index buffer")
	case st.Topology == driver.TUndefined:
		warn("draw with undefined topology")
	case len(st.Viewports) == 0:
		warn("draw without viewport")
	}
	if b := st.IndexBuf.Buf; b != nil {
		end := st.IndexBuf.Off + (startIdx+idxCount)*st.IndexBuf.Format.Size()
		if end > b.Desc().Size {
			warn("draw reads past the end of the index buffer", "end", end, "size", b.Desc().Size)
		}
	}
	if st.InputLayout != nil {
		for _, e := range st.InputLayout.Elements() {
			if st.VertexBufs[e.Slot].Buf == nil {
				warn("draw without vertex buffer for input slot", "semantic", e.Semantic, "slot", e.Slot)
			}
		}
	}
	targets := 0
	for _, v := range st.Targets {
		if vw, ok := v.(*view); ok && vw != nil && vw.img != nil {
			vw.img.draws++
			targets++
		}
	}
	if targets == 0 && st.DepthStencil == nil {
		warn("draw without output targets")
	}
	c.issued++
	c.record(Draw{State: *st, IdxCount: idxCount, StartIdx: startIdx, BaseVert: baseVert})
	driver.Logger().Debug("soft: draw", "indices", idxCount, "start", startIdx, "base", baseVert, "targets", targets)
}

// record stores dr in the capture ring.
func (c *context) record(dr Draw) {
	if c.capture <= 0 {
		return
	}
	dr.Viewports = slices.Clone(dr.Viewports)
	if len(c.draws) < c.capture {
		c.draws = append(c.draws, dr)
		return
	}
	c.draws[c.next] = dr
	c.next = (c.next + 1) % c.capture
}

// captured returns the captured draws, oldest first.
func (c *context) captured() []Draw {
	return slices.Concat(c.draws[c.next:], c.draws[:c.next])
}

// ClearState implements driver.Context.
func (c *context) ClearState() {
	st := &c.st
	bind(&st.InputLayout, nil)
	for i := range st.VertexBufs {
		bind(&st.VertexBufs[i].Buf, nil)
	}
	bind(&st.IndexBuf.Buf, nil)
	bind(&st.VertShader, nil)
	bind(&st.PixShader, nil)
	for s := range st.ConstBufs {
		for i := range st.ConstBufs[s] {
			bind(&st.ConstBufs[s][i], nil)
		}
		for i := range st.Resources[s] {
			bind(&st.Resources[s][i], nil)
		}
		for i := range st.Samplers[s] {
			bind(&st.Samplers[s][i], nil)
		}
	}
	bind(&st.RasterState, nil)
	for i := range st.Targets {
		bind(&st.Targets[i], nil)
	}
	bind(&st.DepthStencil, nil)
	bind(&st.BlendState, nil)
	c.reset()
}

// Flush implements driver.Context.
func (c *context) Flush() {
	c.flushes++
	driver.Logger().Debug("soft: flush", "draws", c.issued)
}
