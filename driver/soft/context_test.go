// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"testing"

	"github.com/gviegas/rcore/driver"
)

func newTarget(t *testing.T, dev driver.Device, pf driver.PixelFmt, w, h, samples int) (driver.Image, driver.View) {
	t.Helper()
	img, err := dev.NewImage(&driver.ImageDesc{Width: w, Height: h, Format: pf, Samples: samples, Usage: driver.URenderTarget}, nil)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	rtv, err := dev.NewRenderTargetView(img, nil)
	if err != nil {
		t.Fatalf("NewRenderTargetView: %v", err)
	}
	return img, rtv
}

// readback copies img to a staging image and returns its
// first pixel.
func readback(t *testing.T, dev driver.Device, img driver.Image) []byte {
	t.Helper()
	desc := img.Desc()
	stg, err := dev.NewImage(&driver.ImageDesc{Width: desc.Width, Height: desc.Height, Format: desc.Format, Mem: driver.MStaging, CPU: driver.CPURead}, nil)
	if err != nil {
		t.Fatalf("NewImage (staging): %v", err)
	}
	defer stg.Destroy()
	ctx := dev.ImmediateContext()
	ctx.CopyResource(stg, img)
	m, err := ctx.Map(stg, driver.MapRead)
	if err != nil {
		t.Fatalf("Context.Map: %v", err)
	}
	defer ctx.Unmap(stg)
	if m.RowPitch != desc.Width*desc.Format.Size() {
		t.Fatalf("Context.Map: RowPitch\nhave %d\nwant %d", m.RowPitch, desc.Width*desc.Format.Size())
	}
	return append([]byte(nil), m.Data[:desc.Format.Size()]...)
}

func TestClearTarget(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	for _, x := range [...]struct {
		pf    driver.PixelFmt
		color [4]float32
		want  []byte
	}{
		{driver.RGBA8un, [4]float32{0.1, 0.1, 0.1, 1}, []byte{26, 26, 26, 255}},
		{driver.RGBA8un, [4]float32{-1, 2, 0.5, 0}, []byte{0, 255, 128, 0}},
		{driver.BGRA8un, [4]float32{1, 0, 0, 1}, []byte{0, 0, 255, 255}},
		{driver.RGBA8sRGB, [4]float32{0.5, 0, 1, 0.5}, []byte{188, 0, 255, 128}},
		{driver.R8un, [4]float32{1, 0, 0, 0}, []byte{255}},
		{driver.R32f, [4]float32{1, 0, 0, 0}, []byte{0, 0, 0x80, 0x3f}},
	} {
		img, rtv := newTarget(t, dev, x.pf, 16, 16, 1)
		ctx.ClearTarget(rtv, x.color)
		px := readback(t, dev, img)
		for i := range px {
			if px[i] != x.want[i] {
				t.Fatalf("ClearTarget(%v, %v)\nhave %v\nwant %v", x.pf, x.color, px, x.want)
			}
		}
		if n := ClearCount(img); n != 1 {
			t.Fatalf("ClearCount\nhave %d\nwant 1", n)
		}
		rtv.Destroy()
		img.Destroy()
	}
}

func TestClearReadback(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	img, rtv := newTarget(t, dev, driver.RGBA8un, 256, 256, 1)
	defer img.Destroy()
	defer rtv.Destroy()
	dev.ImmediateContext().ClearTarget(rtv, [4]float32{0.1, 0.1, 0.1, 1})
	px := readback(t, dev, img)
	for i, want := range [4]int{25, 25, 25, 255} {
		if d := int(px[i]) - want; d < -1 || d > 1 {
			t.Fatalf("pixel (0, 0)\nhave %v\nwant [25 25 25 255] ±1", px)
		}
	}
	// The whole image is cleared.
	last := img.(*image).pix[len(img.(*image).pix)-4:]
	if last[0] != px[0] || last[3] != 255 {
		t.Fatalf("pixel (255, 255)\nhave %v\nwant %v", last, px)
	}
}

func TestClearDepthStencil(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	for _, pf := range [...]driver.PixelFmt{driver.D24unS8ui, driver.D32f, driver.D16un} {
		img, err := dev.NewImage(&driver.ImageDesc{Width: 32, Height: 32, Format: pf, Samples: 4, Usage: driver.UDepthStencil}, nil)
		if err != nil {
			t.Fatalf("NewImage(%v): %v", pf, err)
		}
		dsv, err := dev.NewDepthStencilView(img, nil)
		if err != nil {
			t.Fatalf("NewDepthStencilView(%v): %v", pf, err)
		}
		ctx.ClearDepthStencil(dsv, driver.CDepth|driver.CStencil, 1, 0)
		if d, s := Depth(img, 31, 31); d != 1 || s != 0 {
			t.Fatalf("ClearDepthStencil(%v, 1, 0)\nhave %v, %v\nwant 1, 0", pf, d, s)
		}
		ctx.ClearDepthStencil(dsv, driver.CStencil, 0.25, 7)
		d, s := Depth(img, 0, 0)
		if d != 1 {
			t.Fatalf("ClearDepthStencil(%v, CStencil): depth\nhave %v\nwant 1", pf, d)
		}
		if pf == driver.D24unS8ui && s != 7 {
			t.Fatalf("ClearDepthStencil(%v, CStencil): stencil\nhave %v\nwant 7", pf, s)
		}
		ctx.ClearDepthStencil(dsv, driver.CDepth, 0, 0)
		if d, _ := Depth(img, 5, 9); d != 0 {
			t.Fatalf("ClearDepthStencil(%v, CDepth, 0)\nhave %v\nwant 0", pf, d)
		}
		dsv.Destroy()
		img.Destroy()
	}
}

func TestClearWrongView(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	img, _ := dev.NewImage(&driver.ImageDesc{Width: 4, Height: 4, Format: driver.RGBA8un, Usage: driver.URenderTarget | driver.UShaderResource}, nil)
	defer img.Destroy()
	srv, _ := dev.NewShaderResourceView(img, nil)
	defer srv.Destroy()
	ctx.ClearTarget(srv, [4]float32{1, 1, 1, 1})
	ctx.ClearTarget(nil, [4]float32{1, 1, 1, 1})
	ctx.ClearDepthStencil(srv, driver.CDepth, 1, 0)
	if n := ClearCount(img); n != 0 {
		t.Fatalf("ClearTarget: wrong view kind\nhave %d clears\nwant 0", n)
	}
}

func TestTargetsWithoutClear(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	a, rtvA := newTarget(t, dev, driver.RGBA8un, 8, 8, 1)
	b, rtvB := newTarget(t, dev, driver.RGBA8un, 8, 8, 1)
	defer func() {
		ctx.ClearState()
		for _, x := range []driver.Destroyer{rtvA, rtvB, a, b} {
			x.Destroy()
		}
	}()

	ctx.ClearTarget(rtvA, [4]float32{1, 0, 0, 1})
	ctx.SetTargets([]driver.View{rtvA}, nil)
	ctx.DrawIndexed(36, 0, 0)
	ctx.SetTargets([]driver.View{rtvB}, nil)
	ctx.DrawIndexed(36, 0, 0)

	if n := DrawCount(a); n != 1 {
		t.Fatalf("DrawCount(A)\nhave %d\nwant 1", n)
	}
	if n := DrawCount(b); n != 1 {
		t.Fatalf("DrawCount(B)\nhave %d\nwant 1", n)
	}
	if px := readback(t, dev, a); px[0] != 255 || px[1] != 0 || px[3] != 255 {
		t.Fatalf("A contents\nhave %v\nwant [255 0 0 255]", px)
	}
	if n := ClearCount(b); n != 0 {
		t.Fatalf("ClearCount(B)\nhave %d\nwant 0", n)
	}
	if px := readback(t, dev, b); px[0] != 0 || px[3] != 0 {
		t.Fatalf("B contents\nhave %v\nwant [0 0 0 0]", px)
	}
	draws := Draws(ctx)
	if len(draws) != 2 || draws[0].Targets[0] != rtvA || draws[1].Targets[0] != rtvB {
		t.Fatalf("Draws: targets\nhave %d draws\nwant 2, targeting A then B", len(draws))
	}
}

func TestBindings(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	code := []byte("bytecode")
	vs, _ := dev.NewVertexShader(code)
	ps, _ := dev.NewPixelShader(code)
	il, _ := dev.NewInputLayout([]driver.InputElement{{Semantic: "POSITION", Format: driver.Float32x3}}, code)
	vb, _ := dev.NewBuffer(&driver.BufferDesc{Size: 12 * 24, Usage: driver.UVertexBuf}, nil)
	ib, _ := dev.NewBuffer(&driver.BufferDesc{Size: 4 * 36, Usage: driver.UIndexBuf}, nil)
	cb := make([]driver.Buffer, 3)
	for i := range cb {
		cb[i], _ = dev.NewBuffer(&driver.BufferDesc{Size: 64, Usage: driver.UConstBuf}, nil)
	}
	smp, _ := dev.NewSampler(&driver.SamplerDesc{Filter: driver.FLinear})
	img, rtv := newTarget(t, dev, driver.RGBA8un, 8, 8, 1)
	objs := []driver.Destroyer{vs, ps, il, vb, ib, cb[0], cb[1], cb[2], smp, rtv, img}

	ctx.SetInputLayout(il)
	ctx.SetVertexBufs(0, []driver.VertexBufBinding{{Buf: vb, Stride: 12}})
	ctx.SetIndexBuf(driver.IndexBufBinding{Buf: ib, Format: driver.Index32})
	ctx.SetTopology(driver.TTriangleList)
	ctx.SetVertShader(vs)
	ctx.SetConstBufs(driver.SVertex, 0, cb[:1])
	ctx.SetConstBufs(driver.SVertex, 1, cb[1:2])
	ctx.SetConstBufs(driver.SVertex, 2, cb[2:])
	ctx.SetConstBufs(driver.SPixel, 2, cb[2:])
	ctx.SetPixShader(ps)
	ctx.SetSamplers(driver.SPixel, 0, []driver.Sampler{smp})
	ctx.SetViewports([]driver.Viewport{{Width: 8, Height: 8, ZFar: 1}})
	ctx.SetTargets([]driver.View{rtv}, nil)
	ctx.DrawIndexed(36, 0, 0)

	st := StateOf(ctx)
	switch {
	case st.InputLayout != il, st.VertShader != vs, st.PixShader != ps:
		t.Fatal("StateOf: shader/layout bindings")
	case st.VertexBufs[0].Buf != vb || st.VertexBufs[0].Stride != 12:
		t.Fatalf("StateOf: vertex buffer\nhave %+v", st.VertexBufs[0])
	case st.IndexBuf.Buf != ib || st.IndexBuf.Format != driver.Index32:
		t.Fatalf("StateOf: index buffer\nhave %+v", st.IndexBuf)
	case st.ConstBufs[driver.SVertex][0] != cb[0], st.ConstBufs[driver.SVertex][1] != cb[1],
		st.ConstBufs[driver.SVertex][2] != cb[2], st.ConstBufs[driver.SPixel][2] != cb[2]:
		t.Fatal("StateOf: constant buffer slots")
	case st.ConstBufs[driver.SPixel][0] != nil || st.ConstBufs[driver.SPixel][1] != nil:
		t.Fatal("StateOf: unexpected pixel constant buffers")
	case st.Samplers[driver.SPixel][0] != smp, st.Targets[0] != rtv, st.Topology != driver.TTriangleList:
		t.Fatal("StateOf: sampler/target/topology")
	}
	// Bound objects are retained.
	if n := RefCount(cb[2]); n != 3 {
		t.Fatalf("RefCount: buffer bound to two stages\nhave %d\nwant 3", n)
	}

	// Last bound wins; other bindings persist.
	ctx.SetConstBufs(driver.SVertex, 0, cb[1:2])
	ctx.DrawIndexed(6, 30, 0)
	draws := Draws(ctx)
	if len(draws) != 2 {
		t.Fatalf("Draws\nhave %d\nwant 2", len(draws))
	}
	if d := draws[0]; d.ConstBufs[driver.SVertex][0] != cb[0] || d.IdxCount != 36 {
		t.Fatalf("Draws[0]\nhave %v, %d\nwant cb[0], 36", d.ConstBufs[driver.SVertex][0], d.IdxCount)
	}
	if d := draws[1]; d.ConstBufs[driver.SVertex][0] != cb[1] || d.VertShader != vs || d.StartIdx != 30 {
		t.Fatal("Draws[1]: bindings did not persist")
	}
	if n := RefCount(cb[0]); n != 1 {
		t.Fatalf("RefCount: replaced binding\nhave %d\nwant 1", n)
	}

	// Destroying a bound object keeps it alive until unbound.
	for _, o := range objs {
		o.Destroy()
	}
	if n := LiveCount(dev); n == 0 {
		t.Fatal("LiveCount: bound objects\nhave 0\nwant > 0")
	}
	ctx.ClearState()
	if n := LiveCount(dev); n != 0 {
		t.Fatalf("LiveCount: after ClearState\nhave %d (%v)\nwant 0", n, dev.(driver.LeakReporter).LiveObjects())
	}
	st = StateOf(ctx)
	if st.InputLayout != nil || st.Targets[0] != nil || st.SampleMask != 0xffffffff || len(st.Viewports) != 0 {
		t.Fatalf("StateOf: after ClearState\nhave %+v", st)
	}
}

func TestHazard(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	img, _ := dev.NewImage(&driver.ImageDesc{Width: 4, Height: 4, Format: driver.RGBA8un, Usage: driver.URenderTarget | driver.UShaderResource}, nil)
	rtv, _ := dev.NewRenderTargetView(img, nil)
	srv, _ := dev.NewShaderResourceView(img, nil)
	ctx.SetResources(driver.SPixel, 0, []driver.View{srv})
	if StateOf(ctx).Resources[driver.SPixel][0] != srv {
		t.Fatal("SetResources: not bound")
	}
	ctx.SetTargets([]driver.View{rtv}, nil)
	if StateOf(ctx).Resources[driver.SPixel][0] != nil {
		t.Fatal("SetTargets: input still bound while used as output")
	}
	ctx.ClearState()
	for _, x := range []driver.Destroyer{srv, rtv, img} {
		x.Destroy()
	}
	if n := LiveCount(dev); n != 0 {
		t.Fatalf("LiveCount\nhave %d\nwant 0", n)
	}
}

func TestUpdate(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	cb, _ := dev.NewBuffer(&driver.BufferDesc{Size: 16, Usage: driver.UConstBuf}, nil)
	defer cb.Destroy()
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	ctx.Update(cb, data, 0)
	ctx.Update(cb, data, 0)
	if n := UpdateCount(cb); n != 2 {
		t.Fatalf("UpdateCount\nhave %d\nwant 2", n)
	}
	if c := Contents(cb); c[15] != 16 {
		t.Fatalf("Contents\nhave %v\nwant %v", c, data)
	}

	imm, _ := dev.NewBuffer(&driver.BufferDesc{Size: 16, Usage: driver.UVertexBuf, Mem: driver.MImmutable}, make([]byte, 16))
	defer imm.Destroy()
	ctx.Update(imm, data, 0)
	if n := UpdateCount(imm); n != 0 {
		t.Fatalf("Update: immutable buffer\nhave %d updates\nwant 0", n)
	}

	img, _ := dev.NewImage(&driver.ImageDesc{Width: 2, Height: 2, Format: driver.RGBA8un, Usage: driver.UShaderResource}, nil)
	defer img.Destroy()
	ctx.Update(img, data, 8)
	if n := UpdateCount(img); n != 1 || img.(*image).pix[15] != 16 {
		t.Fatalf("Update: image\nhave %d, %v\nwant 1, %v", n, img.(*image).pix, data)
	}
}

func TestMap(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	dyn, _ := dev.NewBuffer(&driver.BufferDesc{Size: 32, Usage: driver.UConstBuf, Mem: driver.MDynamic, CPU: driver.CPUWrite}, nil)
	defer dyn.Destroy()
	m, err := ctx.Map(dyn, driver.MapWriteDiscard)
	if err != nil || len(m.Data) != 32 {
		t.Fatalf("Map(dynamic, MapWriteDiscard)\nhave %d bytes, %v\nwant 32, nil", len(m.Data), err)
	}
	m.Data[0] = 42
	if _, err := ctx.Map(dyn, driver.MapWriteDiscard); driver.StatusOf(err) != driver.EInvalidCall {
		t.Fatalf("Map: already mapped\nhave %v\nwant %v", err, driver.EInvalidCall)
	}
	ctx.Unmap(dyn)
	if c := Contents(dyn); c[0] != 42 {
		t.Fatalf("Map: write\nhave %d\nwant 42", c[0])
	}
	if _, err := ctx.Map(dyn, driver.MapRead); driver.StatusOf(err) != driver.EInvalidArg {
		t.Fatalf("Map(dynamic, MapRead)\nhave %v\nwant %v", err, driver.EInvalidArg)
	}

	def, _ := dev.NewBuffer(&driver.BufferDesc{Size: 32, Usage: driver.UVertexBuf}, nil)
	defer def.Destroy()
	if _, err := ctx.Map(def, driver.MapRead); driver.StatusOf(err) != driver.EInvalidArg {
		t.Fatalf("Map(default)\nhave %v\nwant %v", err, driver.EInvalidArg)
	}

	stg, _ := dev.NewBuffer(&driver.BufferDesc{Size: 32, Mem: driver.MStaging, CPU: driver.CPURead}, nil)
	defer stg.Destroy()
	ctx.CopyResource(stg, dyn)
	m, err = ctx.Map(stg, driver.MapRead)
	if err != nil || m.Data[0] != 42 {
		t.Fatalf("Map(staging, MapRead) after copy\nhave %v, %v\nwant 42, nil", m.Data, err)
	}
	ctx.Unmap(stg)
	if _, err := ctx.Map(stg, driver.MapWrite); driver.StatusOf(err) != driver.EInvalidArg {
		t.Fatalf("Map(read-only staging, MapWrite)\nhave %v\nwant %v", err, driver.EInvalidArg)
	}
}

func TestResolve(t *testing.T) {
	dev, done := open(t, Config{})
	defer done()
	ctx := dev.ImmediateContext()
	ms, rtv := newTarget(t, dev, driver.RGBA8un, 16, 16, 4)
	defer ms.Destroy()
	defer rtv.Destroy()
	ss, _ := dev.NewImage(&driver.ImageDesc{Width: 16, Height: 16, Format: driver.RGBA8un, Usage: driver.UShaderResource}, nil)
	defer ss.Destroy()
	ctx.ClearTarget(rtv, [4]float32{0, 1, 0, 1})

	// Copying between different sample counts is not
	// allowed.
	ctx.CopyResource(ss, ms)
	if px := ss.(*image).pix; px[1] != 0 {
		t.Fatalf("CopyResource: multisampled source\nhave %v\nwant zero", px[:4])
	}
	ctx.Resolve(ss, ms, driver.RGBA8un)
	if px := readback(t, dev, ss); px[0] != 0 || px[1] != 255 || px[3] != 255 {
		t.Fatalf("Resolve\nhave %v\nwant [0 255 0 255]", px)
	}
}

func TestDrawCapture(t *testing.T) {
	for _, x := range [...]struct {
		capture int
		want    int
	}{
		{0, CaptureDraws},
		{3, 3},
		{-1, 0},
	} {
		dev, done := open(t, Config{CaptureDraws: x.capture})
		ctx := dev.ImmediateContext()
		const n = 1000
		for i := range n {
			ctx.DrawIndexed(i, 0, 0)
		}
		draws := Draws(ctx)
		if len(draws) != x.want {
			t.Fatalf("Draws: CaptureDraws %d\nhave %d draws\nwant %d", x.capture, len(draws), x.want)
		}
		for i, d := range draws {
			if want := n - x.want + i; d.IdxCount != want {
				t.Fatalf("Draws[%d].IdxCount: CaptureDraws %d\nhave %d\nwant %d", i, x.capture, d.IdxCount, want)
			}
		}
		if c := DrawCalls(ctx); c != n {
			t.Fatalf("DrawCalls\nhave %d\nwant %d", c, n)
		}
		done()
	}
}
