// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"slices"

	"github.com/gviegas/rcore/driver"
)

// The functions below inspect objects created by this
// package. They return zero values for objects created
// elsewhere.

// StateOf returns the state currently bound to ctx.
func StateOf(ctx driver.Context) State {
	c, ok := ctx.(*context)
	if !ok {
		return State{}
	}
	st := c.st
	st.Viewports = slices.Clone(st.Viewports)
	return st
}

// Draws returns the most recent draw calls issued through
// ctx, oldest first. At most Config.CaptureDraws are kept.
func Draws(ctx driver.Context) []Draw {
	c, ok := ctx.(*context)
	if !ok {
		return nil
	}
	return c.captured()
}

// DrawCalls returns the number of draw calls issued through
// ctx, including those no longer captured.
func DrawCalls(ctx driver.Context) int {
	if c, ok := ctx.(*context); ok {
		return c.issued
	}
	return 0
}

// Flushes returns how many times ctx was flushed.
func Flushes(ctx driver.Context) int {
	if c, ok := ctx.(*context); ok {
		return c.flushes
	}
	return 0
}

// DrawCount returns the number of draw calls that targeted
// img through a render target view.
func DrawCount(img driver.Image) int {
	if im, ok := img.(*image); ok && im != nil {
		return im.draws
	}
	return 0
}

// ClearCount returns the number of times that img was
// cleared through a view.
func ClearCount(img driver.Image) int {
	if im, ok := img.(*image); ok && im != nil {
		return im.clears
	}
	return 0
}

// UpdateCount returns the number of times that res was
// updated with driver.Context.Update.
func UpdateCount(res driver.Resource) int {
	switch r := res.(type) {
	case *buffer:
		if r != nil {
			return r.updates
		}
	case *image:
		if r != nil {
			return r.updates
		}
	}
	return 0
}

// Contents returns a copy of the contents of a buffer.
func Contents(buf driver.Buffer) []byte {
	if b, ok := buf.(*buffer); ok && b != nil {
		return slices.Clone(b.data)
	}
	return nil
}

// Depth returns the depth and stencil values at (x, y)
// of a depth/stencil image.
func Depth(img driver.Image, x, y int) (depth float32, stencil uint8) {
	im, ok := img.(*image)
	if !ok || im == nil || !im.desc.Format.IsDepth() ||
		x < 0 || y < 0 || x >= im.desc.Width || y >= im.desc.Height {
		return 0, 0
	}
	n := im.desc.Format.Size()
	return unpackDepth(im.pix[y*im.pitch+x*n:], im.desc.Format)
}

// RefCount returns the reference count of an object.
// It returns zero for released objects.
func RefCount(x any) int {
	if o, ok := x.(obj); ok {
		return o.obj().refs
	}
	return 0
}

// LiveCount returns the number of live objects of dev.
func LiveCount(dev driver.Device) int {
	d, ok := dev.(*device)
	if !ok {
		return 0
	}
	n := 0
	for range d.tab.slots.All() {
		n++
	}
	return n
}

// ReleaseLog returns the kinds of the objects of dev that
// were freed, in the order in which they were freed.
func ReleaseLog(dev driver.Device) []string {
	if d, ok := dev.(*device); ok {
		return slices.Clone(d.tab.freed)
	}
	return nil
}

// PresentCount returns the number of successful presents
// of sc.
func PresentCount(sc driver.Swapchain) int {
	if s, ok := sc.(*swapchain); ok && s != nil {
		return s.presents
	}
	return 0
}

// Displayed returns a copy of the pixels that sc presented
// last, or nil if it never presented.
func Displayed(sc driver.Swapchain) []byte {
	if s, ok := sc.(*swapchain); ok && s != nil {
		return s.displayed()
	}
	return nil
}
