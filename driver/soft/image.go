// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"github.com/gviegas/rcore/driver"
)

// image implements driver.Image.
// Only level 0 has storage. Multisampled images store
// resolved pixels.
type image struct {
	object
	desc    driver.ImageDesc
	pix     []byte
	pitch   int
	draws   int
	clears  int
	updates int
	mapped  bool
}

// NewImage implements driver.Device.
func (d *device) NewImage(desc *driver.ImageDesc, data *driver.InitData) (driver.Image, error) {
	const op = "NewImage"
	if err := d.check(op); err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, invalid(op, "nil description")
	}
	dsc := *desc
	if dsc.Levels == 0 {
		dsc.Levels = 1
	}
	if dsc.Layers == 0 {
		dsc.Layers = 1
	}
	if dsc.Samples == 0 {
		dsc.Samples = 1
	}
	switch {
	case dsc.Width <= 0 || dsc.Height <= 0:
		return nil, invalid(op, "empty image", "width", dsc.Width, "height", dsc.Height)
	case dsc.Width > d.caps.MaxImage2D || dsc.Height > d.caps.MaxImage2D:
		return nil, invalid(op, "image too large", "width", dsc.Width, "height", dsc.Height)
	case dsc.Format.Size() == 0:
		return nil, invalid(op, "unknown format", "format", dsc.Format)
	case dsc.Format.IsDepth() && dsc.Usage&driver.URenderTarget != 0:
		return nil, invalid(op, "depth format bound as render target", "format", dsc.Format)
	case !dsc.Format.IsDepth() && dsc.Usage&driver.UDepthStencil != 0:
		return nil, invalid(op, "color format bound as depth/stencil", "format", dsc.Format)
	case dsc.Usage&(driver.UVertexBuf|driver.UIndexBuf|driver.UConstBuf) != 0:
		return nil, invalid(op, "buffer usage on image", "usage", dsc.Usage)
	case dsc.Mem == driver.MImmutable && (data == nil || data.Data == nil):
		return nil, invalid(op, "immutable image without data")
	case dsc.Mem == driver.MStaging && (dsc.Usage != driver.UNone || dsc.CPU == 0):
		return nil, invalid(op, "staging image must be unbound and CPU accessible", "usage", dsc.Usage, "cpu", dsc.CPU)
	case dsc.Mem == driver.MStaging && dsc.Samples > 1:
		return nil, invalid(op, "multisampled staging image", "samples", dsc.Samples)
	case dsc.Mem == driver.MDynamic && dsc.CPU != driver.CPUWrite:
		return nil, invalid(op, "dynamic image must be CPU writable only", "cpu", dsc.CPU)
	case dsc.Mem == driver.MDefault && dsc.CPU != 0:
		return nil, invalid(op, "default image with CPU access", "cpu", dsc.CPU)
	}
	if dsc.Samples > 1 && dsc.Levels > 1 {
		return nil, invalid(op, "multisampled image with mip levels", "levels", dsc.Levels)
	}
	if err := d.checkSamples(op, dsc.Format, dsc.Samples, dsc.Quality); err != nil {
		return nil, err
	}
	im := &image{desc: dsc}
	im.pitch = dsc.Width * dsc.Format.Size()
	im.pix = make([]byte, im.pitch*dsc.Height)
	if data != nil && data.Data != nil {
		if !copyRows(im.pix, im.pitch, data.Data, data.RowPitch, dsc.Height) {
			return nil, invalid(op, "initial data too short", "size", len(data.Data))
		}
	}
	d.track(&im.object, "image")
	return im, nil
}

// copyRows copies rows from src into dst, whose rows are
// dpitch bytes long.
// spitch zero means tightly packed.
func copyRows(dst []byte, dpitch int, src []byte, spitch, rows int) bool {
	if spitch == 0 {
		spitch = dpitch
	}
	if spitch < dpitch || len(src) < spitch*(rows-1)+dpitch {
		return false
	}
	for y := range rows {
		copy(dst[y*dpitch:(y+1)*dpitch], src[y*spitch:])
	}
	return true
}

// Dim implements driver.Resource.
func (im *image) Dim() driver.ResourceDim { return driver.RImage2D }

// Desc implements driver.Image.
func (im *image) Desc() driver.ImageDesc { return im.desc }

// Destroy implements driver.Destroyer.
func (im *image) Destroy() {
	if im == nil {
		return
	}
	if im.release() {
		*im = image{}
	}
}

// view implements driver.View.
type view struct {
	object
	vkind driver.ViewKind
	img   *image
	desc  driver.ViewDesc
}

var viewKinds = [...]struct {
	name  string
	usage driver.Usage
}{
	driver.KRenderTarget:   {"render-target-view", driver.URenderTarget},
	driver.KDepthStencil:   {"depth-stencil-view", driver.UDepthStencil},
	driver.KShaderResource: {"shader-resource-view", driver.UShaderResource},
}

func (d *device) newView(op string, k driver.ViewKind, img driver.Image, desc *driver.ViewDesc) (driver.View, error) {
	if err := d.check(op); err != nil {
		return nil, err
	}
	im, ok := img.(*image)
	if !ok || im == nil || im.refs <= 0 {
		return nil, invalid(op, "invalid image")
	}
	if im.d != d {
		return nil, invalid(op, "image from another device")
	}
	if im.desc.Usage&viewKinds[k].usage == 0 {
		return nil, invalid(op, "image usage lacks "+viewKinds[k].name, "usage", im.desc.Usage)
	}
	var dsc driver.ViewDesc
	if desc != nil {
		dsc = *desc
	}
	if dsc.Format == driver.FUnknown {
		dsc.Format = im.desc.Format
	}
	if dsc.Format.Size() != im.desc.Format.Size() || dsc.Format.IsDepth() != im.desc.Format.IsDepth() {
		return nil, invalid(op, "view format incompatible with image", "view", dsc.Format, "image", im.desc.Format)
	}
	ms := driver.V2D
	if im.desc.Samples > 1 {
		ms = driver.V2DMS
	}
	if dsc.Dim == driver.VUnknown {
		dsc.Dim = ms
	}
	if dsc.Dim != ms {
		return nil, invalid(op, "view dimension does not match sample count", "dim", dsc.Dim, "samples", im.desc.Samples)
	}
	if dsc.Levels == 0 {
		dsc.Levels = 1
	}
	if dsc.Level < 0 || dsc.Level+dsc.Levels > im.desc.Levels || (k != driver.KShaderResource && dsc.Levels != 1) {
		return nil, invalid(op, "invalid level range", "level", dsc.Level, "levels", dsc.Levels)
	}
	v := &view{vkind: k, img: im, desc: dsc}
	im.addRef()
	d.track(&v.object, viewKinds[k].name)
	return v, nil
}

// NewRenderTargetView implements driver.Device.
func (d *device) NewRenderTargetView(img driver.Image, desc *driver.ViewDesc) (driver.View, error) {
	return d.newView("NewRenderTargetView", driver.KRenderTarget, img, desc)
}

// NewDepthStencilView implements driver.Device.
func (d *device) NewDepthStencilView(img driver.Image, desc *driver.ViewDesc) (driver.View, error) {
	return d.newView("NewDepthStencilView", driver.KDepthStencil, img, desc)
}

// NewShaderResourceView implements driver.Device.
func (d *device) NewShaderResourceView(img driver.Image, desc *driver.ViewDesc) (driver.View, error) {
	return d.newView("NewShaderResourceView", driver.KShaderResource, img, desc)
}

// Kind implements driver.View.
func (v *view) Kind() driver.ViewKind { return v.vkind }

// Image implements driver.View.
func (v *view) Image() driver.Image { return v.img }

// Desc implements driver.View.
func (v *view) Desc() driver.ViewDesc { return v.desc }

// Destroy implements driver.Destroyer.
// The view's reference to its image is released along
// with the view.
func (v *view) Destroy() {
	if v == nil {
		return
	}
	if v.release() {
		v.img.Destroy()
		*v = view{}
	}
}
