// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/loader"
)

const texPrefix = "engine: texture: "

// Texture wraps a 2D driver.Image.
// A Texture is created by exactly one of its Init
// methods.
type Texture struct {
	_       noCopy
	img     driver.Image
	view    driver.View
	name    string
	width   int
	height  int
	format  driver.PixelFmt
	usage   driver.Usage
	samples int
	quality int
}

// TexParam describes a blank texture.
type TexParam struct {
	Width   int
	Height  int
	Format  driver.PixelFmt
	Usage   driver.Usage
	Samples int
	Quality int
}

func (t *Texture) check(op string, dev *GraphicsDevice) error {
	if t.img != nil {
		return fmt.Errorf(texPrefix+"%s: %w", op, ErrAlreadyCreated)
	}
	if dev.Device() == nil {
		return notCreated("Texture."+op, "device")
	}
	return nil
}

// InitFromFile loads an image file and creates a
// shader-resource texture from it. The texture owns a
// view of itself, which Render binds.
// The extension of ext is appended to name if missing.
// Images larger than the device limit are downscaled.
func (t *Texture) InitFromFile(dev *GraphicsDevice, name string, ext loader.Ext) (err error) {
	if err = t.check("InitFromFile", dev); err != nil {
		return
	}
	img, err := loader.Load(name, ext)
	if err != nil {
		return fmt.Errorf(texPrefix+"%w", err)
	}
	if n := dev.Caps().MaxImage2D; n > 0 && (img.Width > n || img.Height > n) {
		driver.Logger().Warn("engine: texture downscaled", "name", img.Name,
			"width", img.Width, "height", img.Height, "limit", n)
		img = img.Fit(n)
	}
	desc := driver.ImageDesc{
		Width:  img.Width,
		Height: img.Height,
		Levels: 1,
		Layers: 1,
		Format: img.Format,
		Usage:  driver.UShaderResource,
		Mem:    driver.MImmutable,
	}
	im, err := dev.NewImage(&desc, &driver.InitData{Data: img.Pix, RowPitch: img.Stride})
	if err != nil {
		return
	}
	view, err := dev.NewShaderResourceView(im, &driver.ViewDesc{Format: img.Format, Dim: driver.V2D, Levels: 1})
	if err != nil {
		im.Destroy()
		return
	}
	t.set(im, img.Name)
	t.view = view
	return nil
}

// InitBlank creates an uninitialized texture.
func (t *Texture) InitBlank(dev *GraphicsDevice, param *TexParam) error {
	if err := t.check("InitBlank", dev); err != nil {
		return err
	}
	if param == nil {
		return notCreated("Texture.InitBlank", "parameters")
	}
	im, err := dev.NewImage(&driver.ImageDesc{
		Width:   param.Width,
		Height:  param.Height,
		Levels:  1,
		Layers:  1,
		Format:  param.Format,
		Samples: max(param.Samples, 1),
		Quality: param.Quality,
		Usage:   param.Usage,
		Mem:     driver.MDefault,
	}, nil)
	if err != nil {
		return err
	}
	t.set(im, "")
	return nil
}

// InitFrom creates an uninitialized texture that has the
// same description as ref, except for its pixel format.
func (t *Texture) InitFrom(dev *GraphicsDevice, ref *Texture, format driver.PixelFmt) error {
	if err := t.check("InitFrom", dev); err != nil {
		return err
	}
	if ref == nil || ref.img == nil {
		return notCreated("Texture.InitFrom", "reference texture")
	}
	desc := ref.img.Desc()
	desc.Format = format
	if desc.Mem == driver.MImmutable {
		desc.Mem = driver.MDefault
	}
	im, err := dev.NewImage(&desc, nil)
	if err != nil {
		return err
	}
	t.set(im, "")
	return nil
}

// initFromSwapchain obtains the back buffer of sc.
func (t *Texture) initFromSwapchain(sc driver.Swapchain) error {
	if t.img != nil {
		return fmt.Errorf(texPrefix+"initFromSwapchain: %w", ErrAlreadyCreated)
	}
	im, err := sc.Buffer(0)
	if err != nil {
		return newCreationError("Buffer", err)
	}
	t.set(im, "")
	return nil
}

func (t *Texture) set(img driver.Image, name string) {
	desc := img.Desc()
	t.img = img
	t.name = name
	t.width = desc.Width
	t.height = desc.Height
	t.format = desc.Format
	t.usage = desc.Usage
	t.samples = max(desc.Samples, 1)
	t.quality = desc.Quality
}

// Render binds the view that InitFromFile created to
// the given slot of the pixel stage.
func (t *Texture) Render(ctx *DeviceContext, slot int) {
	if t == nil || t.view == nil {
		warn("Texture.Render", "texture has no view")
		return
	}
	ctx.SetResources(driver.SPixel, slot, []driver.View{t.view})
}

// Image returns the native image, or nil if t was not
// created.
func (t *Texture) Image() driver.Image { return t.img }

// View returns the shader resource view that t owns,
// or nil if it has none.
func (t *Texture) View() driver.View { return t.view }

// Name returns the name of the file that t was loaded
// from.
func (t *Texture) Name() string { return t.name }

// Width returns the width of t.
func (t *Texture) Width() int { return t.width }

// Height returns the height of t.
func (t *Texture) Height() int { return t.height }

// Format returns the pixel format of t.
func (t *Texture) Format() driver.PixelFmt { return t.format }

// Usage returns the usage of t.
func (t *Texture) Usage() driver.Usage { return t.usage }

// Samples returns the number of samples of t.
func (t *Texture) Samples() int { return t.samples }

// Quality returns the MSAA quality level of t.
func (t *Texture) Quality() int { return t.quality }

// Destroy releases the image and the view that t owns.
func (t *Texture) Destroy() {
	if t == nil || t.img == nil {
		return
	}
	if t.view != nil {
		t.view.Destroy()
	}
	t.img.Destroy()
	*t = Texture{}
}
