// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package loader decodes image files into CPU images that
// can be uploaded to GPU textures.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	goimage "image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"

	"github.com/gviegas/rcore/driver"
)

// ErrUnsupported means that the image data is in a format
// that the loader cannot decode.
var ErrUnsupported = errors.New("loader: unsupported image format")

// ErrMismatch means that the image data does not match the
// expected extension.
var ErrMismatch = errors.New("loader: content does not match extension")

// MaxSize is the largest width or height that the loader
// decodes.
const MaxSize = 16384

// Ext identifies an image file type.
type Ext int

// Image file types.
const (
	DDS Ext = iota
	PNG
	JPG
)

var extNames = [...]string{DDS: "dds", PNG: "png", JPG: "jpg"}

// String implements fmt.Stringer.
func (e Ext) String() string {
	if e < 0 || int(e) >= len(extNames) {
		return fmt.Sprintf("Ext(%d)", int(e))
	}
	return extNames[e]
}

// MarshalText implements encoding.TextMarshaler.
func (e Ext) MarshalText() ([]byte, error) {
	if e < 0 || int(e) >= len(extNames) {
		return nil, fmt.Errorf("loader: invalid extension %d", int(e))
	}
	return []byte(extNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Names are case-insensitive and may have a leading dot.
func (e *Ext) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.ToLower(string(text)), ".")
	if s == "jpeg" {
		s = "jpg"
	}
	for i, n := range extNames {
		if n == s {
			*e = Ext(i)
			return nil
		}
	}
	return fmt.Errorf("loader: unknown extension %q", string(text))
}

// Image is a decoded image.
// Pix holds Height rows of Stride bytes each.
type Image struct {
	Name   string
	Width  int
	Height int
	Format driver.PixelFmt
	Stride int
	Pix    []byte
}

// Load reads and decodes the named file.
// The extension is appended to name when missing.
func Load(name string, ext Ext) (*Image, error) {
	if int(ext) < 0 || int(ext) >= len(extNames) {
		return nil, fmt.Errorf("loader: %s: %w", name, ErrUnsupported)
	}
	name = WithExt(name, ext)
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	img, err := Decode(bytes.NewReader(data), ext)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", name, err)
	}
	img.Name = name
	return img, nil
}

// WithExt returns name with the extension of ext appended,
// unless name already has that extension.
func WithExt(name string, ext Ext) string {
	e := strings.ToLower(filepath.Ext(name))
	if e == "."+ext.String() || (ext == JPG && e == ".jpeg") {
		return name
	}
	return name + "." + ext.String()
}

// Decode decodes image data of type ext.
// Color images are converted to 8-bit RGBA.
func Decode(r io.Reader, ext Ext) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := sniff(data, ext); err != nil {
		return nil, err
	}
	switch ext {
	case DDS:
		return decodeDDS(data)
	case PNG:
		if err := checkSize(png.DecodeConfig(bytes.NewReader(data))); err != nil {
			return nil, err
		}
		m, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return fromImage(m), nil
	case JPG:
		if err := checkSize(jpeg.DecodeConfig(bytes.NewReader(data))); err != nil {
			return nil, err
		}
		m, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return fromImage(m), nil
	}
	return nil, ErrUnsupported
}

// checkSize rejects images larger than MaxSize.
func checkSize(c goimage.Config, err error) error {
	switch {
	case err != nil:
		return err
	case c.Width > MaxSize || c.Height > MaxSize:
		return fmt.Errorf("%w: size %dx%d", ErrUnsupported, c.Width, c.Height)
	}
	return nil
}

// sniff checks that data matches ext.
func sniff(data []byte, ext Ext) error {
	switch ext {
	case DDS:
		if !bytes.HasPrefix(data, []byte(ddsMagic)) {
			return ErrMismatch
		}
	case PNG, JPG:
		if !filetype.Is(data, ext.String()) {
			if k, err := filetype.Match(data); err == nil && k != filetype.Unknown {
				return fmt.Errorf("%w: found %s", ErrMismatch, k.Extension)
			}
			return ErrMismatch
		}
	}
	return nil
}

// fromImage converts m to 8-bit RGBA.
func fromImage(m goimage.Image) *Image {
	b := m.Bounds()
	rgba, ok := m.(*goimage.RGBA)
	if !ok || rgba.Rect.Min != (goimage.Point{}) {
		rgba = goimage.NewRGBA(goimage.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, m, b.Min, draw.Src)
	}
	return &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: driver.RGBA8un,
		Stride: rgba.Stride,
		Pix:    rgba.Pix,
	}
}

// Fit returns an image no larger than size in either
// dimension, preserving the aspect ratio.
// It returns img itself when it already fits.
// Images are scaled with a Catmull-Rom filter.
func (img *Image) Fit(size int) *Image {
	if size <= 0 || (img.Width <= size && img.Height <= size) {
		return img
	}
	w, h := size, size
	if img.Width > img.Height {
		h = max(1, img.Height*size/img.Width)
	} else {
		w = max(1, img.Width*size/img.Height)
	}
	src := &goimage.RGBA{Pix: img.Pix, Stride: img.Stride, Rect: goimage.Rect(0, 0, img.Width, img.Height)}
	dst := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	return &Image{
		Name:   img.Name,
		Width:  w,
		Height: h,
		Format: img.Format,
		Stride: dst.Stride,
		Pix:    dst.Pix,
	}
}
