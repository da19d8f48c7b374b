// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package loader

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/gviegas/rcore/driver"
)

const ddsMagic = "DDS "

// DDS header layout (offsets from the start of the file).
const (
	ddsHeaderSize = 124
	offHeight     = 12
	offWidth      = 16
	offPFFlags    = 80
	offFourCC     = 84
	offBitCount   = 88
	offMasks      = 92
	offData       = 128
	offDXGIFormat = 128
	offDX10Data   = 148
)

// Pixel format flags.
const (
	pfAlphaPixels = 0x1
	pfFourCC      = 0x4
	pfRGB         = 0x40
	pfLuminance   = 0x20000
)

// DXGI formats that can be decoded.
const (
	dxgiRGBA8     = 28
	dxgiRGBA8sRGB = 29
	dxgiBC1       = 71
	dxgiBC1sRGB   = 72
	dxgiBC2       = 74
	dxgiBC2sRGB   = 75
	dxgiBC3       = 77
	dxgiBC3sRGB   = 78
	dxgiBGRA8     = 87
	dxgiBGRX8     = 88
	dxgiBGRA8sRGB = 91
)

// decodeDDS decodes the top-level image of a DDS file.
// Uncompressed RGB(A)/luminance data and BC1-BC3 block
// compression are supported.
// The payload size is checked before pixels are allocated.
func decodeDDS(data []byte) (*Image, error) {
	if len(data) < offData || binary.LittleEndian.Uint32(data[4:]) != ddsHeaderSize {
		return nil, fmt.Errorf("%w: truncated DDS header", ErrUnsupported)
	}
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }
	w, h := int(u32(offWidth)), int(u32(offHeight))
	if w <= 0 || h <= 0 || w > MaxSize || h > MaxSize {
		return nil, fmt.Errorf("%w: DDS size %dx%d", ErrUnsupported, w, h)
	}
	format := driver.RGBA8un

	body := data[offData:]
	var (
		bitCount int
		masks    [4]uint32
		decode   func(dst, src []byte)
		bsize    int
	)
	flags := u32(offPFFlags)
	if flags&pfFourCC == 0 {
		bitCount = int(u32(offBitCount))
		masks = [4]uint32{u32(offMasks), u32(offMasks + 4), u32(offMasks + 8), u32(offMasks + 12)}
		if flags&pfAlphaPixels == 0 {
			masks[3] = 0
		}
		if flags&pfLuminance != 0 {
			masks[1], masks[2] = masks[0], masks[0]
		} else if flags&pfRGB == 0 {
			return nil, fmt.Errorf("%w: DDS pixel format flags 0x%x", ErrUnsupported, flags)
		}
	} else {
		switch cc := string(data[offFourCC : offFourCC+4]); cc {
		case "DXT1":
			decode, bsize = decodeBC1, 8
		case "DXT2", "DXT3":
			decode, bsize = decodeBC2, 16
		case "DXT4", "DXT5":
			decode, bsize = decodeBC3, 16
		case "DX10":
			if len(data) < offDX10Data {
				return nil, fmt.Errorf("%w: truncated DX10 header", ErrUnsupported)
			}
			body = data[offDX10Data:]
			f := u32(offDXGIFormat)
			switch f {
			case dxgiRGBA8sRGB, dxgiBC1sRGB, dxgiBC2sRGB, dxgiBC3sRGB, dxgiBGRA8sRGB:
				format = driver.RGBA8sRGB
			}
			switch f {
			case dxgiRGBA8, dxgiRGBA8sRGB:
				bitCount, masks = 32, [4]uint32{0xff, 0xff00, 0xff0000, 0xff000000}
			case dxgiBGRA8, dxgiBGRA8sRGB:
				bitCount, masks = 32, [4]uint32{0xff0000, 0xff00, 0xff, 0xff000000}
			case dxgiBGRX8:
				bitCount, masks = 32, [4]uint32{0xff0000, 0xff00, 0xff, 0}
			case dxgiBC1, dxgiBC1sRGB:
				decode, bsize = decodeBC1, 8
			case dxgiBC2, dxgiBC2sRGB:
				decode, bsize = decodeBC2, 16
			case dxgiBC3, dxgiBC3sRGB:
				decode, bsize = decodeBC3, 16
			default:
				return nil, fmt.Errorf("%w: DXGI format %d", ErrUnsupported, f)
			}
		default:
			return nil, fmt.Errorf("%w: DDS FourCC %q", ErrUnsupported, cc)
		}
	}

	if decode == nil {
		if bitCount != 8 && bitCount != 16 && bitCount != 24 && bitCount != 32 {
			return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, bitCount)
		}
		if len(body) < (w*bitCount+7)/8*h {
			return nil, fmt.Errorf("%w: truncated DDS data", ErrUnsupported)
		}
		img := newImage(w, h, format)
		decodeMasked(img, body, bitCount, masks)
		return img, nil
	}

	bw, bh := (w+3)/4, (h+3)/4
	if len(body) < bw*bh*bsize {
		return nil, fmt.Errorf("%w: truncated DDS data", ErrUnsupported)
	}
	img := newImage(w, h, format)
	var block [64]byte
	for by := range bh {
		for bx := range bw {
			decode(block[:], body[(by*bw+bx)*bsize:])
			// Copy the 4x4 block, clipping at the edges.
			for y := range 4 {
				py := by*4 + y
				if py >= h {
					break
				}
				n := min(4, w-bx*4)
				copy(img.Pix[py*img.Stride+bx*16:], block[y*16:y*16+n*4])
			}
		}
	}
	return img, nil
}

func newImage(w, h int, format driver.PixelFmt) *Image {
	return &Image{Width: w, Height: h, Format: format, Stride: w * 4, Pix: make([]byte, w*h*4)}
}

// decodeMasked decodes uncompressed pixels whose channels
// are described by bit masks (R, G, B, A).
// A zero alpha mask yields opaque pixels.
// src must hold img.Height rows of bitCount-bit pixels.
func decodeMasked(img *Image, src []byte, bitCount int, masks [4]uint32) {
	bpp := bitCount / 8
	pitch := (img.Width*bitCount + 7) / 8
	for y := range img.Height {
		row := src[y*pitch:]
		for x := range img.Width {
			var v uint32
			for i := range bpp {
				v |= uint32(row[x*bpp+i]) << (8 * i)
			}
			dst := img.Pix[y*img.Stride+x*4:]
			for c, m := range masks {
				if m == 0 {
					dst[c] = 0
					if c == 3 {
						dst[c] = 255
					}
					continue
				}
				dst[c] = channel(v, m)
			}
		}
	}
}

// channel extracts the bits of v selected by mask m and
// scales them to 8 bits.
func channel(v, m uint32) byte {
	shift := bits.TrailingZeros32(m)
	width := bits.OnesCount32(m)
	x := (v & m) >> shift
	if width >= 8 {
		return byte(x >> (width - 8))
	}
	top := uint32(1)<<width - 1
	return byte((x*255 + top/2) / top)
}

// rgb565 expands a 5:6:5 color to 8-bit channels.
func rgb565(c uint16) [3]int {
	r, g, b := int(c>>11&31), int(c>>5&63), int(c&31)
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

// decodeColor decodes a BC1 color block into dst, a 4x4
// RGBA block. opaque forces the four-color mode.
func decodeColor(dst, src []byte, opaque bool) {
	c0 := binary.LittleEndian.Uint16(src)
	c1 := binary.LittleEndian.Uint16(src[2:])
	idx := binary.LittleEndian.Uint32(src[4:])
	var pal [4][4]int
	e0, e1 := rgb565(c0), rgb565(c1)
	for i := range 3 {
		pal[0][i], pal[1][i] = e0[i], e1[i]
		if c0 > c1 || opaque {
			pal[2][i] = (2*e0[i] + e1[i]) / 3
			pal[3][i] = (e0[i] + 2*e1[i]) / 3
		} else {
			pal[2][i] = (e0[i] + e1[i]) / 2
		}
	}
	pal[0][3], pal[1][3], pal[2][3] = 255, 255, 255
	if c0 > c1 || opaque {
		pal[3][3] = 255
	}
	for p := range 16 {
		c := pal[idx>>(2*p)&3]
		for i := range 4 {
			dst[p*4+i] = byte(c[i])
		}
	}
}

func decodeBC1(dst, src []byte) { decodeColor(dst, src, false) }

func decodeBC2(dst, src []byte) {
	decodeColor(dst, src[8:], true)
	a := binary.LittleEndian.Uint64(src)
	for p := range 16 {
		x := byte(a >> (4 * p) & 15)
		dst[p*4+3] = x<<4 | x
	}
}

func decodeBC3(dst, src []byte) {
	decodeColor(dst, src[8:], true)
	var pal [8]int
	pal[0], pal[1] = int(src[0]), int(src[1])
	if pal[0] > pal[1] {
		for i := 2; i < 8; i++ {
			pal[i] = ((8-i)*pal[0] + (i-1)*pal[1]) / 7
		}
	} else {
		for i := 2; i < 6; i++ {
			pal[i] = ((6-i)*pal[0] + (i-1)*pal[1]) / 5
		}
		pal[6], pal[7] = 0, 255
	}
	var idx uint64
	for i := range 6 {
		idx |= uint64(src[2+i]) << (8 * i)
	}
	for p := range 16 {
		dst[p*4+3] = byte(pal[idx>>(3*p)&7])
	}
}
