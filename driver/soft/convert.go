// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"

	"github.com/gviegas/rcore/driver"
)

func saturate(x float32) float32 {
	switch {
	case x != x, x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// unorm converts x in [0, 1] to an unsigned normalized
// integer whose maximum value is scale.
func unorm(x, scale float32) uint32 {
	return uint32(math32.Round(saturate(x) * scale))
}

// encodeSRGB applies the sRGB transfer function to a
// linear value.
func encodeSRGB(x float32) float32 {
	x = saturate(x)
	if x <= 0.0031308 {
		return x * 12.92
	}
	return 1.055*math32.Pow(x, 1/2.4) - 0.055
}

// packColor converts a color to the memory layout of pf.
// dst must have length pf.Size().
func packColor(dst []byte, pf driver.PixelFmt, c [4]float32) {
	switch pf {
	case driver.RGBA8un, driver.BGRA8un, driver.RGBA8sRGB, driver.BGRA8sRGB:
		if pf.IsSRGB() {
			// Alpha is always linear.
			for i := range 3 {
				c[i] = encodeSRGB(c[i])
			}
		}
		if pf == driver.BGRA8un || pf == driver.BGRA8sRGB {
			c[0], c[2] = c[2], c[0]
		}
		for i := range 4 {
			dst[i] = byte(unorm(c[i], 255))
		}
	case driver.RG8un:
		dst[0] = byte(unorm(c[0], 255))
		dst[1] = byte(unorm(c[1], 255))
	case driver.R8un:
		dst[0] = byte(unorm(c[0], 255))
	case driver.RGBA32f:
		for i := range 4 {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(c[i]))
		}
	case driver.R32f:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(c[0]))
	case driver.R32ui:
		binary.LittleEndian.PutUint32(dst, uint32(max(c[0], 0)))
	}
}

// packDepth writes the aspects of a depth/stencil value
// selected by flags to the memory layout of pf.
// Aspects not selected are preserved.
func packDepth(dst []byte, pf driver.PixelFmt, flags driver.ClearFlag, depth float32, stencil uint8) {
	switch pf {
	case driver.D16un:
		if flags&driver.CDepth != 0 {
			binary.LittleEndian.PutUint16(dst, uint16(unorm(depth, 65535)))
		}
	case driver.D32f:
		if flags&driver.CDepth != 0 {
			binary.LittleEndian.PutUint32(dst, math.Float32bits(depth))
		}
	case driver.D24unS8ui:
		// Depth in bits 0-23, stencil in bits 24-31.
		v := binary.LittleEndian.Uint32(dst)
		if flags&driver.CDepth != 0 {
			v = v&0xff000000 | unorm(depth, 1<<24-1)
		}
		if flags&driver.CStencil != 0 {
			v = v&0x00ffffff | uint32(stencil)<<24
		}
		binary.LittleEndian.PutUint32(dst, v)
	}
}

// unpackDepth returns the depth and stencil aspects of
// a pixel in the memory layout of pf.
func unpackDepth(src []byte, pf driver.PixelFmt) (depth float32, stencil uint8) {
	switch pf {
	case driver.D16un:
		return float32(binary.LittleEndian.Uint16(src)) / 65535, 0
	case driver.D32f:
		return math.Float32frombits(binary.LittleEndian.Uint32(src)), 0
	case driver.D24unS8ui:
		v := binary.LittleEndian.Uint32(src)
		return float32(v&0xffffff) / (1<<24 - 1), uint8(v >> 24)
	}
	return 0, 0
}

// fill repeats the pixel value px over pix.
func fill(pix, px []byte) {
	if len(px) == 0 || len(pix) == 0 {
		return
	}
	n := copy(pix, px)
	for n < len(pix) {
		n += copy(pix[n:], pix[:n])
	}
}
