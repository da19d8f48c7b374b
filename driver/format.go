// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"fmt"
)

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	FUnknown PixelFmt = iota
	// Color, 8-bit channels.
	RGBA8un
	RGBA8sRGB
	BGRA8un
	BGRA8sRGB
	RG8un
	R8un
	// Color, 32-bit channels.
	RGBA32f
	R32f
	R32ui
	// Depth/Stencil.
	D16un
	D32f
	D24unS8ui
)

var pfNames = [...]string{
	FUnknown:  "unknown",
	RGBA8un:   "rgba8un",
	RGBA8sRGB: "rgba8srgb",
	BGRA8un:   "bgra8un",
	BGRA8sRGB: "bgra8srgb",
	RG8un:     "rg8un",
	R8un:      "r8un",
	RGBA32f:   "rgba32f",
	R32f:      "r32f",
	R32ui:     "r32ui",
	D16un:     "d16un",
	D32f:      "d32f",
	D24unS8ui: "d24uns8ui",
}

// String implements fmt.Stringer.
func (f PixelFmt) String() string {
	if f < 0 || int(f) >= len(pfNames) {
		return fmt.Sprintf("PixelFmt(%d)", int(f))
	}
	return pfNames[f]
}

// MarshalText implements encoding.TextMarshaler.
func (f PixelFmt) MarshalText() ([]byte, error) {
	if f < 0 || int(f) >= len(pfNames) {
		return nil, fmt.Errorf("driver: invalid pixel format %d", int(f))
	}
	return []byte(pfNames[f]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *PixelFmt) UnmarshalText(text []byte) error {
	s := string(text)
	for i, n := range pfNames {
		if n == s {
			*f = PixelFmt(i)
			return nil
		}
	}
	return fmt.Errorf("driver: unknown pixel format %q", s)
}

// Size returns the size of one pixel in bytes.
// It returns zero for FUnknown.
func (f PixelFmt) Size() int {
	switch f {
	case RGBA8un, RGBA8sRGB, BGRA8un, BGRA8sRGB:
		return 4
	case RG8un, D16un:
		return 2
	case R8un:
		return 1
	case RGBA32f:
		return 16
	case R32f, R32ui, D32f, D24unS8ui:
		return 4
	}
	return 0
}

// IsDepth returns whether f is a depth/stencil format.
func (f PixelFmt) IsDepth() bool {
	return f == D16un || f == D32f || f == D24unS8ui
}

// IsSRGB returns whether f stores color in the sRGB
// encoding.
func (f PixelFmt) IsSRGB() bool {
	return f == RGBA8sRGB || f == BGRA8sRGB
}
