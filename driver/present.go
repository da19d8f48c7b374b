// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"

	"github.com/gviegas/rcore/wsi"
)

// ErrCannotPresent means that the driver and/or device do not
// support presentation.
var ErrCannotPresent = errors.New("driver: presentation not supported")

// ErrWindow represents an error related to a specific window.
// This error usually indicates that a window misconfiguration
// is preventing correct operation. For instance, the window
// may have been closed.
var ErrWindow = errors.New("driver: window-related error")

// ErrSwapchain represents an error related to a specific
// swapchain.
// This error usually indicates that changes to the window or
// compositor made the swapchain unusable.
var ErrSwapchain = errors.New("driver: swapchain-related error")

// Presenter is the interface that a Device may implement
// to enable presentation on a display.
// Creating a swapchain walks the chain
// Device -> PresentDevice -> Adapter -> Factory, and the
// intermediate handles are released in reverse order of
// acquisition.
type Presenter interface {
	// PresentDevice returns the presentation interface of
	// the device.
	PresentDevice() (PresentDevice, error)
}

// PresentDevice is the presentation interface of a Device.
type PresentDevice interface {
	Destroyer

	// Adapter returns the adapter of the device.
	Adapter() (Adapter, error)
}

// Adapter is the interface that defines a display adapter.
type Adapter interface {
	Destroyer

	// Name returns a description of the adapter.
	Name() string

	// Factory returns the factory that created the
	// adapter.
	Factory() (Factory, error)
}

// Factory is the interface that creates swapchains.
type Factory interface {
	Destroyer

	// NewSwapchain creates a new swapchain for dev,
	// bound to win.
	// Only one swapchain can be associated with a specific
	// wsi.Window at a time.
	NewSwapchain(dev Device, desc *SwapchainDesc, win wsi.Window) (Swapchain, error)
}

// SwapchainDesc describes a Swapchain.
type SwapchainDesc struct {
	BufferCount int
	Format      PixelFmt
	Width       int
	Height      int
	Samples     int
	Quality     int
	// Usage must contain URenderTarget.
	Usage    Usage
	Windowed bool
}

// Swapchain is the interface that defines a n-buffered
// swapchain for presentation.
// Rendering targets buffer 0, which always refers to the
// current back buffer. Present flips the chain.
type Swapchain interface {
	Destroyer

	// Buffer returns a new reference to the i-th buffer.
	// The caller must call Destroy on the returned image
	// before the swapchain is destroyed or resized.
	Buffer(i int) (Image, error)

	// Present presents the current back buffer.
	// syncInterval 0 presents immediately and 1 waits
	// for vertical sync. An occluded window yields
	// SOccluded, which is not a failure.
	Present(syncInterval int) error

	// CurrentIndex returns the index of the buffer that
	// the next Present will display.
	CurrentIndex() int

	// Resize resizes the buffers.
	// It fails with EInvalidCall if references to
	// buffers are still held.
	Resize(width, height int) error

	// Desc returns the current description of the
	// swapchain.
	Desc() SwapchainDesc
}
