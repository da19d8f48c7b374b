// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package wsi defines the window collaborator used for
// presentation.
// The platform window and its message pump live outside
// this module; wsi describes what the renderer needs from
// them and provides a headless window for offscreen use.
package wsi

import (
	"errors"
)

// ErrClosed means that the window was closed.
var ErrClosed = errors.New("wsi: window closed")

// Window is the interface that defines a drawable window.
// The purpose of a window is to provide a surface into
// which a GPU can draw.
type Window interface {
	// Width returns the width of the client area.
	Width() int

	// Height returns the height of the client area.
	Height() int

	// Handle returns the native window handle.
	// Backends that present onscreen interpret it;
	// the headless window returns a unique non-zero
	// value.
	Handle() uintptr

	// Dispatch handles at most one pending message,
	// delivering it to the window's Handler.
	// It reports whether a message was pending.
	Dispatch() bool

	// Closed reports whether the window was closed.
	Closed() bool

	// Close closes the window.
	// Handler.WindowClose is not called.
	Close()
}

// Handler is the interface that defines the methods
// for handling window events.
// A Handler is bound to a window when the window is
// created.
type Handler interface {
	// WindowClose is called when the window is
	// requested to close.
	WindowClose(win Window)

	// WindowResize is called when the client area
	// of the window is resized.
	WindowResize(win Window, newWidth, newHeight int)

	// KeyboardKey is called when a key is pressed/released.
	KeyboardKey(win Window, key Key, pressed bool, modMask Modifier)
}

// Key is the type of keyboard keys.
type Key int

// Keyboard keys.
const (
	KeyUnknown Key = iota
	KeyEsc
	KeyReturn
	KeySpace
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifier is the type of modifier flags.
type Modifier int

// Modifier flags.
const (
	ModCapsLock Modifier = 1 << iota
	ModShift
	ModCtrl
	ModAlt
)
