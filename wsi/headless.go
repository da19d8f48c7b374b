// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"sync/atomic"
)

// Headless is an in-memory Window.
// It has no on-screen surface; events are queued with
// Post, Resize and RequestClose and delivered one at a
// time by Dispatch.
type Headless struct {
	width  int
	height int
	handle uintptr
	closed bool
	h      Handler
	queue  []func(*Headless)
}

var handleSeq atomic.Uintptr

// NewHeadless creates a new headless window whose events
// are delivered to h.
// h may be nil, in which case events are discarded.
func NewHeadless(width, height int, h Handler) *Headless {
	return &Headless{
		width:  max(width, 0),
		height: max(height, 0),
		handle: handleSeq.Add(1),
		h:      h,
	}
}

// Width implements Window.
func (w *Headless) Width() int { return w.width }

// Height implements Window.
func (w *Headless) Height() int { return w.height }

// Handle implements Window.
func (w *Headless) Handle() uintptr {
	if w.closed {
		return 0
	}
	return w.handle
}

// Closed implements Window.
func (w *Headless) Closed() bool { return w.closed }

// Close implements Window.
// Pending messages are discarded.
func (w *Headless) Close() {
	w.closed = true
	w.queue = nil
}

// Dispatch implements Window.
func (w *Headless) Dispatch() bool {
	if len(w.queue) == 0 {
		return false
	}
	m := w.queue[0]
	w.queue[0] = nil
	w.queue = w.queue[1:]
	m(w)
	return true
}

// Pending returns the number of queued messages.
func (w *Headless) Pending() int { return len(w.queue) }

// Post queues a key message.
func (w *Headless) Post(key Key, pressed bool, modMask Modifier) error {
	return w.push(func(w *Headless) {
		if w.h != nil {
			w.h.KeyboardKey(w, key, pressed, modMask)
		}
	})
}

// Resize queues a resize message.
// The new size takes effect when the message is
// dispatched.
func (w *Headless) Resize(width, height int) error {
	return w.push(func(w *Headless) {
		w.width = max(width, 0)
		w.height = max(height, 0)
		if w.h != nil {
			w.h.WindowResize(w, w.width, w.height)
		}
	})
}

// RequestClose queues a close request.
// The handler decides whether to actually Close the
// window.
func (w *Headless) RequestClose() error {
	return w.push(func(w *Headless) {
		if w.h != nil {
			w.h.WindowClose(w)
		} else {
			w.Close()
		}
	})
}

func (w *Headless) push(m func(*Headless)) error {
	if w.closed {
		return ErrClosed
	}
	w.queue = append(w.queue, m)
	return nil
}
