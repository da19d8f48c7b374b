// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"
	"unsafe"

	"github.com/gviegas/rcore/driver"
)

// Frequency identifies how often a constant buffer
// changes.
type Frequency int

// Update frequencies.
const (
	// Set once at initialization (e.g., the view
	// matrix).
	Rare Frequency = iota
	// Updated when the output size changes (e.g.,
	// the projection matrix).
	OnResize
	// Updated every frame (e.g., the world matrix).
	PerFrame
)

var freqNames = [...]string{"rare", "on-resize", "per-frame"}

func (f Frequency) String() string {
	if f < 0 || int(f) >= len(freqNames) {
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
	return freqNames[f]
}

// ConstantBuffer is a GPU buffer mirroring a value of
// type T.
// T must not contain pointers. The size of the buffer
// is the size of T rounded up to 16 bytes.
type ConstantBuffer[T any] struct {
	_     noCopy
	buf   driver.Buffer
	freq  Frequency
	rev   int
	stage []byte
}

// size returns the buffer size for T.
func size[T any]() int {
	var x T
	return (int(unsafe.Sizeof(x)) + 15) &^ 15
}

// bytes copies *x into c.stage and returns it.
func (c *ConstantBuffer[T]) bytes(x *T) []byte {
	n := int(unsafe.Sizeof(*x))
	copy(c.stage, unsafe.Slice((*byte)(unsafe.Pointer(x)), n))
	return c.stage
}

// Init creates the buffer.
// If init is not nil, the buffer starts with its value.
func (c *ConstantBuffer[T]) Init(dev *GraphicsDevice, freq Frequency, init *T) error {
	if c.buf != nil {
		return fmt.Errorf("engine: ConstantBuffer.Init: %w", ErrAlreadyCreated)
	}
	n := size[T]()
	if n == 0 {
		return fmt.Errorf("engine: ConstantBuffer.Init: empty payload type: %w", driver.EInvalidArg)
	}
	c.stage = make([]byte, n)
	var data []byte
	if init != nil {
		data = c.bytes(init)
	}
	buf, err := dev.NewBuffer(&driver.BufferDesc{Size: n, Usage: driver.UConstBuf, Mem: driver.MDefault}, data)
	if err != nil {
		c.stage = nil
		return err
	}
	c.buf, c.freq, c.rev = buf, freq, 0
	return nil
}

// Update uploads *x to the buffer.
func (c *ConstantBuffer[T]) Update(ctx *DeviceContext, x *T) {
	if c == nil || c.buf == nil {
		warn("ConstantBuffer.Update", "buffer not created")
		return
	}
	if ctx.Context() == nil {
		warn("ConstantBuffer.Update", "context not created")
		return
	}
	ctx.Update(c.buf, c.bytes(x), 0)
	c.rev++
	driver.Logger().Debug("engine: constant buffer updated", "frequency", c.freq, "revision", c.rev)
}

// Render binds the buffer to the given slot of stage.
func (c *ConstantBuffer[T]) Render(ctx *DeviceContext, stage driver.Stage, slot int) {
	if c == nil || c.buf == nil {
		warn("ConstantBuffer.Render", "buffer not created")
		return
	}
	ctx.SetConstBufs(stage, slot, []driver.Buffer{c.buf})
}

// Buffer returns the native buffer.
func (c *ConstantBuffer[T]) Buffer() driver.Buffer { return c.buf }

// Frequency returns the update frequency of c.
func (c *ConstantBuffer[T]) Frequency() Frequency { return c.freq }

// Revision returns the number of times that c was
// updated.
func (c *ConstantBuffer[T]) Revision() int { return c.rev }

// Size returns the size in bytes of the buffer.
func (c *ConstantBuffer[T]) Size() int { return len(c.stage) }

// Destroy releases the native buffer.
func (c *ConstantBuffer[T]) Destroy() {
	if c == nil || c.buf == nil {
		return
	}
	c.buf.Destroy()
	*c = ConstantBuffer[T]{}
}
