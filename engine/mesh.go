// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"
	"unsafe"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/linear"
)

const meshPrefix = "engine: mesh: "

// Vertex is a textured vertex.
type Vertex struct {
	Pos linear.V3
	UV  [2]float32
}

// VertexSize is the size in bytes of a Vertex.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// VertexLayout describes a Vertex to the input assembler.
var VertexLayout = []driver.InputElement{
	{Semantic: "POSITION", Format: driver.Float32x3, Offset: int(unsafe.Offsetof(Vertex{}.Pos))},
	{Semantic: "TEXCOORD", Format: driver.Float32x2, Offset: int(unsafe.Offsetof(Vertex{}.UV))},
}

// Mesh is indexed triangle-list geometry.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// VertexCount returns len(m.Vertices).
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// IndexCount returns len(m.Indices).
func (m *Mesh) IndexCount() int { return len(m.Indices) }

// bytesOf returns the memory of s as a byte slice.
func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var x T
	p := (*byte)(unsafe.Pointer(unsafe.SliceData(s)))
	return unsafe.Slice(p, len(s)*int(unsafe.Sizeof(x)))
}

// VertexBuffer is an immutable buffer holding the
// vertices of a Mesh.
type VertexBuffer struct {
	_     noCopy
	buf   driver.Buffer
	count int
}

// Init creates the buffer from m.Vertices.
func (b *VertexBuffer) Init(dev *GraphicsDevice, m *Mesh) error {
	if b.buf != nil {
		return fmt.Errorf(meshPrefix+"VertexBuffer.Init: %w", ErrAlreadyCreated)
	}
	if m == nil || len(m.Vertices) == 0 {
		return fmt.Errorf(meshPrefix+"no vertices: %w", driver.EInvalidArg)
	}
	data := bytesOf(m.Vertices)
	buf, err := dev.NewBuffer(&driver.BufferDesc{
		Size:   len(data),
		Usage:  driver.UVertexBuf,
		Mem:    driver.MImmutable,
		Stride: VertexSize,
	}, data)
	if err != nil {
		return err
	}
	b.buf, b.count = buf, len(m.Vertices)
	return nil
}

// Render binds the buffer to the given input slot.
func (b *VertexBuffer) Render(ctx *DeviceContext, slot int) {
	if b == nil || b.buf == nil {
		warn("VertexBuffer.Render", "buffer not created")
		return
	}
	ctx.SetVertexBufs(slot, []driver.VertexBufBinding{{Buf: b.buf, Stride: VertexSize}})
}

// Buffer returns the native buffer.
func (b *VertexBuffer) Buffer() driver.Buffer { return b.buf }

// Count returns the number of vertices.
func (b *VertexBuffer) Count() int { return b.count }

// Destroy releases the native buffer.
func (b *VertexBuffer) Destroy() {
	if b == nil || b.buf == nil {
		return
	}
	b.buf.Destroy()
	*b = VertexBuffer{}
}

// IndexBuffer is an immutable buffer holding 32-bit
// indices of a Mesh.
type IndexBuffer struct {
	_     noCopy
	buf   driver.Buffer
	count int
}

// Init creates the buffer from m.Indices.
// Indices must reference existing vertices.
func (b *IndexBuffer) Init(dev *GraphicsDevice, m *Mesh) error {
	if b.buf != nil {
		return fmt.Errorf(meshPrefix+"IndexBuffer.Init: %w", ErrAlreadyCreated)
	}
	if m == nil || len(m.Indices) == 0 {
		return fmt.Errorf(meshPrefix+"no indices: %w", driver.EInvalidArg)
	}
	for i, x := range m.Indices {
		if int(x) >= len(m.Vertices) {
			return fmt.Errorf(meshPrefix+"index %d out of range (%d >= %d): %w", i, x, len(m.Vertices), driver.EInvalidArg)
		}
	}
	data := bytesOf(m.Indices)
	buf, err := dev.NewBuffer(&driver.BufferDesc{
		Size:  len(data),
		Usage: driver.UIndexBuf,
		Mem:   driver.MImmutable,
	}, data)
	if err != nil {
		return err
	}
	b.buf, b.count = buf, len(m.Indices)
	return nil
}

// Render binds the buffer to the input assembler.
func (b *IndexBuffer) Render(ctx *DeviceContext) {
	if b == nil || b.buf == nil {
		warn("IndexBuffer.Render", "buffer not created")
		return
	}
	ctx.SetIndexBuf(driver.IndexBufBinding{Buf: b.buf, Format: driver.Index32})
}

// Buffer returns the native buffer.
func (b *IndexBuffer) Buffer() driver.Buffer { return b.buf }

// Count returns the number of indices.
func (b *IndexBuffer) Count() int { return b.count }

// Destroy releases the native buffer.
func (b *IndexBuffer) Destroy() {
	if b == nil || b.buf == nil {
		return
	}
	b.buf.Destroy()
	*b = IndexBuffer{}
}
