// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"github.com/gviegas/rcore/driver"
)

// buffer implements driver.Buffer.
type buffer struct {
	object
	desc    driver.BufferDesc
	data    []byte
	updates int
	mapped  bool
}

// NewBuffer implements driver.Device.
func (d *device) NewBuffer(desc *driver.BufferDesc, data []byte) (driver.Buffer, error) {
	const op = "NewBuffer"
	if err := d.check(op); err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, invalid(op, "nil description")
	}
	dsc := *desc
	switch {
	case dsc.Size <= 0:
		return nil, invalid(op, "empty buffer", "size", dsc.Size)
	case dsc.Usage&(driver.URenderTarget|driver.UDepthStencil) != 0:
		return nil, invalid(op, "image usage on buffer", "usage", dsc.Usage)
	case dsc.Usage&driver.UConstBuf != 0 && dsc.Size%16 != 0:
		return nil, invalid(op, "constant buffer size not a multiple of 16", "size", dsc.Size)
	case dsc.Usage&driver.UConstBuf != 0 && dsc.Usage != driver.UConstBuf:
		return nil, invalid(op, "constant buffer combined with other usages", "usage", dsc.Usage)
	case len(data) > dsc.Size:
		return nil, invalid(op, "initial data larger than buffer", "size", dsc.Size, "data", len(data))
	case dsc.Mem == driver.MImmutable && data == nil:
		return nil, invalid(op, "immutable buffer without data")
	case dsc.Mem == driver.MStaging && (dsc.Usage != driver.UNone || dsc.CPU == 0):
		return nil, invalid(op, "staging buffer must be unbound and CPU accessible", "usage", dsc.Usage, "cpu", dsc.CPU)
	case dsc.Mem == driver.MDynamic && dsc.CPU != driver.CPUWrite:
		return nil, invalid(op, "dynamic buffer must be CPU writable only", "cpu", dsc.CPU)
	case dsc.Mem == driver.MDefault && dsc.CPU != 0:
		return nil, invalid(op, "default buffer with CPU access", "cpu", dsc.CPU)
	}
	b := &buffer{desc: dsc, data: make([]byte, dsc.Size)}
	copy(b.data, data)
	d.track(&b.object, "buffer")
	return b, nil
}

// Dim implements driver.Resource.
func (b *buffer) Dim() driver.ResourceDim { return driver.RBuffer }

// Desc implements driver.Buffer.
func (b *buffer) Desc() driver.BufferDesc { return b.desc }

// Destroy implements driver.Destroyer.
func (b *buffer) Destroy() {
	if b == nil {
		return
	}
	if b.release() {
		*b = buffer{}
	}
}
