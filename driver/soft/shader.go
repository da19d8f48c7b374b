// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"slices"

	"github.com/gviegas/rcore/driver"
)

// shader implements driver.Shader.
// Bytecode is opaque and kept only for inspection.
type shader struct {
	object
	stage driver.Stage
	code  []byte
}

func (d *device) newShader(op string, stage driver.Stage, code []byte) (driver.Shader, error) {
	if err := d.check(op); err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, invalid(op, "empty bytecode")
	}
	s := &shader{stage: stage, code: slices.Clone(code)}
	kind := "vertex-shader"
	if stage == driver.SPixel {
		kind = "pixel-shader"
	}
	d.track(&s.object, kind)
	return s, nil
}

// NewVertexShader implements driver.Device.
func (d *device) NewVertexShader(code []byte) (driver.Shader, error) {
	return d.newShader("NewVertexShader", driver.SVertex, code)
}

// NewPixelShader implements driver.Device.
func (d *device) NewPixelShader(code []byte) (driver.Shader, error) {
	return d.newShader("NewPixelShader", driver.SPixel, code)
}

// Stage implements driver.Shader.
func (s *shader) Stage() driver.Stage { return s.stage }

// Destroy implements driver.Destroyer.
func (s *shader) Destroy() {
	if s == nil {
		return
	}
	if s.release() {
		*s = shader{}
	}
}

// inputLayout implements driver.InputLayout.
type inputLayout struct {
	object
	elems []driver.InputElement
}

// NewInputLayout implements driver.Device.
func (d *device) NewInputLayout(elems []driver.InputElement, vsCode []byte) (driver.InputLayout, error) {
	const op = "NewInputLayout"
	if err := d.check(op); err != nil {
		return nil, err
	}
	switch {
	case len(elems) == 0:
		return nil, invalid(op, "no input elements")
	case len(vsCode) == 0:
		return nil, invalid(op, "empty vertex shader bytecode")
	}
	for i, e := range elems {
		switch {
		case e.Semantic == "":
			return nil, invalid(op, "empty semantic", "element", i)
		case e.Format.Size() == 0:
			return nil, invalid(op, "unknown vertex format", "element", i)
		case e.Slot < 0 || e.Slot >= MaxVertexBufs:
			return nil, invalid(op, "invalid input slot", "element", i, "slot", e.Slot)
		case e.Offset < 0 || e.Offset%4 != 0:
			return nil, invalid(op, "misaligned offset", "element", i, "offset", e.Offset)
		}
		for _, f := range elems[:i] {
			if f.Semantic == e.Semantic && f.Index == e.Index {
				return nil, invalid(op, "duplicate semantic "+e.Semantic, "element", i)
			}
		}
	}
	il := &inputLayout{elems: slices.Clone(elems)}
	d.track(&il.object, "input-layout")
	return il, nil
}

// Elements implements driver.InputLayout.
func (il *inputLayout) Elements() []driver.InputElement { return slices.Clone(il.elems) }

// Destroy implements driver.Destroyer.
func (il *inputLayout) Destroy() {
	if il == nil {
		return
	}
	if il.release() {
		*il = inputLayout{}
	}
}

// sampler implements driver.Sampler.
type sampler struct {
	object
	desc driver.SamplerDesc
}

// NewSampler implements driver.Device.
func (d *device) NewSampler(desc *driver.SamplerDesc) (driver.Sampler, error) {
	const op = "NewSampler"
	if err := d.check(op); err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, invalid(op, "nil description")
	}
	switch {
	case desc.Filter == driver.FAnisotropic && (desc.MaxAniso < 1 || desc.MaxAniso > 16):
		return nil, invalid(op, "anisotropy out of range", "aniso", desc.MaxAniso)
	case desc.MinLOD > desc.MaxLOD:
		return nil, invalid(op, "min LOD greater than max LOD", "min", desc.MinLOD, "max", desc.MaxLOD)
	}
	s := &sampler{desc: *desc}
	d.track(&s.object, "sampler")
	return s, nil
}

// Destroy implements driver.Destroyer.
func (s *sampler) Destroy() {
	if s == nil {
		return
	}
	if s.release() {
		*s = sampler{}
	}
}

// rasterState implements driver.RasterState.
type rasterState struct {
	object
	desc driver.RasterDesc
}

// NewRasterState implements driver.Device.
func (d *device) NewRasterState(desc *driver.RasterDesc) (driver.RasterState, error) {
	const op = "NewRasterState"
	if err := d.check(op); err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, invalid(op, "nil description")
	}
	rs := &rasterState{desc: *desc}
	d.track(&rs.object, "raster-state")
	return rs, nil
}

// Destroy implements driver.Destroyer.
func (rs *rasterState) Destroy() {
	if rs == nil {
		return
	}
	if rs.release() {
		*rs = rasterState{}
	}
}

// blendState implements driver.BlendState.
type blendState struct {
	object
	desc driver.BlendDesc
}

// NewBlendState implements driver.Device.
func (d *device) NewBlendState(desc *driver.BlendDesc) (driver.BlendState, error) {
	const op = "NewBlendState"
	if err := d.check(op); err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, invalid(op, "nil description")
	}
	if desc.WriteMask&^driver.CAll != 0 {
		return nil, invalid(op, "invalid write mask", "mask", desc.WriteMask)
	}
	bs := &blendState{desc: *desc}
	d.track(&bs.object, "blend-state")
	return bs, nil
}

// Destroy implements driver.Destroyer.
func (bs *blendState) Destroy() {
	if bs == nil {
		return
	}
	if bs.release() {
		*bs = blendState{}
	}
}
