// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"
	"os"

	"github.com/gviegas/rcore/driver"
)

// ShaderProgram is a vertex shader and a pixel shader
// along with the input layout of the vertex shader.
// Shaders are precompiled bytecode; compilation is done
// elsewhere.
type ShaderProgram struct {
	_      noCopy
	vert   driver.Shader
	pix    driver.Shader
	layout driver.InputLayout
}

// Init creates the program from bytecode.
func (p *ShaderProgram) Init(dev *GraphicsDevice, vsCode, psCode []byte, elems []driver.InputElement) (err error) {
	if p.vert != nil {
		return fmt.Errorf("engine: ShaderProgram.Init: %w", ErrAlreadyCreated)
	}
	vert, err := dev.NewVertexShader(vsCode)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			vert.Destroy()
		}
	}()
	layout, err := dev.NewInputLayout(elems, vsCode)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			layout.Destroy()
		}
	}()
	pix, err := dev.NewPixelShader(psCode)
	if err != nil {
		return
	}
	p.vert, p.pix, p.layout = vert, pix, layout
	return nil
}

// InitFromFiles reads bytecode from the named files and
// calls Init.
func (p *ShaderProgram) InitFromFiles(dev *GraphicsDevice, vsPath, psPath string, elems []driver.InputElement) error {
	vsCode, err := os.ReadFile(vsPath)
	if err != nil {
		return fmt.Errorf("engine: vertex shader: %w", err)
	}
	psCode, err := os.ReadFile(psPath)
	if err != nil {
		return fmt.Errorf("engine: pixel shader: %w", err)
	}
	return p.Init(dev, vsCode, psCode, elems)
}

// Render binds the input layout, the vertex shader and
// the pixel shader.
func (p *ShaderProgram) Render(ctx *DeviceContext) {
	if p == nil || p.vert == nil {
		warn("ShaderProgram.Render", "program not created")
		return
	}
	ctx.SetInputLayout(p.layout)
	ctx.SetVertShader(p.vert)
	ctx.SetPixShader(p.pix)
}

// VertShader returns the native vertex shader.
func (p *ShaderProgram) VertShader() driver.Shader { return p.vert }

// PixShader returns the native pixel shader.
func (p *ShaderProgram) PixShader() driver.Shader { return p.pix }

// InputLayout returns the native input layout.
func (p *ShaderProgram) InputLayout() driver.InputLayout { return p.layout }

// Destroy releases the shaders and the input layout.
func (p *ShaderProgram) Destroy() {
	if p == nil || p.vert == nil {
		return
	}
	p.pix.Destroy()
	p.layout.Destroy()
	p.vert.Destroy()
	*p = ShaderProgram{}
}
