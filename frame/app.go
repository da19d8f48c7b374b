// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package frame implements an application that renders a
// spinning textured cube.
//
// An App owns every GPU object that a frame needs. Init
// creates them in dependency order, Step pumps one window
// message or renders one frame, and Destroy releases them
// in reverse order.
package frame

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/engine"
	"github.com/gviegas/rcore/linear"
	"github.com/gviegas/rcore/wsi"
)

// ErrNotReady means that the App was not initialized.
var ErrNotReady = errors.New("frame: app not initialized")

// Time step used with reference drivers.
const refStep = math32.Pi * 0.0125

// Size of the generated checkerboard texture.
const checkerSize = 64

// Bytecode used when no shader files are configured.
var (
	builtinVS = []byte("rcore:cube.vs")
	builtinPS = []byte("rcore:cube.ps")
)

// App renders frames to a window.
// It implements wsi.Handler, and must be the handler of
// the window given to Init.
type App struct {
	cfg Config
	win wsi.Window

	dev     engine.GraphicsDevice
	ctx     engine.DeviceContext
	sc      engine.SwapChain
	back    engine.Texture
	rtv     engine.RenderTargetView
	depth   engine.Texture
	dsv     engine.DepthStencilView
	vport   engine.Viewport
	prog    engine.ShaderProgram
	mesh    engine.Mesh
	vbuf    engine.VertexBuffer
	ibuf    engine.IndexBuffer
	cbView  engine.ConstantBuffer[NeverChanges]
	cbProj  engine.ConstantBuffer[ChangeOnResize]
	cbFrame engine.ConstantBuffer[ChangesEveryFrame]
	tex     engine.Texture
	srv     engine.ShaderResourceView
	sampler engine.Sampler

	neverChanges      NeverChanges
	changeOnResize    ChangeOnResize
	changesEveryFrame ChangesEveryFrame

	clock   Clock
	t       float32
	frames  int
	resized bool
	ready   bool
	err     error

	// Destroy functions of the objects created so far.
	teardown []func()
}

// New creates a new App.
// Init must be called before rendering.
func New(cfg Config) *App {
	return &App{cfg: cfg}
}

// initStep is a step of App.Init.
type initStep struct {
	name    string
	init    func() error
	destroy func()
}

func (a *App) steps() []initStep {
	return []initStep{
		{"device", a.initDevice, a.dev.Destroy},
		{"device context", func() error { return a.ctx.Init(&a.dev) }, a.ctx.Destroy},
		{"swapchain", func() error {
			return a.sc.Init(&a.dev, &a.ctx, &a.back, a.win, &a.cfg.Engine)
		}, func() {
			a.back.Destroy()
			a.sc.Destroy()
		}},
		{"render target view", a.initTarget, a.rtv.Destroy},
		{"depth texture", a.initDepth, a.depth.Destroy},
		{"depth stencil view", func() error {
			return a.dsv.Init(&a.dev, &a.depth, a.cfg.Engine.DepthFormat)
		}, a.dsv.Destroy},
		{"viewport", func() error {
			return a.vport.Init(a.win.Width(), a.win.Height())
		}, a.vport.Destroy},
		{"shader program", a.initProgram, a.prog.Destroy},
		{"vertex buffer", func() error {
			a.mesh = Cube()
			return a.vbuf.Init(&a.dev, &a.mesh)
		}, a.vbuf.Destroy},
		{"index buffer", func() error { return a.ibuf.Init(&a.dev, &a.mesh) }, a.ibuf.Destroy},
		{"topology", func() error {
			a.ctx.SetTopology(driver.TTriangleList)
			return nil
		}, nil},
		{"view constant buffer", func() error {
			return a.cbView.Init(&a.dev, engine.Rare, nil)
		}, a.cbView.Destroy},
		{"projection constant buffer", func() error {
			return a.cbProj.Init(&a.dev, engine.OnResize, nil)
		}, a.cbProj.Destroy},
		{"per-frame constant buffer", func() error {
			return a.cbFrame.Init(&a.dev, engine.PerFrame, nil)
		}, a.cbFrame.Destroy},
		{"texture", a.initTexture, func() {
			a.srv.Destroy()
			a.tex.Destroy()
		}},
		{"sampler", func() error { return a.sampler.Init(&a.dev, nil) }, a.sampler.Destroy},
		{"payloads", func() error {
			a.initPayloads()
			return nil
		}, nil},
	}
}

// Init creates every object needed to render to win.
// If a step fails, the objects created by previous steps
// are destroyed and the error is returned.
func (a *App) Init(win wsi.Window) (err error) {
	if a.ready {
		return fmt.Errorf("frame: Init: %w", engine.ErrAlreadyCreated)
	}
	if win == nil || win.Closed() {
		return fmt.Errorf("frame: Init: no window: %w", engine.ErrNotCreated)
	}
	if err = a.cfg.Validate(); err != nil {
		return
	}
	a.win = win
	defer func() {
		if err != nil {
			a.unwind()
			a.win = nil
		}
	}()
	for _, s := range a.steps() {
		if err = s.init(); err != nil {
			driver.Logger().Error("frame: initialization failed", "step", s.name, "status", driver.StatusOf(err), "err", err)
			return fmt.Errorf("frame: %s: %w", s.name, err)
		}
		if s.destroy != nil {
			a.teardown = append(a.teardown, s.destroy)
		}
	}
	a.ready = true
	a.clock.Reset()
	driver.Logger().Info("frame: app initialized", "width", win.Width(), "height", win.Height(),
		"samples", a.sc.Samples(), "driver", a.sc.DriverType())
	return nil
}

func (a *App) initDevice() error {
	if a.cfg.Backend != nil {
		return a.dev.InitWith(a.cfg.Backend)
	}
	return a.dev.Init(a.cfg.Engine.Driver)
}

func (a *App) initTarget() error {
	return a.rtv.Init(&a.dev, &a.back, a.cfg.Engine.Format, driver.VUnknown)
}

func (a *App) initDepth() error {
	return a.depth.InitBlank(&a.dev, &engine.TexParam{
		Width:   a.back.Width(),
		Height:  a.back.Height(),
		Format:  a.cfg.Engine.DepthFormat,
		Usage:   driver.UDepthStencil,
		Samples: a.sc.Samples(),
		Quality: a.sc.Quality(),
	})
}

func (a *App) initProgram() error {
	if sh := a.cfg.Shaders; sh.Vertex != "" {
		return a.prog.InitFromFiles(&a.dev, sh.Vertex, sh.Pixel, engine.VertexLayout)
	}
	return a.prog.Init(&a.dev, builtinVS, builtinPS, engine.VertexLayout)
}

// initTexture loads the configured texture, or generates
// a checkerboard if there is none.
func (a *App) initTexture() error {
	if tf := a.cfg.Texture; tf.Name != "" {
		return a.tex.InitFromFile(&a.dev, tf.Name, tf.Ext)
	}
	err := a.tex.InitBlank(&a.dev, &engine.TexParam{
		Width:  checkerSize,
		Height: checkerSize,
		Format: driver.RGBA8un,
		Usage:  driver.UShaderResource,
	})
	if err != nil {
		return err
	}
	if err = a.srv.Init(&a.dev, &a.tex, driver.FUnknown); err != nil {
		a.tex.Destroy()
		return err
	}
	pix := make([]byte, checkerSize*checkerSize*4)
	for y := range checkerSize {
		for x := range checkerSize {
			c := byte(64)
			if (x/8+y/8)%2 == 0 {
				c = 224
			}
			p := pix[(y*checkerSize+x)*4:]
			p[0], p[1], p[2], p[3] = c, c, c, 255
		}
	}
	a.ctx.Update(a.tex.Image(), pix, checkerSize*4)
	return nil
}

// initPayloads computes and uploads the view and
// projection tiers.
func (a *App) initPayloads() {
	a.cfg.Camera.View(&a.neverChanges.View)
	a.cbView.Update(&a.ctx, &a.neverChanges)
	a.cfg.Camera.Projection(&a.changeOnResize.Projection, a.back.Width(), a.back.Height())
	a.cbProj.Update(&a.ctx, &a.changeOnResize)
	a.changesEveryFrame.World.I()
	a.changesEveryFrame.MeshColor = linear.V4{0.7, 0.7, 0.7, 1}
	a.t = 0
	a.resized = false
}

// Step handles one pending window message or, if there is
// none, updates and renders one frame.
// It returns false when the window was closed.
func (a *App) Step() (bool, error) {
	if !a.ready {
		return false, ErrNotReady
	}
	if a.win.Dispatch() {
		err := a.err
		a.err = nil
		return !a.win.Closed(), err
	}
	if a.win.Closed() {
		return false, nil
	}
	a.Update(a.clock.Tick())
	return true, a.Render()
}

// Run calls Step until the window is closed or an error
// occurs, then destroys a.
func (a *App) Run() error {
	defer a.Destroy()
	for {
		ok, err := a.Step()
		if err != nil || !ok {
			return err
		}
	}
}

// Update advances the animation and uploads the payloads
// that changed. dt is the elapsed time in seconds; it is
// ignored with reference drivers, which advance by a
// fixed step.
func (a *App) Update(dt float32) {
	if !a.ready {
		driver.Logger().Warn("frame: update before init")
		return
	}
	if a.sc.DriverType() == driver.DTReference {
		a.t += refStep
	} else {
		a.t += dt
	}

	var view linear.M4
	a.cfg.Camera.View(&view)
	if view != a.neverChanges.View {
		a.neverChanges.View = view
		a.cbView.Update(&a.ctx, &a.neverChanges)
	}

	if a.resized {
		a.cfg.Camera.Projection(&a.changeOnResize.Projection, a.back.Width(), a.back.Height())
		a.cbProj.Update(&a.ctx, &a.changeOnResize)
		a.resized = false
	}

	t := a.t
	a.changesEveryFrame.World.RotateY(t)
	a.changesEveryFrame.MeshColor = linear.V4{
		(math32.Sin(t) + 1) * 0.5,
		(math32.Cos(t*3) + 1) * 0.5,
		(math32.Sin(t*5) + 1) * 0.5,
		1,
	}
	a.cbFrame.Update(&a.ctx, &a.changesEveryFrame)
}

// Render draws the cube and presents.
func (a *App) Render() error {
	if !a.ready {
		driver.Logger().Warn("frame: render before init")
		return nil
	}
	ctx := &a.ctx
	a.rtv.Render(ctx, &a.dsv, a.cfg.ClearColor)
	a.dsv.Render(ctx)
	a.vport.Render(ctx)
	a.prog.Render(ctx)
	a.vbuf.Render(ctx, 0)
	a.ibuf.Render(ctx)
	a.cbView.Render(ctx, driver.SVertex, ViewSlot)
	a.cbProj.Render(ctx, driver.SVertex, ResizeSlot)
	a.cbFrame.Render(ctx, driver.SVertex, PerFrameSlot)
	a.cbFrame.Render(ctx, driver.SPixel, PerFrameSlot)
	if a.srv.View() != nil {
		a.srv.Render(ctx, 0)
	} else {
		a.tex.Render(ctx, 0)
	}
	a.sampler.Render(ctx, 0)
	ctx.DrawIndexed(a.ibuf.Count(), 0, 0)
	a.frames++
	return a.sc.Present()
}

// resize recreates the size-dependent objects.
func (a *App) resize(width, height int) error {
	if width == 0 || height == 0 {
		// Minimized. Presents are occluded until the
		// window is restored.
		return nil
	}
	if width == a.back.Width() && height == a.back.Height() {
		return nil
	}
	a.rtv.Destroy()
	a.dsv.Destroy()
	a.depth.Destroy()
	a.back.Destroy()
	if err := a.sc.Resize(width, height, &a.back); err != nil {
		return err
	}
	if err := a.initTarget(); err != nil {
		return err
	}
	if err := a.initDepth(); err != nil {
		return err
	}
	if err := a.dsv.Init(&a.dev, &a.depth, a.cfg.Engine.DepthFormat); err != nil {
		return err
	}
	if err := a.vport.Init(width, height); err != nil {
		return err
	}
	a.resized = true
	return nil
}

// WindowClose implements wsi.Handler.
func (a *App) WindowClose(win wsi.Window) { win.Close() }

// WindowResize implements wsi.Handler.
func (a *App) WindowResize(win wsi.Window, newWidth, newHeight int) {
	if !a.ready || win != a.win {
		return
	}
	if err := a.resize(newWidth, newHeight); err != nil {
		driver.Logger().Error("frame: resize failed", "width", newWidth, "height", newHeight, "err", err)
		a.err = fmt.Errorf("frame: resize: %w", err)
	}
}

// KeyboardKey implements wsi.Handler.
// Escape closes the window.
func (a *App) KeyboardKey(win wsi.Window, key wsi.Key, pressed bool, _ wsi.Modifier) {
	if key == wsi.KeyEsc && pressed {
		win.Close()
	}
}

// unwind destroys created objects in reverse order.
func (a *App) unwind() {
	if a.ctx.Context() != nil {
		a.ctx.ClearState()
	}
	for i := len(a.teardown) - 1; i >= 0; i-- {
		a.teardown[i]()
	}
	a.teardown = nil
}

// Destroy releases every object that a owns.
// It can be called more than once.
func (a *App) Destroy() {
	if !a.ready && a.teardown == nil {
		return
	}
	a.unwind()
	a.ready = false
	a.win = nil
	driver.Logger().Info("frame: app destroyed", "frames", a.frames)
}

// Device returns the graphics device of a.
func (a *App) Device() *engine.GraphicsDevice { return &a.dev }

// Context returns the device context of a.
func (a *App) Context() *engine.DeviceContext { return &a.ctx }

// SwapChain returns the swapchain of a.
func (a *App) SwapChain() *engine.SwapChain { return &a.sc }

// BackBuffer returns the texture of the current back
// buffer.
func (a *App) BackBuffer() *engine.Texture { return &a.back }

// Frames returns the number of frames rendered.
func (a *App) Frames() int { return a.frames }

// Time returns the animation time.
func (a *App) Time() float32 { return a.t }

// NeverChanges returns the last uploaded view tier.
func (a *App) NeverChanges() *NeverChanges { return &a.neverChanges }

// ChangeOnResize returns the last uploaded projection
// tier.
func (a *App) ChangeOnResize() *ChangeOnResize { return &a.changeOnResize }

// ChangesEveryFrame returns the last uploaded per-frame
// tier.
func (a *App) ChangesEveryFrame() *ChangesEveryFrame { return &a.changesEveryFrame }

// Revisions returns the number of uploads of the view,
// projection and per-frame tiers.
func (a *App) Revisions() (view, proj, perFrame int) {
	return a.cbView.Revision(), a.cbProj.Revision(), a.cbFrame.Revision()
}

// SetCamera replaces the camera. The view tier is
// uploaded on the next Update; the projection tier only
// after a resize.
// An invalid camera is rejected and the current one is
// kept.
func (a *App) SetCamera(c Camera) error {
	cfg := a.cfg
	cfg.Camera = c
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg.Camera = c
	return nil
}
