// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package frame

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/driver/soft"
	"github.com/gviegas/rcore/engine"
	"github.com/gviegas/rcore/linear"
	"github.com/gviegas/rcore/loader"
	"github.com/gviegas/rcore/wsi"
)

// newApp initializes an App on a new soft driver and a
// headless window. The App is destroyed when the test
// ends.
func newApp(t *testing.T, scfg soft.Config) (*App, *wsi.Headless) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Backend = soft.NewWith(scfg)
	app := New(cfg)
	win := wsi.NewHeadless(640, 480, app)
	require.NoError(t, app.Init(win))
	t.Cleanup(app.Destroy)
	return app, win
}

func TestAppInit(t *testing.T) {
	app, win := newApp(t, soft.Config{})
	assert.Equal(t, 640, app.BackBuffer().Width())
	assert.Equal(t, 480, app.BackBuffer().Height())
	assert.Equal(t, 4, app.SwapChain().Samples())
	assert.Equal(t, driver.DTReference, app.SwapChain().DriverType())
	assert.ErrorIs(t, app.Init(win), engine.ErrAlreadyCreated)

	view, proj, perFrame := app.Revisions()
	assert.Equal(t, 1, view)
	assert.Equal(t, 1, proj)
	assert.Zero(t, perFrame)

	var want ChangeOnResize
	cam := DefaultCamera()
	cam.Projection(&want.Projection, 640, 480)
	assert.Equal(t, want, *app.ChangeOnResize())
	var world linear.M4
	world.I()
	assert.Equal(t, world, app.ChangesEveryFrame().World)
}

func TestAppFrames(t *testing.T) {
	app, _ := newApp(t, soft.Config{})
	var prev []ChangesEveryFrame
	for _, dt := range [...]float32{0, 0.016, 0.033} {
		app.Update(dt)
		require.NoError(t, app.Render())
		prev = append(prev, *app.ChangesEveryFrame())
	}
	assert.NotEqual(t, prev[0], prev[1])
	assert.NotEqual(t, prev[1], prev[2])

	// Reference drivers advance by a fixed step.
	assert.InDelta(t, 3*math32.Pi*0.0125, app.Time(), 1e-5)
	tm := app.Time()
	c := app.ChangesEveryFrame().MeshColor
	assert.InDelta(t, (math32.Sin(tm)+1)/2, c[0], 1e-6)
	assert.InDelta(t, (math32.Cos(3*tm)+1)/2, c[1], 1e-6)
	assert.InDelta(t, (math32.Sin(5*tm)+1)/2, c[2], 1e-6)
	assert.Equal(t, float32(1), c[3])

	view, proj, perFrame := app.Revisions()
	assert.Equal(t, 1, view)
	assert.Equal(t, 1, proj)
	assert.Equal(t, 3, perFrame)
	assert.Equal(t, 3, app.Frames())

	draws := soft.Draws(app.Context().Context())
	require.Len(t, draws, 3)
	d := draws[2]
	assert.Equal(t, 36, d.IdxCount)
	assert.Equal(t, driver.TTriangleList, d.Topology)
	for slot := range 3 {
		assert.NotNil(t, d.ConstBufs[driver.SVertex][slot], "vertex slot %d", slot)
	}
	assert.NotNil(t, d.ConstBufs[driver.SPixel][PerFrameSlot])
	assert.Nil(t, d.ConstBufs[driver.SPixel][ViewSlot])
	assert.NotNil(t, d.Resources[driver.SPixel][0])
	assert.NotNil(t, d.Samplers[driver.SPixel][0])
	assert.NotNil(t, d.Targets[0])
	assert.NotNil(t, d.DepthStencil)
	require.Len(t, d.Viewports, 1)
	assert.Equal(t, float32(640), d.Viewports[0].Width)
}

func TestAppElapsedTime(t *testing.T) {
	app, _ := newApp(t, soft.Config{Type: driver.DTHardware})
	require.Equal(t, driver.DTHardware, app.SwapChain().DriverType())
	proj := *app.ChangeOnResize()

	var prev []ChangesEveryFrame
	for _, dt := range [...]float32{0, 0.016, 0.033} {
		app.Update(dt)
		require.NoError(t, app.Render())
		prev = append(prev, *app.ChangesEveryFrame())
	}
	assert.InDelta(t, 0.049, app.Time(), 1e-6)
	assert.NotEqual(t, prev[0], prev[1])
	assert.NotEqual(t, prev[1], prev[2])
	var world linear.M4
	world.RotateY(app.Time())
	assert.Equal(t, world, prev[2].World)

	_, rev, perFrame := app.Revisions()
	assert.Equal(t, 1, rev)
	assert.Equal(t, 3, perFrame)
	assert.Equal(t, proj, *app.ChangeOnResize())
}

func TestAppClock(t *testing.T) {
	app, _ := newApp(t, soft.Config{Type: driver.DTWarp})
	now := time.Unix(1000, 0)
	app.clock.Now = func() time.Time { return now }
	for range 3 {
		_, err := app.Step()
		require.NoError(t, err)
		now = now.Add(20 * time.Millisecond)
	}
	// The first frame measures no time.
	assert.InDelta(t, 0.04, app.Time(), 1e-5)
	assert.Equal(t, 3, app.Frames())
}

func TestAppCamera(t *testing.T) {
	app, _ := newApp(t, soft.Config{})
	app.Update(0)
	cam := DefaultCamera()
	cam.Eye[2] = -8
	require.NoError(t, app.SetCamera(cam))
	app.Update(0)
	view, proj, _ := app.Revisions()
	assert.Equal(t, 2, view)
	assert.Equal(t, 1, proj)

	// Looking straight down the up vector.
	bad := cam
	bad.Up = linear.V3{0, 0, 1}
	bad.At = linear.V3{0, 3, 0}
	bad.Eye = linear.V3{0, 3, -8}
	assert.ErrorIs(t, app.SetCamera(bad), ErrConfig)
	app.Update(0)
	view, _, _ = app.Revisions()
	assert.Equal(t, 2, view)
	for _, col := range app.NeverChanges().View {
		for _, x := range col {
			assert.False(t, math32.IsNaN(x))
		}
	}
}

func TestAppPresent(t *testing.T) {
	app, _ := newApp(t, soft.Config{})
	sc := app.SwapChain()
	const n = 5
	for i := range n {
		ok, err := app.Step()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, (i+1)%2, sc.CurrentIndex())
	}
	assert.Equal(t, n, soft.PresentCount(sc.Swapchain()))
}

func TestAppDestroy(t *testing.T) {
	app, _ := newApp(t, soft.Config{})
	dev := app.Device().Device()
	require.NotZero(t, soft.LiveCount(dev))
	_, err := app.Step()
	require.NoError(t, err)

	app.Destroy()
	assert.Zero(t, soft.LiveCount(dev))
	assert.Nil(t, app.Device().Device())
	app.Destroy()

	var order []string
	for _, k := range soft.ReleaseLog(dev) {
		switch k {
		case "sampler", "input-layout", "swapchain", "present-device", "adapter", "factory":
			order = append(order, k)
		}
	}
	assert.Equal(t, []string{"sampler", "input-layout", "swapchain", "present-device", "adapter", "factory"}, order)

	ok, err := app.Step()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestAppInitFail(t *testing.T) {
	for _, op := range [...]string{"NewSwapchain", "NewImage", "NewVertexShader", "NewBuffer", "NewSampler"} {
		var failed bool
		cfg := DefaultConfig()
		cfg.Backend = soft.NewWith(soft.Config{Fail: func(call string) driver.Status {
			if call == op && !failed {
				failed = true
				return driver.EOutOfMemory
			}
			return driver.SOK
		}})
		app := New(cfg)
		win := wsi.NewHeadless(64, 64, app)
		err := app.Init(win)
		require.Error(t, err, op)
		assert.ErrorIs(t, err, driver.EOutOfMemory, op)
		assert.Nil(t, app.Device().Device(), op)
		assert.Nil(t, app.SwapChain().Swapchain(), op)

		ok, err := app.Step()
		assert.False(t, ok, op)
		assert.ErrorIs(t, err, ErrNotReady, op)
		app.Destroy()
	}
}

func TestAppInitInvalid(t *testing.T) {
	app := New(DefaultConfig())
	assert.ErrorIs(t, app.Init(nil), engine.ErrNotCreated)

	win := wsi.NewHeadless(64, 64, app)
	win.Close()
	assert.ErrorIs(t, app.Init(win), engine.ErrNotCreated)

	cfg := DefaultConfig()
	cfg.Camera.FOV = -1
	cfg.Backend = soft.New()
	app = New(cfg)
	assert.ErrorIs(t, app.Init(wsi.NewHeadless(64, 64, app)), ErrConfig)

	cfg = DefaultConfig()
	cfg.Shaders = ShaderFiles{
		Vertex: filepath.Join(t.TempDir(), "cube.vs"),
		Pixel:  filepath.Join(t.TempDir(), "cube.ps"),
	}
	cfg.Backend = soft.New()
	app = New(cfg)
	assert.ErrorIs(t, app.Init(wsi.NewHeadless(64, 64, app)), os.ErrNotExist)
	assert.Nil(t, app.Device().Device())
}

func TestAppClose(t *testing.T) {
	app, win := newApp(t, soft.Config{})
	require.NoError(t, win.Post(wsi.KeyEsc, false, 0))
	ok, err := app.Step()
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, win.Post(wsi.KeyEsc, true, 0))
	ok, err = app.Step()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, win.Closed())

	app2, win2 := newApp(t, soft.Config{})
	require.NoError(t, win2.RequestClose())
	assert.NoError(t, app2.Run())
	assert.Nil(t, app2.Device().Device())
}

func TestAppResize(t *testing.T) {
	app, win := newApp(t, soft.Config{})
	_, err := app.Step()
	require.NoError(t, err)
	dev := app.Device().Device()
	live := soft.LiveCount(dev)

	require.NoError(t, win.Resize(320, 200))
	ok, err := app.Step()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 320, app.BackBuffer().Width())
	assert.Equal(t, 200, app.BackBuffer().Height())
	assert.Equal(t, live, soft.LiveCount(dev))

	_, proj, _ := app.Revisions()
	assert.Equal(t, 1, proj)
	_, err = app.Step()
	require.NoError(t, err)
	_, proj, _ = app.Revisions()
	assert.Equal(t, 2, proj)

	var want ChangeOnResize
	cam := DefaultCamera()
	cam.Projection(&want.Projection, 320, 200)
	assert.Equal(t, want, *app.ChangeOnResize())

	// Minimized windows keep the buffers and skip
	// presentation.
	presents := soft.PresentCount(app.SwapChain().Swapchain())
	require.NoError(t, win.Resize(0, 0))
	_, err = app.Step()
	require.NoError(t, err)
	_, err = app.Step()
	require.NoError(t, err)
	assert.Equal(t, 320, app.BackBuffer().Width())
	assert.Equal(t, presents, soft.PresentCount(app.SwapChain().Swapchain()))
}

func TestAppTextureFile(t *testing.T) {
	dir := t.TempDir()
	m := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, m))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seafloor.png"), b.Bytes(), 0o644))

	cfg := DefaultConfig()
	cfg.Backend = soft.New()
	cfg.Texture = TextureFile{Name: filepath.Join(dir, "seafloor"), Ext: loader.PNG}
	app := New(cfg)
	require.NoError(t, app.Init(wsi.NewHeadless(64, 64, app)))
	require.NoError(t, app.Render())
	draws := soft.Draws(app.Context().Context())
	require.Len(t, draws, 1)
	assert.NotNil(t, draws[0].Resources[driver.SPixel][0])
	app.Destroy()

	cfg.Backend = soft.New()
	cfg.Texture = TextureFile{Name: filepath.Join(dir, "missing"), Ext: loader.DDS}
	app = New(cfg)
	assert.ErrorIs(t, app.Init(wsi.NewHeadless(64, 64, app)), os.ErrNotExist)
	assert.Nil(t, app.Device().Device())
}

func TestAppUninitialized(t *testing.T) {
	app := New(DefaultConfig())
	app.Update(1)
	assert.NoError(t, app.Render())
	assert.Zero(t, app.Frames())
	assert.ErrorIs(t, app.Run(), ErrNotReady)
	app.Destroy()
}
