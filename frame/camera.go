// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package frame

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/rcore/linear"
)

// Camera is a left-handed perspective camera.
type Camera struct {
	Eye linear.V3 `toml:"eye"`
	At  linear.V3 `toml:"at"`
	Up  linear.V3 `toml:"up"`
	// Vertical field of view, in radians.
	FOV  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

// DefaultCamera returns a camera above and behind the
// origin looking at (0, 1, 0).
func DefaultCamera() Camera {
	return Camera{
		Eye:  linear.V3{0, 3, -6},
		At:   linear.V3{0, 1, 0},
		Up:   linear.V3{0, 1, 0},
		FOV:  math32.Pi / 4,
		Near: 0.01,
		Far:  100,
	}
}

// View sets m to the view matrix of c.
func (c *Camera) View(m *linear.M4) { m.LookAt(&c.Eye, &c.At, &c.Up) }

// Projection sets m to the projection matrix of c for
// an output of width by height pixels.
func (c *Camera) Projection(m *linear.M4, width, height int) {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	m.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// upright reports whether c.Up is not (nearly) parallel
// to the view direction.
func (c *Camera) upright() bool {
	var dir, up, x linear.V3
	dir.Sub(&c.At, &c.Eye)
	dir.Norm(&dir)
	up.Norm(&c.Up)
	x.Cross(&up, &dir)
	return x.Len() > 1e-4
}
