// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// RotateY sets m to contain a rotation of angle radians
// about the Y axis.
// Positive angles rotate Z towards X.
func (m *M4) RotateY(angle float32) {
	sin, cos := math32.Sincos(angle)
	*m = M4{
		{cos, 0, -sin, 0},
		{0, 1, 0, 0},
		{sin, 0, cos, 0},
		{0, 0, 0, 1},
	}
}

// LookAt sets m to contain a left-handed view matrix.
// The camera is placed at eye, looking towards center,
// with the given up direction.
func (m *M4) LookAt(eye, center, up *V3) {
	var x, y, z V3
	z.Sub(center, eye)
	z.Norm(&z)
	x.Cross(up, &z)
	x.Norm(&x)
	y.Cross(&z, &x)
	*m = M4{
		{x[0], y[0], z[0], 0},
		{x[1], y[1], z[1], 0},
		{x[2], y[2], z[2], 0},
		{-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1},
	}
}

// Perspective sets m to contain a left-handed perspective
// projection that maps view depth [znear, zfar] to [0, 1].
// yfov is the vertical field of view in radians.
func (m *M4) Perspective(yfov, aspect, znear, zfar float32) {
	ys := 1 / math32.Tan(yfov*0.5)
	xs := ys / aspect
	zs := zfar / (zfar - znear)
	*m = M4{
		{xs},
		{1: ys},
		{2: zs, 3: 1},
		{2: -znear * zs},
	}
}
