// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"
)

func TestV(t *testing.T) {
	var u V3
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u.Add(&v, &w); u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	if u.Sub(&v, &w); u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	if u.Scale(-1, &v); u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if u.Scale(2, &w); u != (V3{0, -2, 4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [0 -2 4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6\n", d)
	}
	if d := v.Dot(&v); d != 21 {
		t.Fatalf("V3.Dot\nhave %v\nwant 21\n", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v\n", l, math.Sqrt(21))
	}
	if l := w.Len(); l != float32(math.Sqrt(5)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v\n", l, math.Sqrt(5))
	}

	v = V3{0, 0, -2}
	w = V3{0, 4, 0}

	if v.Norm(&v); v != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", v)
	}
	if w.Norm(&w); w != (V3{0, 1, 0}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 1 0]", w)
	}
	if u.Cross(&v, &w); u != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", u)
	}
	if u.Cross(&w, &v); u != (V3{-1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [-1 0 0]", u)
	}
}

func TestM(t *testing.T) {
	var l M4
	m := M4{
		{1, 5, 9, 13},
		{2, 6, 10, 14},
		{3, 7, 11, 15},
		{4, 8, 12, 16},
	}
	n := M4{
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{1, 0, 0, 0},
	}

	if l.I(); l != (M4{{1}, {1: 1}, {2: 1}, {3: 1}}) {
		t.Fatalf("M4.I\nhave %v\nwant identity", l)
	}
	if l.Mul(&m, &l); l != m {
		t.Fatalf("M4.Mul: identity\nhave %v\nwant %v", l, m)
	}
	if l.Mul(&m, &n); l != (M4{m[1], m[2], m[3], m[0]}) {
		t.Fatalf("M4.Mul\nhave %v\nwant [%v %v %v %v]", l, m[1], m[2], m[3], m[0])
	}
	want := M4{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}, {13, 14, 15, 16}}
	if l.Transpose(&m); l != want {
		t.Fatalf("M4.Transpose\nhave %v\nwant %v", l, want)
	}
	v := V4{1, 0, 0, 1}
	if v.Mul(&m, &v); v != (V4{5, 13, 21, 29}) {
		t.Fatalf("V4.Mul\nhave %v\nwant [5 13 21 29]", v)
	}
}

func near(a, b float32) bool {
	const eps = 1e-6
	d := a - b
	return d < eps && d > -eps
}

func nearV4(u, v V4) bool {
	for i := range u {
		if !near(u[i], v[i]) {
			return false
		}
	}
	return true
}

func TestLookAt(t *testing.T) {
	var m M4
	m.LookAt(&V3{0, 0, -5}, &V3{}, &V3{0, 1, 0})
	want := M4{{1}, {1: 1}, {2: 1}, {0, 0, 5, 1}}
	if m != want {
		t.Fatalf("M4.LookAt\nhave %v\nwant %v", m, want)
	}
	v := V4{0, 0, 0, 1}
	if v.Mul(&m, &v); v != (V4{0, 0, 5, 1}) {
		t.Fatalf("M4.LookAt: origin\nhave %v\nwant [0 0 5 1]", v)
	}

	// Looking down +X from the origin.
	m.LookAt(&V3{}, &V3{1}, &V3{0, 1, 0})
	v = V4{2, 0, 0, 1}
	if v.Mul(&m, &v); !nearV4(v, V4{0, 0, 2, 1}) {
		t.Fatalf("M4.LookAt: +X\nhave %v\nwant [0 0 2 1]", v)
	}
}

func TestPerspective(t *testing.T) {
	var m M4
	m.Perspective(math.Pi/2, 1, 1, 2)
	for _, x := range [...]struct {
		v     V4
		depth float32
	}{
		{V4{0, 0, 1, 1}, 0},
		{V4{0, 0, 2, 1}, 1},
	} {
		var v V4
		v.Mul(&m, &x.v)
		if d := v[2] / v[3]; !near(d, x.depth) {
			t.Fatalf("M4.Perspective: depth of %v\nhave %v\nwant %v", x.v, d, x.depth)
		}
	}
	if m[2][3] != 1 || m[3][3] != 0 {
		t.Fatalf("M4.Perspective: w row\nhave %v, %v\nwant 1, 0", m[2][3], m[3][3])
	}
	m.Perspective(math.Pi/2, 2, 1, 2)
	if !near(m[0][0], m[1][1]/2) {
		t.Fatalf("M4.Perspective: aspect\nhave %v\nwant %v", m[0][0], m[1][1]/2)
	}
}

func TestRotateY(t *testing.T) {
	var m M4
	if m.RotateY(0); m != (M4{{1}, {1: 1}, {2: 1}, {3: 1}}) {
		t.Fatalf("M4.RotateY(0)\nhave %v\nwant identity", m)
	}
	m.RotateY(math.Pi / 2)
	v := V4{0, 0, 1, 1}
	if v.Mul(&m, &v); !nearV4(v, V4{1, 0, 0, 1}) {
		t.Fatalf("M4.RotateY(π/2)\nhave %v\nwant [1 0 0 1]", v)
	}
	m.RotateY(math.Pi)
	v = V4{0, 0, 1, 1}
	if v.Mul(&m, &v); !nearV4(v, V4{0, 0, -1, 1}) {
		t.Fatalf("M4.RotateY(π)\nhave %v\nwant [0 0 -1 1]", v)
	}
}
