// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package frame

import (
	"github.com/gviegas/rcore/engine"
	"github.com/gviegas/rcore/linear"
)

// Cube returns a textured cube spanning [-1, 1] on every
// axis. Each face has its own four vertices.
func Cube() engine.Mesh {
	faces := [6][4]linear.V3{
		// Top.
		{{-1, 1, -1}, {1, 1, -1}, {1, 1, 1}, {-1, 1, 1}},
		// Bottom.
		{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}},
		// Left.
		{{-1, -1, 1}, {-1, -1, -1}, {-1, 1, -1}, {-1, 1, 1}},
		// Right.
		{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},
		// Front.
		{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}},
		// Back.
		{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},
	}
	uv := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	// Winding per face, relative to its first vertex.
	wind := [6][6]uint32{
		{3, 1, 0, 2, 1, 3},
		{2, 0, 1, 3, 0, 2},
		{3, 1, 0, 2, 1, 3},
		{2, 0, 1, 3, 0, 2},
		{3, 1, 0, 2, 1, 3},
		{2, 0, 1, 3, 0, 2},
	}
	m := engine.Mesh{
		Name:     "cube",
		Vertices: make([]engine.Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for i, f := range faces {
		base := uint32(len(m.Vertices))
		for j, p := range f {
			m.Vertices = append(m.Vertices, engine.Vertex{Pos: p, UV: uv[j]})
		}
		for _, k := range wind[i] {
			m.Indices = append(m.Indices, base+k)
		}
	}
	return m
}
