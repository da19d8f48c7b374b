// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
// m may alias l or r.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}
