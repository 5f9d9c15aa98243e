// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package linear defines the vector/matrix types used by the engine.
// Matrices are column-major, matching GPU buffer layout.
package linear

// V3 is a three-component float32 vector.
type V3 [3]float32

// V4 is a four-component float32 vector.
type V4 [4]float32

// M4 is a 4x4 float32 matrix. m[c][r] is column c, row r.
type M4 [4]V4

// I makes m the identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to the product l * r.
func (m *M4) Mul(l, r *M4) {
	var p M4
	for c := range p {
		for i := range p[c] {
			p[c][i] = l[0][i]*r[c][0] + l[1][i]*r[c][1] + l[2][i]*r[c][2] + l[3][i]*r[c][3]
		}
	}
	*m = p
}

// Transpose sets m to the transpose of n.
func (m *M4) Transpose(n *M4) {
	var p M4
	for c := range p {
		for r := range p[c] {
			p[c][r] = n[r][c]
		}
	}
	*m = p
}

// Translate makes m a translation matrix.
func (m *M4) Translate(x, y, z float32) {
	m.I()
	m[3] = V4{x, y, z, 1}
}

// Scale makes m a scale matrix.
func (m *M4) Scale(x, y, z float32) {
	*m = M4{{x}, {0, y}, {0, 0, z}, {0, 0, 0, 1}}
}
