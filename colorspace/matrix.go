// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colorspace

import (
	"fmt"
	"math"
)

// DetTolerance is the determinant magnitude below which a matrix is
// treated as singular and refused for inversion.
const DetTolerance = 1e-10

// Matrix3 is a 3x3 matrix of float64 in row-major order.
// All derivations are done in double precision; values convert to
// float32 only at the texture/uniform upload boundary.
type Matrix3 [9]float64

// Identity returns the 3x3 identity matrix.
func Identity() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mul returns the matrix product m·o. When the result is applied to a
// vector, o acts first and m second.
func (m Matrix3) Mul(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[3*i+j] = m[3*i]*o[j] + m[3*i+1]*o[3+j] + m[3*i+2]*o[6+j]
		}
	}
	return r
}

// MulVec applies m to the column vector v.
func (m Matrix3) MulVec(v [3]float64) [3]float64 {
	return [3]float64{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Det returns the determinant of m.
func (m Matrix3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns the inverse of m, computed from the adjugate.
// It returns an error if the determinant magnitude is below
// [DetTolerance] or is not finite.
func (m Matrix3) Inverse() (Matrix3, error) {
	d := m.Det()
	if math.IsNaN(d) || math.Abs(d) < DetTolerance {
		return Identity(), fmt.Errorf("colorspace: singular matrix, determinant %g", d)
	}
	id := 1 / d
	return Matrix3{
		(m[4]*m[8] - m[5]*m[7]) * id,
		(m[2]*m[7] - m[1]*m[8]) * id,
		(m[1]*m[5] - m[2]*m[4]) * id,
		(m[5]*m[6] - m[3]*m[8]) * id,
		(m[0]*m[8] - m[2]*m[6]) * id,
		(m[2]*m[3] - m[0]*m[5]) * id,
		(m[3]*m[7] - m[4]*m[6]) * id,
		(m[1]*m[6] - m[0]*m[7]) * id,
		(m[0]*m[4] - m[1]*m[3]) * id,
	}, nil
}

// scaledColumns returns m with column i multiplied by s[i].
func (m Matrix3) scaledColumns(s [3]float64) Matrix3 {
	return Matrix3{
		m[0] * s[0], m[1] * s[1], m[2] * s[2],
		m[3] * s[0], m[4] * s[1], m[5] * s[2],
		m[6] * s[0], m[7] * s[1], m[8] * s[2],
	}
}

// Float32 returns m as row-major float32 values for uniform upload.
func (m Matrix3) Float32() [9]float32 {
	var r [9]float32
	for i, v := range m {
		r[i] = float32(v)
	}
	return r
}
