// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cube

import "cogentcore.org/core/math32"

// Lookup samples the LUT trilinearly at the given color. Inputs are
// mapped through the domain bounds and clamped to the grid edges
// (clamp-to-edge addressing), so out-of-domain values never index
// outside the grid. This is the CPU sampling path; volume texture
// sampling on the compute device applies the same convention.
func (l *LUT) Lookup(r, g, b float32) (float32, float32, float32) {
	n := l.Size
	scale := float32(n - 1)
	fr := l.normalize(r, 0) * scale
	fg := l.normalize(g, 1) * scale
	fb := l.normalize(b, 2) * scale

	r0, rt := cell(fr, n)
	g0, gt := cell(fg, n)
	b0, bt := cell(fb, n)
	r1, g1, b1 := r0+1, g0+1, b0+1

	c000 := l.at(r0, g0, b0)
	c100 := l.at(r1, g0, b0)
	c010 := l.at(r0, g1, b0)
	c110 := l.at(r1, g1, b0)
	c001 := l.at(r0, g0, b1)
	c101 := l.at(r1, g0, b1)
	c011 := l.at(r0, g1, b1)
	c111 := l.at(r1, g1, b1)

	var out [3]float32
	for i := 0; i < 3; i++ {
		c00 := math32.Lerp(c000[i], c100[i], rt)
		c10 := math32.Lerp(c010[i], c110[i], rt)
		c01 := math32.Lerp(c001[i], c101[i], rt)
		c11 := math32.Lerp(c011[i], c111[i], rt)
		c0 := math32.Lerp(c00, c10, gt)
		c1 := math32.Lerp(c01, c11, gt)
		out[i] = math32.Lerp(c0, c1, bt)
	}
	return out[0], out[1], out[2]
}

// normalize maps v through the domain bounds of axis i into [0,1].
func (l *LUT) normalize(v float32, i int) float32 {
	lo, hi := l.DomainMin[i], l.DomainMax[i]
	if hi > lo {
		v = (v - lo) / (hi - lo)
	}
	return math32.Clamp(v, 0, 1)
}

// cell splits a grid-space coordinate into the lower cell index and the
// fractional position within the cell, clamped so the upper corner
// index stays in range.
func cell(f float32, n int) (int, float32) {
	i := int(f)
	if i > n-2 {
		i = n - 2
	}
	if i < 0 {
		i = 0
	}
	return i, math32.Clamp(f-float32(i), 0, 1)
}

// at returns the RGB triple at integer grid coordinates, R fastest.
func (l *LUT) at(r, g, b int) [3]float32 {
	i := 4 * (r + l.Size*(g+l.Size*b))
	return [3]float32{l.Grid[i], l.Grid[i+1], l.Grid[i+2]}
}
