// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import "cogentcore.org/core/math32"

// Sampler is the fixed-function 3D sampler: linear filtering on all
// three axes with clamp-to-edge addressing. There is one per device,
// cached by [Device.Sampler3D]; per-dispatch sampler creation is a
// resource-exhaustion risk under rapid interactive updates and is
// deliberately not offered.
type Sampler struct{}

// Sampler3D returns the device's trilinear clamp-to-edge sampler,
// created on first use and cached for the life of the device.
func (dv *Device) Sampler3D() *Sampler {
	dv.samplerOnce.Do(func() {
		dv.sampler = &Sampler{}
	})
	return dv.sampler
}

// Sample reads the volume at normalized coordinates in [0,1] per axis
// with trilinear filtering. Coordinates outside [0,1] clamp to the
// volume edges.
func (sp *Sampler) Sample(v *Volume, x, y, z float32) [4]float32 {
	n := v.Size
	scale := float32(n - 1)
	fx := math32.Clamp(x, 0, 1) * scale
	fy := math32.Clamp(y, 0, 1) * scale
	fz := math32.Clamp(z, 0, 1) * scale

	x0, xt := texel(fx, n)
	y0, yt := texel(fy, n)
	z0, zt := texel(fz, n)

	var out [4]float32
	for c := 0; c < 4; c++ {
		c00 := math32.Lerp(v.Grid[volIndex(v, x0, y0, z0)+c], v.Grid[volIndex(v, x0+1, y0, z0)+c], xt)
		c10 := math32.Lerp(v.Grid[volIndex(v, x0, y0+1, z0)+c], v.Grid[volIndex(v, x0+1, y0+1, z0)+c], xt)
		c01 := math32.Lerp(v.Grid[volIndex(v, x0, y0, z0+1)+c], v.Grid[volIndex(v, x0+1, y0, z0+1)+c], xt)
		c11 := math32.Lerp(v.Grid[volIndex(v, x0, y0+1, z0+1)+c], v.Grid[volIndex(v, x0+1, y0+1, z0+1)+c], xt)
		out[c] = math32.Lerp(math32.Lerp(c00, c10, yt), math32.Lerp(c01, c11, yt), zt)
	}
	return out
}

// texel splits a texel-space coordinate into the lower texel index and
// the filter weight, keeping the upper texel in range.
func texel(f float32, n int) (int, float32) {
	i := int(f)
	if i > n-2 {
		i = n - 2
	}
	if i < 0 {
		i = 0
	}
	return i, math32.Clamp(f-float32(i), 0, 1)
}

func volIndex(v *Volume, x, y, z int) int {
	return 4 * (x + v.Size*(y+v.Size*z))
}
