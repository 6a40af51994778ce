// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colorspace

import "fmt"

// bradfordBasis is the Bradford cone response basis used for
// chromatic adaptation between white points.
var bradfordBasis = Matrix3{
	0.8951, 0.2664, -0.1614,
	-0.7502, 1.7135, 0.0367,
	0.0389, -0.0685, 1.0296,
}

// rgbToXYZ derives the RGB→XYZ matrix for d: the matrix of primary
// XYZ columns (each primary's chromaticity with Y normalized to 1)
// scaled per column so that RGB (1,1,1) maps exactly onto the white
// point's XYZ.
func rgbToXYZ(d *Definition) (Matrix3, error) {
	r, g, b := d.Red.XYZ(), d.Green.XYZ(), d.Blue.XYZ()
	p := Matrix3{
		r[0], g[0], b[0],
		r[1], g[1], b[1],
		r[2], g[2], b[2],
	}
	pinv, err := p.Inverse()
	if err != nil {
		return Identity(), fmt.Errorf("colorspace: %s has degenerate primaries: %w", d.Name, err)
	}
	s := pinv.MulVec(d.White.XYZ())
	return p.scaledColumns(s), nil
}

// xyzToRGB derives the XYZ→RGB matrix for d.
func xyzToRGB(d *Definition) (Matrix3, error) {
	m, err := rgbToXYZ(d)
	if err != nil {
		return Identity(), err
	}
	return m.Inverse()
}

// bradford derives the Bradford chromatic adaptation matrix taking
// XYZ values relative to the src white point to XYZ values relative
// to the dst white point. Equal white points short-circuit to the
// identity matrix.
func bradford(src, dst Chromaticity) (Matrix3, error) {
	if src == dst {
		return Identity(), nil
	}
	cs := bradfordBasis.MulVec(src.XYZ())
	cd := bradfordBasis.MulVec(dst.XYZ())
	for i := range cs {
		if cs[i] == 0 {
			return Identity(), fmt.Errorf("colorspace: degenerate source white point %v", src)
		}
	}
	ratio := Matrix3{
		cd[0] / cs[0], 0, 0,
		0, cd[1] / cs[1], 0,
		0, 0, cd[2] / cs[2],
	}
	inv, err := bradfordBasis.Inverse()
	if err != nil {
		return Identity(), err
	}
	return inv.Mul(ratio).Mul(bradfordBasis), nil
}
