// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colorspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBXYZRoundTrip(t *testing.T) {
	c := NewCache()
	for _, name := range Names() {
		fwd, err := c.RGBToXYZ(name)
		assert.NoError(t, err, name)
		bwd, err := c.XYZToRGB(name)
		assert.NoError(t, err, name)
		id := bwd.Mul(fwd)
		want := Identity()
		for i := range id {
			assert.InDelta(t, want[i], id[i], 1e-10, name)
		}
	}
}

func TestSRGBRedColumn(t *testing.T) {
	c := NewCache()
	m, err := c.RGBToXYZ("sRGB")
	assert.NoError(t, err)
	red := m.MulVec([3]float64{1, 0, 0})
	assert.InDelta(t, 0.4124564, red[0], 1e-4)
	assert.InDelta(t, 0.2126729, red[1], 1e-4)
	assert.InDelta(t, 0.0193339, red[2], 1e-4)
}

func TestWhitePointMapsToWhite(t *testing.T) {
	c := NewCache()
	for _, name := range Names() {
		d, err := Space(name)
		assert.NoError(t, err)
		m, err := c.RGBToXYZ(name)
		assert.NoError(t, err)
		got := m.MulVec([3]float64{1, 1, 1})
		want := d.White.XYZ()
		for i := range got {
			assert.InDelta(t, want[i], got[i], 1e-10, name)
		}
	}
}

func TestAdaptationSelfInverse(t *testing.T) {
	c := NewCache()
	ab, err := c.Adaptation("sRGB", "ProPhoto")
	assert.NoError(t, err)
	ba, err := c.Adaptation("ProPhoto", "sRGB")
	assert.NoError(t, err)
	id := ab.Mul(ba)
	want := Identity()
	for i := range id {
		assert.InDelta(t, want[i], id[i], 1e-10)
	}
}

func TestAdaptationIdentity(t *testing.T) {
	c := NewCache()
	// sRGB and Rec2020 share D65, so adaptation must be exactly identity,
	// not merely close to it.
	m, err := c.Adaptation("sRGB", "Rec2020")
	assert.NoError(t, err)
	assert.Equal(t, Identity(), m)
}

func TestConversion(t *testing.T) {
	c := NewCache()
	m, err := c.Conversion("sRGB", "Rec2020")
	assert.NoError(t, err)
	// White maps to white under any gamut conversion between
	// like-white spaces.
	w := m.MulVec([3]float64{1, 1, 1})
	for i := range w {
		assert.InDelta(t, 1.0, w[i], 1e-10)
	}
	inv, err := c.Conversion("Rec2020", "sRGB")
	assert.NoError(t, err)
	id := inv.Mul(m)
	want := Identity()
	for i := range id {
		assert.InDelta(t, want[i], id[i], 1e-10)
	}
}

func TestXYZD65To(t *testing.T) {
	c := NewCache()
	// For a D65 space this is just XYZToRGB.
	direct, err := c.XYZToRGB("SGamut3")
	assert.NoError(t, err)
	viaD65, err := c.XYZD65To("SGamut3")
	assert.NoError(t, err)
	assert.Equal(t, direct, viaD65)

	// For ProPhoto (D50) the adaptation must be included: D65 white must
	// land on RGB (1,1,1) in the adapted result.
	m, err := c.XYZD65To("ProPhoto")
	assert.NoError(t, err)
	w := m.MulVec(D65.XYZ())
	for i := range w {
		assert.InDelta(t, 1.0, w[i], 1e-9)
	}
}

func TestToXYZD65(t *testing.T) {
	c := NewCache()
	// For a D65 space this is just RGBToXYZ.
	direct, err := c.RGBToXYZ("Rec709")
	assert.NoError(t, err)
	viaD65, err := c.ToXYZD65("Rec709")
	assert.NoError(t, err)
	assert.Equal(t, direct, viaD65)

	// Inverse of XYZD65To, including the D50 adaptation leg.
	for _, space := range []string{"sRGB", "ProPhoto", "ARRIWideGamut4"} {
		to, err := c.ToXYZD65(space)
		assert.NoError(t, err)
		from, err := c.XYZD65To(space)
		assert.NoError(t, err)
		id := from.Mul(to)
		want := Identity()
		for i := range id {
			assert.InDelta(t, want[i], id[i], 1e-10)
		}
	}
}

func TestCacheMemoizes(t *testing.T) {
	c := NewCache()
	_, err := c.RGBToXYZ("sRGB")
	assert.NoError(t, err)
	n := c.Len()
	_, err = c.RGBToXYZ("sRGB")
	assert.NoError(t, err)
	assert.Equal(t, n, c.Len())
	_, err = c.XYZToRGB("sRGB")
	assert.NoError(t, err)
	assert.Equal(t, n+1, c.Len())
}

func TestDegeneratePrimaries(t *testing.T) {
	// All three primaries on one line: the primary matrix is singular.
	err := Register(&Definition{
		Name:  "degenerate",
		Red:   Chromaticity{0.3, 0.3},
		Green: Chromaticity{0.4, 0.4},
		Blue:  Chromaticity{0.5, 0.5},
		White: D65,
	})
	assert.Error(t, err)
	_, err = Space("degenerate")
	assert.Error(t, err)
}

func TestUnknownSpace(t *testing.T) {
	c := NewCache()
	_, err := c.RGBToXYZ("NoSuchSpace")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spaces.yaml")
	data := `spaces:
  - name: TestGamut
    red: [0.708, 0.292]
    green: [0.170, 0.797]
    blue: [0.131, 0.046]
    white: [0.3127, 0.3290]
  - name: BadGamut
    red: [0.3, 0.3]
    green: [0.4, 0.4]
    blue: [0.5, 0.5]
    white: [0.3127, 0.3290]
`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0666))
	n, err := LoadFile(path)
	assert.Equal(t, 1, n)
	assert.Error(t, err) // BadGamut is degenerate

	d, err := Space("TestGamut")
	assert.NoError(t, err)
	assert.Equal(t, 0.708, d.Red.X)
}

func TestInverseSingular(t *testing.T) {
	var zero Matrix3
	_, err := zero.Inverse()
	assert.Error(t, err)
}

func TestFloat32(t *testing.T) {
	m := Identity()
	f := m.Float32()
	assert.Equal(t, [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, f)
}
