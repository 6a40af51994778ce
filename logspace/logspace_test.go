// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logspace

import (
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"github.com/cinelog/cinelog/colorspace"
	"github.com/stretchr/testify/assert"
)

func TestMiddleGray(t *testing.T) {
	for _, p := range ProfileValues() {
		tolassert.EqualTol(t, p.MiddleGray(), p.Encode(0.18), 1e-3, p.String())
	}
}

func TestContinuityAtCut(t *testing.T) {
	cuts := map[Profile][]float32{
		FLog:      {flogCut},
		FLog2:     {flog2Cut},
		SLog3:     {slog3Cut},
		SLog3Cine: {slog3Cut},
		VLog:      {vlogCut},
		NLog:      {nlogCut},
		CLog:      {0},
		CLog3:     {-clog3Cut, clog3Cut},
		LogC3:     {logc3Cut},
		LogC4:     {logc4T},
		Log3G10:   {-log3g10C},
		LLog:      {llogCut},
		BMDFilm5:  {bmd5Cut},
	}
	const step = 1e-5
	for p, pc := range cuts {
		for _, cut := range pc {
			below := p.Encode(cut - step)
			above := p.Encode(cut + step)
			tolassert.EqualTol(t, below, above, 1e-3, p.String())
		}
	}
}

func TestCLog3NegativeBranch(t *testing.T) {
	// Below -0.014 the mirrored log branch takes over; it must stay
	// finite and keep falling as the input falls.
	v := CLog3.Encode(-0.1)
	assert.False(t, math32.IsNaN(v))
	assert.False(t, math32.IsInf(v, 0))
	assert.Less(t, v, CLog3.Encode(-clog3Cut))
	tolassert.EqualTol(t, -clog3Slope*log10c(1+clog3Gain*0.1)+0.07623209, v, 1e-6)
}

func TestZeroAndNegativeFinite(t *testing.T) {
	for _, p := range ProfileValues() {
		for _, x := range []float32{0, -0.001, -0.1, -1} {
			v := p.Encode(x)
			assert.False(t, math32.IsNaN(v), "%v at %v", p, x)
			assert.False(t, math32.IsInf(v, 0), "%v at %v", p, x)
		}
	}
}

func TestMonotonic(t *testing.T) {
	for _, p := range ProfileValues() {
		prev := p.Encode(0)
		for x := float32(0.001); x <= 8; x += 0.001 {
			v := p.Encode(x)
			if v < prev {
				t.Fatalf("%v not monotonic at %v: %v < %v", p, x, v, prev)
			}
			prev = v
		}
	}
}

func TestGamutsRegistered(t *testing.T) {
	for _, p := range ProfileValues() {
		name := p.Gamut()
		assert.NotEmpty(t, name, p.String())
		_, err := colorspace.Space(name)
		assert.NoError(t, err, p.String())
	}
}

func TestSLog3CineSharesCurve(t *testing.T) {
	for _, x := range []float32{0, 0.01, 0.18, 1, 4} {
		assert.Equal(t, SLog3.Encode(x), SLog3Cine.Encode(x))
	}
	assert.NotEqual(t, SLog3.Gamut(), SLog3Cine.Gamut())
}

func TestProfileString(t *testing.T) {
	assert.Equal(t, "LogC4", LogC4.String())
	assert.Equal(t, "BMDFilm5", BMDFilm5.String())
	var p Profile
	assert.NoError(t, p.SetString("VLog"))
	assert.Equal(t, VLog, p)
	assert.Error(t, p.SetString("NoSuchLog"))
}

func TestOutOfRange(t *testing.T) {
	p := Profile(99)
	assert.Empty(t, p.Gamut())
	assert.Equal(t, float32(0.18), p.MiddleGray())
	assert.Equal(t, float32(0.5), p.Encode(0.5))
}
