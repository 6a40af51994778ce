// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"cogentcore.org/core/math32"
	"github.com/cinelog/cinelog/compute"
)

// Tint shifts green against magenta in linear space: the green channel
// is attenuated by tint/250 while red and blue are boosted by tint/500
// (or the reverse for negative tint). The input range is [-100, 100].
func Tint(rgb [3]float32, tint float32) [3]float32 {
	rb := 1 + tint/500
	return [3]float32{rgb[0] * rb, rgb[1] * (1 - tint/250), rgb[2] * rb}
}

// Luma returns the Rec.709 luma of an encoded triple.
func Luma(rgb [3]float32) float32 {
	return 0.2126*rgb[0] + 0.7152*rgb[1] + 0.0722*rgb[2]
}

// Saturate blends each channel between the triple's own luma and its
// encoded value: 0 is grayscale, 1 is unchanged, above 1 oversaturates.
func Saturate(rgb [3]float32, sat float32) [3]float32 {
	l := Luma(rgb)
	return [3]float32{
		math32.Lerp(l, rgb[0], sat),
		math32.Lerp(l, rgb[1], sat),
		math32.Lerp(l, rgb[2], sat),
	}
}

// Contrast scales the triple around the pivot, the profile's encoded
// middle gray, so changing contrast never shifts overall brightness.
func Contrast(rgb [3]float32, contrast, pivot float32) [3]float32 {
	return [3]float32{
		(rgb[0]-pivot)*contrast + pivot,
		(rgb[1]-pivot)*contrast + pivot,
		(rgb[2]-pivot)*contrast + pivot,
	}
}

// Recovery zone geometry: the highlight mask ramps from the pivot up
// to pivot+highlightRampWidth, the shadow mask from the pivot down to
// zero. Full-strength offsets are a quarter and three tenths of the
// parameter respectively, and the result is allowed a slightly
// over-range band so downstream rounding cannot hard-clip detail.
const (
	highlightRampWidth = 0.4
	highlightStrength  = 0.25
	shadowStrength     = 0.30
	recoverFloor       = -0.1
	recoverCeiling     = 1.1
)

// Recover applies shadow and highlight recovery in encoded space:
// a uniform offset per zone, not a scale, blended by a smoothstep mask
// over encoded luma. Because every pixel in a zone receives the same
// offset at the same luma, contrast inside the zone is preserved
// instead of being crushed. Positive shadows lift the darks; positive
// highlights pull the brights down. With both amounts at zero the
// input is returned untouched, bit for bit.
func Recover(rgb [3]float32, shadows, highlights, pivot float32) [3]float32 {
	if shadows == 0 && highlights == 0 {
		return rgb
	}
	l := Luma(rgb)
	offset := float32(0)
	if highlights != 0 {
		offset -= highlights * highlightStrength * smoothstep(pivot, pivot+highlightRampWidth, l)
	}
	if shadows != 0 {
		offset += shadows * shadowStrength * (1 - smoothstep(0, pivot, l))
	}
	return [3]float32{
		math32.Clamp(rgb[0]+offset, recoverFloor, recoverCeiling),
		math32.Clamp(rgb[1]+offset, recoverFloor, recoverCeiling),
		math32.Clamp(rgb[2]+offset, recoverFloor, recoverCeiling),
	}
}

// SoftClip compresses values above the knee asymptotically toward the
// ceiling, leaving values at or below the knee untouched.
func SoftClip(v, knee, ceiling float32) float32 {
	if v <= knee {
		return v
	}
	over := v - knee
	return knee + over/(1+over/(ceiling-knee))
}

// Lookup clamps the triple to [0,1] and replaces it with a trilinear
// sample of the volume. The replacement is total: the pre-LUT value
// does not blend into the result.
func Lookup(rgb [3]float32, vol *compute.Volume, sp *compute.Sampler) [3]float32 {
	s := sp.Sample(vol,
		math32.Clamp(rgb[0], 0, 1),
		math32.Clamp(rgb[1], 0, 1),
		math32.Clamp(rgb[2], 0, 1))
	return [3]float32{s[0], s[1], s[2]}
}

// smoothstep is the classic cubic ramp: 0 at or below e0, 1 at or
// above e1, smooth in between.
func smoothstep(e0, e1, x float32) float32 {
	t := math32.Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}
