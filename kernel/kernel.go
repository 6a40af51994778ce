// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements the unified per-pixel color transform: one
// fused compute program that takes a pixel from decoded XYZ all the way
// to its log-encoded, graded, optionally LUT-mapped output value.
// Fusing every step into a single pass matters because reading and
// writing a full-resolution texture dominates processing time; the
// arithmetic between the one read and one write is comparatively free.
//
// Each step is also a standalone function, unit-testable without a
// dispatch, and the kernel body is just their composition in the fixed
// order: gamut matrix, white balance, exposure, tint, log encode,
// saturation, contrast, shadow/highlight recovery, soft clip, LUT.
package kernel

import (
	"github.com/cinelog/cinelog/compute"
	"github.com/cinelog/cinelog/logspace"
)

// UnifiedProgram is the pipeline name of the unified color kernel in
// the device's fixed program set.
const UnifiedProgram = "unified"

// Uniforms is the uniform block for one dispatch of the unified
// kernel: the complete description of what happens to every pixel.
// It is immutable during a dispatch.
type Uniforms struct {
	// Gamut takes XYZ(D65) into the profile's target gamut, row-major,
	// with chromatic adaptation precomposed when the gamut's white
	// point is not D65.
	Gamut [9]float32

	// WB is the relative white-balance gain per channel. Camera white
	// balance is already baked into the decoded values upstream; this
	// is the user's adjustment on top.
	WB [3]float32

	// ExposureGain is the linear gain 2^EV.
	ExposureGain float32

	// Tint shifts green against magenta, in [-100, 100]; 0 is neutral.
	Tint float32

	// Profile selects the log transfer curve.
	Profile logspace.Profile

	// Saturation scales colorfulness around encoded luma; 1 is neutral.
	Saturation float32

	// Contrast scales around MiddleGray; 1 is neutral.
	Contrast float32

	// MiddleGray is the profile's encoded 18% gray, the pivot for
	// contrast and the recovery zone masks.
	MiddleGray float32

	// Shadows and Highlights are the zone recovery amounts; 0 is off.
	Shadows    float32
	Highlights float32

	// SoftClipKnee and SoftClipCeiling bound the highlight soft clip;
	// the clip is disabled unless 0 < knee < ceiling.
	SoftClipKnee    float32
	SoftClipCeiling float32

	// UseLUT applies the bound volume as a final replacement lookup.
	UseLUT bool
}

// Programs returns the fixed program set registered with the compute
// system at startup.
func Programs() []compute.ProgramSpec {
	return []compute.ProgramSpec{
		{Name: UnifiedProgram, Kernel: Func},
	}
}

// Func is the unified kernel entry point: one invocation per pixel,
// no-op beyond the output extent.
func Func(x, y int, b *compute.Binds) {
	if x >= b.Output.Width || y >= b.Output.Height {
		return
	}
	u := b.Uniforms.(*Uniforms)
	in := b.Input.Index(x, y)
	rgb := Transform([3]float32{b.Input.Pix[in], b.Input.Pix[in+1], b.Input.Pix[in+2]}, u, b.Volume, b.Sampler)
	out := b.Output.Index(x, y)
	b.Output.Pix[out] = rgb[0]
	b.Output.Pix[out+1] = rgb[1]
	b.Output.Pix[out+2] = rgb[2]
	b.Output.Pix[out+3] = 1
}

// Transform runs the full per-pixel pipeline on one XYZ value.
func Transform(xyz [3]float32, u *Uniforms, vol *compute.Volume, sp *compute.Sampler) [3]float32 {
	rgb := mulMatrix(u.Gamut, xyz)

	rgb[0] *= u.WB[0] * u.ExposureGain
	rgb[1] *= u.WB[1] * u.ExposureGain
	rgb[2] *= u.WB[2] * u.ExposureGain

	if u.Tint != 0 {
		rgb = Tint(rgb, u.Tint)
	}

	rgb[0] = u.Profile.Encode(rgb[0])
	rgb[1] = u.Profile.Encode(rgb[1])
	rgb[2] = u.Profile.Encode(rgb[2])

	if u.Saturation != 1 {
		rgb = Saturate(rgb, u.Saturation)
	}
	if u.Contrast != 1 {
		rgb = Contrast(rgb, u.Contrast, u.MiddleGray)
	}
	rgb = Recover(rgb, u.Shadows, u.Highlights, u.MiddleGray)
	if u.SoftClipKnee > 0 && u.SoftClipKnee < u.SoftClipCeiling {
		rgb[0] = SoftClip(rgb[0], u.SoftClipKnee, u.SoftClipCeiling)
		rgb[1] = SoftClip(rgb[1], u.SoftClipKnee, u.SoftClipCeiling)
		rgb[2] = SoftClip(rgb[2], u.SoftClipKnee, u.SoftClipCeiling)
	}
	if u.UseLUT && vol != nil && sp != nil {
		rgb = Lookup(rgb, vol, sp)
	}
	return rgb
}

func mulMatrix(m [9]float32, v [3]float32) [3]float32 {
	return [3]float32{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}
