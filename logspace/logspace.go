// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logspace implements the professional log transfer curves
// (OETFs) that the color kernel encodes into: Fujifilm F-Log and
// F-Log2, Sony S-Log3, Panasonic V-Log, Nikon N-Log, Canon Log and
// Log 3, ARRI LogC3 and LogC4, RED Log3G10, Leica L-Log, and
// Blackmagic Film Gen 5. Each profile carries the target camera gamut
// it is defined against and the encoded value of 18% linear gray.
package logspace

//go:generate core generate

// Profile identifies one log transfer curve and its target gamut.
// SLog3 and SLog3Cine share one curve over two gamuts, so there are
// 13 profiles covering 12 curve families.
type Profile int32 //enums:enum

const (
	// FLog is Fujifilm F-Log in F-Gamut (Rec.2020 primaries).
	FLog Profile = iota

	// FLog2 is Fujifilm F-Log2 in F-Gamut (Rec.2020 primaries).
	FLog2

	// SLog3 is Sony S-Log3 in S-Gamut3.
	SLog3

	// SLog3Cine is Sony S-Log3 in S-Gamut3.Cine.
	SLog3Cine

	// VLog is Panasonic V-Log in V-Gamut.
	VLog

	// NLog is Nikon N-Log in Rec.2020.
	NLog

	// CLog is Canon Log in Cinema Gamut.
	CLog

	// CLog3 is Canon Log 3 in Cinema Gamut.
	CLog3

	// LogC3 is ARRI LogC3 (EI 800) in ARRI Wide Gamut 3.
	LogC3

	// LogC4 is ARRI LogC4 in ARRI Wide Gamut 4.
	LogC4

	// Log3G10 is RED Log3G10 in REDWideGamutRGB.
	Log3G10

	// LLog is Leica L-Log in Rec.2020.
	LLog

	// BMDFilm5 is Blackmagic Film Generation 5 in Blackmagic Wide Gamut.
	BMDFilm5
)

// profileInfo holds the per-profile constants that are not part of the
// curve formula itself.
type profileInfo struct {
	// gamut is the colorspace registry name of the curve's target gamut.
	gamut string

	// middleGray is the encoded value of linear 0.18 under the curve,
	// derived offline from the curve formula and acceptance-tested
	// against Encode(0.18).
	middleGray float32
}

var profiles = [ProfileN]profileInfo{
	FLog:      {"Rec2020", 0.4593},
	FLog2:     {"Rec2020", 0.3910},
	SLog3:     {"SGamut3", 0.4106},
	SLog3Cine: {"SGamut3Cine", 0.4106},
	VLog:      {"VGamut", 0.4233},
	NLog:      {"Rec2020", 0.3637},
	CLog:      {"CinemaGamut", 0.3120},
	CLog3:     {"CinemaGamut", 0.3134},
	LogC3:     {"ARRIWideGamut3", 0.3910},
	LogC4:     {"ARRIWideGamut4", 0.2784},
	Log3G10:   {"REDWideGamutRGB", 0.3333},
	LLog:      {"Rec2020", 0.4363},
	BMDFilm5:  {"BMDWideGamut", 0.3836},
}

// Gamut returns the colorspace registry name of the profile's target
// gamut. The kernel's first step converts XYZ(D65) into this gamut.
func (p Profile) Gamut() string {
	if p < 0 || p >= ProfileN {
		return ""
	}
	return profiles[p].gamut
}

// MiddleGray returns the encoded value of 18% linear gray under the
// profile's curve. Contrast pivots on this value, and auto-exposure
// compensation uses it to match perceived brightness across profiles.
func (p Profile) MiddleGray() float32 {
	if p < 0 || p >= ProfileN {
		return 0.18
	}
	return profiles[p].middleGray
}

// Encode applies the profile's OETF to one linear channel value.
// Inputs at or below zero are safe for every profile: logarithm
// arguments are floored to a small positive epsilon.
func (p Profile) Encode(x float32) float32 {
	switch p {
	case FLog:
		return encodeFLog(x)
	case FLog2:
		return encodeFLog2(x)
	case SLog3, SLog3Cine:
		return encodeSLog3(x)
	case VLog:
		return encodeVLog(x)
	case NLog:
		return encodeNLog(x)
	case CLog:
		return encodeCLog(x)
	case CLog3:
		return encodeCLog3(x)
	case LogC3:
		return encodeLogC3(x)
	case LogC4:
		return encodeLogC4(x)
	case Log3G10:
		return encodeLog3G10(x)
	case LLog:
		return encodeLLog(x)
	case BMDFilm5:
		return encodeBMDFilm5(x)
	}
	return x
}
