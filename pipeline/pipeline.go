// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline orchestrates the conversion of one decoded source
// image through the unified color kernel: it owns the compute device,
// the compiled kernel program, the derived-matrix cache, the current
// LUT, and the per-source texture cache that makes parameter-only
// re-processing cheap during interactive adjustment.
package pipeline

//go:generate core generate

import (
	"time"

	"cogentcore.org/core/base/errors"
	"github.com/cinelog/cinelog/compute"
	"github.com/cinelog/cinelog/logspace"
)

// ErrBusy is returned by [Converter.Process] when another request is
// already in flight. Overlapping requests are dropped, never queued,
// so the caller's latest parameter change is always the one that wins.
var ErrBusy = errors.New("pipeline: processing already in flight")

// States are the source-cache states of a [Converter].
type States int32 //enums:enum

const (
	// Uncached means the converter holds no valid input texture for
	// the current source; the next request decodes and uploads.
	Uncached States = iota

	// Cached means the input texture and decoded metadata match the
	// current source, so parameter-only requests skip decode/upload.
	Cached
)

// Config is the complete tunable surface of one processing request.
// It is a value type: every request works on its own snapshot, and
// nothing else influences kernel output for a given source. The zero
// value is not useful; start from [DefaultConfig].
type Config struct {

	// Profile is the log transfer curve (and target gamut) to encode into.
	Profile logspace.Profile

	// Exposure is the user exposure adjustment in EV (stops).
	Exposure float32

	// Auto adds an estimated exposure correction on top of Exposure.
	Auto bool

	// WB is the relative white-balance gain per channel, on top of the
	// camera white balance already baked into the decoded values.
	WB [3]float32

	// Tint shifts green against magenta, in [-100, 100].
	Tint float32

	// Saturation scales colorfulness in encoded space; 1 is neutral.
	Saturation float32

	// Contrast scales about the profile's middle gray; 1 is neutral.
	Contrast float32

	// Shadows lifts the shadow zone; 0 is off.
	Shadows float32

	// Highlights pulls the highlight zone down; 0 is off.
	Highlights float32

	// SoftClipKnee and SoftClipCeiling shape the highlight soft clip.
	// The clip is active only when 0 < knee < ceiling.
	SoftClipKnee    float32
	SoftClipCeiling float32

	// LUT is the path of a .cube creative LUT applied as a final
	// replacement lookup. Empty means none.
	LUT string
}

// DefaultConfig returns the neutral configuration: S-Log3, no
// adjustments, soft clip shoulder from 0.9 to 1.1.
func DefaultConfig() Config {
	return Config{
		Profile:         logspace.SLog3,
		WB:              [3]float32{1, 1, 1},
		Saturation:      1,
		Contrast:        1,
		SoftClipKnee:    0.9,
		SoftClipCeiling: 1.1,
	}
}

// Result is the outcome of one processing request. Ownership passes to
// the caller, except for Output, which the converter reuses for the
// next request on the same source; read or copy it before issuing
// another request.
type Result struct {

	// Output is the processed texture, log-encoded RGBA.
	Output *compute.Texture

	// Gain is the total linear exposure gain the kernel applied.
	Gain float32

	// AutoEV is the automatic exposure correction in EV that is part
	// of Gain; 0 unless the request had Auto set.
	AutoEV float32

	// Elapsed is the wall-clock processing time, decode included when
	// one happened.
	Elapsed time.Duration

	// Camera metadata passed through from the decoded source.
	WB            [3]float32
	Temperature   float32
	BaselineEV    float32
	HasBaselineEV bool

	// Source is the path this result was produced from.
	Source string
}
