// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package autoexpose estimates exposure corrections from a linear XYZ
// image before the color kernel runs. Estimate proposes a base EV from
// scene statistics; MiddleGrayCompensation adds a small positive lift
// so that profiles encoding middle gray darker than the Sony reference
// still land at a comparable perceived brightness.
package autoexpose

import "cogentcore.org/core/math32"

const (
	// targetSamples is the approximate sample count of the sparse
	// grid. The stride is chosen so any frame size yields about this
	// many, keeping estimation cost flat across resolutions.
	targetSamples = 40000

	// grayPoint is the linear luminance a mid-tone scene should
	// average to, and whitePoint is where the scene maximum should
	// sit, leaving headroom for the soft clip.
	grayPoint  = 0.18
	whitePoint = 0.9

	// minLum floors luminance statistics before a logarithm so black
	// frames produce the fixed boost instead of Inf.
	minLum = 1e-8

	// evMin and evMax bound the estimated correction.
	evMin = -4
	evMax = 6

	// compMin and compMax bound middle-gray compensation before the
	// negative side is suppressed.
	compMin = -1.0
	compMax = 1.5

	// sonyMiddleGray is the reference encoded middle gray that the
	// compensation anchor is expressed against.
	sonyMiddleGray = 0.41
)

// stride returns the grid step that covers a w × h frame with roughly
// targetSamples samples. It is at least 1.
func stride(w, h int) int {
	step := int(math32.Sqrt(float32(w*h) / targetSamples))
	if step < 1 {
		step = 1
	}
	return step
}

// Estimate proposes an exposure correction in EV for a linear XYZ
// image (row-major X, Y, Z triples). It samples luminance on a sparse
// grid and takes the smaller of two anchors: the EV that moves the
// mean to 18% gray, and the EV that moves the maximum to 90%, so a
// bright specular never gets pushed far over range to rescue a dark
// mean. A black frame returns the fixed maximum boost. The result is
// clamped to [evMin, evMax] and is never NaN or Inf.
func Estimate(pix []float32, w, h int) float32 {
	if w <= 0 || h <= 0 {
		return 0
	}
	step := stride(w, h)
	var sum float64
	var n int
	max := float32(0)
	for y := 0; y < h; y += step {
		row := 3 * y * w
		for x := 0; x < w; x += step {
			l := pix[row+3*x+1]
			sum += float64(l)
			if l > max {
				max = l
			}
			n++
		}
	}
	mean := float32(sum / float64(n))

	grayEV := float32(evMax)
	if mean > minLum {
		grayEV = math32.Log2(grayPoint / mean)
	}
	whiteEV := float32(evMax)
	if max > minLum {
		whiteEV = math32.Log2(whitePoint / max)
	}
	return math32.Clamp(math32.Min(grayEV, whiteEV), evMin, evMax)
}

// MiddleGrayCompensation returns a small additional EV lift, applied
// after the base estimate, that equalizes perceived brightness across
// log profiles. It computes a center-weighted mean of the exposed
// luminance Y·2^currentEV (weight 1 at the frame center falling
// linearly to 0.5 at the corners) and compares it against the linear
// anchor 0.18·(0.41/targetMiddleGray): profiles that encode middle
// gray darker than the Sony reference get a proportionally higher
// anchor. The result is clamped to [compMin, compMax] and negative
// values are suppressed, so this path only ever brightens.
func MiddleGrayCompensation(pix []float32, w, h int, currentEV, targetMiddleGray float32) float32 {
	if w <= 0 || h <= 0 || targetMiddleGray <= 0 {
		return 0
	}
	step := stride(w, h)
	gain := math32.Exp2(currentEV)
	cx := float32(w-1) / 2
	cy := float32(h-1) / 2
	maxDist := math32.Hypot(cx, cy)
	if maxDist == 0 {
		maxDist = 1
	}

	var sum, weights float64
	for y := 0; y < h; y += step {
		row := 3 * y * w
		dy := float32(y) - cy
		for x := 0; x < w; x += step {
			d := math32.Hypot(float32(x)-cx, dy) / maxDist
			wt := float64(1 - 0.5*d)
			sum += wt * float64(pix[row+3*x+1]*gain)
			weights += wt
		}
	}
	mean := float32(sum / weights)
	if mean < minLum {
		mean = minLum
	}

	anchor := grayPoint * (sonyMiddleGray / targetMiddleGray)
	comp := math32.Clamp(math32.Log2(anchor/mean), compMin, compMax)
	return math32.Max(comp, 0)
}
