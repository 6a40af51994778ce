// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decode defines the source-image contract of the conversion
// pipeline: a decoder produces a linear CIE XYZ (D65) tristimulus
// image plus the camera metadata the orchestrator needs to compose
// exposure. Decode failures map onto a small set of typed sentinel
// errors so callers can tell missing files from malformed ones without
// parsing messages.
package decode

import "cogentcore.org/core/base/errors"

// Decode error taxonomy. Every error returned by a [Decoder] wraps one
// of these sentinels along with a human-readable message.
var (
	// ErrNotFound means the source file does not exist.
	ErrNotFound = errors.New("decode: file not found")

	// ErrOpen means the source exists but could not be opened or read.
	ErrOpen = errors.New("decode: cannot open file")

	// ErrUnpack means the container or compression could not be decoded.
	ErrUnpack = errors.New("decode: cannot unpack image")

	// ErrProcess means the pixel data was read but could not be
	// converted into the working XYZ image.
	ErrProcess = errors.New("decode: cannot process image")

	// ErrPixelFormat means the file decoded to a pixel format the
	// adapter does not accept.
	ErrPixelFormat = errors.New("decode: unsupported pixel format")
)

// Image is a decoded linear tristimulus image: row-major X, Y, Z
// triples relative to D65, normalized to [0, 1], plus the camera
// metadata carried along to the pipeline. An Image is immutable once
// produced; the pipeline never writes to it.
type Image struct {
	Width  int
	Height int

	// Pix holds 3·Width·Height floats, X, Y, Z per pixel.
	Pix []float32

	// WB holds the camera white-balance gains, normalized so the
	// green gain is 1.
	WB [3]float32

	// BaselineEV is the camera's baseline exposure hint in stops,
	// valid only when HasBaselineEV is set.
	BaselineEV    float32
	HasBaselineEV bool

	// Temperature is the estimated scene illuminant in Kelvin.
	Temperature float32

	// Source is the path the image was decoded from.
	Source string
}

// Decoder turns a source file into a linear XYZ [Image].
type Decoder interface {
	Decode(path string) (*Image, error)
}
