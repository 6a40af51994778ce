// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"cogentcore.org/core/math32"
	"github.com/cinelog/cinelog/autoexpose"
	"github.com/cinelog/cinelog/colorspace"
	"github.com/cinelog/cinelog/compute"
	"github.com/cinelog/cinelog/cube"
	"github.com/cinelog/cinelog/decode"
	"github.com/cinelog/cinelog/kernel"
)

// Converter runs processing requests against one compute device. It is
// a single-flight pipeline: one request at a time, overlapping
// requests rejected with [ErrBusy]. All cached state (input and output
// textures, decoded image, current LUT) is owned and mutated only by
// the in-flight request.
type Converter struct {
	device  *compute.Device
	system  *compute.System
	pipe    *compute.Pipeline
	cache   *colorspace.Cache
	decoder decode.Decoder

	busy atomic.Bool

	// Source texture cache. Committed only after a fully successful
	// request; a failure at any stage leaves all of it untouched.
	state  States
	source string
	img    *decode.Image
	input  *compute.Texture
	output *compute.Texture

	// Current LUT, keyed by path. Replaced only by a successful parse
	// and upload of a different path.
	lutPath string
	lut     *cube.LUT
	volume  *compute.Volume
}

// NewConverter builds the compute device, compiles the kernel program
// set, and returns a ready converter decoding sources through dec.
// Construction failure is a configuration error; the converter is not
// usable and holds no resources.
func NewConverter(dec decode.Decoder) (*Converter, error) {
	dv, err := compute.NewDevice()
	if err != nil {
		return nil, err
	}
	sy, err := compute.NewSystem(dv, "cinelog", kernel.Programs()...)
	if err != nil {
		dv.Release()
		return nil, err
	}
	pl, err := sy.Pipeline(kernel.UnifiedProgram)
	if err != nil {
		dv.Release()
		return nil, err
	}
	return &Converter{
		device:  dv,
		system:  sy,
		pipe:    pl,
		cache:   colorspace.NewCache(),
		decoder: dec,
	}, nil
}

// State returns the converter's source-cache state.
func (cv *Converter) State() States { return cv.state }

// Matrices returns the converter's derived-matrix cache.
func (cv *Converter) Matrices() *colorspace.Cache { return cv.cache }

// Process runs one request: decode (unless path is the cached source),
// sync the LUT, rebuild uniforms, dispatch the kernel, and package the
// result. It blocks until the dispatch completes. If another request
// is in flight the call returns [ErrBusy] immediately; the cache is
// committed only after full success, so a failed request leaves the
// converter exactly as it was.
func (cv *Converter) Process(path string, cfg Config) (*Result, error) {
	if !cv.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer cv.busy.Store(false)
	start := time.Now()

	img, input := cv.img, cv.input
	if cv.state != Cached || path != cv.source {
		var err error
		img, err = cv.decoder.Decode(path)
		if err != nil {
			return nil, err
		}
		input, err = cv.device.NewTexture2D(img.Width, img.Height)
		if err != nil {
			return nil, err
		}
		if err := input.SetFromTriples(img.Pix); err != nil {
			return nil, err
		}
	}

	if err := cv.syncLUT(cfg.LUT); err != nil {
		return nil, err
	}

	u, autoEV, err := cv.uniforms(img, cfg)
	if err != nil {
		return nil, err
	}

	out := cv.output
	if out == nil || out.Width != img.Width || out.Height != img.Height {
		out, err = cv.device.NewTexture2D(img.Width, img.Height)
		if err != nil {
			return nil, err
		}
	}

	b := &compute.Binds{
		Input:    input,
		Output:   out,
		Uniforms: u,
		Volume:   cv.volume,
		Sampler:  cv.device.Sampler3D(),
	}
	if err := cv.system.DispatchSync(cv.pipe, img.Width, img.Height, b); err != nil {
		return nil, err
	}

	cv.state = Cached
	cv.source = path
	cv.img = img
	cv.input = input
	cv.output = out

	return &Result{
		Output:        out,
		Gain:          u.ExposureGain,
		AutoEV:        autoEV,
		Elapsed:       time.Since(start),
		WB:            img.WB,
		Temperature:   img.Temperature,
		BaselineEV:    img.BaselineEV,
		HasBaselineEV: img.HasBaselineEV,
		Source:        path,
	}, nil
}

// syncLUT brings the uploaded LUT volume in line with the requested
// path. A parse or upload failure is an input error: the previous LUT
// stays loaded and usable.
func (cv *Converter) syncLUT(path string) error {
	if path == cv.lutPath {
		return nil
	}
	if path == "" {
		cv.lutPath, cv.lut, cv.volume = "", nil, nil
		return nil
	}
	lut, err := cube.Load(path)
	if err != nil {
		return err
	}
	vol, err := cv.device.NewVolume(lut.Size)
	if err != nil {
		return err
	}
	if err := vol.SetGrid(lut.Grid); err != nil {
		return err
	}
	cv.lutPath, cv.lut, cv.volume = path, lut, vol
	return nil
}

// uniforms builds the kernel uniform block for one request, composing
// exposure as user EV + auto EV. The auto part starts from the
// decoder's baseline hint + 0.5 when the source carries one, otherwise
// from the scene-statistics estimate, and always adds middle-gray
// compensation for the profile.
func (cv *Converter) uniforms(img *decode.Image, cfg Config) (*kernel.Uniforms, float32, error) {
	gamut, err := cv.cache.XYZD65To(cfg.Profile.Gamut())
	if err != nil {
		return nil, 0, err
	}

	var autoEV float32
	if cfg.Auto {
		var base float32
		if img.HasBaselineEV {
			base = img.BaselineEV + 0.5
		} else {
			base = autoexpose.Estimate(img.Pix, img.Width, img.Height)
		}
		comp := autoexpose.MiddleGrayCompensation(img.Pix, img.Width, img.Height, base, cfg.Profile.MiddleGray())
		autoEV = base + comp
	}
	ev := cfg.Exposure + autoEV

	return &kernel.Uniforms{
		Gamut:           gamut.Float32(),
		WB:              cfg.WB,
		ExposureGain:    math32.Exp2(ev),
		Tint:            cfg.Tint,
		Profile:         cfg.Profile,
		Saturation:      cfg.Saturation,
		Contrast:        cfg.Contrast,
		MiddleGray:      cfg.Profile.MiddleGray(),
		Shadows:         cfg.Shadows,
		Highlights:      cfg.Highlights,
		SoftClipKnee:    cfg.SoftClipKnee,
		SoftClipCeiling: cfg.SoftClipCeiling,
		UseLUT:          cv.volume != nil,
	}, autoEV, nil
}

// Sweep processes paths sequentially with one config, calling each
// with every per-file result or error. A per-file error does not stop
// the sweep. Cancellation is cooperative and checked between images,
// never mid-frame; the context error is returned when it stops the
// sweep early.
func (cv *Converter) Sweep(ctx context.Context, paths []string, cfg Config, each func(path string, res *Result, err error)) error {
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := cv.Process(p, cfg)
		if each != nil {
			each(p, res, err)
		}
	}
	return nil
}

// Release waits for pending work and frees the device. The converter
// must not be used afterwards.
func (cv *Converter) Release() {
	cv.system.Release()
	cv.state = Uncached
	cv.img, cv.input, cv.output = nil, nil, nil
	cv.lutPath, cv.lut, cv.volume = "", nil, nil
}
