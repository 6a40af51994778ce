// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/core/base/tolassert"
	"github.com/cinelog/cinelog/compute"
	"github.com/cinelog/cinelog/decode"
	"github.com/stretchr/testify/assert"
)

// memDecoder serves decoded images from memory and counts calls.
type memDecoder struct {
	images map[string]*decode.Image
	calls  int
}

func (d *memDecoder) Decode(path string) (*decode.Image, error) {
	d.calls++
	img, ok := d.images[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", decode.ErrNotFound, path)
	}
	return img, nil
}

// gateDecoder blocks inside Decode until released, signalling entry,
// so tests can hold a request in flight deterministically.
type gateDecoder struct {
	entered chan struct{}
	release chan struct{}
	img     *decode.Image
}

func (d *gateDecoder) Decode(path string) (*decode.Image, error) {
	close(d.entered)
	<-d.release
	return d.img, nil
}

// flat returns a w × h decoded image with constant XYZ.
func flat(w, h int, x, y, z float32) *decode.Image {
	img := &decode.Image{
		Width: w, Height: h,
		Pix:         make([]float32, 3*w*h),
		WB:          [3]float32{1, 1, 1},
		Temperature: 6500,
	}
	for i := 0; i < len(img.Pix); i += 3 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = x, y, z
	}
	return img
}

func newTestConverter(t *testing.T, dec decode.Decoder) *Converter {
	t.Helper()
	cv, err := NewConverter(dec)
	assert.NoError(t, err)
	t.Cleanup(cv.Release)
	return cv
}

func TestFastPathBitIdentical(t *testing.T) {
	dec := &memDecoder{images: map[string]*decode.Image{
		"a.tif": flat(4, 4, 0.18, 0.18, 0.18),
	}}
	cv := newTestConverter(t, dec)
	assert.Equal(t, Uncached, cv.State())

	cfg := DefaultConfig()
	cfg.Contrast = 1.3
	cfg.Shadows = 0.4

	r1, err := cv.Process("a.tif", cfg)
	assert.NoError(t, err)
	assert.Equal(t, Cached, cv.State())
	assert.Equal(t, 1, dec.calls)
	full := make([]float32, len(r1.Output.Pix))
	copy(full, r1.Output.Pix)

	// Same source: no decode, same reused output texture, and the
	// result must be bit-for-bit identical to the full path.
	r2, err := cv.Process("a.tif", cfg)
	assert.NoError(t, err)
	assert.Equal(t, 1, dec.calls)
	assert.Same(t, r1.Output, r2.Output)
	assert.Equal(t, full, r2.Output.Pix)
}

func TestBusyRejectsOverlap(t *testing.T) {
	dec := &gateDecoder{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		img:     flat(2, 2, 0.1, 0.1, 0.1),
	}
	cv := newTestConverter(t, dec)

	type outcome struct {
		res *Result
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := cv.Process("a.tif", DefaultConfig())
		first <- outcome{res, err}
	}()

	// Wait until the first request is inside decode, then overlap.
	<-dec.entered
	_, err := cv.Process("a.tif", DefaultConfig())
	assert.ErrorIs(t, err, ErrBusy)

	close(dec.release)
	got := <-first
	assert.NoError(t, got.err)
	assert.NotNil(t, got.res)

	// The rejected request changed nothing; the converter is usable.
	_, err = cv.Process("a.tif", DefaultConfig())
	assert.NoError(t, err)
}

func TestSourceChangeInvalidates(t *testing.T) {
	dec := &memDecoder{images: map[string]*decode.Image{
		"a.tif": flat(4, 4, 0.18, 0.18, 0.18),
		"b.tif": flat(2, 2, 0.5, 0.5, 0.5),
	}}
	cv := newTestConverter(t, dec)
	cfg := DefaultConfig()

	ra, err := cv.Process("a.tif", cfg)
	assert.NoError(t, err)
	assert.Equal(t, 1, dec.calls)
	assert.Equal(t, 4, ra.Output.Width)

	// New source: decode again, output resized.
	rb, err := cv.Process("b.tif", cfg)
	assert.NoError(t, err)
	assert.Equal(t, 2, dec.calls)
	assert.Equal(t, 2, rb.Output.Width)

	// Back to the first source: its cache was discarded.
	_, err = cv.Process("a.tif", cfg)
	assert.NoError(t, err)
	assert.Equal(t, 3, dec.calls)
}

func TestFailedDecodeLeavesCache(t *testing.T) {
	dec := &memDecoder{images: map[string]*decode.Image{
		"a.tif": flat(4, 4, 0.18, 0.18, 0.18),
	}}
	cv := newTestConverter(t, dec)
	cfg := DefaultConfig()

	_, err := cv.Process("a.tif", cfg)
	assert.NoError(t, err)

	// A failing request for another source must not disturb the cache.
	_, err = cv.Process("missing.tif", cfg)
	assert.ErrorIs(t, err, decode.ErrNotFound)
	assert.Equal(t, Cached, cv.State())

	// The original source is still cached: no third decode.
	_, err = cv.Process("a.tif", cfg)
	assert.NoError(t, err)
	assert.Equal(t, 2, dec.calls)
}

func TestLUTFailureLeavesConverterUsable(t *testing.T) {
	dec := &memDecoder{images: map[string]*decode.Image{
		"a.tif": flat(4, 4, 0.18, 0.18, 0.18),
	}}
	cv := newTestConverter(t, dec)

	lutPath := filepath.Join(t.TempDir(), "const.cube")
	src := "LUT_3D_SIZE 2\n" + strings.Repeat("0.2 0.4 0.6\n", 8)
	assert.NoError(t, os.WriteFile(lutPath, []byte(src), 0666))

	cfg := DefaultConfig()
	cfg.LUT = lutPath
	res, err := cv.Process("a.tif", cfg)
	assert.NoError(t, err)
	// A constant LUT replaces every pixel.
	tolassert.EqualTol(t, 0.2, res.Output.Pix[0], 1e-6)
	tolassert.EqualTol(t, 0.4, res.Output.Pix[1], 1e-6)
	tolassert.EqualTol(t, 0.6, res.Output.Pix[2], 1e-6)

	// A bad LUT path is an input error; the previous LUT stays loaded.
	bad := cfg
	bad.LUT = filepath.Join(t.TempDir(), "missing.cube")
	_, err = cv.Process("a.tif", bad)
	assert.Error(t, err)

	res, err = cv.Process("a.tif", cfg)
	assert.NoError(t, err)
	tolassert.EqualTol(t, 0.2, res.Output.Pix[0], 1e-6)

	// Clearing the LUT path goes back to kernel output.
	none := DefaultConfig()
	res, err = cv.Process("a.tif", none)
	assert.NoError(t, err)
	assert.NotEqual(t, float32(0.2), res.Output.Pix[0])
}

func TestAutoExposureComposition(t *testing.T) {
	dec := &memDecoder{images: map[string]*decode.Image{
		"gray.tif": flat(8, 8, 0.18, 0.18, 0.18),
	}}
	cv := newTestConverter(t, dec)

	// Mid-gray scene: the estimator proposes 0, compensation for the
	// Sony profile is ~0, so only the user exposure remains.
	cfg := DefaultConfig()
	cfg.Auto = true
	cfg.Exposure = 1
	res, err := cv.Process("gray.tif", cfg)
	assert.NoError(t, err)
	tolassert.EqualTol(t, 0, res.AutoEV, 1e-3)
	tolassert.EqualTol(t, 2, res.Gain, 1e-2)

	// Auto off: the estimate is not applied at all.
	cfg.Auto = false
	res, err = cv.Process("gray.tif", cfg)
	assert.NoError(t, err)
	assert.Equal(t, float32(0), res.AutoEV)
	assert.Equal(t, float32(2), res.Gain)
}

func TestBaselineHintPreferred(t *testing.T) {
	img := flat(8, 8, 0.18, 0.18, 0.18)
	img.BaselineEV = 1
	img.HasBaselineEV = true
	dec := &memDecoder{images: map[string]*decode.Image{"h.tif": img}}
	cv := newTestConverter(t, dec)

	cfg := DefaultConfig()
	cfg.Auto = true
	res, err := cv.Process("h.tif", cfg)
	assert.NoError(t, err)
	// base = hint + 0.5; the exposed frame is already bright, so
	// compensation is suppressed.
	assert.Equal(t, float32(1.5), res.AutoEV)
	tolassert.EqualTol(t, 2.8284271, res.Gain, 1e-4)
	assert.True(t, res.HasBaselineEV)
	assert.Equal(t, float32(1), res.BaselineEV)
}

func TestResultMetadata(t *testing.T) {
	img := flat(2, 2, 0.3, 0.3, 0.3)
	img.WB = [3]float32{2.1, 1, 1.4}
	img.Temperature = 5200
	dec := &memDecoder{images: map[string]*decode.Image{"m.tif": img}}
	cv := newTestConverter(t, dec)

	res, err := cv.Process("m.tif", DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, [3]float32{2.1, 1, 1.4}, res.WB)
	assert.Equal(t, float32(5200), res.Temperature)
	assert.Equal(t, "m.tif", res.Source)
	assert.Greater(t, res.Elapsed.Nanoseconds(), int64(0))
}

func TestSweep(t *testing.T) {
	dec := &memDecoder{images: map[string]*decode.Image{
		"a.tif": flat(2, 2, 0.2, 0.2, 0.2),
		"c.tif": flat(2, 2, 0.4, 0.4, 0.4),
	}}
	cv := newTestConverter(t, dec)

	var paths []string
	var errs int
	err := cv.Sweep(context.Background(), []string{"a.tif", "b.tif", "c.tif"}, DefaultConfig(),
		func(path string, res *Result, err error) {
			paths = append(paths, path)
			if err != nil {
				errs++
			}
		})
	assert.NoError(t, err)
	// The missing middle file errors but does not stop the sweep.
	assert.Equal(t, []string{"a.tif", "b.tif", "c.tif"}, paths)
	assert.Equal(t, 1, errs)
}

func TestSweepCancelBetweenImages(t *testing.T) {
	dec := &memDecoder{images: map[string]*decode.Image{
		"a.tif": flat(2, 2, 0.2, 0.2, 0.2),
		"b.tif": flat(2, 2, 0.3, 0.3, 0.3),
	}}
	cv := newTestConverter(t, dec)

	ctx, cancel := context.WithCancel(context.Background())
	var seen int
	err := cv.Sweep(ctx, []string{"a.tif", "b.tif"}, DefaultConfig(),
		func(path string, res *Result, err error) {
			seen++
			cancel()
		})
	assert.ErrorIs(t, err, context.Canceled)
	// The first image completed; the second never started.
	assert.Equal(t, 1, seen)
}

func TestReleaseStopsProcessing(t *testing.T) {
	dec := &memDecoder{images: map[string]*decode.Image{
		"a.tif": flat(2, 2, 0.2, 0.2, 0.2),
	}}
	cv, err := NewConverter(dec)
	assert.NoError(t, err)
	cv.Release()
	_, err = cv.Process("a.tif", DefaultConfig())
	assert.ErrorIs(t, err, compute.ErrReleased)
}
