// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/core/base/tolassert"
	"github.com/cinelog/cinelog/colorspace"
	"github.com/stretchr/testify/assert"
	"golang.org/x/image/tiff"
)

// writeTIFF encodes img into a temp file and returns its path.
func writeTIFF(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.tif")
	f, err := os.Create(path)
	assert.NoError(t, err)
	assert.NoError(t, tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}))
	assert.NoError(t, f.Close())
	return path
}

func gray16(v uint16) color.NRGBA64 {
	return color.NRGBA64{R: v, G: v, B: v, A: 0xffff}
}

func TestDecodeWhiteIsD65(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetNRGBA64(x, y, gray16(0xffff))
		}
	}
	dec := NewTIFF(colorspace.NewCache())
	img, err := dec.Decode(writeTIFF(t, src))
	assert.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)

	white := colorspace.D65.XYZ()
	tolassert.EqualTol(t, float32(white[0]), img.Pix[0], 1e-3)
	tolassert.EqualTol(t, float32(white[1]), img.Pix[1], 1e-3)
	tolassert.EqualTol(t, float32(white[2]), img.Pix[2], 1e-3)
}

func TestDecodeRedColumn(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	src.SetNRGBA64(0, 0, color.NRGBA64{R: 0xffff, A: 0xffff})
	dec := NewTIFF(colorspace.NewCache())
	img, err := dec.Decode(writeTIFF(t, src))
	assert.NoError(t, err)
	// The sRGB/Rec.709 red primary's XYZ column.
	tolassert.EqualTol(t, 0.4124564, img.Pix[0], 1e-3)
	tolassert.EqualTol(t, 0.2126729, img.Pix[1], 1e-3)
	tolassert.EqualTol(t, 0.0193339, img.Pix[2], 1e-3)
}

func TestDecodeMidGrayLuminance(t *testing.T) {
	v := uint16(0.18*65535 + 0.5)
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	src.SetNRGBA64(0, 0, gray16(v))
	dec := NewTIFF(colorspace.NewCache())
	img, err := dec.Decode(writeTIFF(t, src))
	assert.NoError(t, err)
	// Equal RGB has luminance equal to the channel value.
	tolassert.EqualTol(t, 0.18, img.Pix[1], 1e-4)
}

func TestDecodeGray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 3, 1))
	for x := 0; x < 3; x++ {
		src.SetGray16(x, 0, color.Gray16{Y: 0x8000})
	}
	dec := NewTIFF(colorspace.NewCache())
	img, err := dec.Decode(writeTIFF(t, src))
	assert.NoError(t, err)
	v := float32(0x8000) / 65535
	white := colorspace.D65.XYZ()
	tolassert.EqualTol(t, v*float32(white[0]), img.Pix[0], 1e-3)
	tolassert.EqualTol(t, v, img.Pix[1], 1e-3)
	tolassert.EqualTol(t, v*float32(white[2]), img.Pix[2], 1e-3)
}

func TestDecodeMetadataDefaults(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	dec := NewTIFF(colorspace.NewCache())
	path := writeTIFF(t, src)
	img, err := dec.Decode(path)
	assert.NoError(t, err)
	assert.Equal(t, [3]float32{1, 1, 1}, img.WB)
	assert.False(t, img.HasBaselineEV)
	assert.Equal(t, float32(defaultTemperature), img.Temperature)
	assert.Equal(t, path, img.Source)
}

func TestDecode8BitRejected(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	dec := NewTIFF(colorspace.NewCache())
	_, err := dec.Decode(writeTIFF(t, src))
	assert.ErrorIs(t, err, ErrPixelFormat)
}

func TestDecodeNotFound(t *testing.T) {
	dec := NewTIFF(colorspace.NewCache())
	_, err := dec.Decode(filepath.Join(t.TempDir(), "missing.tif"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrOpen)
}

func TestDecodeUnpackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tif")
	assert.NoError(t, os.WriteFile(path, []byte("not a tiff at all"), 0666))
	dec := NewTIFF(colorspace.NewCache())
	_, err := dec.Decode(path)
	assert.ErrorIs(t, err, ErrUnpack)
}

func TestDecodeUnknownSpace(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	dec := &TIFF{Space: "NoSuchGamut", Cache: colorspace.NewCache()}
	_, err := dec.Decode(writeTIFF(t, src))
	assert.ErrorIs(t, err, ErrProcess)
}
