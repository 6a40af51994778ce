// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"

	"cogentcore.org/core/base/errors"
	"github.com/cinelog/cinelog/colorspace"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"
)

// defaultTemperature is reported when the source carries no illuminant
// information, as scanned linear files generally do not.
const defaultTemperature = 6500

// TIFF decodes 16-bit linear TIFF files. It accepts the three 16-bit
// pixel models (RGB, RGBA with unassociated alpha, grayscale); 8-bit
// files are rejected with [ErrPixelFormat] rather than silently
// quantized. Pixels are taken as linear light in Space and converted
// to XYZ (D65) through the colorspace engine. An EXIF exposure-bias
// tag, when present, becomes the baseline exposure hint; white balance
// defaults to neutral gains.
type TIFF struct {
	// Space is the colorspace registry name the file's channel values
	// are linear in. Empty means Rec709.
	Space string

	// Cache derives the RGB→XYZ matrix.
	Cache *colorspace.Cache
}

// NewTIFF returns a TIFF decoder for linear Rec.709 files using the
// given matrix cache.
func NewTIFF(cache *colorspace.Cache) *TIFF {
	return &TIFF{Space: "Rec709", Cache: cache}
}

// Decode reads the file and returns its linear XYZ image.
func (tf *TIFF) Decode(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	defer f.Close()

	// EXIF is optional: a file without it simply has no baseline hint.
	hint, hasHint := exposureBias(f)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	src, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnpack, path, err)
	}

	space := tf.Space
	if space == "" {
		space = "Rec709"
	}
	mat, err := tf.Cache.ToXYZD65(space)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProcess, path, err)
	}

	img, err := toXYZ(src, mat)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPixelFormat, path, err)
	}
	img.WB = [3]float32{1, 1, 1}
	img.BaselineEV = hint
	img.HasBaselineEV = hasHint
	img.Temperature = defaultTemperature
	img.Source = path
	return img, nil
}

// toXYZ converts a decoded 16-bit image to the XYZ pixel buffer.
func toXYZ(src image.Image, mat colorspace.Matrix3) (*Image, error) {
	var sample func(x, y int) [3]float64
	switch src := src.(type) {
	case *image.RGBA64:
		sample = func(x, y int) [3]float64 {
			c := src.RGBA64At(x, y)
			return [3]float64{float64(c.R) / 65535, float64(c.G) / 65535, float64(c.B) / 65535}
		}
	case *image.NRGBA64:
		sample = func(x, y int) [3]float64 {
			c := src.NRGBA64At(x, y)
			return [3]float64{float64(c.R) / 65535, float64(c.G) / 65535, float64(c.B) / 65535}
		}
	case *image.Gray16:
		sample = func(x, y int) [3]float64 {
			v := float64(src.Gray16At(x, y).Y) / 65535
			return [3]float64{v, v, v}
		}
	default:
		return nil, fmt.Errorf("pixel model %T is not 16-bit", src)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	img := &Image{Width: w, Height: h, Pix: make([]float32, 3*w*h)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			xyz := mat.MulVec(sample(x, y))
			img.Pix[i] = float32(xyz[0])
			img.Pix[i+1] = float32(xyz[1])
			img.Pix[i+2] = float32(xyz[2])
			i += 3
		}
	}
	return img, nil
}

// exposureBias reads the EXIF ExposureBiasValue rational, returning
// false when the file has no EXIF block or no such tag.
func exposureBias(r io.Reader) (float32, bool) {
	ex, err := exif.Decode(r)
	if err != nil {
		return 0, false
	}
	tag, err := ex.Get(exif.ExposureBiasValue)
	if err != nil {
		return 0, false
	}
	num, denom, err := tag.Rat2(0)
	if err != nil || denom == 0 {
		return 0, false
	}
	return float32(num) / float32(denom), true
}
