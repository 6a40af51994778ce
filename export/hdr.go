// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"image"
	"image/color"
	"io"
	"os"

	"github.com/cinelog/cinelog/decode"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
)

// XYZImage presents a decoded linear image as an [hdr.Image] in the
// XYZ color model, so the Radiance codec writes an xyze file with no
// further conversion.
type XYZImage struct {
	Img *decode.Image
}

// ColorModel implements [image.Image].
func (x XYZImage) ColorModel() color.Model { return hdrcolor.XYZModel }

// Bounds implements [image.Image].
func (x XYZImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, x.Img.Width, x.Img.Height)
}

// At implements [image.Image].
func (x XYZImage) At(xx, yy int) color.Color { return x.HDRAt(xx, yy) }

// HDRAt implements [hdr.Image].
func (x XYZImage) HDRAt(xx, yy int) hdrcolor.Color {
	i := 3 * (yy*x.Img.Width + xx)
	return hdrcolor.XYZ{
		X: float64(x.Img.Pix[i]),
		Y: float64(x.Img.Pix[i+1]),
		Z: float64(x.Img.Pix[i+2]),
	}
}

// Size implements [hdr.Image].
func (x XYZImage) Size() int { return x.Img.Width * x.Img.Height }

// WriteLinearHDR writes the decoded linear XYZ image to path as a
// Radiance HDR file, preserving scene-referred values before any log
// encoding or grading.
func WriteLinearHDR(img *decode.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := encodeHDR(f, XYZImage{Img: img}); err != nil {
		return err
	}
	return f.Close()
}

func encodeHDR(w io.Writer, img hdr.Image) error {
	return rgbe.Encode(w, img)
}
