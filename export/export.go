// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export writes processed results to disk: high-bit-depth TIFF
// and PNG of the log-encoded output, Radiance HDR of the linear
// decoded image, and thumbnails for previews.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/anthonynsimon/bild/transform"
	"github.com/cinelog/cinelog/compute"
	"github.com/mdouchement/hdr"
	"golang.org/x/image/tiff"
)

// Image16 converts a processed output texture into a 16-bit image,
// clamping each channel to [0, 1]. Log-encoded output lives in that
// range by construction; the clamp only trims the soft-clip over-range
// band.
func Image16(tx *compute.Texture) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, tx.Width, tx.Height))
	for y := 0; y < tx.Height; y++ {
		for x := 0; x < tx.Width; x++ {
			i := tx.Index(x, y)
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: quant16(tx.Pix[i]),
				G: quant16(tx.Pix[i+1]),
				B: quant16(tx.Pix[i+2]),
				A: quant16(tx.Pix[i+3]),
			})
		}
	}
	return img
}

func quant16(v float32) uint16 {
	return uint16(math32.Clamp(v, 0, 1)*65535 + 0.5)
}

// Write writes img to path in the format named by its extension:
// .tif/.tiff (16-bit, deflate), .png (16-bit), or .hdr (Radiance; img
// must be an hdr.Image such as the one [WriteLinearHDR] builds).
func Write(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	case ".png":
		err = png.Encode(f, img)
	case ".hdr":
		h, ok := img.(hdr.Image)
		if !ok {
			return fmt.Errorf("export: %s: Radiance output needs linear data; use WriteLinearHDR", path)
		}
		err = encodeHDR(f, h)
	default:
		return fmt.Errorf("export: unsupported output format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return f.Close()
}

// Thumbnail downscales img so its longer side is maxDim pixels,
// preserving aspect ratio with linear filtering. Images already within
// the bound are returned as is.
func Thumbnail(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	if w >= h {
		h = max(h*maxDim/w, 1)
		w = maxDim
	} else {
		w = max(w*maxDim/h, 1)
		h = maxDim
	}
	return transform.Resize(img, w, h, transform.Linear)
}
