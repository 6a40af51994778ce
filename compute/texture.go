// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import "fmt"

// Texture is a 2D RGBA float32 texture in device memory. Pix is
// row-major with 4 floats per texel.
type Texture struct {
	// Name is optional, helpful for debugging.
	Name string

	Width  int
	Height int

	// Pix is the texel data, length 4·Width·Height.
	Pix []float32
}

// NewTexture2D allocates a w × h RGBA float32 texture. Non-positive
// dimensions are a resource error.
func (dv *Device) NewTexture2D(w, h int) (*Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("compute: invalid texture size %dx%d", w, h)
	}
	return &Texture{Width: w, Height: h, Pix: make([]float32, 4*w*h)}, nil
}

// Index returns the Pix offset of the texel at (x, y).
func (tx *Texture) Index(x, y int) int {
	return 4 * (y*tx.Width + x)
}

// SetFromTriples uploads a row-major 3-channel buffer into the
// texture, setting alpha to 1 on every texel. The buffer length must
// be exactly 3·Width·Height.
func (tx *Texture) SetFromTriples(tris []float32) error {
	n := tx.Width * tx.Height
	if len(tris) != 3*n {
		return fmt.Errorf("compute: triple buffer length %d does not match texture %dx%d (need %d)", len(tris), tx.Width, tx.Height, 3*n)
	}
	for i := 0; i < n; i++ {
		tx.Pix[4*i] = tris[3*i]
		tx.Pix[4*i+1] = tris[3*i+1]
		tx.Pix[4*i+2] = tris[3*i+2]
		tx.Pix[4*i+3] = 1
	}
	return nil
}

// Volume is a 3D RGBA float32 texture of Size³ texels with the first
// axis varying fastest, matching .cube grid order so an uploaded LUT
// needs no transposition.
type Volume struct {
	// Name is optional, helpful for debugging.
	Name string

	// Size is the edge length N.
	Size int

	// Grid is the texel data, length 4·Size³.
	Grid []float32
}

// NewVolume allocates an n × n × n RGBA float32 volume. Sizes below 2
// are a resource error.
func (dv *Device) NewVolume(n int) (*Volume, error) {
	if n < 2 {
		return nil, fmt.Errorf("compute: invalid volume size %d", n)
	}
	return &Volume{Size: n, Grid: make([]float32, 4*n*n*n)}, nil
}

// SetGrid uploads a dense RGBA grid; its length must equal 4·Size³.
func (v *Volume) SetGrid(grid []float32) error {
	if len(grid) != 4*v.Size*v.Size*v.Size {
		return fmt.Errorf("compute: grid length %d does not match volume size %d (need %d)", len(grid), v.Size, 4*v.Size*v.Size*v.Size)
	}
	copy(v.Grid, grid)
	return nil
}
