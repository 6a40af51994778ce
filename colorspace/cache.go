// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colorspace

import "sync"

// Cache memoizes derived matrices by operation and color space names.
// The key space is bounded by the registered space enumeration, so
// entries are never evicted. Construct one with [NewCache] and inject
// it wherever matrices are needed; there is no package-global cache.
// A Cache is safe for concurrent use.
type Cache struct {
	mu sync.Mutex
	m  map[string]Matrix3
}

// NewCache returns an empty matrix cache.
func NewCache() *Cache {
	return &Cache{m: map[string]Matrix3{}}
}

func (c *Cache) derive(key string, build func() (Matrix3, error)) (Matrix3, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.m[key]; ok {
		return m, nil
	}
	m, err := build()
	if err != nil {
		return Identity(), err
	}
	c.m[key] = m
	return m, nil
}

// Len returns the number of memoized matrices.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// RGBToXYZ returns the RGB→XYZ matrix for the named color space.
func (c *Cache) RGBToXYZ(space string) (Matrix3, error) {
	d, err := Space(space)
	if err != nil {
		return Identity(), err
	}
	return c.derive("rgb2xyz|"+space, func() (Matrix3, error) {
		return rgbToXYZ(d)
	})
}

// XYZToRGB returns the XYZ→RGB matrix for the named color space.
func (c *Cache) XYZToRGB(space string) (Matrix3, error) {
	d, err := Space(space)
	if err != nil {
		return Identity(), err
	}
	return c.derive("xyz2rgb|"+space, func() (Matrix3, error) {
		return xyzToRGB(d)
	})
}

// Adaptation returns the Bradford chromatic adaptation matrix from the
// source space's white point to the destination space's white point.
func (c *Cache) Adaptation(src, dst string) (Matrix3, error) {
	sd, err := Space(src)
	if err != nil {
		return Identity(), err
	}
	dd, err := Space(dst)
	if err != nil {
		return Identity(), err
	}
	return c.derive("adapt|"+src+"|"+dst, func() (Matrix3, error) {
		return bradford(sd.White, dd.White)
	})
}

// Conversion returns the full RGB→RGB conversion matrix from src to
// dst, including chromatic adaptation between their white points.
// The component matrices are derived (and memoized) first, outside the
// conversion entry's own derivation, so the cache lock is never held
// reentrantly.
func (c *Cache) Conversion(src, dst string) (Matrix3, error) {
	toXYZ, err := c.RGBToXYZ(src)
	if err != nil {
		return Identity(), err
	}
	adapt, err := c.Adaptation(src, dst)
	if err != nil {
		return Identity(), err
	}
	toRGB, err := c.XYZToRGB(dst)
	if err != nil {
		return Identity(), err
	}
	return c.derive("conv|"+src+"|"+dst, func() (Matrix3, error) {
		return toRGB.Mul(adapt).Mul(toXYZ), nil
	})
}

// XYZD65To returns the matrix taking XYZ values relative to D65 into
// the named space, adapting to the space's white point when it is not
// D65. This is the gamut matrix the color kernel applies first.
func (c *Cache) XYZD65To(space string) (Matrix3, error) {
	d, err := Space(space)
	if err != nil {
		return Identity(), err
	}
	return c.derive("xyzd65|"+space, func() (Matrix3, error) {
		adapt, err := bradford(D65, d.White)
		if err != nil {
			return Identity(), err
		}
		toRGB, err := xyzToRGB(d)
		if err != nil {
			return Identity(), err
		}
		return toRGB.Mul(adapt), nil
	})
}

// ToXYZD65 returns the matrix taking the named space's RGB values to
// XYZ relative to D65, adapting from the space's white point when it
// is not D65. Decoders use it to land source pixels in the pipeline's
// working XYZ; it is the inverse of [Cache.XYZD65To].
func (c *Cache) ToXYZD65(space string) (Matrix3, error) {
	d, err := Space(space)
	if err != nil {
		return Identity(), err
	}
	return c.derive("toxyzd65|"+space, func() (Matrix3, error) {
		toXYZ, err := rgbToXYZ(d)
		if err != nil {
			return Identity(), err
		}
		adapt, err := bradford(d.White, D65)
		if err != nil {
			return Identity(), err
		}
		return adapt.Mul(toXYZ), nil
	})
}
