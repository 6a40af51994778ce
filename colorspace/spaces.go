// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colorspace derives RGB↔XYZ and chromatic adaptation matrices
// from chromaticity primaries and white points, and memoizes every
// derived matrix in an injected [Cache]. It covers the camera gamuts
// targeted by the log transfer curves in [github.com/cinelog/cinelog/logspace]
// along with the standard display spaces.
package colorspace

import (
	"fmt"
	"sort"
	"sync"
)

// Chromaticity is a CIE xy chromaticity coordinate.
type Chromaticity struct {
	X float64
	Y float64
}

// XYZ lifts the chromaticity to a CIE XYZ tristimulus value with
// luminance Y normalized to 1.
func (c Chromaticity) XYZ() [3]float64 {
	return [3]float64{c.X / c.Y, 1, (1 - c.X - c.Y) / c.Y}
}

// Standard white points.
var (
	D65 = Chromaticity{0.3127, 0.3290}
	D50 = Chromaticity{0.3457, 0.3585}
)

// Definition specifies an RGB color space by its three chromaticity
// primaries and reference white point. The primaries and white point
// together must yield an invertible RGB→XYZ matrix; a definition that
// does not is rejected as a configuration error when it is first used.
type Definition struct {
	Name  string
	Red   Chromaticity
	Green Chromaticity
	Blue  Chromaticity
	White Chromaticity
}

var (
	spacesMu sync.RWMutex
	spaces   = map[string]*Definition{}
)

func init() {
	for _, d := range []*Definition{
		{"sRGB", Chromaticity{0.64, 0.33}, Chromaticity{0.30, 0.60}, Chromaticity{0.15, 0.06}, D65},
		{"Rec709", Chromaticity{0.64, 0.33}, Chromaticity{0.30, 0.60}, Chromaticity{0.15, 0.06}, D65},
		{"Rec2020", Chromaticity{0.708, 0.292}, Chromaticity{0.170, 0.797}, Chromaticity{0.131, 0.046}, D65},
		{"SGamut3", Chromaticity{0.730, 0.280}, Chromaticity{0.140, 0.855}, Chromaticity{0.100, -0.050}, D65},
		{"SGamut3Cine", Chromaticity{0.766, 0.275}, Chromaticity{0.225, 0.800}, Chromaticity{0.089, -0.087}, D65},
		{"VGamut", Chromaticity{0.730, 0.280}, Chromaticity{0.165, 0.840}, Chromaticity{0.100, -0.030}, D65},
		{"CinemaGamut", Chromaticity{0.740, 0.270}, Chromaticity{0.170, 1.140}, Chromaticity{0.080, -0.100}, D65},
		{"ARRIWideGamut3", Chromaticity{0.6840, 0.3130}, Chromaticity{0.2210, 0.8480}, Chromaticity{0.0861, -0.1020}, D65},
		{"ARRIWideGamut4", Chromaticity{0.7347, 0.2653}, Chromaticity{0.1424, 0.8576}, Chromaticity{0.0991, -0.0308}, D65},
		{"REDWideGamutRGB", Chromaticity{0.780308, 0.304253}, Chromaticity{0.121595, 1.493994}, Chromaticity{0.095612, -0.084589}, D65},
		{"BMDWideGamut", Chromaticity{0.7177215, 0.3171181}, Chromaticity{0.2280410, 0.8615690}, Chromaticity{0.1005841, -0.0820452}, D65},
		{"ProPhoto", Chromaticity{0.7347, 0.2653}, Chromaticity{0.1596, 0.8404}, Chromaticity{0.0366, 0.0001}, D50},
	} {
		spaces[d.Name] = d
	}
}

// Space returns the registered color space definition with the given name.
func Space(name string) (*Definition, error) {
	spacesMu.RLock()
	defer spacesMu.RUnlock()
	d, ok := spaces[name]
	if !ok {
		return nil, fmt.Errorf("colorspace: no color space named %q", name)
	}
	return d, nil
}

// Register adds a color space definition to the registry. The
// definition is validated by deriving its RGB→XYZ matrix; degenerate
// primaries are a configuration error affecting only this definition.
// Registering a name that already exists is an error.
func Register(d *Definition) error {
	if d.Name == "" {
		return fmt.Errorf("colorspace: definition has no name")
	}
	if _, err := rgbToXYZ(d); err != nil {
		return err
	}
	spacesMu.Lock()
	defer spacesMu.Unlock()
	if _, ok := spaces[d.Name]; ok {
		return fmt.Errorf("colorspace: color space %q already registered", d.Name)
	}
	spaces[d.Name] = d
	return nil
}

// Names returns the names of all registered color spaces, sorted.
func Names() []string {
	spacesMu.RLock()
	defer spacesMu.RUnlock()
	ns := make([]string, 0, len(spaces))
	for n := range spaces {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}
