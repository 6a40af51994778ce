// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cube reads and writes 3D color lookup tables in the
// line-oriented .cube text format, and samples them trilinearly on the
// CPU. The grid is stored as dense RGBA float32 with the R axis varying
// fastest, matching the file order, so it can be uploaded directly as a
// volume texture without transposition.
package cube

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LUT is a parsed 3D lookup table. Grid holds Size³ RGBA entries with
// the R axis varying fastest, then G, then B; alpha is always 1. The
// domain bounds default to [0,0,0]..[1,1,1].
type LUT struct {
	// Title is the optional TITLE header, without quotes.
	Title string

	// Size is the grid dimension N; the grid holds N³ entries.
	Size int

	// Grid is the dense RGBA grid, length 4·Size³.
	Grid []float32

	// DomainMin and DomainMax are the input domain bounds.
	DomainMin [3]float32
	DomainMax [3]float32
}

// Parse reads a .cube format LUT. Blank lines and # comments are
// ignored; TITLE, LUT_3D_SIZE, DOMAIN_MIN and DOMAIN_MAX headers are
// recognized and any other header-style line containing an underscore
// is skipped; every remaining line must hold exactly three floats. The
// entry count must equal LUT_3D_SIZE cubed, anything else is an error.
func Parse(r io.Reader) (*LUT, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	lut := &LUT{Size: -1, DomainMax: [3]float32{1, 1, 1}}
	for ln, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		key := fields[0]
		switch {
		case key == "TITLE":
			lut.Title = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "TITLE")), `"`)
		case key == "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("cube: line %d: LUT_3D_SIZE needs one value", ln+1)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 2 {
				return nil, fmt.Errorf("cube: line %d: invalid LUT_3D_SIZE %q", ln+1, fields[1])
			}
			lut.Size = n
			if n <= 256 {
				lut.Grid = make([]float32, 0, 4*n*n*n)
			}
		case key == "DOMAIN_MIN":
			if err := parseTriple(fields[1:], &lut.DomainMin); err != nil {
				return nil, fmt.Errorf("cube: line %d: DOMAIN_MIN: %w", ln+1, err)
			}
		case key == "DOMAIN_MAX":
			if err := parseTriple(fields[1:], &lut.DomainMax); err != nil {
				return nil, fmt.Errorf("cube: line %d: DOMAIN_MAX: %w", ln+1, err)
			}
		case strings.Contains(key, "_"):
			// unrecognized header (LUT_1D_SIZE etc): skip
		default:
			var rgb [3]float32
			if err := parseTriple(fields, &rgb); err != nil {
				return nil, fmt.Errorf("cube: line %d: %w", ln+1, err)
			}
			lut.Grid = append(lut.Grid, rgb[0], rgb[1], rgb[2], 1)
		}
	}
	if lut.Size < 0 {
		return nil, fmt.Errorf("cube: missing LUT_3D_SIZE header")
	}
	want := lut.Size * lut.Size * lut.Size
	if got := len(lut.Grid) / 4; got != want {
		return nil, fmt.Errorf("cube: dimension mismatch: LUT_3D_SIZE %d needs %d entries, file has %d", lut.Size, want, got)
	}
	return lut, nil
}

// Load parses the .cube file at the given path.
func Load(path string) (*LUT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lut, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lut, nil
}

func parseTriple(fields []string, out *[3]float32) error {
	if len(fields) != 3 {
		return fmt.Errorf("need exactly 3 values, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return fmt.Errorf("bad value %q", f)
		}
		out[i] = float32(v)
	}
	return nil
}

// Write emits the LUT in .cube format: headers first, then the grid
// with the R axis varying fastest. Domain headers are written only
// when they differ from the default unit cube.
func (l *LUT) Write(w io.Writer) error {
	if l.Title != "" {
		if _, err := fmt.Fprintf(w, "TITLE %q\n", l.Title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "LUT_3D_SIZE %d\n", l.Size); err != nil {
		return err
	}
	if l.DomainMin != [3]float32{} || l.DomainMax != [3]float32{1, 1, 1} {
		if _, err := fmt.Fprintf(w, "DOMAIN_MIN %g %g %g\n", l.DomainMin[0], l.DomainMin[1], l.DomainMin[2]); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "DOMAIN_MAX %g %g %g\n", l.DomainMax[0], l.DomainMax[1], l.DomainMax[2]); err != nil {
			return err
		}
	}
	for i := 0; i < len(l.Grid); i += 4 {
		if _, err := fmt.Fprintf(w, "%.6f %.6f %.6f\n", l.Grid[i], l.Grid[i+1], l.Grid[i+2]); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the LUT to the given path in .cube format.
func (l *LUT) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := l.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Identity returns an identity LUT of the given size: every grid entry
// is its own normalized coordinate, so lookups return their input.
func Identity(size int) *LUT {
	l := &LUT{Size: size, DomainMax: [3]float32{1, 1, 1}}
	l.Grid = make([]float32, 0, 4*size*size*size)
	s := 1 / float32(size-1)
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				l.Grid = append(l.Grid, float32(r)*s, float32(g)*s, float32(b)*s, 1)
			}
		}
	}
	return l
}
