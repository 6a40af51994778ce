// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colorspace

import (
	"fmt"
	"os"

	"cogentcore.org/core/base/errors"
	"gopkg.in/yaml.v3"
)

// fileSpace is the YAML schema for one user-defined color space.
type fileSpace struct {
	Name  string     `yaml:"name"`
	Red   [2]float64 `yaml:"red"`
	Green [2]float64 `yaml:"green"`
	Blue  [2]float64 `yaml:"blue"`
	White [2]float64 `yaml:"white"`
}

type fileDoc struct {
	Spaces []fileSpace `yaml:"spaces"`
}

// LoadFile registers user-defined color spaces from a YAML file of the form:
//
//	spaces:
//	  - name: MyGamut
//	    red: [0.708, 0.292]
//	    green: [0.170, 0.797]
//	    blue: [0.131, 0.046]
//	    white: [0.3127, 0.3290]
//
// Each definition is validated independently; one degenerate definition
// does not prevent the others from registering. The returned error
// joins all per-definition failures.
func LoadFile(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var doc fileDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return 0, fmt.Errorf("colorspace: %s: %w", path, err)
	}
	var errs []error
	n := 0
	for _, fs := range doc.Spaces {
		d := &Definition{
			Name:  fs.Name,
			Red:   Chromaticity{fs.Red[0], fs.Red[1]},
			Green: Chromaticity{fs.Green[0], fs.Green[1]},
			Blue:  Chromaticity{fs.Blue[0], fs.Blue[1]},
			White: Chromaticity{fs.White[0], fs.White[1]},
		}
		if err := Register(d); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
