// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import "fmt"

// Kernel is a compute kernel entry point, called once per invocation
// with the invocation's global (x, y) coordinates. The dispatch grid
// covers at least the output extent, so kernels must no-op for any
// coordinate at or beyond the extent.
type Kernel func(x, y int, b *Binds)

// ProgramSpec names one kernel program for registration with a
// [System] at startup.
type ProgramSpec struct {
	// Name is the pipeline name used to retrieve the compiled program.
	Name string

	// Kernel is the program entry point.
	Kernel Kernel
}

// Pipeline is a compiled kernel program held by a [System].
type Pipeline struct {
	Name   string
	Kernel Kernel
}

// Binds is the resource binding set for one dispatch.
type Binds struct {
	// Input is the source texture, if the program reads one.
	Input *Texture

	// Output is the destination texture. Required.
	Output *Texture

	// Uniforms is the program's uniform block. The device passes it
	// through untouched; the kernel knows its concrete type.
	Uniforms any

	// Volume is an optional 3D texture, sampled through Sampler.
	Volume *Volume

	// Sampler samples Volume. Use the device's cached [Device.Sampler3D].
	Sampler *Sampler
}

func (b *Binds) validate(w, h int) error {
	if b == nil || b.Output == nil {
		return fmt.Errorf("compute: dispatch has no output texture")
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("compute: invalid dispatch extent %dx%d", w, h)
	}
	if w > b.Output.Width || h > b.Output.Height {
		return fmt.Errorf("compute: dispatch extent %dx%d exceeds output texture %dx%d", w, h, b.Output.Width, b.Output.Height)
	}
	if b.Input != nil && (w > b.Input.Width || h > b.Input.Height) {
		return fmt.Errorf("compute: dispatch extent %dx%d exceeds input texture %dx%d", w, h, b.Input.Width, b.Input.Height)
	}
	return nil
}

// System holds the fixed set of compiled kernel programs for a device.
// The whole set is registered and validated at construction; a missing
// name or entry point is a configuration error, reported immediately
// rather than at first dispatch.
type System struct {
	// Name is an optional name for the system.
	Name string

	device    *Device
	pipelines map[string]*Pipeline
}

// NewSystem registers the given program set on the device, failing
// fast if any spec has an empty name, a nil kernel entry point, or a
// name collision.
func NewSystem(dv *Device, name string, specs ...ProgramSpec) (*System, error) {
	sy := &System{Name: name, device: dv, pipelines: make(map[string]*Pipeline, len(specs))}
	for _, sp := range specs {
		if sp.Name == "" {
			return nil, fmt.Errorf("compute: system %q: program spec with empty name", name)
		}
		if sp.Kernel == nil {
			return nil, fmt.Errorf("compute: system %q: program %q has no kernel entry point", name, sp.Name)
		}
		if _, ok := sy.pipelines[sp.Name]; ok {
			return nil, fmt.Errorf("compute: system %q: duplicate program %q", name, sp.Name)
		}
		sy.pipelines[sp.Name] = &Pipeline{Name: sp.Name, Kernel: sp.Kernel}
	}
	return sy, nil
}

// Device returns the device this system dispatches on.
func (sy *System) Device() *Device { return sy.device }

// Pipeline returns the compiled program with the given name.
func (sy *System) Pipeline(name string) (*Pipeline, error) {
	pl, ok := sy.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("compute: system %q has no program %q", sy.Name, name)
	}
	return pl, nil
}

// Dispatch submits the program over a w × h extent asynchronously.
// onDone, if non-nil, is called with the dispatch result on the queue
// worker goroutine, never on the caller's goroutine, so the caller may
// block waiting for it. Dispatch itself only fails if the device has
// been released or the submission is rejected outright.
func (sy *System) Dispatch(pipe *Pipeline, w, h int, b *Binds, onDone func(error)) error {
	if pipe == nil || pipe.Kernel == nil {
		return fmt.Errorf("compute: dispatch of nil pipeline")
	}
	return sy.device.submit(dispatchJob{pipe: pipe, width: w, height: h, binds: b, onDone: onDone})
}

// DispatchSync submits the program and blocks the caller until the
// queue worker signals completion, returning the dispatch result.
func (sy *System) DispatchSync(pipe *Pipeline, w, h int, b *Binds) error {
	done := make(chan error, 1)
	err := sy.Dispatch(pipe, w, h, b, func(err error) { done <- err })
	if err != nil {
		return err
	}
	return <-done
}

// Release waits for pending dispatches and releases the device.
func (sy *System) Release() {
	if sy.device != nil {
		sy.device.Release()
		sy.device = nil
	}
	sy.pipelines = nil
}
