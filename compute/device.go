// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compute runs per-pixel kernels over textures on a software
// compute device shaped like a GPU stack: a [Device] owns a serial
// dispatch queue and allocates [Texture] and [Volume] resources, a
// [System] holds a fixed set of compiled kernel programs, and
// dispatches cover the output extent in boundary-guarded workgroups.
// Kernels are plain Go functions, so the same code that a shader would
// run is unit-testable on the host, but every invariant of the GPU
// path binds here: the program set is validated up front, one dispatch
// executes at a time per queue, and completion callbacks are delivered
// on the queue worker, never on the submitting goroutine.
package compute

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"cogentcore.org/core/base/errors"
)

// GroupSize is the workgroup edge length: dispatches execute in
// GroupSize × GroupSize invocation groups, a conservative split that
// suits the row-major texture layout.
const GroupSize = 8

// ErrReleased is returned for any operation on a released device.
var ErrReleased = errors.New("compute: device released")

// Device is a software compute device. It owns the dispatch queue,
// a single worker goroutine that executes one dispatch at a time in
// submission order, exactly like a GPU queue. Within a dispatch,
// workgroups run in parallel across the available CPUs.
type Device struct {
	// Workers is the number of CPUs used to execute workgroups
	// within one dispatch.
	Workers int

	queue chan dispatchJob

	// mu guards queue submission against Release closing the queue.
	mu       sync.RWMutex
	released bool

	sampler     *Sampler
	samplerOnce sync.Once

	done sync.WaitGroup
}

type dispatchJob struct {
	pipe   *Pipeline
	width  int
	height int
	binds  *Binds
	onDone func(error)
}

// NewDevice returns a new device with its dispatch queue running.
// Release must be called when done with it.
func NewDevice() (*Device, error) {
	dv := &Device{
		Workers: runtime.NumCPU(),
		queue:   make(chan dispatchJob, 4),
	}
	dv.done.Add(1)
	go dv.run()
	return dv, nil
}

// run is the queue worker: one dispatch at a time, in order.
// Completion callbacks run here, never on the submitting goroutine,
// so a caller blocked waiting on its own dispatch cannot deadlock.
func (dv *Device) run() {
	defer dv.done.Done()
	for job := range dv.queue {
		var err error
		if job.pipe != nil {
			err = dv.execute(job)
		}
		if job.onDone != nil {
			job.onDone(err)
		}
	}
}

// submit enqueues a job, failing if the device has been released.
func (dv *Device) submit(job dispatchJob) error {
	dv.mu.RLock()
	defer dv.mu.RUnlock()
	if dv.released {
		return ErrReleased
	}
	dv.queue <- job
	return nil
}

// WaitDone blocks until every dispatch submitted before the call has
// completed, like a fence at the current end of the queue.
func (dv *Device) WaitDone() {
	fence := make(chan struct{})
	err := dv.submit(dispatchJob{onDone: func(error) { close(fence) }})
	if err != nil {
		return
	}
	<-fence
}

// Release drains the queue and shuts the worker down. Any Dispatch
// after Release fails with [ErrReleased]. Release is idempotent.
func (dv *Device) Release() {
	dv.mu.Lock()
	if dv.released {
		dv.mu.Unlock()
		return
	}
	dv.released = true
	close(dv.queue)
	dv.mu.Unlock()
	dv.done.Wait()
}

// execute runs one dispatch: the grid of GroupSize × GroupSize groups
// covering the extent by ceil-division, group rows parallelized across
// Workers CPUs. The kernel is called for every invocation in the grid,
// including those beyond the extent, which it must no-op, because the
// grid size need not divide evenly by the group size. A kernel panic
// is contained and surfaced as a dispatch failure.
func (dv *Device) execute(job dispatchJob) error {
	if err := job.binds.validate(job.width, job.height); err != nil {
		return err
	}
	nx := Warps(job.width, GroupSize)
	ny := Warps(job.height, GroupSize)

	var mu sync.Mutex
	var fault error
	sem := make(chan bool, max(dv.Workers, 1))
	for gy := 0; gy < ny; gy++ {
		sem <- true
		go func(gy int) {
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if fault == nil {
						fault = fmt.Errorf("compute: kernel fault in %q: %v", job.pipe.Name, r)
						slog.Error("compute.Device kernel fault", "program", job.pipe.Name, "panic", r)
					}
					mu.Unlock()
				}
				<-sem
			}()
			for gx := 0; gx < nx; gx++ {
				for ly := 0; ly < GroupSize; ly++ {
					y := gy*GroupSize + ly
					for lx := 0; lx < GroupSize; lx++ {
						job.pipe.Kernel(gx*GroupSize+lx, y, job.binds)
					}
				}
			}
		}(gy)
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
	return fault
}

// Warps returns the number of workgroups needed to cover n elements
// with the given group edge length: Ceil(n / threads).
func Warps(n, threads int) int {
	return int(math.Ceil(float64(n) / float64(threads)))
}
