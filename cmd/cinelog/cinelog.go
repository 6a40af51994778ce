// Copyright (c) 2025, Cinelog Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cinelog converts linear camera TIFF files into log-encoded
// dailies through the cinelog processing pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"cogentcore.org/core/base/fsx"
	"cogentcore.org/core/base/iox/imagex"
	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/cli"
	"github.com/cinelog/cinelog/colorspace"
	"github.com/cinelog/cinelog/decode"
	"github.com/cinelog/cinelog/export"
	"github.com/cinelog/cinelog/logspace"
	"github.com/cinelog/cinelog/pipeline"
	"github.com/fsnotify/fsnotify"
)

//go:generate core generate -add-types -add-funcs

// Config is the configuration information for the cinelog tool.
type Config struct {

	// Input is the source to process: a 16-bit linear TIFF file for
	// the convert command, or a directory of them for batch and watch.
	Input string `posarg:"0" required:"-"`

	// Output is the destination. For convert it is the output image;
	// the extension selects the format (.tif, .png, or .hdr for a
	// linear radiance master). For batch and watch it is the directory
	// results are written into. Empty derives the name from the input
	// and the profile.
	Output string `flag:"o,output"`

	// Profile is the log encoding to render into.
	Profile logspace.Profile `flag:"p,profile" default:"SLog3"`

	// Space is the registry name of the color space the input pixel
	// values are linear in.
	Space string `default:"Rec709"`

	// Spaces is an optional YAML file of additional color space
	// definitions to register before processing.
	Spaces string

	// Exposure is the exposure adjustment in EV (stops).
	Exposure float32 `flag:"e,exposure"`

	// Auto estimates an exposure correction from the image statistics
	// and applies it on top of Exposure.
	Auto bool `flag:"a,auto"`

	// WBRed, WBGreen, and WBBlue are white-balance gains applied on
	// top of the camera white balance.
	WBRed   float32 `flag:"wb-red" default:"1"`
	WBGreen float32 `flag:"wb-green" default:"1"`
	WBBlue  float32 `flag:"wb-blue" default:"1"`

	// Tint shifts green against magenta, in [-100, 100].
	Tint float32

	// Saturation scales colorfulness in the encoded image; 1 is neutral.
	Saturation float32 `default:"1"`

	// Contrast scales about the profile's middle gray; 1 is neutral.
	Contrast float32 `default:"1"`

	// Shadows lifts the shadow zone; 0 is off.
	Shadows float32

	// Highlights pulls the highlight zone down; 0 is off.
	Highlights float32

	// Knee and Ceiling shape the highlight soft clip, which is active
	// only when 0 < knee < ceiling. Set the knee to 0 to disable it.
	Knee    float32 `default:"0.9"`
	Ceiling float32 `default:"1.1"`

	// LUT is a .cube creative LUT applied as a final replacement lookup.
	LUT string

	// Thumbnail, when positive, also writes a PNG preview whose longer
	// side is at most this many pixels.
	Thumbnail int
}

func main() { //types:skip
	opts := cli.DefaultOptions("cinelog", "Cinelog converts linear camera TIFF files into log-encoded dailies.")
	cli.Run(opts, &Config{}, Convert, Batch, Watch, Profiles)
}

// pipeline returns the processing configuration the flags describe.
func (c *Config) pipeline() pipeline.Config {
	return pipeline.Config{
		Profile:         c.Profile,
		Exposure:        c.Exposure,
		Auto:            c.Auto,
		WB:              [3]float32{c.WBRed, c.WBGreen, c.WBBlue},
		Tint:            c.Tint,
		Saturation:      c.Saturation,
		Contrast:        c.Contrast,
		Shadows:         c.Shadows,
		Highlights:      c.Highlights,
		SoftClipKnee:    c.Knee,
		SoftClipCeiling: c.Ceiling,
		LUT:             c.LUT,
	}
}

// Convert converts the input file and writes the result to the output
// path, deriving one from the input name and the profile if none is
// given. An .hdr output skips the log encode and writes the decoded
// linear image as a radiance map instead.
func Convert(c *Config) error { //cli:cmd -root
	if c.Input == "" {
		return fmt.Errorf("convert: no input file given")
	}
	if err := registerSpaces(c); err != nil {
		return err
	}
	out := c.Output
	if out == "" {
		out = outputName(c.Input, c.Profile)
	}
	if strings.EqualFold(filepath.Ext(out), ".hdr") {
		img, err := newDecoder(c).Decode(c.Input)
		if err != nil {
			return err
		}
		if err := export.WriteLinearHDR(img, out); err != nil {
			return err
		}
		logx.PrintlnInfo("wrote " + out)
		return nil
	}
	cv, err := pipeline.NewConverter(newDecoder(c))
	if err != nil {
		return err
	}
	defer cv.Release()
	res, err := cv.Process(c.Input, c.pipeline())
	if err != nil {
		return err
	}
	if err := writeResult(c, out, res); err != nil {
		return err
	}
	logx.PrintlnInfo(resultLine(out, res))
	return nil
}

// Batch converts every TIFF file in the input directory, or the
// current directory if none is given. Per-file failures are reported
// and skipped; an interrupt stops the run between files.
func Batch(c *Config) error {
	if c.Input == "" {
		c.Input = "."
	}
	if err := registerSpaces(c); err != nil {
		return err
	}
	paths := tiffNames(c.Input)
	if len(paths) == 0 {
		return fmt.Errorf("batch: no TIFF files in %q", c.Input)
	}
	dir, err := outputDir(c)
	if err != nil {
		return err
	}
	cv, err := pipeline.NewConverter(newDecoder(c))
	if err != nil {
		return err
	}
	defer cv.Release()
	ctx, cancel := interruptContext()
	defer cancel()
	failed := 0
	err = cv.Sweep(ctx, paths, c.pipeline(), func(path string, res *pipeline.Result, perr error) {
		out := filepath.Join(dir, filepath.Base(outputName(path, c.Profile)))
		if perr == nil {
			perr = writeResult(c, out, res)
		}
		if perr != nil {
			failed++
			logx.PrintlnError(path + ": " + perr.Error())
			return
		}
		logx.PrintlnInfo(resultLine(out, res))
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("batch: %d of %d files failed", failed, len(paths))
	}
	return nil
}

// Watch converts TIFF files as they appear in the input directory,
// until interrupted. Files should be moved or linked into the
// directory so they are complete when the create event fires.
func Watch(c *Config) error {
	if c.Input == "" {
		c.Input = "."
	}
	if err := registerSpaces(c); err != nil {
		return err
	}
	dir, err := outputDir(c)
	if err != nil {
		return err
	}
	cv, err := pipeline.NewConverter(newDecoder(c))
	if err != nil {
		return err
	}
	defer cv.Release()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(c.Input); err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()
	logx.PrintlnInfo("watching " + c.Input)
	cfg := c.pipeline()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != fsnotify.Create || !isTIFF(event.Name) {
				continue
			}
			res, err := cv.Process(event.Name, cfg)
			if err != nil {
				logx.PrintlnError(event.Name + ": " + err.Error())
				continue
			}
			out := filepath.Join(dir, filepath.Base(outputName(event.Name, c.Profile)))
			if err := writeResult(c, out, res); err != nil {
				logx.PrintlnError(event.Name + ": " + err.Error())
				continue
			}
			logx.PrintlnInfo(resultLine(out, res))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logx.PrintlnError("watch: " + err.Error())
		case <-ctx.Done():
			return nil
		}
	}
}

// Profiles lists the supported log profiles and the registered color
// spaces.
func Profiles(c *Config) error {
	for _, p := range logspace.ProfileValues() {
		fmt.Printf("%-10s  gamut %-16s  middle gray %.4f\n", p, p.Gamut(), p.MiddleGray())
	}
	fmt.Println("\ncolor spaces: " + strings.Join(colorspace.Names(), ", "))
	return nil
}

// newDecoder returns the TIFF decoder the flags describe.
func newDecoder(c *Config) *decode.TIFF {
	return &decode.TIFF{Space: c.Space, Cache: colorspace.NewCache()}
}

// registerSpaces loads the user color space file, if any.
func registerSpaces(c *Config) error {
	if c.Spaces == "" {
		return nil
	}
	n, err := colorspace.LoadFile(c.Spaces)
	if err != nil {
		return err
	}
	logx.PrintfDebug("registered %d color spaces from %s\n", n, c.Spaces)
	return nil
}

// outputName derives the output file name from the input and the
// profile: clip.tif becomes clip-slog3.tif.
func outputName(in string, p logspace.Profile) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + "-" + strings.ToLower(p.String()) + ".tif"
}

// outputDir resolves the batch and watch output directory, creating it
// when needed. Empty means alongside the inputs.
func outputDir(c *Config) (string, error) {
	if c.Output == "" {
		return c.Input, nil
	}
	if err := os.MkdirAll(c.Output, 0750); err != nil {
		return "", err
	}
	return c.Output, nil
}

// writeResult writes the processed texture to out, plus a PNG preview
// when Thumbnail is set.
func writeResult(c *Config, out string, res *pipeline.Result) error {
	img := export.Image16(res.Output)
	if err := export.Write(img, out); err != nil {
		return err
	}
	if c.Thumbnail <= 0 {
		return nil
	}
	thumb := export.Thumbnail(img, c.Thumbnail)
	return imagex.Save(thumb, strings.TrimSuffix(out, filepath.Ext(out))+"-thumb.png")
}

// resultLine formats the one-line report for a processed file.
func resultLine(out string, res *pipeline.Result) string {
	return fmt.Sprintf("%s -> %s  gain %.3gx  auto %+.2f EV  %v", res.Source, out, res.Gain, res.AutoEV, res.Elapsed.Round(time.Millisecond))
}

// tiffNames returns the TIFF files in dir, sorted by name.
func tiffNames(dir string) []string {
	names := fsx.Filenames(dir, ".tif")
	names = append(names, fsx.Filenames(dir, ".tiff")...)
	slices.Sort(names)
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

// isTIFF reports whether the file name has a TIFF extension.
func isTIFF(name string) bool {
	ext := filepath.Ext(name)
	return strings.EqualFold(ext, ".tif") || strings.EqualFold(ext, ".tiff")
}

// interruptContext returns a context canceled on interrupt or SIGTERM,
// so batch and watch runs stop cleanly between files.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
