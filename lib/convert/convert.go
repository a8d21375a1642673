// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package convert converts a directory's PNG files to lossy WebP files,
// sequentially, and accumulates their size savings.
//
// Each foo.png file is converted to a sibling foo.webp file, overwriting any
// existing one. Transparent pixels are composited over white (see package
// flatten) since the output carries no alpha channel.
package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nigeltao/png2webp/lib/flatten"
)

var (
	ErrBadArgument  = errors.New("convert: bad argument")
	ErrNoFiles      = errors.New("convert: no PNG files found")
	ErrSizeMismatch = errors.New("convert: encoded size does not match the source")
)

const (
	DefaultQuality = 85
	DefaultMethod  = 6

	// MaxMethod is the encoder's slowest, highest-effort compression method.
	MaxMethod = 6
)

// Options are optional arguments to Run and ConvertFile.
type Options struct {
	// Quality is the lossy encoding quality, from 0 to 100.
	Quality int
	// Method is the compression effort, from 0 (fastest) to MaxMethod.
	Method int
}

// DefaultOptions returns quality 85 at the maximum compression effort.
func DefaultOptions() *Options {
	return &Options{
		Quality: DefaultQuality,
		Method:  DefaultMethod,
	}
}

func (o *Options) orDefault() *Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}

func (o *Options) validate() error {
	o = o.orDefault()
	if (o.Quality < 0) || (o.Quality > 100) ||
		(o.Method < 0) || (o.Method > MaxMethod) {
		return ErrBadArgument
	}
	return nil
}

// Kind classifies a per-file conversion failure.
type Kind uint8

const (
	// KindDecode means the source is not a well-formed PNG.
	KindDecode = Kind(1)
	// KindEncode means encoding or writing the WebP output failed, or the
	// written output could not be read back as WebP.
	KindEncode = Kind(2)
	// KindIO means a filesystem operation on the source or a stat of the
	// output failed.
	KindIO = Kind(3)
	// KindArgument means the Options were out of range. The Error wraps
	// ErrBadArgument and no file was read or written.
	KindArgument = Kind(4)
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode error"
	case KindEncode:
		return "encode error"
	case KindIO:
		return "I/O error"
	case KindArgument:
		return "bad argument"
	}
	return "unknown error"
}

// Error is a per-file conversion failure.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("convert: %s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the outcome of converting one file.
type Result struct {
	Source string
	Dest   string

	// SourceMode is the pixel mode that the PNG header declares.
	SourceMode flatten.Mode

	SourceSize int64
	// DestSize is zero unless the conversion succeeded.
	DestSize int64

	// Err is nil on success.
	Err *Error
}

// OK returns whether the conversion succeeded, including confirming that
// the output file exists and is readable WebP.
func (r Result) OK() bool {
	return r.Err == nil
}

// Savings returns the percentage by which the output is smaller than the
// source. It is negative if the output is larger.
func (r Result) Savings() float64 {
	if !r.OK() {
		return 0
	}
	return savings(r.SourceSize, r.DestSize)
}

// Summary accumulates Results over one Run.
//
// SourceBytes and DestBytes only count successful conversions, so that
// Savings compares like with like.
type Summary struct {
	Attempted int
	Succeeded int

	SourceBytes int64
	DestBytes   int64
}

// Add accumulates r.
func (s *Summary) Add(r Result) {
	s.Attempted++
	if !r.OK() {
		return
	}
	s.Succeeded++
	s.SourceBytes += r.SourceSize
	s.DestBytes += r.DestSize
}

// Failed returns the number of failed conversions.
func (s Summary) Failed() int {
	return s.Attempted - s.Succeeded
}

// Savings returns the aggregate percentage savings.
func (s Summary) Savings() float64 {
	return savings(s.SourceBytes, s.DestBytes)
}

// Saved returns the number of bytes saved.
func (s Summary) Saved() int64 {
	return s.SourceBytes - s.DestBytes
}

func savings(srcSize int64, dstSize int64) float64 {
	if srcSize <= 0 {
		return 0
	}
	return (1 - (float64(dstSize) / float64(srcSize))) * 100
}

// DestPath returns srcPath with its extension replaced by ".webp".
func DestPath(srcPath string) string {
	return strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".webp"
}

// Scan returns the paths of dir's PNG files, sorted by name. It does not
// recurse into subdirectories. Matching the ".png" extension is
// case-insensitive.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := []string(nil)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".png") {
			continue
		}
		path := filepath.Join(dir, name)
		if entry.IsDir() {
			continue
		} else if (entry.Type() & os.ModeSymlink) != 0 {
			if info, err := os.Stat(path); (err != nil) || info.IsDir() {
				continue
			}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ConvertFile converts the PNG file at srcPath to a WebP file at
// DestPath(srcPath).
//
// options may be nil, which means to use the default configuration.
func ConvertFile(srcPath string, options *Options) (ret Result) {
	ret.Source = srcPath
	ret.Dest = DestPath(srcPath)
	fail := func(k Kind, err error) Result {
		ret.DestSize = 0
		ret.Err = &Error{Kind: k, Path: srcPath, Err: err}
		return ret
	}

	if err := options.validate(); err != nil {
		return fail(KindArgument, err)
	}
	options = options.orDefault()

	srcBytes, err := os.ReadFile(srcPath)
	if err != nil {
		return fail(KindIO, err)
	}
	ret.SourceSize = int64(len(srcBytes))

	src, mode, err := decodePNG(srcBytes)
	if err != nil {
		return fail(KindDecode, err)
	}
	ret.SourceMode = mode

	dst := flatten.FlattenMode(src, mode)
	if err := encodeWebPFile(ret.Dest, dst, options); err != nil {
		return fail(KindEncode, err)
	}

	k, size, err := confirm(ret.Dest, dst.Bounds().Size())
	if err != nil {
		return fail(k, err)
	}
	ret.DestSize = size
	return ret
}

// Run converts every PNG file in dir, sequentially, reporting progress to r.
// A per-file failure is recorded in the Summary and does not stop the run.
//
// It returns ErrNoFiles if dir contains no PNG files. options may be nil,
// which means to use the default configuration. r may be nil, which means to
// report nothing.
func Run(dir string, options *Options, r Reporter) (Summary, error) {
	if r == nil {
		r = NopReporter{}
	}
	if err := options.validate(); err != nil {
		return Summary{}, err
	}

	paths, err := Scan(dir)
	if err != nil {
		return Summary{}, err
	} else if len(paths) == 0 {
		r.NoFiles(dir)
		return Summary{}, ErrNoFiles
	}

	r.Start(len(paths))
	s := Summary{}
	for _, path := range paths {
		res := ConvertFile(path, options)
		s.Add(res)
		r.File(res)
	}
	r.Done(s)
	return s, nil
}
