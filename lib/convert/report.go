// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Reporter receives Run's progress.
type Reporter interface {
	// NoFiles is called, instead of every other method, when the directory
	// has no PNG files.
	NoFiles(dir string)
	// Start is called once, before the first file.
	Start(numFiles int)
	// File is called after each file, successful or not.
	File(r Result)
	// Done is called once, after the last file.
	Done(s Summary)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) NoFiles(dir string) {}
func (NopReporter) Start(numFiles int) {}
func (NopReporter) File(r Result)      {}
func (NopReporter) Done(s Summary)     {}

// TextReporter writes human-readable progress lines and a boxed summary. The
// format is not stable and not meant to be parsed.
type TextReporter struct {
	W io.Writer
}

const (
	kiB = 1024
	miB = 1024 * 1024
)

var rule = strings.Repeat("=", 60)

func (t TextReporter) NoFiles(dir string) {
	fmt.Fprintf(t.W, "No PNG files found in %s!\n", dir)
}

func (t TextReporter) Start(numFiles int) {
	fmt.Fprintf(t.W, "Converting %d PNG files to WebP...\n\n", numFiles)
}

func (t TextReporter) File(r Result) {
	name := filepath.Base(r.Source)
	if !r.OK() {
		fmt.Fprintf(t.W, "✗ Failed: %s (%s) - %v\n", name, r.Err.Kind, r.Err.Err)
		return
	}
	fmt.Fprintf(t.W, "✓ %s (%v)\n", name, r.SourceMode)
	fmt.Fprintf(t.W, "  PNG: %.1fKB → WebP: %.1fKB (%.1f%% savings)\n",
		float64(r.SourceSize)/kiB, float64(r.DestSize)/kiB, r.Savings())
}

func (t TextReporter) Done(s Summary) {
	fmt.Fprintf(t.W, "\n%s\n", rule)
	fmt.Fprintf(t.W, "Conversion complete!\n")
	fmt.Fprintf(t.W, "Successful: %d/%d\n", s.Succeeded, s.Attempted)
	fmt.Fprintf(t.W, "Total PNG size: %.2f MB\n", float64(s.SourceBytes)/miB)
	fmt.Fprintf(t.W, "Total WebP size: %.2f MB\n", float64(s.DestBytes)/miB)
	fmt.Fprintf(t.W, "Total savings: %.1f%%\n", s.Savings())
	fmt.Fprintf(t.W, "Space saved: %.2f MB\n", float64(s.Saved())/miB)
	fmt.Fprintf(t.W, "%s\n", rule)
}
