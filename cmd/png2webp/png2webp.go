// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// png2webp converts every PNG file in a directory to a lossy WebP sibling.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nigeltao/png2webp/internal/config"
	"github.com/nigeltao/png2webp/lib/convert"
)

const usageStr = `png2webp converts every PNG file in a directory to WebP.

Usage:

    png2webp [flags] [dir]

The directory defaults to public/images. It is not searched recursively. Each
foo.png is converted to foo.webp in the same directory, overwriting any
existing foo.webp. Transparent pixels are composited over white.

Flags (before the directory):

    -config=path  YAML file with dir, quality and method keys
    -quality=85   lossy quality, from 0 to 100
    -method=6     compression effort, from 0 (fastest) to 6 (smallest)

Flags override the config file.

The exit status is 0 if every file was converted (or there were none), 1 if
any file failed and 2 for any other error.
`

const (
	exitOK      = 0
	exitFailed  = 1
	exitTrouble = 2
)

var errUsage = errors.New("main: too many directories; the maximum is one")

func main() {
	os.Exit(main1(os.Args[1:], os.Stdout, os.Stderr))
}

func main1(args []string, stdout io.Writer, stderr io.Writer) int {
	s, err := run(args, stdout, stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, convert.ErrNoFiles):
		return exitOK
	case err != nil:
		io.WriteString(stderr, err.Error()+"\n")
		return exitTrouble
	case s.Failed() > 0:
		return exitFailed
	}
	return exitOK
}

func run(args []string, stdout io.Writer, stderr io.Writer) (convert.Summary, error) {
	fs := flag.NewFlagSet("png2webp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { io.WriteString(stderr, usageStr) }
	configFlag := fs.String("config", "", "YAML configuration file")
	qualityFlag := fs.Int("quality", convert.DefaultQuality, "lossy quality")
	methodFlag := fs.Int("method", convert.DefaultMethod, "compression effort")
	if err := fs.Parse(args); err != nil {
		return convert.Summary{}, err
	}

	cfg := config.Default()
	if *configFlag != "" {
		c, err := config.Load(*configFlag)
		if err != nil {
			return convert.Summary{}, err
		}
		cfg = c
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "quality":
			cfg.Quality = *qualityFlag
		case "method":
			cfg.Method = *methodFlag
		}
	})

	switch fs.NArg() {
	case 0:
		// No-op.
	case 1:
		cfg.Dir = fs.Arg(0)
	default:
		return convert.Summary{}, errUsage
	}
	if err := cfg.Validate(); err != nil {
		return convert.Summary{}, err
	}

	if err := convert.SelfTest(); err != nil {
		return convert.Summary{}, fmt.Errorf("main: the WebP encoder (libwebp) is unusable: %w", err)
	}

	return convert.Run(cfg.Dir, cfg.Options(), convert.TextReporter{W: stdout})
}
