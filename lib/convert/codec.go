// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/nigeltao/png2webp/internal/pnghdr"
	"github.com/nigeltao/png2webp/lib/flatten"

	"github.com/kolesa-team/go-webp/encoder"
	gowebp "github.com/kolesa-team/go-webp/webp"
	xwebp "golang.org/x/image/webp"
)

// decodePNG returns the decoded image and the pixel mode that its header
// declares.
func decodePNG(srcBytes []byte) (image.Image, flatten.Mode, error) {
	h, err := pnghdr.Read(bytes.NewReader(srcBytes))
	if err != nil {
		return nil, flatten.ModeInvalid, err
	}
	m, err := png.Decode(bytes.NewReader(srcBytes))
	if err != nil {
		return nil, flatten.ModeInvalid, err
	}
	return m, h.Mode(), nil
}

// encodeWebP writes m to w as lossy WebP. The encoder runs single-threaded.
func encodeWebP(w io.Writer, m image.Image, options *Options) error {
	eo, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(options.Quality))
	if err != nil {
		return err
	}
	eo.Method = options.Method
	return gowebp.Encode(w, m, eo)
}

// encodeWebPFile encodes m in memory first, so that an encoding failure never
// leaves a partial file behind. A failed write removes what it wrote.
func encodeWebPFile(dstPath string, m image.Image, options *Options) error {
	buf := &bytes.Buffer{}
	if err := encodeWebP(buf, m, options); err != nil {
		return err
	}

	f, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(dstPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(dstPath)
		return err
	}
	return nil
}

// confirm checks that dstPath exists and holds a WebP image of the wanted
// size, returning its size in bytes.
func confirm(dstPath string, want image.Point) (Kind, int64, error) {
	info, err := os.Stat(dstPath)
	if err != nil {
		return KindIO, 0, err
	}
	f, err := os.Open(dstPath)
	if err != nil {
		return KindIO, 0, err
	}
	defer f.Close()

	config, err := xwebp.DecodeConfig(f)
	if err != nil {
		return KindEncode, 0, fmt.Errorf("reading back %s: %w", dstPath, err)
	} else if (config.Width != want.X) || (config.Height != want.Y) {
		return KindEncode, 0, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrSizeMismatch, config.Width, config.Height, want.X, want.Y)
	}
	return 0, info.Size(), nil
}

// SelfTest encodes a 1×1 image, returning an error if the WebP encoder is
// unusable.
func SelfTest() error {
	m := image.NewRGBA(image.Rect(0, 0, 1, 1))
	m.SetRGBA(0, 0, flatten.Background)

	buf := &bytes.Buffer{}
	if err := encodeWebP(buf, m, DefaultOptions()); err != nil {
		return fmt.Errorf("convert: WebP encoder self-test: %w", err)
	}
	if _, err := xwebp.DecodeConfig(buf); err != nil {
		return fmt.Errorf("convert: WebP encoder self-test: %w", err)
	}
	return nil
}
