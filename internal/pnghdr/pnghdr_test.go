// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package pnghdr

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/nigeltao/png2webp/lib/flatten"
)

func encodePNG(tt *testing.T, m image.Image) []byte {
	tt.Helper()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, m); err != nil {
		tt.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func appendU32BE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>24),
		uint8(u>>16),
		uint8(u>>8),
		uint8(u>>0),
	)
}

// appendChunk appends a chunk with a zero (unchecked) CRC.
func appendChunk(b []byte, typ string, data []byte) []byte {
	b = appendU32BE(b, uint32(len(data)))
	b = append(b, typ...)
	b = append(b, data...)
	return appendU32BE(b, 0)
}

func ihdr(w uint32, h uint32, depth uint8, colorType ColorType) []byte {
	b := appendU32BE(nil, w)
	b = appendU32BE(b, h)
	return append(b, depth, uint8(colorType), 0, 0, 0)
}

func TestReadGoEncodedImages(tt *testing.T) {
	r := image.Rect(0, 0, 5, 3)

	opaque := image.NewNRGBA(r)
	for i := range opaque.Pix {
		opaque.Pix[i] = 0xFF
	}
	translucent := image.NewNRGBA(r)
	translucent.SetNRGBA(1, 1, color.NRGBA{0x10, 0x20, 0x30, 0x40})
	paletted := image.NewPaletted(r, color.Palette{
		color.NRGBA{0x00, 0x00, 0x00, 0x00},
		color.NRGBA{0xFF, 0x00, 0x00, 0xFF},
	})

	testCases := []struct {
		name      string
		src       image.Image
		wantMode  flatten.Mode
		wantTRNS  bool
		wantDepth int
	}{
		{"gray", image.NewGray(r), flatten.ModeGray, false, 8},
		{"gray16", image.NewGray16(r), flatten.ModeGray, false, 16},
		{"rgb", opaque, flatten.ModeRGB, false, 8},
		{"rgba", translucent, flatten.ModeRGBA, false, 8},
		{"paletted", paletted, flatten.ModePaletted, true, 1},
	}

	for _, tc := range testCases {
		h, err := Read(bytes.NewReader(encodePNG(tt, tc.src)))
		if err != nil {
			tt.Errorf("tc=%q: Read: %v", tc.name, err)
			continue
		}
		if (h.Width != 5) || (h.Height != 3) {
			tt.Errorf("tc=%q: dimensions: got %dx%d, want 5x3", tc.name, h.Width, h.Height)
		}
		if got := h.Mode(); got != tc.wantMode {
			tt.Errorf("tc=%q: Mode: got %v, want %v", tc.name, got, tc.wantMode)
		}
		if h.HasTransparency != tc.wantTRNS {
			tt.Errorf("tc=%q: HasTransparency: got %t, want %t", tc.name, h.HasTransparency, tc.wantTRNS)
		}
		if h.BitDepth != tc.wantDepth {
			tt.Errorf("tc=%q: BitDepth: got %d, want %d", tc.name, h.BitDepth, tc.wantDepth)
		}
	}
}

func TestReadHandcraftedHeaders(tt *testing.T) {
	testCases := []struct {
		name     string
		chunks   [][2]string
		wantMode flatten.Mode
		wantTRNS bool
	}{
		{"gray-alpha", [][2]string{{"IHDR", string(ihdr(4, 4, 8, ColorTypeGrayAlpha))}}, flatten.ModeGrayAlpha, false},
		{"gray-trns", [][2]string{{"IHDR", string(ihdr(4, 4, 8, ColorTypeGray))}, {"tRNS", "\x00\x00"}}, flatten.ModeGray, true},
		{"rgb-trns", [][2]string{{"IHDR", string(ihdr(4, 4, 16, ColorTypeRGB))}, {"gAMA", "\x00\x00\xb1\x8f"}, {"tRNS", "\x00\x00\x00\x00\x00\x00"}}, flatten.ModeRGB, true},
		{"rgba-trns", [][2]string{{"IHDR", string(ihdr(4, 4, 8, ColorTypeRGBA))}, {"tRNS", "\x00\x00\x00\x00\x00\x00"}}, flatten.ModeRGBA, true},
	}

	for _, tc := range testCases {
		b := []byte(Magic)
		for _, c := range tc.chunks {
			b = appendChunk(b, c[0], []byte(c[1]))
		}
		b = appendChunk(b, "IDAT", []byte{0x78, 0x9C})

		h, err := Read(bytes.NewReader(b))
		if err != nil {
			tt.Errorf("tc=%q: Read: %v", tc.name, err)
			continue
		}
		if got := h.Mode(); got != tc.wantMode {
			tt.Errorf("tc=%q: Mode: got %v, want %v", tc.name, got, tc.wantMode)
		}
		if h.HasTransparency != tc.wantTRNS {
			tt.Errorf("tc=%q: HasTransparency: got %t, want %t", tc.name, h.HasTransparency, tc.wantTRNS)
		}
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestReadSkipsLargeAncillaryChunks(tt *testing.T) {
	const length = 65 << 20

	head := appendChunk([]byte(Magic), "IHDR", ihdr(4, 4, 8, ColorTypeRGB))
	head = appendChunk(head, "tRNS", []byte("\x00\x00\x00\x00\x00\x00"))
	head = appendU32BE(head, length)
	head = append(head, "iTXt"...)
	tail := appendU32BE(nil, 0)
	tail = appendChunk(tail, "IDAT", []byte{0x78, 0x9C})

	r := io.MultiReader(
		bytes.NewReader(head),
		io.LimitReader(zeroReader{}, length),
		bytes.NewReader(tail),
	)
	h, err := Read(r)
	if err != nil {
		tt.Fatalf("Read: %v", err)
	}
	if (h.Mode() != flatten.ModeRGB) || !h.HasTransparency {
		tt.Errorf("got mode %v, tRNS %t, want RGB, true", h.Mode(), h.HasTransparency)
	}
}

func TestReadRejectsBadInput(tt *testing.T) {
	valid := appendChunk([]byte(Magic), "IHDR", ihdr(4, 4, 8, ColorTypeRGBA))

	testCases := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrNotAPNGFile},
		{"text", []byte("this is not an image, just some text pretending to be one"), ErrNotAPNGFile},
		{"truncated-signature", []byte(Magic[:5]), ErrNotAPNGFile},
		{"no-idat", valid, ErrBadHeader},
		{"zero-width", appendChunk([]byte(Magic), "IHDR", ihdr(0, 4, 8, ColorTypeRGBA)), ErrBadHeader},
		{"bad-depth", appendChunk([]byte(Magic), "IHDR", ihdr(4, 4, 4, ColorTypeRGB)), ErrBadHeader},
		{"bad-color-type", appendChunk([]byte(Magic), "IHDR", ihdr(4, 4, 8, ColorType(5))), ErrBadHeader},
		{"first-chunk-not-ihdr", appendChunk([]byte(Magic), "IDAT", make([]byte, 13)), ErrBadHeader},
		{"truncated-chunk", append(appendU32BE(valid, 100), "tEXt"...), ErrBadHeader},
	}

	for _, tc := range testCases {
		_, err := Read(bytes.NewReader(tc.data))
		if !errors.Is(err, tc.wantErr) {
			tt.Errorf("tc=%q: got %v, want %v", tc.name, err, tc.wantErr)
		}
	}
}
