// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package pnghdr reads the header chunks of a PNG file: everything before the
// first IDAT chunk.
//
// It is an incomplete implementation (and hence an internal package), only
// providing what's needed to report a PNG file's declared pixel mode. Go's
// image/png decoder expands some color types (gray+alpha, gray or RGB with a
// tRNS chunk) to wider image types, losing that information.
//
// PNG is specified at https://www.w3.org/TR/png/
package pnghdr

import (
	"errors"
	"io"

	"github.com/nigeltao/png2webp/lib/flatten"
)

// Magic is the byte string prefix of every PNG image file.
const Magic = "\x89PNG\r\n\x1a\n"

var (
	ErrBadHeader   = errors.New("pnghdr: bad header")
	ErrNotAPNGFile = errors.New("pnghdr: not a PNG file")
)

// ColorType is the IHDR chunk's color type byte.
type ColorType uint8

const (
	ColorTypeGray      = ColorType(0)
	ColorTypeRGB       = ColorType(2)
	ColorTypePaletted  = ColorType(3)
	ColorTypeGrayAlpha = ColorType(4)
	ColorTypeRGBA      = ColorType(6)
)

// Header holds the IHDR fields and whether a tRNS chunk was seen.
type Header struct {
	Width     int
	Height    int
	BitDepth  int
	ColorType ColorType
	Interlace bool

	// HasTransparency is whether a tRNS chunk precedes the image data.
	HasTransparency bool
}

// Mode returns the pixel mode that h's color type declares.
//
// A tRNS chunk does not change the mode. For gray and RGB images it is a
// single color key, not an alpha channel, and for paletted images it only
// makes palette entries translucent.
func (h Header) Mode() flatten.Mode {
	switch h.ColorType {
	case ColorTypeGray:
		return flatten.ModeGray
	case ColorTypeRGB:
		return flatten.ModeRGB
	case ColorTypePaletted:
		return flatten.ModePaletted
	case ColorTypeGrayAlpha:
		return flatten.ModeGrayAlpha
	case ColorTypeRGBA:
		return flatten.ModeRGBA
	}
	return flatten.ModeInvalid
}

func validBitDepth(c ColorType, d int) bool {
	switch c {
	case ColorTypeGray:
		return (d == 1) || (d == 2) || (d == 4) || (d == 8) || (d == 16)
	case ColorTypePaletted:
		return (d == 1) || (d == 2) || (d == 4) || (d == 8)
	case ColorTypeRGB, ColorTypeGrayAlpha, ColorTypeRGBA:
		return (d == 8) || (d == 16)
	}
	return false
}

// Read reads a PNG file's signature, IHDR chunk and any other chunks up to
// (but not including) the first IDAT chunk. CRCs are not checked.
func Read(r io.Reader) (Header, error) {
	buf := [8 + 8 + 13 + 4]byte{}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if (err == io.EOF) || (err == io.ErrUnexpectedEOF) {
			return Header{}, ErrNotAPNGFile
		}
		return Header{}, err
	} else if string(buf[:8]) != Magic {
		return Header{}, ErrNotAPNGFile
	} else if (readU32BE(buf[8:]) != 13) || (string(buf[12:16]) != "IHDR") {
		return Header{}, ErrBadHeader
	}

	ihdr := buf[16:29]
	h := Header{
		Width:     int(readU32BE(ihdr[0:])),
		Height:    int(readU32BE(ihdr[4:])),
		BitDepth:  int(ihdr[8]),
		ColorType: ColorType(ihdr[9]),
		Interlace: ihdr[12] == 1,
	}
	if (h.Width <= 0) || (h.Width > 0x7FFFFFFF) ||
		(h.Height <= 0) || (h.Height > 0x7FFFFFFF) ||
		!validBitDepth(h.ColorType, h.BitDepth) ||
		(ihdr[10] != 0) || (ihdr[11] != 0) || (ihdr[12] > 1) {
		return Header{}, ErrBadHeader
	}

	for {
		chunk := [8]byte{}
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if (err == io.EOF) || (err == io.ErrUnexpectedEOF) {
				return Header{}, ErrBadHeader
			}
			return Header{}, err
		}
		length := int64(readU32BE(chunk[0:]))
		switch string(chunk[4:8]) {
		case "IDAT", "IEND":
			return h, nil
		case "tRNS":
			h.HasTransparency = true
		}

		if n, err := io.CopyN(io.Discard, r, length+4); err != nil {
			if (err == io.EOF) && (n < length+4) {
				return Header{}, ErrBadHeader
			}
			return Header{}, err
		}
	}
}

func readU32BE(b []byte) uint32 {
	return (uint32(b[0]) << 24) |
		(uint32(b[1]) << 16) |
		(uint32(b[2]) << 8) |
		(uint32(b[3]) << 0)
}
