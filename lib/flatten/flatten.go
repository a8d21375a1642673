// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package flatten converts images of any pixel mode to opaque RGB, suitable
// for lossy encoders that do not support transparency or indexed color.
//
// Transparent pixels are composited over a white background. Paletted images
// have each index resolved to its palette entry's color, discarding that
// entry's alpha.
//
// Go's standard library has no RGB image type. Flatten returns an
// *image.RGBA whose every pixel has an alpha of 0xFF.
package flatten

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Background is the color that transparent pixels are composited over.
var Background = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}

// Mode is an image's pixel mode: its channel layout, ignoring bit depth.
type Mode uint8

const (
	ModeInvalid   = Mode(0)
	ModeRGB       = Mode(1)
	ModeRGBA      = Mode(2)
	ModeGray      = Mode(3)
	ModeGrayAlpha = Mode(4)
	ModePaletted  = Mode(5)
)

func (m Mode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	case ModeGray:
		return "L"
	case ModeGrayAlpha:
		return "LA"
	case ModePaletted:
		return "P"
	}
	return "invalid"
}

// HasAlpha returns whether the Mode carries a per-pixel alpha channel.
//
// ModePaletted returns false even though palette entries may be translucent:
// Flatten ignores their alpha.
func (m Mode) HasAlpha() bool {
	return (m == ModeRGBA) || (m == ModeGrayAlpha)
}

// ModeOf returns the Mode that best describes src's concrete type.
//
// Types that can hold translucent pixels but happen to be fully opaque (as
// reported by their Opaque method) are ModeRGB. Go's PNG decoder expands
// gray+alpha images to *image.NRGBA or *image.NRGBA64, so ModeOf never returns
// ModeGrayAlpha for them.
func ModeOf(src image.Image) Mode {
	switch src := src.(type) {
	case nil:
		return ModeInvalid
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.Paletted:
		return ModePaletted
	case *image.YCbCr, *image.CMYK:
		return ModeRGB
	case interface{ Opaque() bool }:
		if src.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	}
	return ModeRGBA
}

// Flatten returns an opaque image with the same bounds as src.
//
// If src is an *image.RGBA that is already opaque, it is returned as is.
// Otherwise a new image is allocated and src is left unmodified.
func Flatten(src image.Image) *image.RGBA {
	switch ModeOf(src) {
	case ModeInvalid:
		return image.NewRGBA(image.Rectangle{})
	case ModeRGB, ModeGray:
		if m, ok := src.(*image.RGBA); ok {
			return m
		}
		return copyOpaque(src)
	case ModePaletted:
		return resolvePalette(src.(*image.Paletted))
	}
	return overWhite(src)
}

// FlattenMode is like Flatten but dispatches on a declared mode, such as a
// PNG file's color type, instead of src's concrete type.
//
// Go's PNG decoder turns a gray or RGB image with a tRNS color key into an
// *image.NRGBA whose keyed pixels are transparent. Declaring ModeGray or
// ModeRGB drops that alpha, keeping every pixel's color, instead of
// compositing keyed pixels over white.
func FlattenMode(src image.Image, declared Mode) *image.RGBA {
	switch declared {
	case ModeRGB, ModeGray:
		if ModeOf(src) == ModeRGBA {
			return dropAlpha(src)
		}
	}
	return Flatten(src)
}

// dropAlpha returns src's non-premultiplied colors, forcing every alpha to
// 0xFF.
func dropAlpha(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)

	if srcNRGBA, ok := src.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			si := srcNRGBA.PixOffset(b.Min.X, y)
			di := dst.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				copy(dst.Pix[di:di+3], srcNRGBA.Pix[si:si+3])
				dst.Pix[di+3] = 0xFF
				si += 4
				di += 4
			}
		}
		return dst
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(x, y, opaqueRGB(src.At(x, y)))
		}
	}
	return dst
}

func copyOpaque(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// overWhite composites src over Background.
//
// *image.NRGBA is the common case (it is what Go's PNG decoder produces for
// 8-bit RGBA and gray+alpha) and gets a direct loop with exact rounding.
// Other types go through draw.Over, which is accurate to within one unit per
// channel.
func overWhite(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)

	if srcNRGBA, ok := src.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			si := srcNRGBA.PixOffset(b.Min.X, y)
			di := dst.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				s := srcNRGBA.Pix[si : si+4 : si+4]
				d := dst.Pix[di : di+4 : di+4]
				a := uint32(s[3])
				d[0] = blend(s[0], a)
				d[1] = blend(s[1], a)
				d[2] = blend(s[2], a)
				d[3] = 0xFF
				si += 4
				di += 4
			}
		}
		return dst
	}

	draw.Draw(dst, b, image.NewUniform(Background), image.Point{}, draw.Src)
	draw.Draw(dst, b, src, b.Min, draw.Over)
	return dst
}

// blend returns the non-premultiplied channel value c, with alpha a, over a
// white channel value of 0xFF.
func blend(c uint8, a uint32) uint8 {
	return uint8(((uint32(c) * a) + (0xFF * (0xFF - a)) + 0x7F) / 0xFF)
}

func resolvePalette(src *image.Paletted) *image.RGBA {
	lut := [256]color.RGBA{}
	for i := range lut {
		lut[i] = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	}
	for i, c := range src.Palette {
		if i >= len(lut) {
			break
		}
		lut[i] = opaqueRGB(c)
	}

	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			c := lut[src.Pix[si]]
			dst.Pix[di+0] = c.R
			dst.Pix[di+1] = c.G
			dst.Pix[di+2] = c.B
			dst.Pix[di+3] = 0xFF
			si++
			di += 4
		}
	}
	return dst
}

// opaqueRGB returns c's non-premultiplied color with its alpha forced to 0xFF.
func opaqueRGB(c color.Color) color.RGBA {
	switch c := c.(type) {
	case color.NRGBA:
		return color.RGBA{c.R, c.G, c.B, 0xFF}
	case color.NRGBA64:
		return color.RGBA{uint8(c.R >> 8), uint8(c.G >> 8), uint8(c.B >> 8), 0xFF}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{n.R, n.G, n.B, 0xFF}
}
