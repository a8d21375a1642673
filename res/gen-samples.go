// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

//go:build ignore

// gen-samples writes one PNG per pixel mode (plus an RGB image with a tRNS
// color key) into the samples directory, for trying out png2webp by hand:
//
//	go run gen-samples.go && go run ../cmd/png2webp samples
package main

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const dstDirName = "samples"

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	f, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return fmt.Errorf("opentype.Parse: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    160,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("opentype.NewFace: %v", err)
	}
	if err := os.MkdirAll(dstDirName, 0777); err != nil {
		return fmt.Errorf("os.MkdirAll: %v", err)
	}

	glyphs := image.NewAlpha(image.Rect(0, 0, 256, 256))
	{
		d := font.Drawer{
			Dst:  glyphs,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.P(16, 192),
		}
		d.DrawString("Go")
	}

	// A soft-edged orange disc, fading to transparent.
	disc := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	{
		const cx, cy = 128, 128
		for y := range 256 {
			dy := y - cy
			for x := range 256 {
				dx := x - cx
				distance := math.Sqrt(float64((dx * dx) + (dy * dy)))
				a := uint8(max(0x00, min(0xFF, 0x180-(2*int(distance)))))
				disc.SetNRGBA(x, y, color.NRGBA{0xFF, 0x80, 0x10, a})
			}
		}
	}

	grad := image.NewRGBA(image.Rect(0, 0, 256, 256))
	{
		for y := range 256 {
			for x := range 256 {
				grad.SetRGBA(x, y, color.RGBA{0x00, uint8(x), uint8(y), 0xFF})
			}
		}
	}

	rgba := image.NewNRGBA(disc.Bounds())
	draw.Draw(rgba, rgba.Bounds(), disc, image.Point{}, draw.Src)
	draw.DrawMask(rgba, rgba.Bounds(), grad, image.Point{}, glyphs, image.Point{}, draw.Over)

	rgb := image.NewRGBA(grad.Bounds())
	draw.Draw(rgb, rgb.Bounds(), grad, image.Point{}, draw.Src)
	draw.DrawMask(rgb, rgb.Bounds(), image.White, image.Point{}, glyphs, image.Point{}, draw.Over)

	gray := image.NewGray(grad.Bounds())
	draw.Draw(gray, gray.Bounds(), rgb, image.Point{}, draw.Src)

	// Index 0 is fully transparent green. png2webp ignores palette alpha, so
	// it should come out green, not white.
	paletted := image.NewPaletted(grad.Bounds(), color.Palette{
		color.NRGBA{0x00, 0xC0, 0x00, 0x00},
		color.NRGBA{0x20, 0x20, 0xA0, 0xFF},
	})
	{
		b := paletted.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if glyphs.AlphaAt(x, y).A >= 0x80 {
					paletted.SetColorIndex(x, y, 1)
				}
			}
		}
	}

	for _, sample := range []struct {
		name string
		m    image.Image
	}{
		{"rgba.png", rgba},
		{"rgb.png", rgb},
		{"gray.png", gray},
		{"paletted.png", paletted},
	} {
		if err := do(sample.name, sample.m); err != nil {
			return err
		}
	}

	// Go's image/png encoder never writes these two, so they are written as
	// raw chunks. The gray+alpha glyphs should come out over white. The RGB
	// image keys out pure red, which should stay red.
	grayAlpha := make([]byte, 0, 2*256*256)
	keyed := make([]byte, 0, 3*256*256)
	for y := range 256 {
		for x := range 256 {
			grayAlpha = append(grayAlpha, gray.GrayAt(x, y).Y, glyphs.AlphaAt(x, y).A)
			if glyphs.AlphaAt(x, y).A >= 0x80 {
				keyed = append(keyed, 0xFF, 0x00, 0x00)
			} else {
				keyed = append(keyed, 0x00, uint8(x), uint8(y))
			}
		}
	}
	if err := doRaw("gray-alpha.png", 256, 256, 4, grayAlpha, nil); err != nil {
		return err
	}
	return doRaw("rgb-trns.png", 256, 256, 2, keyed, []byte{0x00, 0xFF, 0x00, 0x00, 0x00, 0x00})
}

func do(name string, m image.Image) error {
	f, err := os.Create(filepath.Join(dstDirName, name))
	if err != nil {
		return fmt.Errorf("os.Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, m); err != nil {
		return fmt.Errorf("png.Encode: %v", err)
	}
	return nil
}

// doRaw writes an 8-bit, non-interlaced PNG with the given IHDR color type.
// A non-nil trns is written as a tRNS chunk.
func doRaw(name string, width int, height int, colorType uint8, pix []byte, trns []byte) error {
	idat := &bytes.Buffer{}
	zw := zlib.NewWriter(idat)
	stride := len(pix) / height
	for y := range height {
		zw.Write([]byte{0x00})
		zw.Write(pix[y*stride : (y+1)*stride])
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zlib: %v", err)
	}

	ihdr := binary.BigEndian.AppendUint32(nil, uint32(width))
	ihdr = binary.BigEndian.AppendUint32(ihdr, uint32(height))
	ihdr = append(ihdr, 8, colorType, 0, 0, 0)

	b := []byte("\x89PNG\r\n\x1a\n")
	b = appendChunk(b, "IHDR", ihdr)
	if trns != nil {
		b = appendChunk(b, "tRNS", trns)
	}
	b = appendChunk(b, "IDAT", idat.Bytes())
	b = appendChunk(b, "IEND", nil)

	if err := os.WriteFile(filepath.Join(dstDirName, name), b, 0666); err != nil {
		return fmt.Errorf("os.WriteFile: %v", err)
	}
	return nil
}

func appendChunk(b []byte, typ string, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, typ...)
	b = append(b, data...)
	return binary.BigEndian.AppendUint32(b, crc32.ChecksumIEEE(append([]byte(typ), data...)))
}
