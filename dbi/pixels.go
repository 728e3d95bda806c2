// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dbi

import (
	"fmt"
	"image"
	"image/color"

	"github.com/GermanBionicSystems/mipidsi/dcs"
)

// Pixels is a sequence of fixed width pixel values.
type Pixels interface {
	// Len is the number of pixels.
	Len() int
	// Size is the number of bytes of one serialized pixel.
	Size() int
	// Put serializes pixel i into dst[:Size()].
	Put(i int, dst []byte)
}

// Format is the color encoding of pixels on the bus.
type Format uint8

// Supported formats.
const (
	// RGB565 is 16 bits per pixel, big endian: RRRRRGGG GGGBBBBB.
	RGB565 Format = iota
	// RGB666 is 18 bits per pixel sent as 3 bytes, each channel in the
	// upper 6 bits.
	RGB666
)

func (f Format) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case RGB666:
		return "RGB666"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Size returns the number of bytes per pixel.
func (f Format) Size() int {
	if f == RGB666 {
		return 3
	}
	return 2
}

// BitsPerPixel returns the matching COLMOD depth.
func (f Format) BitsPerPixel() dcs.BitsPerPixel {
	if f == RGB666 {
		return dcs.Eighteen
	}
	return dcs.Sixteen
}

// Encode serializes c into dst[:f.Size()].
func (f Format) Encode(dst []byte, c color.Color) {
	r, g, b, _ := c.RGBA()
	f.encode(dst, byte(r>>8), byte(g>>8), byte(b>>8))
}

func (f Format) encode(dst []byte, r, g, b byte) {
	if f == RGB666 {
		dst[0] = r & 0xfc
		dst[1] = g & 0xfc
		dst[2] = b & 0xfc
		return
	}
	v := uint16(r&0xf8)<<8 | uint16(g&0xfc)<<3 | uint16(b)>>3
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}

// Decode is the inverse of Encode, expanding each channel to 8 bits.
func (f Format) Decode(src []byte) color.RGBA {
	if f == RGB666 {
		return color.RGBA{R: src[0] | src[0]>>6, G: src[1] | src[1]>>6, B: src[2] | src[2]>>6, A: 0xff}
	}
	v := uint16(src[0])<<8 | uint16(src[1])
	r := byte(v>>11) << 3
	g := byte(v>>5) << 2
	b := byte(v) << 3
	return color.RGBA{R: r | r>>5, G: g | g>>6, B: b | b>>5, A: 0xff}
}

// Model returns a color.Model that quantizes to the format.
func (f Format) Model() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		var buf [3]byte
		f.Encode(buf[:], c)
		return f.Decode(buf[:])
	})
}

// Colors adapts a slice of colors to Pixels.
type Colors struct {
	Format Format
	Colors []color.Color
}

// Len implements Pixels.
func (c Colors) Len() int { return len(c.Colors) }

// Size implements Pixels.
func (c Colors) Size() int { return c.Format.Size() }

// Put implements Pixels.
func (c Colors) Put(i int, dst []byte) { c.Format.Encode(dst, c.Colors[i]) }

// Raw is a run of already serialized pixels.
type Raw struct {
	Data  []byte
	Width int
}

// Len implements Pixels. It panics if Width is not positive.
func (r Raw) Len() int {
	if r.Width <= 0 {
		panic(fmt.Sprintf("dbi: invalid Raw pixel width %d", r.Width))
	}
	return len(r.Data) / r.Width
}

// Size implements Pixels.
func (r Raw) Size() int { return r.Width }

// Put implements Pixels.
func (r Raw) Put(i int, dst []byte) { copy(dst, r.Data[i*r.Width:(i+1)*r.Width]) }

// RGBA serializes a rectangle of an image.RGBA, row by row.
type RGBA struct {
	Format Format
	// Pix starts at the top left pixel of the rectangle.
	Pix    []uint8
	Stride int
	W, H   int
}

// FromImage returns the pixels of img inside r, which must be within
// img.Bounds().
func FromImage(f Format, img *image.RGBA, r image.Rectangle) RGBA {
	return RGBA{
		Format: f,
		Pix:    img.Pix[img.PixOffset(r.Min.X, r.Min.Y):],
		Stride: img.Stride,
		W:      r.Dx(),
		H:      r.Dy(),
	}
}

// Len implements Pixels.
func (p RGBA) Len() int { return p.W * p.H }

// Size implements Pixels.
func (p RGBA) Size() int { return p.Format.Size() }

// Put implements Pixels.
func (p RGBA) Put(i int, dst []byte) {
	o := (i/p.W)*p.Stride + (i%p.W)*4
	p.Format.encode(dst, p.Pix[o], p.Pix[o+1], p.Pix[o+2])
}
