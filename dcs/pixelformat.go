// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcs

import "fmt"

// BitsPerPixel is a color depth code of the COLMOD register.
type BitsPerPixel uint8

// The six depth codes defined by DCS. Any other value is invalid.
const (
	Three      BitsPerPixel = 0b001
	Eight      BitsPerPixel = 0b010
	Twelve     BitsPerPixel = 0b011
	Sixteen    BitsPerPixel = 0b101
	Eighteen   BitsPerPixel = 0b110
	TwentyFour BitsPerPixel = 0b111
)

// Depths lists the valid depth codes in increasing order.
var Depths = [...]BitsPerPixel{Three, Eight, Twelve, Sixteen, Eighteen, TwentyFour}

func (b BitsPerPixel) String() string {
	switch b {
	case Three:
		return "3bpp"
	case Eight:
		return "8bpp"
	case Twelve:
		return "12bpp"
	case Sixteen:
		return "16bpp"
	case Eighteen:
		return "18bpp"
	case TwentyFour:
		return "24bpp"
	default:
		return fmt.Sprintf("BitsPerPixel(%#03b)", uint8(b))
	}
}

// PixelFormat is the pair of depths programmed with SetPixelFormat.
//
// DPI is the RGB (bus side) interface depth, DBI is the MCU (memory side)
// interface depth.
type PixelFormat struct {
	DPI BitsPerPixel
	DBI BitsPerPixel
}

// WithAll returns a PixelFormat using bpp on both interfaces.
func WithAll(bpp BitsPerPixel) PixelFormat {
	return PixelFormat{DPI: bpp, DBI: bpp}
}

// Byte packs the format as (DPI<<4)|DBI.
func (p PixelFormat) Byte() byte {
	return byte(p.DPI)<<4 | byte(p.DBI)
}

// SetPixelFormat is the COLMOD command.
type SetPixelFormat PixelFormat

// Instruction implements Command.
func (SetPixelFormat) Instruction() byte { return InstrSetPixelFormat }

// FillParams implements Command.
func (s SetPixelFormat) FillParams(buf []byte) int {
	buf[0] = PixelFormat(s).Byte()
	return 1
}
