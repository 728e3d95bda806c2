// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipidsi

import (
	"image"

	"github.com/GermanBionicSystems/mipidsi/dbi"
	"github.com/GermanBionicSystems/mipidsi/options"
)

// Pico1Offset is the window offset of the 135x240 panel of the Pimoroni
// Pico Display and the LilyGO T-Display on an ST7789.
func Pico1Offset(o options.Orientation) image.Point {
	switch o {
	case options.Orientation{Rotation: options.Deg0}:
		return image.Pt(52, 40)
	case options.Orientation{Rotation: options.Deg0, Mirrored: true}:
		return image.Pt(53, 40)
	case options.Orientation{Rotation: options.Deg90}:
		return image.Pt(40, 52)
	case options.Orientation{Rotation: options.Deg90, Mirrored: true}:
		return image.Pt(40, 53)
	case options.Orientation{Rotation: options.Deg180}:
		return image.Pt(53, 40)
	case options.Orientation{Rotation: options.Deg180, Mirrored: true}:
		return image.Pt(52, 40)
	case options.Orientation{Rotation: options.Deg270}:
		return image.Pt(40, 53)
	default:
		return image.Pt(40, 52)
	}
}

// Y80Offset is the window offset of a 240x240 panel on the 240x320
// framebuffer of an ST7789. The visible rows are at the top of the memory.
func Y80Offset(o options.Orientation) image.Point {
	switch o.Rotation {
	case options.Deg180:
		return image.Pt(0, 80)
	case options.Deg270:
		return image.Pt(80, 0)
	default:
		return image.Pt(0, 0)
	}
}

// NewST7789Pico1 returns a builder for the 135x240 ST7789 panel of the Pico
// Display.
func NewST7789Pico1(di dbi.Interface) *Builder[NoResetPin] {
	return NewBuilder(ST7789, di).DisplaySize(135, 240).OffsetFunc(Pico1Offset)
}

// NewST7789Square returns a builder for a 240x240 ST7789 panel.
func NewST7789Square(di dbi.Interface) *Builder[NoResetPin] {
	return NewBuilder(ST7789, di).DisplaySize(240, 240).OffsetFunc(Y80Offset)
}
