// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipidsi

import (
	"image"
	"strings"

	"github.com/GermanBionicSystems/mipidsi/dbi"
	"github.com/GermanBionicSystems/mipidsi/dcs"
)

// ili934x is shared by the ILI9341 and ILI9342C.
var ili934x = []Step{
	AddressMode(),
	Raw(0xB4, 0x00), // inversion control: line inversion
	InvertMode(),
	PixelFormat(),
	Cmd(dcs.EnterNormalMode),
	Cmd(dcs.ExitSleepMode),
	DelayUs(120_000),
	Cmd(dcs.SetDisplayOn),
}

// Supported controllers.
var (
	ILI9341Rgb565 = &Model{Name: "ILI9341", FramebufferSize: image.Pt(240, 320), Format: dbi.RGB565, Init: ili934x}
	ILI9341Rgb666 = &Model{Name: "ILI9341", FramebufferSize: image.Pt(240, 320), Format: dbi.RGB666, Init: ili934x}

	ILI9342CRgb565 = &Model{Name: "ILI9342C", FramebufferSize: image.Pt(320, 240), Format: dbi.RGB565, Init: ili934x}
	ILI9342CRgb666 = &Model{Name: "ILI9342C", FramebufferSize: image.Pt(320, 240), Format: dbi.RGB666, Init: ili934x}

	ST7735s = &Model{
		Name:            "ST7735s",
		FramebufferSize: image.Pt(132, 162),
		Format:          dbi.RGB565,
		Init: []Step{
			DelayUs(200_000),
			Cmd(dcs.ExitSleepMode),
			DelayUs(120_000),
			InvertMode(),
			Raw(0xB1, 0x05, 0x3A, 0x3A),                   // frame rate, normal mode
			Raw(0xB2, 0x05, 0x3A, 0x3A),                   // frame rate, idle mode
			Raw(0xB3, 0x05, 0x3A, 0x3A, 0x05, 0x3A, 0x3A), // frame rate, partial mode
			Raw(0xB4, 0b0000_0011),                        // inversion control
			Raw(0xC0, 0x62, 0x02, 0x04),                   // power control 1
			Raw(0xC1, 0xC0),                               // power control 2
			Raw(0xC2, 0x0D, 0x00),                         // power control 3
			Raw(0xC3, 0x8D, 0x6A),                         // power control 4
			Raw(0xC4, 0x8D, 0xEE),                         // power control 5
			Raw(0xC5, 0x0E),                               // VCOM
			Raw(0xE0, 0x10, 0x0E, 0x02, 0x03, 0x0E, 0x07, 0x02, 0x07, 0x0A, 0x12, 0x27, 0x37, 0x00, 0x0D, 0x0E, 0x10),
			Raw(0xE1, 0x10, 0x0E, 0x03, 0x03, 0x0F, 0x06, 0x02, 0x08, 0x0A, 0x13, 0x26, 0x36, 0x00, 0x0D, 0x0E, 0x10),
			PixelFormat(),
			AddressMode(),
			Cmd(dcs.SetDisplayOn),
		},
	}

	ST7789 = &Model{
		Name:            "ST7789",
		FramebufferSize: image.Pt(240, 320),
		Format:          dbi.RGB565,
		Init: []Step{
			DelayUs(150_000),
			Cmd(dcs.ExitSleepMode),
			DelayUs(10_000),
			AddressMode(),
			InvertMode(),
			PixelFormat(),
			DelayUs(10_000),
			Cmd(dcs.EnterNormalMode),
			DelayUs(10_000),
			Cmd(dcs.SetDisplayOn),
			// Data sent too soon after DISPON may be corrupted.
			DelayUs(120_000),
		},
	}

	// ST7789V uses the LilyGO T-Deck sequence. Most panels need
	// InvertColors.
	ST7789V = &Model{
		Name:            "ST7789V",
		FramebufferSize: image.Pt(240, 320),
		Format:          dbi.RGB565,
		Init: []Step{
			DelayUs(150_000),
			Cmd(dcs.ExitSleepMode),
			DelayUs(120_000),
			AddressMode(),
			Raw(dcs.InstrSetPixelFormat, 0x55),
			DelayUs(10_000),
			Raw(0xB2, 0x0C, 0x0C, 0x00, 0x33, 0x33), // porch
			Raw(0xB7, 0x75),                         // gate control
			Raw(0xBB, 0x1A),                         // VCOM
			Raw(0xC0, 0x2C),                         // LCM control
			Raw(0xC2, 0x01),                         // VDV and VRH enable
			Raw(0xC3, 0x13),                         // VRH
			Raw(0xC4, 0x20),                         // VDV
			Raw(0xC6, 0x0F),                         // frame rate
			Raw(0xD0, 0xA4, 0xA1),                   // power control 1
			Raw(0xE0, 0xD0, 0x0D, 0x14, 0x0D, 0x0D, 0x09, 0x38, 0x44, 0x4E, 0x3A, 0x17, 0x18, 0x2F, 0x30),
			Raw(0xE1, 0xD0, 0x09, 0x0F, 0x08, 0x07, 0x14, 0x37, 0x44, 0x4D, 0x38, 0x15, 0x16, 0x2C, 0x3E),
			InvertMode(),
			Cmd(dcs.SetColumnAddress{Start: 0, End: 239}),
			Cmd(dcs.SetPageAddress{Start: 0, End: 319}),
			PixelFormat(),
			DelayUs(10_000),
			Cmd(dcs.EnterNormalMode),
			DelayUs(120_000),
			Cmd(dcs.SetDisplayOn),
			DelayUs(120_000),
		},
	}

	GC9107 = &Model{
		Name:            "GC9107",
		FramebufferSize: image.Pt(128, 160),
		Format:          dbi.RGB565,
		Init: []Step{
			DelayUs(200_000),
			AddressMode(),
			Raw(0xB0, 0xC0),
			Raw(0xB2, 0x2F),
			Raw(0xB3, 0x03),
			Raw(0xB6, 0x19),
			Raw(0xB7, 0x01),
			Raw(0xAC, 0xCB),
			Raw(0xAB, 0x0E),
			Raw(0xB4, 0x04),
			Raw(0xA8, 0x19),
			PixelFormat(),
			Raw(0xB8, 0x08),
			Raw(0xE8, 0x24),
			Raw(0xE9, 0x48),
			Raw(0xEA, 0x22),
			Raw(0xC6, 0x30),
			Raw(0xC7, 0x18),
			Raw(0xF0, 0x1F, 0x28, 0x04, 0x3E, 0x2A, 0x2E, 0x20, 0x00, 0x0C, 0x06, 0x00, 0x1C, 0x1F, 0x0F),
			Raw(0xF1, 0x00, 0x2D, 0x2F, 0x3C, 0x6F, 0x1C, 0x0B, 0x00, 0x00, 0x00, 0x07, 0x0D, 0x11, 0x0F),
			InvertMode(),
			Cmd(dcs.ExitSleepMode),
			DelayUs(120_000),
			Cmd(dcs.SetDisplayOn),
		},
	}
)

// Models lists the supported controllers, keyed by a lower case name.
var Models = map[string]*Model{
	"ili9341":      ILI9341Rgb565,
	"ili9341-666":  ILI9341Rgb666,
	"ili9342c":     ILI9342CRgb565,
	"ili9342c-666": ILI9342CRgb666,
	"st7735s":      ST7735s,
	"st7789":       ST7789,
	"st7789v":      ST7789V,
	"gc9107":       GC9107,
}

// Lookup returns the model registered as name, case insensitive.
func Lookup(name string) (*Model, bool) {
	m, ok := Models[strings.ToLower(name)]
	return m, ok
}
