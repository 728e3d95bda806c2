// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcs

import "github.com/GermanBionicSystems/mipidsi/options"

// Instructions.
const (
	InstrNop              byte = 0x00
	InstrSoftReset        byte = 0x01
	InstrEnterSleepMode   byte = 0x10
	InstrExitSleepMode    byte = 0x11
	InstrEnterPartialMode byte = 0x12
	InstrEnterNormalMode  byte = 0x13
	InstrExitInvertMode   byte = 0x20
	InstrEnterInvertMode  byte = 0x21
	InstrSetDisplayOff    byte = 0x28
	InstrSetDisplayOn     byte = 0x29
	InstrSetColumnAddress byte = 0x2A
	InstrSetPageAddress   byte = 0x2B
	InstrWriteMemoryStart byte = 0x2C
	InstrSetScrollArea    byte = 0x33
	InstrTearingEffectOff byte = 0x34
	InstrTearingEffectOn  byte = 0x35
	InstrSetAddressMode   byte = 0x36
	InstrSetScrollStart   byte = 0x37
	InstrExitIdleMode     byte = 0x38
	InstrEnterIdleMode    byte = 0x39
	InstrSetPixelFormat   byte = 0x3A
)

// simple is a command without parameters.
type simple byte

func (s simple) Instruction() byte       { return byte(s) }
func (simple) FillParams(buf []byte) int { return 0 }

// Parameterless commands.
var (
	Nop              Command = simple(InstrNop)
	SoftReset        Command = simple(InstrSoftReset)
	EnterSleepMode   Command = simple(InstrEnterSleepMode)
	ExitSleepMode    Command = simple(InstrExitSleepMode)
	EnterPartialMode Command = simple(InstrEnterPartialMode)
	EnterNormalMode  Command = simple(InstrEnterNormalMode)
	SetDisplayOff    Command = simple(InstrSetDisplayOff)
	SetDisplayOn     Command = simple(InstrSetDisplayOn)
	WriteMemoryStart Command = simple(InstrWriteMemoryStart)
	ExitIdleMode     Command = simple(InstrExitIdleMode)
	EnterIdleMode    Command = simple(InstrEnterIdleMode)
)

// SetInvertMode enables or disables color inversion.
type SetInvertMode bool

// Instruction implements Command.
func (s SetInvertMode) Instruction() byte {
	if s {
		return InstrEnterInvertMode
	}
	return InstrExitInvertMode
}

// FillParams implements Command.
func (SetInvertMode) FillParams(buf []byte) int { return 0 }

// SetColumnAddress sets the inclusive column range of the address window.
type SetColumnAddress struct {
	Start, End uint16
}

// Instruction implements Command.
func (SetColumnAddress) Instruction() byte { return InstrSetColumnAddress }

// FillParams implements Command.
func (s SetColumnAddress) FillParams(buf []byte) int {
	return putRange(buf, s.Start, s.End)
}

// SetPageAddress sets the inclusive row range of the address window.
type SetPageAddress struct {
	Start, End uint16
}

// Instruction implements Command.
func (SetPageAddress) Instruction() byte { return InstrSetPageAddress }

// FillParams implements Command.
func (s SetPageAddress) FillParams(buf []byte) int {
	return putRange(buf, s.Start, s.End)
}

func putRange(buf []byte, start, end uint16) int {
	buf[0] = byte(start >> 8)
	buf[1] = byte(start)
	buf[2] = byte(end >> 8)
	buf[3] = byte(end)
	return 4
}

// SetScrollArea defines the vertical scrolling area.
//
// The three fields must add up to the framebuffer height.
type SetScrollArea struct {
	TopFixed    uint16
	Scroll      uint16
	BottomFixed uint16
}

// Instruction implements Command.
func (SetScrollArea) Instruction() byte { return InstrSetScrollArea }

// FillParams implements Command.
func (s SetScrollArea) FillParams(buf []byte) int {
	putRange(buf, s.TopFixed, s.Scroll)
	buf[4] = byte(s.BottomFixed >> 8)
	buf[5] = byte(s.BottomFixed)
	return 6
}

// SetScrollStart sets the first row of the vertical scrolling area.
type SetScrollStart uint16

// Instruction implements Command.
func (SetScrollStart) Instruction() byte { return InstrSetScrollStart }

// FillParams implements Command.
func (s SetScrollStart) FillParams(buf []byte) int {
	buf[0] = byte(s >> 8)
	buf[1] = byte(s)
	return 2
}

// SetTearingEffect configures the TE output line.
type SetTearingEffect options.TearingEffect

// Instruction implements Command.
func (s SetTearingEffect) Instruction() byte {
	if options.TearingEffect(s) == options.TearingOff {
		return InstrTearingEffectOff
	}
	return InstrTearingEffectOn
}

// FillParams implements Command.
func (s SetTearingEffect) FillParams(buf []byte) int {
	switch options.TearingEffect(s) {
	case options.TearingVertical:
		buf[0] = 0
		return 1
	case options.TearingHorizontalAndVertical:
		buf[0] = 1
		return 1
	}
	return 0
}
