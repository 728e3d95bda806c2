// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dcs encodes MIPI Display Command Set instructions.
//
// A DCS command is one instruction byte followed by zero or more parameter
// bytes. Commands fill a caller supplied fixed size region so encoding never
// allocates:
//
//	var buf [dcs.MaxParams]byte
//	n := cmd.FillParams(buf[:])
//	err := di.SendCommand(cmd.Instruction(), buf[:n])
//
// Write does exactly that.
//
// # Datasheets
//
// MIPI Alliance Specification for Display Command Set, v1.02.00.
//
// ILI9341: https://cdn-shop.adafruit.com/datasheets/ILI9341.pdf
//
// ST7789: https://www.rhydolabz.com/documents/33/ST7789.pdf
package dcs

// MaxParams is the largest parameter payload of any command in this package
// and of any raw register write in the controller tables.
const MaxParams = 16

// Command is a DCS instruction with its parameters.
type Command interface {
	// Instruction returns the command byte.
	Instruction() byte
	// FillParams writes the parameters into buf and returns the number of
	// bytes written. buf must be at least MaxParams long.
	FillParams(buf []byte) int
}

// Sender is anything that can send a command byte with parameters.
type Sender interface {
	SendCommand(cmd byte, args []byte) error
}

// Write encodes c and sends it.
func Write(s Sender, c Command) error {
	var buf [MaxParams]byte
	n := c.FillParams(buf[:])
	return s.SendCommand(c.Instruction(), buf[:n])
}

// WriteRaw sends an instruction with literal parameters. It is used for
// vendor specific registers that have no typed command.
func WriteRaw(s Sender, instruction byte, params []byte) error {
	return s.SendCommand(instruction, params)
}
