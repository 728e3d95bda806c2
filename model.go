// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipidsi

import (
	"context"
	"fmt"
	"image"

	"github.com/GermanBionicSystems/mipidsi/dbi"
	"github.com/GermanBionicSystems/mipidsi/dcs"
	"github.com/GermanBionicSystems/mipidsi/options"
)

// Model describes a display controller.
type Model struct {
	Name string
	// FramebufferSize is the size of the controller memory in its native
	// orientation.
	FramebufferSize image.Point
	// Format is the pixel format configured by Init.
	Format dbi.Format
	// Init is the power-on sequence, run after reset.
	Init []Step
}

func (m *Model) String() string {
	return fmt.Sprintf("%s(%dx%d %s)", m.Name, m.FramebufferSize.X, m.FramebufferSize.Y, m.Format)
}

type stepKind uint8

const (
	stepCommand stepKind = iota
	stepRaw
	stepDelay
	stepAddressMode
	stepInvertMode
	stepPixelFormat
)

// Step is one entry of an initialization sequence.
type Step struct {
	kind   stepKind
	cmd    dcs.Command
	instr  byte
	params []byte
	us     uint32
}

// Cmd sends a command with fixed parameters.
func Cmd(c dcs.Command) Step {
	return Step{kind: stepCommand, cmd: c}
}

// Raw writes a vendor register.
func Raw(instr byte, params ...byte) Step {
	if len(params) > dcs.MaxParams {
		panic(fmt.Sprintf("mipidsi: %d parameters for register %#02x exceed %d", len(params), instr, dcs.MaxParams))
	}
	return Step{kind: stepRaw, instr: instr, params: params}
}

// DelayUs waits for us microseconds.
func DelayUs(us uint32) Step {
	return Step{kind: stepDelay, us: us}
}

// AddressMode sends SetAddressMode as derived from the options.
func AddressMode() Step {
	return Step{kind: stepAddressMode}
}

// InvertMode sends SetInvertMode as configured in the options.
func InvertMode() Step {
	return Step{kind: stepInvertMode}
}

// PixelFormat sends SetPixelFormat matching the model format on both the
// DPI and DBI sides.
func PixelFormat() Step {
	return Step{kind: stepPixelFormat}
}

func (s Step) String() string {
	switch s.kind {
	case stepCommand:
		return fmt.Sprintf("Cmd(%#02x)", s.cmd.Instruction())
	case stepRaw:
		return fmt.Sprintf("Raw(%#02x, % x)", s.instr, s.params)
	case stepDelay:
		return fmt.Sprintf("DelayUs(%d)", s.us)
	case stepAddressMode:
		return "AddressMode()"
	case stepInvertMode:
		return "InvertMode()"
	default:
		return "PixelFormat()"
	}
}

// runInit runs the model's sequence. The first error aborts it and is
// returned as is.
func runInit(ctx context.Context, di dcs.Sender, delay Delayer, m *Model, o *options.ModelOptions) (dcs.SetAddressMode, error) {
	madctl := dcs.AddressModeFrom(o)
	for _, s := range m.Init {
		var err error
		switch s.kind {
		case stepCommand:
			err = dcs.Write(di, s.cmd)
		case stepRaw:
			err = dcs.WriteRaw(di, s.instr, s.params)
		case stepDelay:
			err = delay.DelayUs(ctx, s.us)
		case stepAddressMode:
			err = dcs.Write(di, madctl)
		case stepInvertMode:
			err = dcs.Write(di, dcs.SetInvertMode(o.InvertColors))
		case stepPixelFormat:
			err = dcs.Write(di, dcs.SetPixelFormat(dcs.WithAll(m.Format.BitsPerPixel())))
		}
		if err != nil {
			return 0, err
		}
	}
	return madctl, nil
}
