// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dbitest is meant to be used to test drivers over a fake display
// bus.
package dbitest

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/mipidsi/dbi"
)

// Kind is the kind of a recorded operation.
type Kind uint8

// Recorded operation kinds.
const (
	Command Kind = iota
	Pixels
	Delay
	Pin
)

func (k Kind) String() string {
	switch k {
	case Command:
		return "Command"
	case Pixels:
		return "Pixels"
	case Delay:
		return "Delay"
	case Pin:
		return "Pin"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Op is one recorded operation.
type Op struct {
	Kind Kind
	// Cmd is the instruction for Command.
	Cmd byte
	// Data is the parameters for Command or the raw bytes for Pixels.
	Data []byte
	// Us is the duration in microseconds for Delay.
	Us uint32
	// Level is the output level for Pin.
	Level gpio.Level
}

func (o Op) String() string {
	switch o.Kind {
	case Command:
		return fmt.Sprintf("Command(%#02x, % x)", o.Cmd, o.Data)
	case Pixels:
		return fmt.Sprintf("Pixels(%d bytes)", len(o.Data))
	case Delay:
		return fmt.Sprintf("Delay(%dµs)", o.Us)
	default:
		return fmt.Sprintf("Pin(%s)", o.Level)
	}
}

// Cmd is a shorthand to build an expected Command operation.
func Cmd(cmd byte, data ...byte) Op {
	return Op{Kind: Command, Cmd: cmd, Data: data}
}

// Wait is a shorthand to build an expected Delay operation.
func Wait(us uint32) Op {
	return Op{Kind: Delay, Us: us}
}

// Out is a shorthand to build an expected Pin operation.
func Out(l gpio.Level) Op {
	return Op{Kind: Pin, Level: l}
}

// Record implements dbi.Interface, dbi.AsyncInterface, a delay source and a
// reset pin, and records every call in a single ordered log.
//
// It is not safe for concurrent use.
type Record struct {
	Ops []Op
	// Fail, when set, is consulted before an operation is recorded. A non-nil
	// result is returned to the caller and the operation is not recorded.
	Fail func(op Op) error
}

func (r *Record) String() string {
	return "record"
}

// SendCommand implements dbi.Interface.
func (r *Record) SendCommand(cmd byte, args []byte) error {
	return r.add(Op{Kind: Command, Cmd: cmd, Data: append([]byte(nil), args...)})
}

// SendPixels implements dbi.Interface.
func (r *Record) SendPixels(p dbi.Pixels) error {
	w := p.Size()
	data := make([]byte, p.Len()*w)
	for i := 0; i < p.Len(); i++ {
		p.Put(i, data[i*w:(i+1)*w])
	}
	return r.add(Op{Kind: Pixels, Data: data})
}

// SendRepeatedPixel implements dbi.Interface.
func (r *Record) SendRepeatedPixel(pixel []byte, count int) error {
	data := make([]byte, 0, len(pixel)*count)
	for i := 0; i < count; i++ {
		data = append(data, pixel...)
	}
	return r.add(Op{Kind: Pixels, Data: data})
}

// SendPixelsFromBuffer implements dbi.AsyncInterface.
func (r *Record) SendPixelsFromBuffer(ctx context.Context, pixels []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.add(Op{Kind: Pixels, Data: append([]byte(nil), pixels...)})
}

// DelayUs records a delay without sleeping.
func (r *Record) DelayUs(ctx context.Context, us uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.add(Op{Kind: Delay, Us: us})
}

// Out records a reset pin level.
func (r *Record) Out(l gpio.Level) error {
	return r.add(Op{Kind: Pin, Level: l})
}

// Reset clears the log.
func (r *Record) Reset() {
	r.Ops = nil
}

// Filter returns the recorded operations of kind k.
func (r *Record) Filter(k Kind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}

func (r *Record) add(op Op) error {
	if r.Fail != nil {
		if err := r.Fail(op); err != nil {
			return err
		}
	}
	r.Ops = append(r.Ops, op)
	return nil
}

var _ dbi.Interface = &Record{}
var _ dbi.AsyncInterface = &Record{}
