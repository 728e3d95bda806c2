// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipidsi

import (
	"context"
	"fmt"
	"image"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/mipidsi/dbi"
	"github.com/GermanBionicSystems/mipidsi/dcs"
	"github.com/GermanBionicSystems/mipidsi/options"
)

// ResetPin drives the controller RESX line. The line is active low.
//
// gpio.PinOut implements it.
type ResetPin interface {
	Out(l gpio.Level) error
}

// NoResetPin is the ResetPin of a Builder that was not given one. The
// controller is then reset with the SoftReset command.
type NoResetPin struct{}

// Out implements ResetPin. It does nothing.
func (NoResetPin) Out(gpio.Level) error { return nil }

// Builder configures a display before it is initialized.
//
// The type parameter records whether a reset pin was provided.
type Builder[RST ResetPin] struct {
	model *Model
	di    dbi.Interface
	rst   RST
	opts  options.ModelOptions
}

// NewBuilder returns a builder for model on bus di covering the whole
// framebuffer.
func NewBuilder(model *Model, di dbi.Interface) *Builder[NoResetPin] {
	return &Builder[NoResetPin]{
		model: model,
		di:    di,
		opts:  options.FullSize(model.FramebufferSize),
	}
}

// WithResetPin returns a builder that hardware resets the controller through
// rst. The line must be High for the controller to run. It panics if rst is
// nil.
func WithResetPin[RST ResetPin](b *Builder[NoResetPin], rst RST) *Builder[RST] {
	if any(rst) == nil {
		panic("mipidsi: nil reset pin")
	}
	return &Builder[RST]{model: b.model, di: b.di, rst: rst, opts: b.opts}
}

// InvertColors sets color inversion. Many IPS panels need it.
func (b *Builder[RST]) InvertColors(invert bool) *Builder[RST] {
	b.opts.InvertColors = invert
	return b
}

// ColorOrder sets the subpixel order.
func (b *Builder[RST]) ColorOrder(c options.ColorOrder) *Builder[RST] {
	b.opts.ColorOrder = c
	return b
}

// Orientation sets the initial orientation.
func (b *Builder[RST]) Orientation(o options.Orientation) *Builder[RST] {
	b.opts.Orientation = o
	return b
}

// RefreshOrder sets the panel scan direction.
func (b *Builder[RST]) RefreshOrder(r options.RefreshOrder) *Builder[RST] {
	b.opts.RefreshOrder = r
	return b
}

// DisplaySize sets the visible size of the panel, in the controller's native
// orientation. It panics if w or h is zero.
func (b *Builder[RST]) DisplaySize(w, h int) *Builder[RST] {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("mipidsi: invalid display size %dx%d", w, h))
	}
	b.opts.DisplaySize = image.Pt(w, h)
	return b
}

// DisplayOffset sets the position of the panel within the framebuffer, in
// the controller's native orientation.
func (b *Builder[RST]) DisplayOffset(x, y int) *Builder[RST] {
	if x < 0 || y < 0 {
		panic(fmt.Sprintf("mipidsi: invalid display offset %d,%d", x, y))
	}
	b.opts.DisplayOffset = image.Pt(x, y)
	return b
}

// OffsetFunc sets an orientation dependent offset, in display coordinates.
// It replaces DisplayOffset.
func (b *Builder[RST]) OffsetFunc(f func(options.Orientation) image.Point) *Builder[RST] {
	b.opts.OffsetFunc = f
	return b
}

// Init resets and initializes the controller. The returned Display is awake.
//
// It panics, before touching the hardware, if the panel does not fit in the
// framebuffer.
//
// On error, no Display is returned and the controller state is unknown; call
// Init again on a new builder to retry. The error is an *InitError.
func (b *Builder[RST]) Init(ctx context.Context, delay Delayer) (*Display[RST], error) {
	b.checkGeometry()
	if _, ok := any(b.rst).(NoResetPin); ok {
		if err := dcs.Write(b.di, dcs.SoftReset); err != nil {
			return nil, &InitError{Source: SourceInterface, Err: err}
		}
	} else {
		if err := b.rst.Out(gpio.Low); err != nil {
			return nil, &InitError{Source: SourceResetPin, Err: err}
		}
		if err := delay.DelayUs(ctx, 10); err != nil {
			return nil, &InitError{Source: SourceResetPin, Err: err}
		}
		if err := b.rst.Out(gpio.High); err != nil {
			return nil, &InitError{Source: SourceResetPin, Err: err}
		}
	}
	madctl, err := runInit(ctx, b.di, delay, b.model, &b.opts)
	if err != nil {
		return nil, &InitError{Source: SourceInterface, Err: err}
	}
	return &Display[RST]{
		di:     b.di,
		model:  b.model,
		rst:    b.rst,
		opts:   b.opts,
		madctl: madctl,
	}, nil
}

func (b *Builder[RST]) checkGeometry() {
	fb := b.model.FramebufferSize
	size := b.opts.DisplaySize
	off := b.opts.DisplayOffset
	if b.opts.OffsetFunc != nil {
		// The function returns offsets in display coordinates.
		size = b.opts.Size()
		off = b.opts.Offset()
		if b.opts.Orientation.Rotation.IsLandscape() {
			fb = image.Pt(fb.Y, fb.X)
		}
	}
	if size.X+off.X > fb.X {
		panic(fmt.Sprintf("mipidsi: width %d + offset %d exceeds %s framebuffer width %d", size.X, off.X, b.model.Name, fb.X))
	}
	if size.Y+off.Y > fb.Y {
		panic(fmt.Sprintf("mipidsi: height %d + offset %d exceeds %s framebuffer height %d", size.Y, off.Y, b.model.Name, fb.Y))
	}
}

// Source identifies the failing component of an InitError.
type Source uint8

// Possible sources.
const (
	SourceInterface Source = iota
	SourceResetPin
)

func (s Source) String() string {
	if s == SourceResetPin {
		return "reset pin"
	}
	return "interface"
}

// InitError is returned by Builder.Init.
type InitError struct {
	Source Source
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("mipidsi: init failed on %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}
