// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dcssim emulates a MIPI DCS display controller in memory.
//
// A Panel decodes the command and pixel stream it receives as a dbi bus and
// renders the controller memory into an image. Registered FrameSinks are
// notified of every change, which permits developing display code on a host
// machine, with the output in a terminal or a browser.
//
// The emulation covers the standard DCS addressing, pixel format, inversion,
// sleep and display on/off commands. Vendor registers are accepted and
// ignored. Scrolling is not emulated.
package dcssim

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/mipidsi/dbi"
	"github.com/GermanBionicSystems/mipidsi/dcs"
)

// FrameSink receives the panel output.
type FrameSink interface {
	// Frame is called after each change with the full panel output and the
	// area that changed. img must not be retained after the call returns.
	Frame(img *image.RGBA, dirty image.Rectangle) error
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(img *image.RGBA, dirty image.Rectangle) error

// Frame implements FrameSink.
func (f FrameSinkFunc) Frame(img *image.RGBA, dirty image.Rectangle) error {
	return f(img, dirty)
}

// Panel is an emulated controller with a framebuffer of a fixed size. It
// implements dbi.Interface, dbi.AsyncInterface and can be used as a reset
// pin.
//
// The output is the framebuffer in the controller's native orientation, as
// seen on the glass. The glass is assumed to be RGB: setting the BGR bit of
// the address mode swaps red and blue.
//
// Panel is not safe for concurrent use.
type Panel struct {
	size  image.Point
	sinks []FrameSink

	// mem is the controller memory; out is what the glass shows.
	mem *image.RGBA
	out *image.RGBA

	madctl   dcs.SetAddressMode
	format   dbi.Format
	inverted bool
	sleeping bool
	on       bool

	// Address window in logical coordinates, inclusive.
	cs, ce, ps, pe int
	// Write cursor. writing is false until WriteMemoryStart.
	c, p    int
	writing bool
	// pend holds the bytes of an incomplete pixel.
	pend []byte
}

// New returns a Panel with a framebuffer of size, in the state following a
// hardware reset.
func New(size image.Point) *Panel {
	if size.X <= 0 || size.Y <= 0 {
		panic(fmt.Sprintf("dcssim: invalid framebuffer size %v", size))
	}
	r := image.Rectangle{Max: size}
	p := &Panel{size: size, mem: image.NewRGBA(r), out: image.NewRGBA(r)}
	p.reset()
	return p
}

func (p *Panel) String() string {
	return fmt.Sprintf("dcssim.Panel{%dx%d}", p.size.X, p.size.Y)
}

// AddSink registers s to receive the output.
func (p *Panel) AddSink(s FrameSink) {
	p.sinks = append(p.sinks, s)
}

// Image returns the current output. It is updated in place.
func (p *Panel) Image() *image.RGBA {
	return p.out
}

// Memory returns the controller memory, unaffected by inversion, sleep and
// display off.
func (p *Panel) Memory() *image.RGBA {
	return p.mem
}

// AddressMode returns the last SetAddressMode value received.
func (p *Panel) AddressMode() dcs.SetAddressMode {
	return p.madctl
}

// Format returns the pixel format selected by SetPixelFormat.
func (p *Panel) Format() dbi.Format {
	return p.format
}

// IsSleeping returns true while the controller is in sleep mode.
func (p *Panel) IsSleeping() bool {
	return p.sleeping
}

// IsOn returns true when the display is on and not sleeping.
func (p *Panel) IsOn() bool {
	return p.on && !p.sleeping
}

// IsInverted returns true when color inversion is enabled.
func (p *Panel) IsInverted() bool {
	return p.inverted
}

// Out implements the reset pin. A Low level resets the controller.
func (p *Panel) Out(l gpio.Level) error {
	if l == gpio.Low {
		p.reset()
		return p.refresh(p.out.Rect)
	}
	return nil
}

// SendCommand implements dbi.Interface and dbi.AsyncInterface.
func (p *Panel) SendCommand(cmd byte, args []byte) error {
	p.writing = false
	p.pend = p.pend[:0]
	switch cmd {
	case dcs.InstrSoftReset:
		p.reset()
	case dcs.InstrEnterSleepMode:
		p.sleeping = true
	case dcs.InstrExitSleepMode:
		p.sleeping = false
	case dcs.InstrExitInvertMode:
		p.inverted = false
	case dcs.InstrEnterInvertMode:
		p.inverted = true
	case dcs.InstrSetDisplayOff:
		p.on = false
	case dcs.InstrSetDisplayOn:
		p.on = true
	case dcs.InstrSetColumnAddress:
		s, e, err := decodeRange(cmd, args)
		if err != nil {
			return err
		}
		p.cs, p.ce = s, e
		return nil
	case dcs.InstrSetPageAddress:
		s, e, err := decodeRange(cmd, args)
		if err != nil {
			return err
		}
		p.ps, p.pe = s, e
		return nil
	case dcs.InstrWriteMemoryStart:
		p.c, p.p = p.cs, p.ps
		p.writing = true
		return nil
	case dcs.InstrSetAddressMode:
		if len(args) != 1 {
			return fmt.Errorf("dcssim: %#02x expects 1 parameter, got %d", cmd, len(args))
		}
		p.madctl = dcs.SetAddressMode(args[0])
	case dcs.InstrSetPixelFormat:
		if len(args) != 1 {
			return fmt.Errorf("dcssim: %#02x expects 1 parameter, got %d", cmd, len(args))
		}
		switch dcs.BitsPerPixel(args[0] & 0x7) {
		case dcs.Sixteen:
			p.format = dbi.RGB565
		case dcs.Eighteen:
			p.format = dbi.RGB666
		default:
			return fmt.Errorf("dcssim: unsupported pixel format %#02x", args[0])
		}
		return nil
	default:
		return nil
	}
	return p.refresh(p.out.Rect)
}

// SendPixels implements dbi.Interface.
func (p *Panel) SendPixels(px dbi.Pixels) error {
	w := px.Size()
	buf := make([]byte, px.Len()*w)
	for i := 0; i < px.Len(); i++ {
		px.Put(i, buf[i*w:(i+1)*w])
	}
	return p.write(buf)
}

// SendRepeatedPixel implements dbi.Interface.
func (p *Panel) SendRepeatedPixel(pixel []byte, count int) error {
	buf := make([]byte, 0, len(pixel)*count)
	for i := 0; i < count; i++ {
		buf = append(buf, pixel...)
	}
	return p.write(buf)
}

// SendPixelsFromBuffer implements dbi.AsyncInterface.
func (p *Panel) SendPixelsFromBuffer(ctx context.Context, pixels []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.write(pixels)
}

func (p *Panel) reset() {
	p.madctl = 0
	p.format = dbi.RGB666
	p.inverted = false
	p.sleeping = true
	p.on = false
	p.cs, p.ce = 0, p.size.X-1
	p.ps, p.pe = 0, p.size.Y-1
	p.writing = false
	p.pend = p.pend[:0]
}

// write stores pixel data at the write cursor.
func (p *Panel) write(b []byte) error {
	if !p.writing {
		return fmt.Errorf("dcssim: %d bytes of pixel data without WriteMemoryStart", len(b))
	}
	w := p.format.Size()
	dirty := image.Rectangle{}
	for len(b) != 0 {
		n := min(w-len(p.pend), len(b))
		p.pend = append(p.pend, b[:n]...)
		b = b[n:]
		if len(p.pend) < w {
			break
		}
		if pt, ok := p.locate(p.c, p.p); ok {
			p.mem.SetRGBA(pt.X, pt.Y, p.format.Decode(p.pend))
			dirty = dirty.Union(image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))})
		}
		p.pend = p.pend[:0]
		p.advance()
	}
	if dirty.Empty() {
		return nil
	}
	return p.refresh(dirty)
}

// advance moves the cursor column first, wrapping within the window.
func (p *Panel) advance() {
	if p.c < p.ce {
		p.c++
		return
	}
	p.c = p.cs
	if p.p < p.pe {
		p.p++
	} else {
		p.p = p.ps
	}
}

// locate maps a logical column and page to a memory position.
func (p *Panel) locate(c, pg int) (image.Point, bool) {
	x, y := c, pg
	if p.madctl.Has(dcs.RowColumnSwap) {
		x, y = pg, c
	}
	if p.madctl.Has(dcs.ColumnOrder) {
		x = p.size.X - 1 - x
	}
	if p.madctl.Has(dcs.RowOrder) {
		y = p.size.Y - 1 - y
	}
	pt := image.Pt(x, y)
	return pt, pt.In(p.mem.Rect)
}

// refresh renders r of the memory to the output and notifies the sinks.
func (p *Panel) refresh(r image.Rectangle) error {
	if !p.IsOn() {
		draw.Draw(p.out, r, image.Black, image.Point{}, draw.Src)
	} else {
		bgr := p.madctl.Has(dcs.BGROrder)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := p.mem.RGBAAt(x, y)
				if bgr {
					c.R, c.B = c.B, c.R
				}
				if p.inverted {
					c.R, c.G, c.B = ^c.R, ^c.G, ^c.B
				}
				c.A = 0xff
				p.out.SetRGBA(x, y, c)
			}
		}
	}
	for _, s := range p.sinks {
		if err := s.Frame(p.out, r); err != nil {
			return err
		}
	}
	return nil
}

func decodeRange(cmd byte, args []byte) (int, int, error) {
	if len(args) != 4 {
		return 0, 0, fmt.Errorf("dcssim: %#02x expects 4 parameters, got %d", cmd, len(args))
	}
	s := int(args[0])<<8 | int(args[1])
	e := int(args[2])<<8 | int(args[3])
	if e < s {
		return 0, 0, fmt.Errorf("dcssim: %#02x invalid range %d-%d", cmd, s, e)
	}
	return s, e, nil
}

var _ dbi.Interface = &Panel{}
var _ dbi.AsyncInterface = &Panel{}
