// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dbi

import (
	"context"
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultSPIOpts is the recommended default options.
var DefaultSPIOpts = SPIOpts{
	Frequency: 40 * physic.MegaHertz,
}

// SPIOpts defines the options for the SPI bus.
type SPIOpts struct {
	// Frequency is the SPI clock. Most ILI9341 and ST7789 boards work at
	// 40MHz with short wires.
	Frequency physic.Frequency
	// MaxTxSize limits the size of a single transfer. When 0, the limit
	// reported by the port is used, or 4096 bytes if it has none.
	MaxTxSize int
}

// SPI is a 4-wire SPI display bus: the D/C pin is Low while the command byte
// is clocked and High for parameters and pixel data.
type SPI struct {
	c       spi.Conn
	dc      gpio.PinOut
	scratch []byte
}

// NewSPI returns a SPI bus on port p using dc as data/command select.
//
// # Wiring
//
// Connect SDA to SPI_MOSI, SCL to SPI_CLK, CS to SPI_CS and DC to any GPIO.
// The controller does not drive MISO.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *SPIOpts) (*SPI, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("dbi: a data/command pin is required")
	}
	if opts == nil {
		opts = &DefaultSPIOpts
	}
	f := opts.Frequency
	if f == 0 {
		f = DefaultSPIOpts.Frequency
	}
	if err := dc.Out(gpio.High); err != nil {
		return nil, err
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("dbi: %w", err)
	}
	size := opts.MaxTxSize
	if size <= 0 {
		size = 4096
		if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
			size = l.MaxTxSize()
		}
	}
	return &SPI{c: c, dc: dc, scratch: make([]byte, size)}, nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("dbi.SPI{%s, %s}", s.c, s.dc)
}

// SendCommand implements Interface and AsyncInterface.
func (s *SPI) SendCommand(cmd byte, args []byte) error {
	eh := errorHandler{s: s}
	eh.dcOut(gpio.Low)
	eh.tx([]byte{cmd})
	if len(args) != 0 {
		eh.dcOut(gpio.High)
		eh.tx(args)
	}
	return eh.err
}

// SendPixels implements Interface.
func (s *SPI) SendPixels(p Pixels) error {
	w := p.Size()
	per := len(s.scratch) / w
	if per == 0 {
		return fmt.Errorf("dbi: pixel size %d exceeds transfer size %d", w, len(s.scratch))
	}
	eh := errorHandler{s: s}
	eh.dcOut(gpio.High)
	for i, l := 0, p.Len(); i < l && eh.err == nil; i += per {
		n := min(per, l-i)
		for j := 0; j < n; j++ {
			p.Put(i+j, s.scratch[j*w:(j+1)*w])
		}
		eh.tx(s.scratch[:n*w])
	}
	return eh.err
}

// SendRepeatedPixel implements Interface.
func (s *SPI) SendRepeatedPixel(pixel []byte, count int) error {
	w := len(pixel)
	if w == 0 || count <= 0 {
		return nil
	}
	per := len(s.scratch) / w
	if per == 0 {
		return fmt.Errorf("dbi: pixel size %d exceeds transfer size %d", w, len(s.scratch))
	}
	fill := min(per, count)
	for j := 0; j < fill; j++ {
		copy(s.scratch[j*w:], pixel)
	}
	eh := errorHandler{s: s}
	eh.dcOut(gpio.High)
	for left := count; left > 0 && eh.err == nil; left -= fill {
		eh.tx(s.scratch[:min(fill, left)*w])
	}
	return eh.err
}

// SendPixelsFromBuffer implements AsyncInterface.
//
// The transfer is split at the port's maximum transfer size; ctx is checked
// between chunks.
func (s *SPI) SendPixelsFromBuffer(ctx context.Context, pixels []byte) error {
	eh := errorHandler{s: s}
	eh.dcOut(gpio.High)
	for len(pixels) != 0 && eh.err == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(len(pixels), len(s.scratch))
		eh.tx(pixels[:n])
		pixels = pixels[n:]
	}
	return eh.err
}

// errorHandler is a wrapper for error management.
type errorHandler struct {
	s   *SPI
	err error
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.s.dc.Out(l)
}

func (eh *errorHandler) tx(w []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.s.c.Tx(w, nil)
}

var _ Interface = &SPI{}
var _ AsyncInterface = &SPI{}
