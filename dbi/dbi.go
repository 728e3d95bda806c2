// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dbi implements the display bus interface: the byte channel used to
// send DCS commands and pixel data to a display controller.
//
// Two flavors exist. An Interface sends pixels synchronously. An
// AsyncInterface only sends bulk pixel data from a caller owned buffer and may
// block for the duration of a DMA transfer; Buffered adapts it to Interface by
// staging pixels until Flush is called.
//
// SPI implements both over a periph.io SPI port with a data/command GPIO.
package dbi

import "context"

// Interface is a synchronous display bus.
type Interface interface {
	// SendCommand sends a command byte followed by its parameters.
	SendCommand(cmd byte, args []byte) error
	// SendPixels sends a run of pixels. WriteMemoryStart must have been sent
	// first.
	SendPixels(p Pixels) error
	// SendRepeatedPixel sends the already encoded pixel count times.
	SendRepeatedPixel(pixel []byte, count int) error
}

// AsyncInterface is a display bus with a blocking bulk transfer.
//
// SendCommand must not block on previous bulk transfers beyond their
// completion; it is used between initialization delays.
type AsyncInterface interface {
	SendCommand(cmd byte, args []byte) error
	// SendPixelsFromBuffer sends raw pixel bytes. It returns early with
	// ctx.Err() if ctx is done before the transfer completes, leaving the bus
	// in an undefined position within the stream.
	SendPixelsFromBuffer(ctx context.Context, pixels []byte) error
}

// Flusher is implemented by interfaces that defer pixel transfers.
type Flusher interface {
	// Flush transfers all pending pixel data in the order it was sent.
	Flush(ctx context.Context) error
}
