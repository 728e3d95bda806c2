// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dbi

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBufferOverflow is returned when pixel data does not fit in the
	// remaining staging buffer. Flush and retry.
	ErrBufferOverflow = errors.New("dbi: buffer overflow")
	// ErrMaxOperationsReached is returned when the operation queue is full.
	// Flush and retry.
	ErrMaxOperationsReached = errors.New("dbi: maximum number of operations reached")
)

// span is a region of the staging buffer waiting to be transferred.
type span struct {
	off, n int
}

// Buffered is an Interface that stages pixel data in a caller owned buffer
// and transfers it on Flush through an AsyncInterface.
//
// Commands are sent immediately. Pixel writes are appended to the buffer and
// queued; Flush sends them in the order they were queued. Since the
// controller address window is set by commands, callers must Flush before
// changing the window if pixel data for the previous window is pending.
// mipidsi.Display does so before every command it sends.
//
// A failed SendPixels or SendRepeatedPixel leaves the buffer and the queue
// unchanged.
//
// Buffered is not safe for concurrent use.
type Buffered struct {
	di  AsyncInterface
	buf []byte
	// cursor is the offset of the first free byte in buf.
	cursor int
	// ops is a ring of pending spans; head is the oldest.
	ops        []span
	head, size int
}

// NewBuffered returns a Buffered using buf as staging area with room for at
// most maxOps pending pixel writes.
func NewBuffered(di AsyncInterface, buf []byte, maxOps int) *Buffered {
	if maxOps <= 0 {
		panic(fmt.Sprintf("dbi: invalid maximum number of operations %d", maxOps))
	}
	return &Buffered{
		di:  di,
		buf: buf,
		ops: make([]span, maxOps),
	}
}

func (b *Buffered) String() string {
	return fmt.Sprintf("dbi.Buffered{%d/%d bytes, %d/%d ops}", b.cursor, len(b.buf), b.size, len(b.ops))
}

// SendCommand implements Interface. The command is not queued.
func (b *Buffered) SendCommand(cmd byte, args []byte) error {
	return b.di.SendCommand(cmd, args)
}

// SendPixels implements Interface by queuing the serialized pixels.
func (b *Buffered) SendPixels(p Pixels) error {
	w, l := p.Size(), p.Len()
	n, err := b.reserve(l, w)
	if err != nil || n == 0 {
		return err
	}
	dst := b.buf[b.cursor : b.cursor+n]
	for i := 0; i < l; i++ {
		p.Put(i, dst[i*w:(i+1)*w])
	}
	b.push(n)
	return nil
}

// SendRepeatedPixel implements Interface by queuing count copies of pixel.
func (b *Buffered) SendRepeatedPixel(pixel []byte, count int) error {
	if count < 0 {
		return fmt.Errorf("dbi: invalid pixel count %d", count)
	}
	n, err := b.reserve(count, len(pixel))
	if err != nil || n == 0 {
		return err
	}
	dst := b.buf[b.cursor : b.cursor+n]
	// Double the filled prefix until the region is full.
	filled := copy(dst, pixel)
	for filled < n {
		filled += copy(dst[filled:], dst[:filled])
	}
	b.push(n)
	return nil
}

// reserve checks that count pixels of size bytes and one queue slot are
// available and returns the byte count. It never mutates state.
func (b *Buffered) reserve(count, size int) (int, error) {
	if count == 0 || size == 0 {
		return 0, nil
	}
	// Compare without multiplying so huge counts cannot wrap around.
	if count > (len(b.buf)-b.cursor)/size {
		return 0, ErrBufferOverflow
	}
	if b.size == len(b.ops) {
		return 0, ErrMaxOperationsReached
	}
	return count * size, nil
}

func (b *Buffered) push(n int) {
	b.ops[(b.head+b.size)%len(b.ops)] = span{off: b.cursor, n: n}
	b.size++
	b.cursor += n
}

// Flush implements Flusher.
//
// Spans are sent oldest first. On error the failed span and every later one
// stay queued, so calling Flush again resumes where it stopped. The buffer is
// reclaimed only once the queue is empty.
func (b *Buffered) Flush(ctx context.Context) error {
	for b.size > 0 {
		s := b.ops[b.head]
		if err := b.di.SendPixelsFromBuffer(ctx, b.buf[s.off:s.off+s.n]); err != nil {
			return err
		}
		b.ops[b.head] = span{}
		b.head = (b.head + 1) % len(b.ops)
		b.size--
	}
	b.head = 0
	b.cursor = 0
	return nil
}

// Len returns the number of pending pixel writes.
func (b *Buffered) Len() int {
	return b.size
}

// Buffered returns the number of staged bytes.
func (b *Buffered) Buffered() int {
	return b.cursor
}

// Available returns the number of free bytes in the staging buffer.
func (b *Buffered) Available() int {
	return len(b.buf) - b.cursor
}

// Release returns the wrapped interface and the staging buffer. Pending data
// is dropped.
func (b *Buffered) Release() (AsyncInterface, []byte) {
	return b.di, b.buf
}

var _ Interface = &Buffered{}
var _ Flusher = &Buffered{}
