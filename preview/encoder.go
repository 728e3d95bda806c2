// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"sync"
)

// pngBuffers is shared by all PNG encoders.
type pngBuffers struct {
	pool sync.Pool
}

func (p *pngBuffers) Get() *png.EncoderBuffer {
	buf, _ := p.pool.Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBuffers) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var (
	pngMu       sync.Mutex
	pngBufs     pngBuffers
	pngEncoders = map[png.CompressionLevel]*png.Encoder{}
)

// pngEncoder returns the encoder for level.
func pngEncoder(level png.CompressionLevel) *png.Encoder {
	pngMu.Lock()
	defer pngMu.Unlock()
	enc := pngEncoders[level]
	if enc == nil {
		enc = &png.Encoder{CompressionLevel: level, BufferPool: &pngBufs}
		pngEncoders[level] = enc
	}
	return enc
}

// encodedPool recycles the encoded frames.
var encodedPool = sync.Pool{
	New: func() interface{} {
		return []byte(nil)
	},
}

// encodeLocked returns the current frame in format f, encoding it at most
// once per frame.
func (s *Server) encodeLocked(f ImageFormat) ([]byte, error) {
	if b, ok := s.encoded[f]; ok {
		return b, nil
	}
	buf := bytes.NewBuffer(encodedPool.Get().([]byte)[:0])
	var err error
	switch f {
	case JPEG:
		err = jpeg.Encode(buf, s.frame, &jpeg.Options{Quality: s.jpegQuality})
	default:
		err = pngEncoder(s.pngLevel).Encode(buf, s.frame)
	}
	if err != nil {
		return nil, err
	}
	s.encoded[f] = buf.Bytes()
	return buf.Bytes(), nil
}

// invalidateLocked drops the cached encodings and wakes up the clients.
func (s *Server) invalidateLocked() {
	for f, b := range s.encoded {
		//lint:ignore SA6002 b is a slice
		encodedPool.Put(b)
		delete(s.encoded, f)
	}
	for c := range s.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

// frameBytes returns a private copy of the encoded frame.
func (s *Server) frameBytes(f ImageFormat) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.encodeLocked(f)
	if err != nil {
		return nil, err
	}
	return append(encodedPool.Get().([]byte)[:0], b...), nil
}
