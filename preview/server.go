// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview streams the output of an emulated panel over HTTP.
//
// A Server is a dcssim.FrameSink. Each HTTP client receives the current frame
// and then a new one after every change, as a "multipart/x-mixed-replace"
// stream, also known as MJPEG. Browsers display it in an <img> tag.
//
// PNG is used by default since it renders flat computer graphics exactly.
// JPEG can be selected with Options.Format or per client with the "format"
// URL parameter ("?format=png", "?format=jpeg").
package preview

import (
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"

	"golang.org/x/image/draw"

	"github.com/GermanBionicSystems/mipidsi/dcssim"
)

// Options for a Server.
type Options struct {
	// Size of the first frame. It is replaced by the size of the frames
	// received. Defaults to 1x1.
	Size image.Point
	// Format is the image format sent to clients that do not request one.
	Format ImageFormat
	// PNGCompression defaults to png.DefaultCompression.
	PNGCompression png.CompressionLevel
	// JPEGQuality defaults to 90.
	JPEGQuality int
}

// Server is an http.Handler streaming the frames it receives.
//
// It is safe for concurrent use.
type Server struct {
	defaultFormat ImageFormat
	pngLevel      png.CompressionLevel
	jpegQuality   int

	mu      sync.Mutex
	frame   *image.RGBA
	seq     uint64
	clients map[*client]struct{}
	// encoded caches the current frame per format.
	encoded map[ImageFormat][]byte
}

// New returns a Server. opts may be nil.
func New(opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}
	size := opts.Size
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(1, 1)
	}
	q := opts.JPEGQuality
	if q <= 0 || q > 100 {
		q = 90
	}
	frame := image.NewRGBA(image.Rectangle{Max: size})
	// Make the initial frame opaque.
	draw.Draw(frame, frame.Rect, image.Black, image.Point{}, draw.Src)
	return &Server{
		defaultFormat: opts.Format,
		pngLevel:      opts.PNGCompression,
		jpegQuality:   q,
		frame:         frame,
		clients:       map[*client]struct{}{},
		encoded:       map[ImageFormat][]byte{},
	}
}

func (s *Server) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("preview.Server{%v, %d clients}", s.frame.Rect.Size(), len(s.clients))
}

// Frame implements dcssim.FrameSink. Only dirty is copied unless the frame
// size changed.
func (s *Server) Frame(img *image.RGBA, dirty image.Rectangle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame.Rect != img.Rect {
		s.frame = image.NewRGBA(img.Rect)
		dirty = img.Rect
	}
	draw.Draw(s.frame, dirty, img, dirty.Min, draw.Src)
	s.seq++
	s.invalidateLocked()
	return nil
}

// Snapshot returns a copy of the current frame and its sequence number,
// incremented on each Frame call.
func (s *Server) Snapshot() (*image.RGBA, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := image.NewRGBA(s.frame.Rect)
	copy(img.Pix, s.frame.Pix)
	return img, s.seq
}

// Halt terminates all running client requests asynchronously.
func (s *Server) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
}

var _ dcssim.FrameSink = &Server{}
var _ http.Handler = &Server{}
