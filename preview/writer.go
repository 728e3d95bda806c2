// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// newBoundary returns a random MIME multipart boundary compatible with RFC
// 2046 section 5.1.1.
func newBoundary() string {
	var b [30]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// partWriter writes an endless multipart stream. mime/multipart.Writer cannot
// be used since each part must be followed by its closing boundary line
// before the next part is known.
type partWriter struct {
	w        io.Writer
	boundary string
	started  bool
	buf      bytes.Buffer
}

func newPartWriter(w io.Writer) *partWriter {
	return &partWriter{w: w, boundary: newBoundary()}
}

// writePart writes one complete part. hdr is modified to hold the
// Content-Length.
func (p *partWriter) writePart(hdr textproto.MIMEHeader, body []byte) error {
	hdr.Set("Content-Length", strconv.Itoa(len(body)))
	p.buf.Reset()
	if !p.started {
		fmt.Fprintf(&p.buf, "--%s\r\n", p.boundary)
		p.started = true
	}
	for k, vs := range hdr {
		for _, v := range vs {
			fmt.Fprintf(&p.buf, "%s: %s\r\n", k, v)
		}
	}
	p.buf.WriteString("\r\n")
	p.buf.Write(body)
	fmt.Fprintf(&p.buf, "\r\n--%s\r\n", p.boundary)
	_, err := p.buf.WriteTo(p.w)
	return err
}
