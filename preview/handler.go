// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"log"
	"mime"
	"net/http"
	"net/textproto"
)

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

func (s *Server) addClient() *client {
	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	return c
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

// ServeHTTP implements http.Handler. It answers GET requests with a stream
// of frames that ends when the client disconnects or Halt is called.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		log.Printf("preview: closing request body: %v", err)
	}
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	f := s.defaultFormat
	if v := r.URL.Query().Get("format"); v != "" {
		var err error
		if f, err = ParseImageFormat(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	pw := newPartWriter(w)
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": pw.boundary}))

	c := s.addClient()
	defer s.removeClient(c)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Type", f.mimeType())
	hdr.Set("Content-Transfer-Encoding", "binary")
	for {
		payload, err := s.frameBytes(f)
		if err != nil {
			log.Printf("preview: encoding %s frame: %v", f, err)
			return
		}
		err = pw.writePart(hdr, payload)
		//lint:ignore SA6002 payload is a slice
		encodedPool.Put(payload)
		if err != nil {
			// The client went away; there is no way to report an error in
			// the middle of the stream.
			return
		}
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
