// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dbi_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/GermanBionicSystems/mipidsi/dbi"
)

// dcPin logs each level change along with the number of SPI transfers done
// so far, to check the D/C and data interleaving.
type dcPin struct {
	gpiotest.Pin
	rec *spitest.Record
	log []string
}

func (p *dcPin) Out(l gpio.Level) error {
	p.log = append(p.log, fmt.Sprintf("%s@%d", l, len(p.rec.Ops)))
	return p.Pin.Out(l)
}

func newSPI(t *testing.T, maxTx int) (*dbi.SPI, *spitest.Record, *dcPin) {
	rec := &spitest.Record{}
	dc := &dcPin{Pin: gpiotest.Pin{N: "DC"}, rec: rec}
	s, err := dbi.NewSPI(rec, dc, &dbi.SPIOpts{MaxTxSize: maxTx})
	if err != nil {
		t.Fatal(err)
	}
	dc.log = nil
	return s, rec, dc
}

func TestSPISendCommand(t *testing.T) {
	s, rec, dc := newSPI(t, 64)
	if err := s.SendCommand(0x2a, []byte{0x00, 0x00, 0x00, 0xef}); err != nil {
		t.Fatal(err)
	}
	if err := s.SendCommand(0x29, nil); err != nil {
		t.Fatal(err)
	}
	want := []conntest.IO{
		{W: []byte{0x2a}},
		{W: []byte{0x00, 0x00, 0x00, 0xef}},
		{W: []byte{0x29}},
	}
	if diff := cmp.Diff(rec.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("SendCommand() difference (-got +want):\n%s", diff)
	}
	wantDC := []string{"Low@0", "High@1", "Low@2"}
	if diff := cmp.Diff(dc.log, wantDC); diff != "" {
		t.Errorf("D/C difference (-got +want):\n%s", diff)
	}
}

func TestSPISendPixelsChunks(t *testing.T) {
	s, rec, dc := newSPI(t, 4)
	p := dbi.Raw{Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Width: 2}
	if err := s.SendPixels(p); err != nil {
		t.Fatal(err)
	}
	want := []conntest.IO{
		{W: []byte{1, 2, 3, 4}},
		{W: []byte{5, 6, 7, 8}},
		{W: []byte{9, 10}},
	}
	if diff := cmp.Diff(rec.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("SendPixels() difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(dc.log, []string{"High@0"}); diff != "" {
		t.Errorf("D/C difference (-got +want):\n%s", diff)
	}
}

func TestSPISendPixelsTooWide(t *testing.T) {
	s, _, _ := newSPI(t, 2)
	if err := s.SendPixels(dbi.Raw{Data: []byte{1, 2, 3}, Width: 3}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSPISendRepeatedPixel(t *testing.T) {
	s, rec, _ := newSPI(t, 6)
	if err := s.SendRepeatedPixel([]byte{0xf8, 0x00}, 7); err != nil {
		t.Fatal(err)
	}
	var got []byte
	for _, io := range rec.Ops {
		if len(io.W) > 6 {
			t.Errorf("transfer of %d bytes exceeds limit", len(io.W))
		}
		got = append(got, io.W...)
	}
	if want := bytes.Repeat([]byte{0xf8, 0x00}, 7); !bytes.Equal(got, want) {
		t.Errorf("SendRepeatedPixel() = % x, want % x", got, want)
	}
	rec.Ops = nil
	if err := s.SendRepeatedPixel([]byte{0xf8, 0x00}, 0); err != nil || len(rec.Ops) != 0 {
		t.Errorf("SendRepeatedPixel(0) = %v, %d transfers", err, len(rec.Ops))
	}
}

func TestSPISendPixelsFromBuffer(t *testing.T) {
	s, rec, _ := newSPI(t, 3)
	if err := s.SendPixelsFromBuffer(context.Background(), []byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	want := []conntest.IO{{W: []byte{1, 2, 3}}, {W: []byte{4, 5}}}
	if diff := cmp.Diff(rec.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("SendPixelsFromBuffer() difference (-got +want):\n%s", diff)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.SendPixelsFromBuffer(ctx, []byte{1}); !errors.Is(err, context.Canceled) {
		t.Errorf("SendPixelsFromBuffer() = %v, want %v", err, context.Canceled)
	}
}

func TestNewSPIRequiresDC(t *testing.T) {
	if _, err := dbi.NewSPI(&spitest.Record{}, nil, nil); err == nil {
		t.Error("expected error with a nil pin")
	}
	if _, err := dbi.NewSPI(&spitest.Record{}, gpio.INVALID, nil); err == nil {
		t.Error("expected error with gpio.INVALID")
	}
}

func TestNewSPISetsDataMode(t *testing.T) {
	dc := &gpiotest.Pin{N: "DC"}
	if _, err := dbi.NewSPI(&spitest.Record{}, dc, nil); err != nil {
		t.Fatal(err)
	}
	if dc.L != gpio.High {
		t.Errorf("D/C level = %s, want High", dc.L)
	}
}
