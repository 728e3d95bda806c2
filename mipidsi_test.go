// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipidsi

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/mipidsi/dbi"
	"github.com/GermanBionicSystems/mipidsi/dbi/dbitest"
	"github.com/GermanBionicSystems/mipidsi/dcs"
	"github.com/GermanBionicSystems/mipidsi/options"
)

var red = color.RGBA{0xff, 0, 0, 0xff}

func diffOps(t *testing.T, name string, got, want []dbitest.Op) {
	t.Helper()
	if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("%s difference (-got +want):\n%s", name, diff)
	}
}

func TestInitSoftReset(t *testing.T) {
	rec := &dbitest.Record{}
	d, err := NewBuilder(ST7789, rec).Init(context.Background(), rec)
	if err != nil {
		t.Fatal(err)
	}
	want := []dbitest.Op{
		dbitest.Cmd(dcs.InstrSoftReset),
		dbitest.Wait(150_000),
		dbitest.Cmd(dcs.InstrExitSleepMode),
		dbitest.Wait(10_000),
		dbitest.Cmd(dcs.InstrSetAddressMode, 0x00),
		dbitest.Cmd(dcs.InstrExitInvertMode),
		dbitest.Cmd(dcs.InstrSetPixelFormat, 0x55),
		dbitest.Wait(10_000),
		dbitest.Cmd(dcs.InstrEnterNormalMode),
		dbitest.Wait(10_000),
		dbitest.Cmd(dcs.InstrSetDisplayOn),
		dbitest.Wait(120_000),
	}
	diffOps(t, "Init()", rec.Ops, want)
	if d.IsSleeping() {
		t.Error("display is sleeping after Init")
	}
	if d.Bounds() != image.Rect(0, 0, 240, 320) {
		t.Errorf("Bounds() = %v", d.Bounds())
	}
}

func TestInitResetPin(t *testing.T) {
	rec := &dbitest.Record{}
	b := WithResetPin(NewBuilder(ILI9341Rgb666, rec), rec).
		InvertColors(true).
		ColorOrder(options.BGR).
		Orientation(options.Rotate(options.Deg90))
	d, err := b.Init(context.Background(), rec)
	if err != nil {
		t.Fatal(err)
	}
	want := []dbitest.Op{
		dbitest.Out(gpio.Low),
		dbitest.Wait(10),
		dbitest.Out(gpio.High),
		dbitest.Cmd(dcs.InstrSetAddressMode, 0x68),
		dbitest.Cmd(0xB4, 0x00),
		dbitest.Cmd(dcs.InstrEnterInvertMode),
		dbitest.Cmd(dcs.InstrSetPixelFormat, 0x66),
		dbitest.Cmd(dcs.InstrEnterNormalMode),
		dbitest.Cmd(dcs.InstrExitSleepMode),
		dbitest.Wait(120_000),
		dbitest.Cmd(dcs.InstrSetDisplayOn),
	}
	diffOps(t, "Init()", rec.Ops, want)
	if d.AddressMode() != 0x68 {
		t.Errorf("AddressMode() = %#02x", byte(d.AddressMode()))
	}
	if d.Bounds() != image.Rect(0, 0, 320, 240) {
		t.Errorf("Bounds() = %v", d.Bounds())
	}
	di, rst := d.Release()
	if di != dbi.Interface(rec) || rst != rec {
		t.Error("Release() returned unexpected values")
	}
}

func TestInitIsDeterministic(t *testing.T) {
	for name, m := range Models {
		var runs [2][]dbitest.Op
		for i := range runs {
			rec := &dbitest.Record{}
			if _, err := NewBuilder(m, rec).Orientation(options.Rotate(options.Deg270).Flip()).Init(context.Background(), rec); err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			runs[i] = rec.Ops
		}
		diffOps(t, name, runs[0], runs[1])
		if len(runs[0]) < 2 || runs[0][0].Cmd != dcs.InstrSoftReset {
			t.Errorf("%s: sequence does not start with a soft reset", name)
		}
	}
}

func TestInitSetsModelPixelFormat(t *testing.T) {
	for name, m := range Models {
		rec := &dbitest.Record{}
		if _, err := NewBuilder(m, rec).Init(context.Background(), rec); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		var last []byte
		for _, op := range rec.Filter(dbitest.Command) {
			if op.Cmd == dcs.InstrSetPixelFormat {
				last = op.Data
			}
		}
		want := dcs.WithAll(m.Format.BitsPerPixel()).Byte()
		if len(last) != 1 || last[0] != want {
			t.Errorf("%s: last COLMOD = % x, want %#02x", name, last, want)
		}
	}
}

func mustPanic(t *testing.T, substr string, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		v := recover()
		if v == nil {
			t.Fatalf("expected panic containing %q", substr)
		}
		if s, ok := v.(string); !ok || !strings.Contains(s, substr) {
			t.Fatalf("panic %v, want %q", v, substr)
		}
	}()
	f()
}

func TestInitGeometryPanics(t *testing.T) {
	data := []struct {
		name   string
		b      func(*dbitest.Record) *Builder[NoResetPin]
		substr string
	}{
		{
			"too wide",
			func(r *dbitest.Record) *Builder[NoResetPin] { return NewBuilder(ST7789, r).DisplaySize(241, 320) },
			"width",
		},
		{
			"too high",
			func(r *dbitest.Record) *Builder[NoResetPin] { return NewBuilder(ST7789, r).DisplaySize(240, 321) },
			"height",
		},
		{
			"offset x",
			func(r *dbitest.Record) *Builder[NoResetPin] { return NewBuilder(ST7789, r).DisplayOffset(1, 0) },
			"width",
		},
		{
			"offset y",
			func(r *dbitest.Record) *Builder[NoResetPin] {
				return NewBuilder(ST7735s, r).DisplaySize(128, 160).DisplayOffset(2, 3)
			},
			"height",
		},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			rec := &dbitest.Record{}
			b := line.b(rec)
			mustPanic(t, line.substr, func() {
				_, _ = b.Init(context.Background(), rec)
			})
			if len(rec.Ops) != 0 {
				t.Errorf("hardware was touched: %v", rec.Ops)
			}
		})
	}
	mustPanic(t, "display size", func() { NewBuilder(ST7789, &dbitest.Record{}).DisplaySize(0, 10) })
}

func TestInitFitsWithOffset(t *testing.T) {
	rec := &dbitest.Record{}
	if _, err := NewBuilder(ST7735s, rec).DisplaySize(128, 160).DisplayOffset(2, 1).Init(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
}

func TestInitErrors(t *testing.T) {
	errPin := errors.New("pin stuck")
	rec := &dbitest.Record{
		Fail: func(op dbitest.Op) error {
			if op.Kind == dbitest.Pin && op.Level == gpio.High {
				return errPin
			}
			return nil
		},
	}
	_, err := WithResetPin(NewBuilder(GC9107, rec), rec).Init(context.Background(), rec)
	var ie *InitError
	if !errors.As(err, &ie) || ie.Source != SourceResetPin || !errors.Is(err, errPin) {
		t.Fatalf("Init() = %v, want reset pin error", err)
	}
	diffOps(t, "Init()", rec.Ops, []dbitest.Op{dbitest.Out(gpio.Low), dbitest.Wait(10)})

	errBus := errors.New("bus fault")
	rec = &dbitest.Record{
		Fail: func(op dbitest.Op) error {
			if op.Kind == dbitest.Command && op.Cmd == dcs.InstrExitSleepMode {
				return errBus
			}
			return nil
		},
	}
	_, err = NewBuilder(ST7735s, rec).Init(context.Background(), rec)
	if !errors.As(err, &ie) || ie.Source != SourceInterface || ie.Err != errBus {
		t.Fatalf("Init() = %v, want interface error", err)
	}
	diffOps(t, "Init()", rec.Ops, []dbitest.Op{dbitest.Cmd(dcs.InstrSoftReset), dbitest.Wait(200_000)})
}

func TestInitCancelled(t *testing.T) {
	rec := &dbitest.Record{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBuilder(ST7789, rec).Init(ctx, rec)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Init() = %v, want %v", err, context.Canceled)
	}
}

func newDisplay(t *testing.T, b *Builder[NoResetPin], rec *dbitest.Record) *Display[NoResetPin] {
	d, err := b.Init(context.Background(), rec)
	if err != nil {
		t.Fatal(err)
	}
	rec.Reset()
	return d
}

func window(sx, sy, ex, ey uint16) []dbitest.Op {
	return []dbitest.Op{
		dbitest.Cmd(dcs.InstrSetColumnAddress, byte(sx>>8), byte(sx), byte(ex>>8), byte(ex)),
		dbitest.Cmd(dcs.InstrSetPageAddress, byte(sy>>8), byte(sy), byte(ey>>8), byte(ey)),
		dbitest.Cmd(dcs.InstrWriteMemoryStart),
	}
}

func TestSetPixelOffsets(t *testing.T) {
	data := []struct {
		o    options.Orientation
		x, y uint16
	}{
		{options.Rotate(options.Deg0), 0, 0},
		{options.Rotate(options.Deg90), 0, 0},
		{options.Rotate(options.Deg180), 0, 80},
		{options.Rotate(options.Deg270), 80, 0},
	}
	for _, line := range data {
		rec := &dbitest.Record{}
		d := newDisplay(t, NewBuilder(ST7789, rec).DisplaySize(240, 240).Orientation(line.o), rec)
		if err := d.SetPixel(0, 0, red); err != nil {
			t.Fatal(err)
		}
		want := append(window(line.x, line.y, line.x, line.y), dbitest.Op{Kind: dbitest.Pixels, Data: []byte{0xf8, 0x00}})
		diffOps(t, line.o.String(), rec.Ops, want)
	}
}

func TestOffsetFunc(t *testing.T) {
	rec := &dbitest.Record{}
	d := newDisplay(t, NewST7789Pico1(rec), rec)
	if d.Bounds() != image.Rect(0, 0, 135, 240) {
		t.Fatalf("Bounds() = %v", d.Bounds())
	}
	if err := d.SetPixel(1, 2, red); err != nil {
		t.Fatal(err)
	}
	diffOps(t, "SetPixel()", rec.Filter(dbitest.Command), window(53, 42, 53, 42))

	rec.Reset()
	if err := d.SetOrientation(options.Rotate(options.Deg90)); err != nil {
		t.Fatal(err)
	}
	if d.Bounds() != image.Rect(0, 0, 240, 135) {
		t.Fatalf("Bounds() = %v", d.Bounds())
	}
	if err := d.SetPixel(0, 0, red); err != nil {
		t.Fatal(err)
	}
	want := append([]dbitest.Op{dbitest.Cmd(dcs.InstrSetAddressMode, 0x60)}, window(40, 52, 40, 52)...)
	diffOps(t, "SetOrientation()", rec.Filter(dbitest.Command), want)
}

func TestFillSolid(t *testing.T) {
	rec := &dbitest.Record{}
	d := newDisplay(t, NewBuilder(GC9107, rec), rec)
	if err := d.FillSolid(image.Rect(-5, -5, 2, 3), red); err != nil {
		t.Fatal(err)
	}
	want := append(window(0, 0, 1, 2), dbitest.Op{Kind: dbitest.Pixels, Data: []byte{0xf8, 0, 0xf8, 0, 0xf8, 0, 0xf8, 0, 0xf8, 0, 0xf8, 0}})
	diffOps(t, "FillSolid()", rec.Ops, want)

	rec.Reset()
	if err := d.FillSolid(image.Rect(200, 200, 300, 300), red); err != nil || len(rec.Ops) != 0 {
		t.Errorf("FillSolid() outside = %v, %v", err, rec.Ops)
	}
	if err := d.Clear(color.Black); err != nil {
		t.Fatal(err)
	}
	if px := rec.Filter(dbitest.Pixels); len(px) != 1 || len(px[0].Data) != 128*160*2 {
		t.Error("Clear() did not cover the display")
	}
}

func TestDraw(t *testing.T) {
	rec := &dbitest.Record{}
	d := newDisplay(t, NewBuilder(ILI9342CRgb666, rec), rec)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, red)
	src.Set(1, 1, color.White)
	if err := d.Draw(image.Rect(10, 20, 12, 22), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	want := append(window(10, 20, 11, 21), dbitest.Op{Kind: dbitest.Pixels, Data: []byte{
		0xfc, 0, 0, 0, 0, 0,
		0, 0, 0, 0xfc, 0xfc, 0xfc,
	}})
	diffOps(t, "Draw()", rec.Ops, want)

	rec.Reset()
	if err := d.Draw(image.Rect(400, 0, 410, 10), src, image.Point{}); err != nil || len(rec.Ops) != 0 {
		t.Errorf("Draw() outside = %v, %v", err, rec.Ops)
	}
}

func TestSleepWake(t *testing.T) {
	rec := &dbitest.Record{}
	d := newDisplay(t, NewBuilder(ST7789, rec), rec)
	if err := d.Sleep(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if !d.IsSleeping() {
		t.Error("IsSleeping() = false after Sleep")
	}
	if err := d.Wake(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if d.IsSleeping() {
		t.Error("IsSleeping() = true after Wake")
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	want := []dbitest.Op{
		dbitest.Cmd(dcs.InstrEnterSleepMode),
		dbitest.Wait(120_000),
		dbitest.Cmd(dcs.InstrExitSleepMode),
		dbitest.Wait(120_000),
		dbitest.Cmd(dcs.InstrSetDisplayOff),
	}
	diffOps(t, "Sleep/Wake/Halt", rec.Ops, want)
}

func TestRuntimeCommands(t *testing.T) {
	rec := &dbitest.Record{}
	d := newDisplay(t, NewBuilder(ST7789, rec), rec)
	if err := d.SetInvertColors(true); err != nil {
		t.Fatal(err)
	}
	if err := d.SetTearingEffect(options.TearingVertical); err != nil {
		t.Fatal(err)
	}
	if err := d.SetVerticalScrollRegion(10, 20); err != nil {
		t.Fatal(err)
	}
	if err := d.SetVerticalScrollOffset(300); err != nil {
		t.Fatal(err)
	}
	if err := d.SetVerticalScrollRegion(200, 200); err == nil {
		t.Error("expected error for an oversized scroll region")
	}
	if err := d.SetVerticalScrollOffset(320); err == nil {
		t.Error("expected error for an out of range scroll offset")
	}
	want := []dbitest.Op{
		dbitest.Cmd(dcs.InstrEnterInvertMode),
		dbitest.Cmd(dcs.InstrTearingEffectOn, 0x00),
		dbitest.Cmd(dcs.InstrSetScrollArea, 0, 10, 0x01, 0x22, 0, 20),
		dbitest.Cmd(dcs.InstrSetScrollStart, 0x01, 0x2c),
	}
	diffOps(t, "runtime commands", rec.Ops, want)
}

func TestFlushBuffered(t *testing.T) {
	rec := &dbitest.Record{}
	buf := dbi.NewBuffered(rec, make([]byte, 64), 4)
	d := newDisplay(t, NewBuilder(ST7789, buf), rec)
	if err := d.FillSolid(image.Rect(0, 0, 2, 2), red); err != nil {
		t.Fatal(err)
	}
	if len(rec.Filter(dbitest.Pixels)) != 0 {
		t.Fatal("pixels sent before Flush")
	}
	if err := d.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := append(window(0, 0, 1, 1), dbitest.Op{Kind: dbitest.Pixels, Data: []byte{0xf8, 0, 0xf8, 0, 0xf8, 0, 0xf8, 0}})
	diffOps(t, "Flush()", rec.Ops, want)

	// Flush on a synchronous bus is a no-op.
	d2 := newDisplay(t, NewBuilder(ST7789, rec), rec)
	if err := d2.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestBufferedWindowsKeepOrder(t *testing.T) {
	rec := &dbitest.Record{}
	buf := dbi.NewBuffered(rec, make([]byte, 64), 4)
	d := newDisplay(t, NewBuilder(ST7789, buf), rec)
	if err := d.FillSolid(image.Rect(0, 0, 2, 1), red); err != nil {
		t.Fatal(err)
	}
	if err := d.FillSolid(image.Rect(0, 1, 1, 2), color.RGBA{0, 0, 0xff, 0xff}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetInvertColors(true); err != nil {
		t.Fatal(err)
	}
	var want []dbitest.Op
	want = append(want, window(0, 0, 1, 0)...)
	want = append(want, dbitest.Op{Kind: dbitest.Pixels, Data: []byte{0xf8, 0, 0xf8, 0}})
	want = append(want, window(0, 1, 0, 1)...)
	want = append(want, dbitest.Op{Kind: dbitest.Pixels, Data: []byte{0, 0x1f}})
	want = append(want, dbitest.Cmd(dcs.InstrEnterInvertMode))
	diffOps(t, "bus", rec.Ops, want)
	if buf.Len() != 0 {
		t.Errorf("Len() = %d after a command", buf.Len())
	}
}

func TestWithResetPinNil(t *testing.T) {
	defer func() {
		v := recover()
		if s, ok := v.(string); !ok || !strings.HasPrefix(s, "mipidsi:") {
			t.Fatalf("recover() = %v", v)
		}
	}()
	WithResetPin(NewBuilder(ST7789, &dbitest.Record{}), gpio.PinOut(nil))
}

func TestRunInitStopsOnError(t *testing.T) {
	errBus := errors.New("bus fault")
	m := &Model{
		Name:            "test",
		FramebufferSize: image.Pt(10, 10),
		Init:            []Step{Raw(0xB0, 1), Cmd(dcs.Nop), Raw(0xB1, 2), DelayUs(5)},
	}
	rec := &dbitest.Record{
		Fail: func(op dbitest.Op) error {
			if op.Cmd == dcs.InstrNop && op.Kind == dbitest.Command {
				return errBus
			}
			return nil
		},
	}
	o := options.FullSize(m.FramebufferSize)
	if _, err := runInit(context.Background(), rec, rec, m, &o); err != errBus {
		t.Fatalf("runInit() = %v, want %v", err, errBus)
	}
	diffOps(t, "runInit()", rec.Ops, []dbitest.Op{dbitest.Cmd(0xB0, 1)})
}

func TestRawTooLong(t *testing.T) {
	mustPanic(t, "exceed", func() { Raw(0xE0, make([]byte, dcs.MaxParams+1)...) })
}

func TestLookup(t *testing.T) {
	if m, ok := Lookup("ST7789"); !ok || m != ST7789 {
		t.Errorf("Lookup(ST7789) = %v, %t", m, ok)
	}
	if _, ok := Lookup("ssd1306"); ok {
		t.Error("Lookup(ssd1306) succeeded")
	}
}
