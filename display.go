// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipidsi

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/mipidsi/dbi"
	"github.com/GermanBionicSystems/mipidsi/dcs"
	"github.com/GermanBionicSystems/mipidsi/options"
)

// sleepDelay is the time the controller needs after SLPIN or SLPOUT.
const sleepDelay = 120_000

// Display is an initialized display controller.
//
// Coordinates are in the current orientation, with {0, 0} at the top left of
// the visible panel.
type Display[RST ResetPin] struct {
	di       dbi.Interface
	model    *Model
	rst      RST
	opts     options.ModelOptions
	madctl   dcs.SetAddressMode
	sleeping bool
	// next is the staging image of Draw.
	next *image.RGBA
}

func (d *Display[RST]) String() string {
	return fmt.Sprintf("mipidsi.Display{%s, %s, %s}", d.model, d.di, d.opts.Orientation)
}

// Model returns the controller description.
func (d *Display[RST]) Model() *Model {
	return d.model
}

// AddressMode returns the current SetAddressMode value.
func (d *Display[RST]) AddressMode() dcs.SetAddressMode {
	return d.madctl
}

// SetPixels writes p to the inclusive window (sx, sy)-(ex, ey). p must hold
// exactly (ex-sx+1)*(ey-sy+1) pixels in the model format.
func (d *Display[RST]) SetPixels(sx, sy, ex, ey int, p dbi.Pixels) error {
	if err := d.setWindow(sx, sy, ex, ey); err != nil {
		return err
	}
	return d.di.SendPixels(p)
}

// SetPixel sets a single pixel.
func (d *Display[RST]) SetPixel(x, y int, c color.Color) error {
	return d.SetPixels(x, y, x, y, dbi.Colors{Format: d.model.Format, Colors: []color.Color{c}})
}

// FillSolid fills r, clipped to the display bounds, with c.
func (d *Display[RST]) FillSolid(r image.Rectangle, c color.Color) error {
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	var px [3]byte
	n := d.model.Format.Size()
	d.model.Format.Encode(px[:n], c)
	if err := d.setWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1); err != nil {
		return err
	}
	return d.di.SendRepeatedPixel(px[:n], r.Dx()*r.Dy())
}

// Clear fills the whole display with c.
func (d *Display[RST]) Clear(c color.Color) error {
	return d.FillSolid(d.Bounds(), c)
}

// Orientation returns the current orientation.
func (d *Display[RST]) Orientation() options.Orientation {
	return d.opts.Orientation
}

// SetOrientation changes the orientation. Bounds changes accordingly.
func (d *Display[RST]) SetOrientation(o options.Orientation) error {
	madctl := d.madctl.WithOrientation(o)
	if err := d.command(context.Background(), madctl); err != nil {
		return err
	}
	d.madctl = madctl
	d.opts.Orientation = o
	return nil
}

// SetInvertColors enables or disables color inversion.
func (d *Display[RST]) SetInvertColors(invert bool) error {
	if err := d.command(context.Background(), dcs.SetInvertMode(invert)); err != nil {
		return err
	}
	d.opts.InvertColors = invert
	return nil
}

// SetTearingEffect configures the TE output.
func (d *Display[RST]) SetTearingEffect(t options.TearingEffect) error {
	return d.command(context.Background(), dcs.SetTearingEffect(t))
}

// SetVerticalScrollRegion defines fixed top and bottom areas, in framebuffer
// rows. The rows in between scroll with SetVerticalScrollOffset.
func (d *Display[RST]) SetVerticalScrollRegion(top, bottom int) error {
	h := d.model.FramebufferSize.Y
	if top < 0 || bottom < 0 || top+bottom > h {
		return fmt.Errorf("mipidsi: invalid scroll region %d+%d for height %d", top, bottom, h)
	}
	return d.command(context.Background(), dcs.SetScrollArea{
		TopFixed:    uint16(top),
		Scroll:      uint16(h - top - bottom),
		BottomFixed: uint16(bottom),
	})
}

// SetVerticalScrollOffset sets the first framebuffer row shown in the
// scrolling area.
func (d *Display[RST]) SetVerticalScrollOffset(offset int) error {
	if offset < 0 || offset >= d.model.FramebufferSize.Y {
		return fmt.Errorf("mipidsi: invalid scroll offset %d", offset)
	}
	return d.command(context.Background(), dcs.SetScrollStart(offset))
}

// Sleep puts the controller into sleep mode.
func (d *Display[RST]) Sleep(ctx context.Context, delay Delayer) error {
	if err := d.command(ctx, dcs.EnterSleepMode); err != nil {
		return err
	}
	d.sleeping = true
	return delay.DelayUs(ctx, sleepDelay)
}

// Wake brings the controller out of sleep mode.
func (d *Display[RST]) Wake(ctx context.Context, delay Delayer) error {
	if err := d.command(ctx, dcs.ExitSleepMode); err != nil {
		return err
	}
	d.sleeping = false
	return delay.DelayUs(ctx, sleepDelay)
}

// IsSleeping returns true after Sleep and until Wake.
func (d *Display[RST]) IsSleeping() bool {
	return d.sleeping
}

// Flush sends pending pixel data when the bus defers it, as dbi.Buffered
// does. It is a no-op otherwise.
func (d *Display[RST]) Flush(ctx context.Context) error {
	if f, ok := d.di.(dbi.Flusher); ok {
		return f.Flush(ctx)
	}
	return nil
}

// Release returns the bus and the reset pin. The Display must not be used
// afterward.
func (d *Display[RST]) Release() (dbi.Interface, RST) {
	di, rst := d.di, d.rst
	d.di = nil
	return di, rst
}

// ColorModel implements display.Drawer.
func (d *Display[RST]) ColorModel() color.Model {
	return d.model.Format.Model()
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Display[RST]) Bounds() image.Rectangle {
	s := d.opts.DisplaySize
	if d.madctl.Has(dcs.RowColumnSwap) {
		s = image.Pt(s.Y, s.X)
	}
	return image.Rectangle{Max: s}
}

// Draw implements display.Drawer.
//
// Only the r area is sent. With a dbi.Buffered bus the data is queued until
// Flush or the next command.
func (d *Display[RST]) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	b := d.Bounds()
	if c := r.Intersect(b); c != r {
		sp = sp.Add(c.Min.Sub(r.Min))
		r = c
	}
	if r.Empty() {
		return nil
	}
	if d.next == nil || d.next.Rect != b {
		d.next = image.NewRGBA(b)
	}
	draw.Draw(d.next, r, src, sp, draw.Src)
	return d.SetPixels(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, dbi.FromImage(d.model.Format, d.next, r))
}

// Halt implements conn.Resource. It turns the display off.
func (d *Display[RST]) Halt() error {
	return d.command(context.Background(), dcs.SetDisplayOff)
}

// offset returns the framebuffer position of the panel's top left pixel in
// the current address mode.
func (d *Display[RST]) offset() image.Point {
	if d.opts.OffsetFunc != nil {
		return d.opts.OffsetFunc(d.opts.Orientation)
	}
	fb := d.model.FramebufferSize
	size := d.opts.DisplaySize
	off := d.opts.DisplayOffset
	if d.madctl.Has(dcs.ColumnOrder) {
		off.X = fb.X - (size.X + off.X)
	}
	if d.madctl.Has(dcs.RowOrder) {
		off.Y = fb.Y - (size.Y + off.Y)
	}
	if d.madctl.Has(dcs.RowColumnSwap) {
		off = image.Pt(off.Y, off.X)
	}
	return off
}

// command sends cmd after any pixel data still held by the bus, so that the
// controller applies it in issue order.
func (d *Display[RST]) command(ctx context.Context, cmd dcs.Command) error {
	if err := d.Flush(ctx); err != nil {
		return err
	}
	return dcs.Write(d.di, cmd)
}

// setWindow sets the inclusive address window and starts a memory write.
// Pending pixels of the previous window are flushed first.
func (d *Display[RST]) setWindow(sx, sy, ex, ey int) error {
	if sx < 0 || sy < 0 || ex < sx || ey < sy {
		return fmt.Errorf("mipidsi: invalid window (%d,%d)-(%d,%d)", sx, sy, ex, ey)
	}
	if err := d.Flush(context.Background()); err != nil {
		return err
	}
	off := d.offset()
	if err := dcs.Write(d.di, dcs.SetColumnAddress{Start: uint16(sx + off.X), End: uint16(ex + off.X)}); err != nil {
		return err
	}
	if err := dcs.Write(d.di, dcs.SetPageAddress{Start: uint16(sy + off.Y), End: uint16(ey + off.Y)}); err != nil {
		return err
	}
	return dcs.Write(d.di, dcs.WriteMemoryStart)
}

var _ display.Drawer = &Display[NoResetPin]{}
