// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package options

import (
	"image"
	"testing"
)

func TestOrientation(t *testing.T) {
	o := Rotate(Deg90)
	if o.String() != "90°" {
		t.Errorf("String() = %q", o)
	}
	f := o.Flip()
	if !f.Mirrored || f.Rotation != Deg90 || f.String() != "90° mirrored" {
		t.Errorf("Flip() = %v", f)
	}
	if f.Flip() != o {
		t.Error("Flip() is not an involution")
	}
	if Rotation(7).String() != "Rotation(7)" {
		t.Errorf("String() = %q", Rotation(7))
	}
}

func TestSize(t *testing.T) {
	o := FullSize(image.Pt(240, 320))
	for _, r := range []Rotation{Deg0, Deg180} {
		o.Orientation = Rotate(r)
		if got := o.Size(); got != image.Pt(240, 320) {
			t.Errorf("%s: Size() = %v", r, got)
		}
	}
	for _, r := range []Rotation{Deg90, Deg270} {
		o.Orientation = Rotate(r).Flip()
		if got := o.Size(); got != image.Pt(320, 240) {
			t.Errorf("%s: Size() = %v", r, got)
		}
	}
}

func TestOffset(t *testing.T) {
	o := ModelOptions{DisplaySize: image.Pt(135, 240), DisplayOffset: image.Pt(52, 40)}
	if got := o.Offset(); got != image.Pt(52, 40) {
		t.Errorf("Offset() = %v", got)
	}
	o.OffsetFunc = func(or Orientation) image.Point {
		if or.Rotation == Deg180 {
			return image.Pt(53, 40)
		}
		return image.Pt(52, 40)
	}
	o.Orientation = Rotate(Deg180)
	if got := o.Offset(); got != image.Pt(53, 40) {
		t.Errorf("Offset() = %v", got)
	}
}
