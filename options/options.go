// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package options defines the panel configuration shared by the DCS codec and
// the display drivers.
package options

import (
	"fmt"
	"image"
)

// Rotation is a clockwise display rotation.
type Rotation uint8

// Possible rotations.
const (
	Deg0 Rotation = iota
	Deg90
	Deg180
	Deg270
)

func (r Rotation) String() string {
	switch r {
	case Deg0:
		return "0°"
	case Deg90:
		return "90°"
	case Deg180:
		return "180°"
	case Deg270:
		return "270°"
	default:
		return fmt.Sprintf("Rotation(%d)", uint8(r))
	}
}

// IsLandscape returns true when width and height are exchanged relative to
// the controller's native portrait layout.
func (r Rotation) IsLandscape() bool {
	return r == Deg90 || r == Deg270
}

// Orientation is one of the 8 combinations of rotation and mirroring.
type Orientation struct {
	Rotation Rotation
	// Mirrored flips the image horizontally before rotation.
	Mirrored bool
}

// Rotate returns an unmirrored orientation.
func Rotate(r Rotation) Orientation {
	return Orientation{Rotation: r}
}

// Flip returns o with the mirroring toggled.
func (o Orientation) Flip() Orientation {
	o.Mirrored = !o.Mirrored
	return o
}

func (o Orientation) String() string {
	if o.Mirrored {
		return o.Rotation.String() + " mirrored"
	}
	return o.Rotation.String()
}

// ColorOrder is the subpixel order of the panel.
type ColorOrder uint8

// Possible color orders.
const (
	RGB ColorOrder = iota
	BGR
)

func (c ColorOrder) String() string {
	if c == BGR {
		return "BGR"
	}
	return "RGB"
}

// VerticalRefreshOrder is the order in which rows are refreshed.
type VerticalRefreshOrder uint8

// Possible vertical refresh orders.
const (
	TopToBottom VerticalRefreshOrder = iota
	BottomToTop
)

// HorizontalRefreshOrder is the order in which columns are refreshed.
type HorizontalRefreshOrder uint8

// Possible horizontal refresh orders.
const (
	LeftToRight HorizontalRefreshOrder = iota
	RightToLeft
)

// RefreshOrder is the panel scan direction. The zero value is the power-on
// default of every supported controller.
type RefreshOrder struct {
	Vertical   VerticalRefreshOrder
	Horizontal HorizontalRefreshOrder
}

// TearingEffect is the mode of the controller's TE output line.
type TearingEffect uint8

// Possible tearing effect modes.
const (
	TearingOff TearingEffect = iota
	TearingVertical
	TearingHorizontalAndVertical
)

// ModelOptions is the geometry and color configuration of a panel.
//
// DisplaySize and DisplayOffset are expressed in the controller's native
// (unrotated) framebuffer coordinates.
type ModelOptions struct {
	DisplaySize   image.Point
	DisplayOffset image.Point
	// OffsetFunc, when set, overrides DisplayOffset with an offset that depends
	// on the orientation. Some panels are glued on a larger framebuffer at a
	// position that changes when the scan direction is reversed.
	OffsetFunc   func(Orientation) image.Point
	Orientation  Orientation
	ColorOrder   ColorOrder
	InvertColors bool
	RefreshOrder RefreshOrder
}

// FullSize returns the default options covering the whole framebuffer.
func FullSize(framebuffer image.Point) ModelOptions {
	return ModelOptions{DisplaySize: framebuffer}
}

// Offset returns the framebuffer offset for the current orientation.
func (o *ModelOptions) Offset() image.Point {
	if o.OffsetFunc != nil {
		return o.OffsetFunc(o.Orientation)
	}
	return o.DisplayOffset
}

// Size returns the visible size in the current orientation.
func (o *ModelOptions) Size() image.Point {
	if o.Orientation.Rotation.IsLandscape() {
		return image.Pt(o.DisplaySize.Y, o.DisplaySize.X)
	}
	return o.DisplaySize
}
