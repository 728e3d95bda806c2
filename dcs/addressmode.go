// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcs

import "github.com/GermanBionicSystems/mipidsi/options"

// Bits of the SetAddressMode (MADCTL) parameter.
const (
	RowOrder        byte = 0x80 // MY: rows are addressed bottom to top
	ColumnOrder     byte = 0x40 // MX: columns are addressed right to left
	RowColumnSwap   byte = 0x20 // MV: rows and columns are exchanged
	VerticalRefresh byte = 0x10 // ML: refresh bottom to top
	BGROrder        byte = 0x08 // BGR subpixel order
	HorizontalFlip  byte = 0x04 // MH: refresh right to left
)

// SetAddressMode is the MADCTL command.
type SetAddressMode byte

// AddressModeFrom derives the address mode from the options. It only depends
// on the orientation, the color order and the refresh order.
func AddressModeFrom(o *options.ModelOptions) SetAddressMode {
	return SetAddressMode(0).
		WithColorOrder(o.ColorOrder).
		WithOrientation(o.Orientation).
		WithRefreshOrder(o.RefreshOrder)
}

// WithColorOrder returns m with the BGR bit set per c.
func (m SetAddressMode) WithColorOrder(c options.ColorOrder) SetAddressMode {
	v := byte(m) &^ BGROrder
	if c == options.BGR {
		v |= BGROrder
	}
	return SetAddressMode(v)
}

// WithOrientation returns m with MY, MX and MV set per o.
func (m SetAddressMode) WithOrientation(o options.Orientation) SetAddressMode {
	var bits byte
	switch o.Rotation {
	case options.Deg90:
		bits = ColumnOrder | RowColumnSwap
	case options.Deg180:
		bits = RowOrder | ColumnOrder
	case options.Deg270:
		bits = RowOrder | RowColumnSwap
	}
	if o.Mirrored {
		bits ^= ColumnOrder
	}
	return SetAddressMode(byte(m)&^(RowOrder|ColumnOrder|RowColumnSwap) | bits)
}

// WithRefreshOrder returns m with ML and MH set per r.
func (m SetAddressMode) WithRefreshOrder(r options.RefreshOrder) SetAddressMode {
	v := byte(m) &^ (VerticalRefresh | HorizontalFlip)
	if r.Vertical == options.BottomToTop {
		v |= VerticalRefresh
	}
	if r.Horizontal == options.RightToLeft {
		v |= HorizontalFlip
	}
	return SetAddressMode(v)
}

// Has returns true if all bits in mask are set.
func (m SetAddressMode) Has(mask byte) bool {
	return byte(m)&mask == mask
}

// Instruction implements Command.
func (SetAddressMode) Instruction() byte { return InstrSetAddressMode }

// FillParams implements Command.
func (m SetAddressMode) FillParams(buf []byte) int {
	buf[0] = byte(m)
	return 1
}
