// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcssim

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/image/draw"
)

// TerminalOpts represents the options of a Terminal.
type TerminalOpts struct {
	// W is the output. Defaults to stdout.
	W io.Writer
	// Width is the number of character cells per row. Defaults to 60.
	Width int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Plain disables ANSI codes and draws with characters instead. It is
	// forced when W is a file that is not a terminal.
	Plain bool

	_ struct{}
}

// Terminal is a FrameSink that draws frames on a console using ANSI color
// codes.
type Terminal struct {
	w       io.Writer
	width   int
	palette ansi256.Palette
	plain   bool

	small *image.RGBA
	buf   bytes.Buffer
}

// NewTerminal returns a Terminal. opts may be nil.
func NewTerminal(opts *TerminalOpts) *Terminal {
	if opts == nil {
		opts = &TerminalOpts{}
	}
	t := &Terminal{w: opts.W, width: opts.Width, plain: opts.Plain}
	if t.w == nil {
		t.w = os.Stdout
	}
	if f, ok := t.w.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			t.w = colorable.NewColorable(f)
		} else {
			t.plain = true
		}
	}
	if t.width <= 0 {
		t.width = 60
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	t.palette = *p
	return t
}

func (t *Terminal) String() string {
	return "dcssim.Terminal"
}

// Halt resets the terminal attributes.
func (t *Terminal) Halt() error {
	if t.plain {
		return nil
	}
	_, err := t.w.Write([]byte("\033[0m\n"))
	return err
}

// ramp is ordered from dark to bright.
const ramp = " .:-=+*#%@"

// Frame implements FrameSink. The whole image is scaled down to the
// configured width and redrawn.
func (t *Terminal) Frame(img *image.RGBA, dirty image.Rectangle) error {
	b := img.Bounds()
	w := min(t.width, b.Dx())
	// Character cells are about twice as high as wide.
	h := max(1, b.Dy()*w/b.Dx()/2)
	if t.small == nil || t.small.Rect.Dx() != w || t.small.Rect.Dy() != h {
		t.small = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	draw.NearestNeighbor.Scale(t.small, t.small.Rect, img, b, draw.Src, nil)

	t.buf.Reset()
	if !t.plain {
		// Move the cursor home so frames overwrite each other.
		_, _ = t.buf.WriteString("\033[H")
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := t.small.RGBAAt(x, y)
			if t.plain {
				_ = t.buf.WriteByte(ramp[luma(c)*(len(ramp)-1)/255])
			} else {
				_, _ = io.WriteString(&t.buf, t.palette.Block(color.NRGBA(c)))
			}
		}
		if !t.plain {
			_, _ = t.buf.WriteString("\033[0m")
		}
		_ = t.buf.WriteByte('\n')
	}
	_, err := t.buf.WriteTo(t.w)
	return err
}

func luma(c color.RGBA) int {
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

var _ FrameSink = &Terminal{}
