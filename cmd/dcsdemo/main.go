// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dcsdemo draws a test scene on a MIPI DCS display.
//
// It drives a real panel over SPI:
//
//	dcsdemo -model st7789 -dc GPIO25 -rst GPIO27 -orientation 90
//
// or an emulated one, rendered in the terminal or streamed over HTTP:
//
//	dcsdemo -model ili9341 -sim
//	dcsdemo -model ili9341 -sim -http :8080
//
// Wiring on a Raspberry Pi:
//
//	Display    Raspberry Pi
//	GND        GND
//	VCC        3.3V
//	SCL/CLK    GPIO11 (SPI0 CLK)
//	SDA/MOSI   GPIO10 (SPI0 MOSI)
//	CS         GPIO8 (SPI0 CE0)
//	DC         GPIO25 (-dc)
//	RST        GPIO27 (-rst)
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/mipidsi"
	"github.com/GermanBionicSystems/mipidsi/dbi"
	"github.com/GermanBionicSystems/mipidsi/dcssim"
	"github.com/GermanBionicSystems/mipidsi/options"
	"github.com/GermanBionicSystems/mipidsi/preview"
)

var (
	modelName   = flag.String("model", "st7789", "Controller: "+strings.Join(modelNames(), ", "))
	spiBus      = flag.String("spi", "", "SPI port name (empty for default)")
	dcPin       = flag.String("dc", "GPIO25", "Data/Command pin name")
	rstPin      = flag.String("rst", "", "Reset pin name (empty for a soft reset)")
	spiHz       = flag.Int64("hz", 40000000, "SPI frequency in Hz")
	sim         = flag.Bool("sim", false, "Use an emulated panel instead of SPI")
	httpAddr    = flag.String("http", "", "With -sim, stream the panel on this address instead of the terminal")
	bufSize     = flag.Int("buffer", 0, "Stage pixel data in a buffer of this many bytes, 0 to send directly")
	orientation = flag.String("orientation", "0", "Rotation in degrees: 0, 90, 180 or 270, with an optional m suffix to mirror")
	invert      = flag.Bool("invert", false, "Invert colors, needed by most IPS panels")
	bgr         = flag.Bool("bgr", false, "Panel has BGR subpixels")
)

func modelNames() []string {
	var out []string
	for n := range mipidsi.Models {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func parseOrientation(s string) (options.Orientation, error) {
	var o options.Orientation
	if strings.HasSuffix(s, "m") {
		o.Mirrored = true
		s = strings.TrimSuffix(s, "m")
	}
	switch s {
	case "0":
		o.Rotation = options.Deg0
	case "90":
		o.Rotation = options.Deg90
	case "180":
		o.Rotation = options.Deg180
	case "270":
		o.Rotation = options.Deg270
	default:
		return o, fmt.Errorf("invalid orientation %q", s)
	}
	return o, nil
}

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		log.Fatal("unexpected argument, try -help")
	}
	m, ok := mipidsi.Lookup(*modelName)
	if !ok {
		log.Fatalf("unknown model %q", *modelName)
	}
	o, err := parseOrientation(*orientation)
	if err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var bus dbi.AsyncInterface
	var rst mipidsi.ResetPin
	if *sim {
		p := dcssim.New(m.FramebufferSize)
		if *httpAddr != "" {
			srv := preview.New(nil)
			p.AddSink(srv)
			go func() {
				if err := http.ListenAndServe(*httpAddr, srv); err != nil {
					log.Fatal(err)
				}
			}()
			log.Printf("streaming on http://%s/", *httpAddr)
		} else {
			t := dcssim.NewTerminal(nil)
			defer t.Halt()
			p.AddSink(t)
		}
		bus, rst = p, p
	} else {
		if _, err := host.Init(); err != nil {
			log.Fatalf("failed to initialize periph: %v", err)
		}
		port, err := spireg.Open(*spiBus)
		if err != nil {
			log.Fatalf("failed to open SPI port: %v", err)
		}
		defer port.Close()
		dc := gpioreg.ByName(*dcPin)
		if dc == nil {
			log.Fatalf("GPIO pin %s not found", *dcPin)
		}
		s, err := dbi.NewSPI(port, dc, &dbi.SPIOpts{Frequency: physic.Frequency(*spiHz) * physic.Hertz})
		if err != nil {
			log.Fatalf("failed to open display bus: %v", err)
		}
		bus = s
		if *rstPin != "" {
			p := gpioreg.ByName(*rstPin)
			if p == nil {
				log.Fatalf("GPIO pin %s not found", *rstPin)
			}
			rst = p
		}
	}

	var di dbi.Interface
	if *bufSize > 0 {
		di = dbi.NewBuffered(bus, make([]byte, *bufSize), 64)
	} else if s, ok := bus.(dbi.Interface); ok {
		di = s
	} else {
		log.Fatalf("%s needs -buffer", bus)
	}

	b := mipidsi.NewBuilder(m, di).Orientation(o).InvertColors(*invert)
	if *bgr {
		b.ColorOrder(options.BGR)
	}
	if rst != nil {
		err = run(ctx, mipidsi.WithResetPin(b, rst))
	} else {
		err = run(ctx, b)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func run[RST mipidsi.ResetPin](ctx context.Context, b *mipidsi.Builder[RST]) error {
	dev, err := b.Init(ctx, mipidsi.SleepDelayer{})
	if err != nil {
		return err
	}
	defer dev.Halt()
	log.Printf("initialized %s", dev)

	if err := show(ctx, dev, scene(dev.Bounds(), dev.Model().Name)); err != nil {
		return err
	}
	if *httpAddr != "" {
		log.Print("press Ctrl-C to exit")
		<-ctx.Done()
	}
	return nil
}

// show sends img in bands that each fit in the staging buffer, flushing
// after every band.
func show[RST mipidsi.ResetPin](ctx context.Context, dev *mipidsi.Display[RST], img image.Image) error {
	r := dev.Bounds()
	rows := r.Dy()
	if *bufSize > 0 {
		rows = *bufSize / (r.Dx() * dev.Model().Format.Size())
		if rows == 0 {
			return fmt.Errorf("-buffer %d cannot hold one row", *bufSize)
		}
	}
	for y := r.Min.Y; y < r.Max.Y; y += rows {
		band := image.Rect(r.Min.X, y, r.Max.X, min(y+rows, r.Max.Y))
		if err := dev.Draw(band, img, band.Min); err != nil {
			return err
		}
		if err := dev.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// scene renders a test pattern at twice the resolution and scales it down.
func scene(r image.Rectangle, name string) image.Image {
	w, h := r.Dx()*2, r.Dy()*2
	dc := gg.NewContext(w, h)
	grad := gg.NewLinearGradient(0, 0, float64(w), float64(h))
	grad.AddColorStop(0, color.RGBA{0x10, 0x20, 0x60, 0xff})
	grad.AddColorStop(1, color.RGBA{0x60, 0x10, 0x40, 0xff})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	bars := []color.RGBA{{0xff, 0, 0, 0xff}, {0, 0xff, 0, 0xff}, {0, 0, 0xff, 0xff}, {0xff, 0xff, 0xff, 0xff}}
	bw := float64(w) / float64(len(bars))
	for i, c := range bars {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*bw, float64(h)*0.75, bw, float64(h)*0.25)
		dc.Fill()
	}
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(float64(w)/2, float64(h)*0.4, float64(min(w, h))/5)
	dc.SetLineWidth(6)
	dc.Stroke()

	if f, err := truetype.Parse(goregular.TTF); err == nil {
		dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: float64(h) / 12}))
		dc.DrawStringAnchored(name, float64(w)/2, float64(h)*0.4, 0.5, 0.5)
	} else {
		log.Printf("failed to parse font: %v", err)
	}

	img := image.NewRGBA(r)
	draw.CatmullRom.Scale(img, r, dc.Image(), dc.Image().Bounds(), draw.Src, nil)

	// Small label with the geometry, at native resolution.
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(2, face.Ascent+2),
	}
	d.DrawString(fmt.Sprintf("%dx%d", r.Dx(), r.Dy()))
	return img
}
