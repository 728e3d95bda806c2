// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mipidsi drives small TFT panels built around MIPI DCS compatible
// controllers such as the ILI9341, ST7735s and ST7789.
//
// A Model describes a controller: its framebuffer size, its pixel format and
// its power-on sequence as a table of steps. A Builder validates the panel
// geometry, resets the controller and runs the sequence, yielding a Display
// that implements periph's display.Drawer.
//
// The bus is a dbi.Interface. Use dbi.NewSPI for a 4-wire SPI bus, or wrap a
// dbi.AsyncInterface with dbi.NewBuffered to stage pixel data and send it on
// Flush.
//
// # Datasheets
//
// ILI9341: https://cdn-shop.adafruit.com/datasheets/ILI9341.pdf
//
// ST7735s: https://www.displayfuture.com/Display/datasheet/controller/ST7735.pdf
//
// ST7789: https://www.rhydolabz.com/documents/33/ST7789.pdf
package mipidsi
