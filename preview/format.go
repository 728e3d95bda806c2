// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import "fmt"

// ImageFormat is the encoding of the streamed frames.
type ImageFormat int

// Supported formats.
const (
	PNG ImageFormat = iota
	JPEG
)

func (f ImageFormat) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return fmt.Sprintf("ImageFormat(%d)", int(f))
	}
}

func (f ImageFormat) mimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// ParseImageFormat returns the format named by s: "png", "jpg" or "jpeg".
func ParseImageFormat(s string) (ImageFormat, error) {
	switch s {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	default:
		return PNG, fmt.Errorf("preview: unrecognized image format %q", s)
	}
}
