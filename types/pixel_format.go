// pixel_format.go defines the PixelFormat enum and its methods.

// Package types provides common types used throughout the hwscaler project.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

type PixelFormat int

const (
	PixelFormatUndefined = PixelFormat(iota)

	// PixelFormatIndexed8 is one byte per pixel, resolved through a per-frame
	// palette of YUVA entries.
	PixelFormatIndexed8

	// PixelFormatPlanarYUVA is four full-resolution planes: Y, U, V, A.
	PixelFormatPlanarYUVA

	// PixelFormatPackedRGB32 is R, G, B and one padding byte per pixel.
	PixelFormatPackedRGB32

	// PixelFormatPackedRGBA32 is R, G, B, A per pixel.
	PixelFormatPackedRGBA32

	endOfPixelFormat
)

func (pf PixelFormat) String() string {
	switch pf {
	case PixelFormatUndefined:
		return "undefined"
	case PixelFormatIndexed8:
		return "indexed8"
	case PixelFormatPlanarYUVA:
		return "yuva"
	case PixelFormatPackedRGB32:
		return "rgb32"
	case PixelFormatPackedRGBA32:
		return "rgba32"
	}
	return fmt.Sprintf("unknown_%d", int(pf))
}

func (pf PixelFormat) IsValid() bool {
	return pf > PixelFormatUndefined && pf < endOfPixelFormat
}

// BytesPerPixel returns the size of one pixel within the first plane.
func (pf PixelFormat) BytesPerPixel() uint32 {
	switch pf {
	case PixelFormatIndexed8, PixelFormatPlanarYUVA:
		return 1
	case PixelFormatPackedRGB32, PixelFormatPackedRGBA32:
		return 4
	}
	return 0
}

func (pf PixelFormat) PlaneCount() int {
	switch pf {
	case PixelFormatPlanarYUVA:
		return 4
	case PixelFormatIndexed8, PixelFormatPackedRGB32, PixelFormatPackedRGBA32:
		return 1
	}
	return 0
}

// BufferSize returns the amount of bytes required to store all the planes
// of an image with the given height and row pitch.
func (pf PixelFormat) BufferSize(pitch, height uint32) int {
	return int(pitch) * int(height) * pf.PlaneCount()
}

func PixelFormatFromString(s string) (PixelFormat, error) {
	s = strings.Trim(strings.ToLower(s), " \"\n\r\t")
	switch s {
	case "yuvp", "pal8":
		return PixelFormatIndexed8, nil
	case "yuva444p":
		return PixelFormatPlanarYUVA, nil
	case "rv32", "rgb0":
		return PixelFormatPackedRGB32, nil
	case "rgba":
		return PixelFormatPackedRGBA32, nil
	}
	for candidate := PixelFormatIndexed8; candidate < endOfPixelFormat; candidate++ {
		if candidate.String() == s {
			return candidate, nil
		}
	}
	return PixelFormatUndefined, fmt.Errorf("unknown pixel format: '%s'", s)
}

func (pf *PixelFormat) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("unable to unmarshal the pixel format: %w", err)
	}
	v, err := PixelFormatFromString(s)
	if err != nil {
		return err
	}
	*pf = v
	return nil
}

func (pf PixelFormat) MarshalYAML() (any, error) {
	return pf.String(), nil
}

func (pf PixelFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(pf.String())
}
