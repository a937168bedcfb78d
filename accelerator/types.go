package accelerator

import (
	"fmt"
	"strings"
)

type ResourceHandle uint32
type DisplayHandle uint32
type UpdateHandle uint32
type ElementHandle uint32

// NoHandle is the zero value of every handle type; no valid handle equals it.
const NoHandle = 0

// ImageType is the layout of the pixels stored in a resource.
type ImageType int

const (
	ImageTypeUndefined = ImageType(iota)

	// ImageType8BPP is one palette index per pixel.
	ImageType8BPP

	// ImageTypeYUV420 is the I420 layout: a Y plane followed by quarter-size
	// U and V planes.
	ImageTypeYUV420

	// ImageTypeRGBA32 is R, G, B, A bytes per pixel.
	ImageTypeRGBA32
)

func (t ImageType) String() string {
	switch t {
	case ImageTypeUndefined:
		return "undefined"
	case ImageType8BPP:
		return "8bpp"
	case ImageTypeYUV420:
		return "yuv420"
	case ImageTypeRGBA32:
		return "rgba32"
	}
	return fmt.Sprintf("unknown_%d", int(t))
}

// BytesPerPixel returns the size of a pixel in the first plane.
func (t ImageType) BytesPerPixel() uint32 {
	switch t {
	case ImageType8BPP, ImageTypeYUV420:
		return 1
	case ImageTypeRGBA32:
		return 4
	}
	return 0
}

// Rect is a rectangle. Source rectangles of elements are in 16.16 fixed
// point, every other rectangle is in pixels.
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

func NewRect(x, y, width, height int32) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// MaxFixedPointCoordinate is the largest pixel coordinate (or size) which
// survives the conversion to 16.16 fixed point.
const MaxFixedPointCoordinate = 1<<15 - 1

// FixedPointRect converts a pixel rectangle into the 16.16 fixed point
// representation.
func FixedPointRect(r Rect) Rect {
	return Rect{
		X:      r.X << 16,
		Y:      r.Y << 16,
		Width:  r.Width << 16,
		Height: r.Height << 16,
	}
}

// PixelRect is the reverse of FixedPointRect (the fraction is discarded).
func PixelRect(r Rect) Rect {
	return Rect{
		X:      r.X >> 16,
		Y:      r.Y >> 16,
		Width:  r.Width >> 16,
		Height: r.Height >> 16,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

type AlphaFlags uint32

const (
	AlphaFromSource          = AlphaFlags(0)
	AlphaFixedAllPixels      = AlphaFlags(1)
	AlphaFixedNonZero        = AlphaFlags(2)
	AlphaFixedExceed0x07     = AlphaFlags(3)
	AlphaPremultiplied       = AlphaFlags(1 << 16)
	AlphaMix                 = AlphaFlags(1 << 17)
	alphaSourceSelectionMask = AlphaFlags(0xffff)
)

// Source returns the alpha source selection bits.
func (f AlphaFlags) Source() AlphaFlags {
	return f & alphaSourceSelectionMask
}

func (f AlphaFlags) String() string {
	var parts []string
	switch f.Source() {
	case AlphaFromSource:
		parts = append(parts, "from_source")
	case AlphaFixedAllPixels:
		parts = append(parts, "fixed_all_pixels")
	case AlphaFixedNonZero:
		parts = append(parts, "fixed_non_zero")
	case AlphaFixedExceed0x07:
		parts = append(parts, "fixed_exceed_0x07")
	default:
		parts = append(parts, fmt.Sprintf("source_%d", uint32(f.Source())))
	}
	if f&AlphaPremultiplied != 0 {
		parts = append(parts, "premult")
	}
	if f&AlphaMix != 0 {
		parts = append(parts, "mix")
	}
	return strings.Join(parts, "|")
}

type Alpha struct {
	Flags   AlphaFlags
	Opacity uint32
	Mask    ResourceHandle
}

type Transform uint32

const (
	TransformNoRotate = Transform(iota)
	TransformRotate90
	TransformRotate180
	TransformRotate270
)

func (t Transform) String() string {
	switch t {
	case TransformNoRotate:
		return "rot0"
	case TransformRotate90:
		return "rot90"
	case TransformRotate180:
		return "rot180"
	case TransformRotate270:
		return "rot270"
	}
	return fmt.Sprintf("transform_%d", uint32(t))
}

type Protection uint32

const (
	ProtectionNone = Protection(0)
)

// ResourceConfig describes the image stored in a resource.
type ResourceConfig struct {
	ImageType ImageType
	Width     uint32
	Height    uint32

	// Pitch is the length of a row in bytes; zero means Width*BytesPerPixel.
	Pitch uint32

	// AlignedHeight is the amount of rows allocated; zero means Height.
	AlignedHeight uint32
}

func (cfg ResourceConfig) String() string {
	return fmt.Sprintf("%dx%d:%s(pitch:%d)", cfg.Width, cfg.Height, cfg.ImageType, cfg.EffectivePitch())
}

func (cfg ResourceConfig) EffectivePitch() uint32 {
	if cfg.Pitch != 0 {
		return cfg.Pitch
	}
	return cfg.Width * cfg.ImageType.BytesPerPixel()
}

func (cfg ResourceConfig) EffectiveAlignedHeight() uint32 {
	if cfg.AlignedHeight != 0 {
		return cfg.AlignedHeight
	}
	return cfg.Height
}

// ElementConfig describes how a resource is placed onto a display.
type ElementConfig struct {
	Layer           int32
	DestinationRect Rect
	Source          ResourceHandle
	SourceRect      Rect
	Protection      Protection
	Alpha           Alpha
	Transform       Transform
}
