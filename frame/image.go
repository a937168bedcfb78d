package frame

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/xaionaro-go/hwscaler/palette"
	"github.com/xaionaro-go/hwscaler/types"
	"golang.org/x/image/draw"
)

// FromImage allocates a PackedRGBA32 frame and draws img into it.
func FromImage(
	ctx context.Context,
	alloc Allocator,
	img image.Image,
) (*Frame, error) {
	bounds := img.Bounds()
	f, err := alloc.Allocate(ctx, types.PixelFormatPackedRGBA32, types.Geometry{
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to allocate a frame: %w", err)
	}
	dst, err := f.ToImage()
	if err != nil {
		f.Release()
		return nil, err
	}
	draw.Draw(dst.(draw.Image), dst.Bounds(), img, bounds.Min, draw.Src)
	return f, nil
}

// ToImage returns the frame as a Go image. For PackedRGBA32 the image
// shares the memory with the frame; for other formats it is a copy.
func (f *Frame) ToImage() (image.Image, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid frame: %w", err)
	}
	w, h := int(f.Geometry.Width), int(f.Geometry.Height)
	rect := image.Rect(0, 0, w, h)
	pitch := int(f.Pitch)
	switch f.PixelFormat {
	case types.PixelFormatPackedRGBA32:
		return &image.NRGBA{
			Pix:    f.Data[:pitch*h],
			Stride: pitch,
			Rect:   rect,
		}, nil
	case types.PixelFormatPackedRGB32:
		img := image.NewNRGBA(rect)
		for y := 0; y < h; y++ {
			src := f.Data[y*pitch : y*pitch+w*4]
			dst := img.Pix[y*img.Stride : y*img.Stride+w*4]
			for x := 0; x < w*4; x += 4 {
				dst[x+0] = src[x+0]
				dst[x+1] = src[x+1]
				dst[x+2] = src[x+2]
				dst[x+3] = 0xff
			}
		}
		return img, nil
	case types.PixelFormatIndexed8:
		var table palette.Table
		palette.ConvertInto(&table, f.Palette.Used())
		p := make(color.Palette, len(table))
		for idx, c := range table {
			a, r, g, b := palette.UnpackARGB(c)
			p[idx] = color.NRGBA{R: r, G: g, B: b, A: a}
		}
		return &image.Paletted{
			Pix:     f.Data[:pitch*h],
			Stride:  pitch,
			Rect:    rect,
			Palette: p,
		}, nil
	case types.PixelFormatPlanarYUVA:
		return &image.NYCbCrA{
			YCbCr: image.YCbCr{
				Y:              f.Plane(0),
				Cb:             f.Plane(1),
				Cr:             f.Plane(2),
				YStride:        pitch,
				CStride:        pitch,
				SubsampleRatio: image.YCbCrSubsampleRatio444,
				Rect:           rect,
			},
			A:       f.Plane(3),
			AStride: pitch,
		}, nil
	}
	return nil, fmt.Errorf("pixel format %s is not supported", f.PixelFormat)
}
