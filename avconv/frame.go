package avconv

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/hwscaler/logger"
	"github.com/xaionaro-go/hwscaler/types"
)

// FrameFromAV copies a libav video frame into a frame from alloc.
func FrameFromAV(
	ctx context.Context,
	src *astiav.Frame,
	timeBase astiav.Rational,
	alloc frame.Allocator,
) (_ret *frame.Frame, _err error) {
	logger.Tracef(ctx, "FrameFromAV")
	defer func() { logger.Tracef(ctx, "/FrameFromAV: %s %v", _ret, _err) }()

	pixFmt, err := PixelFormatFromAV(src.PixelFormat())
	if err != nil {
		return nil, err
	}
	geom := types.Geometry{
		Width:  uint32(src.Width()),
		Height: uint32(src.Height()),
	}
	packed, err := src.Data().Bytes(1)
	if err != nil {
		return nil, fmt.Errorf("unable to get the frame data: %w", err)
	}

	f, err := alloc.Allocate(ctx, pixFmt, geom)
	if err != nil {
		return nil, fmt.Errorf("unable to allocate a %s frame: %w", geom, err)
	}
	if err := unpackPlanes(f, packed); err != nil {
		f.Release()
		return nil, err
	}
	f.PTS = Duration(src.Pts(), timeBase)
	f.Duration = Duration(src.Duration(), timeBase)
	return f, nil
}

// FrameToAV makes dst a copy of src.
func FrameToAV(
	ctx context.Context,
	src *frame.Frame,
	dst *astiav.Frame,
	timeBase astiav.Rational,
) (_err error) {
	logger.Tracef(ctx, "FrameToAV: %s", src)
	defer func() { logger.Tracef(ctx, "/FrameToAV: %s: %v", src, _err) }()

	pixFmt, err := PixelFormatToAV(src.PixelFormat)
	if err != nil {
		return err
	}
	dst.Unref()
	dst.SetWidth(int(src.Geometry.Width))
	dst.SetHeight(int(src.Geometry.Height))
	dst.SetPixelFormat(pixFmt)
	if err := dst.AllocBuffer(0); err != nil {
		return fmt.Errorf("unable to allocate the frame buffer: %w", err)
	}
	if err := dst.Data().SetBytes(packPlanes(src), 1); err != nil {
		return fmt.Errorf("unable to set the frame data: %w", err)
	}
	dst.SetPts(FromDuration(src.PTS, timeBase))
	dst.SetDuration(FromDuration(src.Duration, timeBase))
	return nil
}

func rowLength(f *frame.Frame) int {
	return int(f.Geometry.Width * f.PixelFormat.BytesPerPixel())
}

// unpackPlanes copies tightly packed planes into the (possibly padded)
// rows of f.
func unpackPlanes(f *frame.Frame, packed []byte) error {
	rowLen, rows := rowLength(f), int(f.Geometry.Height)
	if required := rowLen * rows * f.PixelFormat.PlaneCount(); len(packed) < required {
		return fmt.Errorf("the libav frame data is too short: %d < %d", len(packed), required)
	}
	for p := 0; p < f.PixelFormat.PlaneCount(); p++ {
		plane := f.Plane(p)
		for y := 0; y < rows; y++ {
			srcOff := (p*rows + y) * rowLen
			copy(plane[y*int(f.Pitch):], packed[srcOff:srcOff+rowLen])
		}
	}
	return nil
}

// packPlanes returns the planes of f without the row padding.
func packPlanes(f *frame.Frame) []byte {
	rowLen, rows := rowLength(f), int(f.Geometry.Height)
	result := make([]byte, rowLen*rows*f.PixelFormat.PlaneCount())
	for p := 0; p < f.PixelFormat.PlaneCount(); p++ {
		plane := f.Plane(p)
		for y := 0; y < rows; y++ {
			dstOff := (p*rows + y) * rowLen
			copy(result[dstOff:dstOff+rowLen], plane[y*int(f.Pitch):])
		}
	}
	return result
}
