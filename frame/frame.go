// frame.go defines the Frame type: one picture together with its metadata.

// Package frame provides the picture buffers consumed and produced by the scalers.
package frame

import (
	"fmt"
	"sync/atomic"

	"github.com/xaionaro-go/hwscaler/types"
)

type Frame struct {
	PixelFormat types.PixelFormat
	Geometry    types.Geometry

	// Pitch is the length of a row of the first plane in bytes. All the
	// planes of a planar format share the same pitch.
	Pitch uint32

	// Data contains the planes one after another, each Pitch*Height bytes.
	Data []byte

	// Palette is set only for PixelFormatIndexed8.
	Palette *Palette

	Properties

	releaseFunc func(*Frame)
	released    atomic.Bool
}

// New wraps the given buffer into a Frame. The buffer is not copied.
func New(
	pixFmt types.PixelFormat,
	geometry types.Geometry,
	pitch uint32,
	data []byte,
) *Frame {
	return &Frame{
		PixelFormat: pixFmt,
		Geometry:    geometry,
		Pitch:       pitch,
		Data:        data,
	}
}

func (f *Frame) String() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Frame(%s:%s, pitch:%d, pts:%v)", f.Geometry, f.PixelFormat, f.Pitch, f.PTS)
}

// SetReleaseFunc sets the function called (once) by Release.
func (f *Frame) SetReleaseFunc(fn func(*Frame)) {
	f.releaseFunc = fn
	f.released.Store(false)
}

// Release hands the frame back to its owner. The frame must not be used
// after that. Calling Release more than once is a no-op.
func (f *Frame) Release() {
	if f == nil {
		return
	}
	if !f.released.CompareAndSwap(false, true) {
		return
	}
	if f.releaseFunc != nil {
		f.releaseFunc(f)
	}
}

func (f *Frame) IsReleased() bool {
	return f.released.Load()
}

// CopyProperties copies the timing information and the flags of src.
func (f *Frame) CopyProperties(src *Frame) {
	f.Properties = src.Properties
}

// Plane returns the idx-th plane of the frame.
func (f *Frame) Plane(idx int) []byte {
	size := int(f.Pitch) * int(f.Geometry.Height)
	start := size * idx
	if idx < 0 || start+size > len(f.Data) {
		return nil
	}
	return f.Data[start : start+size]
}

// Validate checks that the buffer is large enough for the declared layout.
func (f *Frame) Validate() error {
	if !f.PixelFormat.IsValid() {
		return fmt.Errorf("invalid pixel format: %s", f.PixelFormat)
	}
	if f.Geometry.IsZero() {
		return fmt.Errorf("the geometry has no area: %s", f.Geometry)
	}
	minPitch := f.Geometry.Width * f.PixelFormat.BytesPerPixel()
	if f.Pitch < minPitch {
		return fmt.Errorf("the pitch is too small: %d < %d", f.Pitch, minPitch)
	}
	if required := f.PixelFormat.BufferSize(f.Pitch, f.Geometry.Height); len(f.Data) < required {
		return fmt.Errorf("the buffer is too small: %d < %d", len(f.Data), required)
	}
	if f.PixelFormat == types.PixelFormatIndexed8 && f.Palette == nil {
		return fmt.Errorf("no palette in an indexed frame")
	}
	return nil
}
