// allocator.go provides the Allocator interface and a pool-backed implementation.

package frame

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/hwscaler/logger"
	"github.com/xaionaro-go/hwscaler/pool"
	"github.com/xaionaro-go/hwscaler/types"
)

// Allocator provides writable frames.
//
// The returned frame must have Pitch >= Width * BytesPerPixel.
type Allocator interface {
	Allocate(ctx context.Context, pixFmt types.PixelFormat, geometry types.Geometry) (*Frame, error)
}

type AllocatorFunc func(ctx context.Context, pixFmt types.PixelFormat, geometry types.Geometry) (*Frame, error)

func (fn AllocatorFunc) Allocate(
	ctx context.Context,
	pixFmt types.PixelFormat,
	geometry types.Geometry,
) (*Frame, error) {
	return fn(ctx, pixFmt, geometry)
}

const DefaultPitchAlignment = 16

// PoolAllocator recycles frames and their pixel buffers.
type PoolAllocator struct {
	// PitchAlignment is the alignment of each row in bytes; values below 2
	// mean "tightly packed".
	PitchAlignment uint32

	frames  *pool.Pool[Frame]
	buffers *pool.Buffers
}

var _ Allocator = (*PoolAllocator)(nil)

func NewPoolAllocator(pitchAlignment uint32) *PoolAllocator {
	return &PoolAllocator{
		PitchAlignment: pitchAlignment,
		frames: pool.NewPool(
			func() *Frame { return &Frame{} },
			nil,
		),
		buffers: pool.NewBuffers(),
	}
}

func (a *PoolAllocator) pitchFor(pixFmt types.PixelFormat, width uint32) uint32 {
	pitch := width * pixFmt.BytesPerPixel()
	if align := a.PitchAlignment; align > 1 {
		pitch = (pitch + align - 1) / align * align
	}
	return pitch
}

func (a *PoolAllocator) Allocate(
	ctx context.Context,
	pixFmt types.PixelFormat,
	geometry types.Geometry,
) (_ret *Frame, _err error) {
	logger.Tracef(ctx, "Allocate(ctx, %s, %s)", pixFmt, geometry)
	defer func() { logger.Tracef(ctx, "/Allocate(ctx, %s, %s): %v %v", pixFmt, geometry, _ret, _err) }()

	if !pixFmt.IsValid() {
		return nil, fmt.Errorf("invalid pixel format: %s", pixFmt)
	}
	if geometry.IsZero() {
		return nil, fmt.Errorf("unable to allocate a frame of size %s", geometry)
	}

	pitch := a.pitchFor(pixFmt, geometry.Width)
	size := pixFmt.BufferSize(pitch, geometry.Height)
	logger.Tracef(ctx, "allocating %s for a %s frame", humanize.Bytes(uint64(size)), pixFmt)

	f := a.frames.Get()
	f.PixelFormat = pixFmt
	f.Geometry = geometry
	f.Pitch = pitch
	f.Data = a.buffers.Get(size)
	f.Properties = Properties{}
	if pixFmt == types.PixelFormatIndexed8 {
		f.Palette = &Palette{}
	}
	f.SetReleaseFunc(a.release)
	return f, nil
}

func (a *PoolAllocator) release(f *Frame) {
	a.buffers.Put(f.Data)
	f.Data = nil
	f.Palette = nil
	a.frames.Put(f)
}
