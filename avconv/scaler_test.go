package avconv

import (
	"context"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwscaler/accelerator/software"
	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/hwscaler/scaler"
	"github.com/xaionaro-go/hwscaler/types"
)

func TestScalerScaleFrame(t *testing.T) {
	ctx := context.Background()
	timeBase := astiav.NewRational(1, 1000)
	alloc := frame.NewPoolAllocator(frame.DefaultPitchAlignment)

	s, err := NewScaler(
		ctx,
		scaler.NewHardware(software.New(software.InterpolationNearestNeighbor), alloc),
		alloc,
		timeBase,
		types.Geometry{Width: 2, Height: 2}, astiav.PixelFormatRgba,
		types.Geometry{Width: 4, Height: 4}, astiav.PixelFormatRgba,
	)
	require.NoError(t, err)
	defer s.Close(ctx)
	require.Equal(t, types.Geometry{Width: 4, Height: 4}, s.DestinationResolution())
	require.Equal(t, astiav.PixelFormatRgba, s.SourcePixelFormat())

	src := astiav.AllocFrame()
	defer src.Free()
	src.SetWidth(2)
	src.SetHeight(2)
	src.SetPixelFormat(astiav.PixelFormatRgba)
	src.SetPts(40)
	require.NoError(t, src.AllocBuffer(0))
	require.NoError(t, src.Data().SetBytes([]byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}, 1))

	dst := astiav.AllocFrame()
	defer dst.Free()
	require.NoError(t, s.ScaleFrame(ctx, src, dst))
	require.Equal(t, 4, dst.Width())
	require.Equal(t, 4, dst.Height())
	require.Equal(t, astiav.PixelFormatRgba, dst.PixelFormat())
	require.Equal(t, int64(40), dst.Pts())

	data, err := dst.Data().Bytes(1)
	require.NoError(t, err)
	require.Len(t, data, 4*4*4)
	require.Equal(t, []byte{255, 0, 0, 255}, data[0:4])
	require.Equal(t, []byte{255, 255, 255, 255}, data[len(data)-4:])
}

func TestNewScalerRejects(t *testing.T) {
	ctx := context.Background()
	alloc := frame.NewPoolAllocator(frame.DefaultPitchAlignment)
	_, err := NewScaler(
		ctx,
		scaler.NewHardware(software.New(software.InterpolationNearestNeighbor), alloc),
		alloc,
		astiav.NewRational(1, 1000),
		types.Geometry{Width: 2, Height: 2}, astiav.PixelFormatRgba,
		types.Geometry{Width: 4, Height: 4}, astiav.PixelFormatYuva444P,
	)
	require.ErrorAs(t, err, &scaler.ErrNegotiationRejected{})
}
