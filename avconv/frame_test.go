package avconv

import (
	"context"
	"testing"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/hwscaler/types"
)

func TestDuration(t *testing.T) {
	ms := astiav.NewRational(1, 1000)
	require.Equal(t, 40*time.Millisecond, Duration(40, ms))
	require.Equal(t, int64(40), FromDuration(40*time.Millisecond, ms))
	require.Equal(t, NoDuration, Duration(avNoPTSValue, ms))
	require.Equal(t, NoDuration, Duration(1, astiav.NewRational(1, 0)))
	require.Equal(t, int64(avNoPTSValue), FromDuration(NoDuration, ms))

	ntsc := astiav.NewRational(1001, 30000)
	require.Equal(t, int64(3), FromDuration(Duration(3, ntsc), ntsc))
}

func TestPixelFormatMapping(t *testing.T) {
	for _, pixFmt := range []types.PixelFormat{
		types.PixelFormatPackedRGBA32,
		types.PixelFormatPackedRGB32,
		types.PixelFormatPlanarYUVA,
	} {
		av, err := PixelFormatToAV(pixFmt)
		require.NoError(t, err)
		back, err := PixelFormatFromAV(av)
		require.NoError(t, err)
		require.Equal(t, pixFmt, back)
	}

	_, err := PixelFormatToAV(types.PixelFormatIndexed8)
	require.Error(t, err)
	_, err = PixelFormatFromAV(astiav.PixelFormatNv12)
	require.Error(t, err)
}

func TestPackPlanes(t *testing.T) {
	ctx := context.Background()
	f, err := frame.NewPoolAllocator(frame.DefaultPitchAlignment).Allocate(
		ctx,
		types.PixelFormatPlanarYUVA,
		types.Geometry{Width: 3, Height: 2},
	)
	require.NoError(t, err)
	defer f.Release()
	require.Equal(t, uint32(16), f.Pitch)

	packed := make([]byte, 3*2*4)
	for idx := range packed {
		packed[idx] = byte(idx + 1)
	}
	require.NoError(t, unpackPlanes(f, packed))
	require.Equal(t, []byte{1, 2, 3}, f.Plane(0)[0:3])
	require.Equal(t, []byte{4, 5, 6}, f.Plane(0)[16:19])
	require.Equal(t, []byte{7, 8, 9}, f.Plane(1)[0:3])
	require.Equal(t, []byte{22, 23, 24}, f.Plane(3)[16:19])
	require.Equal(t, packed, packPlanes(f))

	require.Error(t, unpackPlanes(f, packed[:10]))
}
