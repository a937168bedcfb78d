package scaler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwscaler/types"
)

func TestReadConfig(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		cfg, err := ReadConfig(strings.NewReader(""))
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("full", func(t *testing.T) {
		cfg, err := ReadConfig(strings.NewReader(`
input:
  pixel_format: yuvp
  width: 720
  height: 576
output:
  width: 1920
  height: 1080
layer: 2
update_priority: 10
`))
		require.NoError(t, err)
		require.Equal(t, Config{
			Input: types.VideoFormat{
				PixelFormat: types.PixelFormatIndexed8,
				Geometry:    types.Geometry{Width: 720, Height: 576},
			},
			Output: types.VideoFormat{
				PixelFormat: types.PixelFormatPackedRGBA32,
				Geometry:    types.Geometry{Width: 1920, Height: 1080},
			},
			Layer:          2,
			UpdatePriority: 10,
		}, cfg)

		var buf bytes.Buffer
		_, err = cfg.WriteTo(&buf)
		require.NoError(t, err)
		reread, err := ReadConfig(&buf)
		require.NoError(t, err)
		require.Equal(t, cfg, reread)

		opts := cfg.Options()
		layer, ok := OptionLatest[OptionLayer](opts)
		require.True(t, ok)
		require.Equal(t, int32(2), layer.Layer)
		h := NewHardware(nil, nil, opts...)
		require.Equal(t, int32(2), h.layer)
		require.Equal(t, int32(10), h.updatePriority)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ReadConfig(strings.NewReader("input:\n  pixel_format: nv12\n"))
		require.Error(t, err)
	})
}

func TestOptionLatest(t *testing.T) {
	opts := Options{OptionLayer{Layer: 1}, OptionUpdatePriority{Priority: 5}, OptionLayer{Layer: 2}}
	layer, ok := OptionLatest[OptionLayer](opts)
	require.True(t, ok)
	require.Equal(t, int32(2), layer.Layer)

	_, ok = OptionLatest[OptionUpdatePriority](Options{})
	require.False(t, ok)
}
