package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGeometryScaleCropAR(t *testing.T) {
	for _, tc := range []struct {
		box      Geometry
		src      Geometry
		expected Geometry
	}{
		{Geometry{Width: 1920, Height: 1080}, Geometry{Width: 640, Height: 480}, Geometry{Width: 1440, Height: 1080}},
		{Geometry{Width: 1920, Height: 1080}, Geometry{Width: 1280, Height: 720}, Geometry{Width: 1920, Height: 1080}},
		{Geometry{Width: 640, Height: 480}, Geometry{Width: 1920, Height: 1080}, Geometry{Width: 640, Height: 360}},
		{Geometry{Width: 4, Height: 4}, Geometry{Width: 2, Height: 2}, Geometry{Width: 4, Height: 4}},
		{Geometry{Width: 100, Height: 100}, Geometry{Width: 10000, Height: 1}, Geometry{Width: 100, Height: 1}},
		{Geometry{Width: 100, Height: 100}, Geometry{Width: 1, Height: 10000}, Geometry{Width: 1, Height: 100}},
		{Geometry{Width: 100, Height: 100}, Geometry{}, Geometry{Width: 100, Height: 100}},
		{Geometry{}, Geometry{Width: 10, Height: 10}, Geometry{}},
	} {
		t.Run(fmt.Sprintf("%s_into_%s", tc.src, tc.box), func(t *testing.T) {
			result := tc.box.ScaleCropAR(tc.src)
			require.Equal(t, tc.expected, result)
			if !tc.box.IsZero() && !tc.src.IsZero() {
				require.LessOrEqual(t, result.Width, tc.box.Width)
				require.LessOrEqual(t, result.Height, tc.box.Height)
			}
		})
	}
}

func TestGeometryParse(t *testing.T) {
	g := Geometry{Orientation: OrientationHFlipped}
	require.NoError(t, g.Parse("1280x720"))
	require.Equal(t, Geometry{Width: 1280, Height: 720, Orientation: OrientationHFlipped}, g)
	require.Equal(t, "1280x720(hflip)", g.String())

	require.Error(t, g.Parse("1280"))
	require.Error(t, g.Parse("big"))
}

func TestPixelFormatFromString(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected PixelFormat
	}{
		{"indexed8", PixelFormatIndexed8},
		{"yuvp", PixelFormatIndexed8},
		{"PAL8", PixelFormatIndexed8},
		{"yuva", PixelFormatPlanarYUVA},
		{"yuva444p", PixelFormatPlanarYUVA},
		{"rv32", PixelFormatPackedRGB32},
		{"rgb32", PixelFormatPackedRGB32},
		{" rgba ", PixelFormatPackedRGBA32},
		{"rgba32", PixelFormatPackedRGBA32},
	} {
		t.Run(tc.input, func(t *testing.T) {
			pf, err := PixelFormatFromString(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, pf)
		})
	}

	_, err := PixelFormatFromString("nv12")
	require.Error(t, err)
	_, err = PixelFormatFromString("undefined")
	require.Error(t, err)
}

func TestPixelFormatBufferSize(t *testing.T) {
	require.Equal(t, 4*16*3, PixelFormatPlanarYUVA.BufferSize(16, 3))
	require.Equal(t, 64*3, PixelFormatPackedRGBA32.BufferSize(64, 3))
	require.Equal(t, 0, PixelFormatUndefined.BufferSize(64, 3))
	require.False(t, PixelFormatUndefined.IsValid())
	require.False(t, endOfPixelFormat.IsValid())
}

func TestVideoFormatYAML(t *testing.T) {
	in := VideoFormat{
		PixelFormat: PixelFormatIndexed8,
		Geometry:    Geometry{Width: 720, Height: 576},
	}
	b, err := yaml.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, "pixel_format: indexed8\nwidth: 720\nheight: 576\n", string(b))

	var out VideoFormat
	require.NoError(t, yaml.Unmarshal([]byte("pixel_format: rgba\nwidth: 1920\nheight: 1080\norientation: rotate90\n"), &out))
	require.Equal(t, VideoFormat{
		PixelFormat: PixelFormatPackedRGBA32,
		Geometry:    Geometry{Width: 1920, Height: 1080, Orientation: OrientationRotated90},
	}, out)

	require.Error(t, yaml.Unmarshal([]byte("pixel_format: nv12\n"), &out))
}

func TestOrientationFromString(t *testing.T) {
	for o := OrientationNormal; o < endOfOrientation; o++ {
		parsed, err := OrientationFromString(o.String())
		require.NoError(t, err)
		require.Equal(t, o, parsed)
	}
	o, err := OrientationFromString("")
	require.NoError(t, err)
	require.Equal(t, OrientationNormal, o)
	_, err = OrientationFromString("sideways")
	require.Error(t, err)
}
