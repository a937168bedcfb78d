package avconv

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/hwscaler/types"
)

func PixelFormatFromAV(pixFmt astiav.PixelFormat) (types.PixelFormat, error) {
	switch pixFmt {
	case astiav.PixelFormatRgba:
		return types.PixelFormatPackedRGBA32, nil
	case astiav.PixelFormatRgb0:
		return types.PixelFormatPackedRGB32, nil
	case astiav.PixelFormatYuva444P:
		return types.PixelFormatPlanarYUVA, nil
	}
	return types.PixelFormatUndefined, fmt.Errorf("libav pixel format %s has no counterpart", pixFmt)
}

func PixelFormatToAV(pixFmt types.PixelFormat) (astiav.PixelFormat, error) {
	switch pixFmt {
	case types.PixelFormatPackedRGBA32:
		return astiav.PixelFormatRgba, nil
	case types.PixelFormatPackedRGB32:
		return astiav.PixelFormatRgb0, nil
	case types.PixelFormatPlanarYUVA:
		return astiav.PixelFormatYuva444P, nil
	}
	return astiav.PixelFormatNone, fmt.Errorf("pixel format %s has no libav counterpart", pixFmt)
}
