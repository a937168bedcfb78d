package software

import (
	"fmt"

	"github.com/xaionaro-go/hwscaler/accelerator"
)

// plane describes one plane of an image within a byte buffer.
type plane struct {
	Offset        int
	Pitch         int
	Rows          int
	BytesPerPixel int
	SubsampleX    int
	SubsampleY    int
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// planesOf returns the planes of an image of the given type. The chroma
// planes of YUV420 use half of the luma pitch.
func planesOf(
	imageType accelerator.ImageType,
	pitch uint32,
	height uint32,
) ([]plane, error) {
	p, h := int(pitch), int(height)
	switch imageType {
	case accelerator.ImageType8BPP:
		return []plane{{Pitch: p, Rows: h, BytesPerPixel: 1, SubsampleX: 1, SubsampleY: 1}}, nil
	case accelerator.ImageTypeRGBA32:
		return []plane{{Pitch: p, Rows: h, BytesPerPixel: 4, SubsampleX: 1, SubsampleY: 1}}, nil
	case accelerator.ImageTypeYUV420:
		cPitch, cRows := ceilDiv(p, 2), ceilDiv(h, 2)
		return []plane{
			{Offset: 0, Pitch: p, Rows: h, BytesPerPixel: 1, SubsampleX: 1, SubsampleY: 1},
			{Offset: p * h, Pitch: cPitch, Rows: cRows, BytesPerPixel: 1, SubsampleX: 2, SubsampleY: 2},
			{Offset: p*h + cPitch*cRows, Pitch: cPitch, Rows: cRows, BytesPerPixel: 1, SubsampleX: 2, SubsampleY: 2},
		}, nil
	}
	return nil, fmt.Errorf("image type %s: %w", imageType, accelerator.ErrNotSupported)
}

func bufferSize(planes []plane) int {
	last := planes[len(planes)-1]
	return last.Offset + last.Pitch*last.Rows
}

// copyRect copies rect (in full-resolution pixels) from src to dst, both
// laid out as the given planes.
func copyRect(
	dst []byte, dstPlanes []plane,
	src []byte, srcPlanes []plane,
	rect accelerator.Rect,
) error {
	if len(dstPlanes) != len(srcPlanes) {
		return fmt.Errorf("plane count mismatch: %d != %d", len(dstPlanes), len(srcPlanes))
	}
	for idx := range dstPlanes {
		dp, sp := dstPlanes[idx], srcPlanes[idx]
		x0 := int(rect.X) / dp.SubsampleX
		x1 := ceilDiv(int(rect.X+rect.Width), dp.SubsampleX)
		y0 := int(rect.Y) / dp.SubsampleY
		y1 := ceilDiv(int(rect.Y+rect.Height), dp.SubsampleY)
		rowStart, rowLen := x0*dp.BytesPerPixel, (x1-x0)*dp.BytesPerPixel
		if rowStart+rowLen > dp.Pitch || rowStart+rowLen > sp.Pitch {
			return fmt.Errorf("plane %d: the row (%d+%d bytes) exceeds the pitch (%d/%d)", idx, rowStart, rowLen, dp.Pitch, sp.Pitch)
		}
		if y1 > dp.Rows || y1 > sp.Rows {
			return fmt.Errorf("plane %d: the rect (rows %d..%d) exceeds the image (%d/%d rows)", idx, y0, y1, dp.Rows, sp.Rows)
		}
		for y := y0; y < y1; y++ {
			dOff := dp.Offset + y*dp.Pitch + rowStart
			sOff := sp.Offset + y*sp.Pitch + rowStart
			if dOff+rowLen > len(dst) {
				return fmt.Errorf("plane %d: the destination buffer is too short: %d < %d", idx, len(dst), dOff+rowLen)
			}
			if sOff+rowLen > len(src) {
				return fmt.Errorf("plane %d: the source buffer is too short: %d < %d", idx, len(src), sOff+rowLen)
			}
			copy(dst[dOff:dOff+rowLen], src[sOff:sOff+rowLen])
		}
	}
	return nil
}
