package avconv

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/hwscaler/logger"
	"github.com/xaionaro-go/hwscaler/scaler"
	"github.com/xaionaro-go/hwscaler/types"
)

// Scaler scales libav frames using a scaler.Scaler.
type Scaler struct {
	Scaler    scaler.Scaler
	Allocator frame.Allocator
	TimeBase  astiav.Rational
}

// NewScaler negotiates the scaler for the given libav formats.
func NewScaler(
	ctx context.Context,
	s scaler.Scaler,
	alloc frame.Allocator,
	timeBase astiav.Rational,
	src types.Geometry,
	srcPixFmt astiav.PixelFormat,
	dst types.Geometry,
	dstPixFmt astiav.PixelFormat,
) (*Scaler, error) {
	in, err := PixelFormatFromAV(srcPixFmt)
	if err != nil {
		return nil, fmt.Errorf("unsupported source format: %w", err)
	}
	out, err := PixelFormatFromAV(dstPixFmt)
	if err != nil {
		return nil, fmt.Errorf("unsupported destination format: %w", err)
	}
	if err := s.Negotiate(
		ctx,
		types.VideoFormat{PixelFormat: in, Geometry: src},
		types.VideoFormat{PixelFormat: out, Geometry: dst},
	); err != nil {
		return nil, fmt.Errorf("unable to negotiate %s: %w", s, err)
	}
	return &Scaler{
		Scaler:    s,
		Allocator: alloc,
		TimeBase:  timeBase,
	}, nil
}

func (s *Scaler) String() string {
	return fmt.Sprintf("AVScaler(%s)", s.Scaler)
}

func (s *Scaler) Close(ctx context.Context) error {
	return s.Scaler.Close(ctx)
}

func (s *Scaler) ScaleFrame(
	ctx context.Context,
	src *astiav.Frame,
	dst *astiav.Frame,
) (_err error) {
	logger.Tracef(ctx, "ScaleFrame")
	defer func() { logger.Tracef(ctx, "/ScaleFrame: %v", _err) }()

	in, err := FrameFromAV(ctx, src, s.TimeBase, s.Allocator)
	if err != nil {
		return fmt.Errorf("unable to convert the source frame: %w", err)
	}
	out, err := s.Scaler.Scale(ctx, in)
	if err != nil {
		return fmt.Errorf("unable to scale the frame: %w", err)
	}
	defer out.Release()
	if err := FrameToAV(ctx, out, dst, s.TimeBase); err != nil {
		return fmt.Errorf("unable to convert the destination frame: %w", err)
	}
	return nil
}

func (s *Scaler) SourceResolution() types.Geometry {
	return s.Scaler.InputFormat().Geometry
}

func (s *Scaler) SourcePixelFormat() astiav.PixelFormat {
	pixFmt, _ := PixelFormatToAV(s.Scaler.InputFormat().PixelFormat)
	return pixFmt
}

func (s *Scaler) DestinationResolution() types.Geometry {
	return s.Scaler.OutputFormat().Geometry
}

func (s *Scaler) DestinationPixelFormat() astiav.PixelFormat {
	pixFmt, _ := PixelFormatToAV(s.Scaler.OutputFormat().PixelFormat)
	return pixFmt
}
