// hardware.go implements a Scaler which offloads the work to a 2D compositor.

package scaler

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/hwscaler/accelerator"
	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/hwscaler/logger"
	"github.com/xaionaro-go/hwscaler/palette"
	"github.com/xaionaro-go/hwscaler/types"
	"go.uber.org/atomic"
)

// Hardware scales frames by composing them onto an offscreen display of
// the accelerator and reading the result back.
//
// It does no locking: use one Hardware per goroutine and serialize the
// access to a shared accelerator (see Locked).
type Hardware struct {
	Accelerator accelerator.Accelerator
	Allocator   frame.Allocator

	layer          int32
	updatePriority int32
	counters       counters
	closed         atomic.Bool

	negotiated bool
	input      types.VideoFormat
	output     types.VideoFormat
	imageType  accelerator.ImageType
}

var _ Scaler = (*Hardware)(nil)

func NewHardware(
	accel accelerator.Accelerator,
	alloc frame.Allocator,
	opts ...Option,
) *Hardware {
	h := &Hardware{
		Accelerator: accel,
		Allocator:   alloc,
	}
	if opt, ok := OptionLatest[OptionLayer](opts); ok {
		h.layer = opt.Layer
	}
	if opt, ok := OptionLatest[OptionUpdatePriority](opts); ok {
		h.updatePriority = opt.Priority
	}
	return h
}

func (h *Hardware) String() string {
	if !h.negotiated {
		return fmt.Sprintf("HardwareScaler(%s)", h.Accelerator)
	}
	return fmt.Sprintf("HardwareScaler(%s: %s -> %s)", h.Accelerator, h.input, h.output)
}

func (h *Hardware) Close(ctx context.Context) error {
	logger.Tracef(ctx, "Close")
	defer logger.Tracef(ctx, "/Close")
	h.closed.Store(true)
	return nil
}

func (h *Hardware) IsClosed() bool {
	return h.closed.Load()
}

func (h *Hardware) InputFormat() types.VideoFormat {
	return h.input
}

// OutputFormat returns the output format with the geometry adjusted to
// the aspect ratio of the input.
func (h *Hardware) OutputFormat() types.VideoFormat {
	result := h.output
	result.Geometry = h.output.Geometry.ScaleCropAR(h.input.Geometry)
	return result
}

// ImageType returns the accelerator image type committed to by Negotiate.
func (h *Hardware) ImageType() accelerator.ImageType {
	return h.imageType
}

func (h *Hardware) GetStats() Statistics {
	return h.counters.Convert()
}

// imageTypeFor maps the input pixel formats onto the accelerator image types.
func imageTypeFor(pixFmt types.PixelFormat) (accelerator.ImageType, bool) {
	switch pixFmt {
	case types.PixelFormatIndexed8:
		return accelerator.ImageType8BPP, true
	case types.PixelFormatPlanarYUVA:
		// TODO: honor the alpha plane once the accelerator gets a YUVA image type.
		return accelerator.ImageTypeYUV420, true
	case types.PixelFormatPackedRGB32, types.PixelFormatPackedRGBA32:
		return accelerator.ImageTypeRGBA32, true
	}
	return accelerator.ImageTypeUndefined, false
}

func (h *Hardware) Negotiate(
	ctx context.Context,
	input, output types.VideoFormat,
) (_err error) {
	logger.Tracef(ctx, "Negotiate(ctx, %s, %s)", input, output)
	defer func() { logger.Tracef(ctx, "/Negotiate(ctx, %s, %s): %v", input, output, _err) }()

	reject := func(reason string) error {
		return ErrNegotiationRejected{Input: input, Output: output, Reason: reason}
	}

	imageType, ok := imageTypeFor(input.PixelFormat)
	if !ok {
		return reject(fmt.Sprintf("input pixel format %s is not supported", input.PixelFormat))
	}
	if output.PixelFormat != types.PixelFormatPackedRGBA32 {
		return reject(fmt.Sprintf("output pixel format %s is not supported", output.PixelFormat))
	}
	if input.Orientation != output.Orientation {
		return reject(fmt.Sprintf("rotation %s -> %s is not supported", input.Orientation, output.Orientation))
	}
	for _, geom := range []types.Geometry{input.Geometry, output.Geometry} {
		if geom.Width > accelerator.MaxFixedPointCoordinate || geom.Height > accelerator.MaxFixedPointCoordinate {
			return reject(fmt.Sprintf("geometry %s exceeds %d pixels", geom, accelerator.MaxFixedPointCoordinate))
		}
	}
	if input.PixelFormat == types.PixelFormatPlanarYUVA {
		logger.Debugf(ctx, "YUVA is not supported yet, the alpha plane will be ignored")
	}

	if err := accelerator.Init(ctx, h.Accelerator); err != nil {
		return fmt.Errorf("unable to initialize the accelerator: %w", err)
	}

	h.input, h.output = input, output
	h.imageType = imageType
	h.negotiated = true
	logger.Debugf(ctx, "%s -> %s", input.Geometry, output.Geometry)
	return nil
}

func (h *Hardware) Scale(
	ctx context.Context,
	input *frame.Frame,
) (_ret *frame.Frame, _err error) {
	logger.Tracef(ctx, "Scale(ctx, %s)", input)
	defer func() { logger.Tracef(ctx, "/Scale(ctx): %s, %v", _ret, _err) }()

	if input == nil {
		return nil, ErrNilFrame{}
	}
	h.counters.FramesReceived.Inc()
	defer input.Release()

	if h.IsClosed() {
		return nil, ErrClosed{}
	}
	if !h.negotiated {
		return nil, ErrNotNegotiated{}
	}

	inGeom, outGeom := h.input.Geometry, h.output.Geometry
	if inGeom.IsZero() || outGeom.IsZero() {
		h.counters.FramesDropped.Degenerate.Inc()
		return nil, ErrDegenerateGeometry{Input: inGeom, Output: outGeom}
	}
	if err := h.checkInput(input); err != nil {
		h.counters.FramesDropped.Invalid.Inc()
		return nil, ErrInvalidFrame{Err: err}
	}

	outGeom = outGeom.ScaleCropAR(inGeom)

	output, err := h.Allocator.Allocate(ctx, types.PixelFormatPackedRGBA32, outGeom)
	if err == nil {
		err = checkOutput(output, outGeom)
		if err != nil {
			output.Release()
		}
	}
	if err != nil {
		h.counters.FramesDropped.Allocation.Inc()
		return nil, ErrAllocationFailure{Err: err}
	}

	if err := h.compose(ctx, input, output, inGeom, outGeom); err != nil {
		output.Release()
		h.counters.FramesDropped.Accelerator.Inc()
		return nil, err
	}

	output.CopyProperties(input)
	h.counters.FramesProcessed.Inc()
	return output, nil
}

// checkInput verifies the frame matches the negotiated input format.
func (h *Hardware) checkInput(f *frame.Frame) error {
	if f.PixelFormat != h.input.PixelFormat {
		return fmt.Errorf("pixel format %s, while %s was negotiated", f.PixelFormat, h.input.PixelFormat)
	}
	geom := h.input.Geometry
	if f.Geometry.Width < geom.Width || f.Geometry.Height < geom.Height {
		return fmt.Errorf("the frame %s is smaller than negotiated %s", f.Geometry, geom)
	}
	if minPitch := geom.Width * f.PixelFormat.BytesPerPixel(); f.Pitch < minPitch {
		return fmt.Errorf("the pitch is too small: %d < %d", f.Pitch, minPitch)
	}
	if required := f.PixelFormat.BufferSize(f.Pitch, geom.Height); len(f.Data) < required {
		return fmt.Errorf("the buffer is too small: %d < %d", len(f.Data), required)
	}
	if f.PixelFormat == types.PixelFormatIndexed8 && f.Palette == nil {
		return fmt.Errorf("no palette in an indexed frame")
	}
	return nil
}

func checkOutput(f *frame.Frame, geom types.Geometry) error {
	if f == nil {
		return fmt.Errorf("the allocator returned no frame")
	}
	if f.Geometry.Width != geom.Width || f.Geometry.Height != geom.Height {
		return fmt.Errorf("the allocator returned a %s frame instead of %s", f.Geometry, geom)
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("the allocator returned an invalid frame: %w", err)
	}
	return nil
}

// releaseStack closes the pushed objects in the reverse order.
type releaseStack []types.Closer

func (s *releaseStack) Push(c types.Closer) {
	*s = append(*s, c)
}

func (s releaseStack) Release(ctx context.Context) error {
	var errs []error
	for idx := len(s) - 1; idx >= 0; idx-- {
		if err := s[idx].Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// compose uploads the input, scales it onto the output geometry and reads
// the result into the output frame. Everything acquired on the accelerator
// is released before returning.
func (h *Hardware) compose(
	ctx context.Context,
	input, output *frame.Frame,
	inGeom, outGeom types.Geometry,
) (_err error) {
	a := h.Accelerator
	var acquired releaseStack
	defer func() {
		err := acquired.Release(ctx)
		if err == nil {
			return
		}
		logger.Errorf(ctx, "unable to release the accelerator objects: %v", err)
		if _err != nil {
			_err = errors.Join(_err, err)
			return
		}
		_err = ErrAcceleratorFailure{Op: "release the accelerator objects", Err: err}
	}()
	fail := func(op string, err error) error {
		return ErrAcceleratorFailure{Op: op, Err: err}
	}

	dst, err := accelerator.CreateResource(ctx, a, accelerator.ResourceConfig{
		ImageType: accelerator.ImageTypeRGBA32,
		Width:     outGeom.Width,
		Height:    outGeom.Height,
	})
	if err != nil {
		return fail("create the destination resource", err)
	}
	acquired.Push(dst)

	src, err := accelerator.CreateResource(ctx, a, accelerator.ResourceConfig{
		ImageType:     h.imageType,
		Width:         inGeom.Width,
		Height:        inGeom.Height,
		Pitch:         input.Pitch,
		AlignedHeight: inGeom.Height,
	})
	if err != nil {
		return fail("create the source resource", err)
	}
	acquired.Push(src)

	srcRect := accelerator.NewRect(0, 0, int32(inGeom.Width), int32(inGeom.Height))
	if err := src.Write(ctx, h.imageType, input.Pitch, input.Data, srcRect); err != nil {
		return fail("upload", err)
	}
	h.counters.BytesUploaded.Add(uint64(input.PixelFormat.BufferSize(input.Pitch, inGeom.Height)))

	if h.input.PixelFormat == types.PixelFormatIndexed8 {
		var table palette.Table
		palette.ConvertInto(&table, input.Palette.Used())
		if err := src.SetPalette(ctx, table[:], 0); err != nil {
			return fail("set the palette", err)
		}
	}

	display, err := accelerator.OpenOffscreenDisplay(ctx, a, dst, accelerator.TransformNoRotate)
	if err != nil {
		return fail("open the offscreen display", err)
	}
	acquired.Push(display)

	update, err := accelerator.StartUpdate(ctx, a, h.updatePriority)
	if err != nil {
		return fail("start the update", err)
	}
	acquired.Push(update)

	alphaSource := accelerator.AlphaFromSource
	if h.input.PixelFormat == types.PixelFormatPackedRGB32 {
		// the fourth byte is padding
		alphaSource = accelerator.AlphaFixedAllPixels
	}

	dstRect := accelerator.NewRect(0, 0, int32(outGeom.Width), int32(outGeom.Height))
	element, err := update.AddElement(ctx, display, accelerator.ElementConfig{
		Layer:           h.layer,
		DestinationRect: dstRect,
		Source:          src.Handle,
		SourceRect:      accelerator.FixedPointRect(srcRect),
		Protection:      accelerator.ProtectionNone,
		Alpha: accelerator.Alpha{
			Flags:   alphaSource | accelerator.AlphaMix,
			Opacity: 0xff,
			Mask:    accelerator.NoHandle,
		},
		Transform: accelerator.TransformNoRotate,
	})
	if err != nil {
		return fail("add the element", err)
	}
	acquired.Push(element)

	if err := update.SubmitSync(ctx); err != nil {
		return fail("compose", err)
	}

	if err := dst.Read(ctx, dstRect, output.Data, output.Pitch); err != nil {
		return fail("read back", err)
	}
	h.counters.BytesReadBack.Add(uint64(output.Pitch) * uint64(outGeom.Height))
	return nil
}
