// software.go implements the accelerator API on the CPU.

// Package software provides a CPU implementation of the compositor API.
//
// It is the reference implementation: it is used where no hardware
// compositor is available and to verify the callers of the API.
package software

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/xaionaro-go/hwscaler/accelerator"
	"github.com/xaionaro-go/hwscaler/logger"
	"github.com/xaionaro-go/hwscaler/palette"
	"golang.org/x/image/draw"
)

type resource struct {
	Config  accelerator.ResourceConfig
	Planes  []plane
	Pixels  []byte
	Palette palette.Table
}

type display struct {
	Target    accelerator.ResourceHandle
	Transform accelerator.Transform
	Elements  map[accelerator.ElementHandle]struct{}
}

type element struct {
	Display accelerator.DisplayHandle
	Config  accelerator.ElementConfig
}

type pendingElement struct {
	Handle  accelerator.ElementHandle
	Display accelerator.DisplayHandle
	Config  accelerator.ElementConfig
}

type update struct {
	Priority int32
	Added    []pendingElement
	Removed  []accelerator.ElementHandle
}

// Stats is the amount of live objects of each kind.
type Stats struct {
	Inits     int
	Resources int
	Displays  int
	Updates   int
	Elements  int
}

// Accelerator is a CPU compositor. It is not safe for concurrent use.
type Accelerator struct {
	Interpolation Interpolation

	inits      int
	nextHandle uint32
	resources  map[accelerator.ResourceHandle]*resource
	displays   map[accelerator.DisplayHandle]*display
	updates    map[accelerator.UpdateHandle]*update
	elements   map[accelerator.ElementHandle]*element
}

var _ accelerator.Accelerator = (*Accelerator)(nil)

func New(interpolation Interpolation) *Accelerator {
	return &Accelerator{
		Interpolation: interpolation,
		resources:     map[accelerator.ResourceHandle]*resource{},
		displays:      map[accelerator.DisplayHandle]*display{},
		updates:       map[accelerator.UpdateHandle]*update{},
		elements:      map[accelerator.ElementHandle]*element{},
	}
}

func (a *Accelerator) String() string {
	return fmt.Sprintf("SoftwareAccelerator(%s)", a.Interpolation)
}

func (a *Accelerator) Stats() Stats {
	return Stats{
		Inits:     a.inits,
		Resources: len(a.resources),
		Displays:  len(a.displays),
		Updates:   len(a.updates),
		Elements:  len(a.elements),
	}
}

func (a *Accelerator) newHandle() uint32 {
	a.nextHandle++
	return a.nextHandle
}

func (a *Accelerator) Init(ctx context.Context) error {
	logger.Debugf(ctx, "Init: %s", a)
	a.inits++
	return nil
}

func (a *Accelerator) ResourceCreate(
	ctx context.Context,
	cfg accelerator.ResourceConfig,
) (accelerator.ResourceHandle, error) {
	if cfg.Width == 0 || cfg.Height == 0 {
		return accelerator.NoHandle, fmt.Errorf("the resource has no area: %s", cfg)
	}
	if cfg.EffectivePitch() < cfg.Width*cfg.ImageType.BytesPerPixel() {
		return accelerator.NoHandle, fmt.Errorf("the pitch is too small: %s", cfg)
	}
	if cfg.EffectiveAlignedHeight() < cfg.Height {
		return accelerator.NoHandle, fmt.Errorf("the aligned height %d is less than the height %d", cfg.EffectiveAlignedHeight(), cfg.Height)
	}
	planes, err := planesOf(cfg.ImageType, cfg.EffectivePitch(), cfg.EffectiveAlignedHeight())
	if err != nil {
		return accelerator.NoHandle, err
	}
	h := accelerator.ResourceHandle(a.newHandle())
	a.resources[h] = &resource{
		Config: cfg,
		Planes: planes,
		Pixels: make([]byte, bufferSize(planes)),
	}
	logger.Tracef(ctx, "created resource %d: %s", h, cfg)
	return h, nil
}

func (a *Accelerator) getResource(h accelerator.ResourceHandle) (*resource, error) {
	r, ok := a.resources[h]
	if !ok {
		return nil, fmt.Errorf("unknown resource handle %d", h)
	}
	return r, nil
}

func (a *Accelerator) ResourceDelete(
	ctx context.Context,
	h accelerator.ResourceHandle,
) error {
	if _, err := a.getResource(h); err != nil {
		return err
	}
	for dh, d := range a.displays {
		if d.Target == h {
			return fmt.Errorf("resource %d is still the target of display %d", h, dh)
		}
	}
	for eh, e := range a.elements {
		if e.Config.Source == h {
			return fmt.Errorf("resource %d is still the source of element %d", h, eh)
		}
	}
	delete(a.resources, h)
	return nil
}

func checkRect(r *resource, rect accelerator.Rect) error {
	if rect.IsEmpty() || rect.X < 0 || rect.Y < 0 {
		return fmt.Errorf("invalid rectangle %s", rect)
	}
	if uint32(rect.X+rect.Width) > r.Config.Width || uint32(rect.Y+rect.Height) > r.Config.Height {
		return fmt.Errorf("the rectangle %s is out of the resource bounds %dx%d", rect, r.Config.Width, r.Config.Height)
	}
	return nil
}

// ResourceWriteData copies rect from data into the resource. data is
// the whole source image (its origin is the origin of the resource).
func (a *Accelerator) ResourceWriteData(
	ctx context.Context,
	h accelerator.ResourceHandle,
	imageType accelerator.ImageType,
	pitch uint32,
	data []byte,
	rect accelerator.Rect,
) error {
	r, err := a.getResource(h)
	if err != nil {
		return err
	}
	if imageType != r.Config.ImageType {
		return fmt.Errorf("writing %s into a %s resource: %w", imageType, r.Config.ImageType, accelerator.ErrNotSupported)
	}
	if err := checkRect(r, rect); err != nil {
		return err
	}
	srcPlanes, err := planesOf(imageType, pitch, r.Config.EffectiveAlignedHeight())
	if err != nil {
		return err
	}
	return copyRect(r.Pixels, r.Planes, data, srcPlanes, rect)
}

// ResourceReadData copies rect from the resource into dst. dst is the
// whole destination image (its origin is the origin of the resource).
func (a *Accelerator) ResourceReadData(
	ctx context.Context,
	h accelerator.ResourceHandle,
	rect accelerator.Rect,
	dst []byte,
	pitch uint32,
) error {
	r, err := a.getResource(h)
	if err != nil {
		return err
	}
	if err := checkRect(r, rect); err != nil {
		return err
	}
	dstPlanes, err := planesOf(r.Config.ImageType, pitch, r.Config.EffectiveAlignedHeight())
	if err != nil {
		return err
	}
	if len(dstPlanes) != 1 {
		return fmt.Errorf("reading %s resources: %w", r.Config.ImageType, accelerator.ErrNotSupported)
	}
	// dst may be shorter than the aligned height requires
	dstPlanes[0].Rows = int(rect.Y + rect.Height)
	return copyRect(dst, dstPlanes, r.Pixels, r.Planes, rect)
}

func (a *Accelerator) ResourceSetPalette(
	ctx context.Context,
	h accelerator.ResourceHandle,
	colors []uint32,
	offset int,
) error {
	r, err := a.getResource(h)
	if err != nil {
		return err
	}
	if r.Config.ImageType != accelerator.ImageType8BPP {
		return fmt.Errorf("a palette for a %s resource: %w", r.Config.ImageType, accelerator.ErrNotSupported)
	}
	if offset < 0 || offset+len(colors) > len(r.Palette) {
		return fmt.Errorf("the palette range [%d:%d] is out of [0:%d]", offset, offset+len(colors), len(r.Palette))
	}
	copy(r.Palette[offset:], colors)
	return nil
}

func (a *Accelerator) DisplayOpenOffscreen(
	ctx context.Context,
	target accelerator.ResourceHandle,
	transform accelerator.Transform,
) (accelerator.DisplayHandle, error) {
	r, err := a.getResource(target)
	if err != nil {
		return accelerator.NoHandle, err
	}
	if r.Config.ImageType != accelerator.ImageTypeRGBA32 {
		return accelerator.NoHandle, fmt.Errorf("rendering into %s: %w", r.Config.ImageType, accelerator.ErrNotSupported)
	}
	if transform != accelerator.TransformNoRotate {
		return accelerator.NoHandle, fmt.Errorf("display transform %s: %w", transform, accelerator.ErrNotSupported)
	}
	h := accelerator.DisplayHandle(a.newHandle())
	a.displays[h] = &display{
		Target:    target,
		Transform: transform,
		Elements:  map[accelerator.ElementHandle]struct{}{},
	}
	return h, nil
}

func (a *Accelerator) DisplayClose(
	ctx context.Context,
	h accelerator.DisplayHandle,
) error {
	d, ok := a.displays[h]
	if !ok {
		return fmt.Errorf("unknown display handle %d", h)
	}
	if len(d.Elements) != 0 {
		return fmt.Errorf("display %d still has %d elements", h, len(d.Elements))
	}
	delete(a.displays, h)
	return nil
}

func (a *Accelerator) UpdateStart(
	ctx context.Context,
	priority int32,
) (accelerator.UpdateHandle, error) {
	h := accelerator.UpdateHandle(a.newHandle())
	a.updates[h] = &update{Priority: priority}
	return h, nil
}

func (a *Accelerator) ElementAdd(
	ctx context.Context,
	uh accelerator.UpdateHandle,
	dh accelerator.DisplayHandle,
	cfg accelerator.ElementConfig,
) (accelerator.ElementHandle, error) {
	u, ok := a.updates[uh]
	if !ok {
		return accelerator.NoHandle, fmt.Errorf("unknown update handle %d", uh)
	}
	if _, ok := a.displays[dh]; !ok {
		return accelerator.NoHandle, fmt.Errorf("unknown display handle %d", dh)
	}
	src, err := a.getResource(cfg.Source)
	if err != nil {
		return accelerator.NoHandle, err
	}
	if cfg.Transform != accelerator.TransformNoRotate {
		return accelerator.NoHandle, fmt.Errorf("element transform %s: %w", cfg.Transform, accelerator.ErrNotSupported)
	}
	if cfg.Alpha.Mask != accelerator.NoHandle {
		return accelerator.NoHandle, fmt.Errorf("alpha masks: %w", accelerator.ErrNotSupported)
	}
	switch cfg.Alpha.Flags.Source() {
	case accelerator.AlphaFromSource, accelerator.AlphaFixedAllPixels:
	default:
		return accelerator.NoHandle, fmt.Errorf("alpha source %s: %w", cfg.Alpha.Flags, accelerator.ErrNotSupported)
	}
	if err := checkRect(src, accelerator.PixelRect(cfg.SourceRect)); err != nil {
		return accelerator.NoHandle, fmt.Errorf("invalid source rectangle: %w", err)
	}
	if cfg.DestinationRect.IsEmpty() {
		return accelerator.NoHandle, fmt.Errorf("invalid destination rectangle %s", cfg.DestinationRect)
	}
	h := accelerator.ElementHandle(a.newHandle())
	u.Added = append(u.Added, pendingElement{Handle: h, Display: dh, Config: cfg})
	return h, nil
}

func (a *Accelerator) ElementRemove(
	ctx context.Context,
	uh accelerator.UpdateHandle,
	eh accelerator.ElementHandle,
) error {
	u, ok := a.updates[uh]
	if !ok {
		return fmt.Errorf("unknown update handle %d", uh)
	}
	if _, ok := a.elements[eh]; !ok {
		return fmt.Errorf("unknown element handle %d", eh)
	}
	u.Removed = append(u.Removed, eh)
	return nil
}

func (a *Accelerator) UpdateSubmitSync(
	ctx context.Context,
	uh accelerator.UpdateHandle,
) error {
	u, ok := a.updates[uh]
	if !ok {
		return fmt.Errorf("unknown update handle %d", uh)
	}
	delete(a.updates, uh)

	dirty := map[accelerator.DisplayHandle]struct{}{}
	for _, p := range u.Added {
		d, ok := a.displays[p.Display]
		if !ok {
			return fmt.Errorf("display %d was closed before the update was submitted", p.Display)
		}
		a.elements[p.Handle] = &element{Display: p.Display, Config: p.Config}
		d.Elements[p.Handle] = struct{}{}
		dirty[p.Display] = struct{}{}
	}
	for _, eh := range u.Removed {
		e, ok := a.elements[eh]
		if !ok {
			continue
		}
		if d, ok := a.displays[e.Display]; ok {
			delete(d.Elements, eh)
		}
		delete(a.elements, eh)
	}

	for dh := range dirty {
		if err := a.compose(ctx, dh); err != nil {
			return fmt.Errorf("unable to compose display %d: %w", dh, err)
		}
	}
	return nil
}

// compose renders all the elements of the display into its target.
func (a *Accelerator) compose(
	ctx context.Context,
	dh accelerator.DisplayHandle,
) error {
	d := a.displays[dh]
	target, err := a.getResource(d.Target)
	if err != nil {
		return err
	}
	dst := &image.NRGBA{
		Pix:    target.Pixels,
		Stride: target.Planes[0].Pitch,
		Rect:   image.Rect(0, 0, int(target.Config.Width), int(target.Config.Height)),
	}
	clear(target.Pixels)

	handles := make([]accelerator.ElementHandle, 0, len(d.Elements))
	for eh := range d.Elements {
		handles = append(handles, eh)
	}
	sort.Slice(handles, func(i, j int) bool {
		li, lj := a.elements[handles[i]].Config.Layer, a.elements[handles[j]].Config.Layer
		if li != lj {
			return li < lj
		}
		return handles[i] < handles[j]
	})

	interpolator := a.Interpolation.Interpolator()
	for _, eh := range handles {
		cfg := a.elements[eh].Config
		src, err := a.getResource(cfg.Source)
		if err != nil {
			return fmt.Errorf("element %d: %w", eh, err)
		}
		srcImg, err := src.image()
		if err != nil {
			return fmt.Errorf("element %d: %w", eh, err)
		}
		if cfg.Alpha.Flags.Source() == accelerator.AlphaFixedAllPixels {
			srcImg = opaqueCopy(srcImg)
		}

		op := draw.Src
		if cfg.Alpha.Flags&accelerator.AlphaMix != 0 {
			op = draw.Over
		}
		var opts *draw.Options
		if cfg.Alpha.Opacity < 0xff {
			opts = &draw.Options{
				SrcMask: image.NewUniform(color.Alpha{A: uint8(cfg.Alpha.Opacity)}),
			}
		}

		sr := accelerator.PixelRect(cfg.SourceRect)
		dr := cfg.DestinationRect
		logger.Tracef(ctx, "composing element %d: %s -> %s (op:%v)", eh, sr, dr, op)
		interpolator.Scale(
			dst,
			image.Rect(int(dr.X), int(dr.Y), int(dr.X+dr.Width), int(dr.Y+dr.Height)),
			srcImg,
			image.Rect(int(sr.X), int(sr.Y), int(sr.X+sr.Width), int(sr.Y+sr.Height)),
			op,
			opts,
		)
	}
	return nil
}

// image returns a view of the resource pixels as a Go image.
func (r *resource) image() (image.Image, error) {
	rect := image.Rect(0, 0, int(r.Config.Width), int(r.Config.Height))
	switch r.Config.ImageType {
	case accelerator.ImageTypeRGBA32:
		return &image.NRGBA{
			Pix:    r.Pixels,
			Stride: r.Planes[0].Pitch,
			Rect:   rect,
		}, nil
	case accelerator.ImageType8BPP:
		p := make(color.Palette, len(r.Palette))
		for idx, c := range r.Palette {
			a, red, g, b := palette.UnpackARGB(c)
			p[idx] = color.NRGBA{R: red, G: g, B: b, A: a}
		}
		return &image.Paletted{
			Pix:     r.Pixels,
			Stride:  r.Planes[0].Pitch,
			Rect:    rect,
			Palette: p,
		}, nil
	case accelerator.ImageTypeYUV420:
		y, cb, cr := r.Planes[0], r.Planes[1], r.Planes[2]
		return &image.YCbCr{
			Y:              r.Pixels[y.Offset : y.Offset+y.Pitch*y.Rows],
			Cb:             r.Pixels[cb.Offset : cb.Offset+cb.Pitch*cb.Rows],
			Cr:             r.Pixels[cr.Offset : cr.Offset+cr.Pitch*cr.Rows],
			YStride:        y.Pitch,
			CStride:        cb.Pitch,
			SubsampleRatio: image.YCbCrSubsampleRatio420,
			Rect:           rect,
		}, nil
	}
	return nil, fmt.Errorf("image type %s: %w", r.Config.ImageType, accelerator.ErrNotSupported)
}

// opaqueCopy returns a copy of the image with every pixel made opaque.
// The color channels are taken as is, so pixels with a zero alpha keep
// their color.
func opaqueCopy(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	if nrgba, ok := src.(*image.NRGBA); ok {
		rowLen := b.Dx() * 4
		for y := b.Min.Y; y < b.Max.Y; y++ {
			copy(dst.Pix[dst.PixOffset(b.Min.X, y):][:rowLen], nrgba.Pix[nrgba.PixOffset(b.Min.X, y):][:rowLen])
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA))
			}
		}
	}
	for idx := 3; idx < len(dst.Pix); idx += 4 {
		dst.Pix[idx] = 0xff
	}
	return dst
}
