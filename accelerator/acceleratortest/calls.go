package acceleratortest

import (
	"context"

	"github.com/xaionaro-go/hwscaler/accelerator"
)

const (
	kindResource = handleKind("resource")
	kindDisplay  = handleKind("display")
	kindUpdate   = handleKind("update")
	kindElement  = handleKind("element")
)

func (r *Recorder) Init(ctx context.Context) error {
	err := r.begin(OpInit)
	if err == nil {
		err = r.Backend.Init(ctx)
	}
	r.record(OpInit, 0, err)
	return err
}

func (r *Recorder) ResourceCreate(
	ctx context.Context,
	cfg accelerator.ResourceConfig,
) (accelerator.ResourceHandle, error) {
	var h accelerator.ResourceHandle
	err := r.begin(OpResourceCreate)
	if err == nil {
		h, err = r.Backend.ResourceCreate(ctx, cfg)
	}
	r.record(OpResourceCreate, uint32(h), err)
	if err == nil {
		r.acquire(kindResource, uint32(h))
	}
	return h, err
}

func (r *Recorder) ResourceDelete(
	ctx context.Context,
	h accelerator.ResourceHandle,
) error {
	r.release(kindResource, uint32(h))
	err := r.begin(OpResourceDelete)
	if err == nil {
		err = r.Backend.ResourceDelete(ctx, h)
	}
	r.record(OpResourceDelete, uint32(h), err)
	return err
}

func (r *Recorder) ResourceWriteData(
	ctx context.Context,
	h accelerator.ResourceHandle,
	imageType accelerator.ImageType,
	pitch uint32,
	data []byte,
	rect accelerator.Rect,
) error {
	err := r.begin(OpResourceWriteData)
	if err == nil {
		err = r.Backend.ResourceWriteData(ctx, h, imageType, pitch, data, rect)
	}
	r.record(OpResourceWriteData, uint32(h), err)
	return err
}

func (r *Recorder) ResourceReadData(
	ctx context.Context,
	h accelerator.ResourceHandle,
	rect accelerator.Rect,
	dst []byte,
	pitch uint32,
) error {
	err := r.begin(OpResourceReadData)
	if err == nil {
		err = r.Backend.ResourceReadData(ctx, h, rect, dst, pitch)
	}
	r.record(OpResourceReadData, uint32(h), err)
	return err
}

func (r *Recorder) ResourceSetPalette(
	ctx context.Context,
	h accelerator.ResourceHandle,
	palette []uint32,
	offset int,
) error {
	err := r.begin(OpResourceSetPalette)
	if err == nil {
		err = r.Backend.ResourceSetPalette(ctx, h, palette, offset)
	}
	r.record(OpResourceSetPalette, uint32(h), err)
	return err
}

func (r *Recorder) DisplayOpenOffscreen(
	ctx context.Context,
	target accelerator.ResourceHandle,
	transform accelerator.Transform,
) (accelerator.DisplayHandle, error) {
	var h accelerator.DisplayHandle
	err := r.begin(OpDisplayOpenOffscreen)
	if err == nil {
		h, err = r.Backend.DisplayOpenOffscreen(ctx, target, transform)
	}
	r.record(OpDisplayOpenOffscreen, uint32(h), err)
	if err == nil {
		r.acquire(kindDisplay, uint32(h))
	}
	return h, err
}

func (r *Recorder) DisplayClose(
	ctx context.Context,
	h accelerator.DisplayHandle,
) error {
	r.release(kindDisplay, uint32(h))
	err := r.begin(OpDisplayClose)
	if err == nil {
		err = r.Backend.DisplayClose(ctx, h)
	}
	r.record(OpDisplayClose, uint32(h), err)
	return err
}

func (r *Recorder) UpdateStart(
	ctx context.Context,
	priority int32,
) (accelerator.UpdateHandle, error) {
	var h accelerator.UpdateHandle
	err := r.begin(OpUpdateStart)
	if err == nil {
		h, err = r.Backend.UpdateStart(ctx, priority)
	}
	r.record(OpUpdateStart, uint32(h), err)
	if err == nil {
		r.acquire(kindUpdate, uint32(h))
	}
	return h, err
}

func (r *Recorder) ElementAdd(
	ctx context.Context,
	update accelerator.UpdateHandle,
	display accelerator.DisplayHandle,
	cfg accelerator.ElementConfig,
) (accelerator.ElementHandle, error) {
	var h accelerator.ElementHandle
	err := r.begin(OpElementAdd)
	if err == nil {
		h, err = r.Backend.ElementAdd(ctx, update, display, cfg)
	}
	r.record(OpElementAdd, uint32(h), err)
	if err == nil {
		r.acquire(kindElement, uint32(h))
	}
	return h, err
}

func (r *Recorder) ElementRemove(
	ctx context.Context,
	update accelerator.UpdateHandle,
	element accelerator.ElementHandle,
) error {
	r.release(kindElement, uint32(element))
	err := r.begin(OpElementRemove)
	if err == nil {
		err = r.Backend.ElementRemove(ctx, update, element)
	}
	r.record(OpElementRemove, uint32(element), err)
	return err
}

func (r *Recorder) UpdateSubmitSync(
	ctx context.Context,
	h accelerator.UpdateHandle,
) error {
	r.release(kindUpdate, uint32(h))
	err := r.begin(OpUpdateSubmitSync)
	if err == nil {
		err = r.Backend.UpdateSubmitSync(ctx, h)
	}
	r.record(OpUpdateSubmitSync, uint32(h), err)
	return err
}
