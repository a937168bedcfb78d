// handles.go provides owned wrappers around accelerator handles.
//
// Each wrapper exclusively owns one handle and releases it exactly once on
// Close. Copying a wrapper is not allowed; pass pointers around.

package accelerator

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwscaler/internal"
	"github.com/xaionaro-go/hwscaler/logger"
)

type Resource struct {
	Accelerator Accelerator
	Handle      ResourceHandle
	Config      ResourceConfig
	closed      bool
}

func CreateResource(
	ctx context.Context,
	a Accelerator,
	cfg ResourceConfig,
) (_ret *Resource, _err error) {
	logger.Tracef(ctx, "CreateResource(ctx, %s)", cfg)
	defer func() { logger.Tracef(ctx, "/CreateResource(ctx, %s): %v %v", cfg, _ret, _err) }()
	h, err := a.ResourceCreate(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create a resource %s: %w", cfg, err)
	}
	r := &Resource{
		Accelerator: a,
		Handle:      h,
		Config:      cfg,
	}
	internal.SetLeakFinalizer(ctx, r, func(r *Resource) bool { return r.closed })
	return r, nil
}

func (r *Resource) String() string {
	return fmt.Sprintf("Resource(%d:%s)", r.Handle, r.Config)
}

// Rect returns the full bounds of the resource in pixels.
func (r *Resource) Rect() Rect {
	return NewRect(0, 0, int32(r.Config.Width), int32(r.Config.Height))
}

func (r *Resource) Write(
	ctx context.Context,
	imageType ImageType,
	pitch uint32,
	data []byte,
	rect Rect,
) error {
	if err := r.Accelerator.ResourceWriteData(ctx, r.Handle, imageType, pitch, data, rect); err != nil {
		return fmt.Errorf("unable to write %d bytes into %s: %w", len(data), r, err)
	}
	return nil
}

func (r *Resource) Read(
	ctx context.Context,
	rect Rect,
	dst []byte,
	pitch uint32,
) error {
	if err := r.Accelerator.ResourceReadData(ctx, r.Handle, rect, dst, pitch); err != nil {
		return fmt.Errorf("unable to read %s from %s: %w", rect, r, err)
	}
	return nil
}

func (r *Resource) SetPalette(
	ctx context.Context,
	palette []uint32,
	offset int,
) error {
	if err := r.Accelerator.ResourceSetPalette(ctx, r.Handle, palette, offset); err != nil {
		return fmt.Errorf("unable to set the palette of %s: %w", r, err)
	}
	return nil
}

// Close deletes the resource. Consequent calls are no-op.
func (r *Resource) Close(ctx context.Context) (_err error) {
	if r == nil || r.closed {
		return nil
	}
	logger.Tracef(ctx, "Close: %s", r)
	defer func() { logger.Tracef(ctx, "/Close: %s: %v", r, _err) }()
	r.closed = true
	internal.ClearFinalizer(r)
	if err := r.Accelerator.ResourceDelete(ctx, r.Handle); err != nil {
		return fmt.Errorf("unable to delete %s: %w", r, err)
	}
	return nil
}

type Display struct {
	Accelerator Accelerator
	Handle      DisplayHandle
	closed      bool
}

// OpenOffscreenDisplay opens a display which renders into the given resource.
func OpenOffscreenDisplay(
	ctx context.Context,
	a Accelerator,
	target *Resource,
	transform Transform,
) (_ret *Display, _err error) {
	logger.Tracef(ctx, "OpenOffscreenDisplay(ctx, %s, %s)", target, transform)
	defer func() { logger.Tracef(ctx, "/OpenOffscreenDisplay(ctx, %s, %s): %v %v", target, transform, _ret, _err) }()
	h, err := a.DisplayOpenOffscreen(ctx, target.Handle, transform)
	if err != nil {
		return nil, fmt.Errorf("unable to open an offscreen display on %s: %w", target, err)
	}
	d := &Display{
		Accelerator: a,
		Handle:      h,
	}
	internal.SetLeakFinalizer(ctx, d, func(d *Display) bool { return d.closed })
	return d, nil
}

func (d *Display) String() string {
	return fmt.Sprintf("Display(%d)", d.Handle)
}

func (d *Display) Close(ctx context.Context) (_err error) {
	if d == nil || d.closed {
		return nil
	}
	logger.Tracef(ctx, "Close: %s", d)
	defer func() { logger.Tracef(ctx, "/Close: %s: %v", d, _err) }()
	d.closed = true
	internal.ClearFinalizer(d)
	if err := d.Accelerator.DisplayClose(ctx, d.Handle); err != nil {
		return fmt.Errorf("unable to close %s: %w", d, err)
	}
	return nil
}

// Update is one composition transaction.
type Update struct {
	Accelerator Accelerator
	Handle      UpdateHandle
	submitted   bool
}

func StartUpdate(
	ctx context.Context,
	a Accelerator,
	priority int32,
) (_ret *Update, _err error) {
	logger.Tracef(ctx, "StartUpdate(ctx, %d)", priority)
	defer func() { logger.Tracef(ctx, "/StartUpdate(ctx, %d): %v %v", priority, _ret, _err) }()
	h, err := a.UpdateStart(ctx, priority)
	if err != nil {
		return nil, fmt.Errorf("unable to start an update: %w", err)
	}
	u := &Update{
		Accelerator: a,
		Handle:      h,
	}
	internal.SetLeakFinalizer(ctx, u, func(u *Update) bool { return u.submitted })
	return u, nil
}

func (u *Update) String() string {
	return fmt.Sprintf("Update(%d)", u.Handle)
}

func (u *Update) IsSubmitted() bool {
	return u.submitted
}

// AddElement places a resource onto the display within this update.
func (u *Update) AddElement(
	ctx context.Context,
	display *Display,
	cfg ElementConfig,
) (_ret *Element, _err error) {
	logger.Tracef(ctx, "AddElement(ctx, %s, %+v)", display, cfg)
	defer func() { logger.Tracef(ctx, "/AddElement(ctx, %s, %+v): %v %v", display, cfg, _ret, _err) }()
	if u.submitted {
		return nil, fmt.Errorf("%s is already submitted", u)
	}
	h, err := u.Accelerator.ElementAdd(ctx, u.Handle, display.Handle, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to add an element to %s within %s: %w", display, u, err)
	}
	e := &Element{
		Accelerator: u.Accelerator,
		Handle:      h,
	}
	internal.SetLeakFinalizer(ctx, e, func(e *Element) bool { return e.removed })
	return e, nil
}

// SubmitSync submits the update and waits for the composition to finish.
// The update is considered closed even if the submission failed.
func (u *Update) SubmitSync(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "SubmitSync: %s", u)
	defer func() { logger.Tracef(ctx, "/SubmitSync: %s: %v", u, _err) }()
	if u.submitted {
		return fmt.Errorf("%s is already submitted", u)
	}
	u.submitted = true
	internal.ClearFinalizer(u)
	if err := u.Accelerator.UpdateSubmitSync(ctx, u.Handle); err != nil {
		return fmt.Errorf("unable to submit %s: %w", u, err)
	}
	return nil
}

// Close submits the update if it was not submitted yet: the accelerator
// has no way to discard an update.
func (u *Update) Close(ctx context.Context) error {
	if u == nil || u.submitted {
		return nil
	}
	return u.SubmitSync(ctx)
}

// Element is a resource placed onto a display.
type Element struct {
	Accelerator Accelerator
	Handle      ElementHandle
	removed     bool
}

func (e *Element) String() string {
	return fmt.Sprintf("Element(%d)", e.Handle)
}

// Close removes the element from its display using a dedicated update.
func (e *Element) Close(ctx context.Context) (_err error) {
	if e == nil || e.removed {
		return nil
	}
	logger.Tracef(ctx, "Close: %s", e)
	defer func() { logger.Tracef(ctx, "/Close: %s: %v", e, _err) }()
	e.removed = true
	internal.ClearFinalizer(e)

	u, err := StartUpdate(ctx, e.Accelerator, 0)
	if err != nil {
		return fmt.Errorf("unable to remove %s: %w", e, err)
	}
	removeErr := e.Accelerator.ElementRemove(ctx, u.Handle, e.Handle)
	if err := u.SubmitSync(ctx); err != nil {
		if removeErr != nil {
			return fmt.Errorf("unable to remove %s: %w; and %w", e, removeErr, err)
		}
		return fmt.Errorf("unable to remove %s: %w", e, err)
	}
	if removeErr != nil {
		return fmt.Errorf("unable to remove %s: %w", e, removeErr)
	}
	return nil
}
