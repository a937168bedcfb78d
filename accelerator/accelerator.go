// accelerator.go defines the interface of a 2D hardware compositor.

// Package accelerator describes a DispmanX-like 2D compositor used as a
// scaling/colour-conversion oracle, and provides owned wrappers around
// its handles.
//
// Accelerators are not expected to be safe for concurrent use: the
// callers serialize access themselves.
package accelerator

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotSupported is returned by accelerators for valid requests they are
// unable to serve.
var ErrNotSupported = errors.New("not supported by the accelerator")

type Accelerator interface {
	fmt.Stringer

	// Init initializes the device. It is called once per process via the
	// package-level Init.
	Init(ctx context.Context) error

	ResourceCreate(ctx context.Context, cfg ResourceConfig) (ResourceHandle, error)
	ResourceDelete(ctx context.Context, res ResourceHandle) error
	ResourceWriteData(ctx context.Context, res ResourceHandle, imageType ImageType, pitch uint32, data []byte, rect Rect) error
	ResourceReadData(ctx context.Context, res ResourceHandle, rect Rect, dst []byte, pitch uint32) error
	ResourceSetPalette(ctx context.Context, res ResourceHandle, palette []uint32, offset int) error

	DisplayOpenOffscreen(ctx context.Context, res ResourceHandle, transform Transform) (DisplayHandle, error)
	DisplayClose(ctx context.Context, display DisplayHandle) error

	UpdateStart(ctx context.Context, priority int32) (UpdateHandle, error)
	ElementAdd(ctx context.Context, update UpdateHandle, display DisplayHandle, cfg ElementConfig) (ElementHandle, error)
	ElementRemove(ctx context.Context, update UpdateHandle, element ElementHandle) error

	// UpdateSubmitSync applies the update and blocks until the composition
	// is finished. The update handle is invalid afterwards.
	UpdateSubmitSync(ctx context.Context, update UpdateHandle) error
}
