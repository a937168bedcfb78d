package internal

import (
	"context"
	"runtime"

	"github.com/xaionaro-go/hwscaler/logger"
)

// SetLeakFinalizer reports obj at error level if it is garbage collected
// before isReleased starts returning true.
func SetLeakFinalizer[T any](
	ctx context.Context,
	obj *T,
	isReleased func(*T) bool,
) {
	runtime.SetFinalizer(obj, func(obj *T) {
		if isReleased(obj) {
			return
		}
		logger.Errorf(ctx, "%T was garbage collected without being released: %+v", obj, obj)
	})
}

// ClearFinalizer removes the finalizer installed by SetLeakFinalizer.
func ClearFinalizer[T any](obj *T) {
	runtime.SetFinalizer(obj, nil)
}
