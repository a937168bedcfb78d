package accelerator

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwscaler/logger"
	"github.com/xaionaro-go/xsync"
)

var (
	initLocker  xsync.Mutex
	initialized = map[Accelerator]struct{}{}
)

// Init initializes the accelerator if it was not initialized before in
// this process. A failed initialization is retried on the next call.
//
// Accelerators are identified by value, so implementations are expected
// to be pointers.
func Init(ctx context.Context, a Accelerator) (_err error) {
	logger.Tracef(ctx, "Init(ctx, %s)", a)
	defer func() { logger.Tracef(ctx, "/Init(ctx, %s): %v", a, _err) }()
	if a == nil {
		return fmt.Errorf("accelerator is nil")
	}
	return xsync.DoR1(ctx, &initLocker, func() error {
		if _, ok := initialized[a]; ok {
			return nil
		}
		logger.Debugf(ctx, "initializing accelerator %s", a)
		if err := a.Init(ctx); err != nil {
			return fmt.Errorf("unable to initialize accelerator %s: %w", a, err)
		}
		initialized[a] = struct{}{}
		return nil
	})
}

// IsInitialized reports whether Init succeeded for the accelerator.
func IsInitialized(ctx context.Context, a Accelerator) bool {
	return xsync.DoR1(ctx, &initLocker, func() bool {
		_, ok := initialized[a]
		return ok
	})
}

// Forget makes the next Init call initialize the accelerator again. It is
// meant for accelerators which were shut down.
func Forget(ctx context.Context, a Accelerator) {
	initLocker.Do(ctx, func() {
		delete(initialized, a)
	})
}
