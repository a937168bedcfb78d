package scaler

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/hwscaler/types"
	"github.com/xaionaro-go/xsync"
)

// Locked serializes the calls to a Scaler. Scalers sharing one
// accelerator should share one Locker.
type Locked struct {
	Scaler Scaler
	Locker *xsync.Mutex
}

var _ Scaler = (*Locked)(nil)

func NewLocked(s Scaler, locker *xsync.Mutex) *Locked {
	if locker == nil {
		locker = &xsync.Mutex{}
	}
	return &Locked{
		Scaler: s,
		Locker: locker,
	}
}

func (l *Locked) String() string {
	return fmt.Sprintf("Locked(%s)", l.Scaler)
}

func (l *Locked) Close(ctx context.Context) error {
	return xsync.DoA1R1(ctx, l.Locker, l.Scaler.Close, ctx)
}

func (l *Locked) Negotiate(
	ctx context.Context,
	input, output types.VideoFormat,
) error {
	return xsync.DoA3R1(ctx, l.Locker, l.Scaler.Negotiate, ctx, input, output)
}

func (l *Locked) Scale(
	ctx context.Context,
	input *frame.Frame,
) (*frame.Frame, error) {
	return xsync.DoA2R2(ctx, l.Locker, l.Scaler.Scale, ctx, input)
}

func (l *Locked) InputFormat() types.VideoFormat {
	return xsync.DoR1(context.Background(), l.Locker, l.Scaler.InputFormat)
}

func (l *Locked) OutputFormat() types.VideoFormat {
	return xsync.DoR1(context.Background(), l.Locker, l.Scaler.OutputFormat)
}
