// Package scaler provides frame scalers; the main one offloads the work
// to a 2D compositor.
package scaler

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/hwscaler/types"
)

type Scaler interface {
	fmt.Stringer
	types.Closer

	// Negotiate checks whether the scaler is able to convert pictures of
	// the input format into the output format, and commits to this pair.
	Negotiate(ctx context.Context, input, output types.VideoFormat) error

	// Scale consumes the input frame (it is always released) and returns
	// a new output frame.
	Scale(ctx context.Context, input *frame.Frame) (*frame.Frame, error)

	InputFormat() types.VideoFormat
	OutputFormat() types.VideoFormat
}
