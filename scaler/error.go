package scaler

import (
	"fmt"

	"github.com/xaionaro-go/hwscaler/types"
)

// ErrNegotiationRejected means the scaler cannot handle the stream.
type ErrNegotiationRejected struct {
	Input  types.VideoFormat
	Output types.VideoFormat
	Reason string
}

func (e ErrNegotiationRejected) Error() string {
	return fmt.Sprintf("unable to convert %s to %s: %s", e.Input, e.Output, e.Reason)
}

type ErrNotNegotiated struct{}

func (ErrNotNegotiated) Error() string {
	return "the formats are not negotiated"
}

type ErrNilFrame struct{}

func (ErrNilFrame) Error() string {
	return "the input frame is nil"
}

type ErrClosed struct{}

func (ErrClosed) Error() string {
	return "the scaler is closed"
}

type ErrDegenerateGeometry struct {
	Input  types.Geometry
	Output types.Geometry
}

func (e ErrDegenerateGeometry) Error() string {
	return fmt.Sprintf("degenerate geometry: %s -> %s", e.Input, e.Output)
}

type ErrInvalidFrame struct {
	Err error
}

func (e ErrInvalidFrame) Error() string {
	return fmt.Sprintf("invalid input frame: %v", e.Err)
}

func (e ErrInvalidFrame) Unwrap() error {
	return e.Err
}

type ErrAllocationFailure struct {
	Err error
}

func (e ErrAllocationFailure) Error() string {
	return fmt.Sprintf("unable to allocate the output frame: %v", e.Err)
}

func (e ErrAllocationFailure) Unwrap() error {
	return e.Err
}

// ErrAcceleratorFailure means a call to the accelerator failed; all the
// acquired hardware resources were released anyway.
type ErrAcceleratorFailure struct {
	Op  string
	Err error
}

func (e ErrAcceleratorFailure) Error() string {
	return fmt.Sprintf("accelerator failure on %s: %v", e.Op, e.Err)
}

func (e ErrAcceleratorFailure) Unwrap() error {
	return e.Err
}
