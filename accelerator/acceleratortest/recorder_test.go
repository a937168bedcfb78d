package acceleratortest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwscaler/accelerator"
	"github.com/xaionaro-go/hwscaler/accelerator/software"
)

func TestRecorderFailOn(t *testing.T) {
	ctx := context.Background()
	customErr := errors.New("out of memory")
	rec := NewRecorder(software.New(software.InterpolationNearestNeighbor))
	rec.FailOn(OpResourceCreate, 2, customErr)

	cfg := accelerator.ResourceConfig{ImageType: accelerator.ImageTypeRGBA32, Width: 1, Height: 1}
	h, err := rec.ResourceCreate(ctx, cfg)
	require.NoError(t, err)
	_, err = rec.ResourceCreate(ctx, cfg)
	require.ErrorIs(t, err, customErr)
	_, err = rec.ResourceCreate(ctx, cfg)
	require.NoError(t, err)

	require.Equal(t, 3, rec.Count(OpResourceCreate))
	require.Equal(t, []Op{OpResourceCreate, OpResourceCreate, OpResourceCreate}, rec.Ops())
	require.Equal(t, 0, rec.Index(OpResourceCreate, uint32(h)))
	require.Equal(t, -1, rec.Index(OpResourceDelete, uint32(h)))
	require.Contains(t, rec.Dump(), "out of memory")

	// the injected failure never reached the backend
	require.Equal(t, 2, rec.Backend.(*software.Accelerator).Stats().Resources)
}

func TestRecorderBalance(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(software.New(software.InterpolationNearestNeighbor))
	require.NoError(t, rec.Balance())

	cfg := accelerator.ResourceConfig{ImageType: accelerator.ImageTypeRGBA32, Width: 1, Height: 1}
	h, err := rec.ResourceCreate(ctx, cfg)
	require.NoError(t, err)
	require.Error(t, rec.Balance(), "leaked resource")

	rec.FailOn(OpResourceDelete, 1, nil)
	require.ErrorIs(t, rec.ResourceDelete(ctx, h), ErrInjected)
	require.NoError(t, rec.Balance(), "a failed release attempt still counts")

	require.NoError(t, rec.ResourceDelete(ctx, h))
	require.Error(t, rec.Balance(), "double release")

	rec.Reset()
	require.Empty(t, rec.Calls)
	require.NoError(t, rec.Balance())

	require.Error(t, rec.DisplayClose(ctx, 42))
	require.Error(t, rec.Balance(), "released, but never acquired")
}
