package accelerator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwscaler/accelerator"
	"github.com/xaionaro-go/hwscaler/accelerator/acceleratortest"
	"github.com/xaionaro-go/hwscaler/accelerator/software"
)

func newRecorder() *acceleratortest.Recorder {
	return acceleratortest.NewRecorder(software.New(software.InterpolationNearestNeighbor))
}

func TestInit(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		rec := newRecorder()
		require.False(t, accelerator.IsInitialized(ctx, rec))
		require.NoError(t, accelerator.Init(ctx, rec))
		require.NoError(t, accelerator.Init(ctx, rec))
		require.True(t, accelerator.IsInitialized(ctx, rec))
		require.Equal(t, 1, rec.Count(acceleratortest.OpInit))

		accelerator.Forget(ctx, rec)
		require.NoError(t, accelerator.Init(ctx, rec))
		require.Equal(t, 2, rec.Count(acceleratortest.OpInit))
	})

	t.Run("retry-after-failure", func(t *testing.T) {
		rec := newRecorder()
		rec.FailOn(acceleratortest.OpInit, 1, nil)
		err := accelerator.Init(ctx, rec)
		require.ErrorIs(t, err, acceleratortest.ErrInjected)
		require.False(t, accelerator.IsInitialized(ctx, rec))

		require.NoError(t, accelerator.Init(ctx, rec))
		require.Equal(t, 2, rec.Count(acceleratortest.OpInit))
	})

	t.Run("nil", func(t *testing.T) {
		require.Error(t, accelerator.Init(ctx, nil))
	})
}

func TestResourceCloseOnce(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder()

	res, err := accelerator.CreateResource(ctx, rec, accelerator.ResourceConfig{
		ImageType: accelerator.ImageTypeRGBA32,
		Width:     2,
		Height:    2,
	})
	require.NoError(t, err)
	require.Equal(t, accelerator.NewRect(0, 0, 2, 2), res.Rect())

	require.NoError(t, res.Close(ctx))
	require.NoError(t, res.Close(ctx))
	require.Equal(t, 1, rec.Count(acceleratortest.OpResourceDelete))
	require.NoError(t, rec.Balance())

	_, err = accelerator.CreateResource(ctx, rec, accelerator.ResourceConfig{
		ImageType: accelerator.ImageTypeRGBA32,
	})
	require.Error(t, err)

	var nilResource *accelerator.Resource
	require.NoError(t, nilResource.Close(ctx))
}

func TestUpdateCloseSubmits(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder()

	u, err := accelerator.StartUpdate(ctx, rec, 10)
	require.NoError(t, err)
	require.False(t, u.IsSubmitted())
	require.NoError(t, u.Close(ctx))
	require.True(t, u.IsSubmitted())
	require.NoError(t, u.Close(ctx))
	require.Error(t, u.SubmitSync(ctx))
	require.Equal(t, 1, rec.Count(acceleratortest.OpUpdateSubmitSync))
	require.NoError(t, rec.Balance())
}

func TestUpdateSubmitFailureStillCloses(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder()
	rec.FailOn(acceleratortest.OpUpdateSubmitSync, 1, nil)

	u, err := accelerator.StartUpdate(ctx, rec, 0)
	require.NoError(t, err)
	require.ErrorIs(t, u.SubmitSync(ctx), acceleratortest.ErrInjected)
	require.True(t, u.IsSubmitted())
	require.NoError(t, u.Close(ctx))
	require.Equal(t, 1, rec.Count(acceleratortest.OpUpdateSubmitSync))
}

func TestElementLifecycle(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder()

	dst, err := accelerator.CreateResource(ctx, rec, accelerator.ResourceConfig{
		ImageType: accelerator.ImageTypeRGBA32,
		Width:     4,
		Height:    4,
	})
	require.NoError(t, err)
	src, err := accelerator.CreateResource(ctx, rec, accelerator.ResourceConfig{
		ImageType: accelerator.ImageTypeRGBA32,
		Width:     2,
		Height:    2,
	})
	require.NoError(t, err)
	display, err := accelerator.OpenOffscreenDisplay(ctx, rec, dst, accelerator.TransformNoRotate)
	require.NoError(t, err)
	u, err := accelerator.StartUpdate(ctx, rec, 0)
	require.NoError(t, err)

	e, err := u.AddElement(ctx, display, accelerator.ElementConfig{
		DestinationRect: dst.Rect(),
		Source:          src.Handle,
		SourceRect:      accelerator.FixedPointRect(src.Rect()),
		Alpha:           accelerator.Alpha{Flags: accelerator.AlphaFixedAllPixels, Opacity: 0xff},
	})
	require.NoError(t, err)
	require.NoError(t, u.SubmitSync(ctx))

	_, err = u.AddElement(ctx, display, accelerator.ElementConfig{})
	require.Error(t, err, "adding into a submitted update")

	// the element still uses both the display and the source
	require.Error(t, rec.Backend.ResourceDelete(ctx, src.Handle))
	require.Error(t, rec.Backend.DisplayClose(ctx, display.Handle))

	rec.Reset()
	require.NoError(t, e.Close(ctx))
	require.NoError(t, e.Close(ctx))
	require.Equal(t, []acceleratortest.Op{
		acceleratortest.OpUpdateStart,
		acceleratortest.OpElementRemove,
		acceleratortest.OpUpdateSubmitSync,
	}, rec.Ops())

	require.NoError(t, display.Close(ctx))
	require.NoError(t, src.Close(ctx))
	require.NoError(t, dst.Close(ctx))
	require.Equal(t, software.Stats{Inits: 0}, rec.Backend.(*software.Accelerator).Stats())
}
