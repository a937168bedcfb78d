package scaler

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/xsync"
)

type scaleJob struct {
	Frame  *frame.Frame
	Result *frame.Frame
	Err    error
}

func TestLocked(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	locker := &xsync.Mutex{}
	s := NewLocked(env.Scaler, locker)
	require.NoError(t, s.Negotiate(ctx, rgba(2, 2), rgba(4, 4)))
	require.Equal(t, rgba(2, 2), s.InputFormat())
	require.Equal(t, rgba(4, 4), s.OutputFormat())

	inputs := make([]*scaleJob, 8)
	for idx := range inputs {
		inputs[idx] = &scaleJob{Frame: env.newRGBAFrame(t)}
	}

	var wg sync.WaitGroup
	for _, in := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in.Result, in.Err = s.Scale(ctx, in.Frame)
		}()
	}
	wg.Wait()

	for _, in := range inputs {
		require.NoError(t, in.Err)
		require.Equal(t, []byte{255, 255, 255, 255}, pixelAt(in.Result, 3, 3))
		in.Result.Release()
	}
	require.Zero(t, env.Allocator.Outstanding)
	require.NoError(t, env.Recorder.Balance())
	require.Equal(t, uint64(len(inputs)), env.Scaler.GetStats().FramesProcessed)

	require.NoError(t, s.Close(ctx))
	require.True(t, env.Scaler.IsClosed())
}
