package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolReset(t *testing.T) {
	type item struct{ Value int }
	resets := 0
	p := NewPool(
		func() *item { return &item{} },
		func(i *item) {
			resets++
			i.Value = 0
		},
	)

	i := p.Get()
	require.NotNil(t, i)
	i.Value = 42
	p.Put(i, nil)
	require.Equal(t, 1, resets)
	require.Zero(t, i.Value)

	t.Run("no-reuse", func(t *testing.T) {
		ReuseMemory = false
		defer func() { ReuseMemory = true }()
		p.Put(&item{Value: 1})
		require.Equal(t, 1, resets)
	})
}

func TestBuffers(t *testing.T) {
	b := NewBuffers()

	buf := b.Get(100)
	require.Len(t, buf, 100)
	require.Equal(t, 1<<minBufferClass, cap(buf))
	for idx := range buf {
		buf[idx] = 0xff
	}
	b.Put(buf)

	buf = b.Get(100)
	require.Len(t, buf, 100)
	for _, v := range buf {
		require.Zero(t, v)
	}

	buf = b.Get(5000)
	require.Len(t, buf, 5000)
	require.Equal(t, 8192, cap(buf))
	b.Put(buf)

	// foreign slices are ignored
	b.Put(make([]byte, 5000))
	b.Put(nil)
}

func TestBufferClass(t *testing.T) {
	for size, class := range map[int]int{
		0:         minBufferClass,
		1:         minBufferClass,
		4096:      12,
		4097:      13,
		1 << 20:   20,
		1<<20 + 1: 21,
	} {
		require.Equal(t, class, bufferClass(size), "size %d", size)
	}
}
