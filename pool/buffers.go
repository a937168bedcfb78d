package pool

import (
	"math/bits"
)

const (
	minBufferClass = 12 // 4KiB
	maxBufferClass = 30 // 1GiB
)

// Buffers is a set of byte-slice pools bucketed by power-of-two capacity.
type Buffers struct {
	classes [maxBufferClass + 1]*Pool[[]byte]
}

func NewBuffers() *Buffers {
	b := &Buffers{}
	for class := minBufferClass; class <= maxBufferClass; class++ {
		size := 1 << class
		b.classes[class] = NewPool(
			func() *[]byte {
				buf := make([]byte, size)
				return &buf
			},
			nil,
		)
	}
	return b
}

func bufferClass(size int) int {
	if size <= 1<<minBufferClass {
		return minBufferClass
	}
	return bits.Len(uint(size - 1))
}

// Get returns a zeroed slice of length size.
func (b *Buffers) Get(size int) []byte {
	class := bufferClass(size)
	if class > maxBufferClass {
		return make([]byte, size)
	}
	buf := (*b.classes[class].Get())[:size]
	clear(buf)
	return buf
}

// Put returns a slice previously acquired via Get.
func (b *Buffers) Put(buf []byte) {
	c := cap(buf)
	if c < 1<<minBufferClass || c&(c-1) != 0 {
		return
	}
	class := bits.Len(uint(c)) - 1
	if class > maxBufferClass {
		return
	}
	buf = buf[:c]
	b.classes[class].Put(&buf)
}
