package stream

import "sync"

// DefaultBufferSize is the size of a pooled copy buffer.
const DefaultBufferSize = 64 << 10

// bufferPool hands out fixed-size byte buffers.
type bufferPool struct {
	size int
	pool sync.Pool
}

func newBufferPool(size int) *bufferPool {
	if size <= 0 {
		size = DefaultBufferSize
	}
	p := &bufferPool{size: size}
	p.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return p
}

func (p *bufferPool) get() *[]byte {
	return p.pool.Get().(*[]byte)
}

func (p *bufferPool) put(buf *[]byte) {
	p.pool.Put(buf)
}
