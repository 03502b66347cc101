package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(ColumnBufferDefaultSize)
	bb.MustWrite([]byte("hello"))

	assert.Equal(t, []byte("hello"), bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(ColumnBufferDefaultSize)
	bb.MustWrite([]byte("some data"))
	originalCap := bb.Cap()

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_LenCap(t *testing.T) {
	bb := NewByteBuffer(ColumnBufferDefaultSize)
	assert.Equal(t, 0, bb.Len())

	bb.MustWrite([]byte("test"))
	assert.Equal(t, 4, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), 4)
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(8)

	n, err := bb.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", string(bb.Bytes()))
}

func TestByteBuffer_Slice(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("0123456789"))

	assert.Equal(t, []byte("234"), bb.Slice(2, 5))
	assert.Panics(t, func() { bb.Slice(-1, 2) })
	assert.Panics(t, func() { bb.Slice(5, 2) })
	assert.Panics(t, func() { bb.Slice(0, 100) })
}

func TestByteBuffer_SetLength(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.SetLength(10)
	assert.Equal(t, 10, bb.Len())

	assert.Panics(t, func() { bb.SetLength(-1) })
	assert.Panics(t, func() { bb.SetLength(100) })
}

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(8)

	assert.True(t, bb.Extend(4))
	assert.Equal(t, 4, bb.Len())

	// Not enough remaining capacity.
	assert.False(t, bb.Extend(100))
	assert.Equal(t, 4, bb.Len(), "failed Extend should not change length")
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.ExtendOrGrow(100)

	assert.Equal(t, 100, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), 100)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("no-op when capacity already sufficient", func(t *testing.T) {
		bb := NewByteBuffer(1024)
		bb.Grow(10)
		assert.Equal(t, 1024, bb.Cap())
	})

	t.Run("grows by default increment for small buffers", func(t *testing.T) {
		bb := NewByteBuffer(16)
		bb.Grow(ColumnBufferDefaultSize * 2)
		assert.GreaterOrEqual(t, bb.Cap(), ColumnBufferDefaultSize*2)
	})

	t.Run("grows by 25%% for large buffers", func(t *testing.T) {
		bb := NewByteBuffer(8 * ColumnBufferDefaultSize)
		bb.B = bb.B[:cap(bb.B)] // pretend it's full
		bb.Grow(1)
		assert.Greater(t, bb.Cap(), 8*ColumnBufferDefaultSize)
	})
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("payload"))

	var out sliceWriter
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", string(out.data))
}

type sliceWriter struct{ data []byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(64, 256)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.Equal(t, 64, bb.Cap())

	bb.MustWrite([]byte("data"))
	p.Put(bb)

	bb2 := p.Get()
	assert.Equal(t, 0, bb2.Len(), "pooled buffer should come back reset")
}

func TestByteBufferPool_PutNil(t *testing.T) {
	p := NewByteBufferPool(64, 256)
	assert.NotPanics(t, func() { p.Put(nil) })
}

func TestByteBufferPool_DiscardsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := NewByteBuffer(8)
	bb.Grow(1000) // now well over maxThreshold
	p.Put(bb)

	fresh := p.Get()
	assert.LessOrEqual(t, fresh.Cap(), 16, "oversized buffer should have been discarded, not recycled")
}

func TestColumnAndBlockBufferPools(t *testing.T) {
	cb := GetColumnBuffer()
	require.NotNil(t, cb)
	assert.GreaterOrEqual(t, cb.Cap(), ColumnBufferDefaultSize)
	PutColumnBuffer(cb)

	bb := GetBlockBuffer()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, bb.Cap(), BlockBufferDefaultSize)
	PutBlockBuffer(bb)
}

func TestByteBufferPool_Concurrent(t *testing.T) {
	p := NewByteBufferPool(ColumnBufferDefaultSize, ColumnBufferMaxThreshold)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			bb := p.Get()
			bb.MustWrite(make([]byte, n))
			p.Put(bb)
		}(i)
	}
	wg.Wait()
}
