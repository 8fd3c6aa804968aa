package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	bb.B = append(bb.B, []byte("hello")...)

	bytes := bb.Bytes()

	assert.Equal(t, []byte("hello"), bytes)
	assert.True(t, &bb.B[0] == &bytes[0], "Bytes() should return the same underlying slice")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_Len(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)

	assert.Equal(t, 0, bb.Len(), "empty buffer should have zero length")

	bb.B = append(bb.B, []byte("test")...)
	assert.Equal(t, 4, bb.Len(), "buffer length should match data")

	bb.B = append(bb.B, []byte(" data")...)
	assert.Equal(t, 9, bb.Len(), "buffer length should update after append")
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.B)

	bb.MustWrite([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.B)
}

func TestByteBuffer_MustWrite_EmptyData(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)

	bb.MustWrite([]byte{})
	assert.Equal(t, 0, bb.Len())

	bb.MustWrite([]byte("data"))
	bb.MustWrite([]byte{})
	assert.Equal(t, []byte("data"), bb.B)
}

func TestByteBuffer_WriteByte(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)

	require.NoError(t, bb.WriteByte('a'))
	require.NoError(t, bb.WriteByte('b'))
	assert.Equal(t, []byte("ab"), bb.B)
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.B)
}

func TestByteBuffer_Write_Multiple(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)

	n1, err1 := bb.Write([]byte("hello"))
	require.NoError(t, err1)
	assert.Equal(t, 5, n1)

	n2, err2 := bb.Write([]byte(" world"))
	require.NoError(t, err2)
	assert.Equal(t, 6, n2)

	assert.Equal(t, []byte("hello world"), bb.B)
	assert.Equal(t, 11, bb.Len())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	bb.B = append(bb.B, []byte("test data")...)

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

func TestByteBuffer_WriteTo_EmptyBuffer(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, "", buf.String())
}

func TestByteBuffer_WriteTo_ErrorPropagation(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	bb.B = append(bb.B, []byte("test")...)

	errorWriter := &errorWriter{err: io.ErrShortWrite}
	n, err := bb.WriteTo(errorWriter)

	assert.Error(t, err)
	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, int64(0), n)
}

// =============================================================================
// ByteBuffer Grow / Extend Tests
// =============================================================================

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(100)

	assert.Equal(t, originalCap, cap(bb.B), "should not reallocate when capacity is sufficient")
}

func TestByteBuffer_Grow_SmallBuffer(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	bb.B = append(bb.B, make([]byte, TreeBufferDefaultSize)...)

	bb.Grow(1024)

	assert.GreaterOrEqual(t, cap(bb.B), TreeBufferDefaultSize+1024, "should have at least requested capacity")
	assert.Equal(t, TreeBufferDefaultSize, len(bb.B), "length should not change")
}

func TestByteBuffer_Grow_LargeBuffer(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	largeSize := 4*TreeBufferDefaultSize + 1024
	bb.B = make([]byte, largeSize)

	bb.Grow(2048)

	assert.GreaterOrEqual(t, cap(bb.B), largeSize+2048, "should have at least requested capacity")
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	testData := []byte("important data that must be preserved")
	bb.B = append(bb.B, testData...)

	bb.Grow(TreeBufferDefaultSize * 2)

	assert.Equal(t, testData, bb.B, "data should be preserved after growth")
}

func TestByteBuffer_Grow_ZeroBytes(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(0)

	assert.Equal(t, originalCap, cap(bb.B), "Grow(0) should not change capacity")
}

func TestByteBuffer_Slice(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	bb.MustWrite([]byte("hello world"))

	s := bb.Slice(2, 5)
	assert.Equal(t, []byte("llo"), s)

	assert.Panics(t, func() { bb.Slice(-1, 2) })
	assert.Panics(t, func() { bb.Slice(5, 2) })
}

func TestByteBuffer_SetLength(t *testing.T) {
	bb := NewByteBuffer(TreeBufferDefaultSize)
	bb.MustWrite([]byte("hello world"))

	bb.SetLength(5)
	assert.Equal(t, []byte("hello"), bb.B)

	assert.Panics(t, func() { bb.SetLength(-1) })
	assert.Panics(t, func() { bb.SetLength(cap(bb.B) + 1) })
}

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(16)
	ok := bb.Extend(8)
	assert.True(t, ok)
	assert.Equal(t, 8, bb.Len())

	ok = bb.Extend(1000)
	assert.False(t, ok, "Extend should fail when capacity is insufficient")
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.ExtendOrGrow(100)

	assert.Equal(t, 100, bb.Len())
	assert.GreaterOrEqual(t, cap(bb.B), 100)
}

// =============================================================================
// ByteBufferPool Tests
// =============================================================================

func TestNewByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(8192, 65536)

	require.NotNil(t, p)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, cap(bb.B), 8192, "buffer should have at least default size")

	p.Put(bb)
}

func TestByteBufferPool_CustomSizes(t *testing.T) {
	tests := []struct {
		name         string
		defaultSize  int
		maxThreshold int
	}{
		{"Small pool", 1024, 4096},
		{"Medium pool", 16384, 131072},
		{"Large pool", 1048576, 8388608},
		{"No threshold", 8192, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewByteBufferPool(tt.defaultSize, tt.maxThreshold)
			bb := p.Get()
			assert.GreaterOrEqual(t, cap(bb.B), tt.defaultSize)
			p.Put(bb)
		})
	}
}

func TestByteBufferPool_Put_Nil(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)
	assert.NotPanics(t, func() { p.Put(nil) })
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)

	bb := p.Get()
	bb.Grow(10000)
	assert.Greater(t, cap(bb.B), 4096, "buffer should have grown beyond threshold")

	p.Put(bb)

	bb2 := p.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2, "should not reuse buffer larger than threshold")
}

func TestByteBufferPool_MaxThreshold_Zero(t *testing.T) {
	p := NewByteBufferPool(1024, 0)

	bb := p.Get()
	bb.Grow(1024 * 1024)
	assert.Greater(t, cap(bb.B), 100000, "buffer should have grown to large size")

	p.Put(bb)

	bb2 := p.Get()
	assert.NotNil(t, bb2)
}

func TestByteBufferPool_ResetsOnPut(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)

	bb := p.Get()
	bb.MustWrite([]byte("sensitive data"))
	p.Put(bb)

	assert.Equal(t, 0, len(bb.B), "Put should reset the buffer")
}

// =============================================================================
// Default Tree/Archive Pool Tests
// =============================================================================

func TestGetTreeBuffer(t *testing.T) {
	bb := GetTreeBuffer()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "pooled buffer should be empty")
	assert.GreaterOrEqual(t, cap(bb.B), TreeBufferDefaultSize, "pooled buffer should have at least default capacity")

	PutTreeBuffer(bb)
}

func TestPutTreeBuffer_NilBuffer(t *testing.T) {
	assert.NotPanics(t, func() {
		PutTreeBuffer(nil)
	})
}

func TestGetPut_TreeBufferReuse(t *testing.T) {
	bb1 := GetTreeBuffer()
	bb1.B = append(bb1.B, []byte("test data")...)

	PutTreeBuffer(bb1)

	bb2 := GetTreeBuffer()
	assert.Equal(t, 0, len(bb2.B), "buffer from pool should be reset")
	PutTreeBuffer(bb2)
}

func TestGetArchiveBuffer(t *testing.T) {
	bb := GetArchiveBuffer()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "archive buffer should be empty")
	assert.GreaterOrEqual(t, cap(bb.B), ArchiveBufferDefault, "archive buffer should have at least default size")

	PutArchiveBuffer(bb)
}

func TestPutArchiveBuffer(t *testing.T) {
	bb := GetArchiveBuffer()
	bb.MustWrite([]byte("test data"))

	assert.NotPanics(t, func() {
		PutArchiveBuffer(bb)
	})

	assert.Equal(t, 0, len(bb.B), "PutArchiveBuffer should reset the buffer")
}

func TestArchiveBuffer_MaxThreshold(t *testing.T) {
	bb := GetArchiveBuffer()
	bb.Grow(10 * 1024 * 1024)

	assert.Greater(t, cap(bb.B), ArchiveBufferMax, "buffer should have grown beyond threshold")

	PutArchiveBuffer(bb)

	bb2 := GetArchiveBuffer()
	assert.LessOrEqual(t, cap(bb2.B), ArchiveBufferMax*2, "should not reuse overly large buffer")
}

func TestDefaultPools_Independence(t *testing.T) {
	treeBuf := GetTreeBuffer()
	treeCap := cap(treeBuf.B)

	archiveBuf := GetArchiveBuffer()
	archiveCap := cap(archiveBuf.B)

	assert.NotEqual(t, treeCap, archiveCap, "tree and archive buffers should have different default sizes")
	assert.GreaterOrEqual(t, treeCap, TreeBufferDefaultSize)
	assert.GreaterOrEqual(t, archiveCap, ArchiveBufferDefault)

	PutTreeBuffer(treeBuf)
	PutArchiveBuffer(archiveBuf)
}

// =============================================================================
// Concurrency / Integration Tests
// =============================================================================

func TestPool_ConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numIterations = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				bb := GetTreeBuffer()
				bb.MustWrite([]byte("data"))
				assert.Equal(t, 4, bb.Len())
				PutTreeBuffer(bb)
			}
		}()
	}

	wg.Wait()
}

func TestByteBuffer_LargeDataWrite(t *testing.T) {
	bb := GetTreeBuffer()
	defer PutTreeBuffer(bb)

	largeData := make([]byte, 1024*1024)
	for i := range largeData {
		largeData[i] = byte(i % 256)
	}

	bb.MustWrite(largeData)

	assert.Equal(t, len(largeData), bb.Len())
	assert.Equal(t, largeData, bb.B)
}

func TestByteBuffer_ResetAndReuse(t *testing.T) {
	bb := GetTreeBuffer()
	defer PutTreeBuffer(bb)

	bb.MustWrite([]byte("first"))
	assert.Equal(t, 5, bb.Len())

	bb.Reset()
	assert.Equal(t, 0, bb.Len())

	bb.MustWrite([]byte("second"))
	assert.Equal(t, 6, bb.Len())
	assert.Equal(t, []byte("second"), bb.B)
}

// errorWriter is a writer that always returns an error.
type errorWriter struct {
	err error
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	return 0, ew.err
}
