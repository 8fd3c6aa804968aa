package varint_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgnbt/cgnbt/errs"
	"github.com/cgnbt/cgnbt/internal/pool"
	"github.com/cgnbt/cgnbt/varint"
)

func TestWriteReadUvarint_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 127, 128, 255, 300, 16384, 1 << 32, 1<<64 - 1}

	for _, v := range values {
		buf := pool.NewByteBuffer(16)
		varint.WriteUvarint(buf, v)

		got, err := varint.ReadUvarint(bytes.NewReader(buf.Bytes()), 0)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestWriteUvarint_ZeroIsSingleByte(t *testing.T) {
	buf := pool.NewByteBuffer(16)
	varint.WriteUvarint(buf, 0)

	assert.Equal(t, []byte{0x80}, buf.Bytes())
}

func TestReadUvarint_Truncated(t *testing.T) {
	// 0x00 has its MSB clear, so the reader expects a further byte.
	_, err := varint.ReadUvarint(bytes.NewReader([]byte{0x00}), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTruncated)
}

func TestReadUvarint_EmptyInput(t *testing.T) {
	_, err := varint.ReadUvarint(bytes.NewReader(nil), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTruncated)
}

func TestReadUvarint_ExceedsMaxBytes(t *testing.T) {
	// Eleven (MaxBytes+1) continuation bytes in a row without a terminator
	// is unrecoverable.
	data := bytes.Repeat([]byte{0x00}, varint.MaxBytes+1)
	_, err := varint.ReadUvarint(bytes.NewReader(data), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTruncated)
}

func TestZigzag_RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 127, -128, 1 << 40, -(1 << 40)}

	for _, v := range values {
		assert.Equal(t, v, varint.Unzigzag(varint.Zigzag(v)), "value %d", v)
	}
}

func TestZigzag_SmallMagnitudesStaySmall(t *testing.T) {
	assert.Equal(t, uint64(0), varint.Zigzag(0))
	assert.Equal(t, uint64(1), varint.Zigzag(-1))
	assert.Equal(t, uint64(2), varint.Zigzag(1))
	assert.Equal(t, uint64(3), varint.Zigzag(-2))
}

func TestWriteReadIvarint_RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 1000, -1000, 1 << 40, -(1 << 40)}

	for _, v := range values {
		buf := pool.NewByteBuffer(16)
		varint.WriteIvarint(buf, v)

		got, err := varint.ReadIvarint(bytes.NewReader(buf.Bytes()), 0)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestLen_MatchesActualEncodingLength(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 16383, 16384, 1 << 35, 1<<64 - 1}

	for _, v := range values {
		buf := pool.NewByteBuffer(16)
		varint.WriteUvarint(buf, v)

		assert.Equal(t, buf.Len(), varint.Len(v), "value %d", v)
	}
}

type oneByteReader struct {
	data []byte
	pos  int
}

func (r *oneByteReader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func TestReadUvarint_MultiByteSequence(t *testing.T) {
	// 300 = 0b100101100, encoded little-endian 7-bit groups: 0x2C, 0x82
	r := &oneByteReader{data: []byte{0x2C, 0x82}}
	got, err := varint.ReadUvarint(r, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), got)
}
