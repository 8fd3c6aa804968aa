// Package varint implements the CGNBT variable-length integer encodings
// (spec §4.A): an unsigned LEB128-style varint terminated by a set MSB on
// its final byte, and a zigzag-wrapped signed variant built on top of it.
//
// Encoding is written directly into a pool.ByteBuffer (component F's
// output sink); decoding reads one byte at a time from anything satisfying
// io.ByteReader, which cursor.Cursor implements.
package varint

import (
	"fmt"
	"io"

	"github.com/cgnbt/cgnbt/errs"
	"github.com/cgnbt/cgnbt/internal/pool"
)

// MaxBytes is the longest a 64-bit uvarint can be: ceil(64/7) = 10 bytes.
const MaxBytes = 10

// ReadUvarint consumes 1..MaxBytes bytes from r, reconstructing a uint64 as
// the little-endian concatenation of 7-bit septets. The final byte (the one
// whose MSB is set) terminates the value.
//
// Returns errs.ErrTruncated if r runs out of bytes before a terminator is
// seen, wrapped with the offset the read began at.
func ReadUvarint(r io.ByteReader, offset uint64) (uint64, error) {
	var result uint64
	for i := 0; i < MaxBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, errs.NewDecodeError(fmt.Errorf("%w: uvarint truncated after %d byte(s)", errs.ErrTruncated, i), offset)
		}

		result |= uint64(b&0x7F) << (7 * uint(i))

		if b&0x80 != 0 {
			return result, nil
		}
	}

	return 0, errs.NewDecodeError(fmt.Errorf("%w: uvarint exceeds %d bytes", errs.ErrTruncated, MaxBytes), offset)
}

// ReadIvarint reads an unsigned varint and un-zigzags it into a signed
// int64 (spec §3: "Signed varint": unsigned varint of zigzag(n)).
func ReadIvarint(r io.ByteReader, offset uint64) (int64, error) {
	u, err := ReadUvarint(r, offset)
	if err != nil {
		return 0, err
	}

	return Unzigzag(u), nil
}

// WriteUvarint appends the varint encoding of v to buf. The value 0 is
// emitted as the single byte 0x80, matching spec §4.A.
func WriteUvarint(buf *pool.ByteBuffer, v uint64) {
	buf.Grow(MaxBytes)
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v == 0 {
			buf.MustWrite([]byte{b | 0x80})
			return
		}
		buf.MustWrite([]byte{b})
	}
}

// WriteIvarint zigzag-encodes v and writes it as an unsigned varint.
func WriteIvarint(buf *pool.ByteBuffer, v int64) {
	WriteUvarint(buf, Zigzag(v))
}

// Zigzag maps a signed integer to an unsigned one so that small-magnitude
// negative numbers stay small: zigzag(n) = (n << 1) XOR (n >> 63).
func Zigzag(n int64) uint64 {
	return uint64(n<<1) ^ uint64(n>>63) //nolint:gosec
}

// Unzigzag reverses Zigzag: (u >> 1) XOR -(u & 1).
func Unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// Len returns the number of bytes WriteUvarint would emit for v, without
// allocating. Mirrors the teacher's inline varint-length fast path.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}
