// Package vartext implements CGNBT's VarText encoding (spec §4.B): a
// self-terminating short byte string where every byte except the last has
// its high bit clear, and the last byte's high bit is set and must be
// cleared to recover the logical byte.
//
// VarText is used exclusively for object keys (spec §9) and is not
// binary-safe: any payload byte with the MSB already set would prematurely
// terminate the sequence. User-facing string payloads use the length-
// prefixed String tag instead (see the tag package).
package vartext

import (
	"fmt"
	"io"

	"github.com/cgnbt/cgnbt/errs"
	"github.com/cgnbt/cgnbt/internal/pool"
)

// Read consumes bytes from r until one with its MSB set is read, clears
// that byte's MSB, and returns the resulting byte sequence. The empty
// encoding (a lone 0x80) decodes to an empty (non-nil) slice.
func Read(r io.ByteReader, offset uint64) ([]byte, error) {
	var out []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, errs.NewDecodeError(fmt.Errorf("%w: vartext truncated after %d byte(s)", errs.ErrTruncated, len(out)), offset)
		}

		if b&0x80 != 0 {
			// A lone terminator byte whose low 7 bits are zero is the
			// dedicated empty-string encoding (spec §4.B), not a single
			// NUL character: only append it as data when prior bytes
			// already make this a non-empty sequence.
			if len(out) > 0 || b != 0x80 {
				out = append(out, b&0x7F)
			} else {
				out = []byte{}
			}
			return out, nil
		}

		out = append(out, b)
	}
}

// Write appends the VarText encoding of b to buf: b verbatim, then the high
// bit of the final emitted byte is set. Empty input is encoded as a single
// 0x80 byte.
//
// Write does not validate that b's bytes all have a clear high bit — use
// CanEncode first for anything that didn't originate as a short identifier
// (spec §9: implementations should refuse to encode a key whose bytes
// already carry a set MSB, since that corrupts the terminator convention).
func Write(buf *pool.ByteBuffer, b []byte) {
	if len(b) == 0 {
		buf.MustWrite([]byte{0x80})
		return
	}

	buf.Grow(len(b))
	buf.MustWrite(b[:len(b)-1])
	buf.MustWrite([]byte{b[len(b)-1] | 0x80})
}

// CanEncode reports whether b can round-trip through VarText without
// corruption: every byte of b has a clear high bit, and b is not the lone
// byte 0x00, whose encoding (0x80) is the empty string's.
func CanEncode(b []byte) bool {
	if len(b) == 1 && b[0] == 0x00 {
		return false
	}

	for _, c := range b {
		if c&0x80 != 0 {
			return false
		}
	}

	return true
}
