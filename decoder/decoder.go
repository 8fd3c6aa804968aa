// Package decoder implements CGNBT's recursive-descent decoder (spec §4.E):
// header byte -> type -> name -> payload, materialising a tree of tag.Tag
// values from a cursor.Cursor.
package decoder

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cgnbt/cgnbt/cursor"
	"github.com/cgnbt/cgnbt/errs"
	"github.com/cgnbt/cgnbt/format"
	"github.com/cgnbt/cgnbt/internal/pool"
	"github.com/cgnbt/cgnbt/tag"
	"github.com/cgnbt/cgnbt/varint"
	"github.com/cgnbt/cgnbt/vartext"
)

// maxSaneCount is a fixed upper bound on a typed-array or tree-array
// element count and on a String length prefix; a larger value is rejected
// as corrupt. Counts are not checked against the number of bytes left in
// the stream, so storage for up to maxSaneCount elements is allocated
// before the elements themselves are read.
const maxSaneCount = 1 << 32

// Result is the outcome of a top-level Decode call: the decoded object (nil
// when decoding the body fails, empty when the source cannot be opened) and
// any diagnostics accumulated along the way, returned
// instead of mutating a thread-scoped channel (see errs package doc, and
// SPEC_FULL.md Open Question #4).
type Result struct {
	Tree        map[string]tag.Tag
	Diagnostics *errs.Diagnostics
}

// Decode implements the top-level entry point (spec §4.E steps 1-4): build
// a cursor over r, and decode its top-level object body.
func Decode(r io.Reader) Result {
	diag := &errs.Diagnostics{}

	c, err := cursor.Open(r)
	if err != nil {
		diag.Add("OPEN_FAILED: %v", err)
		return Result{Tree: map[string]tag.Tag{}, Diagnostics: diag}
	}
	defer func() {
		// A close failure is recorded but does not turn a success into a failure.
		if cerr := c.Close(); cerr != nil {
			diag.Add("CLOSE_FAILED: %v", cerr)
		}
	}()

	if c.IsEOF() {
		return Result{Tree: map[string]tag.Tag{}, Diagnostics: diag}
	}

	tree, err := decodeObject(c, true, diag)
	if err != nil {
		return Result{Tree: nil, Diagnostics: diag}
	}

	return Result{Tree: tree, Diagnostics: diag}
}

// decodeObject implements spec §4.E decode_object. When topLevel is true,
// it stops at end of stream; otherwise it stops upon consuming an
// ObjectEnd sentinel header byte.
func decodeObject(c *cursor.Cursor, topLevel bool, diag *errs.Diagnostics) (map[string]tag.Tag, error) {
	out := make(map[string]tag.Tag)

	for {
		if topLevel {
			if c.IsEOF() {
				return out, nil
			}
		}

		head, err := c.ReadByte()
		if err != nil {
			if topLevel {
				return out, nil
			}
			e := errs.NewDecodeError(fmt.Errorf("%w: object truncated before ObjectEnd", errs.ErrTruncated), c.Offset())
			diag.Add(e.Error())
			return nil, e
		}

		kind := format.Kind(head >> 4)
		low := head & 0x0F

		if !topLevel && kind == format.KindObjectEnd {
			return out, nil
		}

		key, err := vartext.Read(c, c.Offset())
		if err != nil {
			diag.Add(err.Error())
			return nil, err
		}

		val, err := decodeValue(c, kind, low, diag)
		if err != nil {
			return nil, err
		}

		// First occurrence wins (spec §4.E, §9).
		ks := string(key)
		if _, exists := out[ks]; !exists {
			out[ks] = val
		}
	}
}

// decodeValue dispatches a single entry's payload by its header's primary
// type (high nibble) and type-specific low nibble.
func decodeValue(c *cursor.Cursor, kind format.Kind, low byte, diag *errs.Diagnostics) (tag.Tag, error) {
	switch kind {
	case format.KindObject:
		m, err := decodeObject(c, false, diag)
		if err != nil {
			return tag.Tag{}, err
		}
		return tag.NewObject(m), nil

	case format.KindIVarInt:
		v, err := varint.ReadIvarint(c, c.Offset())
		if err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		return tag.NewInt(v), nil

	case format.KindUVarInt:
		v, err := varint.ReadUvarint(c, c.Offset())
		if err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		return tag.NewUint(v), nil

	case format.KindBool:
		return tag.NewBool(low != 0), nil

	case format.KindHex:
		return tag.NewHex(low), nil

	case format.KindFloat:
		f, err := readFloat(c)
		if err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		return tag.NewFloat(f), nil

	case format.KindDouble:
		d, err := readDouble(c)
		if err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		return tag.NewDouble(d), nil

	case format.KindArray:
		return decodeArray(c, format.Kind(low), diag)

	case format.KindString:
		s, err := readString(c)
		if err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		return tag.NewString(s), nil

	case format.KindRaw:
		b, err := c.ReadByte()
		if err != nil {
			e := errs.NewDecodeError(fmt.Errorf("%w: raw byte", errs.ErrTruncated), c.Offset())
			diag.Add(e.Error())
			return tag.Tag{}, e
		}
		return tag.NewRaw(b), nil

	default:
		e := errs.NewDecodeError(fmt.Errorf("%w: header nibble %d", errs.ErrBadType, kind), c.Offset())
		diag.Add(e.Error())
		return tag.Tag{}, e
	}
}

// decodeArray implements spec §4.E decode_array, dispatching on the
// outer header's element-type nibble.
func decodeArray(c *cursor.Cursor, elemKind format.Kind, diag *errs.Diagnostics) (tag.Tag, error) {
	count, err := varint.ReadUvarint(c, c.Offset())
	if err != nil {
		diag.Add(err.Error())
		return tag.Tag{}, err
	}
	if count > maxSaneCount {
		e := errs.NewDecodeError(fmt.Errorf("%w: array count %d exceeds sane bound", errs.ErrTruncated, count), c.Offset())
		diag.Add(e.Error())
		return tag.Tag{}, e
	}

	switch elemKind {
	case format.KindObject, format.KindIVarInt, format.KindUVarInt, format.KindString:
		elems := make([]tag.Tag, 0, count)
		for i := uint64(0); i < count; i++ {
			v, err := decodeValue(c, elemKind, 0, diag)
			if err != nil {
				return tag.Tag{}, err
			}
			elems = append(elems, v)
		}
		return tag.NewArray(elemKind, elems), nil

	case format.KindBool, format.KindHex, format.KindFloat, format.KindDouble, format.KindRaw:
		return decodeTypedArray(c, elemKind, count, diag)

	case format.KindArray:
		elems := make([]tag.Tag, 0, count)
		for i := uint64(0); i < count; i++ {
			head, err := c.ReadByte()
			if err != nil {
				e := errs.NewDecodeError(fmt.Errorf("%w: nested array element header", errs.ErrTruncated), c.Offset())
				diag.Add(e.Error())
				return tag.Tag{}, e
			}

			innerKind := format.Kind(head >> 4)
			innerLow := head & 0x0F

			if innerKind != format.KindArray {
				e := errs.NewDecodeError(fmt.Errorf("%w: nested element header %d", errs.ErrBadSecondType, innerKind), c.Offset())
				diag.Add(e.Error())
				return tag.Tag{}, e
			}

			v, err := decodeArray(c, format.Kind(innerLow), diag)
			if err != nil {
				return tag.Tag{}, err
			}
			elems = append(elems, v)
		}
		return tag.NewArray(format.KindArray, elems), nil

	default:
		e := errs.NewDecodeError(fmt.Errorf("%w: array element type %d", errs.ErrBadType, elemKind), c.Offset())
		diag.Add(e.Error())
		return tag.Tag{}, e
	}
}

// decodeTypedArray implements spec §4.E's typed-array decoders. The staging
// byte reads and the decoded float slices are drawn from pool's slice
// pools; tag.NewXxxArray copies into the Tag's own storage, so the pooled
// slice is returned immediately afterward.
func decodeTypedArray(c *cursor.Cursor, elemKind format.Kind, count uint64, diag *errs.Diagnostics) (tag.Tag, error) {
	n := int(count)

	switch elemKind {
	case format.KindBool:
		buf, done := pool.GetByteSlice(n)
		defer done()
		if err := readFull(c, buf); err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		out := make([]bool, n)
		for i, b := range buf {
			out[i] = b&0x01 != 0
		}
		return tag.NewBoolArray(out), nil

	case format.KindHex:
		buf, done := pool.GetByteSlice(n)
		defer done()
		if err := readFull(c, buf); err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		out := make([]uint8, n)
		for i, b := range buf {
			out[i] = b & 0x0F
		}
		return tag.NewHexArray(out), nil

	case format.KindFloat:
		buf, done := pool.GetByteSlice(n * 4)
		defer done()
		if err := readFull(c, buf); err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		out, doneOut := pool.GetFloat32Slice(n)
		defer doneOut()
		for i := range out {
			out[i] = decodeFloat32(buf[i*4 : i*4+4])
		}
		return tag.NewFloatArray(out), nil

	case format.KindDouble:
		buf, done := pool.GetByteSlice(n * 8)
		defer done()
		if err := readFull(c, buf); err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		out, doneOut := pool.GetFloat64Slice(n)
		defer doneOut()
		for i := range out {
			out[i] = decodeFloat64(buf[i*8 : i*8+8])
		}
		return tag.NewDoubleArray(out), nil

	case format.KindRaw:
		buf := make([]byte, count)
		if err := readFull(c, buf); err != nil {
			diag.Add(err.Error())
			return tag.Tag{}, err
		}
		return tag.NewRawArray(buf), nil

	default:
		e := errs.NewDecodeError(fmt.Errorf("%w: typed array element %d", errs.ErrBadType, elemKind), c.Offset())
		diag.Add(e.Error())
		return tag.Tag{}, e
	}
}

func readFull(c *cursor.Cursor, buf []byte) error {
	n, err := io.ReadFull(c, buf)
	if err != nil {
		return errs.NewDecodeError(fmt.Errorf("%w: wanted %d bytes, got %d", errs.ErrTruncated, len(buf), n), c.Offset())
	}
	return nil
}

func readFloat(c *cursor.Cursor) (float32, error) {
	var buf [4]byte
	if err := readFull(c, buf[:]); err != nil {
		return 0, err
	}
	return decodeFloat32(buf[:]), nil
}

func readDouble(c *cursor.Cursor) (float64, error) {
	var buf [8]byte
	if err := readFull(c, buf[:]); err != nil {
		return 0, err
	}
	return decodeFloat64(buf[:]), nil
}

func decodeFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func decodeFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func readString(c *cursor.Cursor) ([]byte, error) {
	n, err := varint.ReadUvarint(c, c.Offset())
	if err != nil {
		return nil, err
	}
	if n > maxSaneCount {
		return nil, errs.NewDecodeError(fmt.Errorf("%w: string length %d exceeds sane bound", errs.ErrTruncated, n), c.Offset())
	}

	buf := make([]byte, n)
	if err := readFull(c, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
