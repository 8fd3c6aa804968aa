// Package encoder implements CGNBT's recursive emission (spec §4.F):
// serialising a tag.Tag tree back to bytes, with an optional framed-Zstd
// compression wrap and the magic-prefix policy. The overwrite policy for
// files lives in cgnbt.EncodeFile.
package encoder

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/cgnbt/cgnbt/cursor"
	"github.com/cgnbt/cgnbt/errs"
	"github.com/cgnbt/cgnbt/format"
	"github.com/cgnbt/cgnbt/internal/options"
	"github.com/cgnbt/cgnbt/internal/pool"
	"github.com/cgnbt/cgnbt/tag"
	"github.com/cgnbt/cgnbt/varint"
	"github.com/cgnbt/cgnbt/vartext"
)

// Config holds encoder settings assembled from functional options, mirroring
// the teacher's generic options.Option[T] pattern used for its numeric
// encoder configuration.
type Config struct {
	compress  bool
	zstdLevel int
	withMagic bool
}

// Option configures an encode call.
type Option = options.Option[*Config]

func defaultConfig() *Config {
	return &Config{withMagic: true, zstdLevel: 3}
}

// WithCompression enables the optional framed-Zstd wrap (spec §4.F
// "Compression path"). level is clamped to [1, 22].
func WithCompression(level int) Option {
	return options.NoError(func(c *Config) {
		c.compress = true
		if level < 1 {
			level = 1
		}
		if level > 22 {
			level = 22
		}
		c.zstdLevel = level
	})
}

// WithoutMagic suppresses the 5-byte magic prefix that Encode otherwise
// emits ahead of the object body. Has no effect when compression is
// requested, since a compressed body carries the Zstd frame magic instead.
func WithoutMagic() Option {
	return options.NoError(func(c *Config) {
		c.withMagic = false
	})
}

// Encode implements spec §4.F encode(): serialises tree's top-level object
// body (no enclosing head byte, no ObjectEnd terminator at top level),
// optionally prefixed with the plain magic, optionally Zstd-compressed.
func Encode(tree map[string]tag.Tag, opts ...Option) ([]byte, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, errs.NewEncodeError(err, 0)
	}

	body := pool.GetTreeBuffer()
	defer pool.PutTreeBuffer(body)

	if err := encodeObjectBody(body, tree); err != nil {
		return nil, err
	}

	if cfg.compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstdEncoderLevel(cfg.zstdLevel)))
		if err != nil {
			return nil, errs.NewEncodeError(fmt.Errorf("%w: %v", errs.ErrCompression, err), 0)
		}
		defer enc.Close()

		return enc.EncodeAll(body.Bytes(), nil), nil
	}

	out := make([]byte, 0, len(cursor.Magic)+body.Len())
	if cfg.withMagic {
		out = append(out, cursor.Magic[:]...)
	}
	out = append(out, body.Bytes()...)

	return out, nil
}

// encodeObjectBody implements the non-nested half of encode_object: no
// ObjectEnd terminator, since the top level is delimited by end-of-stream.
func encodeObjectBody(buf *pool.ByteBuffer, tree map[string]tag.Tag) error {
	for key, val := range tree {
		if !vartext.CanEncode([]byte(key)) {
			return errs.NewEncodeError(fmt.Errorf("%w: %q", errs.ErrInvalidKey, key), 0)
		}

		if err := encodeEntry(buf, key, val); err != nil {
			return err
		}
	}

	return nil
}

// encodeNestedObject implements spec §4.F's nested-object case: same entry
// loop, followed by a single ObjectEnd sentinel byte.
func encodeNestedObject(buf *pool.ByteBuffer, tree map[string]tag.Tag) error {
	if err := encodeObjectBody(buf, tree); err != nil {
		return err
	}

	buf.MustWrite([]byte{0x00})

	return nil
}

// encodeEntry writes one (key, tag) pair: head byte, VarText key, payload.
func encodeEntry(buf *pool.ByteBuffer, key string, t tag.Tag) error {
	head, err := headByte(t)
	if err != nil {
		return err
	}

	buf.MustWrite([]byte{head})
	vartext.Write(buf, []byte(key))

	return encodePayload(buf, t)
}

// headByte computes the header byte for t: high nibble = primary type,
// low nibble = type-specific data (spec §6).
func headByte(t tag.Tag) (byte, error) {
	switch t.Kind() {
	case format.KindBool:
		v, _ := t.AsBool()
		low := byte(0)
		if v {
			low = 1
		}
		return byte(format.KindBool)<<4 | low, nil

	case format.KindHex:
		v, _ := t.AsHex()
		return byte(format.KindHex)<<4 | (v & 0x0F), nil

	case format.KindArray:
		_, elemKind, _ := t.AsArray()
		return byte(format.KindArray)<<4 | byte(elemKind), nil

	case format.KindArrayBool:
		return byte(format.KindArray)<<4 | byte(format.KindBool), nil
	case format.KindArrayHex:
		return byte(format.KindArray)<<4 | byte(format.KindHex), nil
	case format.KindArrayFloat:
		return byte(format.KindArray)<<4 | byte(format.KindFloat), nil
	case format.KindArrayDouble:
		return byte(format.KindArray)<<4 | byte(format.KindDouble), nil
	case format.KindArrayRaw:
		return byte(format.KindArray)<<4 | byte(format.KindRaw), nil

	case format.KindObject, format.KindIVarInt, format.KindUVarInt,
		format.KindFloat, format.KindDouble, format.KindString, format.KindRaw:
		return byte(t.Kind()) << 4, nil

	default:
		return 0, errs.NewEncodeError(fmt.Errorf("%w: unencodable kind %s", errs.ErrBadType, t.Kind()), 0)
	}
}

// encodePayload writes t's payload, recursing for Object/Array.
func encodePayload(buf *pool.ByteBuffer, t tag.Tag) error {
	switch t.Kind() {
	case format.KindObject:
		m, _ := t.AsObject()
		return encodeNestedObject(buf, m)

	case format.KindIVarInt:
		v, _ := t.AsInt()
		varint.WriteIvarint(buf, v)
		return nil

	case format.KindUVarInt:
		v, _ := t.AsUint()
		varint.WriteUvarint(buf, v)
		return nil

	case format.KindBool, format.KindHex:
		return nil // folded into the head byte

	case format.KindFloat:
		v, _ := t.AsFloat()
		writeFloat32(buf, v)
		return nil

	case format.KindDouble:
		v, _ := t.AsDouble()
		writeFloat64(buf, v)
		return nil

	case format.KindRaw:
		v, _ := t.AsRaw()
		buf.MustWrite([]byte{v})
		return nil

	case format.KindString:
		s, _ := t.AsString()
		varint.WriteUvarint(buf, uint64(len(s)))
		buf.MustWrite(s)
		return nil

	case format.KindArray, format.KindArrayBool, format.KindArrayHex,
		format.KindArrayFloat, format.KindArrayDouble, format.KindArrayRaw:
		return encodeArray(buf, t)

	default:
		return errs.NewEncodeError(fmt.Errorf("%w: unencodable kind %s", errs.ErrBadType, t.Kind()), 0)
	}
}

// encodeArray implements spec §4.F encode_array.
func encodeArray(buf *pool.ByteBuffer, t tag.Tag) error {
	switch t.Kind() {
	case format.KindArray:
		elems, elemKind, _ := t.AsArray()
		varint.WriteUvarint(buf, uint64(len(elems)))

		for _, e := range elems {
			if elemKind == format.KindArray {
				head, err := headByte(e)
				if err != nil {
					return err
				}
				buf.MustWrite([]byte{head})
				if err := encodeArray(buf, e); err != nil {
					return err
				}
				continue
			}

			if err := encodePayload(buf, e); err != nil {
				return err
			}
		}

		return nil

	case format.KindArrayBool:
		b, _ := t.AsBoolArray()
		varint.WriteUvarint(buf, uint64(len(b)))
		for _, v := range b {
			if v {
				buf.MustWrite([]byte{0x01})
			} else {
				buf.MustWrite([]byte{0x00})
			}
		}
		return nil

	case format.KindArrayHex:
		b, _ := t.AsHexArray()
		varint.WriteUvarint(buf, uint64(len(b)))
		for _, v := range b {
			buf.MustWrite([]byte{v & 0x0F})
		}
		return nil

	case format.KindArrayFloat:
		b, _ := t.AsFloatArray()
		varint.WriteUvarint(buf, uint64(len(b)))
		for _, v := range b {
			writeFloat32(buf, v)
		}
		return nil

	case format.KindArrayDouble:
		b, _ := t.AsDoubleArray()
		varint.WriteUvarint(buf, uint64(len(b)))
		for _, v := range b {
			writeFloat64(buf, v)
		}
		return nil

	case format.KindArrayRaw:
		b, _ := t.AsRawArray()
		varint.WriteUvarint(buf, uint64(len(b)))
		buf.MustWrite(b)
		return nil

	default:
		return errs.NewEncodeError(fmt.Errorf("%w: not an array kind %s", errs.ErrBadType, t.Kind()), 0)
	}
}

// zstdEncoderLevel maps the spec's numeric 1-22 compression level onto
// klauspost/compress/zstd's named speed tiers, the granularity the pure-Go
// encoder actually exposes.
func zstdEncoderLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 3:
		return zstd.SpeedFastest
	case level <= 9:
		return zstd.SpeedDefault
	case level <= 15:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

func writeFloat32(buf *pool.ByteBuffer, v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	buf.MustWrite(b[:])
}

func writeFloat64(buf *pool.ByteBuffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.MustWrite(b[:])
}
