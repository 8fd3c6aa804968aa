// Package tag implements the CGNBT tag value (spec §4.D): a discriminated
// union over the 16 tag variants, expressed as a Go sum type instead of the
// source's unchecked C-style union with a manual discriminator (spec §9:
// "a safer reimplementation models the tag value as a sum type with a
// discriminant naturally enforced by the language").
//
// Because Go has no destructors or manual move semantics, the copy/move/
// destroy discipline required of the source collapses to ordinary Go value
// semantics: Tag is a plain struct, assignment copies the discriminant and
// whichever field is live, and Clone performs the deep copy the source's
// "copy constructor" would have done for object/array/string payloads. There
// is no sentinel "moved-from" state to guard against; the zero Tag is a
// valid, empty Object-less value that simply has Kind 0.
package tag

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cgnbt/cgnbt/format"
	"github.com/cgnbt/cgnbt/internal/hash"
)

// Tag is the fundamental tree node: a value tagged with its variant kind.
// Exactly one payload field is meaningful for a given Kind; which one is
// determined entirely by Kind, never stored redundantly.
type Tag struct {
	kind format.Kind

	object map[string]Tag

	ivar    int64
	uvar    uint64
	boolean bool
	hex     uint8
	f32     float32
	f64     float64
	raw     byte
	str     []byte

	// elemKind is meaningful only when kind == KindArray: it names the
	// element type of the tree-recursive array (Object/IVarInt/UVarInt/
	// Array/String). Typed arrays carry their element type in kind itself
	// (KindArrayBool etc.) and need no separate field.
	elemKind format.Kind
	array    []Tag

	boolArr   []bool
	hexArr    []uint8
	floatArr  []float32
	doubleArr []float64
	rawArr    []byte
}

// Kind reports the tag's variant.
func (t Tag) Kind() format.Kind { return t.kind }

// --- constructors ---

// NewObject wraps an existing key→Tag mapping. The caller transfers
// ownership of m; callers that need to keep using m afterward should Clone
// the resulting Tag first.
func NewObject(m map[string]Tag) Tag {
	if m == nil {
		m = make(map[string]Tag)
	}
	return Tag{kind: format.KindObject, object: m}
}

// NewInt constructs an IVarInt tag.
func NewInt(v int64) Tag { return Tag{kind: format.KindIVarInt, ivar: v} }

// NewUint constructs a UVarInt tag.
func NewUint(v uint64) Tag { return Tag{kind: format.KindUVarInt, uvar: v} }

// NewBool constructs a Bool tag.
func NewBool(v bool) Tag { return Tag{kind: format.KindBool, boolean: v} }

// NewHex constructs a Hex tag. Only the low nibble of v is significant.
func NewHex(v uint8) Tag { return Tag{kind: format.KindHex, hex: v & 0x0F} }

// NewFloat constructs a Float (binary32) tag.
func NewFloat(v float32) Tag { return Tag{kind: format.KindFloat, f32: v} }

// NewDouble constructs a Double (binary64) tag.
func NewDouble(v float64) Tag { return Tag{kind: format.KindDouble, f64: v} }

// NewRaw constructs a single-byte Raw tag.
func NewRaw(v byte) Tag { return Tag{kind: format.KindRaw, raw: v} }

// NewString constructs a length-prefixed String tag from b. b is copied.
func NewString(b []byte) Tag {
	return Tag{kind: format.KindString, str: append([]byte(nil), b...)}
}

// NewArray constructs a tree-recursive Array tag whose elements all carry
// elemKind. elemKind must not be a fixed-width scalar kind (Bool/Hex/Float/
// Double/Raw); use the dedicated NewXxxArray constructors for those, since
// on the wire they collapse to a typed-array payload instead of per-element
// recursion.
func NewArray(elemKind format.Kind, elems []Tag) Tag {
	return Tag{kind: format.KindArray, elemKind: elemKind, array: append([]Tag(nil), elems...)}
}

// NewBoolArray constructs a typed ArrayBool tag. b is copied.
func NewBoolArray(b []bool) Tag {
	return Tag{kind: format.KindArrayBool, boolArr: append([]bool(nil), b...)}
}

// NewHexArray constructs a typed ArrayHex tag; only the low nibble of each
// element is significant. b is copied.
func NewHexArray(b []uint8) Tag {
	out := make([]uint8, len(b))
	for i, v := range b {
		out[i] = v & 0x0F
	}
	return Tag{kind: format.KindArrayHex, hexArr: out}
}

// NewFloatArray constructs a typed ArrayFloat tag. b is copied.
func NewFloatArray(b []float32) Tag {
	return Tag{kind: format.KindArrayFloat, floatArr: append([]float32(nil), b...)}
}

// NewDoubleArray constructs a typed ArrayDouble tag. b is copied.
func NewDoubleArray(b []float64) Tag {
	return Tag{kind: format.KindArrayDouble, doubleArr: append([]float64(nil), b...)}
}

// NewRawArray constructs a typed ArrayRaw tag. b is copied.
func NewRawArray(b []byte) Tag {
	return Tag{kind: format.KindArrayRaw, rawArr: append([]byte(nil), b...)}
}

// --- accessors ---

// AsObject returns the object payload and true if Kind() == KindObject.
func (t Tag) AsObject() (map[string]Tag, bool) {
	if t.kind != format.KindObject {
		return nil, false
	}
	return t.object, true
}

// AsInt returns the IVarInt payload and true if Kind() == KindIVarInt.
func (t Tag) AsInt() (int64, bool) {
	if t.kind != format.KindIVarInt {
		return 0, false
	}
	return t.ivar, true
}

// AsUint returns the UVarInt payload and true if Kind() == KindUVarInt.
func (t Tag) AsUint() (uint64, bool) {
	if t.kind != format.KindUVarInt {
		return 0, false
	}
	return t.uvar, true
}

// AsBool returns the Bool payload and true if Kind() == KindBool.
func (t Tag) AsBool() (bool, bool) {
	if t.kind != format.KindBool {
		return false, false
	}
	return t.boolean, true
}

// AsHex returns the Hex payload and true if Kind() == KindHex.
func (t Tag) AsHex() (uint8, bool) {
	if t.kind != format.KindHex {
		return 0, false
	}
	return t.hex, true
}

// AsFloat returns the Float payload and true if Kind() == KindFloat.
func (t Tag) AsFloat() (float32, bool) {
	if t.kind != format.KindFloat {
		return 0, false
	}
	return t.f32, true
}

// AsDouble returns the Double payload and true if Kind() == KindDouble.
func (t Tag) AsDouble() (float64, bool) {
	if t.kind != format.KindDouble {
		return 0, false
	}
	return t.f64, true
}

// AsRaw returns the single-byte Raw payload and true if Kind() == KindRaw.
func (t Tag) AsRaw() (byte, bool) {
	if t.kind != format.KindRaw {
		return 0, false
	}
	return t.raw, true
}

// AsString returns the String payload and true if Kind() == KindString. The
// returned slice aliases the tag's internal storage; callers must not
// mutate it.
func (t Tag) AsString() ([]byte, bool) {
	if t.kind != format.KindString {
		return nil, false
	}
	return t.str, true
}

// AsArray returns the tree-recursive array elements, its element kind, and
// true if Kind() == KindArray.
func (t Tag) AsArray() ([]Tag, format.Kind, bool) {
	if t.kind != format.KindArray {
		return nil, 0, false
	}
	return t.array, t.elemKind, true
}

// AsBoolArray returns the typed ArrayBool payload and true if Kind() ==
// KindArrayBool.
func (t Tag) AsBoolArray() ([]bool, bool) {
	if t.kind != format.KindArrayBool {
		return nil, false
	}
	return t.boolArr, true
}

// AsHexArray returns the typed ArrayHex payload and true if Kind() ==
// KindArrayHex.
func (t Tag) AsHexArray() ([]uint8, bool) {
	if t.kind != format.KindArrayHex {
		return nil, false
	}
	return t.hexArr, true
}

// AsFloatArray returns the typed ArrayFloat payload and true if Kind() ==
// KindArrayFloat.
func (t Tag) AsFloatArray() ([]float32, bool) {
	if t.kind != format.KindArrayFloat {
		return nil, false
	}
	return t.floatArr, true
}

// AsDoubleArray returns the typed ArrayDouble payload and true if Kind() ==
// KindArrayDouble.
func (t Tag) AsDoubleArray() ([]float64, bool) {
	if t.kind != format.KindArrayDouble {
		return nil, false
	}
	return t.doubleArr, true
}

// AsRawArray returns the typed ArrayRaw payload and true if Kind() ==
// KindArrayRaw.
func (t Tag) AsRawArray() ([]byte, bool) {
	if t.kind != format.KindArrayRaw {
		return nil, false
	}
	return t.rawArr, true
}

// Clone performs the deep copy the source's copy-constructor discipline
// requires (spec §4.D: "Copy semantics: deep-copy all owned storage").
func (t Tag) Clone() Tag {
	out := t
	if t.object != nil {
		m := make(map[string]Tag, len(t.object))
		for k, v := range t.object {
			m[k] = v.Clone()
		}
		out.object = m
	}
	if t.array != nil {
		arr := make([]Tag, len(t.array))
		for i, v := range t.array {
			arr[i] = v.Clone()
		}
		out.array = arr
	}
	out.str = append([]byte(nil), t.str...)
	out.boolArr = append([]bool(nil), t.boolArr...)
	out.hexArr = append([]uint8(nil), t.hexArr...)
	out.floatArr = append([]float32(nil), t.floatArr...)
	out.doubleArr = append([]float64(nil), t.doubleArr...)
	out.rawArr = append([]byte(nil), t.rawArr...)
	return out
}

// Equal reports structural equality (spec §8: "set-equality for object
// keys, sequence-equality for arrays, bitwise equality for floats").
func (t Tag) Equal(o Tag) bool {
	if t.kind != o.kind {
		return false
	}

	switch t.kind {
	case format.KindObject:
		if len(t.object) != len(o.object) {
			return false
		}
		for k, v := range t.object {
			ov, ok := o.object[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	case format.KindIVarInt:
		return t.ivar == o.ivar
	case format.KindUVarInt:
		return t.uvar == o.uvar
	case format.KindBool:
		return t.boolean == o.boolean
	case format.KindHex:
		return t.hex == o.hex
	case format.KindFloat:
		return math.Float32bits(t.f32) == math.Float32bits(o.f32)
	case format.KindDouble:
		return math.Float64bits(t.f64) == math.Float64bits(o.f64)
	case format.KindRaw:
		return t.raw == o.raw
	case format.KindString:
		return string(t.str) == string(o.str)
	case format.KindArray:
		if t.elemKind != o.elemKind || len(t.array) != len(o.array) {
			return false
		}
		for i := range t.array {
			if !t.array[i].Equal(o.array[i]) {
				return false
			}
		}
		return true
	case format.KindArrayBool:
		return boolSliceEqual(t.boolArr, o.boolArr)
	case format.KindArrayHex:
		return hexSliceEqual(t.hexArr, o.hexArr)
	case format.KindArrayFloat:
		return float32SliceEqual(t.floatArr, o.floatArr)
	case format.KindArrayDouble:
		return float64SliceEqual(t.doubleArr, o.doubleArr)
	case format.KindArrayRaw:
		return string(t.rawArr) == string(o.rawArr)
	default:
		return false
	}
}

func boolSliceEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hexSliceEqual(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func float32SliceEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			return false
		}
	}
	return true
}

func float64SliceEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

// String renders the JSON-like textual form described in spec §4.D/§6.
func (t Tag) String() string {
	var sb strings.Builder
	t.writeString(&sb)
	return sb.String()
}

func (t Tag) writeString(sb *strings.Builder) {
	switch t.kind {
	case format.KindObject:
		sb.WriteByte('{')
		keys := make([]string, 0, len(t.object))
		for k := range t.object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('"')
			sb.WriteString(k)
			sb.WriteString("\": ")
			t.object[k].writeString(sb)
		}
		sb.WriteByte('}')
	case format.KindIVarInt:
		sb.WriteString(strconv.FormatInt(t.ivar, 10))
	case format.KindUVarInt:
		sb.WriteString(strconv.FormatUint(t.uvar, 10))
		sb.WriteByte('u')
	case format.KindBool:
		if t.boolean {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case format.KindHex:
		fmt.Fprintf(sb, "%X", t.hex&0x0F)
	case format.KindFloat:
		sb.WriteString(strconv.FormatFloat(float64(t.f32), 'g', -1, 32))
	case format.KindDouble:
		sb.WriteString(strconv.FormatFloat(t.f64, 'g', -1, 64))
	case format.KindRaw:
		fmt.Fprintf(sb, "%02X", t.raw)
	case format.KindString:
		sb.WriteByte('"')
		sb.Write(t.str)
		sb.WriteByte('"')
	case format.KindArray:
		sb.WriteByte('[')
		for i, e := range t.array {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.writeString(sb)
		}
		sb.WriteByte(']')
	case format.KindArrayBool:
		sb.WriteByte('[')
		for i, v := range t.boolArr {
			if i > 0 {
				sb.WriteString(", ")
			}
			if v {
				sb.WriteString("true")
			} else {
				sb.WriteString("false")
			}
		}
		sb.WriteByte(']')
	case format.KindArrayHex:
		sb.WriteByte('[')
		for i, v := range t.hexArr {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%X", v&0x0F)
		}
		sb.WriteByte(']')
	case format.KindArrayFloat:
		sb.WriteByte('[')
		for i, v := range t.floatArr {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		sb.WriteByte(']')
	case format.KindArrayDouble:
		sb.WriteByte('[')
		for i, v := range t.doubleArr {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteByte(']')
	case format.KindArrayRaw:
		sb.WriteByte('[')
		for i, v := range t.rawArr {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%02X", v)
		}
		sb.WriteByte(']')
	default:
		sb.WriteString("null")
	}
}

// Fingerprint computes a content-addressed digest of the tag tree using
// xxHash64, traversing objects in sorted-key order so that two trees with
// the same logical content (regardless of Go map iteration order) always
// hash identically. The archive package does not use it: its directory is
// keyed by hash.ID of each entry name.
func (t Tag) Fingerprint() uint64 {
	d := hash.NewDigest()
	t.writeFingerprint(d)
	return d.Sum64()
}

func (t Tag) writeFingerprint(d *hash.Digest) {
	d.WriteByte(byte(t.kind))

	switch t.kind {
	case format.KindObject:
		keys := make([]string, 0, len(t.object))
		for k := range t.object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d.WriteString(k)
			t.object[k].writeFingerprint(d)
		}
	case format.KindIVarInt:
		var buf [8]byte
		putUint64(buf[:], uint64(t.ivar))
		d.Write(buf[:])
	case format.KindUVarInt:
		var buf [8]byte
		putUint64(buf[:], t.uvar)
		d.Write(buf[:])
	case format.KindBool:
		if t.boolean {
			d.WriteByte(1)
		} else {
			d.WriteByte(0)
		}
	case format.KindHex:
		d.WriteByte(t.hex)
	case format.KindFloat:
		var buf [4]byte
		putUint32(buf[:], math.Float32bits(t.f32))
		d.Write(buf[:])
	case format.KindDouble:
		var buf [8]byte
		putUint64(buf[:], math.Float64bits(t.f64))
		d.Write(buf[:])
	case format.KindRaw:
		d.WriteByte(t.raw)
	case format.KindString:
		d.Write(t.str)
	case format.KindArray:
		d.WriteByte(byte(t.elemKind))
		for _, e := range t.array {
			e.writeFingerprint(d)
		}
	case format.KindArrayBool:
		for _, v := range t.boolArr {
			if v {
				d.WriteByte(1)
			} else {
				d.WriteByte(0)
			}
		}
	case format.KindArrayHex:
		d.Write(t.hexArr)
	case format.KindArrayFloat:
		for _, v := range t.floatArr {
			var buf [4]byte
			putUint32(buf[:], math.Float32bits(v))
			d.Write(buf[:])
		}
	case format.KindArrayDouble:
		for _, v := range t.doubleArr {
			var buf [8]byte
			putUint64(buf[:], math.Float64bits(v))
			d.Write(buf[:])
		}
	case format.KindArrayRaw:
		d.Write(t.rawArr)
	}
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
