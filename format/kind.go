// Package format defines the wire-level type taxonomy shared by the tag,
// decoder, and encoder packages: the 16 tag variants plus the ObjectEnd
// sentinel, and the compression profile used by the encoder and the archive
// container.
package format

// Kind identifies a tag variant. It occupies the high nibble of every wire
// header byte (see the decoder/encoder packages) and doubles as the
// element-type id carried in an Array header's low nibble.
type Kind uint8

// Tag variant ids. Values are bit-exact with the wire format: a Kind never
// exceeds 4 bits.
const (
	KindObjectEnd Kind = 0 // sentinel, wire-only
	KindObject    Kind = 1
	KindIVarInt   Kind = 2
	KindUVarInt   Kind = 3
	KindBool      Kind = 4
	KindHex       Kind = 5
	KindFloat     Kind = 6
	KindDouble    Kind = 7
	KindArray     Kind = 8
	KindString    Kind = 9
	KindRaw       Kind = 10

	// The following five ids never appear as a literal wire type nibble.
	// They're the logical kind assigned to an Array tag once its element
	// type nibble names a fixed-width scalar (see decoder/encoder
	// Open Question #1 in SPEC_FULL.md).
	KindArrayBool   Kind = 11
	KindArrayHex    Kind = 12
	KindArrayFloat  Kind = 13
	KindArrayDouble Kind = 14
	KindArrayRaw    Kind = 15
)

// String returns the variant name, useful in error messages and Tag.String.
func (k Kind) String() string {
	switch k {
	case KindObjectEnd:
		return "ObjectEnd"
	case KindObject:
		return "Object"
	case KindIVarInt:
		return "IVarInt"
	case KindUVarInt:
		return "UVarInt"
	case KindBool:
		return "Bool"
	case KindHex:
		return "Hex"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindArray:
		return "Array"
	case KindString:
		return "String"
	case KindRaw:
		return "Raw"
	case KindArrayBool:
		return "ArrayBool"
	case KindArrayHex:
		return "ArrayHex"
	case KindArrayFloat:
		return "ArrayFloat"
	case KindArrayDouble:
		return "ArrayDouble"
	case KindArrayRaw:
		return "ArrayRaw"
	default:
		return "Unknown"
	}
}

// IsScalarArrayElem reports whether k names a fixed-width scalar type that,
// as an Array element type, collapses to a typed-array payload on the wire
// instead of per-element recursion.
func IsScalarArrayElem(k Kind) bool {
	switch k {
	case KindBool, KindHex, KindFloat, KindDouble, KindRaw:
		return true
	default:
		return false
	}
}

// TypedArrayKind maps a scalar element Kind to its logical typed-array Kind
// (e.g. KindFloat -> KindArrayFloat). Panics if elem is not a scalar kind;
// callers must check IsScalarArrayElem first.
func TypedArrayKind(elem Kind) Kind {
	switch elem {
	case KindBool:
		return KindArrayBool
	case KindHex:
		return KindArrayHex
	case KindFloat:
		return KindArrayFloat
	case KindDouble:
		return KindArrayDouble
	case KindRaw:
		return KindArrayRaw
	default:
		panic("format: TypedArrayKind called with non-scalar kind " + elem.String())
	}
}

// ElemKindOf returns the Array element Kind backing a typed-array Kind
// (e.g. KindArrayFloat -> KindFloat). Panics if k is not a typed-array kind.
func ElemKindOf(k Kind) Kind {
	switch k {
	case KindArrayBool:
		return KindBool
	case KindArrayHex:
		return KindHex
	case KindArrayFloat:
		return KindFloat
	case KindArrayDouble:
		return KindDouble
	case KindArrayRaw:
		return KindRaw
	default:
		panic("format: ElemKindOf called with non-typed-array kind " + k.String())
	}
}

// Compression identifies a container-level compression codec. Used by the
// archive package; the single-tree wire format (spec §6) only ever uses
// CompressionNone or CompressionZstd.
type Compression uint8

const (
	CompressionNone Compression = 0x1
	CompressionZstd Compression = 0x2
	CompressionS2   Compression = 0x3
	CompressionLZ4  Compression = 0x4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
