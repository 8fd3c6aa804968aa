package compress

import (
	"fmt"

	"github.com/cgnbt/cgnbt/format"
)

// Compressor compresses a whole buffer in one call. Used by archive entries;
// the encoder's optional compression path (spec §4.F) builds its own zstd
// writer instead.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a whole buffer produced by the matching
// Compressor. Used by archive entries; the single-tree wire format instead
// goes through cursor's streaming Zstd reader (see zstd_stream.go), since a
// tree's compressed length isn't known up front.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec is a whole-buffer compressor/decompressor pair.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec builds a Codec for the given compression profile. target
// names the caller for error messages (e.g. an archive entry's name).
func CreateCodec(c format.Compression, target string) (Codec, error) {
	switch c {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("compress: invalid compression %s for %s", c, target)
	}
}

var builtinCodecs = map[format.Compression]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a shared built-in Codec instance for c.
func GetCodec(c format.Compression) (Codec, error) {
	if codec, ok := builtinCodecs[c]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compress: unsupported compression: %s", c)
}
