package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZstdMagic is the 4-byte little-endian magic that opens every standard
// Zstandard frame (spec §6: "Zstd frame: standard framed Zstandard (magic
// 0xFD2FB528)").
var ZstdMagic = [4]byte{0x28, 0xB5, 0x2F, 0xFD}

// skippableFrameLowByte/skippableFrameMask identify a Zstd skippable frame:
// magic bytes 0x184D2A50 through 0x184D2A5F, little-endian.
const (
	skippableFrameLowByte = 0x50
	skippableFrameMask    = 0xF0
)

// IsFrame reports whether prefix begins a standard Zstd frame. prefix may be
// shorter than 4 bytes, in which case it can't possibly match and IsFrame
// returns false (the caller is expected to have at least 4 bytes before
// trusting a positive result from detection logic elsewhere).
func IsFrame(prefix []byte) bool {
	if len(prefix) < 4 {
		return false
	}

	return prefix[0] == ZstdMagic[0] && prefix[1] == ZstdMagic[1] &&
		prefix[2] == ZstdMagic[2] && prefix[3] == ZstdMagic[3]
}

// IsSkippableFrame reports whether prefix begins a Zstd skippable frame
// (magic 0x184D2A5?, little-endian).
func IsSkippableFrame(prefix []byte) bool {
	if len(prefix) < 4 {
		return false
	}

	return prefix[3] == 0x18 && prefix[2] == 0x4D && prefix[1] == 0x2A &&
		(prefix[0]&skippableFrameMask) == skippableFrameLowByte&skippableFrameMask &&
		prefix[0] >= 0x50 && prefix[0] <= 0x5F
}

// NewStreamDecoder wraps r in a streaming Zstd decoder. Unlike ZstdCompressor
// (whole-buffer EncodeAll/DecodeAll), this is what cursor.Cursor uses: the
// compressed length of the underlying byte source is not known up front, so
// decompression must happen incrementally as the cursor's page buffer is
// refilled.
//
// The returned *zstd.Decoder implements io.Reader; its Close method returns
// no error, so it is not an io.Closer. Callers must call Close when done to
// release the decompression context (spec §5:
// "the cursor acquires... a streaming decompression context at
// construction; both are released deterministically on destruction or
// explicit close").
func NewStreamDecoder(r io.Reader) (*zstd.Decoder, error) {
	return zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
}
