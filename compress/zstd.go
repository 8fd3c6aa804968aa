package compress

// zstdDefaultLevel is used by the cgo-backed compressor in zstd_cgo.go; the
// pure-Go path in zstd_pure.go configures its encoder pool separately via
// zstd.WithEncoderLevel.
const zstdDefaultLevel = 3

// ZstdCompressor is the whole-buffer Zstandard codec the archive package
// uses to compress individual snapshot entries. The encoder's compression
// path (spec §4.F) does not use it.
//
// This compressor favors compression ratio over speed, appropriate for
// archival snapshots and network transmission of encoded trees.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
