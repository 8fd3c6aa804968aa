package compress

// NoOpCompressor provides a no-operation compressor that bypasses data without compression.
//
// This backs format.CompressionNone in the archive's per-entry codec
// selection: an entry whose body is already compressed (e.g. a tree that
// was itself encoded with Zstd), or too small to benefit, gains nothing
// from a second compression pass, so it is stored as-is.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor that bypasses data.
//
// The returned compressor implements all three interfaces (Compressor, Decompressor,
// and Codec) and simply returns data as-is, without any processing.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged.
//
// The returned slice shares the input's underlying memory; callers should
// not mutate data after calling this method if they still hold the result.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged.
//
// The returned slice shares the input's underlying memory; callers should
// not mutate data after calling this method if they still hold the result.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
