package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/cgnbt/cgnbt/errs"
)

// S2Compressor trades Zstd's ratio for decode speed, useful for an archive
// entry or encoded tree that will be decompressed far more often than it is
// written.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using S2 compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses the input data using S2 decompression.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCompression, err)
	}

	return out, nil
}
