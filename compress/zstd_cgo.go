//go:build cgnbt_cgozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"

	"github.com/cgnbt/cgnbt/errs"
)

// Compress implements ZstdCompressor using the cgo-backed gozstd binding
// instead of the pure-Go klauspost/compress/zstd path in zstd_pure.go.
//
// This is opt-in via the cgnbt_cgozstd build tag, not compiled by default,
// since it requires a system libzstd and CGO_ENABLED=1: zstd_pure.go is
// built whenever the tag is absent, and this file only when it is set.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, zstdDefaultLevel), nil
}

// Decompress implements ZstdCompressor using gozstd.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCompression, err)
	}

	return out, nil
}
