// Package compress provides the whole-buffer compression codecs used
// outside the bit-exact single-tree wire format: the archive container's
// per-entry compression, plus the streaming Zstd decoder the cursor package
// uses to read a compressed tree (spec §4.C). The encoder's optional
// compressed output (spec §4.F) does not go through this package's codecs.
//
// Four profiles are available (format.Compression):
//
//   - None: passes data through unchanged; useful for already-small or
//     already-compressed payloads.
//   - Zstd: best compression ratio; the only codec the single-tree wire
//     format itself ever uses.
//   - S2: fast, Snappy-compatible; archive-only.
//   - LZ4: very fast decompression; archive-only.
//
// All four share the Codec interface so archive.Write can pick a codec per
// entry without a type switch:
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	compressed, err := codec.Compress(body)
package compress
