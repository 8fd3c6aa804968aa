// Package cgnbt provides a self-describing, schema-free, hierarchical
// tagged binary data format: a compact on-disk representation, transparent
// stream decompression, and a canonical in-memory tree.
//
// CGNBT borrows its shape from Minecraft-style NBT but uses variable-length
// integers, variable-length keys, packed single-byte type headers, and a
// distinct type taxonomy: signed/unsigned varints kept separate, typed
// arrays for fixed-width scalars, raw bytes distinguished from strings, hex
// nibbles, and bool flags packed into the header byte itself.
//
// # Basic usage
//
// Encoding a tree and decoding it back:
//
//	tree := map[string]tag.Tag{
//	    "name":    tag.NewString([]byte("sensor-1")),
//	    "reading": tag.NewDouble(21.5),
//	    "online":  tag.NewBool(true),
//	}
//
//	encoded, err := cgnbt.EncodeBytes(tree)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := cgnbt.DecodeBytes(encoded)
//	if !result.Diagnostics.Empty() {
//	    log.Printf("decode diagnostics: %v", result.Diagnostics.Entries())
//	}
//
// Encoding with Zstd compression and decoding transparently:
//
//	compressed, err := cgnbt.EncodeBytes(tree, encoder.WithCompression(19))
//	result := cgnbt.DecodeBytes(compressed) // cursor detects the Zstd frame automatically
//
// # Package structure
//
// This file provides convenient top-level wrappers around the decoder and
// encoder packages. For fine-grained control — streaming sources, custom
// compression levels, archive bundling — use the lower-level packages
// (cursor, decoder, encoder, tag, archive) directly.
package cgnbt

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cgnbt/cgnbt/decoder"
	"github.com/cgnbt/cgnbt/encoder"
	"github.com/cgnbt/cgnbt/errs"
	"github.com/cgnbt/cgnbt/tag"
)

// DecodeBytes decodes an in-memory buffer (plain-magic, Zstd-framed, or
// empty) into a tag tree. See decoder.Decode for the full contract.
func DecodeBytes(data []byte) decoder.Result {
	return decoder.Decode(bytes.NewReader(data))
}

// DecodeReader decodes from an arbitrary io.Reader.
func DecodeReader(r io.Reader) decoder.Result {
	return decoder.Decode(r)
}

// DecodeFile opens path and decodes its contents.
func DecodeFile(path string) decoder.Result {
	f, err := os.Open(path)
	if err != nil {
		diag := &errs.Diagnostics{}
		diag.Add("OPEN_FAILED: %v", err)
		return decoder.Result{Tree: nil, Diagnostics: diag}
	}
	defer f.Close()

	return decoder.Decode(f)
}

// EncodeBytes serialises tree to bytes using the given encoder options.
func EncodeBytes(tree map[string]tag.Tag, opts ...encoder.Option) ([]byte, error) {
	return encoder.Encode(tree, opts...)
}

// EncodeFile serialises tree and writes it to path. Refuses to overwrite an
// existing file unless overwrite is true (spec §4.F overwrite policy).
func EncodeFile(path string, tree map[string]tag.Tag, overwrite bool, opts ...encoder.Option) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errs.NewEncodeError(errs.ErrOverwriteDenied, 0)
		}
	}

	data, err := encoder.Encode(tree, opts...)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.NewEncodeError(fmt.Errorf("%w: %v", errs.ErrOpenFailed, err), 0)
	}
	defer f.Close()

	n, err := f.Write(data)
	if err != nil {
		return errs.NewEncodeError(fmt.Errorf("%w: %v", errs.ErrWriteShort, err), 0)
	}
	if n != len(data) {
		return errs.NewEncodeError(errs.ErrWriteShort, 0)
	}

	return nil
}
