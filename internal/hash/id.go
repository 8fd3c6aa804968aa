// Package hash provides the xxHash64-based content identifiers used by the
// archive package's snapshot directory and by tag.Tag.Fingerprint.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a string, used to turn an archive entry name
// into a fixed-size directory key.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Digest incrementally hashes a tree traversal for tag.Tag.Fingerprint.
// Callers create one per fingerprint computation; it is not safe for
// concurrent use.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates a fresh incremental digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// WriteByte feeds a single byte into the digest.
func (h *Digest) WriteByte(b byte) {
	_, _ = h.d.Write([]byte{b})
}

// Write feeds raw bytes into the digest.
func (h *Digest) Write(b []byte) {
	_, _ = h.d.Write(b)
}

// WriteString feeds a string into the digest without allocating a copy.
func (h *Digest) WriteString(s string) {
	_, _ = h.d.WriteString(s)
}

// Sum64 returns the digest's current value.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
