// Package cursor implements CGNBT's byte cursor (spec §4.C): a buffered,
// forward-only byte stream over an opaque byte source that transparently
// handles either a plain magic-prefixed file or a Zstd-compressed frame.
package cursor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/cgnbt/cgnbt/compress"
	"github.com/cgnbt/cgnbt/errs"
)

// Magic is the 5-byte plain-file preamble (spec §6): the ASCII bytes
// "cGnbT".
var Magic = [5]byte{'c', 'G', 'n', 'b', 'T'}

// pageSize is the internal refill chunk size (spec §4.C: "a fixed-size page
// (4096 bytes is recommended)"). Not observable to callers.
const pageSize = 4096

// Mode reports how the underlying source was detected at Open time.
type Mode uint8

const (
	ModeEmpty Mode = iota
	ModePlain
	ModeZstd
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "Empty"
	case ModePlain:
		return "Plain"
	case ModeZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// Cursor is a buffered forward-only reader over a decompressed byte stream.
//
// A Cursor is owned by exactly one goroutine at a time; it is not safe for
// concurrent use (spec §5).
type Cursor struct {
	src      io.Reader // the underlying plain or zstd-decoded stream
	zr       *zstd.Decoder
	closer   io.Closer // non-nil if the original source was an io.Closer
	mode     Mode
	fileSize int64 // raw underlying length if known, else -1

	page  []byte
	pos   int // read position within page
	avail int // valid bytes in page

	offset  uint64 // logical offset in the decompressed stream
	eof     bool
	openErr error
	closed  bool
}

// sizer is implemented by sources that can report their total length
// (e.g. *bytes.Reader, *os.File via a small wrapper), used only for the
// file_size() telemetry accessor.
type sizer interface {
	Size() int64
}

// Open detects the preamble of r (plain magic, Zstd frame, or empty) and
// returns a ready-to-read Cursor. An empty source is valid and yields no
// data. An unrecognized preamble is reported as errs.ErrOpenFailed; the
// returned Cursor still works but reports EOF immediately, matching spec
// §4.C: "initialisation fails; cursor reports end-of-stream immediately and
// records an error."
func Open(r io.Reader) (*Cursor, error) {
	c := &Cursor{page: make([]byte, pageSize), fileSize: -1}

	if s, ok := r.(sizer); ok {
		c.fileSize = s.Size()
	}
	if cl, ok := r.(io.Closer); ok {
		c.closer = cl
	}

	lead := make([]byte, 5)
	n, err := io.ReadFull(r, lead)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		c.mode = ModeEmpty
		c.eof = true
		c.openErr = fmt.Errorf("%w: %v", errs.ErrOpenFailed, err)
		return c, c.openErr
	}
	lead = lead[:n]

	switch {
	case n == 0:
		c.mode = ModeEmpty
		c.eof = true
		c.src = r
		return c, nil

	case n >= 5 && bytes.Equal(lead, Magic[:]):
		c.mode = ModePlain
		c.src = io.MultiReader(bytes.NewReader(nil), r)
		return c, nil

	case compress.IsFrame(lead) || compress.IsSkippableFrame(lead):
		c.mode = ModeZstd
		full := io.MultiReader(bytes.NewReader(lead), r)
		zr, zerr := compress.NewStreamDecoder(full)
		if zerr != nil {
			c.eof = true
			c.openErr = fmt.Errorf("%w: %v", errs.ErrCompression, zerr)
			return c, c.openErr
		}
		c.zr = zr
		c.src = zr
		return c, nil

	default:
		c.mode = ModeEmpty
		c.eof = true
		c.openErr = fmt.Errorf("%w: unrecognized preamble", errs.ErrOpenFailed)
		return c, c.openErr
	}
}

// refill tops up the page buffer from the underlying source. Returns true
// if at least one byte became available.
func (c *Cursor) refill() bool {
	if c.eof || c.src == nil {
		return false
	}

	if c.pos < c.avail {
		return true
	}

	n, err := io.ReadFull(c.src, c.page)
	if n > 0 {
		c.pos = 0
		c.avail = n
	}
	if err != nil {
		// io.ReadFull returns ErrUnexpectedEOF for a short final read; the
		// partial bytes it did return (n) are still valid.
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			c.eof = true
			return n > 0
		}
		if n == 0 {
			c.eof = true
			return false
		}
		// Short final chunk: mark eof for the *next* refill, but this one
		// still has n valid bytes.
		c.markSourceExhausted()
	}

	return n > 0
}

// markSourceExhausted records that the underlying source has no more bytes
// after the currently buffered page is drained.
func (c *Cursor) markSourceExhausted() {
	c.src = eofReader{}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// Peek returns the next byte without advancing the cursor. Returns
// io.EOF if the stream has no more bytes.
func (c *Cursor) Peek() (byte, error) {
	if c.pos >= c.avail && !c.refill() {
		return 0, io.EOF
	}

	return c.page[c.pos], nil
}

// Advance consumes one byte. It is a no-op at EOF.
func (c *Cursor) Advance() {
	if c.pos >= c.avail && !c.refill() {
		return
	}

	c.pos++
	c.offset++
}

// ReadByte consumes and returns the next byte. Implements io.ByteReader, so
// a *Cursor can be passed directly to the varint and vartext packages.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.Peek()
	if err != nil {
		return 0, err
	}

	c.Advance()

	return b, nil
}

// Read bulk-copies up to len(dst) bytes, returning the number actually
// copied. A short read (n < len(dst)) means EOF was reached.
func (c *Cursor) Read(dst []byte) (int, error) {
	total := 0
	for total < len(dst) {
		if c.pos >= c.avail && !c.refill() {
			break
		}

		n := copy(dst[total:], c.page[c.pos:c.avail])
		c.pos += n
		c.offset += uint64(n)
		total += n
	}

	if total == 0 && len(dst) > 0 {
		return 0, io.EOF
	}

	return total, nil
}

// Offset returns the logical position in the decompressed stream.
func (c *Cursor) Offset() uint64 {
	return c.offset
}

// IsEOF reports whether the cursor has no more bytes to yield.
func (c *Cursor) IsEOF() bool {
	return c.pos >= c.avail && !c.refill()
}

// Compressed reports whether the source was detected as a Zstd frame.
func (c *Cursor) Compressed() bool {
	return c.mode == ModeZstd
}

// FileSize returns the raw underlying source length for telemetry, or -1 if
// unknown (e.g. the source didn't implement a length accessor).
func (c *Cursor) FileSize() int64 {
	return c.fileSize
}

// Mode reports how the preamble was detected.
func (c *Cursor) Mode() Mode {
	return c.mode
}

// Close releases the streaming decompression context and, if the
// underlying source is an io.Closer, closes it too. Matches spec §5:
// resources are released deterministically "regardless of the exit path."
//
// Close is idempotent. A non-nil return is advisory (errs.ErrCloseFailed):
// per spec §7, "CLOSE_FAILED is reported but does not override a success
// return" from whatever operation triggered the close.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var closeErr error
	if c.zr != nil {
		c.zr.Close()
	}
	if c.closer != nil {
		if err := c.closer.Close(); err != nil {
			closeErr = fmt.Errorf("%w: %v", errs.ErrCloseFailed, err)
		}
	}

	return closeErr
}
