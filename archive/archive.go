// Package archive implements a multi-tree snapshot container: a directory of
// independently-compressed encoded CGNBT trees bundled into one byte blob.
//
// This sits outside the bit-exact single-tree wire format (spec §6 pins that
// format to, at most, whole-buffer Zstd); it exists to give the S2 and LZ4
// codecs — unused by the single-tree format — a legitimate home, and
// generalises a sort-and-index-by-name aggregation pattern into a
// name-addressed collection of encoded trees.
package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cgnbt/cgnbt/compress"
	"github.com/cgnbt/cgnbt/errs"
	"github.com/cgnbt/cgnbt/format"
	"github.com/cgnbt/cgnbt/internal/hash"
	"github.com/cgnbt/cgnbt/internal/pool"
)

// Magic identifies an archive container, distinct from the single-tree
// cGnbT preamble so the two formats are never confused.
var Magic = [4]byte{'C', 'G', 'A', 'R'}

const version = 1

// entryHeaderSize is the fixed size of one directory record: name hash (8),
// body offset (4), body length (4), codec id (1), reserved (3).
const entryHeaderSize = 20

// Entry describes one bundled tree before it is written.
type Entry struct {
	Name        string
	Body        []byte // an already-encoded tree, see encoder.Encode
	Compression format.Compression
}

// directoryRecord is the on-disk shape of one entry's metadata.
type directoryRecord struct {
	nameHash uint64
	offset   uint32
	length   uint32
	codec    format.Compression
}

// Write serialises entries into an archive container. Entries are sorted by
// name hash so the directory can be binary-searched on read and so two
// archives built from the same entries are byte-identical regardless of
// insertion order.
func Write(entries []Entry) ([]byte, error) {
	names := make(map[uint64]string, len(entries))
	records := make([]directoryRecord, 0, len(entries))
	bodies := make([][]byte, 0, len(entries))

	for _, e := range entries {
		id := hash.ID(e.Name)
		if prev, exists := names[id]; exists && prev != e.Name {
			return nil, fmt.Errorf("archive: name hash collision between %q and %q", prev, e.Name)
		}
		names[id] = e.Name

		codec, err := compress.CreateCodec(e.Compression, e.Name)
		if err != nil {
			return nil, errs.NewEncodeError(err, 0)
		}

		compressed, err := codec.Compress(e.Body)
		if err != nil {
			return nil, errs.NewEncodeError(fmt.Errorf("%w: entry %q: %v", errs.ErrCompression, e.Name, err), 0)
		}

		records = append(records, directoryRecord{nameHash: id, length: uint32(len(compressed)), codec: e.Compression})
		bodies = append(bodies, compressed)
	}

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return records[order[a]].nameHash < records[order[b]].nameHash })

	buf := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(buf)

	buf.MustWrite(Magic[:])
	buf.MustWrite([]byte{version})
	writeUint32(buf, uint32(len(records)))

	var offset uint32
	sortedRecords := make([]directoryRecord, len(records))
	sortedBodies := make([][]byte, len(records))
	for i, idx := range order {
		r := records[idx]
		r.offset = offset
		sortedRecords[i] = r
		sortedBodies[i] = bodies[idx]
		offset += r.length
	}

	for _, r := range sortedRecords {
		writeUint64(buf, r.nameHash)
		writeUint32(buf, r.offset)
		writeUint32(buf, r.length)
		buf.MustWrite([]byte{byte(r.codec), 0, 0, 0})
	}

	for _, b := range sortedBodies {
		buf.MustWrite(b)
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

// Reader provides name-addressed lookup into an archive container without
// eagerly decompressing every entry.
type Reader struct {
	data    []byte
	records []directoryRecord
	bodyOff int
}

// Open parses an archive's header and directory and checks that every
// entry body lies within data. Entry bodies are decompressed lazily by Get.
func Open(data []byte) (*Reader, error) {
	if len(data) < 5 {
		return nil, errs.NewDecodeError(fmt.Errorf("%w: archive too short", errs.ErrTruncated), 0)
	}
	if !bytes.Equal(data[:4], Magic[:]) {
		return nil, errs.NewDecodeError(fmt.Errorf("%w: bad archive magic", errs.ErrBadType), 0)
	}
	if data[4] != version {
		return nil, errs.NewDecodeError(fmt.Errorf("%w: unsupported archive version %d", errs.ErrBadType, data[4]), 5)
	}

	pos := 5
	if pos+4 > len(data) {
		return nil, errs.NewDecodeError(fmt.Errorf("%w: missing entry count", errs.ErrTruncated), uint64(pos))
	}
	count := binary.LittleEndian.Uint32(data[pos:])
	pos += 4

	records := make([]directoryRecord, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+entryHeaderSize > len(data) {
			return nil, errs.NewDecodeError(fmt.Errorf("%w: truncated directory record", errs.ErrTruncated), uint64(pos))
		}

		rec := directoryRecord{
			nameHash: binary.LittleEndian.Uint64(data[pos:]),
			offset:   binary.LittleEndian.Uint32(data[pos+8:]),
			length:   binary.LittleEndian.Uint32(data[pos+12:]),
			codec:    format.Compression(data[pos+16]),
		}
		records = append(records, rec)
		pos += entryHeaderSize
	}

	for _, rec := range records {
		end := uint64(pos) + uint64(rec.offset) + uint64(rec.length)
		if end > uint64(len(data)) {
			return nil, errs.NewDecodeError(fmt.Errorf("%w: entry body out of range", errs.ErrTruncated), uint64(pos)+uint64(rec.offset))
		}
	}

	return &Reader{data: data, records: records, bodyOff: pos}, nil
}

// Count returns the number of entries in the archive.
func (r *Reader) Count() int { return len(r.records) }

// Get decompresses and returns the entry named name.
func (r *Reader) Get(name string) ([]byte, bool, error) {
	id := hash.ID(name)

	idx := sort.Search(len(r.records), func(i int) bool { return r.records[i].nameHash >= id })
	if idx >= len(r.records) || r.records[idx].nameHash != id {
		return nil, false, nil
	}

	rec := r.records[idx]
	start := r.bodyOff + int(rec.offset)
	end := start + int(rec.length)
	if end > len(r.data) {
		return nil, false, errs.NewDecodeError(fmt.Errorf("%w: entry %q body out of range", errs.ErrTruncated, name), uint64(start))
	}

	codec, err := compress.GetCodec(rec.codec)
	if err != nil {
		return nil, false, errs.NewDecodeError(err, uint64(start))
	}

	body, err := codec.Decompress(r.data[start:end])
	if err != nil {
		return nil, false, errs.NewDecodeError(fmt.Errorf("%w: entry %q: %v", errs.ErrCompression, name, err), uint64(start))
	}

	return body, true, nil
}

func writeUint32(buf *pool.ByteBuffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.MustWrite(b[:])
}

func writeUint64(buf *pool.ByteBuffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.MustWrite(b[:])
}
