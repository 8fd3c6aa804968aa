package archive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgnbt/cgnbt/archive"
	"github.com/cgnbt/cgnbt/encoder"
	"github.com/cgnbt/cgnbt/format"
	"github.com/cgnbt/cgnbt/tag"
)

func buildEntry(t *testing.T, name string, compression format.Compression) archive.Entry {
	t.Helper()

	tree := map[string]tag.Tag{
		"name":  tag.NewString([]byte(name)),
		"value": tag.NewInt(int64(len(name))),
	}
	body, err := encoder.Encode(tree)
	require.NoError(t, err)

	return archive.Entry{Name: name, Body: body, Compression: compression}
}

func TestWriteOpen_RoundTrip(t *testing.T) {
	entries := []archive.Entry{
		buildEntry(t, "sensor-1", format.CompressionZstd),
		buildEntry(t, "sensor-2", format.CompressionS2),
		buildEntry(t, "sensor-3", format.CompressionLZ4),
		buildEntry(t, "sensor-4", format.CompressionNone),
	}

	data, err := archive.Write(entries)
	require.NoError(t, err)

	r, err := archive.Open(data)
	require.NoError(t, err)
	assert.Equal(t, len(entries), r.Count())

	for _, e := range entries {
		got, found, err := r.Get(e.Name)
		require.NoError(t, err)
		require.True(t, found, "entry %q not found", e.Name)
		assert.Equal(t, e.Body, got)
	}
}

func TestGet_UnknownNameNotFound(t *testing.T) {
	entries := []archive.Entry{buildEntry(t, "only", format.CompressionZstd)}
	data, err := archive.Write(entries)
	require.NoError(t, err)

	r, err := archive.Open(data)
	require.NoError(t, err)

	_, found, err := r.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWrite_DeterministicAcrossInsertionOrder(t *testing.T) {
	a := buildEntry(t, "alpha", format.CompressionZstd)
	b := buildEntry(t, "beta", format.CompressionZstd)

	data1, err := archive.Write([]archive.Entry{a, b})
	require.NoError(t, err)
	data2, err := archive.Write([]archive.Entry{b, a})
	require.NoError(t, err)

	assert.Equal(t, data1, data2, "archive bytes should not depend on entry insertion order")
}

func TestOpen_RejectsBadMagic(t *testing.T) {
	_, err := archive.Open([]byte("not an archive at all"))
	require.Error(t, err)
}

func TestOpen_RejectsTruncatedInput(t *testing.T) {
	entries := []archive.Entry{buildEntry(t, "x", format.CompressionNone)}
	data, err := archive.Write(entries)
	require.NoError(t, err)

	_, err = archive.Open(data[:len(data)-2])
	require.Error(t, err)
}

func TestWrite_EmptyEntryList(t *testing.T) {
	data, err := archive.Write(nil)
	require.NoError(t, err)

	r, err := archive.Open(data)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Count())
}
