package term

import (
	"testing"

	"github.com/fenilsonani/ftgs/internal/varint"
	"github.com/stretchr/testify/require"
)

// S3: integer term index bytes encode (Δid=5, Δoff=10, freq=3),
// (Δid=2, Δoff=7, freq=1).
func TestIntIterator_S3(t *testing.T) {
	var buf []byte
	buf = varint.AppendUvarint(buf, 5)
	buf = varint.AppendUvarint(buf, 10)
	buf = varint.AppendUvarint(buf, 3)
	buf = varint.AppendUvarint(buf, 2)
	buf = varint.AppendUvarint(buf, 7)
	buf = varint.AppendUvarint(buf, 1)

	it := NewIntIterator(buf)

	rec, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Record{IntID: 5, DocOffset: 10, DocFreq: 3}, rec)

	rec, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Record{IntID: 7, DocOffset: 17, DocFreq: 1}, rec)

	_, ok, err = it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStringIterator_PrefixSharing(t *testing.T) {
	var buf []byte
	// "apple": prefix_len=0, suffix_len=5, "apple", Δoff=0, freq=2
	buf = varint.AppendUvarint(buf, 0)
	buf = varint.AppendUvarint(buf, 5)
	buf = append(buf, "apple"...)
	buf = varint.AppendUvarint(buf, 0)
	buf = varint.AppendUvarint(buf, 2)
	// "applesauce": prefix_len=5, suffix_len=5, "sauce", Δoff=2, freq=1
	buf = varint.AppendUvarint(buf, 5)
	buf = varint.AppendUvarint(buf, 5)
	buf = append(buf, "sauce"...)
	buf = varint.AppendUvarint(buf, 2)
	buf = varint.AppendUvarint(buf, 1)

	it := NewStringIterator(buf)

	rec, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "apple", string(rec.StrID))
	require.EqualValues(t, 0, rec.DocOffset)
	require.EqualValues(t, 2, rec.DocFreq)

	rec, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "applesauce", string(rec.StrID))
	require.EqualValues(t, 2, rec.DocOffset)
	require.EqualValues(t, 1, rec.DocFreq)

	_, ok, err = it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStringIterator_BadPrefixLen(t *testing.T) {
	var buf []byte
	buf = varint.AppendUvarint(buf, 3) // prefix_len exceeds empty current id
	buf = varint.AppendUvarint(buf, 0)
	buf = varint.AppendUvarint(buf, 0)
	buf = varint.AppendUvarint(buf, 0)

	it := NewStringIterator(buf)
	_, _, err := it.Next()
	require.Error(t, err)
}
