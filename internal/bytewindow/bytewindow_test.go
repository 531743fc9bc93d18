package bytewindow

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteWindowReadBounds(t *testing.T) {
	src := bytes.NewReader([]byte("0123456789ABCDEF"))
	w := New(src, 4, 8) // window over "456789AB"

	got, err := w.Read(4)
	require.NoError(t, err)
	require.Equal(t, []byte("4567"), got)

	got, err = w.ReadAt(4, 4)
	require.NoError(t, err)
	require.Equal(t, []byte("89AB"), got)

	_, err = w.ReadAt(1, 8)
	require.Error(t, err)
	require.IsType(t, &RangeViolation{}, err)
}

func TestByteWindowSeek(t *testing.T) {
	src := bytes.NewReader([]byte("0123456789"))
	w := New(src, 2, 4) // "2345"

	require.NoError(t, w.Seek(2))
	got, err := w.Read(2)
	require.NoError(t, err)
	require.Equal(t, []byte("45"), got)

	require.Error(t, w.Seek(5))
}

func TestByteWindowSub(t *testing.T) {
	src := bytes.NewReader([]byte("0123456789"))
	w := New(src, 0, 10)

	sub, err := w.Sub(2, 4)
	require.NoError(t, err)
	got, err := sub.Read(4)
	require.NoError(t, err)
	require.Equal(t, []byte("2345"), got)

	_, err = w.Sub(8, 4)
	require.Error(t, err)
}

func TestDataUnitsAtAndSlice(t *testing.T) {
	src := bytes.NewReader([]byte("AABBCCDDEEFF"))
	w := New(src, 0, 12)
	d := NewDataUnits(w, 2)

	require.EqualValues(t, 6, d.Count())

	v, err := d.At(0)
	require.NoError(t, err)
	require.Equal(t, []byte("AA"), v)

	v, err = d.At(-1)
	require.NoError(t, err)
	require.Equal(t, []byte("FF"), v)

	v, err = d.Slice(1, 3)
	require.NoError(t, err)
	require.Equal(t, []byte("BBCC"), v)

	_, err = d.At(6)
	require.Error(t, err)
	require.IsType(t, &RangeViolation{}, err)
}

func TestDataUnitsNegativeSlice(t *testing.T) {
	src := bytes.NewReader([]byte("0123456789"))
	w := New(src, 0, 10)
	d := NewDataUnits(w, 1)

	v, err := d.Slice(-3, -1)
	require.NoError(t, err)
	require.Equal(t, []byte("78"), v)
}

func TestByteWindowSectorsFacet(t *testing.T) {
	src := bytes.NewReader(make([]byte, 1536))
	w := New(src, 0, 1536).WithSectors(512)
	require.True(t, w.HasSectors())
	require.EqualValues(t, 3, w.Sectors().Count())
}
