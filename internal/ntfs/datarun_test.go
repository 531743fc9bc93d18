package ntfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestParseDataRunsEmpty(t *testing.T) {
	next, vcn, err := DecodeDataRuns([]byte{0x00}, 0)
	require.NoError(t, err)
	require.Equal(t, 1, next)
	require.Empty(t, vcn.Runs)
}

func TestParseDataRunsSingle(t *testing.T) {
	buf := []byte{0x21, 0x18, 0x34, 0x56, 0x00}
	_, vcn, err := DecodeDataRuns(buf, 0)
	require.NoError(t, err)
	require.Len(t, vcn.Runs, 1)
	require.EqualValues(t, 0x18, vcn.Runs[0].Length)
	require.EqualValues(t, 0x5634, *vcn.Runs[0].Offset)
}

func TestParseDataRunsFragmented(t *testing.T) {
	buf := []byte{
		0x31, 0x38, 0x73, 0x25, 0x34,
		0x32, 0x14, 0x01, 0xE5, 0x11, 0x02,
		0x31, 0x42, 0xAA, 0x00, 0x03,
		0x00,
	}
	_, vcn, err := DecodeDataRuns(buf, 0)
	require.NoError(t, err)
	require.Len(t, vcn.Runs, 3)

	require.EqualValues(t, 0x38, vcn.Runs[0].Length)
	require.EqualValues(t, 0x342573, *vcn.Runs[0].Offset)

	require.EqualValues(t, 0x0114, vcn.Runs[1].Length)
	require.EqualValues(t, 0x342573+0x0211E5, *vcn.Runs[1].Offset)

	require.EqualValues(t, 0x42, vcn.Runs[2].Length)
	require.EqualValues(t, 0x342573+0x0211E5+0x0300AA, *vcn.Runs[2].Offset)
}

func TestParseDataRunsSparse(t *testing.T) {
	buf := []byte{0x11, 0x30, 0x20, 0x01, 0x60, 0x11, 0x10, 0x30, 0x00}
	_, vcn, err := DecodeDataRuns(buf, 0)
	require.NoError(t, err)
	require.Len(t, vcn.Runs, 3)

	require.EqualValues(t, 0x30, vcn.Runs[0].Length)
	require.EqualValues(t, 0x20, *vcn.Runs[0].Offset)

	require.EqualValues(t, 0x60, vcn.Runs[1].Length)
	require.Nil(t, vcn.Runs[1].Offset)

	require.EqualValues(t, 0x10, vcn.Runs[2].Length)
	require.EqualValues(t, 0x50, *vcn.Runs[2].Offset)
}

func TestParseDataRunsScrambledSignedDelta(t *testing.T) {
	buf := []byte{0x11, 0x30, 0x60, 0x21, 0x10, 0x00, 0x01, 0x11, 0x20, 0xE0, 0x00}
	_, vcn, err := DecodeDataRuns(buf, 0)
	require.NoError(t, err)
	require.Len(t, vcn.Runs, 3)

	require.EqualValues(t, 0x30, vcn.Runs[0].Length)
	require.EqualValues(t, 0x60, *vcn.Runs[0].Offset)

	require.EqualValues(t, 0x10, vcn.Runs[1].Length)
	require.EqualValues(t, 0x160, *vcn.Runs[1].Offset)

	require.EqualValues(t, 0x20, vcn.Runs[2].Length)
	require.EqualValues(t, 0x140, *vcn.Runs[2].Offset)
}

func TestVCNClusterCountSumsRunLengths(t *testing.T) {
	buf := []byte{0x21, 0x18, 0x34, 0x56, 0x00}
	_, vcn, err := DecodeDataRuns(buf, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0x18, vcn.ClusterCount())
}
