package diskimage

import (
	"os"
	"testing"

	"github.com/scafiti/gofff/internal/disk"
	"github.com/stretchr/testify/require"
)

func writeTempImage(t *testing.T, data []byte) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "gofff-image-*.img")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestOpenRejectsTooSmallImage(t *testing.T) {
	path := writeTempImage(t, make([]byte, 10))
	_, err := Open(path)
	require.Error(t, err)
}

func TestOpenRejectsBadSignature(t *testing.T) {
	path := writeTempImage(t, make([]byte, 512))
	_, err := Open(path)
	require.Error(t, err)
}

func TestOpenParsesVolumeAndDetectsUnknown(t *testing.T) {
	data := make([]byte, 512*2000)
	// one bootable partition entry, type 0x07 (NTFS/exFAT), start=100, count=900
	entry := make([]byte, 16)
	entry[0x00] = 0x80
	entry[0x04] = byte(disk.PartitionTypeNTFSHPFSexFATQNX)
	entry[0x08], entry[0x09], entry[0x0A], entry[0x0B] = 100, 0, 0, 0
	entry[0x0C], entry[0x0D], entry[0x0E], entry[0x0F] = 0x84, 3, 0, 0 // 900 little-endian
	copy(data[0x1BE:], entry)
	data[0x1FE], data[0x1FF] = 0x55, 0xAA

	path := writeTempImage(t, data)
	img, err := Open(path)
	require.NoError(t, err)
	defer img.Close()

	require.Len(t, img.Volume.Partitions, 1)
	require.Equal(t, 1, img.Volume.Index)

	kind, err := img.DetectFilesystem(img.Volume.Partitions[0])
	require.NoError(t, err)
	require.Equal(t, "unknown", kind.String())
}
