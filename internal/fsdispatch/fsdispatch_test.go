package fsdispatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sectorWith(mutate func([]byte)) []byte {
	s := make([]byte, 512)
	mutate(s)
	return s
}

func TestDetectNTFS(t *testing.T) {
	sector := sectorWith(func(b []byte) {
		copy(b[3:11], []byte("NTFS    "))
		b[0x1FE], b[0x1FF] = 0x55, 0xAA
	})
	require.Equal(t, NTFS, New().Detect(sector))
}

func TestDetectFAT(t *testing.T) {
	sector := sectorWith(func(b []byte) {
		b[0x0B], b[0x0C] = 0x00, 0x02 // 512 bytes/sector
		b[0x0D] = 4                   // sectors/cluster
		b[0x1FE], b[0x1FF] = 0x55, 0xAA
	})
	require.Equal(t, FAT, New().Detect(sector))
}

func TestDetectUnknown(t *testing.T) {
	sector := sectorWith(func(b []byte) {})
	require.Equal(t, Unknown, New().Detect(sector))
}

func TestDetectTooShort(t *testing.T) {
	require.Equal(t, Unknown, New().Detect(make([]byte, 10)))
}
