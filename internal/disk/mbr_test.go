package disk

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/scafiti/gofff/internal/bytewindow"
	"github.com/stretchr/testify/require"
)

func entryBytes(bootable byte, ptype MBRPartitionType, lba, count uint32) []byte {
	b := make([]byte, 16)
	b[0x00] = bootable
	b[0x04] = byte(ptype)
	binary.LittleEndian.PutUint32(b[0x08:0x0C], lba)
	binary.LittleEndian.PutUint32(b[0x0C:0x10], count)
	return b
}

func buildSector(entries [4][]byte) []byte {
	sector := make([]byte, 512)
	for i, e := range entries {
		if e == nil {
			continue
		}
		copy(sector[mbrPartitionTable+i*16:], e)
	}
	sector[0x1FE], sector[0x1FF] = 0x55, 0xAA
	return sector
}

func windowOver(data []byte) *bytewindow.ByteWindow {
	return bytewindow.New(bytes.NewReader(data), 0, uint64(len(data)))
}

func TestParseMBRSignatureRequired(t *testing.T) {
	data := make([]byte, 512)
	window := windowOver(data)
	counter := 0
	_, err := ParseMBR(window, 0, 0, nil, &counter)
	require.Error(t, err)
}

func TestParseMBRPartitionsAndGaps(t *testing.T) {
	sector := buildSector([4][]byte{
		entryBytes(0x80, PartitionTypeNTFSHPFSexFATQNX, 100, 900),
		entryBytes(0x00, PartitionTypeFAT32LBA, 2000, 1000),
		nil,
		nil,
	})
	window := windowOver(sector)
	counter := 0
	mbr, err := ParseMBR(window, 0, 0, nil, &counter)
	require.NoError(t, err)
	require.Len(t, mbr.Partitions, 2)
	require.Len(t, mbr.Unused, 2)

	AssignIndices(mbr)
	require.Equal(t, 1, mbr.Index)

	require.Len(t, mbr.Unallocated, 2) // before partition 1, between 1 and 2
	require.Equal(t, uint64(1), mbr.Unallocated[0].FirstSector)
	require.Equal(t, uint64(99), mbr.Unallocated[0].LastSector)
	require.Equal(t, uint64(1000), mbr.Unallocated[1].FirstSector)
	require.Equal(t, uint64(1999), mbr.Unallocated[1].LastSector)
}

func TestParseMBRExtendedRecursion(t *testing.T) {
	ebrSector := buildSector([4][]byte{
		entryBytes(0x00, PartitionTypeNTFSHPFSexFATQNX, 1, 100),
		nil, nil, nil,
	})
	top := buildSector([4][]byte{
		entryBytes(0x00, PartitionTypeExtendedLBA, 500, 200),
		nil, nil, nil,
	})

	full := make([]byte, 512*600)
	copy(full[0:], top)
	copy(full[500*512:], ebrSector)

	window := windowOver(full)
	counter := 0
	mbr, err := ParseMBR(window, 0, 0, nil, &counter)
	require.NoError(t, err)
	require.Len(t, mbr.Partitions, 1)
	require.NotNil(t, mbr.Partitions[0].EBR)
	require.Equal(t, 1, mbr.Partitions[0].EBR.Number)
	require.Len(t, mbr.Partitions[0].EBR.Partitions, 1)
	require.Equal(t, uint64(501), mbr.Partitions[0].EBR.Partitions[0].FirstSector())
}

func TestPartitionTypeIsExtended(t *testing.T) {
	require.True(t, PartitionTypeExtendedCHS.IsExtended())
	require.True(t, PartitionTypeExtendedLBA.IsExtended())
	require.False(t, PartitionTypeNTFSHPFSexFATQNX.IsExtended())
}
